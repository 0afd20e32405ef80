package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Products   *handlers.ProductsHandler
	Cart       *handlers.CartHandler
	Promotions *handlers.PromotionsHandler
	Admin      *handlers.AdminHandler
	Reports    *handlers.ReportsHandler
	Gate       *auth.Gate
}

// RegisterRoutes wires HTTP routes. The gate guards every request; the
// classifier and policy decide which ones actually need credentials.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	products := app.Group("/api/products")
	products.Get("/", cfg.Products.List)
	// fixed paths must precede the :id capture
	products.Get("/ai/suggestions", cfg.Products.EcoSuggestions)
	products.Get("/seller", cfg.Products.ListSeller)
	products.Get("/:id", cfg.Products.Get)
	products.Post("/", cfg.Products.Create)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)

	cart := app.Group("/api/cart")
	cart.Post("/", cfg.Cart.Add)
	cart.Get("/summary", cfg.Cart.Summary)
	cart.Post("/swap", cfg.Cart.Swap)
	cart.Delete("/:id", cfg.Cart.Remove)

	promotion := app.Group("/api/admin-request")
	promotion.Post("/request", cfg.Promotions.Request)
	promotion.Get("/pending", cfg.Promotions.Pending)
	promotion.Post("/approve/:id", cfg.Promotions.Approve)
	promotion.Post("/reject/:id", cfg.Promotions.Reject)
	promotion.Get("/has-pending", cfg.Promotions.HasPending)

	admin := app.Group("/api/admin")
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/sellers", cfg.Admin.ListSellers)
	admin.Post("/products/:id/eco-approve", cfg.Admin.ApproveEco)

	reports := app.Group("/api/reports")
	reports.Get("/user/impact", cfg.Reports.UserImpact)
}
