package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// AdminHandler exposes admin-only account and certification views.
type AdminHandler struct {
	admin    *service.AdminService
	products *service.ProductService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, products *service.ProductService) *AdminHandler {
	return &AdminHandler{admin: admin, products: products}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  string(user.Role),
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// ListSellers handles GET /api/admin/sellers.
func (h *AdminHandler) ListSellers(c *fiber.Ctx) error {
	sellers, err := h.admin.ListSellers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSellerOverviewResponses(sellers)})
}

// ApproveEco handles POST /api/admin/products/:id/eco-approve.
func (h *AdminHandler) ApproveEco(c *fiber.Ctx) error {
	if err := h.products.ApproveEcoCertification(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "product eco-certified"})
}
