package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// CartHandler exposes the end-user cart endpoints.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler constructs handler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}

	var req dto.CartAddRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProductID == "" {
		return fiber.NewError(http.StatusBadRequest, "product_id required")
	}

	item, err := h.carts.AddItem(c.Context(), identity, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":         item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	}})
}

// Summary handles GET /api/cart/summary.
func (h *CartHandler) Summary(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	summary, err := h.carts.Summary(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCartSummaryResponse(summary)})
}

// Remove handles DELETE /api/cart/:id.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	if err := h.carts.RemoveItem(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "item removed from cart"})
}

// Swap handles POST /api/cart/swap.
func (h *CartHandler) Swap(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}

	var req dto.SwapRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CartItemID == "" || req.NewProductID == "" {
		return fiber.NewError(http.StatusBadRequest, "cart_item_id and new_product_id required")
	}

	if err := h.carts.SwapToEco(c.Context(), identity, req.CartItemID, req.NewProductID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "cart item swapped to eco alternative"})
}
