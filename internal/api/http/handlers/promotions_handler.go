package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// PromotionsHandler exposes the admin-promotion workflow endpoints.
type PromotionsHandler struct {
	promotions *service.PromotionService
}

// NewPromotionsHandler constructs handler.
func NewPromotionsHandler(promotions *service.PromotionService) *PromotionsHandler {
	return &PromotionsHandler{promotions: promotions}
}

// Request handles POST /api/admin-request/request.
func (h *PromotionsHandler) Request(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	if _, err := h.promotions.RequestAccess(c.Context(), identity); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "admin access requested successfully"})
}

// Pending handles GET /api/admin-request/pending.
func (h *PromotionsHandler) Pending(c *fiber.Ctx) error {
	pending, err := h.promotions.ListPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPendingPromotionResponses(pending)})
}

// Approve handles POST /api/admin-request/approve/:id.
func (h *PromotionsHandler) Approve(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	if err := h.promotions.Approve(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user promoted to admin successfully"})
}

// Reject handles POST /api/admin-request/reject/:id.
func (h *PromotionsHandler) Reject(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	if err := h.promotions.Reject(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "admin request rejected"})
}

// HasPending handles GET /api/admin-request/has-pending. Any authenticated
// identity may poll it; it backs the admin badge indicator.
func (h *PromotionsHandler) HasPending(c *fiber.Ctx) error {
	pending, err := h.promotions.HasPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"has_pending": pending}})
}
