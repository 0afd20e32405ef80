package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// ReportsHandler exposes user-scoped report endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// UserImpact handles GET /api/reports/user/impact.
func (h *ReportsHandler) UserImpact(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	report, err := h.reports.UserImpact(c.Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"item_count":          report.ItemCount,
		"total_price":         report.TotalPrice,
		"total_carbon_impact": report.TotalCarbonImpact,
		"eco_item_count":      report.EcoItemCount,
		"eco_share":           report.EcoShare,
	}})
}
