package service

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ReportService derives per-user impact figures from cart contents.
type ReportService struct {
	carts *CartService
}

// NewReportService builds the service.
func NewReportService(carts *CartService) *ReportService {
	return &ReportService{carts: carts}
}

// ImpactReport summarizes the environmental footprint of a user's cart.
type ImpactReport struct {
	ItemCount         int
	TotalPrice        float64
	TotalCarbonImpact float64
	EcoItemCount      int
	EcoShare          float64
}

// UserImpact computes the acting user's impact report.
func (s *ReportService) UserImpact(ctx context.Context, identity *domain.Identity) (*ImpactReport, error) {
	summary, err := s.carts.Summary(ctx, identity)
	if err != nil {
		return nil, err
	}

	report := &ImpactReport{
		ItemCount:         len(summary.Lines),
		TotalPrice:        summary.TotalPrice,
		TotalCarbonImpact: summary.TotalCarbonImpact,
		EcoItemCount:      summary.EcoItemCount,
	}
	if report.ItemCount > 0 {
		report.EcoShare = float64(report.EcoItemCount) / float64(report.ItemCount)
	}
	return report, nil
}
