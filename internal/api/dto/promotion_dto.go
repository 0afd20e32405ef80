package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/repository"
)

// PendingPromotionResponse is the admin view of a pending request.
type PendingPromotionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewPendingPromotionResponses maps repository rows.
func NewPendingPromotionResponses(pending []repository.PendingPromotion) []PendingPromotionResponse {
	out := make([]PendingPromotionResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, PendingPromotionResponse{
			ID:          p.ID,
			UserID:      p.UserID,
			Name:        p.UserName,
			Email:       p.UserEmail,
			RequestedAt: p.RequestedAt,
		})
	}
	return out
}

// SellerOverviewResponse is the admin view of a seller account.
type SellerOverviewResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProductCount int    `json:"product_count"`
}

// NewSellerOverviewResponses maps repository rows.
func NewSellerOverviewResponses(sellers []repository.SellerOverview) []SellerOverviewResponse {
	out := make([]SellerOverviewResponse, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, SellerOverviewResponse{
			ID:           s.ID,
			Name:         s.Name,
			Email:        s.Email,
			ProductCount: s.ProductCount,
		})
	}
	return out
}
