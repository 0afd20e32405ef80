package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProductRequest payload for create/update.
type ProductRequest struct {
	Name         string  `json:"name"`
	Details      string  `json:"details"`
	Price        float64 `json:"price"`
	CarbonImpact float64 `json:"carbon_impact"`
	ImageURL     string  `json:"image_url"`
	EcoRequested bool    `json:"eco_requested"`
}

// ProductResponse is the public product shape.
type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Details      string    `json:"details"`
	Price        float64   `json:"price"`
	CarbonImpact float64   `json:"carbon_impact"`
	ImageURL     string    `json:"image_url"`
	EcoCertified bool      `json:"eco_certified"`
	EcoRequested bool      `json:"eco_requested"`
	SellerID     string    `json:"seller_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Details:      p.Details,
		Price:        p.Price,
		CarbonImpact: p.CarbonImpact,
		ImageURL:     p.ImageURL,
		EcoCertified: p.EcoCertified,
		EcoRequested: p.EcoRequested,
		SellerID:     p.SellerID,
		CreatedAt:    p.CreatedAt,
	}
}

// NewProductResponses maps a slice of domain products.
func NewProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
