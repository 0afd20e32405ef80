package dto

import (
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// CartAddRequest payload for adding a product to the cart.
type CartAddRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SwapRequest payload for swapping a cart item to an eco alternative.
type SwapRequest struct {
	CartItemID   string `json:"cart_item_id"`
	NewProductID string `json:"new_product_id"`
}

// CartLineResponse pairs an item with its product.
type CartLineResponse struct {
	ItemID   string          `json:"item_id"`
	Quantity int             `json:"quantity"`
	Product  ProductResponse `json:"product"`
}

// CartSummaryResponse is the cart with eco totals.
type CartSummaryResponse struct {
	Items             []CartLineResponse `json:"items"`
	TotalPrice        float64            `json:"total_price"`
	TotalCarbonImpact float64            `json:"total_carbon_impact"`
	EcoItemCount      int                `json:"eco_item_count"`
}

// NewCartSummaryResponse maps a service summary.
func NewCartSummaryResponse(summary *service.CartSummary) CartSummaryResponse {
	resp := CartSummaryResponse{
		Items:             make([]CartLineResponse, 0, len(summary.Lines)),
		TotalPrice:        summary.TotalPrice,
		TotalCarbonImpact: summary.TotalCarbonImpact,
		EcoItemCount:      summary.EcoItemCount,
	}
	for i := range summary.Lines {
		resp.Items = append(resp.Items, newCartLineResponse(&summary.Lines[i]))
	}
	return resp
}

func newCartLineResponse(line *repository.CartLine) CartLineResponse {
	return CartLineResponse{
		ItemID:   line.Item.ID,
		Quantity: line.Item.Quantity,
		Product:  NewProductResponse(&line.Product),
	}
}
