package events

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductCreated     EventType = "product_created"
	EventProductUpdated     EventType = "product_updated"
	EventProductDeleted     EventType = "product_deleted"
	EventCartItemAdded      EventType = "cart_item_added"
	EventPromotionRequested EventType = "promotion_requested"
	EventPromotionDecided   EventType = "promotion_decided"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProductPayload describes product lifecycle events.
type ProductPayload struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	SellerID     string  `json:"seller_id"`
	EcoRequested bool    `json:"eco_requested"`
	CarbonImpact float64 `json:"carbon_impact"`
}

// CartItemAddedPayload describes a cart insertion.
type CartItemAddedPayload struct {
	CartItemID string `json:"cart_item_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
}

// PromotionRequestedPayload describes a new pending promotion request.
type PromotionRequestedPayload struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id"`
}

// PromotionDecidedPayload describes a terminal promotion decision.
type PromotionDecidedPayload struct {
	RequestID string                 `json:"request_id"`
	Status    domain.PromotionStatus `json:"status"`
	UserID    string                 `json:"user_id,omitempty"`
}
