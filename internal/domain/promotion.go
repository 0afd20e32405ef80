package domain

import "time"

// PromotionStatus enumerates admin-promotion request states.
type PromotionStatus string

const (
	PromotionStatusPending  PromotionStatus = "PENDING"
	PromotionStatusApproved PromotionStatus = "APPROVED"
	PromotionStatusRejected PromotionStatus = "REJECTED"
)

// PromotionRequest tracks a user's request to be promoted to admin.
// Requests are never deleted; decided requests remain as an audit trail.
type PromotionRequest struct {
	ID          string
	UserID      string
	Status      PromotionStatus
	RequestedAt time.Time
	DecidedAt   *time.Time
}
