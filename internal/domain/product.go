package domain

import "time"

// Product is an owned marketplace listing. SellerID is set at creation and
// never changes afterwards.
type Product struct {
	ID           string
	Name         string
	Details      string
	Price        float64
	CarbonImpact float64
	ImageURL     string
	EcoCertified bool
	EcoRequested bool
	SellerID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
