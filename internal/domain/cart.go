package domain

import "time"

// CartItem links a product into a user's cart. UserID is the owning user.
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
}
