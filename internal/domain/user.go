package domain

import "time"

// User is the domain model for marketplace accounts. Role is a single
// stored value; tokens may widen it into a role set.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
