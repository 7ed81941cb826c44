package domain

import "time"

// Store is a seller's shop. Every product belongs to exactly one store and
// every order is scoped to exactly one store.
type Store struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"-"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}
