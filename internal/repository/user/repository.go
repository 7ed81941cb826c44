package user

import (
	"context"

	"gocart/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Cart(ctx context.Context, userID string) (map[string]int, error)
	// SetCart replaces the whole cart map. An empty map clears it; clearing
	// an already-empty cart is a no-op by construction.
	SetCart(ctx context.Context, userID string, cart map[string]int) error
	GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error)
}
