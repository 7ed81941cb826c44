package store

import (
	"context"

	"gocart/internal/domain"
)

type Repository interface {
	// GetActiveByOwner returns the caller's active store, used to authorize
	// seller-only operations.
	GetActiveByOwner(ctx context.Context, ownerUserID string) (*domain.Store, error)
}
