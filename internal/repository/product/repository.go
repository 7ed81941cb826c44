package product

import (
	"context"

	"gocart/internal/domain"
)

type Repository interface {
	// ListPublic returns in-stock products whose owning store is active,
	// newest first, with aggregated rating data.
	ListPublic(ctx context.Context) ([]domain.Product, error)
	// GetByIDs resolves products in one batch. Missing ids are simply absent
	// from the result; callers decide whether that is an error.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	// ToggleStock flips in_stock for a product owned by the given store.
	ToggleStock(ctx context.Context, productID, storeID string) error
}
