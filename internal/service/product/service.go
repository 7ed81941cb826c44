package product

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gocart/internal/domain"
)

var (
	// ErrNotSeller is returned when the caller has no active store.
	ErrNotSeller = errors.New("no active store for user")
	// ErrProductNotFound is returned when a product does not exist or is not
	// owned by the caller's store.
	ErrProductNotFound = errors.New("product not found")
	ErrMissingProduct  = errors.New("product id required")
)

type productRepo interface {
	ListPublic(ctx context.Context) ([]domain.Product, error)
	ToggleStock(ctx context.Context, productID, storeID string) error
}

type storeRepo interface {
	GetActiveByOwner(ctx context.Context, ownerUserID string) (*domain.Store, error)
}

// Service serves the public catalog and seller stock management.
type Service struct {
	products productRepo
	stores   storeRepo
	log      *zap.Logger
}

func New(products productRepo, stores storeRepo, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{products: products, stores: stores, log: log}
}

// ListPublic returns the storefront catalog.
func (s *Service) ListPublic(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListPublic(ctx)
}

// ToggleStock flips a product's availability. The product must belong to the
// caller's active store; ownership is enforced in the update itself so a
// seller can never touch another store's product.
func (s *Service) ToggleStock(ctx context.Context, ownerUserID, productID string) error {
	if productID == "" {
		return ErrMissingProduct
	}
	st, err := s.stores.GetActiveByOwner(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNotSeller
		}
		return fmt.Errorf("lookup store: %w", err)
	}
	if err := s.products.ToggleStock(ctx, productID, st.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("toggle stock: %w", err)
	}
	s.log.Info("stock toggled",
		zap.String("product_id", productID),
		zap.String("store_id", st.ID))
	return nil
}
