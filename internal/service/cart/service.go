package cart

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// InvalidQuantityError indicates a cart entry with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

type userRepo interface {
	Cart(ctx context.Context, userID string) (map[string]int, error)
	SetCart(ctx context.Context, userID string, cart map[string]int) error
}

// Service persists the server-side cart. The client owns the cart state and
// replaces it wholesale on every sync, so there are no per-item operations.
type Service struct {
	users userRepo
	log   *zap.Logger
}

func New(users userRepo, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, log: log}
}

func (s *Service) Get(ctx context.Context, userID string) (map[string]int, error) {
	return s.users.Cart(ctx, userID)
}

// Replace overwrites the stored cart. A nil cart is stored as empty.
func (s *Service) Replace(ctx context.Context, userID string, cart map[string]int) error {
	for productID, qty := range cart {
		if qty <= 0 {
			return &InvalidQuantityError{ProductID: productID}
		}
	}
	if cart == nil {
		cart = map[string]int{}
	}
	if err := s.users.SetCart(ctx, userID, cart); err != nil {
		return fmt.Errorf("set cart: %w", err)
	}
	return nil
}
