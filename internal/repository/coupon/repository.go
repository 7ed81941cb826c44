package coupon

import (
	"context"

	"gocart/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	List(ctx context.Context) ([]domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Delete(ctx context.Context, code string) error
}
