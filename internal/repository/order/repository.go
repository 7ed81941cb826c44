package order

import (
	"context"

	"gocart/internal/domain"
)

type Repository interface {
	// CreateWithItems persists an order and its line items in one
	// transaction, so an order is never visible without its items.
	CreateWithItems(ctx context.Context, o *domain.Order) error
	CountByUser(ctx context.Context, userID string) (int, error)
	// ListByUser returns the user's visible orders: COD orders plus paid
	// online orders, newest first, with items and address attached.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// MarkPaid sets is_paid. Re-marking a paid or deleted order is a no-op.
	MarkPaid(ctx context.Context, orderID string) error
	// Delete removes an order (items cascade). Deleting an already-deleted
	// order is a no-op.
	Delete(ctx context.Context, orderID string) error
}
