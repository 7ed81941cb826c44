package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gocart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.Logger) Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &postgresRepo{pool: pool, log: log}
}

func (r *postgresRepo) CreateWithItems(ctx context.Context, o *domain.Order) error {
	var couponJSON []byte
	if o.Coupon != nil {
		var err error
		couponJSON, err = json.Marshal(o.Coupon)
		if err != nil {
			return fmt.Errorf("marshal coupon snapshot: %w", err)
		}
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const orderQ = `
INSERT INTO orders (id, user_id, store_id, address_id, total, payment_method, is_paid, is_coupon_used, coupon)
VALUES ($1, $2, $3::uuid, $4::uuid, $5, $6, FALSE, $7, $8)
RETURNING created_at
`
	if err := tx.QueryRow(ctx, orderQ,
		o.ID, o.UserID, o.StoreID, o.AddressID, o.Total, string(o.PaymentMethod), o.IsCouponUsed, couponJSON,
	).Scan(&o.CreatedAt); err != nil {
		return err
	}

	const itemQ = `
INSERT INTO order_items (order_id, product_id, quantity, price)
VALUES ($1, $2::uuid, $3, $4)
`
	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, itemQ, o.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const q = `
SELECT COUNT(*)
FROM orders
WHERE user_id = $1
`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT o.id, o.user_id, o.store_id::text, o.address_id::text, o.total, o.payment_method,
       o.is_paid, o.is_coupon_used, o.coupon, o.created_at,
       a.id::text, a.name, a.street, a.city, a.state, a.zip, a.country, a.phone, a.created_at
FROM orders o
JOIN addresses a ON a.id = o.address_id
WHERE o.user_id = $1
  AND (o.payment_method = 'COD' OR (o.payment_method = 'ONLINE' AND o.is_paid))
ORDER BY o.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.log.Error("order repo: list by user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		var addr domain.Address
		var couponJSON []byte
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.StoreID, &o.AddressID, &o.Total, &o.PaymentMethod,
			&o.IsPaid, &o.IsCouponUsed, &couponJSON, &o.CreatedAt,
			&addr.ID, &addr.Name, &addr.Street, &addr.City, &addr.State, &addr.Zip, &addr.Country, &addr.Phone, &addr.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(couponJSON) > 0 {
			var c domain.Coupon
			if err := json.Unmarshal(couponJSON, &c); err == nil {
				o.Coupon = &c
			}
		}
		o.Address = &addr
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.fetchItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT i.order_id, i.product_id::text, i.quantity, i.price,
       p.id::text, p.store_id::text, p.name, p.description, p.price, p.in_stock, p.created_at
FROM order_items i
JOIN products p ON p.id = i.product_id
WHERE i.order_id = $1
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var p domain.Product
		if err := rows.Scan(
			&item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.InStock, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkPaid is idempotent: zero rows affected means the order is already paid
// or already gone, both of which are success for settlement purposes.
func (r *postgresRepo) MarkPaid(ctx context.Context, orderID string) error {
	const q = `
UPDATE orders
SET is_paid = TRUE
WHERE id = $1
`
	_, err := r.pool.Exec(ctx, q, orderID)
	return err
}

// Delete is idempotent: deleting a missing order is success. Line items go
// with the order via ON DELETE CASCADE.
func (r *postgresRepo) Delete(ctx context.Context, orderID string) error {
	const q = `
DELETE FROM orders
WHERE id = $1
`
	_, err := r.pool.Exec(ctx, q, orderID)
	return err
}
