package product

import (
	"context"

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

func (r *postgresRepo) ListPublic(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT p.id::text, p.store_id::text, p.name, p.description, p.price, p.in_stock, p.created_at,
       COALESCE(AVG(rt.rating), 0), COUNT(rt.id)
FROM products p
JOIN stores s ON s.id = p.store_id
LEFT JOIN ratings rt ON rt.product_id = p.id
WHERE p.in_stock AND s.is_active
GROUP BY p.id
ORDER BY p.created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.log.Error("product repo: list public", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		var avg float64
		var count int
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.InStock, &p.CreatedAt, &avg, &count); err != nil {
			return nil, err
		}
		if count > 0 {
			p.Rating = &domain.RatingSummary{Average: avg, Count: count}
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("product repo: list public rows", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `
SELECT id::text, store_id::text, name, description, price, in_stock, created_at
FROM products
WHERE id = ANY($1::uuid[])
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.log.Error("product repo: get by ids", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.InStock, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) ToggleStock(ctx context.Context, productID, storeID string) error {
	const q = `
UPDATE products
SET in_stock = NOT in_stock
WHERE id = $1::uuid AND store_id = $2::uuid
`
	cmd, err := r.pool.Exec(ctx, q, productID, storeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
