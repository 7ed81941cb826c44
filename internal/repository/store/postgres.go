package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gocart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetActiveByOwner(ctx context.Context, ownerUserID string) (*domain.Store, error) {
	const q = `
SELECT id::text, owner_user_id, name, is_active, created_at
FROM stores
WHERE owner_user_id = $1 AND is_active
LIMIT 1
`
	var s domain.Store
	err := r.pool.QueryRow(ctx, q, ownerUserID).Scan(&s.ID, &s.OwnerUserID, &s.Name, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
