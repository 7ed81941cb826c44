package user

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id, email, name, is_admin, plan, cart, created_at
FROM users
WHERE id = $1
`
	var u domain.User
	err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.Name, &u.Admin, &u.Plan, &u.Cart, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if u.Cart == nil {
		u.Cart = map[string]int{}
	}
	return &u, nil
}

func (r *postgresRepo) Cart(ctx context.Context, userID string) (map[string]int, error) {
	const q = `
SELECT cart
FROM users
WHERE id = $1
`
	var cart map[string]int
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&cart); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if cart == nil {
		cart = map[string]int{}
	}
	return cart, nil
}

func (r *postgresRepo) SetCart(ctx context.Context, userID string, cart map[string]int) error {
	const q = `
UPDATE users
SET cart = $1
WHERE id = $2
`
	if cart == nil {
		cart = map[string]int{}
	}
	cmd, err := r.pool.Exec(ctx, q, cart, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	const q = `
SELECT id::text, user_id, name, street, city, state, zip, country, phone, created_at
FROM addresses
WHERE user_id = $1 AND id = $2::uuid
`
	var a domain.Address
	err := r.pool.QueryRow(ctx, q, userID, addressID).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Street, &a.City, &a.State, &a.Zip, &a.Country, &a.Phone, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
