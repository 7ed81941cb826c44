package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type userSeed struct {
	ID      string
	Email   string
	Name    string
	IsAdmin bool
	Plan    string
}

type productSeed struct {
	Name        string
	Description string
	Price       string
	InStock     bool
}

// Apply inserts demo data for manual testing: two sellers with a store each,
// a buyer, an admin, a handful of products, and two coupons. Idempotent via
// ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := []userSeed{
		{ID: "user_admin", Email: "admin@gocart.dev", Name: "Admin", IsAdmin: true, Plan: "free"},
		{ID: "user_buyer", Email: "buyer@gocart.dev", Name: "Buyer", Plan: "free"},
		{ID: "user_plus", Email: "plus@gocart.dev", Name: "Plus Buyer", Plan: "plus"},
		{ID: "user_seller_a", Email: "seller-a@gocart.dev", Name: "Seller A", Plan: "free"},
		{ID: "user_seller_b", Email: "seller-b@gocart.dev", Name: "Seller B", Plan: "free"},
	}
	for _, u := range users {
		if err := upsertUser(ctx, pool, u); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.ID, err)
		}
	}

	for _, u := range []string{"user_buyer", "user_plus"} {
		if err := ensureAddress(ctx, pool, u); err != nil {
			return fmt.Errorf("ensure address for %s: %w", u, err)
		}
	}

	storeA, err := ensureStore(ctx, pool, "user_seller_a", "Gadget Garage")
	if err != nil {
		return fmt.Errorf("ensure store: %w", err)
	}
	storeB, err := ensureStore(ctx, pool, "user_seller_b", "Home Harbor")
	if err != nil {
		return fmt.Errorf("ensure store: %w", err)
	}

	productsA := []productSeed{
		{Name: "Mechanical Keyboard", Description: "Hot-swappable switches", Price: "89.99", InStock: true},
		{Name: "USB-C Hub", Description: "7-in-1 aluminium hub", Price: "34.50", InStock: true},
	}
	productsB := []productSeed{
		{Name: "Ceramic Mug", Description: "Stoneware, 350ml", Price: "12.99", InStock: true},
		{Name: "Linen Throw", Description: "Washed linen, 130x170cm", Price: "45.00", InStock: false},
	}
	for _, p := range productsA {
		if err := upsertProduct(ctx, pool, storeA, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	for _, p := range productsB {
		if err := upsertProduct(ctx, pool, storeB, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	if err := upsertCoupon(ctx, pool, "WELCOME10", "10% off your first order", "10", true, false); err != nil {
		return fmt.Errorf("upsert coupon: %w", err)
	}
	if err := upsertCoupon(ctx, pool, "PLUS20", "20% off for plus members", "20", false, true); err != nil {
		return fmt.Errorf("upsert coupon: %w", err)
	}

	return nil
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u userSeed) error {
	const q = `
INSERT INTO users (id, email, name, is_admin, plan)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name,
    is_admin = EXCLUDED.is_admin, plan = EXCLUDED.plan
`
	_, err := pool.Exec(ctx, q, u.ID, u.Email, u.Name, u.IsAdmin, u.Plan)
	return err
}

func ensureAddress(ctx context.Context, pool *pgxpool.Pool, userID string) error {
	const q = `
INSERT INTO addresses (user_id, name, street, city, state, zip, country)
SELECT $1, 'Home', '1 Demo Street', 'Springfield', 'IL', '62701', 'US'
WHERE NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1)
`
	_, err := pool.Exec(ctx, q, userID)
	return err
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, ownerID, name string) (string, error) {
	const q = `
SELECT id::text FROM stores WHERE owner_user_id = $1
`
	var id string
	err := pool.QueryRow(ctx, q, ownerID).Scan(&id)
	if err == nil {
		return id, nil
	}

	const ins = `
INSERT INTO stores (owner_user_id, name, is_active)
VALUES ($1, $2, TRUE)
RETURNING id::text
`
	if err := pool.QueryRow(ctx, ins, ownerID, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, storeID string, p productSeed) error {
	const q = `
INSERT INTO products (store_id, name, description, price, in_stock)
SELECT $1, $2, $3, $4::numeric, $5
WHERE NOT EXISTS (SELECT 1 FROM products WHERE store_id = $1 AND name = $2)
`
	_, err := pool.Exec(ctx, q, storeID, p.Name, p.Description, p.Price, p.InStock)
	return err
}

func upsertCoupon(ctx context.Context, pool *pgxpool.Pool, code, description, discount string, forNewUser, forMember bool) error {
	const q = `
INSERT INTO coupons (code, description, discount, for_new_user, for_member, expires_at)
VALUES ($1, $2, $3::numeric, $4, $5, $6)
ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description,
    discount = EXCLUDED.discount, for_new_user = EXCLUDED.for_new_user,
    for_member = EXCLUDED.for_member, expires_at = EXCLUDED.expires_at
`
	_, err := pool.Exec(ctx, q, code, description, discount, forNewUser, forMember,
		time.Now().AddDate(0, 1, 0))
	return err
}
