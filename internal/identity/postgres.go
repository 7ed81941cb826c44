package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gocart/internal/domain"
)

// ErrInvalidToken indicates the provided token could not be validated.
var ErrInvalidToken = errors.New("invalid token")

// TokenStore is a Provider backed by the auth_tokens table: opaque random
// tokens with a server-side expiry, joined against the user row for the
// admin and plan flags.
type TokenStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenStore(pool *pgxpool.Pool, ttl time.Duration) *TokenStore {
	return &TokenStore{pool: pool, ttl: ttl, now: time.Now}
}

func (s *TokenStore) Resolve(ctx context.Context, token string) (*Identity, error) {
	const q = `
SELECT t.user_id, t.expires_at, u.is_admin, u.plan
FROM auth_tokens t
JOIN users u ON u.id = t.user_id
WHERE t.token = $1
`
	var (
		userID    string
		expiresAt time.Time
		admin     bool
		plan      string
	)
	err := s.pool.QueryRow(ctx, q, token).Scan(&userID, &expiresAt, &admin, &plan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if s.now().After(expiresAt) {
		_, _ = s.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE token = $1`, token)
		return nil, ErrInvalidToken
	}
	return &Identity{
		UserID:        userID,
		Admin:         admin,
		PremiumMember: plan == domain.PlanPlus,
	}, nil
}

// Issue creates a token for the given user, retrying on the unlikely
// collision of two identical random tokens.
func (s *TokenStore) Issue(ctx context.Context, userID string) (string, error) {
	expiresAt := s.now().Add(s.ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO auth_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
			token, userID, expiresAt,
		)
		if err == nil {
			return token, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("issue token: %w", domain.ErrAlreadyExists)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
