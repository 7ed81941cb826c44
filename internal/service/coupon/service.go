package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gocart/internal/domain"
	"gocart/internal/events"
)

var (
	ErrMissingCode     = errors.New("coupon code required")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrExpiryInPast    = errors.New("expiry must be in the future")
)

type repository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	List(ctx context.Context) ([]domain.Coupon, error)
	Delete(ctx context.Context, code string) error
}

// Service manages the coupon catalog. Expiry enforcement lives in an
// external worker driven by the coupon.created event, which carries the
// expiry timestamp.
type Service struct {
	repo   repository
	events *events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func New(repo repository, publisher *events.Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, events: publisher, log: log, now: time.Now}
}

var hundred = decimal.NewFromInt(100)

// Create stores a new coupon. Codes are case-insensitive and stored in
// uppercase, matching the lookup done at checkout.
func (s *Service) Create(ctx context.Context, c *domain.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return ErrMissingCode
	}
	if !c.Discount.IsPositive() || c.Discount.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	if !c.ExpiresAt.After(s.now()) {
		return ErrExpiryInPast
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	s.log.Info("coupon created",
		zap.String("code", c.Code),
		zap.Time("expires_at", c.ExpiresAt))

	s.events.Publish(ctx, events.TypeCouponCreated, c.Code, map[string]any{
		"code":      c.Code,
		"expiresAt": c.ExpiresAt.UTC(),
	})
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrMissingCode
	}
	return s.repo.Delete(ctx, code)
}
