package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gocart/internal/events"
	"gocart/internal/payment"
)

type sessionClient interface {
	SessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*payment.CheckoutSession, error)
}

type orderRepo interface {
	MarkPaid(ctx context.Context, orderID string) error
	Delete(ctx context.Context, orderID string) error
}

type userRepo interface {
	SetCart(ctx context.Context, userID string, cart map[string]int) error
}

// Service reconciles asynchronous payment outcomes against the orders
// created at checkout. Every path is idempotent: the processor redelivers
// notifications, and applying one twice must equal applying it once.
type Service struct {
	sessions sessionClient
	orders   orderRepo
	users    userRepo
	events   *events.Publisher
	log      *zap.Logger
}

func New(sessions sessionClient, orders orderRepo, users userRepo, publisher *events.Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		sessions: sessions,
		orders:   orders,
		users:    users,
		events:   publisher,
		log:      log,
	}
}

// HandleEvent applies a verified payment notification. Unrecognized event
// types are acknowledged without side effects.
func (s *Service) HandleEvent(ctx context.Context, evt *payment.Event) error {
	switch evt.Type {
	case payment.EventPaymentSucceeded:
		return s.settle(ctx, evt.PaymentIntentID, true)
	case payment.EventPaymentCanceled:
		return s.settle(ctx, evt.PaymentIntentID, false)
	default:
		s.log.Debug("settlement: ignoring event", zap.String("type", evt.Type))
		return nil
	}
}

func (s *Service) settle(ctx context.Context, paymentIntentID string, paid bool) error {
	sess, err := s.sessions.SessionByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			// Unrelated payment intents arrive on shared accounts; not an error.
			s.log.Info("settlement: no session for payment intent",
				zap.String("payment_intent_id", paymentIntentID))
			return nil
		}
		return fmt.Errorf("lookup session: %w", err)
	}

	if appID := sess.Metadata[payment.MetadataAppID]; appID != payment.AppID {
		s.log.Warn("settlement: foreign app id, skipping",
			zap.String("payment_intent_id", paymentIntentID),
			zap.String("app_id", appID))
		return nil
	}

	orderIDs := splitIDs(sess.Metadata[payment.MetadataOrderIDs])
	userID := sess.Metadata[payment.MetadataUserID]

	if paid {
		for _, id := range orderIDs {
			if err := s.orders.MarkPaid(ctx, id); err != nil {
				return fmt.Errorf("mark order %s paid: %w", id, err)
			}
		}
		if userID != "" {
			if err := s.users.SetCart(ctx, userID, map[string]int{}); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
		}
		s.log.Info("settlement: orders paid",
			zap.Strings("order_ids", orderIDs),
			zap.String("user_id", userID))
		for _, id := range orderIDs {
			s.events.Publish(ctx, events.TypeOrderPaid, id, map[string]any{"orderId": id, "userId": userID})
		}
		return nil
	}

	for _, id := range orderIDs {
		if err := s.orders.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete order %s: %w", id, err)
		}
	}
	s.log.Info("settlement: orders canceled",
		zap.Strings("order_ids", orderIDs),
		zap.String("user_id", userID))
	for _, id := range orderIDs {
		s.events.Publish(ctx, events.TypeOrderCanceled, id, map[string]any{"orderId": id, "userId": userID})
	}
	return nil
}

func splitIDs(csv string) []string {
	var ids []string
	for _, id := range strings.Split(csv, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
