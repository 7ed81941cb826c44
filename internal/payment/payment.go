package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AppID tags every checkout session this system creates. Settlement ignores
// sessions carrying any other tag, since the processor account may be shared
// with other applications.
const AppID = "gocart"

// Metadata keys embedded into checkout sessions.
const (
	MetadataOrderIDs = "orderIds"
	MetadataUserID   = "userId"
	MetadataAppID    = "appId"
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails
	// verification against the shared secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrSessionNotFound is returned when no checkout session matches a
	// payment intent.
	ErrSessionNotFound = errors.New("checkout session not found")
)

// Event types the settlement handler acts on. Anything else is acknowledged
// without side effects.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentCanceled  = "payment_intent.canceled"
)

// Event is a verified payment-outcome notification.
type Event struct {
	Type            string
	PaymentIntentID string
}

// CheckoutSession describes a redirectable payment session.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
	Metadata        map[string]string
}

// CreateSessionInput carries everything needed to open a payment session for
// one checkout's aggregate total.
type CreateSessionInput struct {
	Amount     decimal.Decimal
	Currency   string
	OrderIDs   []string
	UserID     string
	SuccessURL string
	CancelURL  string
	ExpiresIn  time.Duration
}

// Client is the payment processor surface the services depend on. Stubbed in
// tests; implemented by StripeClient in production.
type Client interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (*CheckoutSession, error)
	SessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*CheckoutSession, error)
}

// WebhookParser verifies a raw notification body against the shared secret
// and returns the decoded event.
type WebhookParser interface {
	ParseEvent(payload []byte, sigHeader string) (*Event, error)
}
