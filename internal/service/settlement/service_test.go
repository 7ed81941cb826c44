package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocart/internal/payment"
)

type sessionStub struct {
	sessions map[string]*payment.CheckoutSession
	err      error
}

func (s *sessionStub) SessionByPaymentIntent(_ context.Context, id string) (*payment.CheckoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	return sess, nil
}

type orderStub struct {
	paid      []string
	deleted   []string
	markErr   error
	deleteErr error
}

func (s *orderStub) MarkPaid(_ context.Context, orderID string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.paid = append(s.paid, orderID)
	return nil
}

func (s *orderStub) Delete(_ context.Context, orderID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, orderID)
	return nil
}

type userStub struct {
	carts map[string]map[string]int
}

func (s *userStub) SetCart(_ context.Context, userID string, cart map[string]int) error {
	if s.carts == nil {
		s.carts = map[string]map[string]int{}
	}
	s.carts[userID] = cart
	return nil
}

func session(orderIDs, userID, appID string) *payment.CheckoutSession {
	return &payment.CheckoutSession{
		ID: "cs_1",
		Metadata: map[string]string{
			payment.MetadataOrderIDs: orderIDs,
			payment.MetadataUserID:   userID,
			payment.MetadataAppID:    appID,
		},
	}
}

func TestHandleEventSucceeded(t *testing.T) {
	sessions := &sessionStub{sessions: map[string]*payment.CheckoutSession{
		"pi_1": session("o1,o2", "u1", payment.AppID),
	}}
	orders := &orderStub{}
	users := &userStub{}
	svc := New(sessions, orders, users, nil, nil)

	err := svc.HandleEvent(context.Background(), &payment.Event{
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"o1", "o2"}, orders.paid)
	assert.Empty(t, orders.deleted)

	cart, ok := users.carts["u1"]
	require.True(t, ok)
	assert.Empty(t, cart)
}

func TestHandleEventCanceled(t *testing.T) {
	sessions := &sessionStub{sessions: map[string]*payment.CheckoutSession{
		"pi_1": session("o1,o2", "u1", payment.AppID),
	}}
	orders := &orderStub{}
	users := &userStub{}
	svc := New(sessions, orders, users, nil, nil)

	err := svc.HandleEvent(context.Background(), &payment.Event{
		Type:            payment.EventPaymentCanceled,
		PaymentIntentID: "pi_1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"o1", "o2"}, orders.deleted)
	assert.Empty(t, orders.paid)
	// Canceled payments keep the cart intact so the buyer can retry.
	assert.Empty(t, users.carts)
}

// statefulOrderStub models the order table: MarkPaid flips a flag, Delete
// removes the row, and repeating either is a no-op.
type statefulOrderStub struct {
	orders    map[string]bool
	markCalls int
	delCalls  int
}

func (s *statefulOrderStub) MarkPaid(_ context.Context, orderID string) error {
	s.markCalls++
	if _, ok := s.orders[orderID]; ok {
		s.orders[orderID] = true
	}
	return nil
}

func (s *statefulOrderStub) Delete(_ context.Context, orderID string) error {
	s.delCalls++
	delete(s.orders, orderID)
	return nil
}

func TestHandleEventSucceededRedelivery(t *testing.T) {
	sessions := &sessionStub{sessions: map[string]*payment.CheckoutSession{
		"pi_1": session("o1,o2", "u1", payment.AppID),
	}}
	orders := &statefulOrderStub{orders: map[string]bool{"o1": false, "o2": false}}
	users := &userStub{}
	svc := New(sessions, orders, users, nil, nil)

	evt := &payment.Event{Type: payment.EventPaymentSucceeded, PaymentIntentID: "pi_1"}
	require.NoError(t, svc.HandleEvent(context.Background(), evt))

	want := map[string]bool{"o1": true, "o2": true}
	require.Equal(t, want, orders.orders)

	// A redelivered notification must leave the same end state.
	require.NoError(t, svc.HandleEvent(context.Background(), evt))
	assert.Equal(t, want, orders.orders)
	assert.Equal(t, 4, orders.markCalls)
	assert.Empty(t, users.carts["u1"])
}

func TestHandleEventCanceledRedelivery(t *testing.T) {
	sessions := &sessionStub{sessions: map[string]*payment.CheckoutSession{
		"pi_1": session("o1,o2", "u1", payment.AppID),
	}}
	orders := &statefulOrderStub{orders: map[string]bool{"o1": false, "o2": false}}
	users := &userStub{}
	svc := New(sessions, orders, users, nil, nil)

	evt := &payment.Event{Type: payment.EventPaymentCanceled, PaymentIntentID: "pi_1"}
	require.NoError(t, svc.HandleEvent(context.Background(), evt))
	require.Empty(t, orders.orders)

	require.NoError(t, svc.HandleEvent(context.Background(), evt))
	assert.Empty(t, orders.orders)
	assert.Equal(t, 4, orders.delCalls)
}

func TestHandleEventUnknownTypeIsNoop(t *testing.T) {
	orders := &orderStub{}
	svc := New(&sessionStub{}, orders, &userStub{}, nil, nil)

	err := svc.HandleEvent(context.Background(), &payment.Event{Type: "charge.refunded"})
	require.NoError(t, err)
	assert.Empty(t, orders.paid)
	assert.Empty(t, orders.deleted)
}

func TestHandleEventMissingSessionIsNoop(t *testing.T) {
	orders := &orderStub{}
	svc := New(&sessionStub{}, orders, &userStub{}, nil, nil)

	err := svc.HandleEvent(context.Background(), &payment.Event{
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_unknown",
	})
	require.NoError(t, err)
	assert.Empty(t, orders.paid)
}

func TestHandleEventForeignAppIsSkipped(t *testing.T) {
	sessions := &sessionStub{sessions: map[string]*payment.CheckoutSession{
		"pi_1": session("o1", "u1", "other-shop"),
	}}
	orders := &orderStub{}
	users := &userStub{}
	svc := New(sessions, orders, users, nil, nil)

	err := svc.HandleEvent(context.Background(), &payment.Event{
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	})
	require.NoError(t, err)
	assert.Empty(t, orders.paid)
	assert.Empty(t, users.carts)
}

func TestHandleEventLookupFailure(t *testing.T) {
	sessions := &sessionStub{err: errors.New("network")}
	svc := New(sessions, &orderStub{}, &userStub{}, nil, nil)

	err := svc.HandleEvent(context.Background(), &payment.Event{
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	})
	require.Error(t, err)
}

func TestHandleEventMarkPaidFailure(t *testing.T) {
	sessions := &sessionStub{sessions: map[string]*payment.CheckoutSession{
		"pi_1": session("o1", "u1", payment.AppID),
	}}
	orders := &orderStub{markErr: errors.New("db down")}
	users := &userStub{}
	svc := New(sessions, orders, users, nil, nil)

	err := svc.HandleEvent(context.Background(), &payment.Event{
		Type:            payment.EventPaymentSucceeded,
		PaymentIntentID: "pi_1",
	})
	require.Error(t, err)
	assert.Empty(t, users.carts)
}
