package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published to the domain-events topic.
const (
	TypeCouponCreated = "coupon.created"
	TypeOrderPlaced   = "order.placed"
	TypeOrderPaid     = "order.paid"
	TypeOrderCanceled = "order.canceled"
)

// Envelope wraps every published event.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Publisher writes domain events to Kafka. With no brokers configured it is
// disabled and every Publish is a no-op, so local setups run without Kafka.
// Publishing is best effort: failures are logged, never propagated, since no
// caller's request outcome depends on the event bus.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewPublisher(brokersCSV, topic string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &Publisher{log: log}
	}
	return &Publisher{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

func (p *Publisher) Publish(ctx context.Context, eventType, key string, payload any) {
	if !p.Enabled() {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Error("events: marshal payload", zap.String("type", eventType), zap.Error(err))
		return
	}
	env, err := json.Marshal(Envelope{Type: eventType, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		p.log.Error("events: marshal envelope", zap.String("type", eventType), zap.Error(err))
		return
	}
	msg := kafka.Message{Key: []byte(key), Value: env, Time: time.Now().UTC()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("events: publish", zap.String("type", eventType), zap.String("key", key), zap.Error(err))
	}
}

func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
