package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits storefront activity. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, msg ActivityMessage) error
}

func encodeMessage(message any) ([]byte, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return body, nil
}

func SendImmediateMessage(ctx context.Context, ch *amqp.Channel, queueName string, message any) error {
	body, err := encodeMessage(message)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx,
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to queue %s: %w", queueName, err)
	}

	return nil
}

// Producer serializes publishes on one shared channel.
type Producer struct {
	mu sync.Mutex
	ch *amqp.Channel
}

var _ Publisher = (*Producer)(nil)

func NewProducer(conn *amqp.Connection) (*Producer, error) {
	ch, err := NewChannel(conn)
	if err != nil {
		return nil, err
	}
	return &Producer{ch: ch}, nil
}

func (p *Producer) Publish(ctx context.Context, msg ActivityMessage) error {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return SendImmediateMessage(ctx, p.ch, StorefrontActivityQueue, msg)
}

func (p *Producer) Close() error {
	return p.ch.Close()
}

// NopPublisher drops every message. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ActivityMessage) error { return nil }

// RecordingPublisher keeps messages in memory.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []ActivityMessage
}

func (r *RecordingPublisher) Publish(_ context.Context, msg ActivityMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *RecordingPublisher) Messages() []ActivityMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ActivityMessage(nil), r.messages...)
}
