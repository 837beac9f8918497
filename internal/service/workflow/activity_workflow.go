package workflow

import (
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/monitoring"
	"github.com/qs-lzh/concert-storefront/internal/mq"
)

// ActivityWorkflow drains the storefront activity queue into the log and the
// activity counters.
type ActivityWorkflow struct {
	logger *zap.Logger
}

func NewActivityWorkflow(logger *zap.Logger) *ActivityWorkflow {
	return &ActivityWorkflow{logger: logger}
}

func (w *ActivityWorkflow) Start(mqConn *amqp.Connection) error {
	if err := w.ConsumeActivity(mqConn); err != nil {
		return err
	}
	return nil
}

func (w *ActivityWorkflow) ConsumeActivity(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.StorefrontActivityQueue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handleActivity(msg); err != nil {
				w.logger.Warn("failed to handle activity", zap.Error(err))
			}
		}
	}()

	return nil
}

// handleActivity acks every readable message. Unreadable ones are dropped
// without requeue.
func (w *ActivityWorkflow) handleActivity(msg amqp.Delivery) error {
	var message mq.ActivityMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return fmt.Errorf("failed to decode activity: %w", err)
	}
	if message.Kind == "" {
		msg.Nack(false, false)
		return errors.New("activity without kind")
	}

	monitoring.TrackActivity(string(message.Kind))
	w.logger.Info("storefront activity",
		zap.String("kind", string(message.Kind)),
		zap.Uint("user_id", message.UserID),
		zap.String("role", message.Role),
		zap.Uint("order_id", message.OrderID),
		zap.Int("quantity", message.Quantity),
		zap.String("detail", message.Detail),
		zap.Time("occurred_at", message.OccurredAt),
	)

	msg.Ack(false)
	return nil
}
