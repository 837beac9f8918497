package workflow

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/qs-lzh/concert-storefront/internal/mq"
)

type fakeAcknowledger struct {
	acked    int
	nacked   int
	requeued bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error { a.acked++; return nil }

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked++
	a.requeued = requeue
	return nil
}

func TestHandleActivityAcksAndLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := NewActivityWorkflow(zap.New(core))
	ack := &fakeAcknowledger{}

	body, err := json.Marshal(mq.ActivityMessage{
		Kind:       mq.ActivityPurchaseSubmitted,
		UserID:     4,
		OrderID:    55,
		Quantity:   2,
		OccurredAt: time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, w.handleActivity(amqp.Delivery{Acknowledger: ack, Body: body}))
	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)

	entries := logs.FilterMessage("storefront activity").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(mq.ActivityPurchaseSubmitted), entries[0].ContextMap()["kind"])
}

func TestHandleActivityDropsUnreadableMessages(t *testing.T) {
	w := NewActivityWorkflow(zap.NewNop())

	for _, body := range []string{`not json`, `{"user_id":1}`} {
		ack := &fakeAcknowledger{}
		assert.Error(t, w.handleActivity(amqp.Delivery{Acknowledger: ack, Body: []byte(body)}))
		assert.Equal(t, 1, ack.nacked)
		assert.False(t, ack.requeued)
		assert.Zero(t, ack.acked)
	}
}
