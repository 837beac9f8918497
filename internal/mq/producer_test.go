package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeActivityMessage(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	body, err := encodeMessage(ActivityMessage{
		Kind:       ActivityPurchaseSubmitted,
		UserID:     3,
		OrderID:    42,
		TicketType: 10,
		Quantity:   2,
		OccurredAt: at,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "purchase.submitted", decoded["kind"])
	assert.EqualValues(t, 42, decoded["order_id"])
	assert.EqualValues(t, 10, decoded["ticket_type_id"])
	assert.NotContains(t, decoded, "detail")
}

func TestRecordingPublisher(t *testing.T) {
	var pub RecordingPublisher
	require.NoError(t, pub.Publish(context.Background(), ActivityMessage{Kind: ActivityLogin}))
	require.NoError(t, NopPublisher{}.Publish(context.Background(), ActivityMessage{Kind: ActivityLogout}))

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, ActivityLogin, msgs[0].Kind)
}
