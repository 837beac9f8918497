package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/mq"
)

// publish sends an activity message and only logs on failure; a broker outage
// never fails a user request.
func publish(ctx context.Context, pub mq.Publisher, logger *zap.Logger, msg mq.ActivityMessage) {
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	if err := pub.Publish(ctx, msg); err != nil {
		logger.Warn("failed to publish activity",
			zap.String("kind", string(msg.Kind)),
			zap.Error(err),
		)
	}
}

func withIdentity(msg mq.ActivityMessage, identity *model.Identity) mq.ActivityMessage {
	if identity != nil {
		msg.UserID = identity.ID
		msg.Role = string(identity.Role)
	}
	return msg
}
