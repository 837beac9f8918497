package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/mq"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

type SessionWorkflow struct {
	sessions  domain.SessionService
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewSessionWorkflow(sessions domain.SessionService, publisher mq.Publisher, logger *zap.Logger) *SessionWorkflow {
	return &SessionWorkflow{
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
	}
}

func (w *SessionWorkflow) Login(ctx context.Context, sid, email, password string) (*model.Identity, error) {
	identity, err := w.sessions.Login(ctx, sid, email, password)
	if err != nil {
		return nil, err
	}
	w.logger.Info("user logged in", zap.Uint("user_id", identity.ID), zap.String("role", string(identity.Role)))
	publish(ctx, w.publisher, w.logger, withIdentity(mq.ActivityMessage{Kind: mq.ActivityLogin}, identity))
	return identity, nil
}

func (w *SessionWorkflow) Logout(ctx context.Context, session domain.Session) error {
	if err := w.sessions.Logout(ctx, session.ID); err != nil {
		return err
	}
	if session.Authenticated() {
		publish(ctx, w.publisher, w.logger, withIdentity(mq.ActivityMessage{Kind: mq.ActivityLogout}, session.Identity))
	}
	return nil
}

func (w *SessionWorkflow) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := w.sessions.Register(ctx, req); err != nil {
		return err
	}
	publish(ctx, w.publisher, w.logger, mq.ActivityMessage{Kind: mq.ActivityRegister, Role: string(req.Role), Detail: req.Email})
	return nil
}
