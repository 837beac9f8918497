package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/mq"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

type PaymentWorkflow struct {
	payments  domain.PaymentService
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewPaymentWorkflow(payments domain.PaymentService, publisher mq.Publisher, logger *zap.Logger) *PaymentWorkflow {
	return &PaymentWorkflow{
		payments:  payments,
		publisher: publisher,
		logger:    logger,
	}
}

func (w *PaymentWorkflow) UploadSlip(ctx context.Context, client *api.Client, identity *model.Identity,
	order *model.Order, slip domain.Slip) (*api.VerifySlipResponse, error) {
	resp, err := w.payments.UploadSlip(ctx, client, order, slip)
	if err != nil {
		return nil, err
	}
	publish(ctx, w.publisher, w.logger, withIdentity(mq.ActivityMessage{
		Kind:    mq.ActivitySlipUploaded,
		OrderID: order.ID,
		Detail:  resp.Message,
	}, identity))
	return resp, nil
}

func (w *PaymentWorkflow) ConfirmManually(ctx context.Context, client *api.Client, identity *model.Identity,
	order *model.Order) error {
	var role model.Role
	if identity != nil {
		role = identity.Role
	}
	if err := w.payments.ConfirmManually(ctx, client, role, order); err != nil {
		return err
	}
	w.logger.Info("payment confirmed manually", zap.Uint("order_id", order.ID))
	publish(ctx, w.publisher, w.logger, withIdentity(mq.ActivityMessage{
		Kind:    mq.ActivityPaymentConfirmed,
		OrderID: order.ID,
	}, identity))
	return nil
}
