package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/monitoring"
	"github.com/qs-lzh/concert-storefront/internal/mq"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

const (
	PurchaseResultSuccess      = "success"
	PurchaseResultGuarded      = "guard_rejected"
	PurchaseResultDuplicate    = "already_submitting"
	PurchaseResultBackendError = "backend_error"
)

type PurchaseWorkflow struct {
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewPurchaseWorkflow(publisher mq.Publisher, logger *zap.Logger) *PurchaseWorkflow {
	return &PurchaseWorkflow{
		publisher: publisher,
		logger:    logger,
	}
}

// Purchase selects the ticket type and quantity on a fresh flow over the
// event snapshot and submits it once.
func (w *PurchaseWorkflow) Purchase(ctx context.Context, event *model.Event, identity *model.Identity,
	purchaser domain.Purchaser, ticketTypeID uint, quantity int) (*domain.PurchaseFlow, error) {
	flow := domain.NewPurchaseFlow(event)
	if err := flow.Select(ticketTypeID); err != nil {
		monitoring.TrackPurchase(PurchaseResultGuarded)
		return flow, err
	}
	if err := flow.SetQuantity(quantity); err != nil {
		monitoring.TrackPurchase(PurchaseResultGuarded)
		return flow, err
	}
	_, err := w.Submit(ctx, flow, identity, purchaser)
	return flow, err
}

func (w *PurchaseWorkflow) Submit(ctx context.Context, flow *domain.PurchaseFlow, identity *model.Identity,
	purchaser domain.Purchaser) (uint, error) {
	orderID, err := flow.Submit(ctx, purchaser)
	result := purchaseResult(err)
	monitoring.TrackPurchase(result)

	msg := mq.ActivityMessage{
		Kind:     mq.ActivityPurchaseSubmitted,
		OrderID:  orderID,
		Quantity: flow.Quantity(),
	}
	if tt := flow.TicketType(); tt != nil {
		msg.TicketType = tt.ID
	}

	switch result {
	case PurchaseResultSuccess:
		w.logger.Info("purchase submitted", zap.Uint("order_id", orderID), zap.Uint("ticket_type_id", msg.TicketType))
	case PurchaseResultBackendError:
		msg.Kind = mq.ActivityPurchaseFailed
		if backendMsg, ok := api.BackendMessage(err); ok {
			msg.Detail = backendMsg
		}
		w.logger.Warn("purchase rejected by backend", zap.Int("status", api.StatusCode(err)), zap.Error(err))
	default:
		return orderID, err
	}

	publish(ctx, w.publisher, w.logger, withIdentity(msg, identity))
	return orderID, err
}

func purchaseResult(err error) string {
	switch {
	case err == nil:
		return PurchaseResultSuccess
	case errors.Is(err, domain.ErrAlreadySubmitting):
		return PurchaseResultDuplicate
	case errors.Is(err, domain.ErrInsufficientRemaining),
		errors.Is(err, domain.ErrTicketNotSelected),
		errors.Is(err, domain.ErrTicketUnavailable),
		errors.Is(err, domain.ErrInvalidQuantity):
		return PurchaseResultGuarded
	default:
		return PurchaseResultBackendError
	}
}
