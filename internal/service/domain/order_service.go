package domain

import (
	"context"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/util"
)

const (
	listQRCodeSize   = 120
	detailQRCodeSize = 200
)

// OrderView pairs an order with its scannable entry code.
type OrderView struct {
	model.Order
	QRCode string
}

type OrderService interface {
	MyOrders(ctx context.Context, client *api.Client) ([]OrderView, error)
	Get(ctx context.Context, client *api.Client, id uint) (*OrderView, error)
}

type orderService struct {
	logger *zap.Logger
}

var _ OrderService = (*orderService)(nil)

func NewOrderService(logger *zap.Logger) *orderService {
	return &orderService{
		logger: logger,
	}
}

func (s *orderService) MyOrders(ctx context.Context, client *api.Client) ([]OrderView, error) {
	orders, err := client.MyOrders(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		payload := order.OrderCode
		if payload == "" {
			payload = OrderQRPayload(order.ID)
		}
		views = append(views, OrderView{Order: order, QRCode: s.qrCode(payload, listQRCodeSize)})
	}
	return views, nil
}

// Get returns one of the caller's own orders. The backend answers 404 for
// orders owned by someone else.
func (s *orderService) Get(ctx context.Context, client *api.Client, id uint) (*OrderView, error) {
	order, err := client.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrderView{Order: *order, QRCode: s.qrCode(OrderQRPayload(order.ID), detailQRCodeSize)}, nil
}

func (s *orderService) qrCode(payload string, size int) string {
	uri, err := util.QRCodeDataURI(payload, size)
	if err != nil {
		s.logger.Warn("failed to render order QR code", zap.String("payload", payload), zap.Error(err))
		return ""
	}
	return uri
}

func OrderQRPayload(id uint) string {
	return "ORDER-" + model.FormatID(id)
}
