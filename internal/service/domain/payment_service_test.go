package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

func TestValidateSlip(t *testing.T) {
	body := strings.NewReader("png")
	assert.ErrorIs(t, ValidateSlip(Slip{}), ErrSlipMissing)
	assert.ErrorIs(t, ValidateSlip(Slip{File: body, Size: 3, ContentType: "application/pdf"}), ErrSlipNotImage)
	assert.ErrorIs(t, ValidateSlip(Slip{File: body, Size: MaxSlipSize + 1, ContentType: "image/png"}), ErrSlipTooLarge)
	assert.NoError(t, ValidateSlip(Slip{File: body, Size: MaxSlipSize, ContentType: "image/jpeg"}))
}

func TestCheckoutBuildsPromptPayQR(t *testing.T) {
	client, backend := newRecordingClient(t, map[string]string{
		"GET /api/orders/4":     `{"id":4,"status":"PENDING","total_amount":"1500.00"}`,
		"POST /api/payments/qr": `{"success":true,"qr_base64":"iVBORw0KGgo=","mime_type":"image/png"}`,
		"GET /api/orders/5":     `{"id":5,"status":"PAID","total_amount":"1500.00"}`,
	})
	svc := NewPaymentService(zap.NewNop())
	ctx := context.Background()

	checkout, err := svc.Checkout(ctx, client, 4)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", checkout.PromptPayQR)
	assert.NoError(t, checkout.QRError)

	checkout, err = svc.Checkout(ctx, client, 5)
	require.NoError(t, err)
	assert.Empty(t, checkout.PromptPayQR)
	assert.Equal(t, []string{"GET /api/orders/4", "POST /api/payments/qr", "GET /api/orders/5"}, backend.seen())
}

func TestConfirmManuallyIsAdminOnly(t *testing.T) {
	client, backend := newRecordingClient(t, map[string]string{
		"POST /api/payments/confirm": `{"success":true,"message":"ok"}`,
	})
	svc := NewPaymentService(zap.NewNop())
	order := &model.Order{ID: 4, Status: model.OrderStatusPending, TotalAmount: decimal.NewFromInt(1500)}
	ctx := context.Background()

	assert.ErrorIs(t, svc.ConfirmManually(ctx, client, model.RoleOrganizer, order), ErrAdminOnly)
	assert.Empty(t, backend.seen())

	require.NoError(t, svc.ConfirmManually(ctx, client, model.RoleAdmin, order))
	assert.Equal(t, []string{"POST /api/payments/confirm"}, backend.seen())

	order.Status = model.OrderStatusPaid
	assert.ErrorIs(t, svc.ConfirmManually(ctx, client, model.RoleAdmin, order), ErrOrderNotPending)
}

func TestOrderViewsCarryQRCodes(t *testing.T) {
	client, _ := newRecordingClient(t, map[string]string{
		"GET /api/orders/my-orders": `[{"id":1,"order_code":"ORD-1","status":"PAID","total_amount":100},{"id":2,"status":"PENDING","total_amount":200}]`,
	})
	views, err := NewOrderService(zap.NewNop()).MyOrders(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.True(t, strings.HasPrefix(v.QRCode, "data:image/png;base64,"))
	}
	assert.Equal(t, "ORDER-2", OrderQRPayload(views[1].ID))
}
