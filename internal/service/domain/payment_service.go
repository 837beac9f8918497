package domain

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/util"
)

const MaxSlipSize = 5 << 20

var (
	ErrSlipMissing     = errors.New("choose a transfer slip to upload")
	ErrSlipNotImage    = errors.New("slip must be an image")
	ErrSlipTooLarge    = errors.New("slip exceeds 5 MB")
	ErrOrderNotPending = errors.New("order is not awaiting payment")
	ErrAdminOnly       = errors.New("only admins can confirm payments manually")
)

// Checkout is everything the payment page shows for one order.
type Checkout struct {
	Order *model.Order
	// PromptPayQR is a data URI, empty when the backend could not produce one.
	PromptPayQR string
	QRError     error
}

type Slip struct {
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

type PaymentService interface {
	Checkout(ctx context.Context, client *api.Client, orderID uint) (*Checkout, error)
	UploadSlip(ctx context.Context, client *api.Client, order *model.Order, slip Slip) (*api.VerifySlipResponse, error)
	ConfirmManually(ctx context.Context, client *api.Client, role model.Role, order *model.Order) error
}

type paymentService struct {
	logger *zap.Logger
}

var _ PaymentService = (*paymentService)(nil)

func NewPaymentService(logger *zap.Logger) *paymentService {
	return &paymentService{
		logger: logger,
	}
}

// Checkout loads the order and, for a positive amount, asks the backend for a
// PromptPay QR. A QR failure is reported on the result, not as an error.
func (s *paymentService) Checkout(ctx context.Context, client *api.Client, orderID uint) (*Checkout, error) {
	order, err := client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	checkout := &Checkout{Order: order}
	if !order.TotalAmount.IsPositive() || order.Status != model.OrderStatusPending {
		return checkout, nil
	}

	qr, err := client.GenerateQR(ctx, api.GenerateQRRequest{Amount: order.TotalAmount})
	switch {
	case err != nil:
		checkout.QRError = err
	case !qr.Success || qr.QRBase64 == "":
		checkout.QRError = errors.New("payment QR code unavailable")
	default:
		checkout.PromptPayQR = util.EnsureDataURI(qr.QRBase64, qr.MimeType)
	}
	if checkout.QRError != nil {
		s.logger.Warn("failed to generate payment QR", zap.Uint("order_id", orderID), zap.Error(checkout.QRError))
	}
	return checkout, nil
}

// ValidateSlip accepts images up to MaxSlipSize.
func ValidateSlip(slip Slip) error {
	if slip.File == nil || slip.Size == 0 {
		return ErrSlipMissing
	}
	if !strings.HasPrefix(slip.ContentType, "image/") {
		return ErrSlipNotImage
	}
	if slip.Size > MaxSlipSize {
		return ErrSlipTooLarge
	}
	return nil
}

func (s *paymentService) UploadSlip(ctx context.Context, client *api.Client, order *model.Order, slip Slip) (*api.VerifySlipResponse, error) {
	if err := ValidateSlip(slip); err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending {
		return nil, ErrOrderNotPending
	}
	return client.VerifySlip(ctx, api.VerifySlipRequest{
		OrderID:  order.ID,
		Amount:   order.TotalAmount,
		Filename: slip.Filename,
		File:     io.LimitReader(slip.File, MaxSlipSize),
	})
}

func (s *paymentService) ConfirmManually(ctx context.Context, client *api.Client, role model.Role, order *model.Order) error {
	if !model.MeetsRole(role, model.RoleAdmin) {
		return ErrAdminOnly
	}
	if order.Status != model.OrderStatusPending {
		return ErrOrderNotPending
	}
	_, err := client.ConfirmPayment(ctx, api.ConfirmPaymentRequest{
		OrderID: order.ID,
		Amount:  order.TotalAmount,
	})
	return err
}
