package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend parses amounts and prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type GenerateQRRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type GenerateQRResponse struct {
	Success  bool   `json:"success"`
	QRBase64 string `json:"qr_base64"`
	Format   string `json:"format,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type ConfirmPaymentRequest struct {
	OrderID     uint            `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	Value       string          `json:"value,omitempty"`
	CompletedAt string          `json:"completed_at,omitempty"`
}

type ConfirmPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VerifySlipRequest struct {
	OrderID  uint
	Amount   decimal.Decimal
	Filename string
	File     io.Reader
}

type VerifySlipResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PaymentID uint   `json:"payment_id,omitempty"`
}

// GenerateQR builds a PromptPay QR for the amount. POST /payments/qr
func (c *Client) GenerateQR(ctx context.Context, req GenerateQRRequest) (*GenerateQRResponse, error) {
	var resp GenerateQRResponse
	if err := c.post(ctx, "/payments/qr", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmPayment marks an order paid. Admin or order owner. POST /payments/confirm
func (c *Client) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	var resp ConfirmPaymentResponse
	if err := c.post(ctx, "/payments/confirm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifySlip uploads a transfer slip as multipart form data. POST /payments/verify-slip
func (c *Client) VerifySlip(ctx context.Context, req VerifySlipRequest) (*VerifySlipResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build slip upload: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("failed to read slip: %w", err)
	}
	if err := w.WriteField("order_id", strconv.FormatUint(uint64(req.OrderID), 10)); err != nil {
		return nil, err
	}
	if err := w.WriteField("amount", req.Amount.String()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/payments/verify-slip", nil, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out VerifySlipResponse
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSlipImage returns the uploaded slip for an order. GET /payments/slip/:order_id
func (c *Client) GetSlipImage(ctx context.Context, orderID uint) ([]byte, string, error) {
	return c.getBytes(ctx, idPath("/payments/slip", orderID))
}
