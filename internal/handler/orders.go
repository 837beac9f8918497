package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
)

func (h *Handler) MyOrders(ctx *gin.Context) {
	orders, err := h.app.OrderService.MyOrders(ctx.Request.Context(), h.client(ctx))
	var loadErr string
	if err != nil {
		h.app.Logger.Warn("failed to load orders", zap.Error(err))
		loadErr = errorMessage(err, "Could not load your orders.")
	}
	h.render(ctx, http.StatusOK, "my_orders.tmpl", "My orders", gin.H{
		"Orders": orders,
		"Error":  loadErr,
	})
}

func (h *Handler) OrderDetail(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		redirectWithNotice(ctx, "/my-orders", "order_not_found")
		return
	}
	view, err := h.app.OrderService.Get(ctx.Request.Context(), h.client(ctx), id)
	if err != nil {
		h.orderUnavailable(ctx, id, err)
		return
	}
	h.render(ctx, http.StatusOK, "order.tmpl", "Order "+view.DisplayCode(), gin.H{"Order": view})
}

func (h *Handler) Payment(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		redirectWithNotice(ctx, "/my-orders", "order_not_found")
		return
	}
	checkout, err := h.app.PaymentService.Checkout(ctx.Request.Context(), h.client(ctx), id)
	if err != nil {
		h.orderUnavailable(ctx, id, err)
		return
	}
	h.renderPayment(ctx, http.StatusOK, checkout, "")
}

func (h *Handler) UploadSlip(ctx *gin.Context) {
	order, ok := h.loadOrder(ctx)
	if !ok {
		return
	}

	slip := domain.Slip{}
	if header, err := ctx.FormFile("slip"); err == nil {
		file, err := header.Open()
		if err != nil {
			h.app.Logger.Warn("failed to open uploaded slip", zap.Error(err))
		} else {
			defer file.Close()
			slip = domain.Slip{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				File:        file,
			}
		}
	}

	session := currentSession(ctx)
	if _, err := h.app.PaymentWorkflow.UploadSlip(ctx.Request.Context(), h.client(ctx), session.Identity, order, slip); err != nil {
		h.renderPayment(ctx, errorStatus(err), &domain.Checkout{Order: order}, errorMessage(err, "Slip upload failed."))
		return
	}
	redirectWithNotice(ctx, "/my-orders", "slip_uploaded")
}

func (h *Handler) ConfirmPayment(ctx *gin.Context) {
	order, ok := h.loadOrder(ctx)
	if !ok {
		return
	}
	session := currentSession(ctx)
	if ctx.PostForm("confirm") != "yes" {
		h.renderPayment(ctx, http.StatusUnprocessableEntity, &domain.Checkout{Order: order}, domain.ErrConfirmationRequired.Error())
		return
	}
	if err := h.app.PaymentWorkflow.ConfirmManually(ctx.Request.Context(), h.client(ctx), session.Identity, order); err != nil {
		status := errorStatus(err)
		if errors.Is(err, domain.ErrAdminOnly) {
			status = http.StatusForbidden
		}
		h.renderPayment(ctx, status, &domain.Checkout{Order: order}, errorMessage(err, "Payment confirmation failed."))
		return
	}
	redirectWithNotice(ctx, "/my-orders", "payment_confirmed")
}

// SlipImage relays the uploaded slip so the browser never talks to the backend.
func (h *Handler) SlipImage(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		h.notFound(ctx)
		return
	}
	data, contentType, err := h.client(ctx).GetSlipImage(ctx.Request.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			h.notFound(ctx)
			return
		}
		h.app.Logger.Warn("failed to fetch slip", zap.Uint("order_id", id), zap.Error(err))
		ctx.Status(errorStatus(err))
		return
	}
	if !strings.HasPrefix(contentType, "image/") {
		h.app.Logger.Warn("slip is not an image", zap.Uint("order_id", id), zap.String("content_type", contentType))
		ctx.Status(http.StatusBadGateway)
		return
	}
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Data(http.StatusOK, contentType, data)
}

func (h *Handler) loadOrder(ctx *gin.Context) (*model.Order, bool) {
	id, ok := parseID(ctx)
	if !ok {
		redirectWithNotice(ctx, "/my-orders", "order_not_found")
		return nil, false
	}
	order, err := h.client(ctx).GetOrder(ctx.Request.Context(), id)
	if err != nil {
		h.orderUnavailable(ctx, id, err)
		return nil, false
	}
	return order, true
}

func (h *Handler) orderUnavailable(ctx *gin.Context, id uint, err error) {
	if !api.IsNotFound(err) {
		h.app.Logger.Warn("failed to load order", zap.Uint("order_id", id), zap.Error(err))
	}
	redirectWithNotice(ctx, "/my-orders", "order_not_found")
}

func (h *Handler) renderPayment(ctx *gin.Context, status int, checkout *domain.Checkout, errMsg string) {
	qrErr := ""
	if checkout.QRError != nil {
		qrErr = errorMessage(checkout.QRError, "Could not create the payment QR code.")
	}
	h.render(ctx, status, "payment.tmpl", "Pay for "+checkout.Order.DisplayCode(), gin.H{
		"Order":       checkout.Order,
		"PromptPayQR": checkout.PromptPayQR,
		"QRError":     qrErr,
		"MaxSlipMB":   domain.MaxSlipSize >> 20,
		"Error":       errMsg,
	})
}
