package public

import (
	"errors"
	"io"

	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/payment/moyasar"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
)

const paymentWebhookMaxBody = 1 << 20

// CreatePaymentRequest selects the payment method for an order.
type CreatePaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// CreatePayment opens a hosted payment page for a pending order. A pending
// payment with a live page is returned as-is instead of creating another.
func (h *Handler) CreatePayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.PaymentService.Create(c.Request.Context(), userID, orderID, req.Method)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.payment_create_failed")
		return
	}
	response.Success(c, payment)
}

// GetPayment returns the payment record of one order.
func (h *Handler) GetPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	payment, err := h.PaymentService.GetForOrder(userID, orderID)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, payment)
}

// SyncPayment re-fetches the invoice state from the gateway, covering a
// missed webhook.
func (h *Handler) SyncPayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	payment, err := h.PaymentService.SyncFromGateway(c.Request.Context(), userID, orderID)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, payment)
}

// PaymentWebhook receives gateway notifications. The body is verified with
// the shared secret inside the service; invalid notifications get a 400 so
// the gateway retries only transient failures.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, paymentWebhookMaxBody))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.payment_callback_invalid", err)
		return
	}

	if err := h.PaymentService.HandleWebhook(c.Request.Context(), body); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentCallbackInvalid), errors.Is(err, moyasar.ErrSignatureInvalid):
			requestLog(c).Warnw("payment_webhook_rejected", "error", err)
			respondError(c, response.CodeBadRequest, "error.payment_callback_invalid", nil)
		case errors.Is(err, service.ErrPaymentNotFound):
			respondError(c, response.CodeNotFound, "error.payment_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, gin.H{"received": true})
}
