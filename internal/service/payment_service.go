package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/payment/moyasar"
	"github.com/mazraa-market/internal/repository"
)

// PaymentService drives the Moyasar hosted-page flow: create an invoice,
// hand the consumer its URL, settle on webhook or redirect sync.
type PaymentService struct {
	cfg          *config.Config
	paymentRepo  repository.PaymentRepository
	orderService *OrderService
}

// NewPaymentService creates the payment service.
func NewPaymentService(cfg *config.Config, paymentRepo repository.PaymentRepository, orderService *OrderService) *PaymentService {
	return &PaymentService{cfg: cfg, paymentRepo: paymentRepo, orderService: orderService}
}

func (s *PaymentService) gatewayConfig() *moyasar.Config {
	m := s.cfg.Payment.Moyasar
	return &moyasar.Config{
		BaseURL:        m.BaseURL,
		APIKey:         m.APIKey,
		CallbackSecret: m.CallbackSecret,
		TimeoutMS:      m.TimeoutMS,
	}
}

// Create opens an invoice for a root order and returns the payment record
// with its hosted page URL. A still-pending invoice is reused.
func (s *PaymentService) Create(ctx context.Context, userID, orderID uint, method string) (*models.Payment, error) {
	if !s.cfg.Payment.Moyasar.Enabled {
		return nil, ErrPaymentDisabled
	}
	if !validPaymentMethod(method) {
		return nil, ErrPaymentMethodInvalid
	}

	order, err := s.orderService.GetForConsumer(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.ParentID != nil {
		return nil, ErrPaymentInvalid
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}

	existing, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case constants.PaymentStatusPaid:
			return nil, ErrPaymentStatusInvalid
		case constants.PaymentStatusPending:
			if existing.PayURL != "" {
				return existing, nil
			}
		}
	}

	callbackBase := strings.TrimRight(strings.TrimSpace(s.cfg.Payment.Moyasar.CallbackBase), "/")
	input := moyasar.CreateInvoiceInput{
		Amount:      order.TotalAmount.Halalas(),
		Currency:    order.Currency,
		Description: fmt.Sprintf("Order %s", order.OrderNo),
		Metadata:    map[string]string{"order_no": order.OrderNo},
	}
	if callbackBase != "" {
		input.CallbackURL = callbackBase + "/api/v1/payments/webhook"
		input.SuccessURL = callbackBase + "/payment/success?order_no=" + order.OrderNo
		input.BackURL = callbackBase + "/payment/failed?order_no=" + order.OrderNo
	}

	invoice, err := moyasar.CreateInvoice(ctx, s.gatewayConfig(), input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayRequestFailed, err)
	}

	payment := existing
	if payment == nil {
		payment = &models.Payment{OrderID: order.ID}
	}
	payment.ProviderRef = invoice.ID
	payment.Method = method
	payment.Amount = order.TotalAmount
	payment.Currency = order.Currency
	payment.Status = constants.PaymentStatusPending
	payment.PayURL = invoice.URL
	payment.ProviderPayload = models.JSON(invoice.Raw)

	if existing == nil {
		err = s.paymentRepo.Create(payment)
	} else {
		err = s.paymentRepo.Update(payment)
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// GetForOrder returns the payment attached to one of the consumer's orders.
func (s *PaymentService) GetForOrder(userID, orderID uint) (*models.Payment, error) {
	order, err := s.orderService.GetForConsumer(userID, orderID)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// HandleWebhook settles a payment from a gateway callback. The shared
// secret token is checked before anything is trusted.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte) error {
	event, err := moyasar.ParseWebhook(s.gatewayConfig(), body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentCallbackInvalid, err)
	}
	return s.applyInvoiceState(event.Data.ID, event.Data.Status, event.Data.Amount, event.Data.Message)
}

// SyncFromGateway re-fetches the invoice and applies its state. Used after
// the success redirect and as a safety net for missed webhooks.
func (s *PaymentService) SyncFromGateway(ctx context.Context, userID, orderID uint) (*models.Payment, error) {
	payment, err := s.GetForOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if payment.ProviderRef == "" {
		return payment, nil
	}
	invoice, err := moyasar.FetchInvoice(ctx, s.gatewayConfig(), payment.ProviderRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayRequestFailed, err)
	}
	if err := s.applyInvoiceState(invoice.ID, invoice.Status, invoice.Amount, ""); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByID(payment.ID)
}

func (s *PaymentService) applyInvoiceState(providerRef, status string, amountHalalas int64, message string) error {
	payment, err := s.paymentRepo.GetByProviderRef(providerRef)
	if err != nil {
		return err
	}
	if payment == nil {
		return ErrPaymentNotFound
	}
	now := time.Now()
	payment.CallbackAt = &now

	switch status {
	case moyasar.InvoiceStatusPaid:
		if payment.Status == constants.PaymentStatusPaid {
			return s.paymentRepo.Update(payment)
		}
		if payment.Amount.Halalas() != amountHalalas {
			return ErrPaymentAmountMismatch
		}
		payment.Status = constants.PaymentStatusPaid
		payment.PaidAt = &now
		if err := s.paymentRepo.Update(payment); err != nil {
			return err
		}
		if err := s.orderService.MarkPaid(payment.OrderID, now); err != nil {
			logger.SW("order_id", payment.OrderID).Errorw("order_mark_paid_failed", "error", err)
			return err
		}
		return nil
	case moyasar.InvoiceStatusFailed, moyasar.InvoiceStatusCanceled, moyasar.InvoiceStatusExpired:
		if payment.Status == constants.PaymentStatusPaid {
			return ErrPaymentStatusInvalid
		}
		payment.Status = constants.PaymentStatusFailed
		payment.FailureReason = message
		return s.paymentRepo.Update(payment)
	default:
		// initiated or unknown, keep waiting
		return s.paymentRepo.Update(payment)
	}
}

func validPaymentMethod(method string) bool {
	switch strings.TrimSpace(method) {
	case constants.PaymentMethodCreditCard, constants.PaymentMethodMada,
		constants.PaymentMethodSTCPay, constants.PaymentMethodApplePay:
		return true
	}
	return false
}
