package service

import "errors"

// Sentinel errors shared across services. Handlers map these to
// localized API responses via error_mapping tables.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserDisabled       = errors.New("user disabled")
	ErrRoleInvalid        = errors.New("role invalid")
	ErrStatusInvalid      = errors.New("status invalid")

	ErrContactInvalid = errors.New("contact message invalid")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	ErrFarmNotFound    = errors.New("farm not found")
	ErrFarmNotOwned    = errors.New("farm not owned by user")
	ErrFarmTypeInvalid = errors.New("farm type invalid")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrProductPriceInvalid = errors.New("product price invalid")

	ErrCartEmpty           = errors.New("cart is empty")
	ErrCartQuantityCap     = errors.New("cart quantity over cap")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrDeliveryInfoMissing = errors.New("delivery info missing")

	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderStatusInvalid    = errors.New("order status transition invalid")
	ErrOrderCancelNotAllowed = errors.New("order cancel not allowed")

	ErrPaymentNotFound             = errors.New("payment not found")
	ErrPaymentInvalid              = errors.New("payment request invalid")
	ErrPaymentMethodInvalid        = errors.New("payment method invalid")
	ErrPaymentStatusInvalid        = errors.New("payment status invalid")
	ErrPaymentAmountMismatch       = errors.New("payment amount mismatch")
	ErrPaymentGatewayRequestFailed = errors.New("payment gateway request failed")
	ErrPaymentCallbackInvalid      = errors.New("payment callback invalid")
	ErrPaymentDisabled             = errors.New("payment disabled")
)
