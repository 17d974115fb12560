package constants

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Moyasar payment method constants
const (
	PaymentMethodCreditCard = "creditcard"
	PaymentMethodMada       = "mada"
	PaymentMethodSTCPay     = "stcpay"
	PaymentMethodApplePay   = "applepay"
)

// Farm type constants (التصنيفات)
const (
	FarmTypeDates      = "تمور"
	FarmTypeDairy      = "ألبان"
	FarmTypeVegetables = "خضروات"
	FarmTypeFruits     = "فواكه"
)

// FarmTypes lists the accepted farm classifications.
var FarmTypes = []string{FarmTypeDates, FarmTypeDairy, FarmTypeVegetables, FarmTypeFruits}

// Cart constants
const (
	CartMaxDistinctLines = 5  // hard cap on distinct products per cart
	CartQuantityCap      = 10 // aggregate quantity above which checkout is blocked
	CartShippingFeeSAR   = 15 // flat delivery fee in SAR
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Role constants
const (
	RoleAdmin    = "admin"
	RoleFarmer   = "farmer"
	RoleConsumer = "consumer"
)

// Queue constants
const (
	QueueDefault           = "default"
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskOrderStatusNotify  = "order:status_notify"
	TaskCartReconcile      = "cart:reconcile"
)

// Cache constants
const (
	RedisPrefixDefault = "mz"
)

// Captcha scene constants
const (
	CaptchaSceneLogin   = "login"
	CaptchaSceneContact = "contact"
)

// Currency constants
const (
	SiteCurrencyDefault = "SAR"
)

// Locale constants, Arabic first
const (
	LocaleAr = "ar"
	LocaleEn = "en"
)

// SupportedLocales lists the site languages in fallback order.
var SupportedLocales = []string{LocaleAr, LocaleEn}
