// Package i18n resolves user-facing messages. Arabic is the primary site
// language, English is the fallback.
package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mazraa-market/internal/constants"
)

// ResolveLocale picks the response language for a request: explicit "lang"
// query first, then Accept-Language, then Arabic.
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleAr
	}
	if lang := normalize(c.Query("lang")); lang != "" {
		return lang
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := normalize(tag); lang != "" {
			return lang
		}
	}
	return constants.LocaleAr
}

// T translates a message key for the given locale. Unknown locales fall back
// to Arabic, unknown keys fall back to English and finally to the key itself.
func T(locale, key string) string {
	locale = normalize(locale)
	if locale == "" {
		locale = constants.LocaleAr
	}
	if msg, ok := catalogs[locale][key]; ok {
		return msg
	}
	if msg, ok := catalogs[constants.LocaleEn][key]; ok {
		return msg
	}
	return key
}

// Sprintf translates a key like T and formats it with the given arguments.
func Sprintf(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case tag == "", tag == "*":
		return ""
	case strings.HasPrefix(tag, "ar"):
		return constants.LocaleAr
	case strings.HasPrefix(tag, "en"):
		return constants.LocaleEn
	}
	return ""
}

var catalogs = map[string]map[string]string{
	constants.LocaleAr: {
		"success":                        "تمت العملية بنجاح",
		"error.bad_request":              "طلب غير صالح",
		"error.unauthorized":             "يجب تسجيل الدخول للمتابعة",
		"error.session_expired":          "انتهت صلاحية الجلسة، يرجى تسجيل الدخول مرة أخرى",
		"error.forbidden":                "ليس لديك صلاحية لتنفيذ هذه العملية",
		"error.not_found":                "العنصر المطلوب غير موجود",
		"error.too_many_requests":        "عدد كبير من المحاولات، يرجى المحاولة لاحقاً",
		"error.internal":                 "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً",
		"error.invalid_credentials":      "البريد الإلكتروني أو كلمة المرور غير صحيحة",
		"error.user_disabled":            "تم إيقاف هذا الحساب",
		"error.email_taken":              "البريد الإلكتروني مسجل مسبقاً",
		"error.password_too_weak":        "كلمة المرور ضعيفة، يرجى اختيار كلمة مرور أقوى",
		"error.captcha_required":         "يرجى إكمال رمز التحقق",
		"error.captcha_invalid":          "رمز التحقق غير صحيح",
		"error.captcha_unavailable":      "خدمة رمز التحقق غير متاحة حالياً",
		"error.captcha_generate_failed":  "تعذر إنشاء رمز التحقق، يرجى المحاولة لاحقاً",
		"error.cart_line_limit":          "عذراً، لا يمكنك إضافة أكثر من 5 أصناف مختلفة في الطلب الواحد",
		"error.cart_quantity_cap":        "لا يمكن إتمام الطلب لأن الكمية الإجمالية تتجاوز الحد المسموح، يرجى مراجعة الكميات",
		"error.cart_empty":               "السلة فارغة",
		"error.cart_line_not_found":      "المنتج غير موجود في السلة",
		"error.cart_persist_failed":      "تعذر حفظ السلة، لم يتم تطبيق التغيير",
		"error.catalog_unavailable":      "تعذر الوصول إلى قائمة المنتجات حالياً",
		"error.product_not_found":        "المنتج غير موجود",
		"error.product_unavailable":      "المنتج غير متوفر حالياً",
		"error.farm_not_found":           "المزرعة غير موجودة",
		"error.farm_not_owned":           "لا يمكنك إدارة مزرعة لا تملكها",
		"error.farm_type_invalid":        "نوع المزرعة غير صالح",
		"error.order_not_found":          "الطلب غير موجود",
		"error.order_submit_failed":      "فشل إرسال الطلب",
		"error.order_status_invalid":     "لا يمكن تغيير حالة الطلب إلى الحالة المطلوبة",
		"error.order_cancel_not_allowed": "لا يمكن إلغاء الطلب في حالته الحالية",
		"error.payment_not_found":        "عملية الدفع غير موجودة",
		"error.payment_method_invalid":   "وسيلة الدفع غير مدعومة",
		"error.payment_create_failed":    "تعذر إنشاء عملية الدفع، يرجى المحاولة لاحقاً",
		"error.payment_disabled":         "الدفع الإلكتروني غير متاح حالياً",
		"error.payment_status_invalid":   "لا يمكن الدفع لهذا الطلب في حالته الحالية",
		"error.payment_amount_mismatch":  "مبلغ الدفع لا يطابق قيمة الطلب",
		"error.payment_callback_invalid": "إشعار الدفع غير صالح",
		"error.delivery_info_missing":    "يرجى إدخال الاسم ورقم الجوال وعنوان التوصيل",
		"error.contact_invalid":          "يرجى تعبئة الاسم ونص الرسالة",
		"error.status_invalid":           "الحالة المطلوبة غير صالحة",
		"error.role_invalid":             "الدور المطلوب غير صالح",
		"error.invalid_email":            "البريد الإلكتروني غير صالح",
		"error.auth_header_missing":      "يجب تسجيل الدخول للمتابعة",
		"error.auth_header_invalid":      "ترويسة التفويض غير صالحة",
		"error.token_invalid":            "انتهت صلاحية الجلسة، يرجى تسجيل الدخول مرة أخرى",
		"error.token_revoked":            "تم إنهاء الجلسة، يرجى تسجيل الدخول مرة أخرى",
		"error.jwt_secret_missing":       "خدمة تسجيل الدخول غير مهيأة",
		"error.user_id_invalid":          "تعذر التحقق من الحساب، يرجى تسجيل الدخول مرة أخرى",
		"error.user_id_type_invalid":     "تعذر التحقق من الحساب، يرجى تسجيل الدخول مرة أخرى",
		"error.rate_limited":             "عدد كبير من المحاولات، يرجى المحاولة بعد %d ثانية",
		"error.login_too_many":           "محاولات تسجيل دخول كثيرة، يرجى المحاولة بعد %d ثانية",
		"error.rate_limit_unavailable":   "الخدمة مشغولة حالياً، يرجى المحاولة لاحقاً",
		"error.password_too_short":       "كلمة المرور يجب ألا تقل عن %d أحرف",
		"error.password_need_upper":      "كلمة المرور يجب أن تحتوي على حرف كبير",
		"error.password_need_lower":      "كلمة المرور يجب أن تحتوي على حرف صغير",
		"error.password_need_number":     "كلمة المرور يجب أن تحتوي على رقم",
		"error.password_need_special":    "كلمة المرور يجب أن تحتوي على رمز خاص",
		"cart.added":                     "تمت الإضافة إلى السلة",
		"cart.quantity_warning":          "عذراً، نود تنبيهك بأن طلبك يحتوي الآن على أكثر من 10 منتجات. يرجى مراجعة الكميات المختارة لضمان دقة الطلب وتفادي أي تأخير.",
	},
	constants.LocaleEn: {
		"success":                        "Success",
		"error.bad_request":              "Invalid request",
		"error.unauthorized":             "Login required",
		"error.session_expired":          "Your session has expired, please log in again",
		"error.forbidden":                "You are not allowed to perform this action",
		"error.not_found":                "Not found",
		"error.too_many_requests":        "Too many attempts, please try again later",
		"error.internal":                 "Something went wrong, please try again later",
		"error.invalid_credentials":      "Incorrect email or password",
		"error.user_disabled":            "This account has been disabled",
		"error.email_taken":              "Email is already registered",
		"error.password_too_weak":        "Password is too weak, please choose a stronger one",
		"error.captcha_required":         "Please complete the captcha",
		"error.captcha_invalid":          "Captcha code is incorrect",
		"error.captcha_unavailable":      "The captcha service is currently unavailable",
		"error.captcha_generate_failed":  "Could not generate a captcha, please try again later",
		"error.cart_line_limit":          "Sorry, you cannot add more than 5 different items to a single order",
		"error.cart_quantity_cap":        "Checkout is blocked because the total quantity exceeds the allowed limit, please review your quantities",
		"error.cart_empty":               "Your cart is empty",
		"error.cart_line_not_found":      "Item is not in the cart",
		"error.cart_persist_failed":      "Could not save the cart, the change was not applied",
		"error.catalog_unavailable":      "The product catalog is currently unreachable",
		"error.product_not_found":        "Product not found",
		"error.product_unavailable":      "Product is currently unavailable",
		"error.farm_not_found":           "Farm not found",
		"error.farm_not_owned":           "You cannot manage a farm you do not own",
		"error.farm_type_invalid":        "Invalid farm type",
		"error.order_not_found":          "Order not found",
		"error.order_submit_failed":      "Order submission failed",
		"error.order_status_invalid":     "The order cannot move to the requested status",
		"error.order_cancel_not_allowed": "The order cannot be cancelled in its current status",
		"error.payment_not_found":        "Payment not found",
		"error.payment_method_invalid":   "Unsupported payment method",
		"error.payment_create_failed":    "Could not create the payment, please try again later",
		"error.payment_disabled":         "Online payment is currently unavailable",
		"error.payment_status_invalid":   "The order cannot be paid in its current status",
		"error.payment_amount_mismatch":  "Payment amount does not match the order total",
		"error.payment_callback_invalid": "Invalid payment notification",
		"error.delivery_info_missing":    "Please provide a name, phone number and delivery address",
		"error.contact_invalid":          "Please fill in your name and message",
		"error.status_invalid":           "The requested status is invalid",
		"error.role_invalid":             "The requested role is invalid",
		"error.invalid_email":            "Invalid email address",
		"error.auth_header_missing":      "Login required",
		"error.auth_header_invalid":      "Invalid authorization header",
		"error.token_invalid":            "Your session has expired, please log in again",
		"error.token_revoked":            "Your session has ended, please log in again",
		"error.jwt_secret_missing":       "The login service is not configured",
		"error.user_id_invalid":          "Could not verify your account, please log in again",
		"error.user_id_type_invalid":     "Could not verify your account, please log in again",
		"error.rate_limited":             "Too many attempts, please retry in %d seconds",
		"error.login_too_many":           "Too many login attempts, please retry in %d seconds",
		"error.rate_limit_unavailable":   "The service is busy, please try again later",
		"error.password_too_short":       "Password must be at least %d characters",
		"error.password_need_upper":      "Password must contain an uppercase letter",
		"error.password_need_lower":      "Password must contain a lowercase letter",
		"error.password_need_number":     "Password must contain a number",
		"error.password_need_special":    "Password must contain a special character",
		"cart.added":                     "Added to cart",
		"cart.quantity_warning":          "Please note that your order now contains more than 10 items. Review the selected quantities to keep the order accurate and avoid delays.",
	},
}
