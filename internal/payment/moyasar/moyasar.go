package moyasar

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("moyasar config invalid")
	ErrRequestFailed    = errors.New("moyasar request failed")
	ErrResponseInvalid  = errors.New("moyasar response invalid")
	ErrSignatureInvalid = errors.New("moyasar webhook secret invalid")
)

// Invoice statuses returned by the API.
const (
	InvoiceStatusInitiated = "initiated"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusFailed    = "failed"
	InvoiceStatusCanceled  = "canceled"
	InvoiceStatusExpired   = "expired"
)

// Methods accepted on the hosted payment page.
var SupportedMethods = []string{"creditcard", "mada", "stcpay", "applepay"}

// Config holds the gateway credentials and endpoints.
type Config struct {
	BaseURL        string // https://api.moyasar.com/v1
	APIKey         string // secret key, used as Basic auth username
	CallbackSecret string // shared token echoed in webhook payloads
	TimeoutMS      int
}

// CreateInvoiceInput describes one hosted-page invoice. Amount is in
// halalas, the smallest SAR unit.
type CreateInvoiceInput struct {
	Amount      int64
	Currency    string
	Description string
	CallbackURL string
	SuccessURL  string
	BackURL     string
	Metadata    map[string]string
}

// Invoice is the gateway's invoice resource.
type Invoice struct {
	ID       string                 `json:"id"`
	Status   string                 `json:"status"`
	Amount   int64                  `json:"amount"`
	Currency string                 `json:"currency"`
	URL      string                 `json:"url"`
	Raw      map[string]interface{} `json:"-"`
}

// WebhookEvent is the payload Moyasar posts to the callback URL.
type WebhookEvent struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	SecretToken string          `json:"secret_token"`
	Data        WebhookInvoice  `json:"data"`
	Raw         json.RawMessage `json:"-"`
}

// WebhookInvoice is the invoice snapshot inside a webhook event.
type WebhookInvoice struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Source   map[string]string `json:"source"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata"`
}

// ValidateConfig checks the required settings.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("%w: api_key is required", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = "https://api.moyasar.com/v1"
	}
	return base
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutMS >= 500 && c.TimeoutMS <= 30000 {
		return time.Duration(c.TimeoutMS) * time.Millisecond
	}
	return 10 * time.Second
}

// CreateInvoice opens a hosted-page invoice and returns its payment URL.
func CreateInvoice(ctx context.Context, cfg *Config, input CreateInvoiceInput) (*Invoice, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrConfigInvalid)
	}
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = "SAR"
	}

	params := map[string]interface{}{
		"amount":      input.Amount,
		"currency":    currency,
		"description": input.Description,
	}
	if input.CallbackURL != "" {
		params["callback_url"] = input.CallbackURL
	}
	if input.SuccessURL != "" {
		params["success_url"] = input.SuccessURL
	}
	if input.BackURL != "" {
		params["back_url"] = input.BackURL
	}
	if len(input.Metadata) > 0 {
		params["metadata"] = input.Metadata
	}

	body, err := doRequest(ctx, cfg, http.MethodPost, "/invoices", params)
	if err != nil {
		return nil, err
	}
	return parseInvoice(body)
}

// FetchInvoice reads the current invoice state, for reconciliation after a
// success redirect or a missed webhook.
func FetchInvoice(ctx context.Context, cfg *Config, invoiceID string) (*Invoice, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(invoiceID)
	if id == "" {
		return nil, fmt.Errorf("%w: invoice id is required", ErrConfigInvalid)
	}
	body, err := doRequest(ctx, cfg, http.MethodGet, "/invoices/"+id, nil)
	if err != nil {
		return nil, err
	}
	return parseInvoice(body)
}

// ParseWebhook decodes a webhook body and checks the shared secret token.
func ParseWebhook(cfg *Config, body []byte) (*WebhookEvent, error) {
	if cfg == nil {
		return nil, ErrConfigInvalid
	}
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	event.Raw = json.RawMessage(body)

	secret := strings.TrimSpace(cfg.CallbackSecret)
	if secret != "" {
		if subtle.ConstantTimeCompare([]byte(secret), []byte(event.SecretToken)) != 1 {
			return nil, ErrSignatureInvalid
		}
	}
	return &event, nil
}

func doRequest(ctx context.Context, cfg *Config, method, path string, params map[string]interface{}) ([]byte, error) {
	var reqBody io.Reader
	if params != nil {
		payload, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.baseURL()+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.SetBasicAuth(strings.TrimSpace(cfg.APIKey), "")
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: cfg.timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, gatewayMessage(body))
	}
	return body, nil
}

func parseInvoice(body []byte) (*Invoice, error) {
	var invoice Invoice
	if err := json.Unmarshal(body, &invoice); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if invoice.ID == "" {
		return nil, fmt.Errorf("%w: missing invoice id", ErrResponseInvalid)
	}
	var raw map[string]interface{}
	_ = json.Unmarshal(body, &raw)
	invoice.Raw = raw
	return &invoice, nil
}

func gatewayMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
