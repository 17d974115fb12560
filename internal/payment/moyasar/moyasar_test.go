package moyasar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for nil, got %v", err)
	}
	if err := ValidateConfig(&Config{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for missing key, got %v", err)
	}
	if err := ValidateConfig(&Config{APIKey: "sk_test_123"}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCreateInvoice(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/invoices" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"inv_123","status":"initiated","amount":11700,"currency":"SAR","url":"https://pay.example/inv_123"}`))
	}))
	defer srv.Close()

	cfg := &Config{BaseURL: srv.URL, APIKey: "sk_test_123"}
	invoice, err := CreateInvoice(context.Background(), cfg, CreateInvoiceInput{
		Amount:      11700,
		Description: "طلب رقم MZ20260829",
		CallbackURL: "https://market.example/api/v1/payments/webhook",
		Metadata:    map[string]string{"order_no": "MZ20260829"},
	})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}
	if invoice.ID != "inv_123" || invoice.Status != InvoiceStatusInitiated || invoice.URL == "" {
		t.Fatalf("unexpected invoice: %+v", invoice)
	}
	if gotAuth == "" {
		t.Fatalf("expected basic auth header")
	}
	if gotBody["currency"] != "SAR" {
		t.Fatalf("currency must default to SAR, got %v", gotBody["currency"])
	}
	if gotBody["amount"] != float64(11700) {
		t.Fatalf("unexpected amount: %v", gotBody["amount"])
	}
	if _, ok := gotBody["metadata"]; !ok {
		t.Fatalf("metadata must be forwarded")
	}
}

func TestCreateInvoiceRejectsNonPositiveAmount(t *testing.T) {
	cfg := &Config{APIKey: "sk_test_123"}
	if _, err := CreateInvoice(context.Background(), cfg, CreateInvoiceInput{Amount: 0}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestCreateInvoiceGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid api key","type":"authentication_error"}`))
	}))
	defer srv.Close()

	cfg := &Config{BaseURL: srv.URL, APIKey: "sk_bad"}
	_, err := CreateInvoice(context.Background(), cfg, CreateInvoiceInput{Amount: 100})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestFetchInvoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/invoices/inv_123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"inv_123","status":"paid","amount":11700,"currency":"SAR"}`))
	}))
	defer srv.Close()

	cfg := &Config{BaseURL: srv.URL, APIKey: "sk_test_123"}
	invoice, err := FetchInvoice(context.Background(), cfg, "inv_123")
	if err != nil {
		t.Fatalf("FetchInvoice failed: %v", err)
	}
	if invoice.Status != InvoiceStatusPaid {
		t.Fatalf("expected paid, got %s", invoice.Status)
	}

	if _, err := FetchInvoice(context.Background(), cfg, "  "); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid for blank id, got %v", err)
	}
}

func TestParseWebhook(t *testing.T) {
	cfg := &Config{APIKey: "sk_test_123", CallbackSecret: "whsec_42"}
	body := []byte(`{"id":"evt_1","type":"invoice_paid","secret_token":"whsec_42","data":{"id":"inv_123","status":"paid","amount":11700,"currency":"SAR","metadata":{"order_no":"MZ20260829"}}}`)

	event, err := ParseWebhook(cfg, body)
	if err != nil {
		t.Fatalf("ParseWebhook failed: %v", err)
	}
	if event.Type != "invoice_paid" || event.Data.Status != InvoiceStatusPaid {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Data.Metadata["order_no"] != "MZ20260829" {
		t.Fatalf("metadata lost: %+v", event.Data)
	}
}

func TestParseWebhookRejectsBadSecret(t *testing.T) {
	cfg := &Config{APIKey: "sk_test_123", CallbackSecret: "whsec_42"}

	body := []byte(`{"id":"evt_1","type":"invoice_paid","secret_token":"wrong"}`)
	if _, err := ParseWebhook(cfg, body); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	if _, err := ParseWebhook(cfg, []byte("not json")); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected ErrResponseInvalid, got %v", err)
	}

	// Without a configured secret events pass through unchecked.
	open := &Config{APIKey: "sk_test_123"}
	if _, err := ParseWebhook(open, body); err != nil {
		t.Fatalf("expected pass without secret, got %v", err)
	}
}
