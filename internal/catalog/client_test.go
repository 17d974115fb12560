package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClientSnapshotPaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":2,"results":[
			{"id":1,"name":"تمر سكري","price":"45.00","farm":{"name":"مزرعة القصيم"},"unit":"kg"},
			{"id":2,"name":"لبن طازج","price":12,"farm_name":"ألبان الخرج","is_available":false}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	products, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].FarmName != "مزرعة القصيم" {
		t.Fatalf("nested farm object not resolved: %+v", products[0])
	}
	if !products[0].Price.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected price 45, got %s", products[0].Price)
	}
	if !products[0].Available {
		t.Fatalf("missing is_available must default to true")
	}
	if products[1].Available {
		t.Fatalf("is_available=false not honored")
	}
}

func TestClientSnapshotBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":3,"name":"طماطم عضوية","price":"oops","farm":"مزرعة الرياض"},
			{"id":4,"name":"خيار بلدي","price":"8.50","farm":"مزرعة الرياض"}
		]`))
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL, time.Second).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].FarmName != "مزرعة الرياض" {
		t.Fatalf("string farm not resolved: %+v", products[0])
	}
	// A corrupt price degrades that one row to zero, never the whole snapshot.
	if !products[0].Price.IsZero() {
		t.Fatalf("unparseable price must decode as zero, got %s", products[0].Price)
	}
	if products[1].Price.StringFixed(2) != "8.50" {
		t.Fatalf("good row must keep its price, got %s", products[1].Price)
	}
}

func TestClientSnapshotBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Snapshot(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientSnapshotUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL, time.Second).Snapshot(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestDecodeProductListRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "plain text", `"quoted"`} {
		if _, err := DecodeProductList(strings.NewReader(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
