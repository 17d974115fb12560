package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLineWireRoundTrip(t *testing.T) {
	id := uint(7)
	line := Line{
		ProductName: "تمر سكري",
		ProductID:   &id,
		Price:       decimal.RequireFromString("45.5"),
		Quantity:    2,
		FarmName:    "مزرعة القصيم",
	}

	data, err := json.Marshal(line)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Line
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.ProductName != line.ProductName {
		t.Fatalf("expected product %q, got %q", line.ProductName, decoded.ProductName)
	}
	if decoded.ProductID == nil || *decoded.ProductID != 7 {
		t.Fatalf("product id lost in round trip: %+v", decoded)
	}
	if !decoded.Price.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("expected price 45.50, got %s", decoded.Price)
	}
	if decoded.Quantity != 2 || decoded.FarmName != line.FarmName {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestLineDecodeLegacyProductObject(t *testing.T) {
	// Old persisted carts serialized "product" as the full {id, name} record.
	raw := []byte(`{"product":{"id":12,"name":"لبن طازج"},"price":12,"quantity":3}`)

	var line Line
	if err := json.Unmarshal(raw, &line); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if line.ProductName != "لبن طازج" {
		t.Fatalf("expected nested name, got %q", line.ProductName)
	}
	if line.ProductID == nil || *line.ProductID != 12 {
		t.Fatalf("expected product_id backfilled from nested id, got %+v", line.ProductID)
	}
	if line.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", line.Quantity)
	}
}

func TestLineDecodeCorruptedFields(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		price    string
		quantity int
	}{
		{"non-numeric price", `{"product":"طماطم","price":"free","quantity":2}`, "0", 2},
		{"negative price", `{"product":"طماطم","price":-4,"quantity":2}`, "0", 2},
		{"string price", `{"product":"طماطم","price":"10.5","quantity":2}`, "10.5", 2},
		{"missing price", `{"product":"طماطم","quantity":2}`, "0", 2},
		{"zero quantity", `{"product":"طماطم","price":10,"quantity":0}`, "10", 1},
		{"negative quantity", `{"product":"طماطم","price":10,"quantity":-3}`, "10", 1},
		{"string quantity", `{"product":"طماطم","price":10,"quantity":"4"}`, "10", 4},
		{"fractional quantity", `{"product":"طماطم","price":10,"quantity":2.7}`, "10", 2},
		{"missing quantity", `{"product":"طماطم","price":10}`, "10", 1},
	}

	for _, tc := range cases {
		var line Line
		if err := json.Unmarshal([]byte(tc.raw), &line); err != nil {
			t.Fatalf("%s: unmarshal failed: %v", tc.name, err)
		}
		if !line.Price.Equal(decimal.RequireFromString(tc.price)) {
			t.Fatalf("%s: expected price %s, got %s", tc.name, tc.price, line.Price)
		}
		if line.Quantity != tc.quantity {
			t.Fatalf("%s: expected quantity %d, got %d", tc.name, tc.quantity, line.Quantity)
		}
	}
}

func TestNormalizeLines(t *testing.T) {
	id := uint(3)
	lines := []Line{
		{ProductName: "تمر سكري", Price: decimal.NewFromInt(45), Quantity: 2},
		{ProductName: "", Price: decimal.NewFromInt(9), Quantity: 1},
		{ProductName: "تمر سكري", ProductID: &id, Price: decimal.NewFromInt(45), Quantity: 0},
	}

	out := NormalizeLines(lines)
	if len(out) != 1 {
		t.Fatalf("expected 1 line after normalization, got %d", len(out))
	}
	// Duplicates merge by summing quantities (the zero entry counts as one),
	// and the id from any duplicate is kept.
	if out[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", out[0].Quantity)
	}
	if out[0].ProductID == nil || *out[0].ProductID != 3 {
		t.Fatalf("expected id carried over from duplicate, got %+v", out[0].ProductID)
	}
}

func TestParseIdentity(t *testing.T) {
	if got := ParseIdentity("42"); got.ProductID != 42 || got.Name != "" {
		t.Fatalf("digits must parse as product id, got %+v", got)
	}
	if got := ParseIdentity("تمر سكري"); got.ProductID != 0 || got.Name != "تمر سكري" {
		t.Fatalf("names must parse as product name, got %+v", got)
	}
	if got := ParseIdentity("0"); got.ProductID != 0 || got.Name != "0" {
		t.Fatalf("zero is not a valid id, got %+v", got)
	}
}

func TestIdentityMatches(t *testing.T) {
	id := uint(5)
	line := Line{ProductName: "لبن طازج", ProductID: &id}

	if !(Identity{ProductID: 5}).Matches(line) {
		t.Fatalf("id match failed")
	}
	if !(Identity{Name: "لبن طازج"}).Matches(line) {
		t.Fatalf("name match failed")
	}
	if (Identity{ProductID: 6}).Matches(line) {
		t.Fatalf("wrong id must not match")
	}
}
