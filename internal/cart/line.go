package cart

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Line is one distinct product entry in a cart. The JSON shape is the
// persisted wire format and must round-trip losslessly:
// {"product", "product_id", "price", "quantity", "farm_name"}.
type Line struct {
	ProductName string
	ProductID   *uint
	Price       decimal.Decimal
	Quantity    int
	FarmName    string
}

type lineWire struct {
	Product   json.RawMessage `json:"product"`
	ProductID *uint           `json:"product_id,omitempty"`
	Price     json.RawMessage `json:"price"`
	Quantity  json.RawMessage `json:"quantity"`
	FarmName  string          `json:"farm_name,omitempty"`
}

// MarshalJSON emits the canonical wire shape with price as a plain number.
func (l Line) MarshalJSON() ([]byte, error) {
	out := struct {
		Product   string      `json:"product"`
		ProductID *uint       `json:"product_id,omitempty"`
		Price     json.Number `json:"price"`
		Quantity  int         `json:"quantity"`
		FarmName  string      `json:"farm_name,omitempty"`
	}{
		Product:   l.ProductName,
		ProductID: l.ProductID,
		Price:     json.Number(l.Price.Round(2).StringFixed(2)),
		Quantity:  l.Quantity,
		FarmName:  l.FarmName,
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the canonical shape plus the corrupted variants seen
// in old persisted carts: "product" serialized as a nested {id, name} object,
// non-numeric prices, and missing or fractional quantities.
func (l *Line) UnmarshalJSON(data []byte) error {
	var wire lineWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	l.ProductID = wire.ProductID
	l.FarmName = wire.FarmName
	l.ProductName = decodeProductField(wire.Product, &l.ProductID)
	l.Price = coercePrice(wire.Price)
	l.Quantity = coerceQuantity(wire.Quantity)
	return nil
}

// decodeProductField reads "product" either as a string or as a legacy
// {id, name} object; the object form also backfills product_id.
func decodeProductField(raw json.RawMessage, id **uint) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return strings.TrimSpace(name)
	}
	var nested struct {
		ID   *uint  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		if *id == nil && nested.ID != nil {
			*id = nested.ID
		}
		return strings.TrimSpace(nested.Name)
	}
	return ""
}

// coercePrice falls back to 0 for anything that is not a number.
func coercePrice(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if d, err := decimal.NewFromString(num.String()); err == nil && !d.IsNegative() {
			return d.Round(2)
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil && !d.IsNegative() {
			return d.Round(2)
		}
	}
	return decimal.Zero
}

// coerceQuantity falls back to 1 for anything that is not a positive integer.
func coerceQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if f, err := num.Float64(); err == nil && f >= 1 {
			return int(f)
		}
		return 1
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

// Identity dedupes and addresses cart lines: product id when present,
// otherwise the product name.
type Identity struct {
	ProductID uint // 0 when absent
	Name      string
}

// LineIdentity derives the identity of a line.
func LineIdentity(l Line) Identity {
	ident := Identity{Name: l.ProductName}
	if l.ProductID != nil {
		ident.ProductID = *l.ProductID
	}
	return ident
}

// ParseIdentity reads a path or form value: all-digits means a product id,
// anything else is treated as a product name.
func ParseIdentity(raw string) Identity {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseUint(raw, 10, 32); err == nil && n > 0 {
		return Identity{ProductID: uint(n)}
	}
	return Identity{Name: raw}
}

// Matches reports whether the identity addresses the given line, by id when
// both sides carry one, by name otherwise.
func (i Identity) Matches(l Line) bool {
	if i.ProductID != 0 && l.ProductID != nil && *l.ProductID == i.ProductID {
		return true
	}
	return i.Name != "" && l.ProductName == i.Name
}

// NormalizeLines repairs a freshly loaded line list: empty names are dropped
// and duplicate identities are merged by summing quantities.
func NormalizeLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.ProductName == "" {
			continue
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		merged := false
		for i := range out {
			if LineIdentity(out[i]).Matches(line) || LineIdentity(line).Matches(out[i]) {
				out[i].Quantity += line.Quantity
				if out[i].ProductID == nil && line.ProductID != nil {
					out[i].ProductID = line.ProductID
				}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, line)
		}
	}
	return out
}

func cloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func linesEqual(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductName != b[i].ProductName ||
			a[i].Quantity != b[i].Quantity ||
			!a[i].Price.Equal(b[i].Price) ||
			a[i].FarmName != b[i].FarmName {
			return false
		}
		aID, bID := a[i].ProductID, b[i].ProductID
		if (aID == nil) != (bID == nil) {
			return false
		}
		if aID != nil && *aID != *bID {
			return false
		}
	}
	return true
}
