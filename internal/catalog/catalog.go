// Package catalog defines the product snapshot the cart reconciles against,
// and the sources that can produce it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnavailable means the catalog could not be reached; callers must leave
// dependent state unchanged.
var ErrUnavailable = errors.New("catalog: unavailable")

// Product is the catalog view the cart cares about.
type Product struct {
	ID        uint
	Name      string
	Price     decimal.Decimal
	FarmName  string
	Unit      string
	ImageURL  string
	Available bool
}

// Source produces a point-in-time product snapshot.
type Source interface {
	Snapshot(ctx context.Context) ([]Product, error)
}

// UnmarshalJSON tolerates the two historical API shapes: "farm" as either a
// string or a nested {name} object, and "image" vs "image_url".
func (p *Product) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID          uint            `json:"id"`
		Name        string          `json:"name"`
		Price       json.RawMessage `json:"price"`
		Farm        json.RawMessage `json:"farm"`
		FarmName    string          `json:"farm_name"`
		Unit        string          `json:"unit"`
		Image       string          `json:"image"`
		ImageURL    string          `json:"image_url"`
		IsAvailable *bool           `json:"is_available"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	p.ID = wire.ID
	p.Name = strings.TrimSpace(wire.Name)
	p.Unit = wire.Unit
	p.ImageURL = wire.ImageURL
	if p.ImageURL == "" {
		p.ImageURL = wire.Image
	}
	p.Available = wire.IsAvailable == nil || *wire.IsAvailable

	p.Price = coercePrice(wire.Price)

	p.FarmName = strings.TrimSpace(wire.FarmName)
	if p.FarmName == "" && len(wire.Farm) > 0 {
		var name string
		if err := json.Unmarshal(wire.Farm, &name); err == nil {
			p.FarmName = strings.TrimSpace(name)
		} else {
			var nested struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(wire.Farm, &nested); err == nil {
				p.FarmName = strings.TrimSpace(nested.Name)
			}
		}
	}
	return nil
}

// coercePrice falls back to 0 for anything that is not a non-negative number,
// so one corrupt row cannot poison a whole snapshot.
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
