package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mazraa-market/internal/models"
)

// Summary holds the totals for one cart. The shipping fee is flat and applies
// only when the cart has at least one line; an empty cart is all zeros.
type Summary struct {
	DistinctLines int          `json:"distinct_lines"`
	TotalQuantity int          `json:"total_quantity"`
	Subtotal      models.Money `json:"subtotal"`
	ShippingFee   models.Money `json:"shipping_fee"`
	Total         models.Money `json:"total"`
}

func summarize(lines []Line, shippingFee int) Summary {
	s := Summary{
		DistinctLines: len(lines),
		Subtotal:      models.NewMoneyFromDecimal(decimal.Zero),
		ShippingFee:   models.NewMoneyFromDecimal(decimal.Zero),
		Total:         models.NewMoneyFromDecimal(decimal.Zero),
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		s.TotalQuantity += line.Quantity
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if len(lines) == 0 {
		return s
	}
	fee := decimal.NewFromInt(int64(shippingFee))
	s.Subtotal = models.NewMoneyFromDecimal(subtotal)
	s.ShippingFee = models.NewMoneyFromDecimal(fee)
	s.Total = models.NewMoneyFromDecimal(subtotal.Add(fee))
	return s
}
