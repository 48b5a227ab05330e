// Package pricing computes cart totals. All arithmetic is done on the raw
// float values; rounding to cents is a display concern (see RoundCents).
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rl1809/primo-pizza/internal/core/domain"
)

// Quote is the price breakdown for a cart.
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

func Subtotal(lines []domain.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum
}

// Discount returns the amount a promotion takes off subtotal. Fixed discounts
// are not clamped to the subtotal; Total floors the difference instead.
func Discount(subtotal float64, promo *domain.Promotion) float64 {
	if promo == nil {
		return 0
	}
	switch promo.Type {
	case domain.DiscountPercent:
		return subtotal * (promo.Value / 100)
	case domain.DiscountFixed:
		return promo.Value
	}
	return 0
}

// Total floors subtotal-discount at zero before adding the delivery fee, so
// the fee is never discounted away.
func Total(subtotal, discount, deliveryFee float64) float64 {
	return math.Max(0, subtotal-discount) + deliveryFee
}

func Compute(lines []domain.CartLine, promo *domain.Promotion, deliveryFee float64) Quote {
	subtotal := Subtotal(lines)
	discount := Discount(subtotal, promo)
	return Quote{
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		Total:       Total(subtotal, discount, deliveryFee),
	}
}

// Points is the loyalty accrual for an order total: one point per whole
// currency unit.
func Points(total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(total))
}

// RoundCents rounds half away from zero to two decimal places.
func RoundCents(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// Format renders amount as a dollar string, e.g. "$34.77".
func Format(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Rounded returns q with every field rounded to cents.
func (q Quote) Rounded() Quote {
	return Quote{
		Subtotal:    RoundCents(q.Subtotal),
		Discount:    RoundCents(q.Discount),
		DeliveryFee: RoundCents(q.DeliveryFee),
		Total:       RoundCents(q.Total),
	}
}
