package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rl1809/primo-pizza/internal/core/domain"
)

func line(price float64, qty int) domain.CartLine {
	return domain.CartLine{MenuItem: domain.MenuItem{ID: "x", Price: price}, Quantity: qty}
}

func TestTotal_FloorsBeforeAddingFee(t *testing.T) {
	assert.Equal(t, 3.0, Total(10, 15, 3))
	assert.Equal(t, 8.0, Total(10, 5, 3))
	assert.Equal(t, 0.0, Total(0, 0, 0))
}

func TestDiscount(t *testing.T) {
	percent := &domain.Promotion{Type: domain.DiscountPercent, Value: 10}
	fixed := &domain.Promotion{Type: domain.DiscountFixed, Value: 25}

	assert.InDelta(t, 5.0, Discount(50, percent), 1e-9)
	assert.Equal(t, 25.0, Discount(10, fixed), "fixed discount is not clamped to subtotal")
	assert.Equal(t, 0.0, Discount(10, nil))
	assert.Equal(t, 0.0, Discount(10, &domain.Promotion{Type: "bogus", Value: 3}))
}

func TestCompute_WelcomeScenario(t *testing.T) {
	promo := &domain.Promotion{Code: "WELCOME10", Type: domain.DiscountPercent, Value: 10, Active: true}

	q := Compute([]domain.CartLine{line(15.99, 2)}, promo, 5.99)

	assert.InDelta(t, 31.98, q.Subtotal, 1e-9)
	assert.InDelta(t, 3.198, q.Discount, 1e-9)
	assert.InDelta(t, 34.772, q.Total, 1e-9)
	assert.Equal(t, 34.77, q.Rounded().Total)
	assert.Equal(t, "$34.77", Format(q.Total))
}

func TestCompute_FixedDiscountExceedingSubtotal(t *testing.T) {
	promo := &domain.Promotion{Type: domain.DiscountFixed, Value: 20}

	q := Compute([]domain.CartLine{line(4.5, 2)}, promo, 2.99)

	assert.Equal(t, 9.0, q.Subtotal)
	assert.Equal(t, 20.0, q.Discount)
	assert.Equal(t, 2.99, q.Total)
}

func TestSubtotal_MultipleLines(t *testing.T) {
	got := Subtotal([]domain.CartLine{line(10, 1), line(2.5, 4), line(1, 0)})
	assert.Equal(t, 20.0, got)
}

func TestPoints(t *testing.T) {
	assert.Equal(t, 34, Points(34.772))
	assert.Equal(t, 0, Points(0.99))
	assert.Equal(t, 0, Points(-3))
	assert.Equal(t, 100, Points(100))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$0.00", Format(0))
	assert.Equal(t, "$3.20", Format(3.198))
	assert.Equal(t, "-$1.50", Format(-1.5))
}
