package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var standardTaxRate = decimal.RequireFromString("0.18")

func TestComputeTotals(t *testing.T) {
	t.Run("sums item amounts and applies tax", func(t *testing.T) {
		items := []LineItem{
			{Name: "Widget", Quantity: 2, Rate: decimal.RequireFromString("10.00")},
			{Name: "Gadget", Quantity: 1, Rate: decimal.RequireFromString("5.00")},
		}

		totals := ComputeTotals(items, standardTaxRate)

		assert.Equal(t, "25.00", totals.Subtotal.StringFixed(2))
		assert.Equal(t, "4.50", totals.TaxAmount.StringFixed(2))
		assert.Equal(t, "29.50", totals.GrandTotal.StringFixed(2))
	})

	t.Run("empty items yield zero totals", func(t *testing.T) {
		totals := ComputeTotals(nil, standardTaxRate)

		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.TaxAmount.IsZero())
		assert.True(t, totals.GrandTotal.IsZero())
	})

	t.Run("accumulation is exact before display rounding", func(t *testing.T) {
		// 3 * 0.10 accumulates exactly with decimals, unlike floats
		items := []LineItem{
			{Name: "A", Quantity: 1, Rate: decimal.RequireFromString("0.10")},
			{Name: "B", Quantity: 1, Rate: decimal.RequireFromString("0.10")},
			{Name: "C", Quantity: 1, Rate: decimal.RequireFromString("0.10")},
		}

		totals := ComputeTotals(items, standardTaxRate)

		assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("0.30")))
		assert.True(t, totals.TaxAmount.Equal(decimal.RequireFromString("0.054")))
		assert.True(t, totals.GrandTotal.Equal(decimal.RequireFromString("0.354")))
	})

	t.Run("deterministic for the same input", func(t *testing.T) {
		items := []LineItem{
			{Name: "Widget", Quantity: 7, Rate: decimal.RequireFromString("3.33")},
		}

		first := ComputeTotals(items, standardTaxRate)
		second := ComputeTotals(items, standardTaxRate)

		assert.True(t, first.Subtotal.Equal(second.Subtotal))
		assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
		assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	})
}
