package billing

import "github.com/shopspring/decimal"

// Totals holds the monetary totals derived from a set of line items.
// Totals are always recomputed from items and never stored, so they cannot
// drift from the items they describe.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals derives subtotal, tax and grand total from validated line
// items. Accumulation is exact; rounding to two decimal places happens only
// when amounts are formatted for display. A pure function of its inputs:
// an empty item list yields all-zero totals.
func ComputeTotals(items []LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}

	taxAmount := subtotal.Mul(taxRate)

	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  taxAmount,
		GrandTotal: subtotal.Add(taxAmount),
	}
}
