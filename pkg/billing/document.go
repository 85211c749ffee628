package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RenderConfig holds the fixed presentation settings for invoice documents.
// Timezone and currency are pinned in configuration so rendered output is
// deterministic regardless of the server's ambient locale.
type RenderConfig struct {
	TaxRate        decimal.Decimal
	CurrencySymbol string
	Location       *time.Location
	IssuerName     string
}

// InvoiceContext carries everything the renderer needs about one invoice.
// It is owned by a single generation request and never shared.
type InvoiceContext struct {
	Number     int
	OwnerName  string
	OwnerEmail string
	IssuedAt   time.Time
	Items      []LineItem
}

// Reference returns the display reference for the invoice number
func (c InvoiceContext) Reference() string {
	return fmt.Sprintf("INV-%06d", c.Number)
}

// Document is the structured, fully formatted invoice document. It is the
// renderer's output and the exporter's only input; it holds no unformatted
// numbers and requires no further computation to serialize.
type Document struct {
	Header    Header
	Table     Table
	Totals    TotalsBlock
	Signature Signature
}

// Header is the invoice header block
type Header struct {
	Title      string
	Reference  string
	IssuedAt   string
	IssuerName string
	OwnerName  string
	OwnerEmail string
}

// Table is the itemized line item table. Row order matches the input order
// of the validated items.
type Table struct {
	Columns []string
	Rows    [][]string
}

// TotalsBlock is the formatted totals section
type TotalsBlock struct {
	Subtotal   string
	TaxLabel   string
	TaxAmount  string
	GrandTotal string
}

// Signature is the fixed signature/footer block
type Signature struct {
	Lines []string
}

const dateLayout = "02 Jan 2006, 03:04 PM MST"

// FormatMoney formats an amount to two decimal places with the currency
// symbol. StringFixed rounds half away from zero, matching the observed
// presentation behavior.
func FormatMoney(amount decimal.Decimal, symbol string) string {
	return symbol + amount.StringFixed(2)
}

// BuildDocument assembles the structured invoice document from the invoice
// context and its derived totals. Pure function; no I/O.
func BuildDocument(inv InvoiceContext, totals Totals, cfg RenderConfig) *Document {
	header := Header{
		Title:      "INVOICE",
		Reference:  inv.Reference(),
		IssuedAt:   inv.IssuedAt.In(cfg.Location).Format(dateLayout),
		IssuerName: cfg.IssuerName,
		OwnerName:  inv.OwnerName,
		OwnerEmail: inv.OwnerEmail,
	}

	table := Table{
		Columns: []string{"#", "Item", "Qty", "Unit Rate", "Amount"},
		Rows:    make([][]string, 0, len(inv.Items)),
	}
	for i, item := range inv.Items {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", i+1),
			item.Name,
			fmt.Sprintf("%d", item.Quantity),
			FormatMoney(item.Rate, cfg.CurrencySymbol),
			FormatMoney(item.Amount(), cfg.CurrencySymbol),
		})
	}

	taxPercent := cfg.TaxRate.Mul(decimal.NewFromInt(100))

	return &Document{
		Header: header,
		Table:  table,
		Totals: TotalsBlock{
			Subtotal:   FormatMoney(totals.Subtotal, cfg.CurrencySymbol),
			TaxLabel:   fmt.Sprintf("Tax (%s%%)", taxPercent.String()),
			TaxAmount:  FormatMoney(totals.TaxAmount, cfg.CurrencySymbol),
			GrandTotal: FormatMoney(totals.GrandTotal, cfg.CurrencySymbol),
		},
		Signature: Signature{
			Lines: []string{
				"Authorized Signatory",
				cfg.IssuerName,
				"This is a computer generated invoice.",
			},
		},
	}
}
