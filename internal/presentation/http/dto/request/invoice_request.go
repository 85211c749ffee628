package request

import "github.com/billify/billify-api/pkg/billing"

// GenerateInvoiceRequest represents an invoice generation request. Items may
// be empty; the resulting invoice then carries all-zero totals. Quantity and
// rate accept both JSON numbers and numeric strings.
type GenerateInvoiceRequest struct {
	Items []billing.RawLineItem `json:"items"`
}

// InvoiceFilterRequest represents invoice list query parameters
type InvoiceFilterRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
