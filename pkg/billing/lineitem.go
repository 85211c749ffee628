package billing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/billify/billify-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// RawLineItem is a line item as submitted by the client, before validation.
// Quantity and Rate are kept as json.Number because form-driven clients post
// them as strings and API clients post them as numbers.
type RawLineItem struct {
	Name     string      `json:"name"`
	Quantity json.Number `json:"qty"`
	Rate     json.Number `json:"rate"`
}

// UnmarshalJSON accepts qty and rate as either JSON numbers or numeric strings
func (r *RawLineItem) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name     string          `json:"name"`
		Quantity json.RawMessage `json:"qty"`
		Rate     json.RawMessage `json:"rate"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Name = aux.Name
	r.Quantity = rawNumber(aux.Quantity)
	r.Rate = rawNumber(aux.Rate)
	return nil
}

func rawNumber(raw json.RawMessage) json.Number {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "null" {
		s = ""
	}
	return json.Number(s)
}

// LineItem is a validated invoice line item. It is immutable once produced
// by ValidateItems.
type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
}

// Amount returns quantity multiplied by the unit rate
func (li LineItem) Amount() decimal.Decimal {
	return li.Rate.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ValidateItems validates and normalizes raw line items. It collects every
// field error across all items rather than failing on the first one, so the
// caller can report the full picture in a single response. An empty list is
// valid and yields an empty slice. Validation has no side effects.
func ValidateItems(rawItems []RawLineItem) ([]LineItem, error) {
	items := make([]LineItem, 0, len(rawItems))
	var fieldErrors []apperror.FieldError

	for i, raw := range rawItems {
		item := LineItem{Name: strings.TrimSpace(raw.Name)}

		if item.Name == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].name", i),
				Message: "name is required",
			})
		}

		qty, err := strconv.Atoi(string(raw.Quantity))
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].qty", i),
				Message: "quantity must be an integer",
			})
		case qty < 0:
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].qty", i),
				Message: "quantity must not be negative",
			})
		default:
			item.Quantity = qty
		}

		rate, err := decimal.NewFromString(string(raw.Rate))
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].rate", i),
				Message: "rate must be a number",
			})
		case rate.IsNegative():
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].rate", i),
				Message: "rate must not be negative",
			})
		default:
			item.Rate = rate
		}

		items = append(items, item)
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	return items, nil
}
