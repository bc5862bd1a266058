// Package money holds the receipt arithmetic: line subtotals, the
// merge-on-duplicate add policy, and the subtotal -> discount -> tax -> total
// chain. Everything here is pure; monetary outputs are rounded to 2 decimals.
package money

import (
	"fmt"
	"math"

	"go-pos-receipts/internal/model"
)

// ValidationError reports a rejected input together with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Options are the transaction-time rate parameters. Rates are percentages
// in [0,100] and only consulted when the matching Include flag is set.
type Options struct {
	IncludeDiscount bool    `json:"include_discount"`
	DiscountRate    float64 `json:"discount_rate"`
	IncludeTax      bool    `json:"include_tax"`
	TaxRate         float64 `json:"tax_rate"`
}

// Totals is the computed money breakdown of a receipt.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Round2 rounds to 2 decimal places, the display and storage precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ItemSubtotal computes quantity * price for one line.
func ItemSubtotal(quantity int, price float64) float64 {
	return Round2(float64(quantity) * price)
}

// AddItem adds a product to an in-progress item list. Adding a product that
// is already present merges into the existing line: quantities sum and the
// subtotal is recomputed, never trusted from stale state. This is a business
// rule, not an incidental behavior.
func AddItem(items []model.ReceiptItem, productID, productName string, price float64, quantity int) ([]model.ReceiptItem, error) {
	if quantity < 1 {
		return items, &ValidationError{Field: "quantity", Message: "must be at least 1"}
	}
	if price < 0 {
		return items, &ValidationError{Field: "price", Message: "must not be negative"}
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			items[i].Subtotal = ItemSubtotal(items[i].Quantity, items[i].Price)
			return items, nil
		}
	}

	return append(items, model.ReceiptItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		Price:       price,
		Subtotal:    ItemSubtotal(quantity, price),
	}), nil
}

// ComputeTotals derives the money breakdown from an item list and rate
// options. The ordering is fixed: the discount applies to the raw subtotal
// and tax is computed on the discounted base. Rates outside [0,100] are
// rejected, not clamped.
func ComputeTotals(items []model.ReceiptItem, opts Options) (Totals, error) {
	if opts.IncludeDiscount && (opts.DiscountRate < 0 || opts.DiscountRate > 100) {
		return Totals{}, &ValidationError{Field: "discount_rate", Message: "must be between 0 and 100"}
	}
	if opts.IncludeTax && (opts.TaxRate < 0 || opts.TaxRate > 100) {
		return Totals{}, &ValidationError{Field: "tax_rate", Message: "must be between 0 and 100"}
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Subtotal
	}
	subtotal = Round2(subtotal)

	var discount float64
	if opts.IncludeDiscount {
		discount = Round2(subtotal * opts.DiscountRate / 100)
	}

	taxableBase := subtotal - discount

	var tax float64
	if opts.IncludeTax {
		tax = Round2(taxableBase * opts.TaxRate / 100)
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    Round2(taxableBase + tax),
	}, nil
}
