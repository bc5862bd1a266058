package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-receipts/internal/model"
)

func TestItemSubtotal(t *testing.T) {
	assert.Equal(t, 9.0, ItemSubtotal(2, 4.50))
	assert.Equal(t, 8.99, ItemSubtotal(1, 8.99))
	assert.Equal(t, 0.0, ItemSubtotal(3, 0))
}

func TestAddItem_AppendsNewLines(t *testing.T) {
	items, err := AddItem(nil, "1", "Coffee", 4.50, 2)
	require.NoError(t, err)
	items, err = AddItem(items, "2", "Bagel", 8.99, 1)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Coffee", items[0].ProductName)
	assert.Equal(t, 9.0, items[0].Subtotal)
	assert.Equal(t, 8.99, items[1].Subtotal)
}

func TestAddItem_MergesDuplicateProduct(t *testing.T) {
	items, err := AddItem(nil, "1", "Coffee", 4.50, 2)
	require.NoError(t, err)
	items, err = AddItem(items, "1", "Coffee", 4.50, 3)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 22.50, items[0].Subtotal)
}

func TestAddItem_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		quantity int
		field    string
	}{
		{"zero quantity", 4.50, 0, "quantity"},
		{"negative quantity", 4.50, -1, "quantity"},
		{"negative price", -0.01, 1, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := AddItem(nil, "1", "Coffee", tt.price, tt.quantity)
			require.Error(t, err)
			assert.Empty(t, items)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestComputeTotals_DiscountAppliesBeforeTax(t *testing.T) {
	items := []model.ReceiptItem{
		{ProductID: "1", ProductName: "Coffee", Quantity: 2, Price: 4.50, Subtotal: 9.00},
		{ProductID: "2", ProductName: "Bagel", Quantity: 1, Price: 8.99, Subtotal: 8.99},
	}

	totals, err := ComputeTotals(items, Options{
		IncludeDiscount: true,
		DiscountRate:    10,
		IncludeTax:      true,
		TaxRate:         8,
	})
	require.NoError(t, err)

	assert.Equal(t, 17.99, totals.Subtotal)
	assert.Equal(t, 1.80, totals.Discount)
	// Tax on the discounted base (16.19), not the raw subtotal.
	assert.Equal(t, 1.30, totals.Tax)
	assert.Equal(t, 17.49, totals.Total)
}

func TestComputeTotals_NoOptions(t *testing.T) {
	items := []model.ReceiptItem{
		{ProductID: "1", Quantity: 2, Price: 4.50, Subtotal: 9.00},
	}

	totals, err := ComputeTotals(items, Options{})
	require.NoError(t, err)

	assert.Equal(t, 9.00, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Discount)
	assert.Equal(t, 0.0, totals.Tax)
	assert.Equal(t, 9.00, totals.Total)
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	totals, err := ComputeTotals(nil, Options{IncludeTax: true, TaxRate: 8})
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

func TestComputeTotals_TotalInvariant(t *testing.T) {
	items := []model.ReceiptItem{
		{ProductID: "1", Quantity: 3, Price: 2.35, Subtotal: 7.05},
		{ProductID: "2", Quantity: 1, Price: 19.99, Subtotal: 19.99},
		{ProductID: "3", Quantity: 7, Price: 0.60, Subtotal: 4.20},
	}

	for _, rates := range [][2]float64{{0, 0}, {10, 8}, {100, 100}, {12.5, 7.7}} {
		totals, err := ComputeTotals(items, Options{
			IncludeDiscount: true,
			DiscountRate:    rates[0],
			IncludeTax:      true,
			TaxRate:         rates[1],
		})
		require.NoError(t, err)
		assert.Equal(t, Round2(totals.Subtotal-totals.Discount+totals.Tax), totals.Total)
	}
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	a := []model.ReceiptItem{
		{ProductID: "1", Quantity: 2, Price: 4.50, Subtotal: 9.00},
		{ProductID: "2", Quantity: 1, Price: 8.99, Subtotal: 8.99},
		{ProductID: "3", Quantity: 5, Price: 1.20, Subtotal: 6.00},
	}
	b := []model.ReceiptItem{a[2], a[0], a[1]}

	opts := Options{IncludeDiscount: true, DiscountRate: 10, IncludeTax: true, TaxRate: 8}

	totalsA, err := ComputeTotals(a, opts)
	require.NoError(t, err)
	totalsB, err := ComputeTotals(b, opts)
	require.NoError(t, err)

	assert.Equal(t, totalsA, totalsB)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []model.ReceiptItem{
		{ProductID: "1", Quantity: 2, Price: 4.50, Subtotal: 9.00},
	}
	opts := Options{IncludeDiscount: true, DiscountRate: 10, IncludeTax: true, TaxRate: 8}

	first, err := ComputeTotals(items, opts)
	require.NoError(t, err)
	second, err := ComputeTotals(items, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeTotals_RejectsOutOfRangeRates(t *testing.T) {
	items := []model.ReceiptItem{
		{ProductID: "1", Quantity: 1, Price: 10, Subtotal: 10},
	}

	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{"discount above 100", Options{IncludeDiscount: true, DiscountRate: 100.5}, "discount_rate"},
		{"negative discount", Options{IncludeDiscount: true, DiscountRate: -1}, "discount_rate"},
		{"tax above 100", Options{IncludeTax: true, TaxRate: 101}, "tax_rate"},
		{"negative tax", Options{IncludeTax: true, TaxRate: -0.1}, "tax_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTotals(items, tt.opts)
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestComputeTotals_IgnoresDisabledRates(t *testing.T) {
	items := []model.ReceiptItem{
		{ProductID: "1", Quantity: 1, Price: 10, Subtotal: 10},
	}

	// Out-of-range rates are irrelevant while the flags are off.
	totals, err := ComputeTotals(items, Options{DiscountRate: 500, TaxRate: -20})
	require.NoError(t, err)
	assert.Equal(t, 10.0, totals.Total)
}
