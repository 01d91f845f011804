package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/checkout-api/pkg/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestEffectiveUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount *float64
		want     string
	}{
		{"no discount", 20.00, nil, "20"},
		{"discount lower", 20.00, floatPtr(15.00), "15"},
		{"discount equal ignored", 20.00, floatPtr(20.00), "20"},
		{"discount higher ignored", 20.00, floatPtr(25.00), "20"},
		{"free discount", 20.00, floatPtr(0), "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &models.Product{Price: tc.price, DiscountPrice: tc.discount}
			assert.Equal(t, tc.want, EffectiveUnitPrice(p).String())
		})
	}
}

func TestQuoteLine(t *testing.T) {
	p := &models.Product{
		Name:          "widget",
		SKU:           "W-1",
		Price:         20.00,
		DiscountPrice: floatPtr(15.00),
	}

	quote, err := QuoteLine(p, 2)
	require.NoError(t, err)
	assert.Equal(t, "15.00", quote.UnitPrice.StringFixed(2))
	assert.Equal(t, "30.00", quote.LineTotal.StringFixed(2))
	assert.Equal(t, "widget", quote.Snapshot.Name)
	assert.Equal(t, "W-1", quote.Snapshot.SKU)
}

func TestQuoteLineRounding(t *testing.T) {
	p := &models.Product{Price: 9.995}
	quote, err := QuoteLine(p, 3)
	require.NoError(t, err)
	// Unit price rounds first, then multiplies: 10.00 * 3, not 29.985 rounded.
	assert.Equal(t, "10.00", quote.UnitPrice.StringFixed(2))
	assert.Equal(t, "30.00", quote.LineTotal.StringFixed(2))
}

func TestQuoteLineInvalidQuantity(t *testing.T) {
	p := &models.Product{Price: 10.00}
	for _, qty := range []int{0, -1} {
		_, err := QuoteLine(p, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	assert.Equal(t, 19.99, Money(FromMoney(19.99)))
	assert.Equal(t, "0.10", FromMoney(0.1).StringFixed(2))
}
