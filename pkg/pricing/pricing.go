// Package pricing resolves effective unit prices and line totals. It is a
// pure function of catalog state: no lookups, no side effects. All currency
// arithmetic goes through decimal and is rounded to 2 places at every step.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/checkout-api/pkg/models"
)

var ErrInvalidQuantity = errors.New("pricing: quantity must be at least 1")

// Quote is a priced order line with the product identity frozen at quote time.
type Quote struct {
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Snapshot  models.ProductSnapshot
}

// EffectiveUnitPrice returns the discount price when it is set and strictly
// lower than the list price, otherwise the list price.
func EffectiveUnitPrice(p *models.Product) decimal.Decimal {
	price := decimal.NewFromFloat(p.Price)
	if p.DiscountPrice != nil {
		discounted := decimal.NewFromFloat(*p.DiscountPrice)
		if discounted.LessThan(price) {
			return discounted
		}
	}
	return price
}

// QuoteLine prices quantity units of the product.
func QuoteLine(p *models.Product, quantity int) (Quote, error) {
	if quantity < 1 {
		return Quote{}, ErrInvalidQuantity
	}
	unit := EffectiveUnitPrice(p).Round(2)
	return Quote{
		UnitPrice: unit,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		Snapshot:  p.Snapshot(),
	}, nil
}

// Money converts a decimal amount to the 2-dp float64 stored on models.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// FromMoney lifts a stored float64 amount back into decimal space.
func FromMoney(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
