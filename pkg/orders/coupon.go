package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/pricing"
)

var oneHundred = decimal.NewFromInt(100)

// ValidateCoupon checks the coupon against the clock and the given subtotal
// and computes the discount. Checks run in a fixed order so the caller gets
// the most specific failure. It never mutates uses_count; that increment
// belongs to the checkout transaction.
func ValidateCoupon(c *models.Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	zero := decimal.Zero
	if !c.IsActive {
		return zero, ErrCouponInactive
	}
	if now.Before(c.ValidFrom) {
		return zero, ErrCouponNotYetValid
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return zero, ErrCouponExpired
	}
	if c.Exhausted() {
		return zero, ErrCouponExhausted
	}
	if subtotal.LessThan(pricing.FromMoney(c.MinOrderTotal)) {
		return zero, ErrCouponBelowMinimum
	}

	value := decimal.NewFromFloat(c.DiscountValue)
	if c.DiscountType == models.DiscountPercent {
		return subtotal.Mul(value).Div(oneHundred).Round(2), nil
	}
	// Fixed discount never exceeds the subtotal.
	if value.GreaterThan(subtotal) {
		return subtotal.Round(2), nil
	}
	return value.Round(2), nil
}

// ApplyCoupon resolves a code and computes the discount for a subtotal.
// Read-only; backs the coupon-apply endpoint.
func (s *Service) ApplyCoupon(ctx context.Context, code string, subtotal float64) (*models.Coupon, float64, error) {
	coupon, err := s.Store.CouponByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	discount, err := ValidateCoupon(coupon, pricing.FromMoney(subtotal), time.Now())
	if err != nil {
		return nil, 0, err
	}
	return coupon, pricing.Money(discount), nil
}
