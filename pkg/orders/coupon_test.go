package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/models"
)

func baseCoupon() *models.Coupon {
	return &models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountPercent,
		DiscountValue: 10,
		IsActive:      true,
	}
}

func TestValidateCoupon(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	one := 1

	tests := []struct {
		name     string
		mutate   func(c *models.Coupon)
		subtotal string
		wantErr  error
		want     string
	}{
		{
			name:     "percent discount",
			mutate:   func(c *models.Coupon) {},
			subtotal: "100.00",
			want:     "10.00",
		},
		{
			name:     "percent discount rounds",
			mutate:   func(c *models.Coupon) {},
			subtotal: "33.33",
			want:     "3.33",
		},
		{
			name: "fixed discount",
			mutate: func(c *models.Coupon) {
				c.DiscountType = models.DiscountFixed
				c.DiscountValue = 5
			},
			subtotal: "50.00",
			want:     "5.00",
		},
		{
			name: "fixed discount clamped to subtotal",
			mutate: func(c *models.Coupon) {
				c.DiscountType = models.DiscountFixed
				c.DiscountValue = 80
			},
			subtotal: "50.00",
			want:     "50.00",
		},
		{
			name:     "inactive",
			mutate:   func(c *models.Coupon) { c.IsActive = false },
			subtotal: "100.00",
			wantErr:  ErrCouponInactive,
		},
		{
			name:     "not yet valid",
			mutate:   func(c *models.Coupon) { c.ValidFrom = future },
			subtotal: "100.00",
			wantErr:  ErrCouponNotYetValid,
		},
		{
			name:     "expired",
			mutate:   func(c *models.Coupon) { c.ValidUntil = &past },
			subtotal: "100.00",
			wantErr:  ErrCouponExpired,
		},
		{
			name: "exhausted",
			mutate: func(c *models.Coupon) {
				c.MaxUses = &one
				c.UsesCount = 1
			},
			subtotal: "100.00",
			wantErr:  ErrCouponExhausted,
		},
		{
			name:     "below minimum",
			mutate:   func(c *models.Coupon) { c.MinOrderTotal = 200 },
			subtotal: "100.00",
			wantErr:  ErrCouponBelowMinimum,
		},
		{
			name: "at minimum passes",
			mutate: func(c *models.Coupon) {
				c.MinOrderTotal = 100
			},
			subtotal: "100.00",
			want:     "10.00",
		},
		{
			name: "inactive wins over expired",
			mutate: func(c *models.Coupon) {
				c.IsActive = false
				c.ValidUntil = &past
			},
			subtotal: "100.00",
			wantErr:  ErrCouponInactive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			coupon := baseCoupon()
			tc.mutate(coupon)
			subtotal := decimal.RequireFromString(tc.subtotal)

			discount, err := ValidateCoupon(coupon, subtotal, now)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, discount.StringFixed(2))
		})
	}
}

func TestApplyCouponReadOnly(t *testing.T) {
	env := newTestEnv(global.CheckoutConfig{})
	env.store.addCoupon(&models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountPercent,
		DiscountValue: 10,
		IsActive:      true,
	})

	coupon, discount, err := env.svc.ApplyCoupon(context.Background(), "SAVE10", 80.00)
	require.NoError(t, err)
	assert.Equal(t, 8.00, discount)
	assert.Equal(t, "SAVE10", coupon.Code)

	// Dry-run validation never consumes a use.
	stored, err := env.store.CouponByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsesCount)
}

func TestApplyCouponUnknownCode(t *testing.T) {
	env := newTestEnv(global.CheckoutConfig{})
	_, _, err := env.svc.ApplyCoupon(context.Background(), "NOPE", 80.00)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
