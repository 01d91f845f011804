package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Coupon is a discount code. UsesCount only ever increases, by exactly one
// per order that references the coupon, and never past MaxUses.
type Coupon struct {
	ID            bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Code          string        `json:"code" bson:"code" validate:"required,min=2,max=50"`
	Description   string        `json:"description" bson:"description" validate:"max=255"`
	DiscountType  string        `json:"discount_type" bson:"discount_type" validate:"required,oneof=percent fixed"`
	DiscountValue float64       `json:"discount_value" bson:"discount_value" validate:"required,gt=0"`
	MinOrderTotal float64       `json:"min_order_total" bson:"min_order_total" validate:"gte=0"`
	MaxUses       *int          `json:"max_uses,omitempty" bson:"max_uses,omitempty"` // nil = unlimited
	UsesCount     int           `json:"uses_count" bson:"uses_count"`
	ValidFrom     time.Time     `json:"valid_from" bson:"valid_from"`
	ValidUntil    *time.Time    `json:"valid_until,omitempty" bson:"valid_until,omitempty"`
	IsActive      bool          `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// Exhausted reports whether the usage cap has been reached.
func (c *Coupon) Exhausted() bool {
	return c.MaxUses != nil && c.UsesCount >= *c.MaxUses
}

func (c *Coupon) SetTimestamps() {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

type CouponApplyRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gte=0"`
}
