package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// orderTransitions is the legal one-directional lifecycle. Terminal states
// have no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderPaid, OrderCancelled},
	OrderConfirmed:  {OrderPaid, OrderCancelled},
	OrderPaid:       {OrderProcessing, OrderCancelled, OrderRefunded},
	OrderProcessing: {OrderShipped, OrderCancelled, OrderRefunded},
	OrderShipped:    {OrderDelivered, OrderRefunded},
	OrderDelivered:  {OrderRefunded},
	OrderCancelled:  {},
	OrderRefunded:   {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShippingAddress is the address snapshot frozen into the order at checkout.
// It is a value copy, never a reference to the customer's address record.
type ShippingAddress struct {
	Line1   string `json:"line1" bson:"line1"`
	Line2   string `json:"line2,omitempty" bson:"line2,omitempty"`
	City    string `json:"city" bson:"city"`
	Region  string `json:"region,omitempty" bson:"region,omitempty"`
	Postal  string `json:"postal,omitempty" bson:"postal,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// OrderItem is one line of an order. ProductID may become dangling if the
// product is later deleted; the snapshot and price keep the line valid.
type OrderItem struct {
	ProductID           *bson.ObjectID  `json:"product_id,omitempty" bson:"product_id,omitempty"`
	ProductSnapshot     ProductSnapshot `json:"product_snapshot" bson:"product_snapshot"`
	Quantity            int             `json:"quantity" bson:"quantity" validate:"required,gte=1"`
	UnitPriceAtPurchase float64         `json:"unit_price_at_purchase" bson:"unit_price_at_purchase" validate:"gte=0"`
	Total               float64         `json:"total" bson:"total" validate:"gte=0"`
}

// Order is the immutable order header plus its owned items. Monetary fields
// are fixed at assembly time; only Status and its companion timestamps change
// afterwards.
type Order struct {
	ID                bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	PublicID          string          `json:"public_id" bson:"public_id"`
	CustomerID        *bson.ObjectID  `json:"customer_id,omitempty" bson:"customer_id,omitempty"` // nil = guest checkout
	CustomerName      string          `json:"customer_name" bson:"customer_name" validate:"required"`
	CustomerPhone     string          `json:"customer_phone" bson:"customer_phone" validate:"required"`
	CustomerEmail     string          `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email"`
	DeliveryAddressID *bson.ObjectID  `json:"delivery_address_id,omitempty" bson:"delivery_address_id,omitempty"`
	Shipping          ShippingAddress `json:"shipping" bson:"shipping"`
	Notes             string          `json:"notes,omitempty" bson:"notes,omitempty"`
	Items             []OrderItem     `json:"items" bson:"items"`
	Subtotal          float64         `json:"subtotal" bson:"subtotal"`
	DiscountAmount    float64         `json:"discount_amount" bson:"discount_amount"`
	TaxAmount         float64         `json:"tax_amount" bson:"tax_amount"`
	ShippingAmount    float64         `json:"shipping_amount" bson:"shipping_amount"`
	Total             float64         `json:"total" bson:"total"`
	Currency          string          `json:"currency" bson:"currency"`
	CouponCode        string          `json:"coupon_code,omitempty" bson:"coupon_code,omitempty"`
	Status            OrderStatus     `json:"status" bson:"status"`
	PaidAt            *time.Time      `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	FulfilledAt       *time.Time      `json:"fulfilled_at,omitempty" bson:"fulfilled_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" bson:"updated_at"`
}

// NewPublicID mints the externally-facing order identifier, e.g. ord_9f2c41a0b7de.
func NewPublicID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ord_" + hex[:12]
}

// ApplyStatus validates the transition and stamps paid_at / fulfilled_at
// exactly once on their respective transitions.
func (o *Order) ApplyStatus(next OrderStatus) error {
	if !next.Valid() {
		return fmt.Errorf("unknown order status %q", next)
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal order transition %s -> %s", o.Status, next)
	}
	now := time.Now()
	o.Status = next
	switch next {
	case OrderPaid:
		if o.PaidAt == nil {
			o.PaidAt = &now
		}
	case OrderDelivered:
		if o.FulfilledAt == nil {
			o.FulfilledAt = &now
		}
	}
	o.UpdatedAt = now
	return nil
}

func (o *Order) SetTimestamps() {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}
