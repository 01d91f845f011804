package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Address is a customer address record. Checkout copies the chosen address
// into the order's shipping snapshot; later edits here never touch past orders.
type Address struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Line1     string        `json:"line1" bson:"line1" validate:"required,max=255"`
	Line2     string        `json:"line2,omitempty" bson:"line2,omitempty" validate:"max=255"`
	City      string        `json:"city" bson:"city" validate:"required,max=100"`
	Region    string        `json:"region,omitempty" bson:"region,omitempty" validate:"max=100"`
	Postal    string        `json:"postal,omitempty" bson:"postal,omitempty" validate:"max=20"`
	Country   string        `json:"country,omitempty" bson:"country,omitempty" validate:"max=2"`
	IsDefault bool          `json:"is_default" bson:"is_default"`
}

// ToShipping copies the address into an order shipping snapshot.
func (a *Address) ToShipping() ShippingAddress {
	return ShippingAddress{
		Line1:   a.Line1,
		Line2:   a.Line2,
		City:    a.City,
		Region:  a.Region,
		Postal:  a.Postal,
		Country: a.Country,
	}
}

// Customer is the user/address collaborator consumed by checkout for
// attributing orders and resolving delivery addresses.
type Customer struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string        `json:"email" bson:"email" validate:"required,email"`
	Password  string        `json:"-" bson:"password"` // bcrypt hash, never exposed
	FirstName string        `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName  string        `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Phone     string        `json:"phone" bson:"phone" validate:"required,min=7,max=20"`
	Addresses []Address     `json:"addresses" bson:"addresses"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// AddressByID returns the embedded address with the given id, or nil.
func (c *Customer) AddressByID(id bson.ObjectID) *Address {
	for i := range c.Addresses {
		if c.Addresses[i].ID == id {
			return &c.Addresses[i]
		}
	}
	return nil
}

func (c *Customer) SetTimestamps() {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

type CreateCustomerRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"first_name" binding:"required,min=2,max=50"`
	LastName  string  `json:"last_name" binding:"required,min=2,max=50"`
	Phone     string  `json:"phone" binding:"required,min=7,max=20"`
	Address   Address `json:"address"`
}

// CheckoutRequest is the checkout endpoint payload. CustomerID and
// DeliveryAddressID are optional (guest checkout, pickup orders).
type CheckoutRequest struct {
	SessionID         string `json:"session_id" binding:"required"`
	CustomerID        string `json:"customer_id"`
	CustomerName      string `json:"customer_name" binding:"required"`
	CustomerPhone     string `json:"customer_phone" binding:"required"`
	CustomerEmail     string `json:"customer_email" binding:"omitempty,email"`
	DeliveryAddressID string `json:"delivery_address_id"`
	CouponCode        string `json:"coupon_code"`
	PaymentProvider   string `json:"payment_provider"`
	Notes             string `json:"notes"`
	ReturnURL         string `json:"return_url"`
	CancelURL         string `json:"cancel_url"`
}
