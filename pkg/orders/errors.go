package orders

import "errors"

// Validation and business-rule errors are recovered at the HTTP boundary and
// turned into structured 4xx responses. ErrStockIntegrity is the one fatal
// case: it signals a logic defect, not user error.
var (
	ErrEmptyCart        = errors.New("orders: cart is empty")
	ErrProductNotFound  = errors.New("orders: product not found")
	ErrAddressNotFound  = errors.New("orders: delivery address not found")
	ErrCustomerNotFound = errors.New("orders: customer not found")

	ErrInsufficientStock = errors.New("orders: insufficient stock")
	ErrInvalidAdjustment = errors.New("orders: invalid stock adjustment")

	ErrCouponNotFound     = errors.New("orders: coupon not found")
	ErrCouponInactive     = errors.New("orders: coupon is not active")
	ErrCouponNotYetValid  = errors.New("orders: coupon is not yet valid")
	ErrCouponExpired      = errors.New("orders: coupon has expired")
	ErrCouponExhausted    = errors.New("orders: coupon has reached its maximum uses")
	ErrCouponBelowMinimum = errors.New("orders: order total below coupon minimum")

	ErrOrderNotFound     = errors.New("orders: order not found")
	ErrPaymentNotFound   = errors.New("orders: payment not found")
	ErrUnknownProvider   = errors.New("orders: unknown payment provider")
	ErrInvalidTransition = errors.New("orders: invalid status transition")

	// ErrDuplicateEvent is returned by the dedup claim when the provider
	// event was already processed.
	ErrDuplicateEvent = errors.New("orders: webhook event already processed")

	// ErrStockIntegrity means a confirmed payment could not deduct stock.
	// Checkout-time validation should have prevented this; the transaction
	// aborts, the payment stays uncaptured, and operators must be alerted.
	ErrStockIntegrity = errors.New("orders: stock integrity violation on paid order")
)
