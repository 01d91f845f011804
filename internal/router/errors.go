package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/payments"
	"github.com/storefront-labs/checkout-api/pkg/pricing"
)

// couponErrorCodes maps coupon business-rule failures to field-level codes on
// coupon_code, matching the checkout form's error surface.
var couponErrorCodes = map[error]string{
	orders.ErrCouponNotFound:     "not_found",
	orders.ErrCouponInactive:     "inactive",
	orders.ErrCouponNotYetValid:  "not_yet_valid",
	orders.ErrCouponExpired:      "expired",
	orders.ErrCouponExhausted:    "usage_exceeded",
	orders.ErrCouponBelowMinimum: "below_minimum",
}

// respondBusinessError turns service errors into structured 4xx responses.
// Anything unrecognized is a 500 with no internal detail leaked.
func respondBusinessError(c *gin.Context, err error) {
	for sentinel, code := range couponErrorCodes {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid coupon", []global.ValidationError{
				{Field: "coupon_code", Message: sentinel.Error(), Code: code},
			}))
			return
		}
	}

	switch {
	case errors.Is(err, orders.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Cart is empty", []global.ValidationError{
			{Field: "cart", Message: "Cart is empty", Code: "empty_cart"},
		}))
	case errors.Is(err, orders.ErrInsufficientStock):
		c.JSON(http.StatusConflict, global.ErrorResponse("Insufficient stock", []global.ValidationError{
			{Field: "cart", Message: err.Error(), Code: "insufficient_stock"},
		}))
	case errors.Is(err, pricing.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid quantity", []global.ValidationError{
			{Field: "quantity", Message: "Quantity must be at least 1", Code: "invalid_quantity"},
		}))
	case errors.Is(err, orders.ErrProductNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "product", Message: err.Error(), Code: "not_found"},
		}))
	case errors.Is(err, orders.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse("Customer not found", []global.ValidationError{
			{Field: "customer_id", Message: err.Error(), Code: "not_found"},
		}))
	case errors.Is(err, orders.ErrAddressNotFound):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Delivery address not found", []global.ValidationError{
			{Field: "delivery_address_id", Message: err.Error(), Code: "not_found"},
		}))
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", []global.ValidationError{
			{Field: "public_id", Message: "No order exists with this id", Code: "not_found"},
		}))
	case errors.Is(err, orders.ErrUnknownProvider):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Unknown payment provider", []global.ValidationError{
			{Field: "payment_provider", Message: err.Error(), Code: "invalid_choice"},
		}))
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid status transition", []global.ValidationError{
			{Field: "status", Message: err.Error(), Code: "invalid_transition"},
		}))
	case errors.Is(err, orders.ErrInvalidAdjustment):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid stock adjustment", []global.ValidationError{
			{Field: "delta", Message: err.Error(), Code: "invalid_adjustment"},
		}))
	case errors.Is(err, payments.ErrUnconfigured), errors.Is(err, payments.ErrProvider):
		// Retryable from the client's point of view; the order attempt was
		// rolled back entirely.
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Payment provider error. Please try again.", []global.ValidationError{
			{Field: "payment", Message: "Payment provider error. Please try again.", Code: "provider_error"},
		}))
	default:
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Internal error", nil))
	}
}
