package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/payments"
)

func respond(err error) (*httptest.ResponseRecorder, global.APIResponse) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondBusinessError(c, err)

	var body global.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRespondBusinessError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantField  string
	}{
		{orders.ErrEmptyCart, http.StatusBadRequest, "cart"},
		{orders.ErrInsufficientStock, http.StatusConflict, "cart"},
		{orders.ErrProductNotFound, http.StatusNotFound, "product"},
		{orders.ErrCustomerNotFound, http.StatusNotFound, "customer_id"},
		{orders.ErrAddressNotFound, http.StatusBadRequest, "delivery_address_id"},
		{orders.ErrOrderNotFound, http.StatusNotFound, "public_id"},
		{orders.ErrUnknownProvider, http.StatusBadRequest, "payment_provider"},
		{orders.ErrInvalidTransition, http.StatusBadRequest, "status"},
		{orders.ErrInvalidAdjustment, http.StatusBadRequest, "delta"},
		{orders.ErrCouponNotFound, http.StatusBadRequest, "coupon_code"},
		{orders.ErrCouponExpired, http.StatusBadRequest, "coupon_code"},
		{orders.ErrCouponExhausted, http.StatusBadRequest, "coupon_code"},
		{payments.ErrProvider, http.StatusBadRequest, "payment"},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w, body := respond(tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.False(t, body.Success)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tc.wantField, body.Errors[0].Field)
		})
	}
}

func TestRespondBusinessErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("checkout for session s1: %w", orders.ErrInsufficientStock)
	w, body := respond(wrapped)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", body.Errors[0].Code)
}

func TestRespondBusinessErrorUnknown(t *testing.T) {
	w, body := respond(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, body.Success)
	// Internal detail must not leak to the client.
	assert.NotContains(t, w.Body.String(), "disk on fire")
}
