package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/metrics"
	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/payments"
)

// checkoutTimeout is longer than the default request budget because the flow
// includes a round trip to the payment provider.
const checkoutTimeout = 30 * time.Second

// Checkout converts the session cart into an order with a pending payment and
// returns the provider handle the client needs to complete payment.
func Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), checkoutTimeout)
	defer cancel()

	result, err := svc.Checkout(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInsufficientStock):
			metrics.StockConflicts.Inc()
			metrics.CheckoutTotal.WithLabelValues("rejected").Inc()
		case errors.Is(err, payments.ErrProvider), errors.Is(err, payments.ErrUnconfigured):
			logging.L().Error("checkout provider failure",
				zap.String("session_id", req.SessionID), zap.Error(err))
			metrics.CheckoutTotal.WithLabelValues("provider_error").Inc()
		default:
			metrics.CheckoutTotal.WithLabelValues("rejected").Inc()
		}
		respondBusinessError(c, err)
		return
	}

	metrics.CheckoutTotal.WithLabelValues("success").Inc()
	logging.L().Info("checkout completed",
		zap.String("order", result.Order.PublicID),
		zap.String("provider", result.Payment.Provider),
		zap.Float64("total", result.Order.Total))

	resp := gin.H{
		"order":   result.Order,
		"payment": result.Payment,
	}
	if result.ClientSecret != "" {
		resp["client_secret"] = result.ClientSecret
	}
	if result.PaymentURL != "" {
		resp["payment_url"] = result.PaymentURL
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(resp))
}
