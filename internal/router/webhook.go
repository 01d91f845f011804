package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/metrics"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/payments"
)

// PaymentWebhook receives provider callbacks. The endpoint acknowledges every
// delivery with 200, including forged signatures and internal failures: the
// provider retries on non-2xx and a retry storm can't fix a bad signature or
// a stock integrity problem. Failures are surfaced through logs and metrics
// instead; unverified payloads are discarded without touching any state.
func PaymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Unable to read payload", nil))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	outcome, order, err := svc.HandleStripeWebhook(ctx, payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			metrics.WebhookEvents.WithLabelValues("invalid_signature").Inc()
			logging.L().Warn("webhook signature verification failed", zap.Error(err))
		case errors.Is(err, orders.ErrStockIntegrity):
			// Payment was captured but stock could not be deducted. The money
			// is already taken; an operator has to reconcile by hand.
			metrics.StockIntegrityFailures.Inc()
			metrics.WebhookEvents.WithLabelValues("integrity_failure").Inc()
			logging.L().Error("stock deduction failed for captured payment", zap.Error(err))
		default:
			metrics.WebhookEvents.WithLabelValues("error").Inc()
			logging.L().Error("webhook processing failed", zap.Error(err))
		}
		c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"received": true}))
		return
	}

	metrics.WebhookEvents.WithLabelValues(string(outcome)).Inc()
	fields := []zap.Field{zap.String("outcome", string(outcome))}
	if order != nil {
		fields = append(fields, zap.String("order", order.PublicID))
	}
	logging.L().Info("webhook processed", fields...)
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"received": true, "outcome": outcome}))
}
