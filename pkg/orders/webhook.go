package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/payments"
)

// WebhookOutcome classifies what a webhook delivery did. The HTTP endpoint
// acknowledges success to the provider in every case; the outcome only
// drives logging and metrics.
type WebhookOutcome string

const (
	// OutcomeHandled: payment captured, order paid, stock deducted.
	OutcomeHandled WebhookOutcome = "handled"
	// OutcomeDuplicate: event already processed, nothing changed.
	OutcomeDuplicate WebhookOutcome = "duplicate"
	// OutcomeIgnored: wrong event type or no matching payment.
	OutcomeIgnored WebhookOutcome = "ignored"
)

// HandleStripeWebhook verifies and reconciles one inbound Stripe event.
// Error cases the caller must still acknowledge: ErrInvalidSignature (log
// and discard, never trust the payload) and ErrStockIntegrity (fatal
// inconsistency, alert operators; the payment stays uncaptured).
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) (WebhookOutcome, *models.Order, error) {
	event, err := s.Verify(payload, sigHeader)
	if err != nil {
		return OutcomeIgnored, nil, err
	}

	if event.Type != payments.EventPaymentSucceeded {
		logging.L().Info("webhook ignored", zap.String("type", event.Type))
		return OutcomeIgnored, nil, nil
	}
	if event.ExternalID == "" {
		logging.L().Warn("webhook payment intent missing id", zap.String("event", event.ID))
		return OutcomeIgnored, nil, nil
	}

	payment, err := s.Store.PaymentByProviderExternalID(ctx, models.ProviderStripe, event.ExternalID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			logging.L().Warn("webhook for unknown payment",
				zap.String("external_id", event.ExternalID))
			return OutcomeIgnored, nil, nil
		}
		return OutcomeIgnored, nil, err
	}

	// First idempotency check outside the transaction; providers redeliver.
	if payment.Status == models.PaymentCaptured {
		logging.L().Info("webhook duplicate, payment already captured",
			zap.String("external_id", event.ExternalID))
		return OutcomeDuplicate, nil, nil
	}

	var order *models.Order
	err = s.Store.WithinTxn(ctx, func(ctx context.Context) error {
		// Dedup claim: unique (provider, external_id) makes this the
		// exactly-once gate for two concurrent deliveries.
		if err := s.Store.ClaimWebhookEvent(ctx, &models.WebhookEvent{
			Provider:   models.ProviderStripe,
			ExternalID: event.ExternalID,
			EventID:    event.ID,
			EventType:  event.Type,
			ReceivedAt: time.Now(),
		}); err != nil {
			return err
		}

		// Re-check under the payment row lock; the pre-check above raced.
		locked, err := s.Store.PaymentForUpdate(ctx, payment.ID)
		if err != nil {
			return err
		}
		if locked.Status == models.PaymentCaptured {
			return ErrDuplicateEvent
		}

		o, err := s.Store.OrderByID(ctx, locked.OrderID)
		if err != nil {
			return err
		}

		// Stock is deducted here and only here: checkout validated under
		// row locks but never decremented. An already-paid order means a
		// previous delivery did the deduction.
		if o.Status != models.OrderPaid {
			if err := s.deductOrderStock(ctx, o); err != nil {
				return err
			}
			if err := o.ApplyStatus(models.OrderPaid); err != nil {
				return fmt.Errorf("mark order %s paid: %w", o.PublicID, err)
			}
			if err := s.Store.UpdateOrder(ctx, o); err != nil {
				return err
			}
		}

		if err := locked.ApplyStatus(models.PaymentCaptured); err != nil {
			return fmt.Errorf("capture payment for order %s: %w", o.PublicID, err)
		}
		locked.WebhookVerified = true
		locked.WebhookPayload = bson.M{
			"id":                event.ID,
			"type":              event.Type,
			"payment_intent_id": event.ExternalID,
		}
		now := time.Now()
		locked.WebhookReceivedAt = &now
		if err := s.Store.UpdatePayment(ctx, locked); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			return OutcomeDuplicate, nil, nil
		}
		if errors.Is(err, ErrInsufficientStock) {
			// This should be impossible given checkout-time validation;
			// abort loudly and leave the payment pending for operators.
			return OutcomeIgnored, nil, fmt.Errorf("%w: %v", ErrStockIntegrity, err)
		}
		return OutcomeIgnored, nil, err
	}

	logging.L().Info("webhook handled, order paid",
		zap.String("order", order.PublicID),
		zap.String("external_id", event.ExternalID))
	return OutcomeHandled, order, nil
}

// deductOrderStock deducts every line of the order inside the caller's
// transaction, reason=sale, referenced back to the order.
func (s *Service) deductOrderStock(ctx context.Context, order *models.Order) error {
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		_, err := adjustStockLocked(ctx, s.Store, *item.ProductID, -item.Quantity,
			models.StockReasonSale, "order", &order.ID,
			fmt.Sprintf("Order %s (payment confirmed)", order.PublicID))
		if err != nil {
			return err
		}
	}
	return nil
}
