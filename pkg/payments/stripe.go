package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/models"
)

// EventPaymentSucceeded is the only event type the reconciler acts on.
const EventPaymentSucceeded = "payment_intent.succeeded"

type StripeProvider struct {
	cfg global.StripeConfig
}

func NewStripeProvider(cfg global.StripeConfig) *StripeProvider {
	if cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
	}
	return &StripeProvider{cfg: cfg}
}

func (p *StripeProvider) Name() string { return models.ProviderStripe }

// CreateIntent creates a Stripe PaymentIntent for the order total. Stripe
// expects amounts in the smallest currency unit (cents / agorot). The payment
// and order ids ride along as metadata for webhook correlation.
func (p *StripeProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if p.cfg.SecretKey == "" {
		return nil, ErrUnconfigured
	}

	amountMinor := decimal.NewFromFloat(req.Amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrProvider)
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("payment_id", req.PaymentID)
	params.AddMetadata("order_public_id", req.OrderPublicID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment intent: %v", ErrProvider, err)
	}

	return &Intent{
		ExternalID:   intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// Event is the provider-neutral view of a verified webhook event.
type Event struct {
	ID         string
	Type       string
	ExternalID string // provider-side payment intent id
}

// VerifyStripeEvent checks the Stripe-Signature header against the webhook
// secret and extracts the event. Fails closed: any verification problem
// surfaces as ErrInvalidSignature and the payload must be discarded.
func VerifyStripeEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	if secret == "" {
		return nil, ErrUnconfigured
	}
	// Accounts pin their own API version, so the event's version rarely
	// matches the SDK pin exactly; only the signature gates acceptance.
	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data != nil && len(ev.Data.Raw) > 0 {
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(ev.Data.Raw, &obj); err == nil {
			out.ExternalID = obj.ID
		}
	}
	return out, nil
}
