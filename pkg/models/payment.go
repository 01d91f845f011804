package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ProviderStripe       = "stripe"
	ProviderPayPal       = "paypal"
	ProviderCOD          = "cod"
	ProviderBankTransfer = "bank_transfer"
	ProviderOther        = "other"
)

func ValidProvider(p string) bool {
	switch p {
	case ProviderStripe, ProviderPayPal, ProviderCOD, ProviderBankTransfer, ProviderOther:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentCaptured   PaymentStatus = "captured"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentAuthorized, PaymentCaptured, PaymentFailed, PaymentCancelled},
	PaymentAuthorized: {PaymentCaptured, PaymentFailed, PaymentCancelled},
	PaymentCaptured:   {PaymentRefunded},
	PaymentFailed:     {},
	PaymentCancelled:  {},
	PaymentRefunded:   {},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment is one payment attempt against an order. ExternalID is the
// provider-side identifier and doubles as the webhook idempotency key.
type Payment struct {
	ID                bson.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderID           bson.ObjectID `json:"order_id" bson:"order_id"`
	Provider          string        `json:"provider" bson:"provider"`
	ExternalID        string        `json:"external_id,omitempty" bson:"external_id,omitempty"`
	Status            PaymentStatus `json:"status" bson:"status"`
	Amount            float64       `json:"amount" bson:"amount"`
	Currency          string        `json:"currency" bson:"currency"`
	WebhookVerified   bool          `json:"webhook_verified" bson:"webhook_verified"`
	WebhookPayload    bson.M        `json:"webhook_payload,omitempty" bson:"webhook_payload,omitempty"`
	WebhookReceivedAt *time.Time    `json:"webhook_received_at,omitempty" bson:"webhook_received_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" bson:"updated_at"`
}

func (p *Payment) ApplyStatus(next PaymentStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal payment transition %s -> %s", p.Status, next)
	}
	p.Status = next
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Payment) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// WebhookEvent is the deduplication record for processed provider events.
// A unique index on (provider, external_id) makes the claim insert the
// exactly-once gate for webhook side effects.
type WebhookEvent struct {
	ID         bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Provider   string        `json:"provider" bson:"provider"`
	ExternalID string        `json:"external_id" bson:"external_id"`
	EventID    string        `json:"event_id" bson:"event_id"`
	EventType  string        `json:"event_type" bson:"event_type"`
	ReceivedAt time.Time     `json:"received_at" bson:"received_at"`
}
