package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way Stripe's servers do:
// HMAC-SHA256 over "<timestamp>.<payload>" with the endpoint secret.
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func succeededPayload() []byte {
	return []byte(`{
		"id": "evt_1QxTest",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_3QxTest", "object": "payment_intent"}}
	}`)
}

func TestVerifyStripeEvent(t *testing.T) {
	payload := succeededPayload()
	header := signPayload(payload, testWebhookSecret, time.Now())

	event, err := VerifyStripeEvent(payload, header, testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_1QxTest", event.ID)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_3QxTest", event.ExternalID)
}

func TestVerifyStripeEventWrongSecret(t *testing.T) {
	payload := succeededPayload()
	header := signPayload(payload, "whsec_other", time.Now())

	_, err := VerifyStripeEvent(payload, header, testWebhookSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyStripeEventTamperedPayload(t *testing.T) {
	payload := succeededPayload()
	header := signPayload(payload, testWebhookSecret, time.Now())
	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-2] = ' '

	_, err := VerifyStripeEvent(tampered, header, testWebhookSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyStripeEventStaleTimestamp(t *testing.T) {
	payload := succeededPayload()
	header := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))

	_, err := VerifyStripeEvent(payload, header, testWebhookSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyStripeEventGarbageHeader(t *testing.T) {
	_, err := VerifyStripeEvent(succeededPayload(), "not-a-header", testWebhookSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyStripeEventMissingSecret(t *testing.T) {
	_, err := VerifyStripeEvent(succeededPayload(), "t=1,v1=abc", "")
	assert.ErrorIs(t, err, ErrUnconfigured)
}

func TestOfflineProviderIntent(t *testing.T) {
	p := offlineProvider{name: "cod"}
	intent, err := p.CreateIntent(context.Background(), IntentRequest{Amount: 10, Currency: "ILS"})
	require.NoError(t, err)
	assert.Empty(t, intent.ExternalID)
	assert.Empty(t, intent.ClientSecret)
	assert.Empty(t, intent.RedirectURL)
}
