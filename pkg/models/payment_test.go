package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, PaymentPending.CanTransitionTo(PaymentCaptured))
	assert.True(t, PaymentPending.CanTransitionTo(PaymentFailed))
	assert.True(t, PaymentAuthorized.CanTransitionTo(PaymentCaptured))
	assert.True(t, PaymentCaptured.CanTransitionTo(PaymentRefunded))

	assert.False(t, PaymentCaptured.CanTransitionTo(PaymentPending))
	assert.False(t, PaymentFailed.CanTransitionTo(PaymentCaptured))
	assert.False(t, PaymentRefunded.CanTransitionTo(PaymentCaptured))
}

func TestPaymentApplyStatus(t *testing.T) {
	p := &Payment{Status: PaymentPending}
	require.NoError(t, p.ApplyStatus(PaymentCaptured))
	assert.Equal(t, PaymentCaptured, p.Status)

	err := p.ApplyStatus(PaymentPending)
	require.Error(t, err)
	assert.Equal(t, PaymentCaptured, p.Status)
}

func TestValidProvider(t *testing.T) {
	for _, name := range []string{ProviderStripe, ProviderPayPal, ProviderCOD, ProviderBankTransfer, ProviderOther} {
		assert.True(t, ValidProvider(name))
	}
	assert.False(t, ValidProvider("gift_card"))
	assert.False(t, ValidProvider(""))
}
