// Package payments integrates the external payment providers. All provider
// calls live here; nothing in this package touches the database, and nothing
// outside it talks to a provider.
package payments

import (
	"context"
	"errors"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/models"
)

var (
	// ErrUnconfigured means the provider credentials are absent.
	ErrUnconfigured = errors.New("payments: provider not configured")
	// ErrInvalidSignature means webhook signature verification failed.
	ErrInvalidSignature = errors.New("payments: invalid webhook signature")
	// ErrProvider wraps any downstream provider failure.
	ErrProvider = errors.New("payments: provider error")
)

// IntentRequest asks a provider for a client-facing payment handle. Amount is
// in major currency units; each provider converts to its own smallest unit.
type IntentRequest struct {
	Amount        float64
	Currency      string
	PaymentID     string
	OrderPublicID string
	ReturnURL     string
	CancelURL     string
}

// Intent is the provider-side handle for a pending payment. Exactly one of
// ClientSecret or RedirectURL is set for online providers; offline providers
// return neither.
type Intent struct {
	ExternalID   string
	ClientSecret string
	RedirectURL  string
}

type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// Registry maps provider names to adapters. Unknown names resolve to nil.
type Registry map[string]Provider

func NewRegistry(stripeCfg global.StripeConfig, paypalCfg global.PayPalConfig) Registry {
	reg := Registry{
		models.ProviderStripe: NewStripeProvider(stripeCfg),
		models.ProviderPayPal: NewPayPalProvider(paypalCfg),
	}
	// Offline providers need no client handle; payment is reconciled manually.
	for _, name := range []string{models.ProviderCOD, models.ProviderBankTransfer, models.ProviderOther} {
		reg[name] = offlineProvider{name: name}
	}
	return reg
}

func (r Registry) Get(name string) Provider {
	return r[name]
}

type offlineProvider struct {
	name string
}

func (p offlineProvider) Name() string { return p.name }

func (p offlineProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	return &Intent{}, nil
}
