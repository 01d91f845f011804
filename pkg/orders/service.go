// Package orders implements the checkout, stock, coupon and payment
// reconciliation services. All cross-step consistency is enforced through
// store transactions and row locks; there is no in-process shared state.
package orders

import (
	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/payments"
)

// VerifyFunc validates a raw webhook payload and signature header and
// returns the decoded event. Wired to payments.VerifyStripeEvent in main.
type VerifyFunc func(payload []byte, sigHeader string) (*payments.Event, error)

type Service struct {
	Store     Store
	Carts     CartStore
	Providers payments.Registry
	Config    global.CheckoutConfig
	Verify    VerifyFunc
}

func NewService(store Store, carts CartStore, providers payments.Registry, cfg global.CheckoutConfig, verify VerifyFunc) *Service {
	return &Service{
		Store:     store,
		Carts:     carts,
		Providers: providers,
		Config:    cfg,
		Verify:    verify,
	}
}
