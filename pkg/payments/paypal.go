package payments

import (
	"context"
	"fmt"
	"net/url"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/models"
)

// PayPalProvider implements the redirect-URL flow. The order is identified to
// PayPal through the invoice id; capture confirmation arrives on the webhook
// like every other provider.
type PayPalProvider struct {
	cfg global.PayPalConfig
}

func NewPayPalProvider(cfg global.PayPalConfig) *PayPalProvider {
	return &PayPalProvider{cfg: cfg}
}

func (p *PayPalProvider) Name() string { return models.ProviderPayPal }

func (p *PayPalProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if p.cfg.ClientID == "" || p.cfg.Secret == "" {
		return nil, ErrUnconfigured
	}

	// TODO: replace with a real Orders API create call once the PayPal
	// merchant account is approved; until then the approval URL carries the
	// order reference and sandbox checkout handles the rest.
	approval := fmt.Sprintf("%s/checkoutnow?invoice_id=%s&return=%s&cancel=%s",
		p.cfg.BaseURL,
		url.QueryEscape(req.OrderPublicID),
		url.QueryEscape(req.ReturnURL),
		url.QueryEscape(req.CancelURL),
	)
	return &Intent{
		ExternalID:  "pp_" + req.OrderPublicID,
		RedirectURL: approval,
	}, nil
}
