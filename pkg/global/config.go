package global

import "time"

// CheckoutConfig carries the pricing knobs applied at order assembly time.
// Tax is applied to the subtotal after discount; shipping is a flat amount.
type CheckoutConfig struct {
	TaxRate       float64
	ShippingFixed float64
	Currency      string
	CartTTL       time.Duration
}

func LoadCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		TaxRate:       GetEnvFloatOrDefault("CHECKOUT_TAX_RATE", 0),
		ShippingFixed: GetEnvFloatOrDefault("CHECKOUT_SHIPPING_FIXED", 0),
		Currency:      GetEnvOrDefault("CHECKOUT_CURRENCY", "ILS"),
		CartTTL:       time.Duration(GetEnvIntOrDefault("CART_TTL_MINUTES", 60)) * time.Minute,
	}
}

// StripeConfig holds provider credentials; empty values mean the provider
// is not configured and checkout with provider=stripe must fail cleanly.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

func LoadStripeConfig() StripeConfig {
	return StripeConfig{
		SecretKey:     GetEnvOrDefault("STRIPE_SECRET_KEY", ""),
		WebhookSecret: GetEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
	}
}

type PayPalConfig struct {
	ClientID string
	Secret   string
	BaseURL  string
}

func LoadPayPalConfig() PayPalConfig {
	return PayPalConfig{
		ClientID: GetEnvOrDefault("PAYPAL_CLIENT_ID", ""),
		Secret:   GetEnvOrDefault("PAYPAL_SECRET", ""),
		BaseURL:  GetEnvOrDefault("PAYPAL_BASE_URL", "https://www.sandbox.paypal.com"),
	}
}
