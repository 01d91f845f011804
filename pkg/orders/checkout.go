package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/payments"
	"github.com/storefront-labs/checkout-api/pkg/pricing"
)

// CheckoutResult is what the checkout endpoint returns to the client: the
// persisted order plus whichever payment handle the provider produced.
type CheckoutResult struct {
	Order        *models.Order
	Payment      *models.Payment
	ClientSecret string
	PaymentURL   string
}

// Checkout converts the session cart into a persisted Order plus pending
// Payment. Everything up to and including the payment row commits in one
// transaction; stock is validated under product row locks but deliberately
// NOT deducted. Deduction happens only when the webhook confirms payment,
// so abandoned checkouts never eat stock. The provider call happens after
// commit, outside any lock; if it fails the order is compensated away so no
// orphan pending order survives.
func (s *Service) Checkout(ctx context.Context, req models.CheckoutRequest) (*CheckoutResult, error) {
	provider := req.PaymentProvider
	if provider == "" {
		provider = models.ProviderStripe
	}
	if !models.ValidProvider(provider) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	cart, err := s.Carts.Get(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	// Deterministic lock order across concurrent checkouts.
	productIDs := make([]string, 0, len(cart))
	for id, qty := range cart {
		if qty > 0 {
			productIDs = append(productIDs, id)
		}
	}
	sort.Strings(productIDs)
	if len(productIDs) == 0 {
		return nil, ErrEmptyCart
	}

	customerID, shipping, deliveryAddressID, err := s.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	couponCode := strings.TrimSpace(req.CouponCode)
	var order *models.Order
	var payment *models.Payment
	err = s.Store.WithinTxn(ctx, func(ctx context.Context) error {
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(productIDs))
		for _, raw := range productIDs {
			pid, err := bson.ObjectIDFromHex(raw)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrProductNotFound, raw)
			}
			product, err := s.Store.ProductForUpdate(ctx, pid)
			if err != nil {
				return err
			}
			if !product.IsActive {
				return fmt.Errorf("%w: %q is no longer available", ErrProductNotFound, product.Name)
			}
			qty := cart[raw]
			quote, err := pricing.QuoteLine(product, qty)
			if err != nil {
				return err
			}
			if !product.AllowBackorder && product.StockQuantity < qty {
				return fmt.Errorf("%w: %q has %d left, requested %d",
					ErrInsufficientStock, product.Name, product.StockQuantity, qty)
			}
			subtotal = subtotal.Add(quote.LineTotal)
			items = append(items, models.OrderItem{
				ProductID:           &product.ID,
				ProductSnapshot:     quote.Snapshot,
				Quantity:            qty,
				UnitPriceAtPurchase: pricing.Money(quote.UnitPrice),
				Total:               pricing.Money(quote.LineTotal),
			})
		}
		subtotal = subtotal.Round(2)

		discount := decimal.Zero
		if couponCode != "" {
			coupon, err := s.Store.CouponByCode(ctx, couponCode)
			if err != nil {
				return err
			}
			discount, err = ValidateCoupon(coupon, subtotal, time.Now())
			if err != nil {
				return err
			}
			// Exactly one use per order that references the coupon; the
			// cap is re-checked atomically in case of a concurrent order.
			if err := s.Store.IncrementCouponUses(ctx, couponCode); err != nil {
				return err
			}
		}

		afterDiscount := subtotal.Sub(discount)
		tax := afterDiscount.Mul(decimal.NewFromFloat(s.Config.TaxRate)).Round(2)
		shippingAmount := decimal.NewFromFloat(s.Config.ShippingFixed).Round(2)
		total := afterDiscount.Add(tax).Add(shippingAmount).Round(2)

		o := &models.Order{
			PublicID:          models.NewPublicID(),
			CustomerID:        customerID,
			CustomerName:      req.CustomerName,
			CustomerPhone:     req.CustomerPhone,
			CustomerEmail:     req.CustomerEmail,
			DeliveryAddressID: deliveryAddressID,
			Shipping:          shipping,
			Notes:             req.Notes,
			Items:             items,
			Subtotal:          pricing.Money(subtotal),
			DiscountAmount:    pricing.Money(discount),
			TaxAmount:         pricing.Money(tax),
			ShippingAmount:    pricing.Money(shippingAmount),
			Total:             pricing.Money(total),
			Currency:          s.Config.Currency,
			CouponCode:        couponCode,
			Status:            models.OrderPending,
		}
		o.SetTimestamps()
		if err := s.Store.InsertOrder(ctx, o); err != nil {
			return err
		}

		p := &models.Payment{
			OrderID:  o.ID,
			Provider: provider,
			Status:   models.PaymentPending,
			Amount:   o.Total,
			Currency: o.Currency,
		}
		p.SetTimestamps()
		if err := s.Store.InsertPayment(ctx, p); err != nil {
			return err
		}

		order = o
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	adapter := s.Providers.Get(provider)
	if adapter == nil {
		s.compensateCheckout(ctx, order, couponCode)
		return nil, fmt.Errorf("%w: %q has no registered adapter", ErrUnknownProvider, provider)
	}
	intent, err := adapter.CreateIntent(ctx, payments.IntentRequest{
		Amount:        payment.Amount,
		Currency:      order.Currency,
		PaymentID:     payment.ID.Hex(),
		OrderPublicID: order.PublicID,
		ReturnURL:     req.ReturnURL,
		CancelURL:     req.CancelURL,
	})
	if err != nil {
		s.compensateCheckout(ctx, order, couponCode)
		return nil, fmt.Errorf("create payment intent for order %s: %w", order.PublicID, err)
	}
	if intent.ExternalID != "" {
		// Without the external id the webhook can never correlate the
		// intent, so a failed write leaves an unreconcilable pending order;
		// compensate the whole attempt like a provider failure.
		if err := s.Store.SetPaymentExternalID(ctx, payment.ID, intent.ExternalID); err != nil {
			s.compensateCheckout(ctx, order, couponCode)
			return nil, fmt.Errorf("store external id for order %s: %w", order.PublicID, err)
		}
		payment.ExternalID = intent.ExternalID
	}

	// Only now is the checkout fully committed; a failed clear leaves a
	// stale cart behind, which the TTL will collect.
	if err := s.Carts.Clear(ctx, req.SessionID); err != nil {
		logging.L().Warn("failed to clear cart after checkout",
			zap.String("session_id", req.SessionID),
			zap.String("order", order.PublicID),
			zap.Error(err))
	}

	logging.L().Info("checkout completed",
		zap.String("order", order.PublicID),
		zap.String("provider", provider),
		zap.Float64("total", order.Total))

	return &CheckoutResult{
		Order:        order,
		Payment:      payment,
		ClientSecret: intent.ClientSecret,
		PaymentURL:   intent.RedirectURL,
	}, nil
}

// resolveCustomer reads the customer collaborator and snapshots the chosen
// delivery address. Collaborator reads happen before the checkout
// transaction; the snapshot frozen here never changes afterwards.
func (s *Service) resolveCustomer(ctx context.Context, req models.CheckoutRequest) (*bson.ObjectID, models.ShippingAddress, *bson.ObjectID, error) {
	var shipping models.ShippingAddress
	if req.CustomerID == "" {
		if req.DeliveryAddressID != "" {
			return nil, shipping, nil, fmt.Errorf("%w: delivery address requires a customer", ErrAddressNotFound)
		}
		return nil, shipping, nil, nil // guest checkout
	}

	cid, err := bson.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		return nil, shipping, nil, fmt.Errorf("%w: %q", ErrCustomerNotFound, req.CustomerID)
	}
	customer, err := s.Store.CustomerByID(ctx, cid)
	if err != nil {
		return nil, shipping, nil, err
	}

	if req.DeliveryAddressID == "" {
		return &customer.ID, shipping, nil, nil
	}
	aid, err := bson.ObjectIDFromHex(req.DeliveryAddressID)
	if err != nil {
		return nil, shipping, nil, fmt.Errorf("%w: %q", ErrAddressNotFound, req.DeliveryAddressID)
	}
	address := customer.AddressByID(aid)
	if address == nil {
		return nil, shipping, nil, ErrAddressNotFound
	}
	return &customer.ID, address.ToShipping(), &address.ID, nil
}

// compensateCheckout undoes a committed checkout whose provider call failed
// so no orphan pending order survives the attempt. The coupon use is handed
// back because the order it counted no longer exists.
func (s *Service) compensateCheckout(ctx context.Context, order *models.Order, couponCode string) {
	err := s.Store.WithinTxn(ctx, func(ctx context.Context) error {
		if err := s.Store.DeletePaymentsForOrder(ctx, order.ID); err != nil {
			return err
		}
		if err := s.Store.DeleteOrder(ctx, order.ID); err != nil {
			return err
		}
		if couponCode != "" {
			if err := s.Store.DecrementCouponUses(ctx, couponCode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logging.L().Error("failed to compensate checkout after provider error",
			zap.String("order", order.PublicID),
			zap.Error(err))
	}
}
