package orders

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/storefront-labs/checkout-api/pkg/models"
)

// Store is the durable-store port the order services run against. The Mongo
// implementation lives in pkg/mongo; tests use an in-memory fake. Methods
// called inside WithinTxn must observe and join that transaction through the
// context.
type Store interface {
	// WithinTxn runs fn inside one transaction. Any error from fn aborts the
	// whole transaction; nothing partially commits. fn may be retried on
	// transient conflicts and must be written to tolerate that.
	WithinTxn(ctx context.Context, fn func(ctx context.Context) error) error

	ProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	// ProductForUpdate reads the product with the row locked against
	// concurrent writers for the remainder of the transaction.
	ProductForUpdate(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	SetProductStock(ctx context.Context, id bson.ObjectID, quantity int) error
	AppendInventoryLog(ctx context.Context, entry *models.InventoryLog) error

	CouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	// IncrementCouponUses adds exactly one use, guarded by the usage cap;
	// returns ErrCouponExhausted when the cap would be exceeded.
	IncrementCouponUses(ctx context.Context, code string) error
	DecrementCouponUses(ctx context.Context, code string) error

	CustomerByID(ctx context.Context, id bson.ObjectID) (*models.Customer, error)

	InsertOrder(ctx context.Context, order *models.Order) error
	OrderByID(ctx context.Context, id bson.ObjectID) (*models.Order, error)
	OrderByPublicID(ctx context.Context, publicID string) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, id bson.ObjectID) error

	InsertPayment(ctx context.Context, payment *models.Payment) error
	PaymentByProviderExternalID(ctx context.Context, provider, externalID string) (*models.Payment, error)
	// PaymentForUpdate reads the payment with the row locked, for the
	// double-checked idempotency guard.
	PaymentForUpdate(ctx context.Context, id bson.ObjectID) (*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	SetPaymentExternalID(ctx context.Context, id bson.ObjectID, externalID string) error
	DeletePaymentsForOrder(ctx context.Context, orderID bson.ObjectID) error

	// ClaimWebhookEvent inserts the dedup record; ErrDuplicateEvent when an
	// event for the same provider + external id was already claimed.
	ClaimWebhookEvent(ctx context.Context, event *models.WebhookEvent) error
}

// CartStore is the session cart port backed by Redis.
type CartStore interface {
	// Get returns the product-id -> quantity mapping for the session.
	Get(ctx context.Context, sessionID string) (map[string]int, error)
	Clear(ctx context.Context, sessionID string) error
}
