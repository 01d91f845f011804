package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/orders"
)

func (s *Store) InsertPayment(ctx context.Context, payment *models.Payment) error {
	result, err := GetCollection("payments").InsertOne(ctx, payment)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		payment.ID = oid
	}
	return nil
}

func (s *Store) PaymentByProviderExternalID(ctx context.Context, provider, externalID string) (*models.Payment, error) {
	var payment models.Payment
	err := GetCollection("payments").FindOne(ctx, bson.D{
		{Key: "provider", Value: provider},
		{Key: "external_id", Value: externalID},
	}).Decode(&payment)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &payment, nil
}

// PaymentForUpdate takes the payment document's write lock for the rest of
// the transaction; the reconciler re-checks its idempotency guard on the
// state read here.
func (s *Store) PaymentForUpdate(ctx context.Context, id bson.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	err := GetCollection("payments").FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&payment)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("lock payment: %w", err)
	}
	return &payment, nil
}

func (s *Store) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	result, err := GetCollection("payments").ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: payment.ID}}, payment)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return orders.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) SetPaymentExternalID(ctx context.Context, id bson.ObjectID, externalID string) error {
	result, err := GetCollection("payments").UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "external_id", Value: externalID}}},
			{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}},
		},
	)
	if err != nil {
		return fmt.Errorf("set payment external id: %w", err)
	}
	if result.MatchedCount == 0 {
		return orders.ErrPaymentNotFound
	}
	return nil
}

func (s *Store) DeletePaymentsForOrder(ctx context.Context, orderID bson.ObjectID) error {
	if _, err := GetCollection("payments").DeleteMany(ctx, bson.D{{Key: "order_id", Value: orderID}}); err != nil {
		return fmt.Errorf("delete payments for order: %w", err)
	}
	return nil
}

// ClaimWebhookEvent inserts the dedup record; the unique index on
// (provider, external_id) turns a second delivery into a duplicate-key
// error, reported as orders.ErrDuplicateEvent.
func (s *Store) ClaimWebhookEvent(ctx context.Context, event *models.WebhookEvent) error {
	_, err := GetCollection("webhook_events").InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return orders.ErrDuplicateEvent
		}
		return fmt.Errorf("claim webhook event: %w", err)
	}
	return nil
}
