package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/orders"
)

func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	result, err := GetCollection("orders").InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (s *Store) OrderByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	var order models.Order
	err := GetCollection("orders").FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (s *Store) OrderByPublicID(ctx context.Context, publicID string) (*models.Order, error) {
	var order models.Order
	err := GetCollection("orders").FindOne(ctx, bson.D{{Key: "public_id", Value: publicID}}).Decode(&order)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order by public id: %w", err)
	}
	return &order, nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	result, err := GetCollection("orders").ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: order.ID}}, order)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.MatchedCount == 0 {
		return orders.ErrOrderNotFound
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id bson.ObjectID) error {
	if _, err := GetCollection("orders").DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, page, limit int) ([]models.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	cursor, err := GetCollection("orders").Find(ctx, bson.D{},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(int64((page-1)*limit)).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.Order
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return result, nil
}
