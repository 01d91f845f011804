package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/orders"
)

// ErrSlugExists is returned when a product insert collides with the unique
// slug index.
var ErrSlugExists = errors.New("slug already exists")

func (s *Store) ProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var product models.Product
	err := GetCollection("products").FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// ProductForUpdate touches the document to take its write lock for the rest
// of the transaction, then returns the locked state. Concurrent transactions
// on the same product conflict here and get serialized by the txn retry.
func (s *Store) ProductForUpdate(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var product models.Product
	err := GetCollection("products").FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrProductNotFound
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return &product, nil
}

func (s *Store) SetProductStock(ctx context.Context, id bson.ObjectID, quantity int) error {
	result, err := GetCollection("products").UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "stock_quantity", Value: quantity}}},
			{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}},
		},
	)
	if err != nil {
		return fmt.Errorf("set product stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return orders.ErrProductNotFound
	}
	return nil
}

func (s *Store) AppendInventoryLog(ctx context.Context, entry *models.InventoryLog) error {
	result, err := GetCollection("inventory_logs").InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("append inventory log: %w", err)
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}

// --- catalog reads and admin writes used by the handlers ---

func (s *Store) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	filter := bson.D{}
	if activeOnly {
		filter = bson.D{{Key: "is_active", Value: true}}
	}
	cursor, err := GetCollection("products").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "slug", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *Store) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := GetCollection("products").FindOne(ctx, bson.D{{Key: "slug", Value: slug}}).Decode(&product)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	result, err := GetCollection("products").InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("create product: %w", err)
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

func (s *Store) InventoryLogsForProduct(ctx context.Context, productID bson.ObjectID, limit int) ([]models.InventoryLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	cursor, err := GetCollection("inventory_logs").Find(ctx,
		bson.D{{Key: "product_id", Value: productID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list inventory logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []models.InventoryLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decode inventory logs: %w", err)
	}
	return logs, nil
}
