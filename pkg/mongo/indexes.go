package mongo

import (
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storefront-labs/checkout-api/pkg/global"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

var requiredIndexes = []IndexConfig{
	// Products
	{
		CollectionName: "products",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_product_slug_unique"),
		},
	},
	{
		CollectionName: "products",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "sort_order", Value: 1}},
			Options: options.Index().SetName("idx_product_active_sort"),
		},
	},

	// Coupons: code is the external key and must be unique
	{
		CollectionName: "coupons",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_coupon_code_unique"),
		},
	},

	// Orders
	{
		CollectionName: "orders",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "public_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_order_public_id_unique"),
		},
	},
	{
		CollectionName: "orders",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_order_customer_created"),
		},
	},

	// Payments: provider + external id is the webhook correlation key
	{
		CollectionName: "payments",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "external_id", Value: 1}},
			Options: options.Index().SetName("idx_payment_provider_external"),
		},
	},
	{
		CollectionName: "payments",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetName("idx_payment_order"),
		},
	},

	// Webhook dedup table: the unique constraint IS the exactly-once gate
	{
		CollectionName: "webhook_events",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "external_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_webhook_event_unique"),
		},
	},

	// Inventory log: per-product history, newest first
	{
		CollectionName: "inventory_logs",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_inventory_product_created"),
		},
	},

	// Customers
	{
		CollectionName: "customers",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_customer_email_unique"),
		},
	},
}

func EnsureIndexesOnStartup() {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	for _, cfg := range requiredIndexes {
		collection := GetCollection(cfg.CollectionName)
		if _, err := collection.Indexes().CreateOne(ctx, cfg.IndexModel); err != nil {
			log.Fatalf("Failed to create index on %s: %v", cfg.CollectionName, err)
		}
	}
	log.Println("MongoDB indexes ensured")
}
