package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/orders"
)

var ErrEmailExists = errors.New("email already exists")

func (s *Store) CustomerByID(ctx context.Context, id bson.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := GetCollection("customers").FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&customer)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &customer, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	result, err := GetCollection("customers").InsertOne(ctx, customer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("create customer: %w", err)
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		customer.ID = oid
	}
	return nil
}

func (s *Store) AddCustomerAddress(ctx context.Context, customerID bson.ObjectID, address models.Address) (*models.Customer, error) {
	result, err := GetCollection("customers").UpdateOne(ctx,
		bson.D{{Key: "_id", Value: customerID}},
		bson.D{
			{Key: "$push", Value: bson.D{{Key: "addresses", Value: address}}},
			{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("add customer address: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, orders.ErrCustomerNotFound
	}
	return s.CustomerByID(ctx, customerID)
}
