package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/orders"
)

func (s *Store) CouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := GetCollection("coupons").FindOne(ctx, bson.D{{Key: "code", Value: code}}).Decode(&coupon)
	if err != nil {
		if isNoDocuments(err) {
			return nil, orders.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return &coupon, nil
}

// IncrementCouponUses adds one use atomically, with the usage cap re-checked
// in the filter so a concurrent order cannot push uses_count past max_uses.
func (s *Store) IncrementCouponUses(ctx context.Context, code string) error {
	filter := bson.D{
		{Key: "code", Value: code},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "max_uses", Value: nil}},
			bson.D{{Key: "$expr", Value: bson.D{
				{Key: "$lt", Value: bson.A{"$uses_count", "$max_uses"}},
			}}},
		}},
	}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "uses_count", Value: 1}}},
		{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}},
	}
	result, err := GetCollection("coupons").UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("increment coupon uses: %w", err)
	}
	if result.MatchedCount == 0 {
		// Either the code is unknown or the cap was hit by a racing order.
		if _, err := s.CouponByCode(ctx, code); err != nil {
			return err
		}
		return orders.ErrCouponExhausted
	}
	return nil
}

// DecrementCouponUses hands back one use after checkout compensation.
func (s *Store) DecrementCouponUses(ctx context.Context, code string) error {
	filter := bson.D{
		{Key: "code", Value: code},
		{Key: "uses_count", Value: bson.D{{Key: "$gt", Value: 0}}},
	}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "uses_count", Value: -1}}},
		{Key: "$currentDate", Value: bson.D{{Key: "updated_at", Value: true}}},
	}
	if _, err := GetCollection("coupons").UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("decrement coupon uses: %w", err)
	}
	return nil
}

func (s *Store) ListActiveCoupons(ctx context.Context) ([]models.Coupon, error) {
	cursor, err := GetCollection("coupons").Find(ctx,
		bson.D{{Key: "is_active", Value: true}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	return coupons, nil
}

func (s *Store) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	result, err := GetCollection("coupons").InsertOne(ctx, coupon)
	if err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		coupon.ID = oid
	}
	return nil
}
