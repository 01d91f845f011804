package orders

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/storefront-labs/checkout-api/pkg/models"
)

// AdjustStock is the only legal path to changing product stock. It runs in
// its own transaction: the product row is locked, the new quantity computed
// and checked, and the stock write plus its InventoryLog row commit together
// or not at all.
func (s *Service) AdjustStock(ctx context.Context, productID bson.ObjectID, delta int, reason, referenceType string, referenceID *bson.ObjectID, notes string) (*models.Product, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must be nonzero", ErrInvalidAdjustment)
	}
	if !models.ValidStockReason(reason) {
		return nil, fmt.Errorf("%w: unknown reason %q", ErrInvalidAdjustment, reason)
	}

	var product *models.Product
	err := s.Store.WithinTxn(ctx, func(ctx context.Context) error {
		p, err := adjustStockLocked(ctx, s.Store, productID, delta, reason, referenceType, referenceID, notes)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// adjustStockLocked performs one stock mutation inside an already-open
// transaction. Stock may only go negative when the product allows backorder.
func adjustStockLocked(ctx context.Context, store Store, productID bson.ObjectID, delta int, reason, referenceType string, referenceID *bson.ObjectID, notes string) (*models.Product, error) {
	product, err := store.ProductForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	newQty := product.StockQuantity + delta
	if newQty < 0 && !product.AllowBackorder {
		return nil, fmt.Errorf("%w: %q has %d left, requested %d",
			ErrInsufficientStock, product.Name, product.StockQuantity, -delta)
	}

	if err := store.SetProductStock(ctx, productID, newQty); err != nil {
		return nil, err
	}
	entry := &models.InventoryLog{
		ProductID:     productID,
		ChangeQty:     delta,
		QuantityAfter: newQty,
		Reason:        reason,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		Notes:         notes,
		CreatedAt:     time.Now(),
	}
	if err := store.AppendInventoryLog(ctx, entry); err != nil {
		return nil, err
	}

	product.StockQuantity = newQty
	return product, nil
}
