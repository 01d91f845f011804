package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	StockReasonSale       = "sale"
	StockReasonRestock    = "restock"
	StockReasonAdjustment = "adjustment"
	StockReasonReturn     = "return"
	StockReasonDamage     = "damage"
	StockReasonTransfer   = "transfer"
)

func ValidStockReason(reason string) bool {
	switch reason {
	case StockReasonSale, StockReasonRestock, StockReasonAdjustment,
		StockReasonReturn, StockReasonDamage, StockReasonTransfer:
		return true
	}
	return false
}

// InventoryLog is one row of the append-only stock audit trail. Rows are
// written in the same transaction as the stock mutation they describe and
// are never updated or deleted.
type InventoryLog struct {
	ID            bson.ObjectID  `json:"id" bson:"_id,omitempty"`
	ProductID     bson.ObjectID  `json:"product_id" bson:"product_id"`
	ChangeQty     int            `json:"change_qty" bson:"change_qty"` // signed, never zero
	QuantityAfter int            `json:"quantity_after" bson:"quantity_after"`
	Reason        string         `json:"reason" bson:"reason"`
	ReferenceType string         `json:"reference_type,omitempty" bson:"reference_type,omitempty"` // order, manual
	ReferenceID   *bson.ObjectID `json:"reference_id,omitempty" bson:"reference_id,omitempty"`
	Notes         string         `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}
