package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product represents a catalog product. Stock is never written directly;
// every change goes through the stock service so an InventoryLog row is
// appended with it.
type Product struct {
	ID             bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Slug           string        `json:"slug" bson:"slug" validate:"required,min=2,max=200"`
	SKU            string        `json:"sku" bson:"sku,omitempty" validate:"max=100"`
	Name           string        `json:"name" bson:"name" validate:"required,min=2,max=255"`
	Description    string        `json:"description" bson:"description" validate:"max=2000"`
	Price          float64       `json:"price" bson:"price" validate:"required,gte=0"`
	DiscountPrice  *float64      `json:"discount_price,omitempty" bson:"discount_price,omitempty" validate:"omitempty,gte=0"`
	Currency       string        `json:"currency" bson:"currency" validate:"required,len=3"`
	StockQuantity  int           `json:"stock_quantity" bson:"stock_quantity"`
	AllowBackorder bool          `json:"allow_backorder" bson:"allow_backorder"`
	SortOrder      int           `json:"sort_order" bson:"sort_order"`
	IsActive       bool          `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}

// ProductSnapshot is the frozen copy of product identity stored on an order
// item. It is written once at purchase time and never updated, regardless of
// later catalog edits or product deletion.
type ProductSnapshot struct {
	Name string `json:"name" bson:"name"`
	SKU  string `json:"sku" bson:"sku"`
}

func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{Name: p.Name, SKU: p.SKU}
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

type CreateProductRequest struct {
	Slug           string   `json:"slug" binding:"required,min=2,max=200"`
	SKU            string   `json:"sku" binding:"max=100"`
	Name           string   `json:"name" binding:"required,min=2,max=255"`
	Description    string   `json:"description" binding:"max=2000"`
	Price          float64  `json:"price" binding:"required,gte=0"`
	DiscountPrice  *float64 `json:"discount_price" binding:"omitempty,gte=0"`
	Currency       string   `json:"currency" binding:"omitempty,len=3"`
	StockQuantity  int      `json:"stock_quantity" binding:"gte=0"`
	AllowBackorder bool     `json:"allow_backorder"`
}

func (req *CreateProductRequest) ToProduct() *Product {
	currency := req.Currency
	if currency == "" {
		currency = "ILS"
	}
	product := &Product{
		ID:             bson.NewObjectID(),
		Slug:           req.Slug,
		SKU:            req.SKU,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DiscountPrice:  req.DiscountPrice,
		Currency:       currency,
		StockQuantity:  req.StockQuantity,
		AllowBackorder: req.AllowBackorder,
		IsActive:       true,
	}
	product.SetTimestamps()
	return product
}
