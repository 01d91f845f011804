package models

// Cart models for Redis session-based storage. The stored shape is a plain
// product-id -> quantity mapping; everything else is derived from the catalog
// at read time so the cart never holds stale prices.

type CartLine struct {
	ProductID     string   `json:"product_id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	UnitPrice     float64  `json:"unit_price"`
	Quantity      int      `json:"quantity"`
	Total         float64  `json:"total"`
}

type CartResponse struct {
	SessionID string     `json:"session_id"`
	Items     []CartLine `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	ItemCount int        `json:"item_count"`
}

type CartAddRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CartRemoveRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1"` // absent = remove line entirely
}
