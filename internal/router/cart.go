package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/pricing"
	"github.com/storefront-labs/checkout-api/pkg/redis"
)

// NewCartSession mints an anonymous cart session id. The cart itself is
// created lazily on the first add.
func NewCartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{
		"session_id": uuid.NewString(),
	}))
}

// GetCart returns the cart enriched with live catalog data. Lines whose
// product has vanished or been deactivated are skipped, so the client always
// sees something purchasable.
func GetCart(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	sessionID := c.Param("sessionId")
	raw, err := carts.Get(ctx, sessionID)
	if err != nil {
		logging.L().Error("failed to read cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch cart", nil))
		return
	}

	resp := models.CartResponse{SessionID: sessionID, Items: []models.CartLine{}}
	subtotal := decimal.Zero
	for productID, qty := range raw {
		oid, err := bson.ObjectIDFromHex(productID)
		if err != nil {
			continue
		}
		product, err := store.ProductByID(ctx, oid)
		if err != nil {
			if errors.Is(err, orders.ErrProductNotFound) {
				continue
			}
			logging.L().Error("failed to load cart product", zap.String("product_id", productID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch cart", nil))
			return
		}
		if !product.IsActive {
			continue
		}

		quote, err := pricing.QuoteLine(product, qty)
		if err != nil {
			continue
		}
		resp.Items = append(resp.Items, models.CartLine{
			ProductID:     productID,
			Slug:          product.Slug,
			Name:          product.Name,
			Price:         product.Price,
			DiscountPrice: product.DiscountPrice,
			UnitPrice:     pricing.Money(quote.UnitPrice),
			Quantity:      qty,
			Total:         pricing.Money(quote.LineTotal),
		})
		resp.ItemCount += qty
		subtotal = subtotal.Add(quote.LineTotal)
	}
	resp.Subtotal = pricing.Money(subtotal)
	c.JSON(http.StatusOK, global.SuccessResponse(resp))
}

// AddToCart validates the product against the catalog before touching Redis,
// so carts never accumulate ids that can't be checked out.
func AddToCart(c *gin.Context) {
	var req models.CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	oid, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondBusinessError(c, orders.ErrProductNotFound)
		return
	}
	product, err := store.ProductByID(ctx, oid)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	if !product.IsActive {
		respondBusinessError(c, orders.ErrProductNotFound)
		return
	}

	sessionID := c.Param("sessionId")
	if err := carts.Add(ctx, sessionID, req.ProductID, req.Quantity); err != nil {
		logging.L().Error("failed to add to cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}
	GetCart(c)
}

func RemoveFromCart(c *gin.Context) {
	var req models.CartRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	sessionID := c.Param("sessionId")
	if err := carts.Remove(ctx, sessionID, req.ProductID, req.Quantity); err != nil {
		if errors.Is(err, redis.ErrNotInCart) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not in cart", []global.ValidationError{
				{Field: "product_id", Message: "Product is not in this cart", Code: "not_in_cart"},
			}))
			return
		}
		logging.L().Error("failed to remove from cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}
	GetCart(c)
}

func ClearCart(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	sessionID := c.Param("sessionId")
	if err := carts.Clear(ctx, sessionID); err != nil {
		logging.L().Error("failed to clear cart", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to clear cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"session_id": sessionID, "cleared": true}))
}
