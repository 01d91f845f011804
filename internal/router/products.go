package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/mongo"
)

// GetAllProducts lists the catalog. Inactive products are hidden unless
// ?include_inactive=true (intended for the admin UI).
func GetAllProducts(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	activeOnly := c.Query("include_inactive") != "true"
	products, err := store.ListProducts(ctx, activeOnly)
	if err != nil {
		logging.L().Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch products", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func GetProductBySlug(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	product, err := store.ProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	product := req.ToProduct()
	if err := store.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, mongo.ErrSlugExists) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Product already exists", []global.ValidationError{
				{Field: "slug", Message: "A product with this slug already exists", Code: "duplicate"},
			}))
			return
		}
		logging.L().Error("failed to create product", zap.String("slug", req.Slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create product", nil))
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

// AdjustProductStock applies a manual stock delta (restock, damage writeoff,
// correction) and records it in the inventory log.
func AdjustProductStock(c *gin.Context) {
	var req models.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	product, err := store.ProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondBusinessError(c, err)
		return
	}

	updated, err := svc.AdjustStock(ctx, product.ID, req.Delta, req.Reason, "manual", nil, req.Notes)
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func GetInventoryLogs(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	product, err := store.ProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondBusinessError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := store.InventoryLogsForProduct(ctx, product.ID, limit)
	if err != nil {
		logging.L().Error("failed to list inventory logs",
			zap.String("product_id", product.ID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch inventory logs", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(logs))
}
