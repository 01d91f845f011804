package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/models"
)

func ListOrders(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orderList, err := store.ListOrders(ctx, page, limit)
	if err != nil {
		logging.L().Error("failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orderList))
}

func GetOrderByPublicID(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	order, err := store.OrderByPublicID(ctx, c.Param("publicId"))
	if err != nil {
		respondBusinessError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

// UpdateOrderStatus moves an order along its lifecycle (confirmed, shipped,
// delivered...). Illegal jumps are rejected by the transition table.
func UpdateOrderStatus(c *gin.Context) {
	var req models.OrderStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	next := models.OrderStatus(req.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid status", []global.ValidationError{
			{Field: "status", Message: "Unknown order status", Code: "invalid_choice"},
		}))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	order, err := svc.UpdateOrderStatus(ctx, c.Param("publicId"), next)
	if err != nil {
		respondBusinessError(c, err)
		return
	}

	logging.L().Info("order status updated",
		zap.String("order", order.PublicID), zap.String("status", string(order.Status)))
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}
