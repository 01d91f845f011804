package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/models"
	"github.com/storefront-labs/checkout-api/pkg/pricing"
)

// ApplyCoupon is the dry-run validation the cart page calls before checkout.
// Validation failures come back as 200 with valid=false so the storefront can
// render them inline without special-casing error statuses.
func ApplyCoupon(c *gin.Context) {
	var req models.CouponApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	coupon, discount, err := svc.ApplyCoupon(ctx, req.Code, req.Subtotal)
	if err != nil {
		for sentinel, code := range couponErrorCodes {
			if errors.Is(err, sentinel) {
				c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
					"valid":  false,
					"code":   req.Code,
					"reason": code,
				}))
				return
			}
		}
		logging.L().Error("coupon validation failed", zap.String("code", req.Code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to validate coupon", nil))
		return
	}

	after := pricing.FromMoney(req.Subtotal).Sub(pricing.FromMoney(discount))
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
		"valid":           true,
		"code":            coupon.Code,
		"discount_type":   coupon.DiscountType,
		"discount_amount": discount,
		"total_after":     pricing.Money(after),
	}))
}

func ListCoupons(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	coupons, err := store.ListActiveCoupons(ctx)
	if err != nil {
		logging.L().Error("failed to list coupons", zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch coupons", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(coupons))
}

func CreateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	if coupon.DiscountType != models.DiscountPercent && coupon.DiscountType != models.DiscountFixed {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid coupon", []global.ValidationError{
			{Field: "discount_type", Message: "Must be percent or fixed", Code: "invalid_choice"},
		}))
		return
	}

	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	coupon.UsesCount = 0
	coupon.SetTimestamps()
	if err := store.CreateCoupon(ctx, &coupon); err != nil {
		logging.L().Error("failed to create coupon", zap.String("code", coupon.Code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create coupon", nil))
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(coupon))
}
