package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storefront-labs/checkout-api/pkg/mongo"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/redis"
)

type Deps struct {
	Store   *mongo.Store
	Service *orders.Service
	Carts   *redis.CartStore
}

func InitializeRoutes(deps Deps) {
	store = deps.Store
	svc = deps.Service
	carts = deps.Carts

	Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		products := api.Group("/products")
		{
			products.GET("/", GetAllProducts)
			products.GET("/:slug", GetProductBySlug)
			products.POST("/", AdminMiddleware(), CreateProduct)
			products.POST("/:slug/stock", AdminMiddleware(), AdjustProductStock)
			products.GET("/:slug/inventory", AdminMiddleware(), GetInventoryLogs)
		}

		cart := api.Group("/cart")
		{
			cart.POST("/sessions", NewCartSession)
			cart.GET("/:sessionId", GetCart)
			cart.POST("/:sessionId/items", AddToCart)
			cart.POST("/:sessionId/remove", RemoveFromCart)
			cart.DELETE("/:sessionId", ClearCart)
		}

		api.POST("/checkout", Checkout)
		api.POST("/coupon/apply", ApplyCoupon)
		api.POST("/webhook/payment", PaymentWebhook)

		coupons := api.Group("/coupons")
		{
			coupons.GET("/", ListCoupons)
			coupons.POST("/", AdminMiddleware(), CreateCoupon)
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.GET("/", AdminMiddleware(), ListOrders)
			ordersGroup.GET("/:publicId", GetOrderByPublicID)
			ordersGroup.PATCH("/:publicId/status", AdminMiddleware(), UpdateOrderStatus)
		}

		customers := api.Group("/customers")
		{
			customers.POST("/", CreateCustomer)
			customers.GET("/:id", GetCustomerByID)
			customers.POST("/:id/addresses", AddCustomerAddress)
		}
	}
}
