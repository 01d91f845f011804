package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/storefront-labs/checkout-api/internal/router"
	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/logging"
	"github.com/storefront-labs/checkout-api/pkg/mongo"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/payments"
	"github.com/storefront-labs/checkout-api/pkg/redis"
)

func main() {
	godotenv.Load()

	logging.Init()
	defer logging.Sync()

	mongo.InitMongoDB()
	mongo.EnsureIndexesOnStartup()
	redis.InitRedis()

	checkoutCfg := global.LoadCheckoutConfig()
	stripeCfg := global.LoadStripeConfig()
	paypalCfg := global.LoadPayPalConfig()

	store := mongo.NewStore()
	carts := redis.NewCartStore(checkoutCfg.CartTTL)
	providers := payments.NewRegistry(stripeCfg, paypalCfg)

	verify := func(payload []byte, sigHeader string) (*payments.Event, error) {
		return payments.VerifyStripeEvent(payload, sigHeader, stripeCfg.WebhookSecret)
	}
	svc := orders.NewService(store, carts, providers, checkoutCfg, verify)

	router.InitEngine()
	router.InitializeRoutes(router.Deps{Store: store, Service: svc, Carts: carts})

	port := global.GetEnvOrDefault("PORT", "8000")
	logging.L().Info("starting checkout api", zap.String("port", port))
	if err := router.Router.Run(":" + port); err != nil {
		logging.L().Fatal("server exited", zap.Error(err))
	}
}
