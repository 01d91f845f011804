package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/mongo"
	"github.com/storefront-labs/checkout-api/pkg/orders"
	"github.com/storefront-labs/checkout-api/pkg/redis"
)

var Router *gin.Engine

// Shared handler dependencies, wired once at startup.
var (
	store *mongo.Store
	svc   *orders.Service
	carts *redis.CartStore
)

func InitEngine() {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	Router = gin.Default()

	origins := strings.Split(global.GetEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	Router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Admin-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
