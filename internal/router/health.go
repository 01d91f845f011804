package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront-labs/checkout-api/pkg/global"
	"github.com/storefront-labs/checkout-api/pkg/mongo"
	"github.com/storefront-labs/checkout-api/pkg/redis"
)

// HealthCheck pings both backing stores so load balancers see real readiness,
// not just a live process.
func HealthCheck(c *gin.Context) {
	ctx, cancel := global.GetDefaultTimer()
	defer cancel()

	status := gin.H{"status": "ok", "mongo": "ok", "redis": "ok"}
	healthy := true

	if err := mongo.Client().Ping(ctx, nil); err != nil {
		status["mongo"] = "unreachable"
		healthy = false
	}
	if err := redis.Client().Ping(ctx).Err(); err != nil {
		status["redis"] = "unreachable"
		healthy = false
	}

	if !healthy {
		status["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, global.APIResponse{Success: false, Data: status, Message: "Service degraded"})
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(status))
}
