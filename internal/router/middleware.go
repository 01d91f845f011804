package router

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/storefront-labs/checkout-api/pkg/global"
)

// AdminMiddleware gates privileged routes behind a static API key. With no
// key configured the routes are closed, not open.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("ADMIN_API_KEY")
		if expected == "" || c.GetHeader("X-Admin-Key") != expected {
			c.JSON(http.StatusForbidden, global.ErrorResponse("Admin access required", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}
