package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AllowAllCORS opens the API to any origin. The relay fronts browser clients
// served from arbitrary hosts.
func AllowAllCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
