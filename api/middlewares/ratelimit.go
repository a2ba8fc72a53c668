package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// UploadRateLimit rejects requests beyond the configured rate with 429.
// Staging whole image batches to disk is the most expensive entry point, so
// it gets a global limiter rather than a per-client one.
func UploadRateLimit(perSecond, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = perSecond
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many upload requests"})
			return
		}
		c.Next()
	}
}
