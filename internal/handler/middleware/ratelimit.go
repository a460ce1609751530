package middleware

import (
	"log/slog"
	"net/http"

	"eventhub/internal/handler/httperr"
	"eventhub/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit keys on the authenticated user and falls back to the client IP.
// Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":ip:" + c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = scope + ":user:" + userID.String()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Error("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		if !allowed {
			httperr.AbortWithError(c, http.StatusTooManyRequests, nil, "too many requests", nil)
			return
		}

		c.Next()
	}
}
