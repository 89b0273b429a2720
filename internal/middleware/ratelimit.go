package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alpercimsit/emlak-website/internal/logging"
	"github.com/alpercimsit/emlak-website/internal/ratelimit"
)

// RateLimit throttles requests per client IP. Every decision is recorded in stats
// when stats is non-nil; recording failures are logged and never fail the request.
func RateLimit(lim *ratelimit.Limiter, stats ratelimit.StatsStore, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		dec := lim.Allow(key)

		if stats != nil {
			ev := ratelimit.StatsEvent{
				Key:     key,
				Allowed: dec.Allowed,
				Method:  c.Request.Method,
				Path:    c.FullPath(),
				At:      time.Now(),
			}
			if err := stats.Record(c.Request.Context(), ev); err != nil {
				logger.Warn("rate limit stats not recorded", "error", err)
			}
		}

		if !dec.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(dec.RetryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
