package middleware

import (
	"time"

	"github.com/buzzhq/buzz/internal/config"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/gin-gonic/gin"
	goCache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdle is how long a client's limiter is kept after its last request
const limiterIdle = 10 * time.Minute

// RateLimitMiddleware limits each client, keyed by session or remote address,
// to cfg.Server.QuoteRateLimit requests per second. A zero limit disables it.
func RateLimitMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	limit := cfg.Server.QuoteRateLimit
	if limit <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	burst := max(1, cfg.Server.QuoteBurst)
	limiters := goCache.New(limiterIdle, limiterIdle)

	return func(c *gin.Context) {
		key := types.GetSessionID(c.Request.Context())
		if key == "" {
			key = c.ClientIP()
		}

		var limiter *rate.Limiter
		if v, ok := limiters.Get(key); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(limit), burst)
		}
		// touch so active clients keep their bucket
		limiters.SetDefault(key, limiter)

		if !limiter.Allow() {
			_ = c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many requests, please slow down").
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
