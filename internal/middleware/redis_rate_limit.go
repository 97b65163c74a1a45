package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
)

// WindowCounter is a shared fixed-window counter, implemented by
// cache.RedisClient.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisRateLimitMiddleware creates a distributed fixed-window rate limiter
// that is shared by every server instance.
func RedisRateLimitMiddleware(counter WindowCounter, config RateLimitConfig) gin.HandlerFunc {
	config = config.normalized()
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s", config.KeyFunc(c))
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, ttl, err := counter.IncrWindow(ctx, key, config.Window)
		if err != nil {
			// A broken limiter must not open the API up.
			logger.ErrorWithFields("Rate limit check failed, rejecting request", err, logger.WithIP(c.ClientIP()))
			util.RespondError(c, errors.ServiceUnavailable("rate limiter"))
			return
		}

		remaining := int64(config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(config.Limit) {
			if ttl <= 0 {
				ttl = config.Window
			}
			rejectRateLimited(c, "redis", config.Limit, ttl)
			return
		}
		c.Next()
	}
}

// RateLimit picks the Redis-backed limiter when a counter is available and
// the in-memory one otherwise.
func RateLimit(counter WindowCounter, config RateLimitConfig) gin.HandlerFunc {
	if counter == nil {
		return NewRateLimiter(config)
	}
	return RedisRateLimitMiddleware(counter, config)
}
