package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/errors"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/metrics"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/util"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
	// KeyFunc picks the bucket for a request; defaults to the client IP.
	KeyFunc func(c *gin.Context) string
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   100,
		Window:  time.Minute,
		KeyFunc: clientKey,
	}
}

// UploadRateLimitConfig returns limits for upload endpoints
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   20,
		Window:  time.Minute,
		KeyFunc: clientKey,
	}
}

func clientKey(c *gin.Context) string {
	return c.ClientIP()
}

func (cfg RateLimitConfig) normalized() RateLimitConfig {
	if cfg.Limit <= 0 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientKey
	}
	return cfg
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key. Buckets hold Limit tokens and
// refill at Limit per Window; idle buckets are collected after idleTTL.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	config   RateLimitConfig
	limit    rate.Limit
	idleTTL  time.Duration
	now      func() time.Time
}

func newRateLimiter(config RateLimitConfig) *RateLimiter {
	config = config.normalized()
	idle := 5 * time.Minute
	if config.Window*2 > idle {
		idle = config.Window * 2
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		config:   config,
		limit:    rate.Every(config.Window / time.Duration(config.Limit)),
		idleTTL:  idle,
		now:      time.Now,
	}
}

// Allow reports whether key may make a request now, and if not, how long
// until it may.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	if key == "" {
		key = "unknown"
	}
	now := rl.now()

	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.config.Limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.gcLocked(now)
	rl.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, rl.config.Window
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) gcLocked(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
		}
	}
}

// NewRateLimiter creates an in-memory rate limiting middleware
func NewRateLimiter(config RateLimitConfig) gin.HandlerFunc {
	rl := newRateLimiter(config)
	return rl.Middleware("memory")
}

// Middleware renders 429 through the envelope once a key runs out of tokens.
func (rl *RateLimiter) Middleware(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(rl.config.KeyFunc(c))
		if !allowed {
			rejectRateLimited(c, name, rl.config.Limit, retryAfter)
			return
		}
		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, limiter string, limit int, retryAfter time.Duration) {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	metrics.RecordRateLimitExceeded(limiter, c.Request.Method)
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", "0")
	util.RespondError(c, errors.RateLimited(""))
}
