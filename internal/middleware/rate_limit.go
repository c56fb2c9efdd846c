package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. maxRequest tokens
// refill evenly over duration.
type RateLimiter struct {
	mu         sync.Mutex
	visitors   map[string]*visitor
	maxRequest int
	duration   time.Duration
	every      rate.Limit
	now        func() time.Time
}

func NewRateLimiter(maxRequest int, duration time.Duration) *RateLimiter {
	if maxRequest <= 0 {
		maxRequest = 1
	}
	if duration <= 0 {
		duration = time.Second
	}
	return &RateLimiter{
		visitors:   make(map[string]*visitor),
		maxRequest: maxRequest,
		duration:   duration,
		every:      rate.Every(duration / time.Duration(maxRequest)),
		now:        time.Now,
	}
}

// Allow consumes a token for ip and returns the tokens left.
func (rl *RateLimiter) Allow(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.maxRequest)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	allowed := v.limiter.AllowN(now, 1)
	remaining := int(math.Floor(v.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// cleanup drops visitors idle for longer than a full refill.
func (rl *RateLimiter) cleanup(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.duration {
			delete(rl.visitors, ip)
		}
	}
}

// RateLimit rejects a client with 429 once its bucket is empty. A
// non-positive maxRequest disables limiting.
func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	if maxRequest <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, remaining := limiter.Allow(ip)

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("user_agent", c.GetHeader(constants.HeaderUserAgent)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("max_requests", maxRequest),
				zap.Duration("duration", duration),
			)

			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(duration.Seconds()/float64(maxRequest)))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, constants.BuildErrorResponse(constants.MsgTooManyRequests, nil))
			return
		}

		c.Next()
	}
}
