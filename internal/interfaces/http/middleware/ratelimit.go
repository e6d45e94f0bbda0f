package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rently/backend/internal/interfaces/http/dto"
)

// RateLimiter implements a token bucket limiter keyed by client IP
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*tokenBucket
	rate     float64
	capacity float64
	done     chan struct{}
}

type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing ratePerSecond requests with the
// given burst capacity. Idle clients are evicted by a background sweep.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*tokenBucket),
		rate:     ratePerSecond,
		capacity: float64(burst),
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow consumes a token for the given key, reporting whether the request
// may proceed and how many tokens remain.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.clients[key]
	if !ok {
		bucket = &tokenBucket{tokens: rl.capacity}
		rl.clients[key] = bucket
	} else {
		elapsed := now.Sub(bucket.lastSeen).Seconds()
		bucket.tokens += elapsed * rl.rate
		if bucket.tokens > rl.capacity {
			bucket.tokens = rl.capacity
		}
	}
	bucket.lastSeen = now

	if bucket.tokens < 1 {
		return false, 0
	}
	bucket.tokens--
	return true, int(bucket.tokens)
}

// Stop terminates the cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-3 * time.Minute)
			rl.mu.Lock()
			for key, bucket := range rl.clients {
				if bucket.lastSeen.Before(cutoff) {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// RateLimit returns a middleware enforcing the limiter per client IP
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := rl.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(int(rl.capacity)))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, "Too many requests", requestID))
			return
		}
		c.Next()
	}
}
