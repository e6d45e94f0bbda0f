package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within burst", func(t *testing.T) {
		limiter := NewRateLimiter(1, 5)
		defer limiter.Stop()

		for i := 0; i < 5; i++ {
			allowed, _ := limiter.Allow("client1")
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks once bucket is drained", func(t *testing.T) {
		limiter := NewRateLimiter(0.001, 3)
		defer limiter.Stop()

		for i := 0; i < 3; i++ {
			allowed, _ := limiter.Allow("client2")
			assert.True(t, allowed)
		}

		allowed, remaining := limiter.Allow("client2")
		assert.False(t, allowed)
		assert.Equal(t, 0, remaining)
	})

	t.Run("separate buckets per client", func(t *testing.T) {
		limiter := NewRateLimiter(0.001, 2)
		defer limiter.Stop()

		limiter.Allow("clientA")
		limiter.Allow("clientA")
		allowed, _ := limiter.Allow("clientA")
		assert.False(t, allowed)

		allowed, _ = limiter.Allow("clientB")
		assert.True(t, allowed)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewRateLimiter(0.001, 100)
		defer limiter.Stop()

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := limiter.Allow("shared"); ok {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	defer limiter.Stop()

	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_RATE_LIMITED")
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
}
