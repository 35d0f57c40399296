package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests move the limiter through time
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, window)
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows a burst up to the limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			ok, _ := limiter.Allow("client1")
			assert.True(t, ok, "request %d should be allowed", i+1)
		}
		ok, remaining := limiter.Allow("client1")
		assert.False(t, ok)
		assert.Equal(t, 0, remaining)
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter, _ := newTestLimiter(2, time.Minute)

		limiter.Allow("clientA")
		limiter.Allow("clientA")
		ok, _ := limiter.Allow("clientA")
		assert.False(t, ok)

		ok, remaining := limiter.Allow("clientB")
		assert.True(t, ok)
		assert.Equal(t, 1, remaining)
	})

	t.Run("refills over the window", func(t *testing.T) {
		limiter, clock := newTestLimiter(2, time.Minute)

		limiter.Allow("client3")
		limiter.Allow("client3")
		ok, _ := limiter.Allow("client3")
		assert.False(t, ok)
		assert.Equal(t, 30*time.Second, limiter.RetryAfter("client3"))

		clock.advance(30 * time.Second)
		ok, _ = limiter.Allow("client3")
		assert.True(t, ok)
	})

	t.Run("cleanup drops idle clients", func(t *testing.T) {
		limiter, clock := newTestLimiter(2, time.Minute)
		limiter.Allow("old")
		clock.advance(90 * time.Second)
		limiter.Allow("recent")
		clock.advance(60 * time.Second)

		assert.Equal(t, 1, limiter.Cleanup())
		assert.Len(t, limiter.clients, 1)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter, _ := newTestLimiter(2, time.Minute)

	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	do()
	w = do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
}
