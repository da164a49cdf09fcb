package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	redisStore "smb-finance-backend/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitedRouter(t *testing.T, rule RateLimitRule) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := redisStore.NewRateLimitStore(client)

	r := gin.New()
	r.GET("/limited", RateLimiter(store, "test_group", rule, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	r := setupRateLimitedRouter(t, RateLimitRule{Limit: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	r := setupRateLimitedRouter(t, RateLimitRule{Limit: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_001")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_SetsHeaders(t *testing.T) {
	r := setupRateLimitedRouter(t, RateLimitRule{Limit: 10, Window: time.Minute})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimiter_DegradedModeOnStoreFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := redisStore.NewRateLimitStore(client)
	mr.Close() // store is now unreachable

	r := gin.New()
	r.GET("/limited", RateLimiter(store, "test_group", RateLimitRule{Limit: 1, Window: time.Minute}, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Requests pass through when the limiter backend is down.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestExtractIdentifier_PrefersBusinessID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	// No business context => client IP
	assert.Equal(t, c.ClientIP(), extractIdentifier(c))

	c.Set(CtxBusinessID, "0b1f8c2e-target")
	assert.Equal(t, "0b1f8c2e-target", extractIdentifier(c))
}
