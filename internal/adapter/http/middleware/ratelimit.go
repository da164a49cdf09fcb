package middleware

import (
	"fmt"
	"strconv"
	"time"

	redisStore "smb-finance-backend/internal/adapter/storage/redis"
	"smb-finance-backend/pkg/apperror"
	"smb-finance-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the rate limits per endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"auth_register": {Limit: 5, Window: time.Hour},
		"auth_login":    {Limit: 10, Window: time.Minute},
		"ledger":        {Limit: 100, Window: time.Minute},
		"transfers":     {Limit: 30, Window: time.Minute},
		"payroll":       {Limit: 60, Window: time.Minute},
		"credit_assess": {Limit: 20, Window: time.Minute},
		"invoices":      {Limit: 60, Window: time.Minute},
		"read":          {Limit: 120, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := extractIdentifier(c)
		key := fmt.Sprintf("%s:%s", identifier, group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		// Always set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier determines the rate limit key source: the business
// for authenticated routes, the client IP otherwise.
func extractIdentifier(c *gin.Context) string {
	if bid, exists := c.Get(CtxBusinessID); exists {
		return fmt.Sprintf("%v", bid)
	}
	return c.ClientIP()
}
