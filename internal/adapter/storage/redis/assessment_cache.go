package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// AssessmentCache implements ports.AssessmentCache using Redis. It holds
// the latest credit profile snapshot per business; Postgres remains the
// source of truth and every write here is best-effort.
type AssessmentCache struct {
	client *goredis.Client
	prefix string
}

// NewAssessmentCache creates a new Redis-backed assessment cache.
func NewAssessmentCache(client *goredis.Client) *AssessmentCache {
	return &AssessmentCache{
		client: client,
		prefix: "assessment:",
	}
}

// Get retrieves a cached profile snapshot by business ID.
// Returns nil, nil if absent.
func (c *AssessmentCache) Get(ctx context.Context, businessID uuid.UUID) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+businessID.String()).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis assessment get: %w", err)
	}
	return val, nil
}

// Set stores a profile snapshot with TTL.
func (c *AssessmentCache) Set(ctx context.Context, businessID uuid.UUID, snapshot []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+businessID.String(), snapshot, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis assessment set: %w", err)
	}
	return nil
}

// Invalidate drops a business's cached snapshot.
func (c *AssessmentCache) Invalidate(ctx context.Context, businessID uuid.UUID) error {
	err := c.client.Del(ctx, c.prefix+businessID.String()).Err()
	if err != nil {
		return fmt.Errorf("redis assessment del: %w", err)
	}
	return nil
}
