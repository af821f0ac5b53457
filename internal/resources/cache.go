package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/upeo/website-backend/internal/observability/metrics"
	"github.com/upeo/website-backend/pkg/logging"
)

const cacheKey = "resources:published"

// Cache is a read-through redis cache in front of the published resource
// list. Cache failures degrade to the underlying repository, never to an
// error.
type Cache struct {
	repo    Repository
	redis   *redis.Client
	ttl     time.Duration
	metrics *metrics.CatalogMetrics
	logger  *logging.Logger
}

// NewCache creates a catalog cache. m may be nil.
func NewCache(repo Repository, redisClient *redis.Client, ttl time.Duration, m *metrics.CatalogMetrics, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{
		repo:    repo,
		redis:   redisClient,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// ListPublished returns the published catalog, serving from redis when warm.
func (c *Cache) ListPublished(ctx context.Context) ([]Resource, error) {
	if c.redis == nil {
		c.metrics.Query("bypass")
		return c.repo.ListPublished(ctx)
	}

	data, err := c.redis.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var cached []Resource
		if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
			c.metrics.Query("hit")
			return cached, nil
		}
		c.logger.Warn("discarding corrupt catalog cache entry")
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", "error", err)
	}

	c.metrics.Query("miss")
	list, err := c.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(list); err == nil {
		if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", "error", err)
		}
	}
	return list, nil
}

// Invalidate drops the cached catalog. Called after admin writes.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Del(ctx, cacheKey).Err(); err != nil {
		return fmt.Errorf("resources: invalidate cache: %w", err)
	}
	return nil
}
