package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const productViewKeyPrefix = "product:view:"

// RedisProductViewCache caches product projections in Redis so cart reads
// resolve without a catalog query. Cache failures degrade to a miss, never
// to an error: the repository is always the source of truth.
type RedisProductViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisProductViewCache connects to Redis and verifies the connection
func NewRedisProductViewCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisProductViewCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProductViewCache{
		client: client,
		ttl:    cfg.CacheTTL,
		logger: logger.Named("product_view_cache"),
	}, nil
}

// Get returns the cached view for a product, or a miss
func (c *RedisProductViewCache) Get(ctx context.Context, productID uuid.UUID) (*appcart.ProductView, bool) {
	data, err := c.client.Get(ctx, productViewKey(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var view appcart.ProductView
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.Warn("cache entry corrupt, dropping",
			zap.String("product_id", productID.String()), zap.Error(err))
		c.client.Del(ctx, productViewKey(productID))
		return nil, false
	}
	return &view, true
}

// Set stores a product view with the configured TTL
func (c *RedisProductViewCache) Set(ctx context.Context, view appcart.ProductView) {
	data, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, productViewKey(view.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached view for a product
func (c *RedisProductViewCache) Invalidate(ctx context.Context, productID uuid.UUID) {
	if err := c.client.Del(ctx, productViewKey(productID)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed",
			zap.String("product_id", productID.String()), zap.Error(err))
	}
}

// Close releases the Redis connection
func (c *RedisProductViewCache) Close() error {
	return c.client.Close()
}

func productViewKey(productID uuid.UUID) string {
	return productViewKeyPrefix + productID.String()
}

var _ appcart.ProductViewCache = (*RedisProductViewCache)(nil)
