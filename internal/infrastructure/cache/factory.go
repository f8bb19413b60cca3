package cache

import (
	"go.uber.org/zap"

	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// NewProductViewCache creates the product view cache for the deployment:
// Redis when enabled and reachable, otherwise a process-local cache. The
// fallback trades cross-instance freshness for availability, which is fine
// because every entry carries a TTL and writes invalidate locally.
func NewProductViewCache(cfg config.RedisConfig, logger *zap.Logger) appcart.ProductViewCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Enabled {
		cache, err := NewRedisProductViewCache(cfg, logger)
		if err == nil {
			logger.Info("using Redis product view cache")
			return cache
		}
		logger.Warn("Redis unavailable, falling back to in-memory product view cache",
			zap.Error(err))
	}

	return NewInMemoryProductViewCache(cfg.CacheTTL)
}
