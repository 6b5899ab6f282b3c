package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mercadolink/mercado_api/internal/models"
)

// catalogTTL keeps public catalog pages hot for a short window. The
// storefront is read-heavy and tolerates a minute of staleness.
const catalogTTL = time.Minute

// CatalogPage is a cached page of published products with its total count.
type CatalogPage struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
	CachedAt time.Time        `json:"cachedAt"`
}

// CatalogCache caches public product listings per filter combination.
type CatalogCache struct {
	redis *RedisClient
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(redis *RedisClient) *CatalogCache {
	return &CatalogCache{redis: redis}
}

func (c *CatalogCache) key(category, search string, page, limit int) string {
	return fmt.Sprintf("catalog:%s:%s:%d:%d", category, search, page, limit)
}

// Get returns a cached catalog page, or ErrCacheMiss.
func (c *CatalogCache) Get(ctx context.Context, category, search string, page, limit int) (*CatalogPage, error) {
	data, err := c.redis.Get(ctx, c.key(category, search, page, limit))
	if err != nil {
		return nil, err
	}
	var pageData CatalogPage
	if err := json.Unmarshal([]byte(data), &pageData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog page: %w", err)
	}
	return &pageData, nil
}

// Set stores a catalog page.
func (c *CatalogCache) Set(ctx context.Context, category, search string, page, limit int, pageData *CatalogPage) error {
	pageData.CachedAt = time.Now()
	data, err := json.Marshal(pageData)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog page: %w", err)
	}
	return c.redis.Set(ctx, c.key(category, search, page, limit), string(data), catalogTTL)
}
