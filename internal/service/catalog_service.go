package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mercadolink/mercado_api/internal/cache"
	"github.com/mercadolink/mercado_api/internal/models"
)

// CatalogRepo reads published products.
type CatalogRepo interface {
	GetPublishedPaged(category, search string, page, limit int) ([]models.Product, int, error)
	GetPublishedByID(id int) (*models.Product, error)
}

// CatalogPageCache caches listing pages. May be nil to disable caching.
type CatalogPageCache interface {
	Get(ctx context.Context, category, search string, page, limit int) (*cache.CatalogPage, error)
	Set(ctx context.Context, category, search string, page, limit int, data *cache.CatalogPage) error
}

// CatalogService serves the public storefront catalog.
type CatalogService struct {
	repo  CatalogRepo
	cache CatalogPageCache
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo CatalogRepo, pageCache CatalogPageCache) *CatalogService {
	return &CatalogService{repo: repo, cache: pageCache}
}

// GetProducts returns published products for the storefront. Cache failures
// are never surfaced; the database remains the source of truth.
func (s *CatalogService) GetProducts(ctx context.Context, category, search string, page, limit int) ([]models.Product, int, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, category, search, page, limit); err == nil {
			return cached.Products, cached.Total, nil
		}
	}

	products, total, err := s.repo.GetPublishedPaged(category, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, category, search, page, limit, &cache.CatalogPage{
			Products: products,
			Total:    total,
		}); err != nil {
			log.Debug().Err(err).Msg("Failed to cache catalog page")
		}
	}
	return products, total, nil
}

// GetProduct returns a single published product.
func (s *CatalogService) GetProduct(id int) (*models.Product, error) {
	return s.repo.GetPublishedByID(id)
}
