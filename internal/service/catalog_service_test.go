package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadolink/mercado_api/internal/cache"
	"github.com/mercadolink/mercado_api/internal/models"
)

type fakeCatalogRepo struct {
	products []models.Product
	total    int
	err      error

	calls int
}

func (f *fakeCatalogRepo) GetPublishedPaged(category, search string, page, limit int) ([]models.Product, int, error) {
	f.calls++
	return f.products, f.total, f.err
}

func (f *fakeCatalogRepo) GetPublishedByID(id int) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, errors.New("no rows")
}

type fakePageCache struct {
	pages  map[string]*cache.CatalogPage
	getErr error
	setErr error
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{pages: make(map[string]*cache.CatalogPage)}
}

func (f *fakePageCache) key(category, search string, page, limit int) string {
	return category + "|" + search + "|" + string(rune('0'+page)) + "|" + string(rune('0'+limit))
}

func (f *fakePageCache) Get(ctx context.Context, category, search string, page, limit int) (*cache.CatalogPage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.pages[f.key(category, search, page, limit)]; ok {
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (f *fakePageCache) Set(ctx context.Context, category, search string, page, limit int, data *cache.CatalogPage) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.pages[f.key(category, search, page, limit)] = data
	return nil
}

func TestGetProductsCachesPages(t *testing.T) {
	repo := &fakeCatalogRepo{products: []models.Product{{ID: 1, Name: "Silla", Published: true}}, total: 1}
	pageCache := newFakePageCache()
	svc := NewCatalogService(repo, pageCache)

	for i := 0; i < 3; i++ {
		products, total, err := svc.GetProducts(context.Background(), "", "", 1, 20)
		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, 1, total)
	}

	assert.Equal(t, 1, repo.calls, "repeat requests must be served from cache")
}

func TestGetProductsSurvivesCacheFailure(t *testing.T) {
	repo := &fakeCatalogRepo{products: []models.Product{{ID: 1, Name: "Silla"}}, total: 1}
	pageCache := newFakePageCache()
	pageCache.getErr = errors.New("redis down")
	pageCache.setErr = errors.New("redis down")
	svc := NewCatalogService(repo, pageCache)

	products, total, err := svc.GetProducts(context.Background(), "", "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
}

func TestGetProductsWithoutCache(t *testing.T) {
	repo := &fakeCatalogRepo{products: []models.Product{{ID: 1}}, total: 1}
	svc := NewCatalogService(repo, nil)

	_, total, err := svc.GetProducts(context.Background(), "muebles", "silla", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetProductsRepoError(t *testing.T) {
	repo := &fakeCatalogRepo{err: errors.New("db down")}
	svc := NewCatalogService(repo, nil)

	_, _, err := svc.GetProducts(context.Background(), "", "", 1, 20)
	assert.Error(t, err)
}
