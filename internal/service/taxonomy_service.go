package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/pkg/config"
)

type taxonomyReader interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
}

// TaxonomyService serves the filterable reference data behind the search
// UI: categories, tags, and providers with published events. All three are
// slow-changing, so results are cached with a TTL when caching is enabled.
type TaxonomyService struct {
	catalog taxonomyReader
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     config.TaxonomyConfig
}

// NewTaxonomyService constructs the taxonomy service.
func NewTaxonomyService(catalog taxonomyReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg config.TaxonomyConfig) *TaxonomyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxonomyService{catalog: catalog, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Categories lists every category.
func (s *TaxonomyService) Categories(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if s.cache.Get(ctx, "taxonomy:categories", &cached) {
		return cached, nil
	}

	start := time.Now()
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, storeError(err, "category listing failed")
	}
	s.metrics.ObserveStoreQuery("list_categories", time.Since(start))

	s.cache.Set(ctx, "taxonomy:categories", categories, s.cfg.CacheTTL)
	return categories, nil
}

// Tags lists every tag.
func (s *TaxonomyService) Tags(ctx context.Context) ([]models.Tag, error) {
	var cached []models.Tag
	if s.cache.Get(ctx, "taxonomy:tags", &cached) {
		return cached, nil
	}

	start := time.Now()
	tags, err := s.catalog.ListTags(ctx)
	if err != nil {
		return nil, storeError(err, "tag listing failed")
	}
	s.metrics.ObserveStoreQuery("list_tags", time.Since(start))

	s.cache.Set(ctx, "taxonomy:tags", tags, s.cfg.CacheTTL)
	return tags, nil
}

// Providers lists content providers with at least one published event.
func (s *TaxonomyService) Providers(ctx context.Context) ([]models.Provider, error) {
	var cached []models.Provider
	if s.cache.Get(ctx, "taxonomy:providers", &cached) {
		return cached, nil
	}

	start := time.Now()
	providers, err := s.catalog.ListProviders(ctx)
	if err != nil {
		return nil, storeError(err, "provider listing failed")
	}
	s.metrics.ObserveStoreQuery("list_providers", time.Since(start))

	s.cache.Set(ctx, "taxonomy:providers", providers, s.cfg.CacheTTL)
	return providers, nil
}
