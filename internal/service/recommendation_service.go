package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/pkg/config"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

type affinityScorer interface {
	Profile(ctx context.Context, userID int64) (models.AffinityProfile, error)
}

type popularityRanker interface {
	Popular(ctx context.Context, limit int, exclude []int64) ([]models.Event, error)
}

type recommendationCatalog interface {
	Candidates(ctx context.Context, categoryIDs, providerIDs, exclude []int64, limit int) ([]models.Event, error)
	Exists(ctx context.Context, eventID int64) (bool, error)
	CategoriesOf(ctx context.Context, eventID int64) ([]models.Category, error)
	SimilarEvents(ctx context.Context, eventID int64, categoryIDs []int64, limit int) ([]models.Event, error)
}

// RecommendationService combines affinity scoring, candidate filtering, and
// popularity backfill into a bounded recommendation list.
//
// The candidate filter requires category AND provider to match the profile
// simultaneously. That is deliberately restrictive and can starve good
// category-only matches; backfill covers the gap, and the top-K/N knobs in
// config are the tuning surface.
type RecommendationService struct {
	affinity   affinityScorer
	popularity popularityRanker
	catalog    recommendationCatalog
	engagement accessHistoryReader
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        config.RecommendationConfig
}

// NewRecommendationService constructs the recommendation service.
func NewRecommendationService(affinity affinityScorer, popularity popularityRanker, catalog recommendationCatalog, engagement accessHistoryReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg config.RecommendationConfig) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 5
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	return &RecommendationService{
		affinity:   affinity,
		popularity: popularity,
		catalog:    catalog,
		engagement: engagement,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// Recommend returns up to limit published events for the user: affinity
// candidates first, popularity backfill for the remainder. The result never
// contains an event the user already holds a grant for, and is shorter than
// limit only when the catalog has fewer eligible published events in total.
// Any store failure fails the whole call; a partially-backfilled list is
// never returned as if it were complete.
func (s *RecommendationService) Recommend(ctx context.Context, userID int64, limit int) ([]models.Event, error) {
	if limit < 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "limit must be positive")
	}
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	cacheKey := fmt.Sprintf("recommendations:user:%d:limit:%d", userID, limit)
	var cached []models.Event
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	profile, err := s.affinity.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.Empty() {
		events, err := s.popularity.Popular(ctx, limit, nil)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, cacheKey, events, s.cfg.CacheTTL)
		return events, nil
	}

	accessed, err := s.engagement.AccessedEvents(ctx, userID)
	if err != nil {
		return nil, storeError(err, "access history lookup failed")
	}
	accessedIDs := make([]int64, 0, len(accessed))
	for _, event := range accessed {
		accessedIDs = append(accessedIDs, event.EventID)
	}

	start := time.Now()
	candidates, err := s.catalog.Candidates(ctx, profile.CategoryIDs(), profile.ProviderIDs(), accessedIDs, limit)
	if err != nil {
		return nil, storeError(err, "candidate lookup failed")
	}
	s.metrics.ObserveStoreQuery("candidate_events", time.Since(start))

	if len(candidates) < limit {
		exclude := make([]int64, 0, len(candidates)+len(accessedIDs))
		for _, event := range candidates {
			exclude = append(exclude, event.ID)
		}
		exclude = append(exclude, accessedIDs...)

		backfill, err := s.popularity.Popular(ctx, limit-len(candidates), exclude)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, backfill...)
	}

	s.cache.Set(ctx, cacheKey, candidates, s.cfg.CacheTTL)
	return candidates, nil
}

// Similar returns up to limit other published events sharing at least one
// category with the given event. An event without categories yields an
// empty list; an unknown event id is NotFound.
func (s *RecommendationService) Similar(ctx context.Context, eventID int64, limit int) ([]models.Event, error) {
	if limit < 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "limit must be positive")
	}
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	cacheKey := fmt.Sprintf("recommendations:similar:%d:limit:%d", eventID, limit)
	var cached []models.Event
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	exists, err := s.catalog.Exists(ctx, eventID)
	if err != nil {
		return nil, storeError(err, "event lookup failed")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	categories, err := s.catalog.CategoriesOf(ctx, eventID)
	if err != nil {
		return nil, storeError(err, "event category lookup failed")
	}
	if len(categories) == 0 {
		return []models.Event{}, nil
	}

	categoryIDs := make([]int64, 0, len(categories))
	for _, category := range categories {
		categoryIDs = append(categoryIDs, category.ID)
	}

	events, err := s.catalog.SimilarEvents(ctx, eventID, categoryIDs, limit)
	if err != nil {
		return nil, storeError(err, "similar event lookup failed")
	}

	s.cache.Set(ctx, cacheKey, events, s.cfg.CacheTTL)
	return events, nil
}
