package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
)

type accessHistoryReader interface {
	AccessedEvents(ctx context.Context, userID int64) ([]models.AccessedEvent, error)
}

type eventCategoryReader interface {
	CategoriesOf(ctx context.Context, eventID int64) ([]models.Category, error)
}

// AffinityService derives a user's category/provider affinity from their
// access-grant history.
type AffinityService struct {
	engagement    accessHistoryReader
	catalog       eventCategoryReader
	metrics       *MetricsService
	logger        *zap.Logger
	topCategories int
	topProviders  int
}

// NewAffinityService constructs the affinity scorer.
func NewAffinityService(engagement accessHistoryReader, catalog eventCategoryReader, metrics *MetricsService, logger *zap.Logger, topCategories, topProviders int) *AffinityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topCategories <= 0 {
		topCategories = 3
	}
	if topProviders <= 0 {
		topProviders = 2
	}
	return &AffinityService{
		engagement:    engagement,
		catalog:       catalog,
		metrics:       metrics,
		logger:        logger,
		topCategories: topCategories,
		topProviders:  topProviders,
	}
}

// Profile tallies category and provider frequencies over the user's
// distinct accessed events and returns the top entries of each, ranked by
// frequency descending with ties broken by ascending id so repeated calls
// against the same data always agree. A user without history gets an empty
// profile, which signals cold-start to the caller.
func (s *AffinityService) Profile(ctx context.Context, userID int64) (models.AffinityProfile, error) {
	start := time.Now()
	accessed, err := s.engagement.AccessedEvents(ctx, userID)
	if err != nil {
		return models.AffinityProfile{}, storeError(err, "access history lookup failed")
	}
	s.metrics.ObserveStoreQuery("accessed_events", time.Since(start))

	if len(accessed) == 0 {
		return models.AffinityProfile{}, nil
	}

	categoryFreq := make(map[int64]int)
	providerFreq := make(map[int64]int)
	for _, event := range accessed {
		categories, err := s.catalog.CategoriesOf(ctx, event.EventID)
		if err != nil {
			return models.AffinityProfile{}, storeError(err, "event category lookup failed")
		}
		for _, category := range categories {
			categoryFreq[category.ID]++
		}
		providerFreq[event.ProviderID]++
	}

	return models.AffinityProfile{
		Categories: rankAffinity(categoryFreq, s.topCategories),
		Providers:  rankAffinity(providerFreq, s.topProviders),
	}, nil
}

// rankAffinity orders a frequency map by count descending, id ascending on
// ties, truncated to the top n entries.
func rankAffinity(freq map[int64]int, n int) []models.AffinityEntry {
	entries := make([]models.AffinityEntry, 0, len(freq))
	for id, count := range freq {
		entries = append(entries, models.AffinityEntry{ID: id, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
