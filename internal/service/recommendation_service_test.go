package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/pkg/config"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

type mockAffinity struct {
	profile models.AffinityProfile
	err     error
}

func (m *mockAffinity) Profile(ctx context.Context, userID int64) (models.AffinityProfile, error) {
	if m.err != nil {
		return models.AffinityProfile{}, m.err
	}
	return m.profile, nil
}

type mockPopularity struct {
	events  []models.Event
	err     error
	calls   int
	limit   int
	exclude []int64
}

func (m *mockPopularity) Popular(ctx context.Context, limit int, exclude []int64) ([]models.Event, error) {
	m.calls++
	m.limit = limit
	m.exclude = exclude
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.events) {
		return m.events[:limit], nil
	}
	return m.events, nil
}

type mockRecommendationCatalog struct {
	candidates    []models.Event
	candidatesErr error
	exists        bool
	existsErr     error
	categories    []models.Category
	categoriesErr error
	similar       []models.Event
	similarErr    error

	categoryIDs []int64
	providerIDs []int64
	exclude     []int64
	limit       int
}

func (m *mockRecommendationCatalog) Candidates(ctx context.Context, categoryIDs, providerIDs, exclude []int64, limit int) ([]models.Event, error) {
	m.categoryIDs = categoryIDs
	m.providerIDs = providerIDs
	m.exclude = exclude
	m.limit = limit
	if m.candidatesErr != nil {
		return nil, m.candidatesErr
	}
	return m.candidates, nil
}

func (m *mockRecommendationCatalog) Exists(ctx context.Context, eventID int64) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockRecommendationCatalog) CategoriesOf(ctx context.Context, eventID int64) ([]models.Category, error) {
	if m.categoriesErr != nil {
		return nil, m.categoriesErr
	}
	return m.categories, nil
}

func (m *mockRecommendationCatalog) SimilarEvents(ctx context.Context, eventID int64, categoryIDs []int64, limit int) ([]models.Event, error) {
	if m.similarErr != nil {
		return nil, m.similarErr
	}
	return m.similar, nil
}

func recommendationConfig() config.RecommendationConfig {
	return config.RecommendationConfig{DefaultLimit: 5, MaxLimit: 50}
}

func disabledCache() *CacheService {
	return NewCacheService(nil, nil, 0, zap.NewNop(), false)
}

func profileFor(categories, providers []int64) models.AffinityProfile {
	p := models.AffinityProfile{}
	for _, id := range categories {
		p.Categories = append(p.Categories, models.AffinityEntry{ID: id, Count: 1})
	}
	for _, id := range providers {
		p.Providers = append(p.Providers, models.AffinityEntry{ID: id, Count: 1})
	}
	return p
}

func TestRecommendColdStartFallsBackToPopularity(t *testing.T) {
	popularity := &mockPopularity{events: []models.Event{{ID: 1}, {ID: 2}}}
	catalog := &mockRecommendationCatalog{}
	service := NewRecommendationService(&mockAffinity{}, popularity, catalog, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	events, err := service.Recommend(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, 1, popularity.calls)
	assert.Equal(t, 5, popularity.limit)
	assert.Empty(t, popularity.exclude)
	// the candidate path never ran
	assert.Zero(t, catalog.limit)
}

func TestRecommendExcludesAccessedEvents(t *testing.T) {
	affinity := &mockAffinity{profile: profileFor([]int64{2, 1}, []int64{100})}
	history := &mockAccessHistory{accessed: map[int64][]models.AccessedEvent{
		7: {{EventID: 10, ProviderID: 100}, {EventID: 11, ProviderID: 100}},
	}}
	catalog := &mockRecommendationCatalog{candidates: []models.Event{{ID: 20}, {ID: 21}, {ID: 22}}}
	popularity := &mockPopularity{}
	service := NewRecommendationService(affinity, popularity, catalog, history, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	events, err := service.Recommend(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	assert.Equal(t, []int64{2, 1}, catalog.categoryIDs)
	assert.Equal(t, []int64{100}, catalog.providerIDs)
	assert.Equal(t, []int64{10, 11}, catalog.exclude)
	assert.Equal(t, 3, catalog.limit)
	// candidates filled the list, no backfill needed
	assert.Zero(t, popularity.calls)
}

func TestRecommendBackfillsFromPopularity(t *testing.T) {
	affinity := &mockAffinity{profile: profileFor([]int64{1}, []int64{100})}
	history := &mockAccessHistory{accessed: map[int64][]models.AccessedEvent{
		7: {{EventID: 10, ProviderID: 100}},
	}}
	catalog := &mockRecommendationCatalog{candidates: []models.Event{{ID: 20}}}
	popularity := &mockPopularity{events: []models.Event{{ID: 30}, {ID: 31}}}
	service := NewRecommendationService(affinity, popularity, catalog, history, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	events, err := service.Recommend(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, int64(20), events[0].ID)
	assert.Equal(t, int64(30), events[1].ID)
	assert.Equal(t, int64(31), events[2].ID)

	// backfill asks only for the remainder and excludes both the already
	// selected candidates and the accessed events
	assert.Equal(t, 2, popularity.limit)
	assert.Equal(t, []int64{20, 10}, popularity.exclude)
}

func TestRecommendLimitHandling(t *testing.T) {
	t.Run("negative limit rejected", func(t *testing.T) {
		service := NewRecommendationService(&mockAffinity{}, &mockPopularity{}, &mockRecommendationCatalog{}, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

		_, err := service.Recommend(context.Background(), 1, -1)
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidInput))
	})

	t.Run("zero limit uses default", func(t *testing.T) {
		popularity := &mockPopularity{}
		service := NewRecommendationService(&mockAffinity{}, popularity, &mockRecommendationCatalog{}, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

		_, err := service.Recommend(context.Background(), 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, popularity.limit)
	})

	t.Run("oversized limit clamps to maximum", func(t *testing.T) {
		popularity := &mockPopularity{}
		service := NewRecommendationService(&mockAffinity{}, popularity, &mockRecommendationCatalog{}, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

		_, err := service.Recommend(context.Background(), 1, 500)
		require.NoError(t, err)
		assert.Equal(t, 50, popularity.limit)
	})
}

func TestRecommendPartialFailureFailsTheWholeCall(t *testing.T) {
	affinity := &mockAffinity{profile: profileFor([]int64{1}, []int64{100})}
	history := &mockAccessHistory{accessed: map[int64][]models.AccessedEvent{
		7: {{EventID: 10, ProviderID: 100}},
	}}
	catalog := &mockRecommendationCatalog{candidates: []models.Event{{ID: 20}}}
	popularity := &mockPopularity{err: errors.New("connection refused")}
	service := NewRecommendationService(affinity, popularity, catalog, history, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	events, err := service.Recommend(context.Background(), 7, 3)
	require.Error(t, err)
	assert.Nil(t, events)
	assert.True(t, appErrors.Is(err, appErrors.ErrStoreUnavailable))
}

func TestRecommendCandidateTimeout(t *testing.T) {
	affinity := &mockAffinity{profile: profileFor([]int64{1}, []int64{100})}
	catalog := &mockRecommendationCatalog{candidatesErr: context.DeadlineExceeded}
	service := NewRecommendationService(affinity, &mockPopularity{}, catalog, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	_, err := service.Recommend(context.Background(), 7, 3)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStoreTimeout))
}

func TestSimilarUnknownEvent(t *testing.T) {
	catalog := &mockRecommendationCatalog{exists: false}
	service := NewRecommendationService(&mockAffinity{}, &mockPopularity{}, catalog, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	_, err := service.Similar(context.Background(), 99, 5)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestSimilarEventWithoutCategories(t *testing.T) {
	catalog := &mockRecommendationCatalog{exists: true, categories: nil}
	service := NewRecommendationService(&mockAffinity{}, &mockPopularity{}, catalog, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	events, err := service.Similar(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSimilarReturnsMatches(t *testing.T) {
	catalog := &mockRecommendationCatalog{
		exists:     true,
		categories: []models.Category{{ID: 1}, {ID: 2}},
		similar:    []models.Event{{ID: 8}, {ID: 12}},
	}
	service := NewRecommendationService(&mockAffinity{}, &mockPopularity{}, catalog, &mockAccessHistory{}, disabledCache(), nil, zap.NewNop(), recommendationConfig())

	events, err := service.Similar(context.Background(), 7, 5)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(8), events[0].ID)
}
