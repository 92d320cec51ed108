package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/internal/query"
	"github.com/dodwmd/mediahost/pkg/config"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

type mockCatalogSearcher struct {
	items     []models.EventSummary
	total     int
	searchErr error
	countErr  error

	searchPred query.Predicate
	countPred  query.Predicate
	sortColumn string
	direction  string
	limit      int
	offset     int
}

func (m *mockCatalogSearcher) Search(ctx context.Context, pred query.Predicate, sortColumn, direction string, limit, offset int) ([]models.EventSummary, error) {
	m.searchPred = pred
	m.sortColumn = sortColumn
	m.direction = direction
	m.limit = limit
	m.offset = offset
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.items, nil
}

func (m *mockCatalogSearcher) Count(ctx context.Context, pred query.Predicate) (int, error) {
	m.countPred = pred
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.total, nil
}

func searchConfig() config.SearchConfig {
	return config.SearchConfig{MinPageSize: 5, MaxPageSize: 50, DefaultSize: 10}
}

func TestSearchServicePageAndCountUseOnePredicate(t *testing.T) {
	repo := &mockCatalogSearcher{
		items: []models.EventSummary{{Event: models.Event{ID: 1, Title: "Jazz Night"}}},
		total: 31,
	}
	service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

	items, pagination, substituted, err := service.Search(context.Background(), SearchRequest{
		Query:       "jazz",
		CategoryIDs: []int64{3},
		Page:        2,
		PerPage:     10,
	})
	require.NoError(t, err)
	assert.False(t, substituted)
	require.Len(t, items, 1)

	require.NotNil(t, pagination)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 10, pagination.PageSize)
	assert.Equal(t, 31, pagination.TotalCount)

	assert.Equal(t, repo.searchPred.Clause(), repo.countPred.Clause())
	assert.Equal(t, repo.searchPred.Args(), repo.countPred.Args())
	assert.Equal(t, 10, repo.limit)
	assert.Equal(t, 10, repo.offset)
}

func TestSearchServiceDefaultsAndClamps(t *testing.T) {
	t.Run("omitted per_page uses default size", func(t *testing.T) {
		repo := &mockCatalogSearcher{}
		service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

		_, pagination, _, err := service.Search(context.Background(), SearchRequest{})
		require.NoError(t, err)
		assert.Equal(t, 10, pagination.PageSize)
		assert.Equal(t, 1, pagination.Page)
	})

	t.Run("oversized per_page clamps to maximum", func(t *testing.T) {
		repo := &mockCatalogSearcher{}
		service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

		_, pagination, _, err := service.Search(context.Background(), SearchRequest{PerPage: 500})
		require.NoError(t, err)
		assert.Equal(t, 50, pagination.PageSize)
	})

	t.Run("undersized per_page clamps to minimum", func(t *testing.T) {
		repo := &mockCatalogSearcher{}
		service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

		_, pagination, _, err := service.Search(context.Background(), SearchRequest{PerPage: 1})
		require.NoError(t, err)
		assert.Equal(t, 5, pagination.PageSize)
	})
}

func TestSearchServiceRejectsInvalidInput(t *testing.T) {
	repo := &mockCatalogSearcher{}
	service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

	negative := -1.0
	cases := []struct {
		name string
		req  SearchRequest
	}{
		{"negative page", SearchRequest{Page: -1}},
		{"negative per_page", SearchRequest{PerPage: -5}},
		{"negative min price", SearchRequest{MinPrice: &negative}},
		{"zero category id", SearchRequest{CategoryIDs: []int64{0}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := service.Search(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrInvalidInput))
		})
	}
}

func TestSearchServiceSubstitutesUnknownSort(t *testing.T) {
	repo := &mockCatalogSearcher{}
	service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

	_, _, substituted, err := service.Search(context.Background(), SearchRequest{SortBy: "created_at", SortOrder: "DESC"})
	require.NoError(t, err)
	assert.True(t, substituted)
	assert.Equal(t, "e.start_time", repo.sortColumn)
	assert.Equal(t, "ASC", repo.direction)
}

func TestSearchServiceMapsStoreErrors(t *testing.T) {
	t.Run("generic failure surfaces as store unavailable", func(t *testing.T) {
		repo := &mockCatalogSearcher{searchErr: errors.New("connection refused")}
		service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

		_, _, _, err := service.Search(context.Background(), SearchRequest{})
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrStoreUnavailable))
	})

	t.Run("deadline expiry surfaces as store timeout", func(t *testing.T) {
		repo := &mockCatalogSearcher{searchErr: context.DeadlineExceeded}
		service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

		_, _, _, err := service.Search(context.Background(), SearchRequest{})
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrStoreTimeout))
	})

	t.Run("count failure fails the whole call", func(t *testing.T) {
		repo := &mockCatalogSearcher{countErr: errors.New("connection reset")}
		service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

		items, pagination, _, err := service.Search(context.Background(), SearchRequest{})
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrStoreUnavailable))
		assert.Nil(t, items)
		assert.Nil(t, pagination)
	})
}

func TestSearchServiceEmptyResultIsNotAnError(t *testing.T) {
	repo := &mockCatalogSearcher{items: nil, total: 0}
	service := NewSearchService(repo, nil, validator.New(), zap.NewNop(), searchConfig())

	items, pagination, _, err := service.Search(context.Background(), SearchRequest{Query: "no such thing"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, pagination.TotalCount)
}
