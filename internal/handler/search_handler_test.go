package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/internal/query"
	"github.com/dodwmd/mediahost/internal/service"
	"github.com/dodwmd/mediahost/pkg/config"
)

type fakeCatalog struct {
	items []models.EventSummary
	total int

	lastPred query.Predicate
}

func (f *fakeCatalog) Search(_ context.Context, pred query.Predicate, _, _ string, _, _ int) ([]models.EventSummary, error) {
	f.lastPred = pred
	return f.items, nil
}

func (f *fakeCatalog) Count(_ context.Context, _ query.Predicate) (int, error) {
	return f.total, nil
}

func newSearchHandler(catalog *fakeCatalog) *SearchHandler {
	svc := service.NewSearchService(catalog, nil, nil, zap.NewNop(), config.SearchConfig{
		MinPageSize: 5, MaxPageSize: 50, DefaultSize: 10,
	})
	return NewSearchHandler(svc)
}

func performSearch(handler *SearchHandler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	handler.Search(c)
	return rec
}

func TestSearchHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := &fakeCatalog{
		items: []models.EventSummary{{Event: models.Event{ID: 1, Title: "Jazz Night"}}},
		total: 1,
	}
	handler := newSearchHandler(catalog)

	rec := performSearch(handler, "/events/search?q=jazz&categories=1,2&page=1&per_page=10")

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
	assert.Equal(t, 10, envelope.Pagination.PageSize)

	var items []models.EventSummary
	require.NoError(t, json.Unmarshal(envelope.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Jazz Night", items[0].Title)
}

func TestSearchHandlerReportsSortSubstitution(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSearchHandler(&fakeCatalog{})

	rec := performSearch(handler, "/events/search?sort=created_at")

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["sort_substituted"])
}

func TestSearchHandlerRejectsMalformedParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSearchHandler(&fakeCatalog{})

	cases := []struct {
		name   string
		target string
	}{
		{"bad date", "/events/search?start_date=tomorrow"},
		{"bad price", "/events/search?min_price=cheap"},
		{"bad category list", "/events/search?categories=1,x"},
		{"bad page", "/events/search?page=two"},
		{"negative page", "/events/search?page=-1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := performSearch(handler, tc.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var envelope responseEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, "INVALID_INPUT", envelope.Error.Code)
		})
	}
}

func TestSearchHandlerEmptyResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSearchHandler(&fakeCatalog{})

	rec := performSearch(handler, "/events/search?q=nothing")

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
	require.NotNil(t, envelope.Pagination)
	assert.Zero(t, envelope.Pagination.TotalCount)
}
