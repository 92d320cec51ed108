package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/internal/query"
	"github.com/dodwmd/mediahost/pkg/config"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

type catalogSearcher interface {
	Search(ctx context.Context, pred query.Predicate, sortColumn, direction string, limit, offset int) ([]models.EventSummary, error)
	Count(ctx context.Context, pred query.Predicate) (int, error)
}

// SearchRequest holds the caller's filter/sort/page parameters. Zero values
// mean "parameter omitted"; explicitly negative paging values are rejected.
type SearchRequest struct {
	Query       string     `json:"query"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MinPrice    *float64   `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice    *float64   `json:"max_price" validate:"omitempty,gte=0"`
	CategoryIDs []int64    `json:"category_ids" validate:"omitempty,dive,gt=0"`
	TagIDs      []int64    `json:"tag_ids" validate:"omitempty,dive,gt=0"`
	Provider    string     `json:"provider"`
	SortBy      string     `json:"sort_by"`
	SortOrder   string     `json:"sort_order"`
	Page        int        `json:"page"`
	PerPage     int        `json:"per_page"`
}

// SearchService answers catalog searches: one predicate drives both the
// page query and the total count, so the two always agree. Counts are
// stable within a single Search call; two separate calls may observe
// different catalogs if events were published or unpublished in between.
type SearchService struct {
	repo      catalogSearcher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.SearchConfig
}

// NewSearchService constructs the search service.
func NewSearchService(repo catalogSearcher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg config.SearchConfig) *SearchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinPageSize <= 0 {
		cfg.MinPageSize = 5
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 50
	}
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = 10
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	return &SearchService{repo: repo, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// Search returns one page of matching events plus pagination metadata. The
// returned flag reports whether the requested sort was substituted with the
// default because it fell outside the whitelist.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]models.EventSummary, *models.Pagination, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid search filter")
	}

	if req.PerPage == 0 {
		req.PerPage = s.cfg.DefaultSize
	}
	limit, offset, err := query.NormalizePage(models.PageRequest{Page: req.Page, PerPage: req.PerPage}, s.cfg.MinPageSize, s.cfg.MaxPageSize)
	if err != nil {
		return nil, nil, false, err
	}

	column, direction, substituted := query.NormalizeSort(models.SortSpec{Field: req.SortBy, Order: req.SortOrder})
	if substituted {
		s.logger.Warn("sort specification substituted with default",
			zap.String("sort_by", req.SortBy),
			zap.String("sort_order", req.SortOrder))
		s.metrics.RecordSortSubstitution()
	}

	pred := query.Build(models.SearchFilter{
		Query:       req.Query,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		CategoryIDs: req.CategoryIDs,
		TagIDs:      req.TagIDs,
		Provider:    req.Provider,
	})

	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	start := time.Now()
	items, err := s.repo.Search(ctx, pred, column, direction, limit, offset)
	if err != nil {
		return nil, nil, false, storeError(err, "catalog search failed")
	}
	s.metrics.ObserveStoreQuery("search_events", time.Since(start))

	start = time.Now()
	total, err := s.repo.Count(ctx, pred)
	if err != nil {
		return nil, nil, false, storeError(err, "catalog count failed")
	}
	s.metrics.ObserveStoreQuery("count_events", time.Since(start))

	page := req.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: limit, TotalCount: total}
	return items, pagination, substituted, nil
}
