package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

type popularEventsReader interface {
	Popular(ctx context.Context, limit int, exclude []int64) ([]models.Event, error)
}

// PopularityService ranks published events by how many distinct users hold
// an access grant. It is both the cold-start recommendation path and the
// backfill source when affinity candidates run short.
type PopularityService struct {
	catalog popularEventsReader
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPopularityService constructs the popularity ranker.
func NewPopularityService(catalog popularEventsReader, metrics *MetricsService, logger *zap.Logger) *PopularityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PopularityService{catalog: catalog, metrics: metrics, logger: logger}
}

// Popular returns up to limit published events ordered by distinct access
// count descending, ties broken by ascending event id, skipping any ids in
// exclude. Events nobody accessed yet still qualify, ranked last.
func (s *PopularityService) Popular(ctx context.Context, limit int, exclude []int64) ([]models.Event, error) {
	if limit <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "limit must be positive")
	}

	start := time.Now()
	events, err := s.catalog.Popular(ctx, limit, exclude)
	if err != nil {
		return nil, storeError(err, "popularity ranking failed")
	}
	s.metrics.ObserveStoreQuery("popular_events", time.Since(start))

	return events, nil
}
