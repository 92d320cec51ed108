package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

type engagementStatsReader interface {
	AccessCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error)
	ViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error)
	RatingsOf(ctx context.Context, eventID int64) (models.RatingSummary, error)
}

type eventExistenceReader interface {
	Exists(ctx context.Context, eventID int64) (bool, error)
}

// EngagementService exposes the read-side engagement snapshot for a single
// event: distinct access grants, view count, and aggregate rating.
type EngagementService struct {
	engagement engagementStatsReader
	catalog    eventExistenceReader
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewEngagementService constructs the engagement service.
func NewEngagementService(engagement engagementStatsReader, catalog eventExistenceReader, metrics *MetricsService, logger *zap.Logger) *EngagementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngagementService{engagement: engagement, catalog: catalog, metrics: metrics, logger: logger}
}

// EventEngagement returns the engagement snapshot for one event. An event
// with no grants, views, or ratings yields all-zero counts; only an
// unknown event id is NotFound.
func (s *EngagementService) EventEngagement(ctx context.Context, eventID int64) (*models.EventEngagement, error) {
	exists, err := s.catalog.Exists(ctx, eventID)
	if err != nil {
		return nil, storeError(err, "event lookup failed")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	start := time.Now()
	accessCounts, err := s.engagement.AccessCounts(ctx, []int64{eventID})
	if err != nil {
		return nil, storeError(err, "access count lookup failed")
	}
	viewCounts, err := s.engagement.ViewCounts(ctx, []int64{eventID})
	if err != nil {
		return nil, storeError(err, "view count lookup failed")
	}
	ratings, err := s.engagement.RatingsOf(ctx, eventID)
	if err != nil {
		return nil, storeError(err, "rating lookup failed")
	}
	s.metrics.ObserveStoreQuery("event_engagement", time.Since(start))

	return &models.EventEngagement{
		EventID:     eventID,
		AccessCount: accessCounts[eventID],
		ViewCount:   viewCounts[eventID],
		AvgRating:   ratings.Avg,
		RatingCount: ratings.Count,
	}, nil
}
