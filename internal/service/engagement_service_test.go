package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dodwmd/mediahost/internal/models"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

type mockEngagementStats struct {
	access  map[int64]int
	views   map[int64]int
	ratings models.RatingSummary
	err     error
}

func (m *mockEngagementStats) AccessCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.access, nil
}

func (m *mockEngagementStats) ViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.views, nil
}

func (m *mockEngagementStats) RatingsOf(ctx context.Context, eventID int64) (models.RatingSummary, error) {
	if m.err != nil {
		return models.RatingSummary{}, m.err
	}
	return m.ratings, nil
}

type mockEventExistence struct {
	exists bool
	err    error
}

func (m *mockEventExistence) Exists(ctx context.Context, eventID int64) (bool, error) {
	return m.exists, m.err
}

func TestEventEngagementSnapshot(t *testing.T) {
	engagement := &mockEngagementStats{
		access:  map[int64]int{7: 11},
		views:   map[int64]int{7: 250},
		ratings: models.RatingSummary{Avg: 4.2, Count: 9},
	}
	service := NewEngagementService(engagement, &mockEventExistence{exists: true}, nil, zap.NewNop())

	stats, err := service.EventEngagement(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.EventID)
	assert.Equal(t, 11, stats.AccessCount)
	assert.Equal(t, 250, stats.ViewCount)
	assert.Equal(t, 4.2, stats.AvgRating)
	assert.Equal(t, 9, stats.RatingCount)
}

func TestEventEngagementZeroActivityIsValid(t *testing.T) {
	engagement := &mockEngagementStats{access: map[int64]int{}, views: map[int64]int{}}
	service := NewEngagementService(engagement, &mockEventExistence{exists: true}, nil, zap.NewNop())

	stats, err := service.EventEngagement(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, stats.AccessCount)
	assert.Zero(t, stats.ViewCount)
	assert.Zero(t, stats.RatingCount)
}

func TestEventEngagementUnknownEvent(t *testing.T) {
	service := NewEngagementService(&mockEngagementStats{}, &mockEventExistence{exists: false}, nil, zap.NewNop())

	_, err := service.EventEngagement(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestEventEngagementStoreFailure(t *testing.T) {
	engagement := &mockEngagementStats{err: errors.New("connection refused")}
	service := NewEngagementService(engagement, &mockEventExistence{exists: true}, nil, zap.NewNop())

	_, err := service.EventEngagement(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStoreUnavailable))
}
