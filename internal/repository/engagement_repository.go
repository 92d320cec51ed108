package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dodwmd/mediahost/internal/models"
)

// EngagementRepository is the read-only engagement store: access grants,
// view events, and ratings.
type EngagementRepository struct {
	db *sqlx.DB
}

// NewEngagementRepository constructs an EngagementRepository.
func NewEngagementRepository(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// AccessedEvents returns the distinct events a user holds a grant for,
// with each event's provider attached.
func (r *EngagementRepository) AccessedEvents(ctx context.Context, userID int64) ([]models.AccessedEvent, error) {
	const q = `SELECT DISTINCT ea.event_id, e.content_provider_id
        FROM event_access ea
        JOIN events e ON e.id = ea.event_id
        WHERE ea.user_id = $1
        ORDER BY ea.event_id ASC`

	var accessed []models.AccessedEvent
	if err := r.db.SelectContext(ctx, &accessed, q, userID); err != nil {
		return nil, fmt.Errorf("accessed events: %w", err)
	}
	return accessed, nil
}

// AccessCounts returns, for each of the given events, how many distinct
// users hold a grant. Events without grants are absent from the map.
func (r *EngagementRepository) AccessCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	if len(eventIDs) == 0 {
		return map[int64]int{}, nil
	}

	const q = `SELECT event_id, COUNT(DISTINCT user_id) AS access_count
        FROM event_access
        WHERE event_id = ANY($1)
        GROUP BY event_id`

	rows := []struct {
		EventID     int64 `db:"event_id"`
		AccessCount int   `db:"access_count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, q, pq.Array(eventIDs)); err != nil {
		return nil, fmt.Errorf("access counts: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.AccessCount
	}
	return counts, nil
}

// ViewCounts returns, for each of the given events, the number of recorded
// view events. Events never viewed are absent from the map.
func (r *EngagementRepository) ViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	if len(eventIDs) == 0 {
		return map[int64]int{}, nil
	}

	const q = `SELECT event_id, COUNT(*) AS view_count
        FROM event_views
        WHERE event_id = ANY($1)
        GROUP BY event_id`

	rows := []struct {
		EventID   int64 `db:"event_id"`
		ViewCount int   `db:"view_count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, q, pq.Array(eventIDs)); err != nil {
		return nil, fmt.Errorf("view counts: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.ViewCount
	}
	return counts, nil
}

// RatingsOf aggregates ratings for a single event. An unrated event yields
// a zero average and zero count, which is a valid result, not an error.
func (r *EngagementRepository) RatingsOf(ctx context.Context, eventID int64) (models.RatingSummary, error) {
	const q = `SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS rating_count
        FROM ratings WHERE event_id = $1`

	var summary models.RatingSummary
	if err := r.db.GetContext(ctx, &summary, q, eventID); err != nil {
		return models.RatingSummary{}, fmt.Errorf("ratings of event: %w", err)
	}
	return summary, nil
}
