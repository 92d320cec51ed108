package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dodwmd/mediahost/internal/models"
	"github.com/dodwmd/mediahost/internal/query"
)

// EventRepository is the read-only catalog store: events, their category and
// tag associations, and provider identities.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventSummaryColumns = `e.id, e.title, e.description, e.start_time, e.end_time, e.price, e.is_published, e.content_provider_id,
        u.username AS content_provider_name,
        COALESCE(AVG(rt.rating), 0) AS avg_rating,
        COUNT(DISTINCT rt.id) AS rating_count`

const eventColumns = `e.id, e.title, e.description, e.start_time, e.end_time, e.price, e.is_published, e.content_provider_id`

// Search returns one page of events matching the predicate, enriched with
// the provider name and aggregate ratings. The sort column and direction
// must come from query.NormalizeSort; event id ascending is always appended
// so paging is deterministic when the primary key repeats.
func (r *EventRepository) Search(ctx context.Context, pred query.Predicate, sortColumn, direction string, limit, offset int) ([]models.EventSummary, error) {
	q := fmt.Sprintf(`SELECT %s
        FROM events e
        JOIN users u ON u.id = e.content_provider_id
        LEFT JOIN ratings rt ON rt.event_id = e.id
        WHERE %s
        GROUP BY e.id, u.username
        ORDER BY %s %s, e.id ASC
        LIMIT %d OFFSET %d`, eventSummaryColumns, pred.Clause(), sortColumn, direction, limit, offset)

	var items []models.EventSummary
	if err := r.db.SelectContext(ctx, &items, q, pred.Args()...); err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return items, nil
}

// Count returns the number of distinct events matching the predicate. It
// takes the exact predicate the page query ran with, so the total can never
// drift from the page contents.
func (r *EventRepository) Count(ctx context.Context, pred query.Predicate) (int, error) {
	q := fmt.Sprintf("SELECT COUNT(DISTINCT e.id) FROM events e JOIN users u ON u.id = e.content_provider_id WHERE %s", pred.Clause())

	var total int
	if err := r.db.GetContext(ctx, &total, q, pred.Args()...); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

// Exists reports whether an event with the given id is present.
func (r *EventRepository) Exists(ctx context.Context, eventID int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1 FROM events WHERE id = $1 LIMIT 1", eventID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check event: %w", err)
	}
	return true, nil
}

// CategoriesOf returns the categories associated with an event.
func (r *EventRepository) CategoriesOf(ctx context.Context, eventID int64) ([]models.Category, error) {
	const q = `SELECT c.id, c.name FROM categories c
        JOIN event_categories ec ON ec.category_id = c.id
        WHERE ec.event_id = $1 ORDER BY c.id ASC`

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, q, eventID); err != nil {
		return nil, fmt.Errorf("categories of event: %w", err)
	}
	return categories, nil
}

// TagsOf returns the tags associated with an event.
func (r *EventRepository) TagsOf(ctx context.Context, eventID int64) ([]models.Tag, error) {
	const q = `SELECT t.id, t.name FROM tags t
        JOIN event_tags et ON et.tag_id = t.id
        WHERE et.event_id = $1 ORDER BY t.id ASC`

	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, q, eventID); err != nil {
		return nil, fmt.Errorf("tags of event: %w", err)
	}
	return tags, nil
}

// ProviderName resolves a content provider id to its display name.
func (r *EventRepository) ProviderName(ctx context.Context, providerID int64) (string, error) {
	var name string
	if err := r.db.GetContext(ctx, &name, "SELECT username FROM users WHERE id = $1", providerID); err != nil {
		return "", fmt.Errorf("provider name: %w", err)
	}
	return name, nil
}

// Candidates returns published events carrying at least one of the given
// categories AND one of the given providers, excluding the listed ids.
// Ordered by id ascending so repeated calls agree.
func (r *EventRepository) Candidates(ctx context.Context, categoryIDs, providerIDs, exclude []int64, limit int) ([]models.Event, error) {
	q := fmt.Sprintf(`SELECT %s FROM events e
        WHERE e.is_published = TRUE
        AND EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = ANY($1))
        AND e.content_provider_id = ANY($2)
        AND NOT (e.id = ANY($3))
        ORDER BY e.id ASC
        LIMIT %d`, eventColumns, limit)

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, q, pq.Array(categoryIDs), pq.Array(providerIDs), pq.Array(exclude)); err != nil {
		return nil, fmt.Errorf("candidate events: %w", err)
	}
	return events, nil
}

// Popular ranks published events by distinct access-grant count descending,
// ties broken by id ascending. Events without any grant still rank (with a
// zero count) so backfill can always reach every eligible published event.
func (r *EventRepository) Popular(ctx context.Context, limit int, exclude []int64) ([]models.Event, error) {
	q := fmt.Sprintf(`SELECT %s FROM events e
        LEFT JOIN event_access ea ON ea.event_id = e.id
        WHERE e.is_published = TRUE
        AND NOT (e.id = ANY($1))
        GROUP BY e.id
        ORDER BY COUNT(DISTINCT ea.user_id) DESC, e.id ASC
        LIMIT %d`, eventColumns, limit)

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, q, pq.Array(exclude)); err != nil {
		return nil, fmt.Errorf("popular events: %w", err)
	}
	return events, nil
}

// SimilarEvents returns published events sharing at least one of the given
// categories, excluding the source event, ordered by id ascending.
func (r *EventRepository) SimilarEvents(ctx context.Context, eventID int64, categoryIDs []int64, limit int) ([]models.Event, error) {
	q := fmt.Sprintf(`SELECT %s FROM events e
        WHERE e.is_published = TRUE
        AND e.id <> $1
        AND EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = ANY($2))
        ORDER BY e.id ASC
        LIMIT %d`, eventColumns, limit)

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, q, eventID, pq.Array(categoryIDs)); err != nil {
		return nil, fmt.Errorf("similar events: %w", err)
	}
	return events, nil
}

// ListCategories returns every category.
func (r *EventRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, "SELECT id, name FROM categories ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListTags returns every tag.
func (r *EventRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, "SELECT id, name FROM tags ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ListProviders returns providers with at least one published event.
func (r *EventRepository) ListProviders(ctx context.Context) ([]models.Provider, error) {
	const q = `SELECT DISTINCT u.id, u.username FROM users u
        JOIN events e ON e.content_provider_id = u.id
        WHERE e.is_published = TRUE
        ORDER BY u.username ASC`

	var providers []models.Provider
	if err := r.db.SelectContext(ctx, &providers, q); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}
