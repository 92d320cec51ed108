package query

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dodwmd/mediahost/internal/models"
	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

// Predicate is a structured WHERE clause over the catalog: SQL fragments
// plus positional args, combined with AND. It is built once per search and
// shared verbatim by the page query and the count query, so the two can
// never disagree about which events match.
//
// Fragments reference the aliases "e" (events) and "u" (users); the
// repository owns the FROM clause that binds them.
type Predicate struct {
	conds []string
	args  []interface{}
}

// Build translates a SearchFilter into a Predicate. Pure function, no I/O.
// Clauses combine with AND; the category and tag groups are ANY-match
// within themselves (membership in at least one requested id). Bounds are
// inclusive and only applied when supplied.
func Build(filter models.SearchFilter) Predicate {
	p := Predicate{}
	p.add("e.is_published = TRUE")

	if q := strings.TrimSpace(filter.Query); q != "" {
		term := "%" + strings.ToLower(q) + "%"
		p.add(fmt.Sprintf("(LOWER(e.title) LIKE $%d OR LOWER(e.description) LIKE $%d)", p.next(), p.next()), term)
	}
	if filter.StartDate != nil {
		p.add(fmt.Sprintf("e.start_time >= $%d", p.next()), *filter.StartDate)
	}
	if filter.EndDate != nil {
		p.add(fmt.Sprintf("e.end_time <= $%d", p.next()), *filter.EndDate)
	}
	if filter.MinPrice != nil {
		p.add(fmt.Sprintf("e.price >= $%d", p.next()), *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		p.add(fmt.Sprintf("e.price <= $%d", p.next()), *filter.MaxPrice)
	}
	if len(filter.CategoryIDs) > 0 {
		p.add(fmt.Sprintf("EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = ANY($%d))", p.next()), pq.Array(filter.CategoryIDs))
	}
	if len(filter.TagIDs) > 0 {
		p.add(fmt.Sprintf("EXISTS (SELECT 1 FROM event_tags et WHERE et.event_id = e.id AND et.tag_id = ANY($%d))", p.next()), pq.Array(filter.TagIDs))
	}
	if provider := strings.TrimSpace(filter.Provider); provider != "" {
		p.add(fmt.Sprintf("LOWER(u.username) LIKE $%d", p.next()), "%"+strings.ToLower(provider)+"%")
	}

	return p
}

// Clause returns the fragments joined with AND.
func (p Predicate) Clause() string {
	return strings.Join(p.conds, " AND ")
}

// Args returns the positional arguments, in placeholder order.
func (p Predicate) Args() []interface{} {
	return p.args
}

// NextArg returns the placeholder index a caller appending further
// conditions or LIMIT/OFFSET args should use.
func (p Predicate) NextArg() int {
	return len(p.args) + 1
}

func (p *Predicate) add(cond string, args ...interface{}) {
	p.conds = append(p.conds, cond)
	p.args = append(p.args, args...)
}

// next returns the placeholder index for the argument about to be added.
// Safe to call twice in one fmt.Sprintf when a single argument backs two
// placeholders — it does not consume anything.
func (p Predicate) next() int {
	return len(p.args) + 1
}

var sortColumns = map[string]string{
	models.SortStartTime:   "e.start_time",
	models.SortPrice:       "e.price",
	models.SortAvgRating:   "avg_rating",
	models.SortRatingCount: "rating_count",
}

// NormalizeSort maps a SortSpec onto a whitelisted SQL column and direction.
// A field outside the whitelist is substituted with the default
// (start_time ascending) rather than rejected; the returned flag tells the
// caller the request was not honored so the substitution stays observable.
func NormalizeSort(spec models.SortSpec) (column string, direction string, substituted bool) {
	column = sortColumns[models.SortStartTime]
	direction = models.SortAsc

	field := strings.ToLower(strings.TrimSpace(spec.Field))
	if field != "" {
		if col, ok := sortColumns[field]; ok {
			column = col
		} else {
			return column, models.SortAsc, true
		}
	}

	switch strings.ToUpper(strings.TrimSpace(spec.Order)) {
	case "", models.SortAsc:
		direction = models.SortAsc
	case models.SortDesc:
		direction = models.SortDesc
	default:
		return sortColumns[models.SortStartTime], models.SortAsc, true
	}

	return column, direction, false
}

// NormalizePage turns a PageRequest into LIMIT/OFFSET values. Negative
// pages and non-positive page sizes are caller errors and rejected rather
// than silently coerced; a zero page means "first page", and a valid size
// is clamped into [minSize, maxSize]. Defaulting an omitted size is the
// transport layer's job, not this one's.
func NormalizePage(req models.PageRequest, minSize, maxSize int) (limit int, offset int, err error) {
	page := req.Page
	if page < 0 {
		return 0, 0, appErrors.Clone(appErrors.ErrInvalidInput, "page must not be negative")
	}
	if page == 0 {
		page = 1
	}

	size := req.PerPage
	if size <= 0 {
		return 0, 0, appErrors.Clone(appErrors.ErrInvalidInput, "per_page must be positive")
	}
	if size < minSize {
		size = minSize
	}
	if size > maxSize {
		size = maxSize
	}

	return size, (page - 1) * size, nil
}
