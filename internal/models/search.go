package models

import "time"

// Sortable catalog fields. Anything outside this whitelist falls back to
// SortStartTime ascending.
const (
	SortStartTime   = "start_time"
	SortPrice       = "price"
	SortAvgRating   = "avg_rating"
	SortRatingCount = "rating_count"

	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// SearchFilter captures the caller's catalog filters. Zero values mean
// "clause not applied"; bounds are inclusive.
type SearchFilter struct {
	Query       string
	StartDate   *time.Time
	EndDate     *time.Time
	MinPrice    *float64
	MaxPrice    *float64
	CategoryIDs []int64
	TagIDs      []int64
	Provider    string
}

// SortSpec is the requested ordering of search results.
type SortSpec struct {
	Field string
	Order string
}

// PageRequest is the requested page of search results.
type PageRequest struct {
	Page    int
	PerPage int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// SearchResult is one page of matching events plus the total count over
// the deduplicated matching set.
type SearchResult struct {
	Items []EventSummary
	Total int
}
