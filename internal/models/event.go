package models

import "time"

// Event is a published, time-bounded content offering from the catalog.
// This subsystem only ever reads events; mutation lives in the catalog
// management service.
type Event struct {
	ID                 int64     `db:"id" json:"id"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description"`
	StartTime          time.Time `db:"start_time" json:"start_time"`
	EndTime            time.Time `db:"end_time" json:"end_time"`
	Price              float64   `db:"price" json:"price"`
	Published          bool      `db:"is_published" json:"is_published"`
	ContentProviderID  int64     `db:"content_provider_id" json:"content_provider_id"`
}

// EventSummary is an Event enriched with the provider name and aggregate
// rating data, as returned by catalog search.
type EventSummary struct {
	Event
	ContentProviderName string  `db:"content_provider_name" json:"content_provider_name"`
	AvgRating           float64 `db:"avg_rating" json:"avg_rating"`
	RatingCount         int     `db:"rating_count" json:"rating_count"`
}
