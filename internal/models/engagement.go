package models

import "time"

// AccessGrant records that a user purchased/unlocked an event.
type AccessGrant struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	EventID   int64     `db:"event_id" json:"event_id"`
	GrantedAt time.Time `db:"granted_at" json:"granted_at"`
}

// AccessedEvent is a distinct event a user holds a grant for, with the
// provider attached so affinity scoring needs no second lookup.
type AccessedEvent struct {
	EventID    int64 `db:"event_id"`
	ProviderID int64 `db:"content_provider_id"`
}

// RatingSummary aggregates ratings for a single event.
type RatingSummary struct {
	Avg   float64 `db:"avg_rating" json:"avg_rating"`
	Count int     `db:"rating_count" json:"rating_count"`
}

// EventEngagement is the read-side engagement snapshot for one event:
// how many distinct users hold a grant, how often it was viewed, and
// how it is rated.
type EventEngagement struct {
	EventID     int64   `json:"event_id"`
	AccessCount int     `json:"access_count"`
	ViewCount   int     `json:"view_count"`
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`
}
