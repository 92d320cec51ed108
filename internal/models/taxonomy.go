package models

// Category labels events; many-to-many via event_categories.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Tag labels events; many-to-many via event_tags.
type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Provider identifies a content provider with at least one published event.
type Provider struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}
