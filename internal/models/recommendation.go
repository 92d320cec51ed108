package models

// AffinityEntry is an entity id with the number of accessed events that
// carried it.
type AffinityEntry struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}

// AffinityProfile summarises a user's access history as ranked category
// and provider affinities. An empty profile signals cold-start.
type AffinityProfile struct {
	Categories []AffinityEntry `json:"categories"`
	Providers  []AffinityEntry `json:"providers"`
}

// Empty reports whether the user has no access history at all.
func (p AffinityProfile) Empty() bool {
	return len(p.Categories) == 0 && len(p.Providers) == 0
}

// CategoryIDs returns the ranked category ids.
func (p AffinityProfile) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, entry := range p.Categories {
		ids = append(ids, entry.ID)
	}
	return ids
}

// ProviderIDs returns the ranked provider ids.
func (p AffinityProfile) ProviderIDs() []int64 {
	ids := make([]int64, 0, len(p.Providers))
	for _, entry := range p.Providers {
		ids = append(ids, entry.ID)
	}
	return ids
}
