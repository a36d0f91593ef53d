// Package song provides the Song domain entity and the Catalog value type.
package song

import "sort"

// Song represents a single track from the catalog.
// Created once when the catalog loads; never mutated afterwards.
type Song struct {
	ID         int    `json:"id"`          // Unique within the catalog
	Title      string `json:"title"`       // Track title
	Artist     string `json:"artist"`      // Artist name
	Album      string `json:"album"`       // Album name
	Genre      string `json:"genre"`       // Genre label
	CoverImage string `json:"cover_image"` // Album art URI
}

// Catalog is the ordered, immutable set of songs available for the session.
type Catalog []Song

// Genres returns the distinct genre values in the catalog,
// sorted ascending. Invariant under reordering of the catalog.
func (c Catalog) Genres() []string {
	seen := make(map[string]bool, len(c))
	genres := make([]string, 0)
	for _, s := range c {
		if !seen[s.Genre] {
			seen[s.Genre] = true
			genres = append(genres, s.Genre)
		}
	}
	sort.Strings(genres)
	return genres
}

// ByID returns the song with the given ID.
func (c Catalog) ByID(id int) (Song, bool) {
	for _, s := range c {
		if s.ID == id {
			return s, true
		}
	}
	return Song{}, false
}

// IDs returns all song IDs in catalog order.
func (c Catalog) IDs() []int {
	ids := make([]int, len(c))
	for i, s := range c {
		ids[i] = s.ID
	}
	return ids
}
