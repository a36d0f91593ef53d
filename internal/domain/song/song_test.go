package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_Genres(t *testing.T) {
	tests := []struct {
		name     string
		catalog  Catalog
		expected []string
	}{
		{
			name: "distinct sorted genres",
			catalog: Catalog{
				{ID: 1, Genre: "rock"},
				{ID: 2, Genre: "jazz"},
				{ID: 3, Genre: "rock"},
				{ID: 4, Genre: "ambient"},
			},
			expected: []string{"ambient", "jazz", "rock"},
		},
		{
			name:     "empty catalog",
			catalog:  Catalog{},
			expected: []string{},
		},
		{
			name: "single genre",
			catalog: Catalog{
				{ID: 1, Genre: "pop"},
				{ID: 2, Genre: "pop"},
			},
			expected: []string{"pop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.catalog.Genres())
		})
	}
}

func TestCatalog_Genres_OrderInvariant(t *testing.T) {
	a := Catalog{
		{ID: 1, Genre: "rock"},
		{ID: 2, Genre: "jazz"},
		{ID: 3, Genre: "blues"},
	}
	b := Catalog{a[2], a[0], a[1]}

	assert.Equal(t, a.Genres(), b.Genres())
}

func TestCatalog_ByID(t *testing.T) {
	catalog := Catalog{
		{ID: 1, Title: "First"},
		{ID: 2, Title: "Second"},
	}

	s, ok := catalog.ByID(2)
	assert.True(t, ok)
	assert.Equal(t, "Second", s.Title)

	_, ok = catalog.ByID(99)
	assert.False(t, ok)
}
