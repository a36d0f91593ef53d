package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/domain/song"
)

// noShuffler keeps the input order, for order-sensitive assertions.
type noShuffler struct{}

func (noShuffler) Shuffle(n int, swap func(i, j int)) {}

func testCatalog() song.Catalog {
	return song.Catalog{
		{ID: 1, Title: "One", Genre: "rock"},
		{ID: 2, Title: "Two", Genre: "rock"},
		{ID: 3, Title: "Three", Genre: "rock"},
		{ID: 4, Title: "Four", Genre: "jazz"},
		{ID: 5, Title: "Five", Genre: "jazz"},
	}
}

func TestEngine_Available_ExcludesUsedSongs(t *testing.T) {
	e := NewEngine(noShuffler{})
	catalog := testCatalog()

	current := catalog[0]
	q := []song.Song{catalog[1]}
	history := []song.Song{catalog[2]}

	available := e.Available(catalog, q, history, &current, nil)

	require.Len(t, available, 2)
	assert.Equal(t, 4, available[0].ID)
	assert.Equal(t, 5, available[1].ID)
}

func TestEngine_Available_GenreFilter(t *testing.T) {
	e := NewEngine(noShuffler{})
	catalog := testCatalog()

	available := e.Available(catalog, nil, nil, nil, map[string]bool{"jazz": true})

	require.Len(t, available, 2)
	for _, s := range available {
		assert.Equal(t, "jazz", s.Genre)
	}
}

func TestEngine_Available_EmptyFilterMeansNoFilter(t *testing.T) {
	e := NewEngine(noShuffler{})
	catalog := testCatalog()

	available := e.Available(catalog, nil, nil, nil, map[string]bool{})

	assert.Len(t, available, len(catalog))
}

func TestEngine_Refill_LengthLaw(t *testing.T) {
	tests := []struct {
		name        string
		queueBefore []int // song IDs already queued
		target      int
		expectedLen int
	}{
		{
			name:        "empty queue fills to available count",
			queueBefore: nil,
			target:      10,
			expectedLen: 5, // catalog has only 5 songs
		},
		{
			name:        "partial queue tops up",
			queueBefore: []int{1, 2},
			target:      4,
			expectedLen: 4,
		},
		{
			name:        "at target is a no-op",
			queueBefore: []int{1, 2, 3},
			target:      3,
			expectedLen: 3,
		},
	}

	catalog := testCatalog()
	e := NewEngine(NewSeededShuffler(42))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := make([]song.Song, 0, len(tt.queueBefore))
			for _, id := range tt.queueBefore {
				s, ok := catalog.ByID(id)
				require.True(t, ok)
				q = append(q, s)
			}

			refilled := e.Refill(catalog, q, nil, nil, nil, tt.target)

			assert.Len(t, refilled, tt.expectedLen)

			// Existing entries keep their position and order.
			for i, id := range tt.queueBefore {
				assert.Equal(t, id, refilled[i].ID)
			}

			// No duplicates.
			seen := make(map[int]bool)
			for _, s := range refilled {
				assert.False(t, seen[s.ID], "duplicate song %d", s.ID)
				seen[s.ID] = true
			}
		})
	}
}

func TestEngine_Refill_AtTargetPreservesIdentity(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(NewSeededShuffler(1))

	q := []song.Song{catalog[0], catalog[1]}
	refilled := e.Refill(catalog, q, nil, nil, nil, 2)

	// Same backing slice, not a copy.
	assert.Same(t, &q[0], &refilled[0])
	assert.Len(t, refilled, 2)
}

func TestEngine_Refill_ExhaustedFilterStaysShort(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(NewSeededShuffler(7))

	// Only jazz selected; one jazz song already played.
	history := []song.Song{catalog[3]}
	refilled := e.Refill(catalog, nil, history, nil, map[string]bool{"jazz": true}, 10)

	require.Len(t, refilled, 1)
	assert.Equal(t, 5, refilled[0].ID)
}

func TestEngine_Refill_NeverAddsUsedSongs(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(NewSeededShuffler(99))

	current := catalog[0]
	history := []song.Song{catalog[1]}
	q := []song.Song{catalog[2]}

	refilled := e.Refill(catalog, q, history, &current, nil, 10)

	for _, s := range refilled[1:] {
		assert.NotEqual(t, current.ID, s.ID)
		assert.NotEqual(t, history[0].ID, s.ID)
	}
	assert.Len(t, refilled, 3) // 1 existing + 2 remaining
}

func TestEngine_RebuildOnGenreChange_DiscardsQueue(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(NewSeededShuffler(3))

	current := catalog[0] // rock
	rebuilt := e.RebuildOnGenreChange(catalog, nil, &current, map[string]bool{"jazz": true}, 10)

	// Only the two jazz songs qualify, regardless of what was queued before.
	require.Len(t, rebuilt, 2)
	for _, s := range rebuilt {
		assert.Equal(t, "jazz", s.Genre)
	}
}

func TestEngine_Refill_ShuffleIsUniformPermutation(t *testing.T) {
	catalog := testCatalog()
	e := NewEngine(NewSeededShuffler(123))

	refilled := e.Refill(catalog, nil, nil, nil, nil, 10)

	require.Len(t, refilled, len(catalog))
	ids := make(map[int]bool)
	for _, s := range refilled {
		ids[s.ID] = true
	}
	for _, s := range catalog {
		assert.True(t, ids[s.ID], "song %d missing after shuffle", s.ID)
	}
}
