// Package queue provides the queue maintenance engine: availability
// filtering, shuffling and replenishment of the upcoming-song queue.
package queue

import (
	"github.com/osa030/tunedeck/internal/domain/song"
)

// DefaultTargetLength is the queue length replenishment aims for.
const DefaultTargetLength = 10

// Engine derives queue contents from the catalog and the current
// playback state. All methods are side-effect free with respect to
// their inputs; randomness comes only from the injected Shuffler.
type Engine struct {
	shuffler Shuffler
}

// NewEngine creates an engine using the given shuffler.
func NewEngine(shuffler Shuffler) *Engine {
	return &Engine{shuffler: shuffler}
}

// Available returns the catalog songs not already used as current,
// queued or played, restricted to the selected genres when the
// filter set is non-empty. Result preserves catalog order.
func (e *Engine) Available(catalog song.Catalog, q []song.Song, history []song.Song, current *song.Song, selected map[string]bool) []song.Song {
	used := make(map[int]bool, len(q)+len(history)+1)
	for _, s := range q {
		used[s.ID] = true
	}
	for _, s := range history {
		used[s.ID] = true
	}
	if current != nil {
		used[current.ID] = true
	}

	available := make([]song.Song, 0, len(catalog))
	for _, s := range catalog {
		if used[s.ID] {
			continue
		}
		if len(selected) > 0 && !selected[s.Genre] {
			continue
		}
		available = append(available, s)
	}
	return available
}

// Refill tops the queue up to target length from shuffled available
// songs. Returns the queue unchanged (same slice) when it is already
// at or over target. The existing entries keep their order and stay
// in front of the appended ones. When fewer songs are available than
// needed the result stays under target; that is not an error.
func (e *Engine) Refill(catalog song.Catalog, q []song.Song, history []song.Song, current *song.Song, selected map[string]bool, target int) []song.Song {
	if target <= 0 {
		target = DefaultTargetLength
	}
	if len(q) >= target {
		return q
	}

	available := e.Available(catalog, q, history, current, selected)
	e.shuffler.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	need := target - len(q)
	if need > len(available) {
		need = len(available)
	}

	refilled := make([]song.Song, 0, len(q)+need)
	refilled = append(refilled, q...)
	refilled = append(refilled, available[:need]...)
	return refilled
}

// RebuildOnGenreChange discards the queue entirely and refills from
// empty. Songs that matched the new filter but were already queued are
// lost; the simple rebuild is the documented behavior of a filter change.
func (e *Engine) RebuildOnGenreChange(catalog song.Catalog, history []song.Song, current *song.Song, selected map[string]bool, target int) []song.Song {
	return e.Refill(catalog, nil, history, current, selected, target)
}
