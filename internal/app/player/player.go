// Package player provides the state-owning playback object: the current
// track, the upcoming queue, the play history and the genre filter,
// with queue replenishment after every shrinking transition.
package player

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/queue"
	"github.com/osa030/tunedeck/internal/domain/song"
)

// Errors
var (
	ErrQueueEmpty = errors.New("queue is empty")
	ErrNoHistory  = errors.New("history is empty")
)

// Config holds player configuration.
type Config struct {
	TargetLength int // Queue length replenishment aims for
	HistoryLimit int // Maximum number of history entries kept
}

// Player owns the mutable queue state. All transitions are serialized
// by an internal mutex; reads return copies.
type Player struct {
	mu sync.RWMutex

	id      string
	catalog song.Catalog
	genres  []string
	engine  *queue.Engine

	current  *song.Song
	queue    []song.Song
	history  []song.Song // most recent first
	selected map[string]bool

	config Config

	eventCh chan Event
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a player over the given catalog.
func New(catalog song.Catalog, engine *queue.Engine, config Config) *Player {
	if config.TargetLength <= 0 {
		config.TargetLength = queue.DefaultTargetLength
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = queue.DefaultTargetLength
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		id:       uuid.New().String(),
		catalog:  catalog,
		genres:   catalog.Genres(),
		engine:   engine,
		queue:    make([]song.Song, 0),
		history:  make([]song.Song, 0),
		selected: make(map[string]bool),
		config:   config,
		eventCh:  make(chan Event, 16),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID returns the player session ID.
func (p *Player) ID() string {
	return p.id
}

// Events returns the event channel.
func (p *Player) Events() <-chan Event {
	return p.eventCh
}

// Start performs the initial fill: replenishes the queue from the
// catalog and advances onto the first track.
func (p *Player) Start() error {
	p.mu.Lock()
	p.refillLocked()
	p.mu.Unlock()

	return p.Advance()
}

// Advance moves to the next queued track. The playing track is pushed
// onto the history; the queue is replenished afterwards.
func (p *Player) Advance() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return ErrQueueEmpty
	}

	next := p.queue[0]
	p.queue = p.queue[1:]

	if p.current != nil {
		p.pushHistoryLocked(*p.current)
	}
	p.current = &next

	zlog.Debug().Msgf("player: advanced: track=%s queue_len=%d", next.Title, len(p.queue))

	p.refillLocked()
	p.sendEventLocked(Event{Type: EventTrackChanged, Current: p.current, QueueLen: len(p.queue)})
	return nil
}

// Previous moves back to the most recently played track. The playing
// track returns to the front of the queue.
func (p *Player) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.history) == 0 {
		return ErrNoHistory
	}

	if p.current != nil {
		p.queue = append([]song.Song{*p.current}, p.queue...)
	}

	prev := p.history[0]
	p.history = p.history[1:]
	p.current = &prev

	zlog.Debug().Msgf("player: went back: track=%s history_len=%d", prev.Title, len(p.history))

	p.sendEventLocked(Event{Type: EventTrackChanged, Current: p.current, QueueLen: len(p.queue)})
	return nil
}

// PlayFromQueue plays the identified queued track immediately, wherever
// it sits in the queue. Unknown IDs are a silent no-op.
func (p *Player) PlayFromQueue(id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := -1
	for i, s := range p.queue {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	next := p.queue[idx]
	p.queue = append(p.queue[:idx], p.queue[idx+1:]...)

	if p.current != nil {
		p.pushHistoryLocked(*p.current)
	}
	p.current = &next

	zlog.Debug().Msgf("player: jumped to queued track: track=%s", next.Title)

	p.refillLocked()
	p.sendEventLocked(Event{Type: EventTrackChanged, Current: p.current, QueueLen: len(p.queue)})
	return nil
}

// RemoveFromQueue removes the identified track from the queue. Unknown
// IDs are a silent no-op. Current track and history are untouched.
func (p *Player) RemoveFromQueue(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := -1
	for i, s := range p.queue {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	removed := p.queue[idx]
	p.queue = append(p.queue[:idx], p.queue[idx+1:]...)

	zlog.Debug().Msgf("player: removed from queue: track=%s queue_len=%d", removed.Title, len(p.queue))

	p.refillLocked()
	p.sendEventLocked(Event{Type: EventQueueChanged, Current: p.current, QueueLen: len(p.queue)})
}

// ToggleGenre flips the genre's membership in the filter set and
// rebuilds the queue from empty under the updated filter. Previously
// queued songs are discarded, including ones matching the new filter.
func (p *Player) ToggleGenre(genre string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selected[genre] {
		delete(p.selected, genre)
	} else {
		p.selected[genre] = true
	}

	p.queue = p.engine.RebuildOnGenreChange(p.catalog, p.history, p.current, p.selected, p.config.TargetLength)

	zlog.Debug().Msgf("player: toggled genre: genre=%s selected=%d queue_len=%d", genre, len(p.selected), len(p.queue))

	p.sendEventLocked(Event{Type: EventFilterChanged, Current: p.current, QueueLen: len(p.queue)})
}

// Genres returns the catalog's genre values, sorted ascending.
func (p *Player) Genres() []string {
	genres := make([]string, len(p.genres))
	copy(genres, p.genres)
	return genres
}

// SelectedGenres returns the active filter set, sorted ascending.
func (p *Player) SelectedGenres() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selectedLocked()
}

func (p *Player) selectedLocked() []string {
	selected := make([]string, 0, len(p.selected))
	for g := range p.selected {
		selected = append(selected, g)
	}
	sort.Strings(selected)
	return selected
}

// Current returns the playing track.
func (p *Player) Current() (song.Song, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return song.Song{}, false
	}
	return *p.current, true
}

// Queue returns a copy of the upcoming queue.
func (p *Player) Queue() []song.Song {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]song.Song, len(p.queue))
	copy(result, p.queue)
	return result
}

// History returns a copy of the play history, most recent first.
func (p *Player) History() []song.Song {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]song.Song, len(p.history))
	copy(result, p.history)
	return result
}

// Snapshot is a consistent copy of the full player state.
type Snapshot struct {
	ID             string      `json:"id"`
	Current        *song.Song  `json:"current"`
	Queue          []song.Song `json:"queue"`
	History        []song.Song `json:"history"`
	Genres         []string    `json:"genres"`
	SelectedGenres []string    `json:"selected_genres"`
}

// State returns a snapshot taken under a single lock acquisition.
func (p *Player) State() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{
		ID:             p.id,
		Queue:          make([]song.Song, len(p.queue)),
		History:        make([]song.Song, len(p.history)),
		Genres:         p.Genres(),
		SelectedGenres: p.selectedLocked(),
	}
	copy(snap.Queue, p.queue)
	copy(snap.History, p.history)
	if p.current != nil {
		current := *p.current
		snap.Current = &current
	}
	return snap
}

// Close releases the event channel.
func (p *Player) Close() {
	p.cancel()
	close(p.eventCh)
}

// pushHistoryLocked prepends a song to the history and truncates it to
// the configured limit. Must be called with lock held.
func (p *Player) pushHistoryLocked(s song.Song) {
	p.history = append([]song.Song{s}, p.history...)
	if len(p.history) > p.config.HistoryLimit {
		p.history = p.history[:p.config.HistoryLimit]
	}
}

// refillLocked tops the queue back up to target length.
// Must be called with lock held.
func (p *Player) refillLocked() {
	p.queue = p.engine.Refill(p.catalog, p.queue, p.history, p.current, p.selected, p.config.TargetLength)
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (p *Player) sendEventLocked(e Event) {
	select {
	case p.eventCh <- e:
	case <-p.ctx.Done():
	default:
		// Channel full, drop event
	}
}
