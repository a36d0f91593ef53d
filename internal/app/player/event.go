package player

import "github.com/osa030/tunedeck/internal/domain/song"

// EventType represents a player event type.
type EventType int

const (
	EventTrackChanged  EventType = iota // Current track changed (advance/previous/play-from-queue)
	EventQueueChanged                   // Queue contents changed (refill/remove/rebuild)
	EventFilterChanged                  // Genre filter set changed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackChanged:
		return "track_changed"
	case EventQueueChanged:
		return "queue_changed"
	case EventFilterChanged:
		return "filter_changed"
	default:
		return "unknown"
	}
}

// Event represents a player state transition.
type Event struct {
	Type     EventType
	Current  *song.Song // Track playing after the transition (nil when idle)
	QueueLen int
}
