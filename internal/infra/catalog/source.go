// Package catalog provides the one-time catalog load from an external
// source. A failed load is terminal: no partial catalog, no retry.
package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/domain/song"
	"github.com/osa030/tunedeck/internal/infra/config"
)

// Source is the interface for catalog sources.
type Source interface {
	// Load retrieves the full song catalog. Called once at startup.
	Load(ctx context.Context) (song.Catalog, error)

	// Name returns the source name (used in config).
	Name() string
}

// NewSourceFromConfig creates a catalog source from configuration.
func NewSourceFromConfig(cfg config.CatalogConfig) (Source, error) {
	zlog.Debug().Msgf("creating catalog source: type=%s", cfg.Type)

	switch cfg.Type {
	case "http":
		return NewHTTPSource(cfg.Settings)
	case "spotify":
		return NewSpotifySource(cfg.Settings)
	default:
		return nil, errors.Newf("unsupported catalog source type: %s", cfg.Type)
	}
}

// validateCatalog checks the loaded songs for catalog invariants:
// IDs must be unique within the catalog.
func validateCatalog(songs []song.Song) (song.Catalog, error) {
	seen := make(map[int]bool, len(songs))
	for _, s := range songs {
		if seen[s.ID] {
			return nil, errors.Newf("duplicate song id in catalog: %d", s.ID)
		}
		seen[s.ID] = true
	}
	return song.Catalog(songs), nil
}
