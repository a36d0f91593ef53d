package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/domain/song"
	"github.com/osa030/tunedeck/internal/infra/spotify"
)

// SpotifySourceConfig represents Spotify catalog source configuration.
type SpotifySourceConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret" validate:"required"`
	RefreshToken string `yaml:"refresh_token" mapstructure:"refresh_token" validate:"required"`
	PlaylistURL  string `yaml:"playlist_url" mapstructure:"playlist_url" validate:"required"`
	Market       string `yaml:"market" mapstructure:"market" validate:"omitempty,len=2" default:"JP"`
}

// SpotifySource builds the catalog from a Spotify playlist.
type SpotifySource struct {
	config *SpotifySourceConfig
}

// NewSpotifySource creates a Spotify catalog source from a settings map.
func NewSpotifySource(settings map[string]any) (*SpotifySource, error) {
	var cfg SpotifySourceConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return &SpotifySource{config: &cfg}, nil
}

// Name returns the source name.
func (s *SpotifySource) Name() string {
	return "spotify"
}

// Load fetches the playlist tracks and converts them to the catalog.
func (s *SpotifySource) Load(ctx context.Context) (song.Catalog, error) {
	client, err := spotify.New(ctx, spotify.Config{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		RefreshToken: s.config.RefreshToken,
		Market:       s.config.Market,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create spotify client")
	}

	songs, err := client.GetPlaylistSongs(ctx, s.config.PlaylistURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load playlist")
	}

	catalog, err := validateCatalog(songs)
	if err != nil {
		return nil, err
	}

	zlog.Info().Msgf("catalog loaded: source=spotify songs=%d genres=%d", len(catalog), len(catalog.Genres()))
	return catalog, nil
}
