package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/domain/song"
)

// HTTPSourceConfig represents HTTP catalog source configuration.
type HTTPSourceConfig struct {
	URL        string `yaml:"url" mapstructure:"url" validate:"required,url"`
	TimeoutSec int    `yaml:"timeout_sec" mapstructure:"timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// HTTPSource loads the catalog from a URL returning a JSON array of
// song records.
type HTTPSource struct {
	config     *HTTPSourceConfig
	httpClient *http.Client
}

// NewHTTPSource creates an HTTP catalog source from a settings map.
func NewHTTPSource(settings map[string]any) (*HTTPSource, error) {
	var cfg HTTPSourceConfig
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return &HTTPSource{
		config:     &cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
	}, nil
}

// Name returns the source name.
func (s *HTTPSource) Name() string {
	return "http"
}

// Load fetches the song catalog. Non-2xx responses and malformed
// bodies fail the load as a whole.
func (s *HTTPSource) Load(ctx context.Context) (song.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Newf("catalog fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var songs []song.Song
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog response")
	}

	catalog, err := validateCatalog(songs)
	if err != nil {
		return nil, err
	}

	zlog.Info().Msgf("catalog loaded: source=http songs=%d genres=%d", len(catalog), len(catalog.Genres()))
	return catalog, nil
}
