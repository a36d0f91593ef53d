// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/tunedeck/internal/domain/song"
)

// Client is a Spotify API client.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// New creates a new Spotify client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistReadPrivate,
		),
	)

	// Token with auto-refresh via the refresh token
	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}
	httpClient := auth.Client(ctx, token)

	market := cfg.Market
	if market == "" {
		market = "JP"
	}

	return &Client{
		client:     spotify.New(httpClient),
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// GetPlaylistSongs retrieves all tracks from a playlist as catalog
// songs. Song IDs are assigned sequentially in playlist order; the
// genre is taken from the track's main artist (first listed genre).
func (c *Client) GetPlaylistSongs(ctx context.Context, playlistURL string) ([]song.Song, error) {
	playlistID := extractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, errors.New("invalid playlist URL")
	}

	var tracks []spotify.FullTrack
	offset := 0
	limit := 100

	for {
		var page *spotify.PlaylistItemPage
		err := c.retry(func() error {
			p, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
				spotify.Limit(limit),
				spotify.Offset(offset),
				spotify.Market(c.market),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get playlist items")
		}

		for _, item := range page.Items {
			// Only process tracks (exclude episodes)
			if item.Track.Track != nil && item.Track.Track.ID != "" {
				tracks = append(tracks, *item.Track.Track)
			}
		}

		if len(page.Items) < limit {
			break
		}
		offset += limit
	}

	genres, err := c.artistGenres(ctx, tracks)
	if err != nil {
		return nil, err
	}

	songs := make([]song.Song, 0, len(tracks))
	for i, t := range tracks {
		songs = append(songs, c.convertSong(i+1, &t, genres))
	}
	return songs, nil
}

// artistGenres fetches genres for the main artists of the given
// tracks. Returns a map keyed by artist ID.
func (c *Client) artistGenres(ctx context.Context, tracks []spotify.FullTrack) (map[string][]string, error) {
	ids := make([]spotify.ID, 0, len(tracks))
	seen := make(map[spotify.ID]bool)
	for _, t := range tracks {
		if len(t.Artists) == 0 {
			continue
		}
		id := t.Artists[0].ID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	genres := make(map[string][]string, len(ids))

	// Spotify allows max 50 artists per request
	for i := 0; i < len(ids); i += 50 {
		end := i + 50
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]

		var artists []*spotify.FullArtist
		err := c.retry(func() error {
			a, err := c.client.GetArtists(ctx, batch...)
			if err != nil {
				return err
			}
			artists = a
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get artists")
		}

		for _, a := range artists {
			if a != nil {
				genres[string(a.ID)] = a.Genres
			}
		}
	}

	return genres, nil
}

// convertSong converts a Spotify FullTrack to a catalog song.
func (c *Client) convertSong(id int, t *spotify.FullTrack, genres map[string][]string) song.Song {
	var artist, genre string
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
		if g := genres[string(t.Artists[0].ID)]; len(g) > 0 {
			genre = g[0]
		}
	}
	if genre == "" {
		genre = "unknown"
	}

	var cover string
	if len(t.Album.Images) > 0 {
		cover = t.Album.Images[0].URL
	}

	return song.Song{
		ID:         id,
		Title:      t.Name,
		Artist:     artist,
		Album:      t.Album.Name,
		Genre:      genre,
		CoverImage: cover,
	}
}

// retry retries an operation with linear backoff.
func (c *Client) retry(fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelay * time.Duration(i+1))
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

// extractPlaylistID extracts the playlist ID from a Spotify playlist URL or URI.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:playlist:PLAYLIST_ID
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	// Handle URL format: https://open.spotify.com/playlist/PLAYLIST_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) >= 2 {
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Assume it's already a playlist ID
	return input
}
