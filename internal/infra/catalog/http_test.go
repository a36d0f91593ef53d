package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/infra/config"
)

func TestHTTPSource_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		response := `[
			{"id": 1, "title": "One", "artist": "A", "album": "X", "genre": "rock", "cover_image": "http://img/1.jpg"},
			{"id": 2, "title": "Two", "artist": "B", "album": "Y", "genre": "jazz", "cover_image": "http://img/2.jpg"}
		]`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer server.Close()

	source, err := NewHTTPSource(map[string]any{"url": server.URL})
	require.NoError(t, err)

	catalog, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog, 2)
	assert.Equal(t, "One", catalog[0].Title)
	assert.Equal(t, "jazz", catalog[1].Genre)
	assert.Equal(t, []string{"jazz", "rock"}, catalog.Genres())
}

func TestHTTPSource_Load_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	source, err := NewHTTPSource(map[string]any{"url": server.URL})
	require.NoError(t, err)

	_, err = source.Load(context.Background())
	assert.ErrorContains(t, err, "status 500")
}

func TestHTTPSource_Load_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "an array"}`)
	}))
	defer server.Close()

	source, err := NewHTTPSource(map[string]any{"url": server.URL})
	require.NoError(t, err)

	_, err = source.Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource_Load_DuplicateIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 1, "title": "One"}, {"id": 1, "title": "Also One"}]`)
	}))
	defer server.Close()

	source, err := NewHTTPSource(map[string]any{"url": server.URL})
	require.NoError(t, err)

	_, err = source.Load(context.Background())
	assert.ErrorContains(t, err, "duplicate song id")
}

func TestNewHTTPSource_RequiresURL(t *testing.T) {
	_, err := NewHTTPSource(map[string]any{})
	assert.Error(t, err)
}

func TestNewSourceFromConfig_UnknownType(t *testing.T) {
	_, err := NewSourceFromConfig(config.CatalogConfig{Type: "ftp"})
	assert.Error(t, err)
}
