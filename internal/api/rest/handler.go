// Package rest provides the HTTP JSON API over the player.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/player"
)

// Handler serves the player state and transitions over HTTP.
type Handler struct {
	player *player.Player
}

// NewHandler creates a new REST handler.
func NewHandler(p *player.Player) *Handler {
	return &Handler{player: p}
}

// Register registers all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/state", h.getState)
	mux.HandleFunc("GET /api/v1/genres", h.getGenres)
	mux.HandleFunc("POST /api/v1/playback/next", h.next)
	mux.HandleFunc("POST /api/v1/playback/previous", h.previous)
	mux.HandleFunc("POST /api/v1/queue/{id}/play", h.playFromQueue)
	mux.HandleFunc("DELETE /api/v1/queue/{id}", h.removeFromQueue)
	mux.HandleFunc("POST /api/v1/genres/{genre}/toggle", h.toggleGenre)
}

// errorResponse is the JSON body for failed transitions.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.player.State())
}

// genresResponse lists the catalog genres and the active filter.
type genresResponse struct {
	Genres   []string `json:"genres"`
	Selected []string `json:"selected"`
}

func (h *Handler) getGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, genresResponse{
		Genres:   h.player.Genres(),
		Selected: h.player.SelectedGenres(),
	})
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Advance(); err != nil {
		if errors.Is(err, player.ErrQueueEmpty) {
			writeJSON(w, http.StatusConflict, errorResponse{Code: "queue_empty", Message: "no upcoming songs"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.player.State())
}

func (h *Handler) previous(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Previous(); err != nil {
		if errors.Is(err, player.ErrNoHistory) {
			writeJSON(w, http.StatusConflict, errorResponse{Code: "history_empty", Message: "no previously played songs"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.player.State())
}

func (h *Handler) playFromQueue(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	// Unknown IDs leave the state untouched; the caller gets the
	// (unchanged) state back rather than an error.
	if err := h.player.PlayFromQueue(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.player.State())
}

func (h *Handler) removeFromQueue(w http.ResponseWriter, r *http.Request) {
	id, ok := songID(w, r)
	if !ok {
		return
	}

	h.player.RemoveFromQueue(id)
	writeJSON(w, http.StatusOK, h.player.State())
}

func (h *Handler) toggleGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.PathValue("genre")
	if genre == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_genre", Message: "genre is required"})
		return
	}

	h.player.ToggleGenre(genre)
	writeJSON(w, http.StatusOK, h.player.State())
}

// songID parses the {id} path segment. Writes a 400 response and
// returns false when it is not an integer.
func songID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "invalid_id", Message: "song id must be an integer"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zlog.Error().Msgf("rest: failed to encode response: %v", err)
	}
}
