// Package main provides the deckctl CLI for driving a tunedeck server.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/osa030/tunedeck/internal/app/player"
)

var (
	app    = kingpin.New("deckctl", "tunedeck queue control client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()

	statusCmd = app.Command("status", "Show the current player state")

	nextCmd = app.Command("next", "Play the next queued song")
	prevCmd = app.Command("prev", "Go back to the previously played song")

	playCmd = app.Command("play", "Play a queued song immediately")
	playID  = playCmd.Arg("id", "Song ID").Required().Int()

	removeCmd = app.Command("remove", "Remove a song from the queue")
	removeID  = removeCmd.Arg("id", "Song ID").Required().Int()

	genresCmd = app.Command("genres", "List genres and the active filter")

	toggleCmd   = app.Command("toggle", "Toggle a genre filter")
	toggleGenre = toggleCmd.Arg("genre", "Genre name").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	base := strings.TrimRight(*server, "/")

	switch command {
	case statusCmd.FullCommand():
		printState(call(http.MethodGet, base+"/api/v1/state"))
	case nextCmd.FullCommand():
		printState(call(http.MethodPost, base+"/api/v1/playback/next"))
	case prevCmd.FullCommand():
		printState(call(http.MethodPost, base+"/api/v1/playback/previous"))
	case playCmd.FullCommand():
		printState(call(http.MethodPost, base+"/api/v1/queue/"+strconv.Itoa(*playID)+"/play"))
	case removeCmd.FullCommand():
		printState(call(http.MethodDelete, base+"/api/v1/queue/"+strconv.Itoa(*removeID)))
	case genresCmd.FullCommand():
		printGenres(call(http.MethodGet, base+"/api/v1/genres"))
	case toggleCmd.FullCommand():
		printState(call(http.MethodPost, base+"/api/v1/genres/"+*toggleGenre+"/toggle"))
	}
}

// call performs the request and returns the decoded body.
// Non-2xx responses with a code are reported and exit the process.
func call(method, url string) []byte {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		fail("invalid request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fail("request failed: %v", err)
	}
	defer resp.Body.Close()

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		fail("invalid response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(buf, &e) == nil && e.Code != "" {
			fail("rejected [%s]: %s", e.Code, e.Message)
		}
		fail("server returned status %d", resp.StatusCode)
	}

	return buf
}

func printState(body []byte) {
	var state player.Snapshot
	if err := json.Unmarshal(body, &state); err != nil {
		fail("invalid state response: %v", err)
	}

	if state.Current != nil {
		fmt.Printf("Now playing: %s - %s [%s]\n", state.Current.Artist, state.Current.Title, state.Current.Genre)
	} else {
		fmt.Println("Now playing: (nothing)")
	}

	if len(state.SelectedGenres) > 0 {
		fmt.Printf("Filter: %s\n", strings.Join(state.SelectedGenres, ", "))
	}

	fmt.Printf("Up next (%d):\n", len(state.Queue))
	for i, s := range state.Queue {
		fmt.Printf("  %2d. [%d] %s - %s\n", i+1, s.ID, s.Artist, s.Title)
	}

	if len(state.History) > 0 {
		fmt.Printf("Recently played (%d):\n", len(state.History))
		for i, s := range state.History {
			fmt.Printf("  %2d. [%d] %s - %s\n", i+1, s.ID, s.Artist, s.Title)
		}
	}
}

func printGenres(body []byte) {
	var genres struct {
		Genres   []string `json:"genres"`
		Selected []string `json:"selected"`
	}
	if err := json.Unmarshal(body, &genres); err != nil {
		fail("invalid genres response: %v", err)
	}

	selected := make(map[string]bool, len(genres.Selected))
	for _, g := range genres.Selected {
		selected[g] = true
	}

	for _, g := range genres.Genres {
		marker := " "
		if selected[g] {
			marker = "*"
		}
		fmt.Printf("  [%s] %s\n", marker, g)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
