package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Archives(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/pub/player/alice/games/archives" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprintf(w, `{"archives":["%s/pub/player/alice/games/2024/01"]}`, r.Host)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	archives, err := c.Archives(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("Archives() error = %v", err)
	}
	if len(archives) != 1 {
		t.Fatalf("len(archives) = %d, want 1", len(archives))
	}
	if gotUA == "" {
		t.Error("request sent without a User-Agent header")
	}
}

func TestClient_RecentGames(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour).Unix()
	old := time.Now().AddDate(0, -8, 0).Unix()

	mux := http.NewServeMux()
	var base string
	mux.HandleFunc("/pub/player/alice/games/archives", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"archives":["%s/games/old","%s/games/new"]}`, base, base)
	})
	mux.HandleFunc("/games/new", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"games":[{"pgn":"1. e4 *","end_time":%d}]}`, recent)
	})
	mux.HandleFunc("/games/old", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"games":[{"pgn":"1. d4 *","end_time":%d}]}`, old)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	base = srv.URL

	c := New(WithBaseURL(srv.URL))
	games, err := c.RecentGames(context.Background(), "alice", 6)
	if err != nil {
		t.Fatalf("RecentGames() error = %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("len(games) = %d, want 1 (old month cut off)", len(games))
	}
	if games[0].PGN != "1. e4 *" {
		t.Errorf("games[0].PGN = %q", games[0].PGN)
	}
}

func TestClient_PlayerStats_FiltersSections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"chess_rapid": {"last": {"rating": 1500}},
			"fide": 0,
			"tactics": {"highest": {"rating": 2000}},
			"puzzle_rush": {"best": {"score": 30}}
		}`)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	stats, err := c.PlayerStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("PlayerStats() error = %v", err)
	}

	if _, ok := stats["chess_rapid"]; !ok {
		t.Error("stats missing chess_rapid")
	}
	if _, ok := stats["fide"]; !ok {
		t.Error("stats missing fide")
	}
	for _, dropped := range []string{"tactics", "puzzle_rush"} {
		if _, ok := stats[dropped]; ok {
			t.Errorf("stats carries %q, want it dropped", dropped)
		}
	}

	var rapid struct {
		Last struct {
			Rating int `json:"rating"`
		} `json:"last"`
	}
	if err := json.Unmarshal(stats["chess_rapid"], &rapid); err != nil {
		t.Fatalf("chess_rapid did not round-trip: %v", err)
	}
	if rapid.Last.Rating != 1500 {
		t.Errorf("rating = %d, want 1500", rapid.Last.Rating)
	}
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	if _, err := c.Archives(context.Background(), "nobody"); err == nil {
		t.Error("Archives() error = nil, want HTTP failure")
	}
}
