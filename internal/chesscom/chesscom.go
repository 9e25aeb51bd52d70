// Package chesscom is a minimal read-only client for the chess.com
// public API: monthly game archives and player statistics.
package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jphollanti/chessprof"
)

// DefaultBaseURL is the public chess.com API root.
const DefaultBaseURL = "https://api.chess.com"

// defaultUserAgent identifies the client. chess.com rejects requests
// without a User-Agent.
const defaultUserAgent = "chessprof/1.0"

// statsFields are the player-statistics sections carried into profiles.
// Everything else the endpoint returns is dropped.
var statsFields = []string{
	"fide",
	"lessons",
	"chess_daily",
	"chess_rapid",
	"chess_blitz",
	"chess_bullet",
	"chess960_daily",
}

// Client talks to the chess.com public API. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a chess.com API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Archives lists the player's monthly archive URLs, oldest first.
func (c *Client) Archives(ctx context.Context, username string) ([]string, error) {
	var payload struct {
		Archives []string `json:"archives"`
	}
	url := fmt.Sprintf("%s/pub/player/%s/games/archives", c.baseURL, strings.ToLower(username))
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("listing archives for %s: %w", username, err)
	}
	return payload.Archives, nil
}

// GamesFromArchive fetches every game in one monthly archive.
func (c *Client) GamesFromArchive(ctx context.Context, archiveURL string) ([]chessprof.RawGame, error) {
	var payload struct {
		Games []chessprof.RawGame `json:"games"`
	}
	if err := c.get(ctx, archiveURL, &payload); err != nil {
		return nil, fmt.Errorf("fetching archive: %w", err)
	}
	return payload.Games, nil
}

// RecentGames fetches the player's games from the last monthsBack months,
// walking monthly archives newest-first and stopping at the cutoff.
func (c *Client) RecentGames(ctx context.Context, username string, monthsBack int) ([]chessprof.RawGame, error) {
	archives, err := c.Archives(ctx, username)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, -monthsBack, 0).Unix()

	var games []chessprof.RawGame
	for i := len(archives) - 1; i >= 0; i-- {
		monthly, err := c.GamesFromArchive(ctx, archives[i])
		if err != nil {
			return nil, err
		}

		kept := 0
		for _, g := range monthly {
			if g.EndTime >= cutoff {
				games = append(games, g)
				kept++
			}
		}
		c.logger.Debug("archive fetched",
			zap.String("url", archives[i]),
			zap.Int("games", len(monthly)),
			zap.Int("kept", kept),
		)

		// Archives are chronological; once a whole month predates the
		// cutoff there is nothing older worth fetching.
		if kept == 0 && len(monthly) > 0 {
			break
		}
	}

	return games, nil
}

// PlayerStats fetches the player's statistics and keeps the rating and
// progress sections the profile embeds. Sections absent from the response
// are omitted.
func (c *Client) PlayerStats(ctx context.Context, username string) (map[string]json.RawMessage, error) {
	var payload map[string]json.RawMessage
	url := fmt.Sprintf("%s/pub/player/%s/stats", c.baseURL, strings.ToLower(username))
	if err := c.get(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("fetching stats for %s: %w", username, err)
	}

	out := make(map[string]json.RawMessage)
	for _, field := range statsFields {
		if raw, ok := payload[field]; ok {
			out[field] = raw
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
