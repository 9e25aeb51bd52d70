// Package profile aggregates analyzed games into a statistical player
// profile: opening repertoire, outcome buckets with representative samples,
// and style heuristics.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/jphollanti/chessprof"
)

// ErrEmptyDataset indicates a profile build was attempted over zero
// analyzed games. Fractions over an empty collection are not a valid state.
var ErrEmptyDataset = errors.New("profile: no analyzed games to profile")

// Classifier names the opening of a game from its PGN.
// *openings.Database satisfies this.
type Classifier interface {
	Classify(pgn string) string
}

// StatsSource supplies externally maintained account statistics, embedded
// into the profile verbatim.
type StatsSource interface {
	PlayerStats(ctx context.Context, username string) (map[string]json.RawMessage, error)
}

// OpeningCount is one entry of the most-played list.
type OpeningCount struct {
	Opening string `json:"opening"`
	Count   int    `json:"count"`
}

// OpeningRecord tallies outcomes for one opening from the profiled
// player's perspective.
type OpeningRecord struct {
	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Profile is the terminal artifact of the pipeline. It is fully
// regenerated on each build; there is no partial merge.
type Profile struct {
	MostPlayedOpenings []OpeningCount             `json:"most_played_openings"`
	OpeningStats       map[string]*OpeningRecord  `json:"opening_stats"`
	Samples            map[string][]string        `json:"samples"`
	TotalGames         int                        `json:"total_games"`
	Style              map[string]float64         `json:"style"`
	AccountStats       map[string]json.RawMessage `json:"chess_com_stats,omitempty"`
	SelfDescription    string                     `json:"profile_in_own_words,omitempty"`
}

// Write persists the profile artifact, replacing any existing file.
func (p *Profile) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// Builder aggregates analyzed games into a Profile.
type Builder struct {
	username        string
	classifier      Classifier
	source          StatsSource
	selfDescription string
	sampleSize      int
	topOpenings     int
	logger          *zap.Logger
}

// Option configures the Builder.
type Option func(*Builder)

// WithStatsSource sets the account statistics source.
// Without one, the profile carries no account stats.
func WithStatsSource(s StatsSource) Option {
	return func(b *Builder) { b.source = s }
}

// WithSelfDescription sets the free-text self-description passed through
// into the profile.
func WithSelfDescription(text string) Option {
	return func(b *Builder) { b.selfDescription = text }
}

// WithSampleSize sets how many representative games to keep per outcome
// bucket. Default is 5.
func WithSampleSize(n int) Option {
	return func(b *Builder) { b.sampleSize = n }
}

// WithTopOpenings sets how many openings the most-played list keeps.
// Default is 5.
func WithTopOpenings(n int) Option {
	return func(b *Builder) { b.topOpenings = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder for the named player.
func NewBuilder(username string, classifier Classifier, opts ...Option) *Builder {
	b := &Builder{
		username:    username,
		classifier:  classifier,
		sampleSize:  5,
		topOpenings: 5,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces one Profile from the full analyzed-games collection.
// An empty collection fails with ErrEmptyDataset.
func (b *Builder) Build(ctx context.Context, games []chessprof.AnalyzedGame) (*Profile, error) {
	if len(games) == 0 {
		return nil, ErrEmptyDataset
	}

	counts := make(map[string]int)
	records := make(map[string]*OpeningRecord)
	var seen []string

	for i := range games {
		g := &games[i]
		opening := b.classifier.Classify(g.PGN)

		if _, ok := counts[opening]; !ok {
			seen = append(seen, opening)
			records[opening] = &OpeningRecord{}
		}
		counts[opening]++

		rec := records[opening]
		rec.Games++
		switch outcome(g, b.username) {
		case outcomeWin:
			rec.Wins++
		case outcomeLoss:
			rec.Losses++
		}
	}

	profile := &Profile{
		MostPlayedOpenings: mostPlayed(seen, counts, b.topOpenings),
		OpeningStats:       records,
		Samples:            b.samples(games),
		TotalGames:         len(games),
		Style:              styleFractions(games, b.username),
	}

	if b.source != nil {
		accountStats, err := b.source.PlayerStats(ctx, b.username)
		if err != nil {
			return nil, fmt.Errorf("fetching account stats: %w", err)
		}
		profile.AccountStats = accountStats
	}
	profile.SelfDescription = b.selfDescription

	b.logger.Info("profile built",
		zap.String("username", b.username),
		zap.Int("games", profile.TotalGames),
		zap.Int("openings", len(records)),
	)

	return profile, nil
}

// samples partitions games into win/loss/draw from the player's
// perspective and keeps the cleanest games of each bucket: those with the
// fewest own-side dips, ties in original order.
func (b *Builder) samples(games []chessprof.AnalyzedGame) map[string][]string {
	type scored struct {
		pgn  string
		dips int
	}
	buckets := map[string][]scored{"win": {}, "loss": {}, "draw": {}}

	for i := range games {
		g := &games[i]

		var key string
		switch outcome(g, b.username) {
		case outcomeWin:
			key = "win"
		case outcomeLoss:
			key = "loss"
		case outcomeDraw:
			key = "draw"
		default:
			continue
		}

		buckets[key] = append(buckets[key], scored{
			pgn:  g.PGN,
			dips: len(g.OwnDips(b.username)),
		})
	}

	out := make(map[string][]string, len(buckets))
	for key, entries := range buckets {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].dips < entries[j].dips
		})

		n := b.sampleSize
		if n > len(entries) {
			n = len(entries)
		}
		pgns := make([]string, 0, n)
		for _, e := range entries[:n] {
			pgns = append(pgns, e.pgn)
		}
		out[key] = pgns
	}

	return out
}

// mostPlayed ranks openings by count descending, ties in first-seen order.
func mostPlayed(seen []string, counts map[string]int, top int) []OpeningCount {
	ranked := make([]OpeningCount, 0, len(seen))
	for _, opening := range seen {
		ranked = append(ranked, OpeningCount{Opening: opening, Count: counts[opening]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if top < len(ranked) {
		ranked = ranked[:top]
	}
	return ranked
}

type outcomeKind int

const (
	outcomeNone outcomeKind = iota
	outcomeWin
	outcomeLoss
	outcomeDraw
)

// outcome resolves a game result from the profiled player's perspective.
func outcome(g *chessprof.AnalyzedGame, username string) outcomeKind {
	isWhite := g.PlaysWhite(username)
	switch g.Result {
	case chessprof.ResultDraw:
		return outcomeDraw
	case chessprof.ResultWhiteWon:
		if isWhite {
			return outcomeWin
		}
		return outcomeLoss
	case chessprof.ResultBlackWon:
		if isWhite {
			return outcomeLoss
		}
		return outcomeWin
	}
	return outcomeNone
}
