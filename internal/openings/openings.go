// Package openings classifies games against a preloaded opening database.
//
// The database is an explicit value constructed once at startup from a set
// of partitioned lookup files and shared read-only afterward; there is no
// lazily initialized process-wide table.
package openings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/jphollanti/chessprof/internal/fen"
	"github.com/jphollanti/chessprof/internal/stats"
	"github.com/jphollanti/chessprof/internal/store"
)

// Unknown is returned when no database entry matches any position of a game.
const Unknown = "Unknown"

// Volumes are the default partition names, one per ECO volume.
var Volumes = []string{"a", "b", "c", "d", "e"}

// Entry is one opening line: its ECO code and conventional name.
type Entry struct {
	ECO  string `json:"eco"`
	Name string `json:"name"`
}

// Database maps position fingerprints to opening entries. Safe for
// concurrent use once loaded.
type Database struct {
	entries map[string]Entry
	volumes []string
	stats   stats.Collector
	logger  *zap.Logger
}

// Option configures the Database.
type Option func(*Database)

// WithVolumes overrides the partition names to load.
func WithVolumes(names ...string) Option {
	return func(db *Database) { db.volumes = names }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(db *Database) { db.stats = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(db *Database) { db.logger = l }
}

// Load reads every partition from the store and merges them into one
// in-memory table. Each partition is a JSON object keyed by position
// fingerprint. A partition that cannot be read or parsed fails the load;
// no classification is possible without the full database.
func Load(ctx context.Context, st store.Store, opts ...Option) (*Database, error) {
	db := &Database{
		entries: make(map[string]Entry),
		volumes: Volumes,
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(db)
	}

	for _, volume := range db.volumes {
		data, err := st.ReadPartition(ctx, volume)
		if err != nil {
			return nil, fmt.Errorf("loading opening partition %q: %w", volume, err)
		}

		var partition map[string]Entry
		if err := json.Unmarshal(data, &partition); err != nil {
			return nil, fmt.Errorf("parsing opening partition %q: %w", volume, err)
		}

		for fingerprint, entry := range partition {
			db.entries[fingerprint] = entry
		}
	}

	db.logger.Debug("opening database loaded",
		zap.Int("volumes", len(db.volumes)),
		zap.Int("positions", len(db.entries)),
	)

	return db, nil
}

// Len returns the number of positions in the database.
func (db *Database) Len() int {
	return len(db.entries)
}

// Lookup returns the entry for a position fingerprint.
func (db *Database) Lookup(fingerprint string) (Entry, bool) {
	entry, ok := db.entries[fingerprint]
	return entry, ok
}

// Classify replays the game and returns "<ECO code> - <name>" for the
// deepest position with a database hit, so longer theoretical lines take
// precedence over short ones sharing a prefix. Games with no hit at all
// return Unknown. Classification never fails the caller: any error is
// reported as an "Error: ..." string instead.
func (db *Database) Classify(pgn string) string {
	name, err := db.classify(pgn)
	if err != nil {
		return "Error: " + err.Error()
	}
	return name
}

func (db *Database) classify(pgn string) (string, error) {
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return "", fmt.Errorf("parsing game: %v", err)
	}
	game := chess.NewGame(opt)

	var best string
	for _, pos := range game.Positions() {
		fingerprint, err := fen.Fingerprint(pos.String())
		if err != nil {
			return "", fmt.Errorf("fingerprinting position: %v", err)
		}
		if entry, ok := db.entries[fingerprint]; ok {
			best = entry.ECO + " - " + entry.Name
		}
	}

	if best == "" {
		db.stats.IncCounter(stats.MetricOpeningMisses, 1)
		return Unknown, nil
	}

	db.stats.IncCounter(stats.MetricOpeningsClassified, 1)
	return best, nil
}
