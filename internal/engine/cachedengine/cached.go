// Package cachedengine provides an LRU-caching wrapper for an Evaluator.
//
// Games out of the same repertoire revisit the opening positions over and
// over; caching by position fingerprint lets a batch skip the engine for
// transpositions it has already scored.
package cachedengine

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jphollanti/chessprof/internal/engine"
	"github.com/jphollanti/chessprof/internal/fen"
	"github.com/jphollanti/chessprof/internal/stats"
)

// Compile-time check that Engine implements engine.Evaluator.
var _ engine.Evaluator = (*Engine)(nil)

// Engine wraps another Evaluator with a fingerprint-keyed LRU cache.
type Engine struct {
	underlying engine.Evaluator
	cache      *lru.Cache[string, engine.Score]
	stats      stats.Collector
}

// New creates a caching evaluator with the given capacity.
// If collector is nil, a no-op collector is used.
func New(underlying engine.Evaluator, capacity int, collector stats.Collector) (*Engine, error) {
	cache, err := lru.New[string, engine.Score](capacity)
	if err != nil {
		return nil, err
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Engine{
		underlying: underlying,
		cache:      cache,
		stats:      collector,
	}, nil
}

// Evaluate returns a cached score when the position fingerprint has been
// seen before, otherwise delegates to the underlying evaluator.
func (e *Engine) Evaluate(ctx context.Context, fenStr string) (engine.Score, error) {
	key, err := fen.Fingerprint(fenStr)
	if err != nil {
		// Unfingerprintable input: let the underlying evaluator reject it.
		return e.underlying.Evaluate(ctx, fenStr)
	}

	if score, ok := e.cache.Get(key); ok {
		e.stats.IncCounter(stats.MetricEvalCacheHits, 1)
		return score, nil
	}

	score, err := e.underlying.Evaluate(ctx, fenStr)
	if err != nil {
		return engine.Score{}, err
	}

	e.stats.IncCounter(stats.MetricEvalCacheMisses, 1)
	e.cache.Add(key, score)

	return score, nil
}

// Len returns the number of cached positions.
func (e *Engine) Len() int {
	return e.cache.Len()
}

// Close closes the underlying evaluator.
func (e *Engine) Close() error {
	return e.underlying.Close()
}
