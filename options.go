package chessprof

import (
	"go.uber.org/zap"

	"github.com/jphollanti/chessprof/internal/engine"
	"github.com/jphollanti/chessprof/internal/stats"
)

// Option configures an Analyzer.
type Option interface {
	apply(*options)
}

// options holds the analyzer configuration.
type options struct {
	engine    engine.Evaluator
	threshold int
	maxGames  int
	stats     stats.Collector
	logger    *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		threshold: DefaultDipThreshold,
		stats:     stats.NewNoop(),
		logger:    zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithEngine sets the engine evaluator to use. Required.
func WithEngine(e engine.Evaluator) Option {
	return optionFunc(func(o *options) {
		o.engine = e
	})
}

// WithDipThreshold sets the centipawn swing that counts as a significant
// dip. Default is 150.
func WithDipThreshold(threshold int) Option {
	return optionFunc(func(o *options) {
		o.threshold = threshold
	})
}

// WithMaxGames caps the number of games analyzed per batch.
// Zero (the default) analyzes all games.
func WithMaxGames(n int) Option {
	return optionFunc(func(o *options) {
		o.maxGames = n
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}
