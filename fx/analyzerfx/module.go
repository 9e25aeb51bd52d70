// Package analyzerfx provides an fx module for a UCI-engine-backed game
// analyzer.
package analyzerfx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jphollanti/chessprof"
	"github.com/jphollanti/chessprof/internal/engine/cachedengine"
	"github.com/jphollanti/chessprof/internal/engine/uciengine"
	"github.com/jphollanti/chessprof/internal/stats"
	"github.com/jphollanti/chessprof/internal/stats/logger"
)

// Config holds configuration for the engine-backed analyzer.
type Config struct {
	// EnginePath is the UCI engine binary to launch.
	EnginePath string

	// Threads is the engine thread count. Default is 2.
	Threads int

	// MoveTime is the per-position search budget. Default is 30ms.
	MoveTime time.Duration

	// DipThreshold is the centipawn swing that counts as a dip.
	// Default is 150.
	DipThreshold int

	// MaxGames caps a batch run. Zero means no cap.
	MaxGames int

	// CacheSize is the number of evaluations to cache in memory.
	// Default is 4096.
	CacheSize int
}

// Module provides an engine-backed *chessprof.Analyzer.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("analyzer",
	fx.Provide(
		newStatsCollector,
		newAnalyzer,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("chessprof.stats"))
}

// Params holds dependencies for creating the analyzer.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided analyzer.
type Result struct {
	fx.Out

	Analyzer *chessprof.Analyzer
}

func newAnalyzer(p Params) (Result, error) {
	threads := p.Config.Threads
	if threads <= 0 {
		threads = uciengine.DefaultThreads
	}
	moveTime := p.Config.MoveTime
	if moveTime <= 0 {
		moveTime = uciengine.DefaultMoveTime
	}
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	threshold := p.Config.DipThreshold
	if threshold <= 0 {
		threshold = chessprof.DefaultDipThreshold
	}

	eng, err := uciengine.New(p.Config.EnginePath,
		uciengine.WithThreads(threads),
		uciengine.WithMoveTime(moveTime),
		uciengine.WithLogger(p.Logger.Named("engine")),
	)
	if err != nil {
		return Result{}, err
	}

	cached, err := cachedengine.New(eng, cacheSize, p.Collector)
	if err != nil {
		eng.Close()
		return Result{}, err
	}

	analyzer, err := chessprof.New(
		chessprof.WithEngine(cached),
		chessprof.WithDipThreshold(threshold),
		chessprof.WithMaxGames(p.Config.MaxGames),
		chessprof.WithStats(p.Collector),
		chessprof.WithLogger(p.Logger.Named("chessprof")),
	)
	if err != nil {
		cached.Close()
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return analyzer.Close()
		},
	})

	return Result{Analyzer: analyzer}, nil
}
