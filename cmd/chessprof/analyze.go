package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jphollanti/chessprof"
	"github.com/jphollanti/chessprof/internal/archive"
	"github.com/jphollanti/chessprof/internal/config"
	"github.com/jphollanti/chessprof/internal/engine/cachedengine"
	"github.com/jphollanti/chessprof/internal/engine/uciengine"
	"github.com/jphollanti/chessprof/internal/stats"
	statslogger "github.com/jphollanti/chessprof/internal/stats/logger"
	statsprom "github.com/jphollanti/chessprof/internal/stats/prometheus"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run engine analysis over the archived games",
	Long: `Evaluate every position of every archived game with a UCI engine,
detect significant evaluation swings, and write the analyzed dataset,
replacing any previous one.

Examples:
  # Analyze with the configured engine
  chessprof analyze --username hikaru

  # Cap the run at 50 games
  chessprof analyze --username hikaru --max-games 50`,
	RunE: runAnalyze,
}

var (
	analyzeMaxGames string
	engineCacheSize int
	metricsAddr     string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMaxGames, "max-games", "", `games to analyze: "all" or a number (overrides config)`)
	analyzeCmd.Flags().IntVar(&engineCacheSize, "eval-cache", 4096, "positions to keep in the evaluation cache")
	analyzeCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run (e.g. :9090)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeMaxGames != "" {
		cfg.MaxGames = analyzeMaxGames
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	games, err := archive.LoadRaw(cfg.ArchivePath())
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	analyzer, err := newAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	if metricsAddr != "" {
		go serveMetrics(metricsAddr, logger)
	}

	start := time.Now()
	analyzed, err := analyzer.AnalyzeArchive(cmd.Context(), games)
	if err != nil {
		return fmt.Errorf("analyzing archive: %w", err)
	}

	if err := archive.WriteAnalyzed(cfg.AnalyzedPath(), analyzed); err != nil {
		return fmt.Errorf("writing analyzed dataset: %w", err)
	}

	fmt.Printf("Analyzed %d of %d games in %s, wrote %s\n",
		len(analyzed), len(games), time.Since(start).Round(time.Second), cfg.AnalyzedPath())

	return nil
}

// newCollector picks the stats backend: Prometheus when a metrics
// address is being served, a logging collector under --verbose, noop
// otherwise.
func newCollector(logger *zap.Logger) stats.Collector {
	switch {
	case metricsAddr != "":
		return statsprom.New(nil)
	case verbose:
		return statslogger.New(logger)
	default:
		return stats.NewNoop()
	}
}

func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped", zap.Error(err))
	}
}

// newAnalyzer wires the UCI engine, the evaluation cache, and the
// analyzer from the configuration. The analyzer owns the engine and
// closes it.
func newAnalyzer(cfg *config.Config, logger *zap.Logger) (*chessprof.Analyzer, error) {
	eng, err := uciengine.New(cfg.EnginePath,
		uciengine.WithThreads(cfg.EngineThreads),
		uciengine.WithMoveTime(time.Duration(cfg.EngineMoveTime)*time.Millisecond),
		uciengine.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("starting engine %s: %w", cfg.EnginePath, err)
	}

	collector := newCollector(logger)

	cached, err := cachedengine.New(eng, engineCacheSize, collector)
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("creating evaluation cache: %w", err)
	}

	limit, err := cfg.Limit()
	if err != nil {
		cached.Close()
		return nil, err
	}

	analyzer, err := chessprof.New(
		chessprof.WithEngine(cached),
		chessprof.WithDipThreshold(cfg.DipThreshold),
		chessprof.WithMaxGames(limit),
		chessprof.WithStats(collector),
		chessprof.WithLogger(logger),
	)
	if err != nil {
		cached.Close()
		return nil, err
	}
	return analyzer, nil
}
