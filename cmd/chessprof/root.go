package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jphollanti/chessprof/internal/config"
)

var (
	// Global flags.
	cfgFile  string
	username string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "chessprof",
	Short: "Engine-backed analysis and profiling of chess.com games",
	Long: `Chessprof fetches a player's games from chess.com, evaluates every
position with a UCI engine, detects significant evaluation swings, and
aggregates the results into a player profile.

Examples:
  # Fetch recent games into the local archive
  chessprof fetch --username hikaru

  # Analyze the archived games with a local Stockfish
  chessprof analyze --username hikaru

  # Build the full profile
  chessprof profile --username hikaru

  # Classify the opening of a single game
  chessprof opening game.pgn`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "chess.com username (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig resolves the effective configuration: file and environment
// first, then command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if username != "" {
		cfg.Username = username
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("no username: pass --username or set it in the config")
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level.
// --verbose forces debug.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}
