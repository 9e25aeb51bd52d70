package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/jphollanti/chessprof/internal/archive"
	"github.com/jphollanti/chessprof/internal/chesscom"
	"github.com/jphollanti/chessprof/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Build the player profile from the analyzed dataset",
	Long: `Aggregate the analyzed games into a player profile: most played
openings, per-opening results, representative games per outcome, style
fractions, and chess.com account statistics. The profile file is fully
regenerated.

Examples:
  # Build the profile from the analyzed dataset
  chessprof profile --username hikaru

  # Skip the chess.com stats lookup (offline)
  chessprof profile --username hikaru --no-stats`,
	RunE: runProfile,
}

var (
	noStats    bool
	sampleSize int
)

func init() {
	profileCmd.Flags().BoolVar(&noStats, "no-stats", false, "skip fetching chess.com account statistics")
	profileCmd.Flags().IntVar(&sampleSize, "samples", 5, "representative games to keep per outcome")
	profileCmd.Flags().StringVar(&openingSource, "openings", "", "opening data location: a directory, gs://bucket/prefix, or s3://bucket/prefix (default: the data directory)")
	profileCmd.Flags().BoolVar(&openingCompressed, "compressed", false, "opening partitions are zstd-compressed")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	games, err := archive.ReadAnalyzed(cfg.AnalyzedPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no analyzed dataset at %s; run 'chessprof analyze' first", cfg.AnalyzedPath())
		}
		return fmt.Errorf("loading analyzed dataset: %w", err)
	}

	ctx := cmd.Context()
	db, closeStore, err := loadOpenings(ctx, cfg.DataDir, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []profile.Option{
		profile.WithSampleSize(sampleSize),
		profile.WithSelfDescription(cfg.SelfDescription),
		profile.WithLogger(logger),
	}
	if !noStats {
		opts = append(opts, profile.WithStatsSource(chesscom.New(chesscom.WithLogger(logger))))
	}

	builder := profile.NewBuilder(cfg.Username, db, opts...)
	p, err := builder.Build(ctx, games)
	if err != nil {
		return fmt.Errorf("building profile: %w", err)
	}

	if err := p.Write(cfg.ProfilePath()); err != nil {
		return err
	}

	fmt.Printf("Profiled %d games for %s, wrote %s\n", p.TotalGames, cfg.Username, cfg.ProfilePath())
	return nil
}
