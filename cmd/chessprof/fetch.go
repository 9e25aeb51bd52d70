package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jphollanti/chessprof/internal/archive"
	"github.com/jphollanti/chessprof/internal/chesscom"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent games from chess.com into the local archive",
	Long: `Fetch the player's games from the chess.com monthly archives and
write them to the local raw archive, replacing any previous archive.

Examples:
  # Last six months (the default)
  chessprof fetch --username hikaru

  # A full year, only the losses
  chessprof fetch --username hikaru --months 12 --lost-only`,
	RunE: runFetch,
}

var (
	fetchMonths int
	lostOnly    bool
)

func init() {
	fetchCmd.Flags().IntVar(&fetchMonths, "months", 0, "months of history to fetch (0 = config default)")
	fetchCmd.Flags().BoolVar(&lostOnly, "lost-only", false, "keep only games the player lost")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	months := cfg.ArchiveMonths
	if fetchMonths > 0 {
		months = fetchMonths
	}

	client := chesscom.New(chesscom.WithLogger(logger))

	ctx := cmd.Context()
	games, err := client.RecentGames(ctx, cfg.Username, months)
	if err != nil {
		return fmt.Errorf("fetching games: %w", err)
	}

	if lostOnly {
		games = chesscom.LostGames(games, cfg.Username)
	}

	if err := archive.SaveRaw(cfg.ArchivePath(), games); err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}

	fmt.Printf("Fetched %d games for %s into %s\n", len(games), cfg.Username, cfg.ArchivePath())
	if oldest, latest := archive.Span(games); oldest != nil {
		fmt.Printf("  Oldest: %s\n", time.Unix(oldest.EndTime, 0).Format("2006-01-02"))
		fmt.Printf("  Latest: %s\n", time.Unix(latest.EndTime, 0).Format("2006-01-02"))
	}

	return nil
}
