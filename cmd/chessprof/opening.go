package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jphollanti/chessprof/internal/codec"
	"github.com/jphollanti/chessprof/internal/codec/noopcodec"
	"github.com/jphollanti/chessprof/internal/codec/zstdcodec"
	"github.com/jphollanti/chessprof/internal/config"
	"github.com/jphollanti/chessprof/internal/openings"
	"github.com/jphollanti/chessprof/internal/store"
	"github.com/jphollanti/chessprof/internal/store/diskstore"
	"github.com/jphollanti/chessprof/internal/store/gcsstore"
	"github.com/jphollanti/chessprof/internal/store/s3store"
)

var openingCmd = &cobra.Command{
	Use:   "opening [PGN-FILE]",
	Short: "Classify the opening of a single game",
	Long: `Replay a game from a PGN file against the opening database and print
the deepest matching opening line.

Examples:
  # Classify from local opening data
  chessprof opening game.pgn

  # Classify against a GCS-hosted database
  chessprof opening game.pgn --openings gs://my-bucket/chessprof`,
	Args: cobra.ExactArgs(1),
	RunE: runOpening,
}

var (
	openingSource     string
	openingCompressed bool
)

func init() {
	openingCmd.Flags().StringVar(&openingSource, "openings", "", "opening data location: a directory, gs://bucket/prefix, or s3://bucket/prefix (default: the data directory)")
	openingCmd.Flags().BoolVar(&openingCompressed, "compressed", false, "opening partitions are zstd-compressed")
	rootCmd.AddCommand(openingCmd)
}

func runOpening(cmd *cobra.Command, args []string) error {
	pgn, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading PGN file: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, closeStore, err := loadOpenings(ctx, cfg.DataDir, zap.NewNop())
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Println(db.Classify(string(pgn)))
	return nil
}

// loadOpenings resolves the opening data location, opens the matching
// store backend, and loads the database. The returned func closes the
// store.
func loadOpenings(ctx context.Context, dataDir string, logger *zap.Logger) (*openings.Database, func(), error) {
	var c codec.Codec = noopcodec.New()
	if openingCompressed {
		c = zstdcodec.New()
	}

	source := openingSource
	if source == "" {
		source = dataDir
	}

	var (
		st  store.Store
		err error
	)
	switch {
	case strings.HasPrefix(source, "gs://"):
		bucket, prefix := splitBucketPath(strings.TrimPrefix(source, "gs://"))
		st, err = gcsstore.New(ctx, bucket, c, gcsstore.WithPrefix(prefix))
	case strings.HasPrefix(source, "s3://"):
		bucket, prefix := splitBucketPath(strings.TrimPrefix(source, "s3://"))
		st, err = s3store.New(ctx, bucket, c, s3store.WithPrefix(prefix))
	default:
		st, err = diskstore.New(source, c)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", source, err)
	}

	db, err := openings.Load(ctx, st, openings.WithLogger(logger))
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return db, func() { st.Close() }, nil
}

func splitBucketPath(s string) (bucket, prefix string) {
	bucket, prefix, _ = strings.Cut(s, "/")
	return bucket, prefix
}
