// Package archive persists the pipeline's file artifacts: the raw game
// archive and the analyzed-games dataset. All writes are whole-file
// overwrites; there is no incremental append.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jphollanti/chessprof"
	"github.com/jphollanti/chessprof/internal/codec"
	"github.com/jphollanti/chessprof/internal/codec/noopcodec"
	"github.com/jphollanti/chessprof/internal/codec/zstdcodec"
)

// LoadRaw reads a raw game archive: a JSON array whose entries are either
// bare PGN strings or chess.com game objects.
func LoadRaw(path string) ([]chessprof.RawGame, error) {
	var games []chessprof.RawGame
	if err := readJSON(path, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// SaveRaw writes the raw game archive, replacing any existing file.
func SaveRaw(path string, games []chessprof.RawGame) error {
	return writeJSON(path, games)
}

// ReadAnalyzed reads the analyzed-games dataset.
func ReadAnalyzed(path string) ([]chessprof.AnalyzedGame, error) {
	var games []chessprof.AnalyzedGame
	if err := readJSON(path, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// WriteAnalyzed persists the analyzed-games dataset, replacing any
// existing file.
func WriteAnalyzed(path string, games []chessprof.AnalyzedGame) error {
	return writeJSON(path, games)
}

// Span returns the games with the oldest and latest end times.
// Both are nil when the collection is empty or carries no timestamps.
func Span(games []chessprof.RawGame) (oldest, latest *chessprof.RawGame) {
	var timed []chessprof.RawGame
	for _, g := range games {
		if g.EndTime > 0 {
			timed = append(timed, g)
		}
	}
	if len(timed) == 0 {
		return nil, nil
	}

	sort.Slice(timed, func(i, j int) bool {
		return timed[i].EndTime < timed[j].EndTime
	})

	return &timed[0], &timed[len(timed)-1]
}

// codecFor picks the codec from the file extension: .zst datasets are
// compressed, everything else is plain JSON.
func codecFor(path string) codec.Codec {
	if strings.HasSuffix(path, ".zst") {
		return zstdcodec.New()
	}
	return noopcodec.New()
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader, err := codecFor(path).Reader(f)
	if err != nil {
		return fmt.Errorf("creating decompressor: %w", err)
	}
	defer reader.Close()

	if err := json.NewDecoder(reader).Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	writer, err := codecFor(path).Writer(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("creating compressor: %w", err)
	}

	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		writer.Close()
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("flushing compressor: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
