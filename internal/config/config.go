// Package config loads pipeline configuration from defaults, an optional
// YAML file, and CHESSPROF_ environment variables, in that order of
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables, e.g.
// CHESSPROF_ENGINE_PATH maps to engine_path.
const envPrefix = "CHESSPROF_"

// Config holds every tunable of the pipeline.
type Config struct {
	Username        string `koanf:"username"`
	EnginePath      string `koanf:"engine_path"`
	EngineThreads   int    `koanf:"engine_threads"`
	EngineMoveTime  int    `koanf:"engine_move_time_ms"`
	DipThreshold    int    `koanf:"dip_threshold"`
	MaxGames        string `koanf:"max_games"`
	DataDir         string `koanf:"data_dir"`
	ArchiveFile     string `koanf:"archive_file"`
	AnalyzedFile    string `koanf:"analyzed_file"`
	ProfileFile     string `koanf:"profile_file"`
	SelfDescription string `koanf:"self_description"`
	ArchiveMonths   int    `koanf:"archive_months"`
	LogLevel        string `koanf:"log_level"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"engine_path":         "stockfish",
		"engine_threads":      2,
		"engine_move_time_ms": 30,
		"dip_threshold":       150,
		"max_games":           "all",
		"data_dir":            "data",
		"archive_file":        "games.json",
		"analyzed_file":       "games-analyzed.json",
		"profile_file":        "profile.json",
		"archive_months":      6,
		"log_level":           "info",
	}
}

// Load builds a Config. path may be empty, in which case only defaults
// and the environment apply; a named file that does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.EngineThreads < 1 {
		return fmt.Errorf("engine_threads must be positive, got %d", c.EngineThreads)
	}
	if c.EngineMoveTime < 1 {
		return fmt.Errorf("engine_move_time_ms must be positive, got %d", c.EngineMoveTime)
	}
	if c.DipThreshold < 1 {
		return fmt.Errorf("dip_threshold must be positive, got %d", c.DipThreshold)
	}
	if _, err := c.Limit(); err != nil {
		return err
	}
	return nil
}

// Limit resolves the max_games setting: the literal "all" (or empty)
// means no cap and returns zero.
func (c *Config) Limit() (int, error) {
	s := strings.TrimSpace(strings.ToLower(c.MaxGames))
	if s == "" || s == "all" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("max_games must be %q or a non-negative integer, got %q", "all", c.MaxGames)
	}
	return n, nil
}

// ArchivePath returns the raw archive location under the data directory.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.DataDir, c.ArchiveFile)
}

// AnalyzedPath returns the analyzed dataset location.
func (c *Config) AnalyzedPath() string {
	return filepath.Join(c.DataDir, c.AnalyzedFile)
}

// ProfilePath returns the profile artifact location.
func (c *Config) ProfilePath() string {
	return filepath.Join(c.DataDir, c.ProfileFile)
}
