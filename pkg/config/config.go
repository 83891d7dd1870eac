// Package config loads editor settings.
//
// Settings come from three places, later ones winning: built-in defaults,
// an optional TOML or YAML file, and LADDERFLOW_* environment variables
// (optionally seeded from a .env file).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/ladder"
)

// Environment variables that override file values.
const (
	EnvHistoryLimit = "LADDERFLOW_HISTORY_LIMIT"
	EnvLogLevel     = "LADDERFLOW_LOG_LEVEL"
	EnvAddr         = "LADDERFLOW_ADDR"
	EnvCacheDir     = "LADDERFLOW_CACHE_DIR"
	EnvCacheURL     = "LADDERFLOW_CACHE_URL"
)

// Defaults.
const (
	DefaultHistoryLimit = 50
	DefaultAddr         = ":8080"
	DefaultLogLevel     = "info"
)

// DefaultBounds is the drawing surface of a new rung.
var DefaultBounds = ladder.Bounds{1530, 200}

// Config holds editor settings.
type Config struct {
	// DefaultBounds is the [width, height] of a new rung's canvas.
	DefaultBounds [2]float64 `toml:"default_bounds" yaml:"default_bounds"`

	// HistoryLimit caps each POU's undo stack.
	HistoryLimit int `toml:"history_limit" yaml:"history_limit"`

	// NodeGaps overrides the spacing of node kinds, keyed by kind name
	// ("contact", "block", ...).
	NodeGaps map[string]float64 `toml:"node_gaps" yaml:"node_gaps"`

	LogLevel string `toml:"log_level" yaml:"log_level"`

	// CacheDir holds rendered SVG and PNG files between runs. Empty
	// disables the on-disk cache.
	CacheDir string `toml:"cache_dir" yaml:"cache_dir"`

	Server Server `toml:"server" yaml:"server"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr" yaml:"addr"`

	// CacheURL points at a Redis server shared by several instances
	// (redis://host:port/db). Empty keeps renders in process memory.
	CacheURL string `toml:"cache_url" yaml:"cache_url"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DefaultBounds: DefaultBounds,
		HistoryLimit:  DefaultHistoryLimit,
		LogLevel:      DefaultLogLevel,
		Server:        Server{Addr: DefaultAddr},
	}
}

// Load reads settings from path and applies environment overrides. An
// empty path skips the file. A .env file next to the working directory
// is loaded first when present; variables already set win over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load .env")
	}

	cfg := Default()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvHistoryLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvHistoryLimit)
		}
		c.HistoryLimit = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv(EnvCacheURL); v != "" {
		c.Server.CacheURL = v
	}
	return nil
}

// Validate rejects settings the editor cannot work with.
func (c *Config) Validate() error {
	if c.DefaultBounds[0] <= 0 || c.DefaultBounds[1] <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "default_bounds must be positive, got %v", c.DefaultBounds)
	}
	if c.HistoryLimit <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "history_limit must be positive, got %d", c.HistoryLimit)
	}
	for name, gap := range c.NodeGaps {
		if _, ok := ladder.ParseKind(name); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "node_gaps: unknown node kind %q", name)
		}
		if gap < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "node_gaps: %s gap must not be negative", name)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log_level")
	}
	return nil
}

// Bounds returns DefaultBounds as a ladder.Bounds.
func (c *Config) Bounds() ladder.Bounds {
	return ladder.Bounds(c.DefaultBounds)
}

// Styles returns the node style table with the configured gap overrides.
func (c *Config) Styles() ladder.Styles {
	gaps := make(map[ladder.Kind]float64, len(c.NodeGaps))
	for name, gap := range c.NodeGaps {
		if k, ok := ladder.ParseKind(name); ok {
			gaps[k] = gap
		}
	}
	return ladder.WithGaps(gaps)
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// String summarises the settings on one line.
func (c *Config) String() string {
	return fmt.Sprintf("bounds=%v history=%d log=%s addr=%s", c.DefaultBounds, c.HistoryLimit, c.LogLevel, c.Server.Addr)
}
