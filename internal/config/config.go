// Package config loads process settings for the formkit command from the
// environment, optionally seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DefaultMaxFileSize  int64 = 10 << 20
	DefaultPreviewCache       = 64
)

// Config holds the FORMKIT_* settings. Defaults are provided via struct tags.
type Config struct {
	// MaxFileSize caps accepted uploads in bytes. ENV: FORMKIT_MAX_FILE_SIZE
	MaxFileSize int64 `env:"FORMKIT_MAX_FILE_SIZE,default=10485760"`
	// AllowedTypes is a comma separated list of MIME types or patterns such
	// as image/*. Empty accepts everything. ENV: FORMKIT_ALLOWED_TYPES
	AllowedTypes string `env:"FORMKIT_ALLOWED_TYPES"`
	// PreviewCache is the number of image previews kept in memory; 0
	// disables the cache. ENV: FORMKIT_PREVIEW_CACHE
	PreviewCache int `env:"FORMKIT_PREVIEW_CACHE,default=64"`
	// LogLevel is one of debug, info, warn, error. ENV: FORMKIT_LOG_LEVEL
	LogLevel string `env:"FORMKIT_LOG_LEVEL,default=info"`
}

// Load reads the given .env files (or ./.env when none are named) without
// overriding variables already set, then decodes the environment. A missing
// ./.env is not an error; a missing named file is.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env file: %w", err)
		}
	}
	return FromEnv()
}

// FromEnv decodes the current environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decode environment: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
}

// Validate rejects negative sizes and unknown log levels.
func (c Config) Validate() error {
	if c.MaxFileSize < 0 {
		return fmt.Errorf("config: FORMKIT_MAX_FILE_SIZE must not be negative, got %d", c.MaxFileSize)
	}
	if c.PreviewCache < 0 {
		return fmt.Errorf("config: FORMKIT_PREVIEW_CACHE must not be negative, got %d", c.PreviewCache)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Types splits AllowedTypes, dropping blanks.
func (c Config) Types() []string {
	var out []string
	for _, raw := range strings.Split(c.AllowedTypes, ",") {
		if t := strings.TrimSpace(raw); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: FORMKIT_LOG_LEVEL: %w", err)
	}
	return level, nil
}
