// Package config loads bloomclimb settings from defaults, an optional YAML
// file, an optional .env file and BLOOMCLIMB_* environment variables, in
// that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/bloomclimb/internal/analytics"
	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/level"
	"github.com/abhisek/bloomclimb/internal/speed"
	"github.com/abhisek/bloomclimb/internal/store"
)

// DefaultConfigFile is read from the working directory when no path is given.
const DefaultConfigFile = "bloomclimb.yaml"

// Config is the full application configuration.
type Config struct {
	DBPath   string             `yaml:"db_path"`
	Redis    RedisConfig        `yaml:"redis"`
	Log      LogConfig          `yaml:"log"`
	Session  SessionConfig      `yaml:"session"`
	Rules    engine.Rules       `yaml:"rules"`
	Criteria analytics.Criteria `yaml:"criteria"`
}

// RedisConfig configures the optional session cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SessionConfig holds defaults for new sessions.
type SessionConfig struct {
	StartLevel string `yaml:"start_level"`
	// NominalSeconds is the expected answer time used to derive thresholds
	// when an answer arrives without any.
	NominalSeconds float64 `yaml:"nominal_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Redis: RedisConfig{TTL: 30 * time.Minute},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Session: SessionConfig{
			StartLevel: level.Default.String(),
		},
		Rules:    engine.DefaultRules(),
		Criteria: analytics.DefaultCriteria(),
	}
}

// Load builds the configuration. An empty path falls back to
// BLOOMCLIMB_CONFIG and then to DefaultConfigFile; only an explicitly named
// file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv("BLOOMCLIMB_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides configuration with environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("BLOOMCLIMB_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("BLOOMCLIMB_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("BLOOMCLIMB_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("BLOOMCLIMB_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BLOOMCLIMB_REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v := os.Getenv("BLOOMCLIMB_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BLOOMCLIMB_CACHE_TTL: %w", err)
		}
		c.Redis.TTL = d
	}
	if v := os.Getenv("BLOOMCLIMB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("BLOOMCLIMB_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("BLOOMCLIMB_START_LEVEL"); v != "" {
		c.Session.StartLevel = v
	}
	if v := os.Getenv("BLOOMCLIMB_NOMINAL_SECONDS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("BLOOMCLIMB_NOMINAL_SECONDS: %w", err)
		}
		c.Session.NominalSeconds = f
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := level.Parse(c.Session.StartLevel); err != nil {
		return fmt.Errorf("session.start_level: %w", err)
	}
	if n := c.Session.NominalSeconds; n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("session.nominal_seconds must be a finite, non-negative number")
	}
	if c.Rules.ModerateStreak < 0 || c.Rules.SlowStreak < 0 || c.Rules.WrongStreak < 0 || c.Rules.Step < 0 {
		return fmt.Errorf("rules must not be negative")
	}
	if c.Criteria.MinAttempts < 0 {
		return fmt.Errorf("criteria.min_attempts must not be negative")
	}
	if c.Criteria.WeakBelow > c.Criteria.StrongAtOrAbove {
		return fmt.Errorf("criteria.weak_below (%.1f) exceeds criteria.strong_at_or_above (%.1f)",
			c.Criteria.WeakBelow, c.Criteria.StrongAtOrAbove)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	return nil
}

// StartLevel returns the parsed session start level.
func (c *Config) StartLevel() level.Level {
	l, err := level.Parse(c.Session.StartLevel)
	if err != nil {
		return level.Default
	}
	return l
}

// FallbackThresholds returns thresholds derived from the nominal answer
// time, and false when no nominal time is configured.
func (c *Config) FallbackThresholds() (speed.Thresholds, bool) {
	if c.Session.NominalSeconds <= 0 {
		return speed.Thresholds{}, false
	}
	return speed.Fallback(c.Session.NominalSeconds), true
}

// ResolveDBPath returns DBPath, or the platform default when unset, and
// makes sure its directory exists.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, store.EnsureDir(c.DBPath)
	}
	return store.DefaultDBPath()
}
