package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "DLSTATS_"

// Config represents the top-level application config.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Source  SourceConfig  `koanf:"source"`
	Sync    SyncConfig    `koanf:"sync"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

// StorageConfig selects where download documents live.
type StorageConfig struct {
	Type string `koanf:"type"` // filesystem | postgres

	// filesystem
	Path       string `koanf:"path"`
	Manifest   string `koanf:"manifest"`
	TotalsName string `koanf:"totals_name"`

	// postgres
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type SourceConfig struct {
	BaseURL      string `koanf:"base_url"`
	Timeout      string `koanf:"timeout"`
	MaxRangeDays int    `koanf:"max_range_days"`
}

// SyncConfig holds the engine-wide defaults and the scheduler settings.
type SyncConfig struct {
	Start        string `koanf:"start"`
	Repo         string `koanf:"repo"`
	Prop         string `koanf:"prop"`
	PinStart     bool   `koanf:"pin_start"`
	PinRepo      bool   `koanf:"pin_repo"`
	PinProp      bool   `koanf:"pin_prop"`
	Concurrency  int    `koanf:"concurrency"`
	Enabled      bool   `koanf:"enabled"`
	CronInterval string `koanf:"cron_interval"`
}

// Engine returns the engine-wide defaults in the form the sync engine takes.
func (c SyncConfig) Engine() downloads.SyncConfig {
	return downloads.SyncConfig{
		Start:    c.Start,
		Repo:     c.Repo,
		Prop:     c.Prop,
		PinStart: c.PinStart,
		PinRepo:  c.PinRepo,
		PinProp:  c.PinProp,
	}
}

// Interval parses CronInterval. Validate guarantees it succeeds on a loaded config.
func (c SyncConfig) Interval() time.Duration {
	d, _ := time.ParseDuration(c.CronInterval)
	return d
}

// RequestTimeout parses Timeout. Validate guarantees it succeeds on a loaded config.
func (c SourceConfig) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (must be debug, info, warn or error)", c.Log.Level)
	}

	switch c.Storage.Type {
	case "filesystem":
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path is required for filesystem storage")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("storage.dsn is required for postgres storage")
		}
		if c.Storage.MaxOpenConns <= 0 {
			return fmt.Errorf("storage.max_open_conns must be > 0")
		}
		if c.Storage.MaxIdleConns <= 0 {
			return fmt.Errorf("storage.max_idle_conns must be > 0")
		}
	default:
		return fmt.Errorf("unsupported storage.type %q", c.Storage.Type)
	}

	if strings.TrimSpace(c.Source.BaseURL) == "" {
		return fmt.Errorf("source.base_url is required")
	}
	timeout, err := time.ParseDuration(c.Source.Timeout)
	if err != nil {
		return fmt.Errorf("invalid source.timeout %q: %w", c.Source.Timeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("source.timeout must be > 0")
	}
	if c.Source.MaxRangeDays <= 0 {
		return fmt.Errorf("source.max_range_days must be > 0")
	}

	if c.Sync.Start != "" {
		if _, err := downloads.ParseDay(c.Sync.Start); err != nil {
			return fmt.Errorf("invalid sync.start: %w", err)
		}
	}
	if c.Sync.Concurrency <= 0 {
		return fmt.Errorf("sync.concurrency must be > 0")
	}
	interval, err := time.ParseDuration(c.Sync.CronInterval)
	if err != nil {
		return fmt.Errorf("invalid sync cron interval %q: %w", c.Sync.CronInterval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("sync cron interval must be > 0")
	}

	return nil
}

// Load parses config from defaults, file and env, then validates it.
// An empty configPath skips the file layer.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":            8080,
		"server.host":            "0.0.0.0",
		"server.mode":            "release",
		"log.level":              "info",
		"storage.type":           "filesystem",
		"storage.path":           "./stats",
		"storage.manifest":       "stats.yaml",
		"storage.totals_name":    "total-npm",
		"storage.dsn":            "",
		"storage.max_open_conns": 10,
		"storage.max_idle_conns": 10,
		"storage.auto_migrate":   true,
		"source.base_url":        "https://api.npmjs.org",
		"source.timeout":         "30s",
		"source.max_range_days":  365,
		"sync.start":             downloads.DefaultStart,
		"sync.repo":              "",
		"sync.prop":              "",
		"sync.pin_start":         false,
		"sync.pin_repo":          false,
		"sync.pin_prop":          false,
		"sync.concurrency":       4,
		"sync.enabled":           true,
		"sync.cron_interval":     "24h",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
