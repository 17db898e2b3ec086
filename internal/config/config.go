// Package config loads the practice engine's process-wide configuration
// from a TOML file, with environment-variable overrides layered on top —
// the same two-layer precedence the daemon's own config loading uses.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration unmarshals TOML strings like "60s" or "2m" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the process-wide configuration structure: default timezone,
// cache TTLs, reminder defaults, LLM model/temperature, and the
// encryption key reference.
type Config struct {
	General  General  `toml:"general"`
	Store    Store    `toml:"store"`
	Cache    Cache    `toml:"cache"`
	Reminder Reminder `toml:"reminders"`
	LLM      LLM      `toml:"llm"`
	Mastery  Mastery  `toml:"mastery"`
}

type General struct {
	DefaultTimezone string `toml:"default_timezone"`
	LogLevel        string `toml:"log_level"`
}

type Store struct {
	SQLitePath          string   `toml:"sqlite_path"`
	EncryptionKeyEnvVar string   `toml:"encryption_key_env_var"`
	EncryptionEnabled   bool     `toml:"encryption_enabled"`
	CompletedGoalTTL    Duration `toml:"completed_goal_ttl"`
	ReminderTTL         Duration `toml:"reminder_ttl"`
}

type Cache struct {
	MaxEntries            int      `toml:"max_entries"`
	TTLTime               Duration `toml:"ttl_time"`
	TTLMarket             Duration `toml:"ttl_market"`
	TTLCrypto             Duration `toml:"ttl_crypto"`
	TTLWeather            Duration `toml:"ttl_weather"`
	TTLFX                 Duration `toml:"ttl_fx"`
	StaleGrace            Duration `toml:"stale_grace"`
	StaleWhileRevalidate  bool     `toml:"stale_while_revalidate"`
	CleanupInterval       Duration `toml:"cleanup_interval"`
}

type Reminder struct {
	Enabled            bool     `toml:"enabled"`
	FirstHour          int      `toml:"first_hour"`
	LastHour           int      `toml:"last_hour"`
	IntervalHours      int      `toml:"interval_hours"`
	MaxPerDay          int      `toml:"max_per_day"`
	QuietDays          []string `toml:"quiet_days"`
	ShrinkOnEscalation bool     `toml:"shrink_on_escalation"`
	TickInterval       Duration `toml:"tick_interval"`
}

type LLM struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxRetries  int     `toml:"max_retries"`
	Timeout     Duration `toml:"timeout"`
}

type Mastery struct {
	Threshold int `toml:"threshold"`
}

// Default returns a Config populated with the spec's documented defaults.
func Default() *Config {
	return &Config{
		General: General{
			DefaultTimezone: "UTC",
			LogLevel:        "info",
		},
		Store: Store{
			SQLitePath:          "./practiceengine.db",
			EncryptionKeyEnvVar: "PRACTICEENGINE_MASTER_KEY",
			EncryptionEnabled:   true,
			CompletedGoalTTL:    Duration{24 * time.Hour},
			ReminderTTL:         Duration{1 * time.Hour},
		},
		Cache: Cache{
			MaxEntries:           10000,
			TTLTime:              Duration{1 * time.Second},
			TTLMarket:            Duration{30 * time.Second},
			TTLCrypto:            Duration{30 * time.Second},
			TTLWeather:           Duration{5 * time.Minute},
			TTLFX:                Duration{1 * time.Hour},
			StaleGrace:           Duration{30 * time.Second},
			StaleWhileRevalidate: true,
			CleanupInterval:      Duration{60 * time.Second},
		},
		Reminder: Reminder{
			Enabled:            true,
			FirstHour:          9,
			LastHour:           19,
			IntervalHours:      4,
			MaxPerDay:          4,
			QuietDays:          nil,
			ShrinkOnEscalation: true,
			TickInterval:       Duration{60 * time.Second},
		},
		LLM: LLM{
			Provider:    "claude",
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0.4,
			MaxRetries:  2,
			Timeout:     Duration{60 * time.Second},
		},
		Mastery: Mastery{
			Threshold: 3,
		},
	}
}

// Load reads the TOML file at path (if it exists) over the defaults, then
// applies environment-variable overrides. A missing file is not an error —
// an unconfigured daemon runs on defaults, as the daemon bootstrap does.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides layers PRACTICEENGINE_* environment variables over the
// file/default config, mirroring the daemon's env-override-wins precedence.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PRACTICEENGINE_TIMEZONE"); v != "" {
		cfg.General.DefaultTimezone = v
	}
	if v := os.Getenv("PRACTICEENGINE_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("PRACTICEENGINE_SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("PRACTICEENGINE_ENCRYPTION_ENABLED"); v != "" {
		cfg.Store.EncryptionEnabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("PRACTICEENGINE_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("PRACTICEENGINE_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("PRACTICEENGINE_MASTERY_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Mastery.Threshold = n
		}
	}
}

// EncryptionKey resolves the master key from the environment variable the
// config names. Returns empty string (no encryption) if unset.
func (c *Config) EncryptionKey() string {
	if c.Store.EncryptionKeyEnvVar == "" {
		return ""
	}
	return os.Getenv(c.Store.EncryptionKeyEnvVar)
}
