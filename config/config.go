package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/sltp/challenge"
	"github.com/rustyeddy/sltp/risk"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is everything the journal needs at startup.
type Config struct {
	Settings Settings      `json:"settings" yaml:"settings"`
	Journal  JournalConfig `json:"journal" yaml:"journal"`
	Log      LogConfig     `json:"log" yaml:"log"`
	Server   ServerConfig  `json:"server" yaml:"server"`
}

// Settings are the trader's own preferences.
type Settings struct {
	BeginningBalance decimal.Decimal    `json:"beginning_balance" yaml:"beginning_balance"`
	DailyTargetR     decimal.Decimal    `json:"daily_target_r" yaml:"daily_target_r"`
	SLBudgetR        decimal.Decimal    `json:"sl_budget_r" yaml:"sl_budget_r"`
	Theme            string             `json:"theme" yaml:"theme"`
	Pairs            []string           `json:"pairs" yaml:"pairs"`
	Challenge        challenge.Settings `json:"challenge" yaml:"challenge"`
}

// Policy returns the daily risk policy these settings describe.
func (s Settings) Policy() risk.Policy {
	return risk.Policy{
		BeginningBalance: s.BeginningBalance,
		DailyTargetR:     s.DailyTargetR,
		SLBudgetR:        s.SLBudgetR,
	}
}

// HasPair reports whether pair is one of the configured instruments.
func (s Settings) HasPair(pair string) bool {
	for _, p := range s.Pairs {
		if p == pair {
			return true
		}
	}
	return false
}

// JournalConfig selects and locates the entry store.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "sqlite", "postgres" or "resilient"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	PostgresURL string `json:"postgres_url,omitempty" yaml:"postgres_url,omitempty"`
	UserID      string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Load builds a config from defaults, then path (when not empty), then the
// environment. A .env file in the working directory is honoured.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML). Fields the
// file leaves out keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration as YAML for .yaml/.yml paths and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("SLTP_JOURNAL_TYPE"); val != "" {
		c.Journal.Type = val
	}
	if val := os.Getenv("SLTP_DB_PATH"); val != "" {
		c.Journal.DBPath = val
	}
	if val := os.Getenv("SLTP_POSTGRES_URL"); val != "" {
		c.Journal.PostgresURL = val
	}
	if val := os.Getenv("SLTP_USER_ID"); val != "" {
		c.Journal.UserID = val
	}
	if val := os.Getenv("SLTP_LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("SLTP_LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	if val := os.Getenv("SLTP_ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val := os.Getenv("SLTP_BEGINNING_BALANCE"); val != "" {
		if v, err := decimal.NewFromString(val); err == nil {
			c.Settings.BeginningBalance = v
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	s := c.Settings
	if s.DailyTargetR.IsNegative() {
		return fmt.Errorf("settings.daily_target_r must not be negative")
	}
	if s.SLBudgetR.IsNegative() {
		return fmt.Errorf("settings.sl_budget_r must not be negative")
	}
	if s.Theme != "dark" && s.Theme != "light" {
		return fmt.Errorf("settings.theme must be 'dark' or 'light'")
	}
	for _, p := range s.Pairs {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("settings.pairs contains an empty pair")
		}
	}
	if s.Challenge.DurationDays < 0 {
		return fmt.Errorf("settings.challenge.duration_days must not be negative")
	}
	if s.Challenge.Enabled && !s.Challenge.TargetBalance.IsPositive() {
		return fmt.Errorf("settings.challenge.target_balance must be positive when enabled")
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "postgres":
		if c.Journal.PostgresURL == "" {
			return fmt.Errorf("journal postgres_url required for postgres type")
		}
	case "resilient":
		if c.Journal.DBPath == "" || c.Journal.PostgresURL == "" {
			return fmt.Errorf("journal db_path and postgres_url required for resilient type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'postgres' or 'resilient'")
	}

	if c.Log.Format != "" && c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Settings: Settings{
			BeginningBalance: decimal.NewFromInt(10000),
			DailyTargetR:     decimal.NewFromInt(2),
			SLBudgetR:        decimal.NewFromInt(1),
			Theme:            "dark",
			Pairs:            []string{"BTC/USD", "ETH/USD", "SOL/USD", "XRP/USD"},
			Challenge: challenge.Settings{
				TargetBalance:   decimal.Zero,
				StartingBalance: decimal.Zero,
			},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./sltp.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
