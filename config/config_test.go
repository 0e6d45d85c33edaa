package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.True(t, cfg.Settings.BeginningBalance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, cfg.Settings.DailyTargetR.Equal(decimal.NewFromInt(2)))
	assert.True(t, cfg.Settings.SLBudgetR.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "dark", cfg.Settings.Theme)
	assert.Equal(t, []string{"BTC/USD", "ETH/USD", "SOL/USD", "XRP/USD"}, cfg.Settings.Pairs)
	assert.False(t, cfg.Settings.Challenge.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "negative target",
			mutate:  func(c *Config) { c.Settings.DailyTargetR = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "settings.daily_target_r must not be negative",
		},
		{
			name:    "negative sl budget",
			mutate:  func(c *Config) { c.Settings.SLBudgetR = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "settings.sl_budget_r must not be negative",
		},
		{
			name:    "bad theme",
			mutate:  func(c *Config) { c.Settings.Theme = "neon" },
			wantErr: true,
			errMsg:  "settings.theme",
		},
		{
			name:    "blank pair",
			mutate:  func(c *Config) { c.Settings.Pairs = append(c.Settings.Pairs, " ") },
			wantErr: true,
			errMsg:  "empty pair",
		},
		{
			name:    "enabled challenge without target",
			mutate:  func(c *Config) { c.Settings.Challenge.Enabled = true },
			wantErr: true,
			errMsg:  "target_balance must be positive",
		},
		{
			name:    "negative duration",
			mutate:  func(c *Config) { c.Settings.Challenge.DurationDays = -3 },
			wantErr: true,
			errMsg:  "duration_days",
		},
		{
			name:    "unknown journal",
			mutate:  func(c *Config) { c.Journal.Type = "csv" },
			wantErr: true,
			errMsg:  "journal.type",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Journal.Type = "postgres" },
			wantErr: true,
			errMsg:  "postgres_url required",
		},
		{
			name: "resilient without db path",
			mutate: func(c *Config) {
				c.Journal.Type = "resilient"
				c.Journal.PostgresURL = "postgres://localhost/sltp"
				c.Journal.DBPath = ""
			},
			wantErr: true,
			errMsg:  "db_path and postgres_url",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sltp.yaml")

	cfg := Default()
	cfg.Settings.BeginningBalance = decimal.RequireFromString("2500.75")
	cfg.Settings.Challenge.Enabled = true
	cfg.Settings.Challenge.TargetBalance = decimal.NewFromInt(5000)
	cfg.Settings.Challenge.DurationDays = 90
	cfg.Settings.Challenge.StartDate = "2025-12-01"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Settings.BeginningBalance.Equal(cfg.Settings.BeginningBalance))
	assert.Equal(t, cfg.Settings.Challenge.StartDate, loaded.Settings.Challenge.StartDate)
	assert.True(t, loaded.Settings.Challenge.TargetBalance.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, cfg.Settings.Pairs, loaded.Settings.Pairs)
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sltp.json")

	cfg := Default()
	cfg.Journal.DBPath = "/tmp/other.db"
	require.NoError(t, cfg.SaveToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"db_path": "/tmp/other.db"`)

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", loaded.Journal.DBPath)
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  beginning_balance: 7500\n  theme: light\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Settings.BeginningBalance.Equal(decimal.NewFromInt(7500)))
	assert.Equal(t, "light", cfg.Settings.Theme)
	assert.True(t, cfg.Settings.DailyTargetR.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal:\n  type: csv\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SLTP_DB_PATH", "/var/lib/sltp/journal.db")
	t.Setenv("SLTP_LOG_LEVEL", "debug")
	t.Setenv("SLTP_BEGINNING_BALANCE", "4321.5")
	t.Setenv("SLTP_ADDR", "127.0.0.1:9999")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/sltp/journal.db", cfg.Journal.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.True(t, cfg.Settings.BeginningBalance.Equal(decimal.RequireFromString("4321.5")))
}

func TestPolicyAndPairs(t *testing.T) {
	s := Default().Settings
	p := s.Policy()
	assert.True(t, p.BeginningBalance.Equal(s.BeginningBalance))
	assert.True(t, p.DailyTargetR.Equal(s.DailyTargetR))
	assert.True(t, s.HasPair("ETH/USD"))
	assert.False(t, s.HasPair("DOGE/USD"))
}
