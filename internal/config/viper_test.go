package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "2006-01-02", config.CSV.DateFormat)
	assert.Equal(t, "CHF", config.CSV.DefaultCurrency)

	assert.Equal(t, 1.15, config.Engine.WeekendFactor)
	assert.Equal(t, []string{"saturday", "sunday"}, config.Engine.WeekendDays)
	assert.Equal(t, 0.85, config.Engine.MonthEndConservationFactor)
	assert.Equal(t, 5, config.Engine.MonthEndWindowDays)
	assert.Equal(t, 0.5, config.Engine.MinFactor)
	assert.Equal(t, 0, config.Engine.PaydayDay)
	assert.Equal(t, 0.20, config.Engine.RedistributionBufferRatio)
	assert.Equal(t, 0.01, config.Engine.RoundingTolerance)
	assert.True(t, config.Engine.NormalizeTemporal)
	assert.Equal(t, 0.05, config.Engine.TransitionBand)

	assert.Equal(t, "", config.Tables.File)
	assert.False(t, config.Ledger.Enabled)
	assert.NotEmpty(t, config.Ledger.Path)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-2.0-flash", config.AI.Model)
	assert.Equal(t, 10, config.AI.RequestsPerMinute)
	assert.Equal(t, 30, config.AI.TimeoutSeconds)
	assert.Equal(t, ":8080", config.Server.Address)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	testEnvVars := map[string]string{
		"BUDGET_LOG_LEVEL":                 "debug",
		"BUDGET_LOG_FORMAT":                "json",
		"BUDGET_CSV_DELIMITER":             ";",
		"BUDGET_ENGINE_WEEKEND_FACTOR":     "1.3",
		"BUDGET_ENGINE_PAYDAY_DAY":         "25",
		"BUDGET_ENGINE_NORMALIZE_TEMPORAL": "false",
		"BUDGET_AI_ENABLED":                "true",
		"BUDGET_AI_REQUESTS_PER_MINUTE":    "15",
		"BUDGET_SERVER_ADDRESS":            "127.0.0.1:9000",
		"GEMINI_API_KEY":                   "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, 1.3, config.Engine.WeekendFactor)
	assert.Equal(t, 25, config.Engine.PaydayDay)
	assert.False(t, config.Engine.NormalizeTemporal)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, 15, config.AI.RequestsPerMinute)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Address)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestInitializeConfigFromFile(t *testing.T) {
	clearTestEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "budget.yaml")
	configContent := `
log:
  level: "warn"
engine:
  weekend_factor: 1.2
  weekend_days: ["friday", "saturday"]
  month_end_window_days: 3
ledger:
  enabled: true
  path: "/tmp/ledger.db"
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0600))

	config, err := InitializeConfigFromFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, 1.2, config.Engine.WeekendFactor)
	assert.Equal(t, []string{"friday", "saturday"}, config.Engine.WeekendDays)
	assert.Equal(t, 3, config.Engine.MonthEndWindowDays)
	assert.Equal(t, 0.85, config.Engine.MonthEndConservationFactor)
	assert.True(t, config.Ledger.Enabled)
	assert.Equal(t, "/tmp/ledger.db", config.Ledger.Path)
}

func TestInitializeConfigFromFile_EnvOverridesFile(t *testing.T) {
	clearTestEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "budget.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: warn\n"), 0600))
	t.Setenv("BUDGET_LOG_LEVEL", "error")

	config, err := InitializeConfigFromFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)
}

func TestInitializeConfigFromFile_Missing(t *testing.T) {
	clearTestEnvVars(t)

	_, err := InitializeConfigFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectedErr string
	}{
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "loud" }, expectedErr: "invalid log level"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, expectedErr: "invalid log format"},
		{name: "delimiter", mutate: func(c *Config) { c.CSV.Delimiter = ";;" }, expectedErr: "single character"},
		{name: "weekend factor", mutate: func(c *Config) { c.Engine.WeekendFactor = 0 }, expectedErr: "engine.weekend_factor"},
		{name: "min factor", mutate: func(c *Config) { c.Engine.MinFactor = -1 }, expectedErr: "engine.min_factor"},
		{name: "buffer ratio", mutate: func(c *Config) { c.Engine.RedistributionBufferRatio = 1.5 }, expectedErr: "redistribution_buffer_ratio"},
		{name: "min daily ratio", mutate: func(c *Config) { c.Engine.MinDailyRatio = -0.1 }, expectedErr: "min_daily_ratio"},
		{name: "transition band", mutate: func(c *Config) { c.Engine.TransitionBand = 1 }, expectedErr: "transition_band"},
		{name: "payday day", mutate: func(c *Config) { c.Engine.PaydayDay = 40 }, expectedErr: "payday_day"},
		{name: "ledger path", mutate: func(c *Config) { c.Ledger.Enabled = true; c.Ledger.Path = "" }, expectedErr: "ledger.path"},
		{name: "ai without key", mutate: func(c *Config) { c.AI.Enabled = true }, expectedErr: "GEMINI_API_KEY"},
		{
			name:        "ai rate",
			mutate:      func(c *Config) { c.AI.Enabled = true; c.AI.APIKey = "k"; c.AI.RequestsPerMinute = 0 },
			expectedErr: "requests_per_minute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			require.NoError(t, validateConfig(config))

			tt.mutate(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := DefaultConfig()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.Level)
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	config.Log.Level = "nonsense"
	config.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.InfoLevel, logger.Level)
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	// Isolate from any config.yaml in the real home directory.
	t.Setenv("HOME", t.TempDir())
	for _, env := range os.Environ() {
		key, _, _ := strings.Cut(env, "=")
		if strings.HasPrefix(key, EnvPrefix+"_") || key == "GEMINI_API_KEY" {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
}
