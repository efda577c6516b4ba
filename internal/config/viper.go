// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BUDGET_LOG_LEVEL.
const EnvPrefix = "BUDGET"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter       string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat      string `mapstructure:"date_format" yaml:"date_format"`
		DefaultCurrency string `mapstructure:"default_currency" yaml:"default_currency"`
	} `mapstructure:"csv" yaml:"csv"`

	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`

	Tables struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"tables" yaml:"tables"`

	Ledger struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"ledger" yaml:"ledger"`

	AI struct {
		Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
		Model             string `mapstructure:"model" yaml:"model"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Server struct {
		Address string `mapstructure:"address" yaml:"address"`
	} `mapstructure:"server" yaml:"server"`
}

// EngineConfig holds the temporal and redistribution tuning knobs.
type EngineConfig struct {
	WeekendFactor              float64  `mapstructure:"weekend_factor" yaml:"weekend_factor"`
	WeekendDays                []string `mapstructure:"weekend_days" yaml:"weekend_days"`
	MonthEndConservationFactor float64  `mapstructure:"month_end_conservation_factor" yaml:"month_end_conservation_factor"`
	MonthEndWindowDays         int      `mapstructure:"month_end_window_days" yaml:"month_end_window_days"`
	MinFactor                  float64  `mapstructure:"min_factor" yaml:"min_factor"`
	PaydayDay                  int      `mapstructure:"payday_day" yaml:"payday_day"`
	PaydayWindowDays           int      `mapstructure:"payday_window_days" yaml:"payday_window_days"`
	PaydayFactor               float64  `mapstructure:"payday_factor" yaml:"payday_factor"`
	RedistributionBufferRatio  float64  `mapstructure:"redistribution_buffer_ratio" yaml:"redistribution_buffer_ratio"`
	MinDailyRatio              float64  `mapstructure:"min_daily_ratio" yaml:"min_daily_ratio"`
	RoundingTolerance          float64  `mapstructure:"rounding_tolerance" yaml:"rounding_tolerance"`
	NormalizeTemporal          bool     `mapstructure:"normalize_temporal" yaml:"normalize_temporal"`
	TransitionBand             float64  `mapstructure:"transition_band" yaml:"transition_band"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig with an explicit config file.
// An empty path searches the standard locations instead.
func InitializeConfigFromFile(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.daily-budget")
		v.AddConfigPath(".daily-budget")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if path != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. API key comes from the unprefixed variable
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration obtained from defaults alone.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "2006-01-02")
	v.SetDefault("csv.default_currency", "CHF")

	// Engine defaults
	v.SetDefault("engine.weekend_factor", 1.15)
	v.SetDefault("engine.weekend_days", []string{"saturday", "sunday"})
	v.SetDefault("engine.month_end_conservation_factor", 0.85)
	v.SetDefault("engine.month_end_window_days", 5)
	v.SetDefault("engine.min_factor", 0.5)
	v.SetDefault("engine.payday_day", 0)
	v.SetDefault("engine.payday_window_days", 3)
	v.SetDefault("engine.payday_factor", 1.05)
	v.SetDefault("engine.redistribution_buffer_ratio", 0.20)
	v.SetDefault("engine.min_daily_ratio", 0.0)
	v.SetDefault("engine.rounding_tolerance", 0.01)
	v.SetDefault("engine.normalize_temporal", true)
	v.SetDefault("engine.transition_band", 0.05)

	// Tables and ledger
	v.SetDefault("tables.file", "")
	v.SetDefault("ledger.enabled", false)
	v.SetDefault("ledger.path", defaultLedgerPath())

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("server.address", ":8080")
}

func defaultLedgerPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".daily-budget", "ledger.db")
	}
	return filepath.Join(home, ".daily-budget", "ledger.db")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if err := validateEngine(&config.Engine); err != nil {
		return err
	}

	if config.Ledger.Enabled && config.Ledger.Path == "" {
		return fmt.Errorf("ledger.path required when the ledger is enabled")
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}

		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", config.AI.RequestsPerMinute)
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}

func validateEngine(e *EngineConfig) error {
	factors := map[string]float64{
		"engine.weekend_factor":                e.WeekendFactor,
		"engine.month_end_conservation_factor": e.MonthEndConservationFactor,
		"engine.min_factor":                    e.MinFactor,
		"engine.payday_factor":                 e.PaydayFactor,
	}
	for key, f := range factors {
		if f <= 0 {
			return fmt.Errorf("%s must be > 0, got: %v", key, f)
		}
	}

	if e.RedistributionBufferRatio < 0 || e.RedistributionBufferRatio > 1 {
		return fmt.Errorf("engine.redistribution_buffer_ratio must be between 0 and 1, got: %v", e.RedistributionBufferRatio)
	}
	if e.MinDailyRatio < 0 || e.MinDailyRatio > 1 {
		return fmt.Errorf("engine.min_daily_ratio must be between 0 and 1, got: %v", e.MinDailyRatio)
	}
	if e.TransitionBand < 0 || e.TransitionBand >= 1 {
		return fmt.Errorf("engine.transition_band must be in [0, 1), got: %v", e.TransitionBand)
	}
	if e.RoundingTolerance < 0 {
		return fmt.Errorf("engine.rounding_tolerance must be >= 0, got: %v", e.RoundingTolerance)
	}
	if e.MonthEndWindowDays < 0 || e.PaydayWindowDays < 0 {
		return fmt.Errorf("engine window sizes must be >= 0")
	}
	if e.PaydayDay < 0 || e.PaydayDay > 31 {
		return fmt.Errorf("engine.payday_day must be between 0 and 31, got: %d", e.PaydayDay)
	}
	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
