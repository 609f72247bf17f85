// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
	Watchlists WatchlistsConfig `mapstructure:"watchlists"`
	State      StateConfig      `mapstructure:"state"`
	History    HistoryConfig    `mapstructure:"history"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// BotConfig holds credentials for one Telegram bot.
type BotConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// TelegramConfig holds Telegram notification configuration. The volatility
// and upcoming bots fall back to the IPO bot when left unset.
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	IPO            BotConfig     `mapstructure:"ipo"`
	Volatility     BotConfig     `mapstructure:"volatility"`
	Upcoming       BotConfig     `mapstructure:"upcoming"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// SourcesConfig holds market data source configuration
type SourcesConfig struct {
	YahooBaseURL       string        `mapstructure:"yahoo_base_url"`
	NasdaqBaseURL      string        `mapstructure:"nasdaq_base_url"`
	IPOScoopBaseURL    string        `mapstructure:"iposcoop_base_url"`
	MarketWatchBaseURL string        `mapstructure:"marketwatch_base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxRetries         int           `mapstructure:"max_retries"`
	RetryDelayBase     time.Duration `mapstructure:"retry_delay_base"`
	RequestsPerSecond  float64       `mapstructure:"requests_per_second"`
}

// MonitorConfig holds alert-decision thresholds
type MonitorConfig struct {
	VolatilityThresholdPercent float64 `mapstructure:"volatility_threshold_percent"`
	AlertDaysBefore            int     `mapstructure:"alert_days_before"`
	MaxDaysAhead               int     `mapstructure:"max_days_ahead"`
	DaysAfterIPOToKeep         int     `mapstructure:"days_after_ipo_to_keep"`
}

// WatchlistsConfig holds watchlist file paths
type WatchlistsConfig struct {
	IPOFile      string `mapstructure:"ipo_file"`
	VolFile      string `mapstructure:"volatility_file"`
	UpcomingFile string `mapstructure:"upcoming_file"`
	IPODatesFile string `mapstructure:"ipo_dates_file"`
}

// StateConfig holds the directory for per-watchlist state files
type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// HistoryConfig holds the optional alert-history database path.
// An empty path disables history recording.
type HistoryConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("IPO_ALERT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyBotFallbacks()
	return &cfg, nil
}

// applyBotFallbacks fills the volatility and upcoming bot credentials from
// the IPO bot when they are not configured separately.
func (c *Config) applyBotFallbacks() {
	if c.Telegram.Volatility.BotToken == "" {
		c.Telegram.Volatility.BotToken = c.Telegram.IPO.BotToken
	}
	if c.Telegram.Volatility.ChatID == "" {
		c.Telegram.Volatility.ChatID = c.Telegram.IPO.ChatID
	}
	if c.Telegram.Upcoming.BotToken == "" {
		c.Telegram.Upcoming.BotToken = c.Telegram.IPO.BotToken
	}
	if c.Telegram.Upcoming.ChatID == "" {
		c.Telegram.Upcoming.ChatID = c.Telegram.IPO.ChatID
	}
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("sources.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("sources.nasdaq_base_url", "https://api.nasdaq.com")
	v.SetDefault("sources.iposcoop_base_url", "https://www.iposcoop.com")
	v.SetDefault("sources.marketwatch_base_url", "https://www.marketwatch.com")
	v.SetDefault("sources.timeout", "15s")
	v.SetDefault("sources.max_retries", 3)
	v.SetDefault("sources.retry_delay_base", "1s")
	v.SetDefault("sources.requests_per_second", 2.0)

	// Monitor defaults
	v.SetDefault("monitor.volatility_threshold_percent", 5.0)
	v.SetDefault("monitor.alert_days_before", 2)
	v.SetDefault("monitor.max_days_ahead", 7)
	v.SetDefault("monitor.days_after_ipo_to_keep", 2)

	// Watchlist defaults
	v.SetDefault("watchlists.ipo_file", "ipoWatchList.txt")
	v.SetDefault("watchlists.volatility_file", "volatilityWatchList.txt")
	v.SetDefault("watchlists.upcoming_file", "upcomingIPOList.txt")
	v.SetDefault("watchlists.ipo_dates_file", "ipo_watchlist_dates.json")

	// State defaults
	v.SetDefault("state.dir", "./state")

	// History defaults (empty = disabled)
	v.SetDefault("history.db_path", "")

	// Telegram defaults
	v.SetDefault("telegram.enabled", true)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Telegram.Enabled {
		if c.Telegram.IPO.BotToken == "" {
			return fmt.Errorf("telegram.ipo.bot_token is required when telegram is enabled")
		}
		if c.Telegram.IPO.ChatID == "" {
			return fmt.Errorf("telegram.ipo.chat_id is required when telegram is enabled")
		}
	}

	if c.Sources.YahooBaseURL == "" {
		return fmt.Errorf("sources.yahoo_base_url is required")
	}
	if c.Sources.NasdaqBaseURL == "" {
		return fmt.Errorf("sources.nasdaq_base_url is required")
	}
	if c.Sources.Timeout < time.Second || c.Sources.Timeout > 30*time.Second {
		return fmt.Errorf("sources.timeout must be between 1s and 30s")
	}
	if c.Sources.MaxRetries < 1 {
		return fmt.Errorf("sources.max_retries must be at least 1")
	}
	if c.Sources.RequestsPerSecond <= 0 {
		return fmt.Errorf("sources.requests_per_second must be positive")
	}

	if c.Monitor.VolatilityThresholdPercent <= 0 {
		return fmt.Errorf("monitor.volatility_threshold_percent must be positive")
	}
	if c.Monitor.AlertDaysBefore < 0 {
		return fmt.Errorf("monitor.alert_days_before must not be negative")
	}
	if c.Monitor.MaxDaysAhead < c.Monitor.AlertDaysBefore {
		return fmt.Errorf("monitor.max_days_ahead must be at least alert_days_before")
	}
	if c.Monitor.DaysAfterIPOToKeep < 0 {
		return fmt.Errorf("monitor.days_after_ipo_to_keep must not be negative")
	}

	if c.Watchlists.IPOFile == "" || c.Watchlists.VolFile == "" || c.Watchlists.UpcomingFile == "" {
		return fmt.Errorf("watchlists file paths are required")
	}
	if c.State.Dir == "" {
		return fmt.Errorf("state.dir is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
