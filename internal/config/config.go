package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Fetch struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		OHLCVPeriod    string `yaml:"ohlcv_period"`
		MinPoints      int    `yaml:"min_points"`
		MaxRetries     int    `yaml:"max_retries"`
		BackoffSeconds int    `yaml:"backoff_seconds"`
		PauseSeconds   int    `yaml:"pause_seconds"`
		NewsLimit      int    `yaml:"news_limit"`
		Proxy          string `yaml:"proxy"`
	} `yaml:"fetch"`
	Providers struct {
		Quote        []string `yaml:"quote"`
		OHLCV        []string `yaml:"ohlcv"`
		Fundamentals []string `yaml:"fundamentals"`
		News         []string `yaml:"news"`
	} `yaml:"providers"`
	Keys struct {
		Finnhub      string `yaml:"finnhub"`
		AlphaVantage string `yaml:"alpha_vantage"`
		AllTick      string `yaml:"alltick"`
		Snowball     string `yaml:"snowball"`
		FMP          string `yaml:"fmp"`
		NewsAPI      string `yaml:"newsapi"`
	} `yaml:"keys"`
	Schedule struct {
		UpdateCron string `yaml:"update_cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Output struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Quality struct {
		MaxAgeHours int `yaml:"max_age_hours"`
	} `yaml:"quality"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Keys.Finnhub = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.Keys.AlphaVantage = v
	}
	if v := os.Getenv("ALLTICK_API_KEY"); v != "" {
		cfg.Keys.AllTick = v
	}
	if v := os.Getenv("SNOWBALL_TOKEN"); v != "" {
		cfg.Keys.Snowball = v
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.Keys.FMP = v
	}
	if v := os.Getenv("NEWSAPI_API_KEY"); v != "" {
		cfg.Keys.NewsAPI = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Fetch.Proxy = v
	}
	if v := os.Getenv("UPDATE_CRON"); v != "" {
		cfg.Schedule.UpdateCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Output.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = 15
	}
	if cfg.Fetch.OHLCVPeriod == "" {
		cfg.Fetch.OHLCVPeriod = "3mo"
	}
	if cfg.Fetch.MinPoints == 0 {
		cfg.Fetch.MinPoints = 30
	}
	if cfg.Fetch.MaxRetries == 0 {
		cfg.Fetch.MaxRetries = 3
	}
	if cfg.Fetch.BackoffSeconds == 0 {
		cfg.Fetch.BackoffSeconds = 2
	}
	if cfg.Fetch.PauseSeconds == 0 {
		cfg.Fetch.PauseSeconds = 1
	}
	if cfg.Fetch.NewsLimit == 0 {
		cfg.Fetch.NewsLimit = 10
	}
	if len(cfg.Providers.Quote) == 0 {
		cfg.Providers.Quote = []string{"akshare", "alltick", "yfinance", "snowball"}
	}
	if len(cfg.Providers.OHLCV) == 0 {
		cfg.Providers.OHLCV = []string{"akshare", "alltick", "yfinance", "snowball"}
	}
	if len(cfg.Providers.Fundamentals) == 0 {
		cfg.Providers.Fundamentals = []string{"yfinance"}
	}
	if len(cfg.Providers.News) == 0 {
		cfg.Providers.News = []string{"yfinance", "newsapi"}
	}
	if cfg.Schedule.UpdateCron == "" {
		cfg.Schedule.UpdateCron = "0 0 */4 * * *"
	}
	if cfg.Output.DataDir == "" {
		cfg.Output.DataDir = "data"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_master.db"
	}
	if cfg.Quality.MaxAgeHours == 0 {
		cfg.Quality.MaxAgeHours = 24
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be positive")
	}
	if c.Fetch.MinPoints <= 0 {
		return fmt.Errorf("fetch.min_points must be positive")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative")
	}
	switch c.Fetch.OHLCVPeriod {
	case "1mo", "3mo", "6mo", "1y":
	default:
		return fmt.Errorf("fetch.ohlcv_period %q is not one of 1mo, 3mo, 6mo, 1y", c.Fetch.OHLCVPeriod)
	}
	if len(c.Providers.Quote) == 0 {
		return fmt.Errorf("providers.quote must name at least one provider")
	}
	if len(c.Providers.OHLCV) == 0 {
		return fmt.Errorf("providers.ohlcv must name at least one provider")
	}
	return nil
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// Backoff returns the base retry backoff for a full build attempt.
func (c *Config) Backoff() time.Duration {
	return time.Duration(c.Fetch.BackoffSeconds) * time.Second
}

// Pause returns the delay between consecutive instruments in a cycle.
func (c *Config) Pause() time.Duration {
	return time.Duration(c.Fetch.PauseSeconds) * time.Second
}
