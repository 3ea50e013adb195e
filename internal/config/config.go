package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"momentum/internal/universe"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the momentum backtester.
type Config struct {
	Storage  Storage        `yaml:"storage"`
	Alpaca   Alpaca         `yaml:"alpaca"`
	Logging  Logging        `yaml:"logging"`
	Universe UniverseConfig `yaml:"universe"`
	Gather   GatherConfig   `yaml:"gather"`
	Backtest BacktestConfig `yaml:"backtest"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoints for the Alpaca APIs.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	DataURL   string `yaml:"data_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UniverseConfig locates the constituent list and picks the bucket to trade.
type UniverseConfig struct {
	URL             string `yaml:"url"`
	SymbolColumn    string `yaml:"symbol_column"`
	MarketCapColumn string `yaml:"market_cap_column"`
	NameColumn      string `yaml:"name_column"`
	IndustryColumn  string `yaml:"industry_column"`
	Bucket          string `yaml:"bucket"`
	BucketSize      int    `yaml:"bucket_size"`
}

// GatherConfig controls price downloads.
type GatherConfig struct {
	Prices GatherJobConfig `yaml:"prices"`
}

// GatherJobConfig holds parameters for a single data gathering job. An empty
// EndDate means the latest finished trading day.
type GatherJobConfig struct {
	StartDate       string `yaml:"start_date"`
	EndDate         string `yaml:"end_date"`
	BatchSize       int    `yaml:"batch_size"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
	MaxAttempts     int    `yaml:"max_attempts"`
}

// BacktestConfig holds the strategy parameters.
type BacktestConfig struct {
	LookbackPeriod int    `yaml:"lookback_period"`
	RebalanceFreq  string `yaml:"rebalance_freq"`
	Selector       string `yaml:"selector"`
	SelectionSize  int    `yaml:"selection_size"`
	Hold           string `yaml:"hold"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies environment variable overrides, fills defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied and no file
// behind it.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if c.Backtest.LookbackPeriod <= 0 {
		return fmt.Errorf("backtest.lookback_period must be positive, got %d", c.Backtest.LookbackPeriod)
	}
	if c.Backtest.SelectionSize <= 0 {
		return fmt.Errorf("backtest.selection_size must be positive, got %d", c.Backtest.SelectionSize)
	}
	if c.Universe.BucketSize <= 0 {
		return fmt.Errorf("universe.bucket_size must be positive, got %d", c.Universe.BucketSize)
	}
	if c.Gather.Prices.BatchSize <= 0 {
		return fmt.Errorf("gather.prices.batch_size must be positive, got %d", c.Gather.Prices.BatchSize)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.Storage.DataDir, "data")
	setDefault(&cfg.Storage.SQLitePath, "data/momentum.db")
	setDefault(&cfg.Alpaca.BaseURL, "https://paper-api.alpaca.markets")
	setDefault(&cfg.Logging.Level, "info")
	setDefault(&cfg.Logging.Format, "text")

	// The price provider only covers US listings, so the default list is US.
	setDefault(&cfg.Universe.URL, universe.DefaultURL)
	setDefault(&cfg.Universe.SymbolColumn, universe.DefaultColumns.Symbol)
	setDefault(&cfg.Universe.MarketCapColumn, universe.DefaultColumns.MarketCap)
	setDefault(&cfg.Universe.NameColumn, universe.DefaultColumns.Name)
	setDefault(&cfg.Universe.IndustryColumn, universe.DefaultColumns.Industry)
	setDefault(&cfg.Universe.Bucket, "LARGECAP")
	if cfg.Universe.BucketSize == 0 {
		cfg.Universe.BucketSize = 150
	}

	setDefault(&cfg.Gather.Prices.StartDate, "2015-01-01")
	if cfg.Gather.Prices.BatchSize == 0 {
		cfg.Gather.Prices.BatchSize = 100
	}
	if cfg.Gather.Prices.RateLimitPerMin == 0 {
		cfg.Gather.Prices.RateLimitPerMin = 200
	}
	if cfg.Gather.Prices.MaxAttempts == 0 {
		cfg.Gather.Prices.MaxAttempts = 3
	}

	if cfg.Backtest.LookbackPeriod == 0 {
		cfg.Backtest.LookbackPeriod = 60
	}
	setDefault(&cfg.Backtest.RebalanceFreq, "W-TUE")
	setDefault(&cfg.Backtest.Selector, "top_n")
	if cfg.Backtest.SelectionSize == 0 {
		cfg.Backtest.SelectionSize = 50
	}
	setDefault(&cfg.Backtest.Hold, "flat")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("UNIVERSE_URL"); v != "" {
		cfg.Universe.URL = v
	}
	if v := os.Getenv("LOOKBACK_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backtest.LookbackPeriod = n
		}
	}

	// Standard Alpaca env vars (highest priority, canonical names used by SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
