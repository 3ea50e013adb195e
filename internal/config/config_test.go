package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var overrideVars = []string{
	"DATA_DIR", "SQLITE_PATH", "ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_BASE_URL",
	"ALPACA_DATA_URL", "LOG_LEVEL", "UNIVERSE_URL", "LOOKBACK_PERIOD", "APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range overrideVars {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "momentum.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  data_dir: "/tmp/momentum/data"
  sqlite_path: "/tmp/momentum/momentum.db"
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  base_url: "https://paper-api.alpaca.markets"
  data_url: "https://data.alpaca.markets"
logging:
  level: "debug"
  format: "json"
universe:
  url: "https://example.com/sp500.csv"
  bucket: "MIDCAP"
  bucket_size: 100
gather:
  prices:
    start_date: "2018-01-01"
    end_date: "2020-12-31"
    batch_size: 250
    rate_limit_per_min: 120
backtest:
  lookback_period: 90
  rebalance_freq: "W-FRI"
  selector: "above_median"
  selection_size: 30
  hold: "carry"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/momentum/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/momentum/data")
	}
	if cfg.Alpaca.APIKey != "test-key" || cfg.Alpaca.DataURL != "https://data.alpaca.markets" {
		t.Errorf("Alpaca = %+v", cfg.Alpaca)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Universe.Bucket != "MIDCAP" || cfg.Universe.BucketSize != 100 {
		t.Errorf("Universe = %+v", cfg.Universe)
	}
	// Unset columns fall back to defaults.
	if cfg.Universe.SymbolColumn != "Symbol" {
		t.Errorf("Universe.SymbolColumn = %q, want Symbol", cfg.Universe.SymbolColumn)
	}
	if cfg.Gather.Prices.EndDate != "2020-12-31" || cfg.Gather.Prices.BatchSize != 250 {
		t.Errorf("Gather.Prices = %+v", cfg.Gather.Prices)
	}
	if cfg.Gather.Prices.MaxAttempts != 3 {
		t.Errorf("Gather.Prices.MaxAttempts = %d, want default 3", cfg.Gather.Prices.MaxAttempts)
	}
	b := cfg.Backtest
	if b.LookbackPeriod != 90 || b.RebalanceFreq != "W-FRI" || b.Selector != "above_median" || b.SelectionSize != 30 || b.Hold != "carry" {
		t.Errorf("Backtest = %+v", b)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	b := cfg.Backtest
	if b.LookbackPeriod != 60 || b.RebalanceFreq != "W-TUE" || b.Selector != "top_n" || b.SelectionSize != 50 || b.Hold != "flat" {
		t.Errorf("Backtest defaults = %+v", b)
	}
	if cfg.Universe.Bucket != "LARGECAP" || cfg.Universe.BucketSize != 150 {
		t.Errorf("Universe defaults = %+v", cfg.Universe)
	}
	if cfg.Gather.Prices.StartDate != "2015-01-01" {
		t.Errorf("Gather.Prices.StartDate = %q, want 2015-01-01", cfg.Gather.Prices.StartDate)
	}
}

func TestLoadDefaultUniverseIsUS(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	u := cfg.Universe
	if !strings.Contains(u.URL, "s-and-p-500") {
		t.Errorf("Universe.URL = %q, want the S&P 500 list", u.URL)
	}
	if u.SymbolColumn != "Symbol" || u.MarketCapColumn != "Market Cap" || u.NameColumn != "Name" || u.IndustryColumn != "Sector" {
		t.Errorf("Universe columns = %+v, want the S&P 500 layout", u)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
alpaca:
  api_key: "yaml-key"
  api_secret: "yaml-secret"
storage:
  data_dir: "/original/data"
`)

	t.Setenv("ALPACA_API_KEY", "env-key")
	t.Setenv("DATA_DIR", "/env/data")
	t.Setenv("LOOKBACK_PERIOD", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "env-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (env override)", cfg.Alpaca.APIKey, "env-key")
	}
	if cfg.Alpaca.APISecret != "yaml-secret" {
		t.Errorf("Alpaca.APISecret = %q, want %q (from YAML)", cfg.Alpaca.APISecret, "yaml-secret")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
	if cfg.Backtest.LookbackPeriod != 20 {
		t.Errorf("Backtest.LookbackPeriod = %d, want 20 (env override)", cfg.Backtest.LookbackPeriod)
	}

	t.Setenv("APCA_API_KEY_ID", "sdk-key")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Alpaca.APIKey != "sdk-key" {
		t.Errorf("Alpaca.APIKey = %q, want APCA_API_KEY_ID to win", cfg.Alpaca.APIKey)
	}
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	if _, err := Load(writeConfig(t, "backtest:\n  lookback_period: -5\n")); err == nil || !strings.Contains(err.Error(), "lookback_period") {
		t.Errorf("Load error = %v, want lookback_period validation error", err)
	}
	if _, err := Load(writeConfig(t, "backtest: [\n")); err == nil {
		t.Error("Load of malformed YAML returned no error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file returned no error")
	}
}

func TestDefault(t *testing.T) {
	clearEnv(t)
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
