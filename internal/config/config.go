// Package config loads the YAML run configuration and applies environment
// variable overrides.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the backtest CLI.
type Config struct {
	Database    Database    `yaml:"database"`
	Logging     Logging     `yaml:"logging"`
	Costs       Costs       `yaml:"costs"`
	PriceLimits PriceLimits `yaml:"price_limits"`
	Backtest    Backtest    `yaml:"backtest"`
}

// Database holds the datasource connection string.
type Database struct {
	URL string `yaml:"url"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Costs holds the transaction cost parameters.
type Costs struct {
	CommissionRate     float64 `yaml:"commission_rate"`
	TaxRate            float64 `yaml:"tax_rate"`
	CommissionDiscount float64 `yaml:"commission_discount"`
}

// PriceLimits configures the daily circuit-breaker band.
type PriceLimits struct {
	Enabled      bool    `yaml:"enabled"`
	UpLimitPct   float64 `yaml:"up_limit_pct"`
	DownLimitPct float64 `yaml:"down_limit_pct"`
}

// Backtest holds the default run parameters.
type Backtest struct {
	InitialCapital float64  `yaml:"initial_capital"`
	RebalanceFreq  string   `yaml:"rebalance_freq"` // "M" or "Q"
	MaxStocks      int      `yaml:"max_stocks"`
	WeightMethod   string   `yaml:"weight_method"` // "equal" or "market_cap"
	Stocks         []string `yaml:"stocks"`
	Benchmark      string   `yaml:"benchmark"`
	Start          string   `yaml:"start"` // YYYY-MM-DD, empty = panel span
	End            string   `yaml:"end"`
}

// Default returns the standard configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: Logging{Level: "info"},
		Costs: Costs{
			CommissionRate:     0.001425,
			TaxRate:            0.003,
			CommissionDiscount: 0.6,
		},
		PriceLimits: PriceLimits{
			Enabled:      true,
			UpLimitPct:   0.10,
			DownLimitPct: -0.10,
		},
		Backtest: Backtest{
			InitialCapital: 1_000_000,
			RebalanceFreq:  "M",
			MaxStocks:      10,
			WeightMethod:   "equal",
		},
	}
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
