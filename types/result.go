package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency selects the rebalance schedule granularity.
type Frequency string

// WeightMethod selects how target weights are assigned at a rebalance.
type WeightMethod string

const (
	Monthly   Frequency = "M"
	Quarterly Frequency = "Q"

	WeightEqual     WeightMethod = "equal"
	WeightMarketCap WeightMethod = "market_cap"
)

// Dataset bundles the named panels a backtest consumes. Close is required;
// MarketValue is only needed for market-cap weighting; Benchmark is optional
// (empty series means absent).
type Dataset struct {
	Close       *PricePanel
	MarketValue *PricePanel
	Benchmark   Series
}

// RunConfig echoes the parameters of one backtest run.
type RunConfig struct {
	RunID          string
	InitialCapital decimal.Decimal
	Start          time.Time
	End            time.Time
	RebalanceFreq  Frequency
	MaxStocks      int
	WeightMethod   WeightMethod
}

// BacktestResult is the terminal output of one engine run.
type BacktestResult struct {
	PortfolioValues     Series
	Trades              []Trade
	PositionsHistory    []PortfolioPoint
	Metrics             PerformanceMetrics
	BenchmarkComparison *BenchmarkComparison
	Config              RunConfig
}
