package engine

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"stocklab/types"
)

// EngineConfig holds the cost, capital and price-limit parameters of an
// engine instance. They stay fixed across runs.
type EngineConfig struct {
	InitialCapital decimal.Decimal

	CommissionRate     decimal.Decimal
	TaxRate            decimal.Decimal
	CommissionDiscount decimal.Decimal

	PriceLimitEnabled bool
	UpLimitPct        float64
	DownLimitPct      float64

	// Logger receives debug-level simulation events. Nil disables logging.
	Logger *slog.Logger
}

// DefaultEngineConfig returns the standard retail-brokerage parameters:
// 0.1425 % commission at a 60 % discount, 0.3 % sell tax, ±10 % daily price
// band, 1,000,000 initial capital.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		InitialCapital:     decimal.NewFromInt(1_000_000),
		CommissionRate:     decimal.RequireFromString("0.001425"),
		TaxRate:            decimal.RequireFromString("0.003"),
		CommissionDiscount: decimal.RequireFromString("0.6"),
		PriceLimitEnabled:  true,
		UpLimitPct:         0.10,
		DownLimitPct:       -0.10,
	}
}

// RunOptions parameterizes a single Run call. Zero start/end default to the
// full span of the close panel.
type RunOptions struct {
	Start time.Time
	End   time.Time

	RebalanceFreq types.Frequency    // default Monthly
	MaxStocks     int                // default 10
	WeightMethod  types.WeightMethod // default equal

	// ShowProgress renders a progress bar over trading dates.
	ShowProgress bool
}

func (o RunOptions) withDefaults() RunOptions {
	if o.RebalanceFreq == "" {
		o.RebalanceFreq = types.Monthly
	}
	if o.MaxStocks <= 0 {
		o.MaxStocks = 10
	}
	if o.WeightMethod == "" {
		o.WeightMethod = types.WeightEqual
	}
	return o
}
