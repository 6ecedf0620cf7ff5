package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one open holding. A position with zero shares never exists in
// a ledger; full exits remove the entry entirely.
type Position struct {
	StockID   string
	Shares    int64
	CostBasis decimal.Decimal // cumulative cost of the shares currently held
	EntryDate time.Time
}

// Trade is a closed-position record. It is emitted exactly once, when a
// position's remaining shares reach zero, and never mutated afterwards.
type Trade struct {
	StockID     string
	EntryDate   time.Time
	EntryPrice  decimal.Decimal
	ExitDate    time.Time
	ExitPrice   decimal.Decimal
	Shares      int64
	PnL         decimal.Decimal
	ReturnPct   float64
	HoldingDays int
}

// PortfolioPoint is the daily valuation snapshot recorded by the engine.
type PortfolioPoint struct {
	Date          time.Time
	Value         decimal.Decimal
	Cash          decimal.Decimal
	PositionCount int
}
