package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"stocklab/types"
)

// OpStatus tells whether a ledger operation traded or was skipped.
type OpStatus string

const (
	OpApplied OpStatus = "applied"
	OpSkipped OpStatus = "skipped"
)

// Skip reasons reported by ledger operations.
const (
	SkipNoNotional       = "non-positive notional"
	SkipNoCash           = "no cash"
	SkipNoPrice          = "no usable price"
	SkipBelowOneShare    = "below one share"
	SkipInsufficientCash = "insufficient cash"
	SkipNoPosition       = "no position"
	SkipNoShares         = "non-positive share count"
	SkipLimitUp          = "limit-up, cannot buy"
	SkipLimitDown        = "limit-down, cannot sell"
)

// OpResult reports what a ledger operation did. Operations never fail; a
// degenerate request is a skip, not an error.
type OpResult struct {
	Status OpStatus
	Reason string
	Shares int64
}

func applied(shares int64) OpResult { return OpResult{Status: OpApplied, Shares: shares} }
func skipped(reason string) OpResult {
	return OpResult{Status: OpSkipped, Reason: reason}
}

// Quote carries the prices the ledger needs to trade one stock on one day.
// PrevClose may be NaN when the previous day's price is unknown.
type Quote struct {
	Price     float64
	PrevClose float64
}

// Ledger owns the cash balance and open positions of one backtest run. It
// applies the cost model and price-limit filter on every operation and emits
// a Trade record on each full exit.
type Ledger struct {
	cash      decimal.Decimal
	positions map[string]*types.Position
	trades    []types.Trade
	costs     CostModel
	limits    LimitFilter
}

func NewLedger(initialCash decimal.Decimal, costs CostModel, limits LimitFilter) *Ledger {
	return &Ledger{
		cash:      initialCash,
		positions: make(map[string]*types.Position),
		costs:     costs,
		limits:    limits,
	}
}

func (l *Ledger) Cash() decimal.Decimal { return l.cash }

func (l *Ledger) PositionCount() int { return len(l.positions) }

// Position returns a copy of the open position for a stock.
func (l *Ledger) Position(stock string) (types.Position, bool) {
	pos, ok := l.positions[stock]
	if !ok {
		return types.Position{}, false
	}
	return *pos, true
}

// HeldStocks returns the IDs of all currently open positions.
func (l *Ledger) HeldStocks() []string {
	out := make([]string, 0, len(l.positions))
	for s := range l.positions {
		out = append(out, s)
	}
	return out
}

// Trades returns the closed-trade log accumulated so far.
func (l *Ledger) Trades() []types.Trade {
	out := make([]types.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Buy spends up to targetNotional on the stock at the quoted price. Share
// count is floored, and reduced further when cash cannot cover shares plus
// the estimated fee, so cash never goes negative.
func (l *Ledger) Buy(stock string, date time.Time, quote Quote, targetNotional decimal.Decimal) OpResult {
	if targetNotional.Sign() <= 0 {
		return skipped(SkipNoNotional)
	}
	if l.cash.Sign() <= 0 {
		return skipped(SkipNoCash)
	}

	canBuy, _, adjusted := l.limits.Check(quote.Price, quote.PrevClose)
	if !canBuy {
		return skipped(SkipLimitUp)
	}
	if adjusted <= 0 {
		return skipped(SkipNoPrice)
	}
	price := decimal.NewFromFloat(adjusted)

	shares := targetNotional.Div(price).IntPart()
	if shares <= 0 {
		return skipped(SkipBelowOneShare)
	}

	cost := price.Mul(decimal.NewFromInt(shares))
	fee := l.costs.Cost(cost, false)

	if cost.Add(fee).GreaterThan(l.cash) {
		// Not enough cash for the requested size: resize once using the
		// available cash net of the estimated fee.
		shares = l.cash.Sub(fee).Div(price).IntPart()
		if shares <= 0 {
			return skipped(SkipInsufficientCash)
		}
		cost = price.Mul(decimal.NewFromInt(shares))
		fee = l.costs.Cost(cost, false)
	}

	l.cash = l.cash.Sub(cost).Sub(fee)

	if pos, ok := l.positions[stock]; ok {
		pos.Shares += shares
		pos.CostBasis = pos.CostBasis.Add(cost)
	} else {
		l.positions[stock] = &types.Position{
			StockID:   stock,
			Shares:    shares,
			CostBasis: cost,
			EntryDate: date,
		}
	}
	return applied(shares)
}

// SellAll closes the position at the quoted price and emits a Trade record.
func (l *Ledger) SellAll(stock string, date time.Time, quote Quote) OpResult {
	pos, ok := l.positions[stock]
	if !ok {
		return skipped(SkipNoPosition)
	}

	_, canSell, adjusted := l.limits.Check(quote.Price, quote.PrevClose)
	if !canSell {
		return skipped(SkipLimitDown)
	}
	price := decimal.NewFromFloat(adjusted)

	sharesDec := decimal.NewFromInt(pos.Shares)
	proceeds := sharesDec.Mul(price)
	fee := l.costs.Cost(proceeds, true)

	pnl := proceeds.Sub(pos.CostBasis).Sub(fee)
	returnPct := 0.0
	if pos.CostBasis.Sign() > 0 {
		returnPct = pnl.Div(pos.CostBasis).InexactFloat64() * 100
	}

	entryPrice := decimal.Zero
	if pos.Shares > 0 {
		entryPrice = pos.CostBasis.Div(sharesDec)
	}

	l.trades = append(l.trades, types.Trade{
		StockID:     stock,
		EntryDate:   pos.EntryDate,
		EntryPrice:  entryPrice,
		ExitDate:    date,
		ExitPrice:   price,
		Shares:      pos.Shares,
		PnL:         pnl,
		ReturnPct:   returnPct,
		HoldingDays: int(date.Sub(pos.EntryDate).Hours() / 24),
	})

	l.cash = l.cash.Add(proceeds).Sub(fee)
	delete(l.positions, stock)

	return applied(pos.Shares)
}

// SellPartial reduces the position by sharesToSell, shrinking the cost basis
// proportionally. No Trade record is emitted since the position stays open;
// selling the whole position (or more) delegates to SellAll.
func (l *Ledger) SellPartial(stock string, date time.Time, quote Quote, sharesToSell int64) OpResult {
	pos, ok := l.positions[stock]
	if !ok {
		return skipped(SkipNoPosition)
	}
	if sharesToSell <= 0 {
		return skipped(SkipNoShares)
	}
	if sharesToSell >= pos.Shares {
		return l.SellAll(stock, date, quote)
	}

	_, canSell, adjusted := l.limits.Check(quote.Price, quote.PrevClose)
	if !canSell {
		return skipped(SkipLimitDown)
	}
	price := decimal.NewFromFloat(adjusted)

	sellDec := decimal.NewFromInt(sharesToSell)
	proceeds := sellDec.Mul(price)
	fee := l.costs.Cost(proceeds, true)

	partialCost := pos.CostBasis.Mul(sellDec).Div(decimal.NewFromInt(pos.Shares))
	pos.Shares -= sharesToSell
	pos.CostBasis = pos.CostBasis.Sub(partialCost)

	l.cash = l.cash.Add(proceeds).Sub(fee)

	return applied(sharesToSell)
}

// MarkToMarket values the ledger at the given day's prices: cash plus every
// position priced on that row. Positions without a usable price contribute
// nothing that day.
func (l *Ledger) MarkToMarket(row types.Row) decimal.Decimal {
	value := l.cash
	for stock, pos := range l.positions {
		px, ok := row.Get(stock)
		if !ok {
			continue
		}
		value = value.Add(decimal.NewFromInt(pos.Shares).Mul(decimal.NewFromFloat(px)))
	}
	return value
}
