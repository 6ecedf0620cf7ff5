package engine

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"stocklab/internal/metrics"
	"stocklab/types"
)

// ErrMissingClose is returned by Run when the dataset has no close panel.
var ErrMissingClose = errors.New("dataset is missing the close price panel")

// StrategyFunc selects candidate stocks as of a rebalance date. The returned
// list is ordered by preference; the engine truncates it to MaxStocks.
type StrategyFunc func(data *types.Dataset, date time.Time) []string

// Engine drives a day-by-day simulation over a close price panel, trading on
// a calendar rebalance schedule and recording the portfolio valuation every
// trading day. One Engine must not execute two Runs concurrently; ledger
// state is reset at the start of each Run.
type Engine struct {
	cfg    EngineConfig
	costs  CostModel
	limits LimitFilter
	logger *slog.Logger
	ledger *Ledger
}

func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		cfg:    cfg,
		costs:  NewCostModel(cfg.CommissionRate, cfg.TaxRate, cfg.CommissionDiscount),
		limits: NewLimitFilter(cfg.PriceLimitEnabled, cfg.UpLimitPct, cfg.DownLimitPct),
		logger: logger,
	}
}

// QuickRun backtests a strategy over a dataset with default engine
// parameters.
func QuickRun(strategy StrategyFunc, data *types.Dataset, opts RunOptions) (*types.BacktestResult, error) {
	return NewEngine(DefaultEngineConfig()).Run(strategy, data, opts)
}

// Run executes one backtest. A missing close panel is the only hard failure;
// per-instrument data gaps are skipped silently inside the loop.
func (e *Engine) Run(strategy StrategyFunc, data *types.Dataset, opts RunOptions) (*types.BacktestResult, error) {
	if data == nil || data.Close == nil || data.Close.Len() == 0 {
		return nil, ErrMissingClose
	}
	opts = opts.withDefaults()

	e.ledger = NewLedger(e.cfg.InitialCapital, e.costs, e.limits)

	panelDates := data.Close.Dates()
	start := opts.Start
	if start.IsZero() {
		start = panelDates[0]
	}
	end := opts.End
	if end.IsZero() {
		end = panelDates[len(panelDates)-1]
	}

	schedule := rebalanceDates(start, end, opts.RebalanceFreq)
	tradingDates := data.Close.DatesBetween(start, end)

	var bar *progressbar.ProgressBar
	if opts.ShowProgress {
		bar = initProgressBar(len(tradingDates))
	}

	history := make([]types.PortfolioPoint, 0, len(tradingDates))
	var prevRow types.Row
	cursor := 0

	for _, date := range tradingDates {
		row, err := data.Close.Row(date)
		if err != nil {
			return nil, err
		}

		if cursor < len(schedule) && !date.Before(schedule[cursor]) {
			targets := strategy(data, date)
			if len(targets) > opts.MaxStocks {
				targets = targets[:opts.MaxStocks]
			}

			weights := allocateWeights(targets, e.marketValuesAt(data, date), opts.WeightMethod)
			e.rebalance(date, targets, row, prevRow, weights)

			cursor = advanceSchedule(schedule, cursor, date)
		}

		value := e.ledger.MarkToMarket(row)
		history = append(history, types.PortfolioPoint{
			Date:          date,
			Value:         value,
			Cash:          e.ledger.Cash(),
			PositionCount: e.ledger.PositionCount(),
		})

		prevRow = row
		if bar != nil {
			bar.Add(1)
		}
	}

	return e.assembleResult(data, history, start, end, opts)
}

// marketValuesAt extracts the market-value row for a date as a plain map.
// Nil when the panel is absent or the date has no row.
func (e *Engine) marketValuesAt(data *types.Dataset, date time.Time) map[string]float64 {
	if data.MarketValue == nil {
		return nil
	}
	row, err := data.MarketValue.Row(date)
	if err != nil {
		return nil
	}
	out := make(map[string]float64)
	for _, stock := range data.MarketValue.Stocks() {
		if v, ok := row.Get(stock); ok {
			out[stock] = v
		}
	}
	return out
}

// rebalance realigns the portfolio to the target weights: full exit of every
// held stock not in the target list, then per-target buy/partial-sell of the
// difference between target and current notional. Differences smaller than
// one share's price are left untouched.
func (e *Engine) rebalance(date time.Time, targets []string, row, prevRow types.Row, weights map[string]float64) {
	totalValue := e.ledger.MarkToMarket(row)

	targetSet := make(map[string]struct{}, len(targets))
	for _, s := range targets {
		targetSet[s] = struct{}{}
	}

	for _, stock := range e.ledger.HeldStocks() {
		if _, keep := targetSet[stock]; keep {
			continue
		}
		px, ok := row.Get(stock)
		if !ok {
			continue // no price today, try again next rebalance
		}
		res := e.ledger.SellAll(stock, date, e.quoteFor(stock, px, prevRow))
		e.logOp("exit", stock, date, res)
	}

	for _, stock := range targets {
		px, ok := row.Get(stock)
		if !ok {
			continue
		}
		price := decimal.NewFromFloat(px)
		target := totalValue.Mul(decimal.NewFromFloat(weights[stock]))

		current := decimal.Zero
		if pos, held := e.ledger.Position(stock); held {
			current = decimal.NewFromInt(pos.Shares).Mul(price)
		}

		diff := target.Sub(current)
		quote := e.quoteFor(stock, px, prevRow)

		switch {
		case diff.Sign() > 0:
			res := e.ledger.Buy(stock, date, quote, diff)
			e.logOp("buy", stock, date, res)
		case diff.Neg().GreaterThan(price):
			sharesToSell := diff.Neg().Div(price).IntPart()
			if sharesToSell > 0 {
				res := e.ledger.SellPartial(stock, date, quote, sharesToSell)
				e.logOp("trim", stock, date, res)
			}
		}
	}
}

func (e *Engine) quoteFor(stock string, price float64, prevRow types.Row) Quote {
	prev := math.NaN()
	if prevRow.Valid() {
		if v, ok := prevRow.Get(stock); ok {
			prev = v
		}
	}
	return Quote{Price: price, PrevClose: prev}
}

func (e *Engine) logOp(op, stock string, date time.Time, res OpResult) {
	if res.Status == OpSkipped {
		e.logger.Debug("order skipped",
			"op", op, "stock", stock, "date", date.Format("2006-01-02"), "reason", res.Reason)
		return
	}
	e.logger.Debug("order filled",
		"op", op, "stock", stock, "date", date.Format("2006-01-02"), "shares", res.Shares)
}

func (e *Engine) assembleResult(data *types.Dataset, history []types.PortfolioPoint, start, end time.Time, opts RunOptions) (*types.BacktestResult, error) {
	dates := make([]time.Time, len(history))
	values := make([]float64, len(history))
	for i, p := range history {
		dates[i] = p.Date
		values[i] = p.Value.InexactFloat64()
	}
	portfolioValues, err := types.NewSeries(dates, values)
	if err != nil {
		return nil, err
	}

	trades := e.ledger.Trades()
	perf := metrics.Calculate(portfolioValues, trades, metrics.DefaultRiskFree)

	var comparison *types.BenchmarkComparison
	if data.Benchmark.Len() > 0 {
		c := metrics.CompareWithBenchmark(portfolioValues, data.Benchmark)
		comparison = &c
	}

	return &types.BacktestResult{
		PortfolioValues:     portfolioValues,
		Trades:              trades,
		PositionsHistory:    history,
		Metrics:             perf,
		BenchmarkComparison: comparison,
		Config: types.RunConfig{
			RunID:          uuid.NewString(),
			InitialCapital: e.cfg.InitialCapital,
			Start:          start,
			End:            end,
			RebalanceFreq:  opts.RebalanceFreq,
			MaxStocks:      opts.MaxStocks,
			WeightMethod:   opts.WeightMethod,
		},
	}, nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
