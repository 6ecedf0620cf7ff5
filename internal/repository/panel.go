package repository

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stocklab/types"
)

const dateLayout = "2006-01-02"

// priceRow is one (stock, date, value) observation from the datasource.
type priceRow struct {
	StockID string
	Date    time.Time
	Value   decimal.Decimal
}

// GetClosePanel loads the daily close panel for the given stocks over
// [start, end].
func (db *Database) GetClosePanel(ctx context.Context, stockIDs []string, start, end time.Time) (*types.PricePanel, error) {
	rows, err := db.queries.DailyCloses(ctx, stockIDs, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return buildPanel(rows)
}

// GetMarketValuePanel loads the daily market-value panel for the given
// stocks over [start, end].
func (db *Database) GetMarketValuePanel(ctx context.Context, stockIDs []string, start, end time.Time) (*types.PricePanel, error) {
	rows, err := db.queries.DailyMarketValues(ctx, stockIDs, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return buildPanel(rows)
}

// GetBenchmark loads a benchmark index close series over [start, end].
func (db *Database) GetBenchmark(ctx context.Context, indexID string, start, end time.Time) (types.Series, error) {
	rows, err := db.queries.BenchmarkCloses(ctx, indexID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return types.Series{}, err
	}
	if len(rows) == 0 {
		return types.Series{}, ErrNoBenchmark
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	dates := make([]time.Time, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
		values[i] = r.Value.InexactFloat64()
	}
	return types.NewSeries(dates, values)
}

// LoadDataset assembles the full backtest dataset: close panel, market-value
// panel, and optionally a benchmark series (empty benchmarkID skips it).
func (db *Database) LoadDataset(ctx context.Context, stockIDs []string, benchmarkID string, start, end time.Time) (*types.Dataset, error) {
	closePanel, err := db.GetClosePanel(ctx, stockIDs, start, end)
	if err != nil {
		return nil, err
	}
	marketValue, err := db.GetMarketValuePanel(ctx, stockIDs, start, end)
	if err != nil {
		// Market values are only needed for cap weighting; a missing panel
		// is not fatal.
		marketValue = nil
	}

	dataset := &types.Dataset{
		Close:       closePanel,
		MarketValue: marketValue,
	}

	if benchmarkID != "" {
		benchmark, err := db.GetBenchmark(ctx, benchmarkID, start, end)
		if err != nil {
			return nil, err
		}
		dataset.Benchmark = benchmark
	}
	return dataset, nil
}

// buildPanel assembles sparse rows into a dense date-by-stock panel. Cells
// with no observation stay NaN.
func buildPanel(rows []priceRow) (*types.PricePanel, error) {
	if len(rows) == 0 {
		return nil, ErrNoPrices
	}

	dateSet := make(map[int64]time.Time)
	stockSet := make(map[string]struct{})
	for _, r := range rows {
		y, m, d := r.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		dateSet[day.Unix()] = day
		stockSet[r.StockID] = struct{}{}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for _, d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	stocks := make([]string, 0, len(stockSet))
	for s := range stockSet {
		stocks = append(stocks, s)
	}
	sort.Strings(stocks)

	panel, err := types.NewPricePanel(dates, stocks)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		panel.Set(r.Date, r.StockID, r.Value.InexactFloat64())
	}
	return panel, nil
}
