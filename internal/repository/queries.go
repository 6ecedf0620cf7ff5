package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQueries runs the daily-price queries against a Postgres pool.
type pgxQueries struct {
	conn *pgxpool.Pool
}

const dailyClosesSQL = `
SELECT stock_id, trade_date, close
FROM daily_prices
WHERE stock_id = ANY($1) AND trade_date BETWEEN $2 AND $3
ORDER BY trade_date`

const dailyMarketValuesSQL = `
SELECT stock_id, trade_date, market_value
FROM daily_prices
WHERE stock_id = ANY($1) AND trade_date BETWEEN $2 AND $3
  AND market_value IS NOT NULL
ORDER BY trade_date`

const benchmarkClosesSQL = `
SELECT index_id, trade_date, close
FROM benchmark_prices
WHERE index_id = $1 AND trade_date BETWEEN $2 AND $3
ORDER BY trade_date`

func (q *pgxQueries) DailyCloses(ctx context.Context, stockIDs []string, start, end string) ([]priceRow, error) {
	return q.scanRows(ctx, dailyClosesSQL, stockIDs, start, end)
}

func (q *pgxQueries) DailyMarketValues(ctx context.Context, stockIDs []string, start, end string) ([]priceRow, error) {
	return q.scanRows(ctx, dailyMarketValuesSQL, stockIDs, start, end)
}

func (q *pgxQueries) BenchmarkCloses(ctx context.Context, indexID string, start, end string) ([]priceRow, error) {
	rows, err := q.conn.Query(ctx, benchmarkClosesSQL, indexID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []priceRow
	for rows.Next() {
		var r priceRow
		if err := rows.Scan(&r.StockID, &r.Date, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *pgxQueries) scanRows(ctx context.Context, sql string, stockIDs []string, start, end string) ([]priceRow, error) {
	rows, err := q.conn.Query(ctx, sql, stockIDs, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []priceRow
	for rows.Next() {
		var r priceRow
		if err := rows.Scan(&r.StockID, &r.Date, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
