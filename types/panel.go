package types

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrDateNotInPanel = errors.New("date not present in panel")
	ErrEmptyPanel     = errors.New("panel has no rows")
)

// PricePanel is a dense table of daily values: rows are trading dates
// (strictly increasing, one row per observed trading day), columns are stock
// IDs. Gaps are NaN. Dates not present in the panel are errors on access,
// never approximated.
type PricePanel struct {
	dates  []time.Time
	rowIdx map[int64]int
	stocks []string
	colIdx map[string]int
	data   [][]float64
}

// dayKey collapses a timestamp to its calendar day in UTC.
func dayKey(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

// NewPricePanel creates a panel with the given trading dates and stock
// columns, every cell initialised to NaN. Dates must be strictly increasing
// and stock IDs unique.
func NewPricePanel(dates []time.Time, stocks []string) (*PricePanel, error) {
	p := &PricePanel{
		dates:  make([]time.Time, len(dates)),
		rowIdx: make(map[int64]int, len(dates)),
		stocks: make([]string, len(stocks)),
		colIdx: make(map[string]int, len(stocks)),
	}
	for i, d := range dates {
		if i > 0 && !d.After(dates[i-1]) {
			return nil, fmt.Errorf("panel dates must be strictly increasing at index %d", i)
		}
		p.dates[i] = d
		p.rowIdx[dayKey(d)] = i
	}
	for i, s := range stocks {
		if _, dup := p.colIdx[s]; dup {
			return nil, fmt.Errorf("duplicate stock id %q", s)
		}
		p.stocks[i] = s
		p.colIdx[s] = i
	}
	p.data = make([][]float64, len(dates))
	for i := range p.data {
		row := make([]float64, len(stocks))
		for j := range row {
			row[j] = math.NaN()
		}
		p.data[i] = row
	}
	return p, nil
}

// Set writes a cell value. It reports whether the (date, stock) pair exists.
func (p *PricePanel) Set(date time.Time, stock string, v float64) bool {
	i, ok := p.rowIdx[dayKey(date)]
	if !ok {
		return false
	}
	j, ok := p.colIdx[stock]
	if !ok {
		return false
	}
	p.data[i][j] = v
	return true
}

// Dates returns the panel's trading dates in ascending order.
func (p *PricePanel) Dates() []time.Time {
	out := make([]time.Time, len(p.dates))
	copy(out, p.dates)
	return out
}

// Stocks returns the panel's column identifiers.
func (p *PricePanel) Stocks() []string {
	out := make([]string, len(p.stocks))
	copy(out, p.stocks)
	return out
}

func (p *PricePanel) Len() int { return len(p.dates) }

// DatesBetween returns all panel dates within [start, end].
func (p *PricePanel) DatesBetween(start, end time.Time) []time.Time {
	var out []time.Time
	for _, d := range p.dates {
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Row returns the price row for an exact trading date.
func (p *PricePanel) Row(date time.Time) (Row, error) {
	i, ok := p.rowIdx[dayKey(date)]
	if !ok {
		return Row{}, fmt.Errorf("%w: %s", ErrDateNotInPanel, date.Format("2006-01-02"))
	}
	return Row{panel: p, row: i}, nil
}

// Price returns the value at (date, stock). The second return is false when
// the date or stock is absent, or the cell is a gap.
func (p *PricePanel) Price(date time.Time, stock string) (float64, bool) {
	i, ok := p.rowIdx[dayKey(date)]
	if !ok {
		return 0, false
	}
	j, ok := p.colIdx[stock]
	if !ok {
		return 0, false
	}
	v := p.data[i][j]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Column extracts one stock's values as a series, dropping gap cells.
func (p *PricePanel) Column(stock string) (Series, bool) {
	j, ok := p.colIdx[stock]
	if !ok {
		return Series{}, false
	}
	var dates []time.Time
	var values []float64
	for i, d := range p.dates {
		v := p.data[i][j]
		if math.IsNaN(v) {
			continue
		}
		dates = append(dates, d)
		values = append(values, v)
	}
	return Series{dates: dates, values: values}, true
}

// Row is a view over one trading day of a panel.
type Row struct {
	panel *PricePanel
	row   int
}

// Get returns the value for a stock on this day. False means the stock has no
// usable price (absent column or gap).
func (r Row) Get(stock string) (float64, bool) {
	if r.panel == nil {
		return 0, false
	}
	j, ok := r.panel.colIdx[stock]
	if !ok {
		return 0, false
	}
	v := r.panel.data[r.row][j]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Valid reports whether the row points at panel data.
func (r Row) Valid() bool { return r.panel != nil }
