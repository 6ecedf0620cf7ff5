// Package momentum implements a simple price-breakout screener usable as a
// backtest strategy callback.
package momentum

import (
	"sort"
	"time"

	"stocklab/types"
)

// Screener selects stocks whose close is at or above their highest close of
// the lookback window, ranked by distance above the window high.
type Screener struct {
	lookbackDays int
	topN         int
}

// New creates a Screener. lookbackDays is the breakout window length in
// trading days, topN caps the candidate list.
func New(lookbackDays, topN int) *Screener {
	if lookbackDays <= 0 {
		lookbackDays = 20
	}
	if topN <= 0 {
		topN = 10
	}
	return &Screener{lookbackDays: lookbackDays, topN: topN}
}

// Select returns the ranked candidate list as of the given date. It only
// looks at data up to and including that date.
func (s *Screener) Select(data *types.Dataset, date time.Time) []string {
	if data == nil || data.Close == nil {
		return nil
	}

	window := data.Close.DatesBetween(time.Time{}, date)
	if len(window) < 2 {
		return nil
	}
	if len(window) > s.lookbackDays+1 {
		window = window[len(window)-s.lookbackDays-1:]
	}

	today, err := data.Close.Row(window[len(window)-1])
	if err != nil {
		return nil
	}
	lookback := window[:len(window)-1]

	type candidate struct {
		stock string
		score float64
	}
	var candidates []candidate

	for _, stock := range data.Close.Stocks() {
		price, ok := today.Get(stock)
		if !ok || price <= 0 {
			continue
		}
		high := 0.0
		observed := 0
		for _, d := range lookback {
			if v, ok := data.Close.Price(d, stock); ok {
				observed++
				if v > high {
					high = v
				}
			}
		}
		if observed == 0 || high <= 0 || price < high {
			continue
		}
		candidates = append(candidates, candidate{stock: stock, score: price/high - 1})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].stock < candidates[j].stock
	})

	if len(candidates) > s.topN {
		candidates = candidates[:s.topN]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.stock
	}
	return out
}
