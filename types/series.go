package types

import (
	"fmt"
	"time"
)

// Series is a single date-indexed column of float64 values, dates strictly
// increasing. The zero value is an empty series.
type Series struct {
	dates  []time.Time
	values []float64
}

// NewSeries builds a series from parallel date/value slices.
func NewSeries(dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return Series{}, fmt.Errorf("series length mismatch: %d dates, %d values", len(dates), len(values))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return Series{}, fmt.Errorf("series dates must be strictly increasing at index %d", i)
		}
	}
	d := make([]time.Time, len(dates))
	v := make([]float64, len(values))
	copy(d, dates)
	copy(v, values)
	return Series{dates: d, values: v}, nil
}

func (s Series) Len() int { return len(s.values) }

func (s Series) Date(i int) time.Time { return s.dates[i] }
func (s Series) Value(i int) float64  { return s.values[i] }

// Dates returns a copy of the series dates.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Values returns a copy of the series values.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

func (s Series) First() float64 { return s.values[0] }
func (s Series) Last() float64  { return s.values[len(s.values)-1] }

// Align inner-joins two series on their common dates, preserving order.
func (s Series) Align(other Series) (Series, Series) {
	idx := make(map[int64]int, other.Len())
	for i, d := range other.dates {
		idx[dayKey(d)] = i
	}
	var aDates, bDates []time.Time
	var aVals, bVals []float64
	for i, d := range s.dates {
		j, ok := idx[dayKey(d)]
		if !ok {
			continue
		}
		aDates = append(aDates, d)
		aVals = append(aVals, s.values[i])
		bDates = append(bDates, other.dates[j])
		bVals = append(bVals, other.values[j])
	}
	return Series{dates: aDates, values: aVals}, Series{dates: bDates, values: bVals}
}
