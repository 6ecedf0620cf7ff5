package engine

import (
	"time"

	"stocklab/types"
)

// rebalanceDates returns the calendar rebalance schedule between start and
// end: month-end dates for monthly frequency, quarter-end dates (Mar/Jun/
// Sep/Dec) for quarterly. The schedule is independent of which dates actually
// have trading data.
func rebalanceDates(start, end time.Time, freq types.Frequency) []time.Time {
	var out []time.Time

	y, m, _ := start.Date()
	cur := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	for !cur.After(end) {
		if freq != types.Quarterly || cur.Month()%3 == 0 {
			// Last calendar day of cur's month.
			periodEnd := cur.AddDate(0, 1, 0).AddDate(0, 0, -1)
			if !periodEnd.Before(start) && !periodEnd.After(end) {
				out = append(out, periodEnd)
			}
		}
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// advanceSchedule moves the schedule cursor past every schedule date that is
// not after the given trading date. Stale entries skipped over during
// non-trading gaps are consumed in one step so a schedule date never fires
// twice.
func advanceSchedule(schedule []time.Time, cursor int, date time.Time) int {
	for cursor < len(schedule) && !schedule[cursor].After(date) {
		cursor++
	}
	return cursor
}
