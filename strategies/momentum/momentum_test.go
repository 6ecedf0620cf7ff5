package momentum

import (
	"testing"
	"time"

	"stocklab/types"
)

func makePanel(t *testing.T, stocks []string, start time.Time, rows [][]float64) *types.PricePanel {
	t.Helper()
	dates := make([]time.Time, len(rows))
	for i := range rows {
		dates[i] = start.AddDate(0, 0, i)
	}
	panel, err := types.NewPricePanel(dates, stocks)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		for j, v := range row {
			panel.Set(dates[i], stocks[j], v)
		}
	}
	return panel
}

func TestScreenerSelectsBreakouts(t *testing.T) {
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	// 2330 breaks out hard on the last day, 2317 breaks out mildly, 2454
	// closes below its window high.
	data := &types.Dataset{
		Close: makePanel(t, []string{"2330", "2317", "2454"}, start, [][]float64{
			{100, 50, 80},
			{102, 51, 85},
			{101, 50, 83},
			{110, 52, 84},
		}),
	}

	got := New(20, 10).Select(data, start.AddDate(0, 0, 3))
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 candidates", got)
	}
	if got[0] != "2330" || got[1] != "2317" {
		t.Fatalf("ranking: got %v, want [2330 2317]", got)
	}
}

func TestScreenerTopNTruncation(t *testing.T) {
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	data := &types.Dataset{
		Close: makePanel(t, []string{"A", "B", "C"}, start, [][]float64{
			{10, 20, 30},
			{12, 25, 33},
		}),
	}

	got := New(20, 1).Select(data, start.AddDate(0, 0, 1))
	if len(got) != 1 {
		t.Fatalf("got %v, want a single candidate", got)
	}
	// B gained 25%, the strongest breakout.
	if got[0] != "B" {
		t.Fatalf("got %v, want B", got)
	}
}

func TestScreenerNeedsHistory(t *testing.T) {
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	data := &types.Dataset{
		Close: makePanel(t, []string{"2330"}, start, [][]float64{{100}}),
	}

	if got := New(20, 10).Select(data, start); got != nil {
		t.Fatalf("single trading day: got %v, want nil", got)
	}
	if got := New(20, 10).Select(nil, start); got != nil {
		t.Fatalf("nil dataset: got %v, want nil", got)
	}
}

func TestScreenerIgnoresFutureDates(t *testing.T) {
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	// 2330 is a breakout on day 1 but collapses on day 3; selecting as of
	// day 1 must not see the collapse.
	data := &types.Dataset{
		Close: makePanel(t, []string{"2330"}, start, [][]float64{
			{100},
			{105},
			{90},
			{80},
		}),
	}

	got := New(20, 10).Select(data, start.AddDate(0, 0, 1))
	if len(got) != 1 || got[0] != "2330" {
		t.Fatalf("as of day 1: got %v, want [2330]", got)
	}
	if got := New(20, 10).Select(data, start.AddDate(0, 0, 3)); len(got) != 0 {
		t.Fatalf("as of day 3: got %v, want no candidates", got)
	}
}
