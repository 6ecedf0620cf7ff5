package types

import (
	"errors"
	"testing"
	"time"
)

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestPanel(t *testing.T) *PricePanel {
	t.Helper()
	dates := []time.Time{
		utcDate(2023, time.March, 1),
		utcDate(2023, time.March, 2),
		utcDate(2023, time.March, 3),
	}
	panel, err := NewPricePanel(dates, []string{"2330", "2317"})
	if err != nil {
		t.Fatal(err)
	}
	return panel
}

func TestNewPricePanelValidation(t *testing.T) {
	d := utcDate(2023, time.March, 1)

	if _, err := NewPricePanel([]time.Time{d, d}, []string{"2330"}); err == nil {
		t.Fatal("duplicate dates accepted")
	}
	if _, err := NewPricePanel([]time.Time{d.AddDate(0, 0, 1), d}, []string{"2330"}); err == nil {
		t.Fatal("descending dates accepted")
	}
	if _, err := NewPricePanel([]time.Time{d}, []string{"2330", "2330"}); err == nil {
		t.Fatal("duplicate stocks accepted")
	}
}

func TestPricePanelSetAndPrice(t *testing.T) {
	panel := newTestPanel(t)
	d1 := utcDate(2023, time.March, 1)

	if !panel.Set(d1, "2330", 500) {
		t.Fatal("set on a valid cell failed")
	}
	if panel.Set(utcDate(2023, time.April, 1), "2330", 500) {
		t.Fatal("set on an absent date succeeded")
	}
	if panel.Set(d1, "0000", 500) {
		t.Fatal("set on an absent stock succeeded")
	}

	if v, ok := panel.Price(d1, "2330"); !ok || v != 500 {
		t.Fatalf("got (%v, %v), want (500, true)", v, ok)
	}
	// Untouched cells are gaps.
	if _, ok := panel.Price(d1, "2317"); ok {
		t.Fatal("gap cell read as a price")
	}
	// Intraday timestamps collapse to the calendar day.
	if v, ok := panel.Price(d1.Add(13*time.Hour), "2330"); !ok || v != 500 {
		t.Fatalf("intraday lookup: got (%v, %v)", v, ok)
	}
}

func TestPricePanelRow(t *testing.T) {
	panel := newTestPanel(t)
	d1 := utcDate(2023, time.March, 1)
	panel.Set(d1, "2330", 500)

	row, err := panel.Row(d1)
	if err != nil {
		t.Fatal(err)
	}
	if !row.Valid() {
		t.Fatal("row not valid")
	}
	if v, ok := row.Get("2330"); !ok || v != 500 {
		t.Fatalf("got (%v, %v), want (500, true)", v, ok)
	}
	if _, ok := row.Get("2317"); ok {
		t.Fatal("gap cell read as a price")
	}

	if _, err := panel.Row(utcDate(2023, time.April, 1)); !errors.Is(err, ErrDateNotInPanel) {
		t.Fatalf("got %v, want ErrDateNotInPanel", err)
	}

	var zero Row
	if zero.Valid() {
		t.Fatal("zero row must not be valid")
	}
	if _, ok := zero.Get("2330"); ok {
		t.Fatal("zero row returned a price")
	}
}

func TestPricePanelDatesBetween(t *testing.T) {
	panel := newTestPanel(t)

	got := panel.DatesBetween(utcDate(2023, time.March, 2), utcDate(2023, time.March, 31))
	if len(got) != 2 {
		t.Fatalf("got %d dates, want 2", len(got))
	}
	if !got[0].Equal(utcDate(2023, time.March, 2)) {
		t.Fatalf("first date: got %s", got[0])
	}
}

func TestPricePanelColumn(t *testing.T) {
	panel := newTestPanel(t)
	panel.Set(utcDate(2023, time.March, 1), "2330", 500)
	panel.Set(utcDate(2023, time.March, 3), "2330", 510)
	// March 2 stays a gap and is dropped from the column.

	col, ok := panel.Column("2330")
	if !ok {
		t.Fatal("column missing")
	}
	if col.Len() != 2 || col.First() != 500 || col.Last() != 510 {
		t.Fatalf("column: len %d, first %v, last %v", col.Len(), col.First(), col.Last())
	}

	if _, ok := panel.Column("0000"); ok {
		t.Fatal("absent column returned")
	}
}
