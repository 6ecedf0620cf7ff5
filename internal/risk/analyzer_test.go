package risk

import (
	"math"
	"testing"
	"time"

	"stocklab/types"
)

func dailySeries(t *testing.T, start time.Time, values []float64) types.Series {
	t.Helper()
	dates := make([]time.Time, len(values))
	for i := range values {
		dates[i] = start.AddDate(0, 0, i)
	}
	s, err := types.NewSeries(dates, values)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func day0() time.Time {
	return time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func approx(t *testing.T, got, want, tol float64, label string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s: got %v, want %v", label, got, want)
	}
}

func TestReturnsFromPrices(t *testing.T) {
	prices := dailySeries(t, day0(), []float64{100, 110, 99})

	returns := ReturnsFromPrices(prices)
	if returns.Len() != 2 {
		t.Fatalf("got %d returns, want 2", returns.Len())
	}
	approx(t, returns.Value(0), 0.1, 1e-12, "first return")
	approx(t, returns.Value(1), -0.1, 1e-12, "second return")
	if !returns.Date(0).Equal(day0().AddDate(0, 0, 1)) {
		t.Fatalf("first return date: got %s", returns.Date(0))
	}

	if got := ReturnsFromPrices(dailySeries(t, day0(), []float64{100})); got.Len() != 0 {
		t.Fatalf("single price: got %d returns, want 0", got.Len())
	}
}

func TestVaRHistorical(t *testing.T) {
	a := NewAnalyzer()
	returns := []float64{-0.05, -0.02, 0, 0.01, 0.03}

	// Interpolated 5th percentile of 5 points: rank 0.2 between the two
	// lowest observations.
	approx(t, a.VaRHistorical(returns, 0.95), -0.044, 1e-12, "var 95")

	if got := a.VaRHistorical(nil, 0.95); got != 0 {
		t.Fatalf("empty returns: got %v, want 0", got)
	}
}

func TestVaRParametric(t *testing.T) {
	a := NewAnalyzer()
	// Symmetric around zero: mean 0, sample std sqrt(0.00025).
	returns := []float64{-0.02, -0.01, 0, 0.01, 0.02}

	want := normQuantile(0.05) * math.Sqrt(0.00025)
	approx(t, a.VaRParametric(returns, 0.95), want, 1e-12, "parametric var")

	if got := a.VaRParametric(nil, 0.95); got != 0 {
		t.Fatalf("empty returns: got %v, want 0", got)
	}
}

func TestNormQuantile(t *testing.T) {
	approx(t, normQuantile(0.05), -1.6449, 1e-3, "z(0.05)")
	approx(t, normQuantile(0.01), -2.3263, 1e-3, "z(0.01)")
	approx(t, normQuantile(0.5), 0, 1e-12, "z(0.5)")
}

func TestCVaRNeverAboveVaR(t *testing.T) {
	a := NewAnalyzer()
	returns := []float64{-0.08, -0.04, -0.03, -0.01, 0, 0.005, 0.01, 0.02, 0.04, 0.06}

	for _, confidence := range []float64{0.90, 0.95, 0.99} {
		varLevel := a.VaRHistorical(returns, confidence)
		cvar := a.CVaR(returns, confidence)
		if cvar > varLevel+1e-12 {
			t.Fatalf("confidence %.2f: CVaR %v above VaR %v", confidence, cvar, varLevel)
		}
	}
}

func TestDownsideVolatilityIsRootMeanSquare(t *testing.T) {
	a := NewAnalyzer()
	returns := []float64{-0.03, 0.01, -0.04, 0.02}

	want := math.Sqrt((0.03*0.03 + 0.04*0.04) / 2)
	approx(t, a.DownsideVolatility(returns, 0, false), want, 1e-12, "downside vol")

	annualized := a.DownsideVolatility(returns, 0, true)
	approx(t, annualized, want*math.Sqrt(252), 1e-12, "annualized downside vol")

	if got := a.DownsideVolatility([]float64{0.01, 0.02}, 0, false); got != 0 {
		t.Fatalf("no downside observations: got %v, want 0", got)
	}
}

func TestAnalyzerMaxDrawdown(t *testing.T) {
	a := NewAnalyzer()
	prices := dailySeries(t, day0(), []float64{100, 120, 90, 95, 130})

	dd, peak, trough := a.MaxDrawdown(prices)
	approx(t, dd, -0.25, 1e-12, "max drawdown")
	if !peak.Equal(day0().AddDate(0, 0, 1)) {
		t.Fatalf("peak date: got %s", peak)
	}
	if !trough.Equal(day0().AddDate(0, 0, 2)) {
		t.Fatalf("trough date: got %s", trough)
	}
}

func TestBeta(t *testing.T) {
	a := NewAnalyzer()
	returns := dailySeries(t, day0(), []float64{0.01, -0.02, 0.03, 0.005, -0.01})

	approx(t, a.Beta(returns, returns), 1.0, 1e-12, "beta vs self")

	flat := dailySeries(t, day0(), []float64{0, 0, 0, 0, 0})
	if got := a.Beta(returns, flat); got != 1.0 {
		t.Fatalf("zero-variance benchmark: got %v, want neutral 1.0", got)
	}

	// No date overlap.
	disjoint := dailySeries(t, day0().AddDate(1, 0, 0), []float64{0.01, 0.02})
	if got := a.Beta(returns, disjoint); got != 1.0 {
		t.Fatalf("disjoint series: got %v, want neutral 1.0", got)
	}
}

func TestTrackingError(t *testing.T) {
	a := NewAnalyzer()
	returns := dailySeries(t, day0(), []float64{0.01, -0.02, 0.03, 0.005})

	if got := a.TrackingError(returns, returns, true); got != 0 {
		t.Fatalf("tracking error vs self: got %v, want 0", got)
	}

	other := dailySeries(t, day0(), []float64{0.02, -0.01, 0.01, 0.015})
	if got := a.TrackingError(returns, other, false); got <= 0 {
		t.Fatalf("got %v, want positive", got)
	}

	short := dailySeries(t, day0(), []float64{0.01})
	if got := a.TrackingError(returns, short, false); got != 0 {
		t.Fatalf("single overlap point: got %v, want 0", got)
	}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer()
	prices := dailySeries(t, day0(), []float64{100, 103, 99, 104, 101, 108, 105, 110})

	rm := a.Analyze(prices, types.Series{})
	if rm.Beta != nil || rm.TrackingError != nil {
		t.Fatal("no benchmark: beta and tracking error must be nil")
	}
	if rm.Volatility <= 0 {
		t.Fatalf("volatility: got %v, want positive", rm.Volatility)
	}
	if rm.MaxDrawdown >= 0 || rm.MaxDrawdown < -100 {
		t.Fatalf("max drawdown out of range: %v", rm.MaxDrawdown)
	}
	if rm.CVaR95 > rm.VaR95+1e-9 {
		t.Fatalf("CVaR95 %v above VaR95 %v", rm.CVaR95, rm.VaR95)
	}

	benchmark := dailySeries(t, day0(), []float64{200, 204, 199, 206, 203, 212, 208, 215})
	rm = a.Analyze(prices, benchmark)
	if rm.Beta == nil || rm.TrackingError == nil {
		t.Fatal("benchmark supplied: beta and tracking error must be set")
	}
}

func TestPortfolioVaR(t *testing.T) {
	dates := make([]time.Time, 6)
	for i := range dates {
		dates[i] = day0().AddDate(0, 0, i)
	}
	panel, err := types.NewPricePanel(dates, []string{"2330", "2317"})
	if err != nil {
		t.Fatal(err)
	}
	aReturns := []float64{-0.03, 0.01, -0.02, 0.04, 0, -0.01}
	bReturns := []float64{0.02, -0.01, 0.01, -0.03, 0.005, 0.015}
	for i, d := range dates {
		panel.Set(d, "2330", aReturns[i])
		panel.Set(d, "2317", bReturns[i])
	}

	// A single weighted stock reduces to that stock's own VaR, whatever
	// the weight scale.
	got := PortfolioVaR(map[string]float64{"2330": 2.0}, panel, 0.95, "historical")
	want := NewAnalyzer().VaRHistorical(aReturns, 0.95)
	approx(t, got, want, 1e-12, "single-stock portfolio var")

	hist := PortfolioVaR(map[string]float64{"2330": 0.5, "2317": 0.5}, panel, 0.95, "historical")
	if hist >= 0 {
		t.Fatalf("historical var: got %v, want negative", hist)
	}
	param := PortfolioVaR(map[string]float64{"2330": 0.5, "2317": 0.5}, panel, 0.95, "parametric")
	if param >= 0 {
		t.Fatalf("parametric var: got %v, want negative", param)
	}

	if got := PortfolioVaR(map[string]float64{"0000": 1}, panel, 0.95, "historical"); got != 0 {
		t.Fatalf("no weighted stock in panel: got %v, want 0", got)
	}
	if got := PortfolioVaR(nil, nil, 0.95, "historical"); got != 0 {
		t.Fatalf("nil panel: got %v, want 0", got)
	}
}

func TestStressTest(t *testing.T) {
	prices := dailySeries(t, day0(), []float64{90, 95, 100})
	results := StressTest(prices, map[string]float64{
		"crash":   -0.20,
		"rally":   0.10,
		"sideway": 0,
	})

	crash := results["crash"]
	approx(t, crash.NewValue, 80, 1e-9, "crash new value")
	approx(t, crash.PnL, -20, 1e-9, "crash pnl")
	approx(t, crash.PnLPct, -20, 1e-9, "crash pnl pct")

	rally := results["rally"]
	approx(t, rally.NewValue, 110, 1e-9, "rally new value")

	if got := StressTest(types.Series{}, map[string]float64{"crash": -0.2}); len(got) != 0 {
		t.Fatalf("empty series: got %d results, want 0", len(got))
	}
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}

	approx(t, percentile(xs, 0), 1, 1e-12, "p0")
	approx(t, percentile(xs, 100), 4, 1e-12, "p100")
	approx(t, percentile(xs, 50), 2.5, 1e-12, "p50")
	approx(t, percentile([]float64{7}, 30), 7, 1e-12, "single element")
}
