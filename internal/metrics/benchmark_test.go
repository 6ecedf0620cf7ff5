package metrics

import (
	"math"
	"testing"
)

func TestCompareWithBenchmarkSelf(t *testing.T) {
	s := dailySeries(t, day0(), []float64{100, 102, 101, 105, 107, 104, 110})

	c := CompareWithBenchmark(s, s)

	approx(t, c.ExcessReturn, 0, 1e-9, "excess return")
	approx(t, c.Beta, 1.0, 1e-9, "beta")
	approx(t, c.Alpha, 0, 1e-9, "alpha")
	approx(t, c.Correlation, 1.0, 1e-9, "correlation")
	if c.TrackingError != 0 {
		t.Fatalf("tracking error vs self: got %v, want 0", c.TrackingError)
	}
	if c.InformationRatio != 0 {
		t.Fatalf("information ratio vs self: got %v, want 0", c.InformationRatio)
	}
}

func TestCompareWithBenchmarkOutperformance(t *testing.T) {
	portfolio := dailySeries(t, day0(), []float64{100, 104, 110})
	benchmark := dailySeries(t, day0(), []float64{100, 102, 105})

	c := CompareWithBenchmark(portfolio, benchmark)

	approx(t, c.ExcessReturn, 5.0, 1e-9, "excess return")
	if c.Beta <= 0 {
		t.Fatalf("beta: got %v, want positive", c.Beta)
	}
	if c.TrackingError <= 0 {
		t.Fatalf("tracking error: got %v, want positive", c.TrackingError)
	}
	if c.InformationRatio <= 0 {
		t.Fatalf("information ratio: got %v, want positive for outperformance", c.InformationRatio)
	}
}

func TestCompareWithBenchmarkFlatBenchmark(t *testing.T) {
	portfolio := dailySeries(t, day0(), []float64{100, 103, 99, 108})
	benchmark := dailySeries(t, day0(), []float64{50, 50, 50, 50})

	c := CompareWithBenchmark(portfolio, benchmark)

	// Zero benchmark variance makes the regression undefined.
	if c.Beta != 0 {
		t.Fatalf("beta with flat benchmark: got %v, want 0", c.Beta)
	}
	if c.Correlation != 0 {
		t.Fatalf("correlation with flat benchmark: got %v, want 0", c.Correlation)
	}
}

func TestCompareWithBenchmarkAlignsOnCommonDates(t *testing.T) {
	portfolio := dailySeries(t, day0(), []float64{100, 101, 102, 103, 104})
	// Benchmark starts two days later; only the overlap is compared.
	benchmark := dailySeries(t, day0().AddDate(0, 0, 2), []float64{200, 202, 204})

	c := CompareWithBenchmark(portfolio, benchmark)

	// Over the overlap the portfolio gains 104/102-1, the benchmark 2%.
	wantExcess := (104.0/102.0 - 1.0 - 0.02) * 100
	approx(t, c.ExcessReturn, wantExcess, 1e-9, "excess return")
	if math.IsNaN(c.Beta) || math.IsNaN(c.TrackingError) {
		t.Fatal("alignment produced NaN statistics")
	}
}
