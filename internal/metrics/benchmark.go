package metrics

import (
	"math"

	"stocklab/types"
)

// CompareWithBenchmark compares a portfolio valuation series against a
// benchmark series over their date intersection: excess return, beta,
// Jensen's alpha, information ratio, correlation and tracking error.
func CompareWithBenchmark(portfolio, benchmark types.Series) types.BenchmarkComparison {
	p, b := portfolio.Align(benchmark)

	pReturns := Returns(p.Values())
	bReturns := Returns(b.Values())

	excess := TotalReturn(p) - TotalReturn(b)

	beta := 0.0
	if v := sampleVar(bReturns); v != 0 && !math.IsNaN(v) {
		beta = sampleCov(pReturns, bReturns) / v
	}

	pAnnual := AnnualizedReturn(p) / 100
	bAnnual := AnnualizedReturn(b) / 100
	alpha := pAnnual - (DefaultRiskFree + beta*(bAnnual-DefaultRiskFree))

	diff := make([]float64, len(pReturns))
	for i := range pReturns {
		diff[i] = pReturns[i] - bReturns[i]
	}
	trackingError := sampleStd(diff) * math.Sqrt(tradingDaysPerYear)

	informationRatio := 0.0
	if trackingError != 0 {
		informationRatio = (pAnnual - bAnnual) / trackingError
	}

	return types.BenchmarkComparison{
		ExcessReturn:     excess,
		Beta:             beta,
		Alpha:            alpha * 100,
		InformationRatio: informationRatio,
		Correlation:      correlation(pReturns, bReturns),
		TrackingError:    trackingError * 100,
	}
}

// sampleCov is the n-1 covariance of two equal-length slices.
func sampleCov(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	sum := 0.0
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs)-1)
}

func sampleVar(xs []float64) float64 {
	return sampleCov(xs, xs)
}

// correlation is the Pearson correlation of two equal-length slices.
func correlation(xs, ys []float64) float64 {
	sx, sy := sampleStd(xs), sampleStd(ys)
	if sx == 0 || sy == 0 {
		return 0
	}
	return sampleCov(xs, ys) / (sx * sy)
}
