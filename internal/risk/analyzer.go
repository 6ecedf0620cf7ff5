// Package risk quantifies portfolio risk from return series: VaR/CVaR
// (historical and parametric), volatility, drawdown, beta, tracking error,
// stress tests and Monte Carlo projection.
package risk

import (
	"math"
	"sort"
	"time"

	"stocklab/types"
)

const tradingDaysPerYear = 252

// Analyzer computes risk statistics. Degenerate inputs get neutral defaults
// (beta 1.0, tracking error 0) rather than NaN, so results are always
// renderable.
type Analyzer struct {
	confidences []float64
}

// NewAnalyzer creates an Analyzer. With no arguments the 95% and 99%
// confidence levels are used.
func NewAnalyzer(confidences ...float64) *Analyzer {
	if len(confidences) == 0 {
		confidences = []float64{0.95, 0.99}
	}
	return &Analyzer{confidences: confidences}
}

// ReturnsFromPrices converts a price series to daily simple returns,
// dropping the first observation.
func ReturnsFromPrices(prices types.Series) types.Series {
	if prices.Len() < 2 {
		return types.Series{}
	}
	dates := prices.Dates()
	values := prices.Values()
	retDates := make([]time.Time, 0, len(values)-1)
	rets := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		retDates = append(retDates, dates[i])
		rets = append(rets, values[i]/values[i-1]-1)
	}
	s, err := types.NewSeries(retDates, rets)
	if err != nil {
		return types.Series{}
	}
	return s
}

// VaRHistorical is the empirical (1-confidence) percentile of the returns
// distribution. A negative value is the one-day loss threshold.
func (a *Analyzer) VaRHistorical(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return percentile(returns, (1-confidence)*100)
}

// VaRParametric assumes normally distributed returns: mean + z*std with z
// the (1-confidence) quantile of the standard normal.
func (a *Analyzer) VaRParametric(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	z := normQuantile(1 - confidence)
	return mean(returns) + z*sampleStd(returns)
}

// CVaR is the mean of all returns at or below the historical VaR threshold,
// falling back to the threshold itself when no observation breaches it.
func (a *Analyzer) CVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	threshold := a.VaRHistorical(returns, confidence)
	var tail []float64
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return threshold
	}
	return mean(tail)
}

// Volatility is the standard deviation of returns, annualized on request.
func (a *Analyzer) Volatility(returns []float64, annualize bool) float64 {
	if len(returns) == 0 {
		return 0
	}
	vol := sampleStd(returns)
	if annualize {
		vol *= math.Sqrt(tradingDaysPerYear)
	}
	return vol
}

// DownsideVolatility is the root-mean-square of returns below the threshold
// (a semi-deviation around zero, not mean-subtracted).
func (a *Analyzer) DownsideVolatility(returns []float64, threshold float64, annualize bool) float64 {
	var sum float64
	n := 0
	for _, r := range returns {
		if r < threshold {
			sum += r * r
			n++
		}
	}
	if n == 0 {
		return 0
	}
	vol := math.Sqrt(sum / float64(n))
	if annualize {
		vol *= math.Sqrt(tradingDaysPerYear)
	}
	return vol
}

// MaxDrawdown returns the deepest drawdown of a price series as a fraction
// (<= 0) together with the peak and trough dates. The peak is the highest
// value before the trough.
func (a *Analyzer) MaxDrawdown(prices types.Series) (float64, time.Time, time.Time) {
	if prices.Len() == 0 {
		return 0, time.Time{}, time.Time{}
	}
	values := prices.Values()

	maxDD := 0.0
	troughIdx := 0
	peak := values[0]
	for i, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak
			if dd < maxDD {
				maxDD = dd
				troughIdx = i
			}
		}
	}

	peakIdx := 0
	for i := 1; i <= troughIdx; i++ {
		if values[i] > values[peakIdx] {
			peakIdx = i
		}
	}

	return maxDD, prices.Date(peakIdx), prices.Date(troughIdx)
}

// Beta regresses portfolio returns on benchmark returns over their date
// intersection. Fewer than two aligned points or zero benchmark variance
// yield the neutral default 1.0.
func (a *Analyzer) Beta(portfolioReturns, benchmarkReturns types.Series) float64 {
	p, b := portfolioReturns.Align(benchmarkReturns)
	if p.Len() < 2 {
		return 1.0
	}
	pv, bv := p.Values(), b.Values()
	variance := sampleVar(bv)
	if variance == 0 || math.IsNaN(variance) {
		return 1.0
	}
	return sampleCov(pv, bv) / variance
}

// TrackingError is the standard deviation of the return differential over
// the date intersection, annualized on request.
func (a *Analyzer) TrackingError(portfolioReturns, benchmarkReturns types.Series, annualize bool) float64 {
	p, b := portfolioReturns.Align(benchmarkReturns)
	if p.Len() < 2 {
		return 0
	}
	pv, bv := p.Values(), b.Values()
	diff := make([]float64, len(pv))
	for i := range pv {
		diff[i] = pv[i] - bv[i]
	}
	te := sampleStd(diff)
	if annualize {
		te *= math.Sqrt(tradingDaysPerYear)
	}
	return te
}

// Analyze runs the full risk rollup on a price series, with beta and
// tracking error included when a benchmark price series is supplied.
// Percent-valued fields are scaled by 100.
func (a *Analyzer) Analyze(prices types.Series, benchmarkPrices types.Series) types.RiskMetrics {
	returns := ReturnsFromPrices(prices)
	rets := returns.Values()

	var beta, trackingError *float64
	if benchmarkPrices.Len() > 0 {
		benchmarkReturns := ReturnsFromPrices(benchmarkPrices)
		b := a.Beta(returns, benchmarkReturns)
		te := a.TrackingError(returns, benchmarkReturns, true) * 100
		beta = &b
		trackingError = &te
	}

	maxDD, _, _ := a.MaxDrawdown(prices)

	return types.RiskMetrics{
		VaR95:              a.VaRHistorical(rets, 0.95) * 100,
		VaR99:              a.VaRHistorical(rets, 0.99) * 100,
		CVaR95:             a.CVaR(rets, 0.95) * 100,
		CVaR99:             a.CVaR(rets, 0.99) * 100,
		Volatility:         a.Volatility(rets, true) * 100,
		DownsideVolatility: a.DownsideVolatility(rets, 0, true) * 100,
		MaxDrawdown:        maxDD * 100,
		Beta:               beta,
		TrackingError:      trackingError,
	}
}

// PortfolioVaR aggregates a per-stock returns panel into one weighted return
// series and computes its VaR. Weights are renormalized over the stocks
// actually present in the panel. Method is "historical" or "parametric".
func PortfolioVaR(weights map[string]float64, returns *types.PricePanel, confidence float64, method string) float64 {
	if returns == nil {
		return 0
	}

	var stocks []string
	totalWeight := 0.0
	for _, s := range returns.Stocks() {
		w, ok := weights[s]
		if !ok {
			continue
		}
		stocks = append(stocks, s)
		totalWeight += w
	}
	if len(stocks) == 0 || totalWeight == 0 {
		return 0
	}

	portfolio := make([]float64, 0, returns.Len())
	for _, date := range returns.Dates() {
		row, err := returns.Row(date)
		if err != nil {
			continue
		}
		sum := 0.0
		for _, s := range stocks {
			if r, ok := row.Get(s); ok {
				sum += r * weights[s] / totalWeight
			}
		}
		portfolio = append(portfolio, sum)
	}

	analyzer := NewAnalyzer()
	if method == "parametric" {
		return analyzer.VaRParametric(portfolio, confidence)
	}
	return analyzer.VaRHistorical(portfolio, confidence)
}

// StressResult is one scenario's outcome in a stress test.
type StressResult struct {
	NewValue float64
	PnL      float64
	PnLPct   float64
}

// StressTest applies named percentage shocks to the last value of a price
// series.
func StressTest(prices types.Series, scenarios map[string]float64) map[string]StressResult {
	out := make(map[string]StressResult, len(scenarios))
	if prices.Len() == 0 {
		return out
	}
	current := prices.Last()
	for name, changePct := range scenarios {
		out[name] = StressResult{
			NewValue: current * (1 + changePct),
			PnL:      current * changePct,
			PnLPct:   changePct * 100,
		}
	}
	return out
}

// percentile is the linearly interpolated p-th percentile (numpy default).
func percentile(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// normQuantile is the inverse standard normal CDF.
func normQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStd(xs []float64) float64 {
	return math.Sqrt(sampleVar(xs))
}

func sampleVar(xs []float64) float64 {
	return sampleCov(xs, xs)
}

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
