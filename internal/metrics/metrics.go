// Package metrics turns a portfolio valuation series and trade log into
// return, risk and trade statistics. Every formula degrades to an explicit
// guarded value (0 or the 999.99 sentinel) instead of propagating NaN/Inf,
// so callers can always render a number.
package metrics

import (
	"math"
	"time"

	"stocklab/types"
)

const (
	// DefaultRiskFree is the annual risk-free rate used by the ratio
	// denominators unless overridden.
	DefaultRiskFree = 0.02

	tradingDaysPerYear = 252

	// unbounded replaces +/-Inf for ratios whose denominator vanishes, to
	// keep reported values representable and comparable.
	unbounded = 999.99
)

// Returns computes simple daily returns of a value series, with a leading
// zero for the first observation.
func Returns(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i]/values[i-1] - 1
	}
	return out
}

// TotalReturn is the percent change from the first to the last value.
func TotalReturn(s types.Series) float64 {
	if s.Len() < 2 {
		return 0
	}
	return (s.Last()/s.First() - 1) * 100
}

// AnnualizedReturn converts the total return to an annual rate using the
// actual elapsed calendar days.
func AnnualizedReturn(s types.Series) float64 {
	if s.Len() < 2 {
		return 0
	}
	days := s.Date(s.Len()-1).Sub(s.Date(0)).Hours() / 24
	if days <= 0 {
		return 0
	}
	years := days / 365.0
	return (math.Pow(s.Last()/s.First(), 1/years) - 1) * 100
}

// Volatility is the annualized standard deviation of daily returns, in
// percent.
func Volatility(s types.Series) float64 {
	if s.Len() < 2 {
		return 0
	}
	vol := sampleStd(Returns(s.Values()))
	if math.IsNaN(vol) || math.IsInf(vol, 0) {
		return 0
	}
	return vol * math.Sqrt(tradingDaysPerYear) * 100
}

// SharpeRatio is the annualized excess return over total volatility.
func SharpeRatio(s types.Series, riskFree float64) float64 {
	if s.Len() < 2 {
		return 0
	}
	annualized := AnnualizedReturn(s) / 100
	vol := Volatility(s) / 100
	if vol == 0 || math.IsNaN(vol) || math.IsInf(vol, 0) {
		return 0
	}
	result := (annualized - riskFree) / vol
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}

// SortinoRatio is the annualized excess return over downside volatility.
// With no negative daily returns the true value is unbounded; the 999.99
// sentinel is returned instead.
func SortinoRatio(s types.Series, riskFree float64) float64 {
	if s.Len() < 2 {
		return 0
	}
	var downside []float64
	for _, r := range Returns(s.Values()) {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return unbounded
	}

	downsideStd := sampleStd(downside) * math.Sqrt(tradingDaysPerYear)
	if downsideStd == 0 || math.IsNaN(downsideStd) || math.IsInf(downsideStd, 0) {
		return unbounded
	}

	result := (AnnualizedReturn(s)/100 - riskFree) / downsideStd
	if math.IsNaN(result) {
		return unbounded
	}
	if math.IsInf(result, 0) {
		if result > 0 {
			return unbounded
		}
		return -unbounded
	}
	return result
}

// MaxDrawdown returns the deepest peak-to-trough decline in percent (<= 0)
// and the longest drawdown interval in calendar days. An interval still open
// at series end counts through the last date.
func MaxDrawdown(s types.Series) (float64, int) {
	if s.Len() == 0 {
		return 0, 0
	}
	values := s.Values()

	maxDD := 0.0
	peak := values[0]
	inDrawdown := false
	var ddStart time.Time
	maxDuration := 0

	for i, v := range values {
		if v > peak {
			peak = v
		}
		dd := 0.0
		if peak > 0 {
			dd = (v - peak) / peak
		}
		if dd < maxDD {
			maxDD = dd
		}

		if dd < 0 && !inDrawdown {
			inDrawdown = true
			ddStart = s.Date(i)
		} else if dd >= 0 && inDrawdown {
			inDrawdown = false
			duration := int(s.Date(i).Sub(ddStart).Hours() / 24)
			if duration > maxDuration {
				maxDuration = duration
			}
		}
	}
	if inDrawdown {
		duration := int(s.Date(s.Len()-1).Sub(ddStart).Hours() / 24)
		if duration > maxDuration {
			maxDuration = duration
		}
	}

	return maxDD * 100, maxDuration
}

// WinRate is the percentage of closed trades with a positive return.
func WinRate(trades []types.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.ReturnPct > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}

// ProfitFactor is gross profit over gross loss across closed trades. All-win
// logs report +Inf.
func ProfitFactor(trades []types.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	profits, losses := 0.0, 0.0
	for _, t := range trades {
		switch {
		case t.ReturnPct > 0:
			profits += t.ReturnPct
		case t.ReturnPct < 0:
			losses += -t.ReturnPct
		}
	}
	if losses == 0 {
		if profits > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return profits / losses
}

// CalmarRatio is the annualized return over the absolute max drawdown, with
// the 999.99 sentinel when there is no drawdown.
func CalmarRatio(s types.Series) float64 {
	if s.Len() < 2 {
		return 0
	}
	annualized := AnnualizedReturn(s)
	maxDD, _ := MaxDrawdown(s)

	if maxDD == 0 || math.IsNaN(maxDD) {
		if annualized > 0 {
			return unbounded
		}
		return 0
	}
	result := annualized / math.Abs(maxDD)
	if math.IsNaN(result) {
		return unbounded
	}
	if math.IsInf(result, 0) {
		if result > 0 {
			return unbounded
		}
		return -unbounded
	}
	return result
}

// AvgHoldingDays is the mean holding period of closed trades.
func AvgHoldingDays(trades []types.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	sum := 0
	for _, t := range trades {
		sum += t.HoldingDays
	}
	return float64(sum) / float64(len(trades))
}

// Calculate assembles the full metrics set for one equity curve and its
// trade log.
func Calculate(values types.Series, trades []types.Trade, riskFree float64) types.PerformanceMetrics {
	maxDD, maxDDDuration := MaxDrawdown(values)

	return types.PerformanceMetrics{
		TotalReturn:         TotalReturn(values),
		AnnualizedReturn:    AnnualizedReturn(values),
		Volatility:          Volatility(values),
		SharpeRatio:         SharpeRatio(values, riskFree),
		SortinoRatio:        SortinoRatio(values, riskFree),
		MaxDrawdown:         maxDD,
		MaxDrawdownDuration: maxDDDuration,
		WinRate:             WinRate(trades),
		ProfitFactor:        ProfitFactor(trades),
		TotalTrades:         len(trades),
		AvgHoldingDays:      AvgHoldingDays(trades),
		CalmarRatio:         CalmarRatio(values),
	}
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

// sampleStd is the n-1 standard deviation.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
