package types

// PerformanceMetrics is the full set of return/risk/trade statistics derived
// from one equity curve and its trade log. Percent-valued fields are already
// scaled by 100.
type PerformanceMetrics struct {
	TotalReturn         float64 // %
	AnnualizedReturn    float64 // %
	Volatility          float64 // % annualized
	SharpeRatio         float64
	SortinoRatio        float64
	MaxDrawdown         float64 // %, <= 0
	MaxDrawdownDuration int     // calendar days
	WinRate             float64 // %
	ProfitFactor        float64
	TotalTrades         int
	AvgHoldingDays      float64
	CalmarRatio         float64
}

// BenchmarkComparison holds portfolio-versus-benchmark statistics over the
// date intersection of the two series.
type BenchmarkComparison struct {
	ExcessReturn     float64 // percentage points
	Beta             float64
	Alpha            float64 // %, Jensen's
	InformationRatio float64
	Correlation      float64
	TrackingError    float64 // % annualized
}

// RiskMetrics is the risk analyzer's rollup. Beta and TrackingError are nil
// when no benchmark was supplied.
type RiskMetrics struct {
	VaR95              float64 // %
	VaR99              float64 // %
	CVaR95             float64 // %
	CVaR99             float64 // %
	Volatility         float64 // % annualized
	DownsideVolatility float64 // % annualized
	MaxDrawdown        float64 // %
	Beta               *float64
	TrackingError      *float64 // %
}
