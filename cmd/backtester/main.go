package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"stocklab/internal/config"
	"stocklab/internal/engine"
	"stocklab/internal/repository"
	"stocklab/internal/risk"
	"stocklab/internal/util"
	"stocklab/strategies/momentum"
	"stocklab/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := util.NewLogger(cfg.Logging.Level)

	db, err := repository.NewDatabase(cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	start, end, err := parseRange(cfg.Backtest.Start, cfg.Backtest.End)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	dataset, err := db.LoadDataset(ctx, cfg.Backtest.Stocks, cfg.Backtest.Benchmark, start, end)
	if err != nil {
		log.Fatal(err)
	}

	eng := engine.NewEngine(engine.EngineConfig{
		InitialCapital:     decimal.NewFromFloat(cfg.Backtest.InitialCapital),
		CommissionRate:     decimal.NewFromFloat(cfg.Costs.CommissionRate),
		TaxRate:            decimal.NewFromFloat(cfg.Costs.TaxRate),
		CommissionDiscount: decimal.NewFromFloat(cfg.Costs.CommissionDiscount),
		PriceLimitEnabled:  cfg.PriceLimits.Enabled,
		UpLimitPct:         cfg.PriceLimits.UpLimitPct,
		DownLimitPct:       cfg.PriceLimits.DownLimitPct,
		Logger:             logger,
	})

	screener := momentum.New(20, cfg.Backtest.MaxStocks)
	result, err := eng.Run(screener.Select, dataset, engine.RunOptions{
		RebalanceFreq: types.Frequency(cfg.Backtest.RebalanceFreq),
		MaxStocks:     cfg.Backtest.MaxStocks,
		WeightMethod:  types.WeightMethod(cfg.Backtest.WeightMethod),
		ShowProgress:  true,
	})
	if err != nil {
		log.Fatal(err)
	}

	printResult(result)

	analyzer := risk.NewAnalyzer()
	printRiskMetrics(analyzer.Analyze(result.PortfolioValues, dataset.Benchmark))
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	var s, e time.Time
	var err error
	if start != "" {
		s, err = time.Parse("2006-01-02", start)
		if err != nil {
			return s, e, fmt.Errorf("parse start date: %w", err)
		}
	}
	if end != "" {
		e, err = time.Parse("2006-01-02", end)
		if err != nil {
			return s, e, fmt.Errorf("parse end date: %w", err)
		}
	}
	if s.IsZero() {
		s = time.Now().AddDate(-3, 0, 0)
	}
	if e.IsZero() {
		e = time.Now()
	}
	return s, e, nil
}

func printResult(result *types.BacktestResult) {
	m := result.Metrics

	fmt.Println("===== Backtest Report =====")
	fmt.Printf("Run ID:                %s\n", result.Config.RunID)
	fmt.Printf("Period:                %s .. %s\n",
		result.Config.Start.Format("2006-01-02"), result.Config.End.Format("2006-01-02"))
	fmt.Printf("Initial Capital:       %s\n", result.Config.InitialCapital)

	fmt.Println("\n-- Returns --")
	fmt.Printf("Total Return:          %.2f%%\n", m.TotalReturn)
	fmt.Printf("Annualized Return:     %.2f%%\n", m.AnnualizedReturn)
	fmt.Printf("Volatility:            %.2f%%\n", m.Volatility)

	fmt.Println("\n-- Risk-Adjusted --")
	fmt.Printf("Sharpe Ratio:          %.2f\n", m.SharpeRatio)
	fmt.Printf("Sortino Ratio:         %.2f\n", m.SortinoRatio)
	fmt.Printf("Calmar Ratio:          %.2f\n", m.CalmarRatio)
	fmt.Printf("Max Drawdown:          %.2f%% (%d days)\n", m.MaxDrawdown, m.MaxDrawdownDuration)

	fmt.Println("\n-- Trades --")
	fmt.Printf("Total Trades:          %d\n", m.TotalTrades)
	fmt.Printf("Win Rate:              %.2f%%\n", m.WinRate)
	fmt.Printf("Profit Factor:         %.2f\n", m.ProfitFactor)
	fmt.Printf("Avg Holding Days:      %.1f\n", m.AvgHoldingDays)

	if c := result.BenchmarkComparison; c != nil {
		fmt.Println("\n-- Versus Benchmark --")
		fmt.Printf("Excess Return:         %.2f pts\n", c.ExcessReturn)
		fmt.Printf("Beta:                  %.2f\n", c.Beta)
		fmt.Printf("Alpha:                 %.2f%%\n", c.Alpha)
		fmt.Printf("Information Ratio:     %.2f\n", c.InformationRatio)
		fmt.Printf("Correlation:           %.2f\n", c.Correlation)
		fmt.Printf("Tracking Error:        %.2f%%\n", c.TrackingError)
	}
	fmt.Println("===========================")
}

func printRiskMetrics(rm types.RiskMetrics) {
	fmt.Println("\n===== Risk Analysis =====")
	fmt.Printf("VaR 95%%:               %.2f%%\n", rm.VaR95)
	fmt.Printf("VaR 99%%:               %.2f%%\n", rm.VaR99)
	fmt.Printf("CVaR 95%%:              %.2f%%\n", rm.CVaR95)
	fmt.Printf("CVaR 99%%:              %.2f%%\n", rm.CVaR99)
	fmt.Printf("Volatility:            %.2f%%\n", rm.Volatility)
	fmt.Printf("Downside Volatility:   %.2f%%\n", rm.DownsideVolatility)
	fmt.Printf("Max Drawdown:          %.2f%%\n", rm.MaxDrawdown)
	if rm.Beta != nil {
		fmt.Printf("Beta:                  %.2f\n", *rm.Beta)
	}
	if rm.TrackingError != nil {
		fmt.Printf("Tracking Error:        %.2f%%\n", *rm.TrackingError)
	}
	fmt.Println("=========================")
}
