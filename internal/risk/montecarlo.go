package risk

import (
	"errors"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNoReturns is returned when a Monte Carlo run has no historical returns
// to estimate from.
var ErrNoReturns = errors.New("monte carlo requires a non-empty returns series")

// MonteCarloConfig parameterizes a simulation. Zero values take defaults:
// 252 days, 1000 simulations, initial value 1.0, workers = GOMAXPROCS,
// time-based seed.
type MonteCarloConfig struct {
	Days         int
	Simulations  int
	InitialValue float64
	Seed         int64
	Workers      int
}

func (c MonteCarloConfig) withDefaults() MonteCarloConfig {
	if c.Days <= 0 {
		c.Days = 252
	}
	if c.Simulations <= 0 {
		c.Simulations = 1000
	}
	if c.InitialValue == 0 {
		c.InitialValue = 1.0
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// MonteCarloResult holds the full simulated path matrix so callers can
// derive arbitrary percentile or fan-chart views. Paths[i][d] is the value
// of simulation i on day d.
type MonteCarloResult struct {
	Days         int
	Simulations  int
	InitialValue float64
	Paths        [][]float64
}

// PercentileOnDay computes the p-th percentile of all simulated values on
// one day.
func (r *MonteCarloResult) PercentileOnDay(day int, p float64) float64 {
	values := make([]float64, r.Simulations)
	for i, path := range r.Paths {
		values[i] = path[day]
	}
	return percentile(values, p)
}

// MonteCarlo projects a value forward by drawing i.i.d. Normal(mean, std)
// daily returns estimated from the historical series and compounding them
// from the initial value. Paths are independent, so generation is fanned out
// across workers with per-worker random streams.
func MonteCarlo(returns []float64, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	if len(returns) == 0 {
		return nil, ErrNoReturns
	}
	cfg = cfg.withDefaults()

	m := mean(returns)
	s := sampleStd(returns)

	paths := make([][]float64, cfg.Simulations)

	var g errgroup.Group
	chunk := (cfg.Simulations + cfg.Workers - 1) / cfg.Workers
	for w := 0; w < cfg.Workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > cfg.Simulations {
			hi = cfg.Simulations
		}
		if lo >= hi {
			break
		}
		rng := rand.New(rand.NewSource(cfg.Seed + int64(w)))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				path := make([]float64, cfg.Days)
				value := cfg.InitialValue
				for d := 0; d < cfg.Days; d++ {
					value *= 1 + (rng.NormFloat64()*s + m)
					path[d] = value
				}
				paths[i] = path
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &MonteCarloResult{
		Days:         cfg.Days,
		Simulations:  cfg.Simulations,
		InitialValue: cfg.InitialValue,
		Paths:        paths,
	}, nil
}
