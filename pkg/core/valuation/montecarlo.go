package valuation

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"corporate_valuation/pkg/core/stats"
)

// betaFloor keeps a sampled beta from going degenerate or negative, which
// would produce a nonsensical discount rate.
const betaFloor = 0.1

// growthCapEpsilon is how far below the sampled WACC a sampled growth rate
// is capped.
const growthCapEpsilon = 1e-4

// MonteCarloConfig controls the stochastic DCF simulation. Base values for
// ERP, beta and growth come from the DCF inputs themselves; only the
// dispersion is configured here.
type MonteCarloConfig struct {
	ERPStdDev    float64
	BetaStdDev   float64
	GrowthStdDev float64
	Simulations  int
	Seed         int64
}

// MonteCarloResult summarizes the per-trial value-per-share distribution.
// Outcomes carries the raw per-trial values for downstream histogramming.
type MonteCarloResult struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P10    float64 `json:"p10"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`

	Requested  int       `json:"requested_simulations"`
	Successful int       `json:"successful_simulations"`
	Outcomes   []float64 `json:"outcomes"`
}

// MonteCarloSimulation runs the full DCF repeatedly with ERP, beta and (for
// Gordon growth) the perpetual growth rate drawn from normal distributions
// centered on the supplied inputs.
//
// The generator is locally scoped and built from the supplied seed, so
// identical inputs with the same seed reproduce bit-identical statistics and
// concurrent simulations cannot interfere. A sampled growth rate at or above
// the sampled WACC is capped just below it instead of discarding the trial,
// keeping the effective sample size close to the requested count. Trials
// that still fail are logged and skipped; Successful reports the actual
// count used.
func MonteCarloSimulation(base DCFInputs, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	if cfg.Simulations <= 0 {
		return nil, fmt.Errorf("monte carlo: simulations must be positive, got %d", cfg.Simulations)
	}
	if len(base.FCFFForecast) == 0 {
		return nil, fmt.Errorf("monte carlo: FCFF forecast is empty")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	gordon, hasGordon := base.Terminal.(GordonGrowth)

	outcomes := make([]float64, 0, cfg.Simulations)
	for trial := 0; trial < cfg.Simulations; trial++ {
		in := base
		in.WACC.EquityRiskPremium = base.WACC.EquityRiskPremium + rng.NormFloat64()*cfg.ERPStdDev
		in.WACC.UnleveredBeta = base.WACC.UnleveredBeta + rng.NormFloat64()*cfg.BetaStdDev
		if in.WACC.UnleveredBeta < betaFloor {
			in.WACC.UnleveredBeta = betaFloor
		}

		if hasGordon {
			growth := gordon.PerpetualGrowthRate + rng.NormFloat64()*cfg.GrowthStdDev
			// Cap growth below the WACC implied by this trial's draws so the
			// Gordon denominator stays positive.
			impliedWACC := CalculateWACC(in.WACC).WACC
			if growth >= impliedWACC {
				growth = impliedWACC - growthCapEpsilon
			}
			in.Terminal = GordonGrowth{PerpetualGrowthRate: growth}
		}

		res, err := CalculateDCF(in)
		if err != nil {
			logrus.WithField("trial", trial).WithError(err).Warn("monte carlo trial failed, skipping")
			continue
		}
		outcomes = append(outcomes, res.ValuePerShare)
	}

	result := &MonteCarloResult{
		Requested:  cfg.Simulations,
		Successful: len(outcomes),
		Outcomes:   outcomes,
	}
	if len(outcomes) > 0 {
		result.Mean = stats.Mean(outcomes)
		result.Median = stats.Median(outcomes)
		result.StdDev = stats.PopStdDev(outcomes)
		result.Min, result.Max = stats.MinMax(outcomes)
		result.P10 = stats.Percentile(outcomes, 10)
		result.P25 = stats.Percentile(outcomes, 25)
		result.P75 = stats.Percentile(outcomes, 75)
		result.P90 = stats.Percentile(outcomes, 90)
	}
	return result, nil
}
