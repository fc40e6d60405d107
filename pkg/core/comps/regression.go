package comps

import (
	"fmt"
	"math"
	"strings"

	"corporate_valuation/pkg/core/stats"
)

// minRegressionObservations is the hard floor of complete peer observations
// required to fit the cross-sectional regression.
const minRegressionObservations = 3

// RegressionResult holds the fitted cross-sectional model
// multiple ~ 1 + growth + ROIC evaluated at the target's fundamentals.
// RSquared is surfaced as a diagnostic; it is not enforced as a gate.
type RegressionResult struct {
	AdjustedMultiple float64 `json:"adjusted_multiple"`
	Intercept        float64 `json:"intercept"`
	GrowthCoef       float64 `json:"growth_coef"`
	ROICCoef         float64 `json:"roic_coef"`
	RSquared         float64 `json:"r_squared"`
	Observations     int     `json:"observations"`
}

// PeerGap records which of the regression inputs a peer is missing.
type PeerGap struct {
	Symbol  string
	Missing []string
}

// InsufficientPeerDataError reports a regression attempted with fewer than
// the minimum complete observations. It enumerates, peer by peer, which of
// {multiple, growth, ROIC} was absent so the caller can see exactly what to
// remediate. A regression-adjusted multiple with insufficient support is
// worse than an explicit failure, so there is no median fallback here.
type InsufficientPeerDataError struct {
	Metric   MultipleMetric
	Complete int
	Gaps     []PeerGap
}

func (e *InsufficientPeerDataError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "regression on %s requires at least %d complete peer observations, have %d.",
		e.Metric, minRegressionObservations, e.Complete)
	for _, gap := range e.Gaps {
		fmt.Fprintf(&b, " %s is missing %s;", gap.Symbol, strings.Join(gap.Missing, ", "))
	}
	b.WriteString(" supply the missing fields for more peers, widen the peer set, or use the median multiple instead")
	return b.String()
}

// RegressionAdjustedMultiple fits multiple ~ 1 + growth + ROIC over peers
// with all three fields present and finite, then predicts the multiple at
// the target's growth and ROIC. Peers missing any input are excluded from
// the fit, never imputed.
func RegressionAdjustedMultiple(peers []PeerMetrics, targetGrowth, targetROIC float64, metric MultipleMetric) (*RegressionResult, error) {
	var (
		design   [][]float64
		response []float64
		gaps     []PeerGap
	)

	for i := range peers {
		p := &peers[i]
		var missing []string
		mult := p.Multiple(metric)
		if mult == nil || math.IsNaN(*mult) || math.IsInf(*mult, 0) {
			missing = append(missing, string(metric))
		}
		if p.RevenueGrowth == nil {
			missing = append(missing, "revenue growth")
		}
		if p.ROIC == nil {
			missing = append(missing, "ROIC")
		}
		if len(missing) > 0 {
			gaps = append(gaps, PeerGap{Symbol: p.Symbol, Missing: missing})
			continue
		}
		design = append(design, []float64{1.0, *p.RevenueGrowth, *p.ROIC})
		response = append(response, *mult)
	}

	if len(response) < minRegressionObservations {
		return nil, &InsufficientPeerDataError{Metric: metric, Complete: len(response), Gaps: gaps}
	}

	fit, err := stats.OLS(design, response)
	if err != nil {
		return nil, fmt.Errorf("regression on %s: %w", metric, err)
	}

	adjusted := fit.Coefficients[0] + fit.Coefficients[1]*targetGrowth + fit.Coefficients[2]*targetROIC

	return &RegressionResult{
		AdjustedMultiple: adjusted,
		Intercept:        fit.Coefficients[0],
		GrowthCoef:       fit.Coefficients[1],
		ROICCoef:         fit.Coefficients[2],
		RSquared:         fit.RSquared,
		Observations:     len(response),
	}, nil
}
