package comps

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"corporate_valuation/pkg/core/stats"
)

// MethodRegression requests regression-adjusted multiples for the EV/Revenue
// and EV/EBITDA bases.
const MethodRegression = "regression"

// Default winsorization bounds, in percentile points.
const (
	DefaultWinsorLowerPct = 5.0
	DefaultWinsorUpperPct = 95.0
)

// TargetMetrics holds the target company's level data (LTM, unit-consistent
// with the peer set) plus the optional fundamentals the regression path
// needs.
type TargetMetrics struct {
	Revenue   float64 `json:"revenue"`
	EBITDA    float64 `json:"ebitda"`
	EBIT      float64 `json:"ebit"`
	NetIncome float64 `json:"net_income"`

	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	ROIC          *float64 `json:"roic,omitempty"`
}

// ValuationInputs configures a comparable company valuation run.
type ValuationInputs struct {
	TargetSymbol      string
	Target            TargetMetrics
	Peers             []PeerMetrics
	SharesOutstanding float64
	NetDebt           float64
	Methods           []string
	UseWinsorization  bool
}

// BasisValuation is the implied value under one multiple basis. For the
// earnings basis (P/E) the implied equity value is derived directly from net
// income with no EV bridge, and ImpliedEV stays zero.
type BasisValuation struct {
	Multiple           float64 `json:"multiple"`
	MultipleSource     string  `json:"multiple_source"` // "median" or "regression"
	RSquared           float64 `json:"r_squared,omitempty"`
	ImpliedEV          float64 `json:"implied_ev"`
	ImpliedEquityValue float64 `json:"implied_equity_value"`
	ValuePerShare      float64 `json:"value_per_share"`
}

// CCAResult is the full output of a comparable company valuation: the
// applied multiple and implied values per basis, plus the statistical
// summary of the (possibly winsorized) peer distribution. All four bases
// are reported independently; blending across methodologies belongs to the
// caller, not this engine.
type CCAResult struct {
	TargetSymbol string                           `json:"target_symbol"`
	PeerCount    int                              `json:"peer_count"`
	Bases        map[MultipleMetric]BasisValuation `json:"bases"`
	Summary      map[MultipleMetric]MetricSummary  `json:"summary"`
}

// CalculateValuation runs the full comps pipeline: derive peer multiples,
// optionally winsorize each multiple against its own bounds, summarize the
// distribution, pick the multiple per basis (regression-adjusted for
// EV/Revenue and EV/EBITDA when requested and supported, peer median
// otherwise) and back out the target's implied value per share.
//
// A requested regression that lacks the minimum complete observations fails
// the run; it is never silently replaced with a median.
func CalculateValuation(in ValuationInputs) (*CCAResult, error) {
	if len(in.Peers) == 0 {
		return nil, fmt.Errorf("cca: peer set is empty")
	}

	// 1. Derive multiples on a fresh peer slice.
	peers := CalculatePeerMultiples(in.Peers)

	// 2. Winsorize each multiple independently against its own bounds.
	if in.UseWinsorization {
		for _, metric := range AllMetrics {
			peers = WinsorizeMultiples(peers, metric, DefaultWinsorLowerPct, DefaultWinsorUpperPct)
		}
	}

	// 3. Distribution summary over the cleaned peer set.
	summary := CalculateSummaryStatistics(peers, AllMetrics)

	useRegression := containsMethod(in.Methods, MethodRegression) &&
		in.Target.RevenueGrowth != nil && in.Target.ROIC != nil

	result := &CCAResult{
		TargetSymbol: in.TargetSymbol,
		PeerCount:    len(peers),
		Bases:        make(map[MultipleMetric]BasisValuation, len(AllMetrics)),
		Summary:      summary,
	}

	// 4/5. Multiple per basis. Regression adjustment is offered for
	// EV/Revenue and EV/EBITDA; EV/EBIT and P/E always use the median.
	for _, metric := range AllMetrics {
		var (
			multiple float64
			source   string
			r2       float64
		)

		if useRegression && (metric == MetricEVRevenue || metric == MetricEVEBITDA) {
			reg, err := RegressionAdjustedMultiple(peers, *in.Target.RevenueGrowth, *in.Target.ROIC, metric)
			if err != nil {
				return nil, err
			}
			multiple = reg.AdjustedMultiple
			source = MethodRegression
			r2 = reg.RSquared
			logrus.WithFields(logrus.Fields{
				"target":    in.TargetSymbol,
				"metric":    metric,
				"multiple":  multiple,
				"r_squared": r2,
			}).Debug("regression-adjusted multiple applied")
		} else {
			values := usableValues(peers, metric)
			if len(values) == 0 {
				// No usable peer distribution: the basis is omitted, not
				// reported as zero.
				continue
			}
			multiple = stats.Median(values)
			source = "median"
		}

		basis, ok := impliedValuation(metric, multiple, in)
		if !ok {
			continue
		}
		basis.MultipleSource = source
		basis.RSquared = r2
		result.Bases[metric] = basis
	}

	return result, nil
}

// impliedValuation applies a multiple to the target's basis metric. EV
// multiples bridge to equity by subtracting net debt; P/E produces equity
// value directly. A non-positive target basis metric omits the basis, since
// the implied value would be meaningless. Zero shares outstanding yields a
// zero per-share value (degenerate-but-valid, matching the DCF engine).
func impliedValuation(metric MultipleMetric, multiple float64, in ValuationInputs) (BasisValuation, bool) {
	basis := BasisValuation{Multiple: multiple}

	switch metric {
	case MetricEVRevenue, MetricEVEBITDA, MetricEVEBIT:
		base := map[MultipleMetric]float64{
			MetricEVRevenue: in.Target.Revenue,
			MetricEVEBITDA:  in.Target.EBITDA,
			MetricEVEBIT:    in.Target.EBIT,
		}[metric]
		if base <= 0 {
			return BasisValuation{}, false
		}
		basis.ImpliedEV = base * multiple
		basis.ImpliedEquityValue = basis.ImpliedEV - in.NetDebt
	case MetricPE:
		if in.Target.NetIncome <= 0 {
			return BasisValuation{}, false
		}
		basis.ImpliedEquityValue = in.Target.NetIncome * multiple
	default:
		return BasisValuation{}, false
	}

	if in.SharesOutstanding != 0 {
		basis.ValuePerShare = basis.ImpliedEquityValue / in.SharesOutstanding
	}
	return basis, true
}

func containsMethod(methods []string, want string) bool {
	for _, m := range methods {
		if m == want {
			return true
		}
	}
	return false
}
