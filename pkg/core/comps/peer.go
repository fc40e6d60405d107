// Package comps implements comparable company analysis: peer multiple
// computation, distribution cleaning (IQR fences, winsorization), summary
// statistics, regression-adjusted multiples and the implied valuation of a
// target against its peer set.
//
// Peers are treated as values. Every pipeline stage (filter, winsorize)
// returns a new slice instead of mutating its input, so a peer list can be
// reused across analyses without aliasing surprises.
package comps

// MultipleMetric names one of the valuation multiples derived for a peer.
type MultipleMetric string

const (
	MetricEVRevenue MultipleMetric = "ev_revenue"
	MetricEVEBITDA  MultipleMetric = "ev_ebitda"
	MetricEVEBIT    MultipleMetric = "ev_ebit"
	MetricPE        MultipleMetric = "pe"
)

// AllMetrics lists every multiple in the order valuations report them.
var AllMetrics = []MultipleMetric{MetricEVRevenue, MetricEVEBITDA, MetricEVEBIT, MetricPE}

// PeerMetrics is one comparable company: level data from the ingestion
// layer plus the derived multiples, which start nil and are populated by
// CalculateMultiples.
type PeerMetrics struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	MarketCap       float64 `json:"market_cap"`
	EnterpriseValue float64 `json:"enterprise_value"`
	Revenue         float64 `json:"revenue"`
	EBITDA          float64 `json:"ebitda"`
	EBIT            float64 `json:"ebit"`
	NetIncome       float64 `json:"net_income"`

	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	ROIC          *float64 `json:"roic,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	Industry      string   `json:"industry,omitempty"`

	EVRevenue *float64 `json:"ev_revenue,omitempty"`
	EVEBITDA  *float64 `json:"ev_ebitda,omitempty"`
	EVEBIT    *float64 `json:"ev_ebit,omitempty"`
	PERatio   *float64 `json:"pe_ratio,omitempty"`
}

// Multiple returns the peer's value for the given metric, nil when unset.
func (p *PeerMetrics) Multiple(metric MultipleMetric) *float64 {
	switch metric {
	case MetricEVRevenue:
		return p.EVRevenue
	case MetricEVEBITDA:
		return p.EVEBITDA
	case MetricEVEBIT:
		return p.EVEBIT
	case MetricPE:
		return p.PERatio
	}
	return nil
}

func (p *PeerMetrics) setMultiple(metric MultipleMetric, v float64) {
	switch metric {
	case MetricEVRevenue:
		p.EVRevenue = &v
	case MetricEVEBITDA:
		p.EVEBITDA = &v
	case MetricEVEBIT:
		p.EVEBIT = &v
	case MetricPE:
		p.PERatio = &v
	}
}

// CalculateMultiples derives the four valuation multiples for a single peer.
// EV multiples are computed only when the denominator is strictly positive;
// a zero or negative denominator leaves the multiple nil, since a negative
// multiple is economically meaningless and must be excluded rather than
// computed. P/E likewise requires positive net income.
func CalculateMultiples(p PeerMetrics) PeerMetrics {
	if p.Revenue > 0 {
		v := p.EnterpriseValue / p.Revenue
		p.EVRevenue = &v
	}
	if p.EBITDA > 0 {
		v := p.EnterpriseValue / p.EBITDA
		p.EVEBITDA = &v
	}
	if p.EBIT > 0 {
		v := p.EnterpriseValue / p.EBIT
		p.EVEBIT = &v
	}
	if p.NetIncome > 0 {
		v := p.MarketCap / p.NetIncome
		p.PERatio = &v
	}
	return p
}

// CalculatePeerMultiples derives multiples for every peer, returning a new
// slice.
func CalculatePeerMultiples(peers []PeerMetrics) []PeerMetrics {
	out := make([]PeerMetrics, len(peers))
	for i, p := range peers {
		out[i] = CalculateMultiples(p)
	}
	return out
}
