package comps

import (
	"math"

	"github.com/sirupsen/logrus"

	"corporate_valuation/pkg/core/stats"
)

// minUsableValues is the floor below which distribution cleaning is skipped.
// Filtering or clipping fewer than three points is statistically meaningless.
const minUsableValues = 3

// usableValues extracts the non-nil, finite values a peer set holds for a
// metric.
func usableValues(peers []PeerMetrics, metric MultipleMetric) []float64 {
	values := make([]float64, 0, len(peers))
	for i := range peers {
		if v := peers[i].Multiple(metric); v != nil {
			values = append(values, *v)
		}
	}
	return stats.Finite(values)
}

// FilterOutliersIQR drops peers whose value for metric falls outside the
// Tukey fence [Q1 - k*IQR, Q3 + k*IQR]. Peers without a usable value for
// the metric are kept; only demonstrable outliers are removed. With fewer
// than three usable values the input is returned unchanged (copied).
func FilterOutliersIQR(peers []PeerMetrics, metric MultipleMetric, multiplier float64) []PeerMetrics {
	values := usableValues(peers, metric)
	if len(values) < minUsableValues {
		return append([]PeerMetrics(nil), peers...)
	}

	q1, q3 := stats.Quartiles(values)
	iqr := q3 - q1
	lower := q1 - multiplier*iqr
	upper := q3 + multiplier*iqr

	kept := make([]PeerMetrics, 0, len(peers))
	for _, p := range peers {
		v := p.Multiple(metric)
		if v != nil && (*v < lower || *v > upper) {
			logrus.WithFields(logrus.Fields{
				"symbol": p.Symbol,
				"metric": metric,
				"value":  *v,
				"bounds": []float64{lower, upper},
			}).Debug("dropping outlier peer")
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// WinsorizeMultiples clips (rather than drops) each peer's value for metric
// to the lower/upper percentile bounds of the original distribution. The
// result is a new slice; the input peers are left untouched. Same
// fewer-than-three guard as the IQR filter.
func WinsorizeMultiples(peers []PeerMetrics, metric MultipleMetric, lowerPct, upperPct float64) []PeerMetrics {
	out := append([]PeerMetrics(nil), peers...)

	values := usableValues(peers, metric)
	if len(values) < minUsableValues {
		return out
	}

	lower := stats.Percentile(values, lowerPct)
	upper := stats.Percentile(values, upperPct)

	for i := range out {
		v := out[i].Multiple(metric)
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		switch {
		case *v < lower:
			out[i].setMultiple(metric, lower)
		case *v > upper:
			out[i].setMultiple(metric, upper)
		}
	}
	return out
}
