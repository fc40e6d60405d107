package comps

import "corporate_valuation/pkg/core/stats"

// MetricSummary is one row of the statistical summary table for a multiple.
type MetricSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"` // population std dev
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// CalculateSummaryStatistics tabulates count/mean/median/min/max/stddev and
// quartiles per metric over the peers' usable (non-nil, finite) values. A
// metric with no usable values is omitted from the table rather than
// rendered as zeros.
func CalculateSummaryStatistics(peers []PeerMetrics, metrics []MultipleMetric) map[MultipleMetric]MetricSummary {
	table := make(map[MultipleMetric]MetricSummary, len(metrics))
	for _, metric := range metrics {
		values := usableValues(peers, metric)
		if len(values) == 0 {
			continue
		}
		min, max := stats.MinMax(values)
		q1, q3 := stats.Quartiles(values)
		table[metric] = MetricSummary{
			Count:  len(values),
			Mean:   stats.Mean(values),
			Median: stats.Median(values),
			Min:    min,
			Max:    max,
			StdDev: stats.PopStdDev(values),
			P25:    q1,
			P75:    q3,
		}
	}
	return table
}
