package valuation

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// SensitivityTable is a rectangular grid of value-per-share outcomes. Rows
// vary the risk-free rate, columns the perpetual growth rate. Cells that
// failed (e.g. growth at or above the derived WACC at a grid extreme) hold
// NaN rather than aborting the table.
type SensitivityTable struct {
	RiskFreeLabels []string    `json:"risk_free_labels"`
	GrowthLabels   []string    `json:"growth_labels"`
	RiskFreeRates  []float64   `json:"risk_free_rates"`
	GrowthRates    []float64   `json:"growth_rates"`
	Values         [][]float64 `json:"values"`
}

// SensitivityAnalysis builds a 2-D value-per-share table by varying the two
// primary drivers, risk-free rate and perpetual growth, each spanning
// base +/- range in steps evenly spaced points. The WACC is recomputed from
// scratch for every cell so the beta/ERP/capital-structure relationship
// stays internally consistent across the grid; a derived WACC is never
// back-solved.
//
// Requires a Gordon growth terminal configuration.
func SensitivityAnalysis(base DCFInputs, rfRange, growthRange float64, steps int) (*SensitivityTable, error) {
	gordon, ok := base.Terminal.(GordonGrowth)
	if !ok {
		return nil, fmt.Errorf("sensitivity: requires a Gordon growth terminal value, got %v", methodName(base.Terminal))
	}
	if steps < 1 {
		return nil, fmt.Errorf("sensitivity: steps must be >= 1, got %d", steps)
	}

	rfValues := spanRange(base.WACC.RiskFreeRate, rfRange, steps)
	growthValues := spanRange(gordon.PerpetualGrowthRate, growthRange, steps)

	table := &SensitivityTable{
		RiskFreeLabels: percentLabels(rfValues),
		GrowthLabels:   percentLabels(growthValues),
		RiskFreeRates:  rfValues,
		GrowthRates:    growthValues,
		Values:         make([][]float64, len(rfValues)),
	}

	for i, rf := range rfValues {
		row := make([]float64, len(growthValues))
		for j, g := range growthValues {
			// Fresh inputs per cell; the base is never mutated.
			cell := base
			cell.WACC.RiskFreeRate = rf
			cell.Terminal = GordonGrowth{PerpetualGrowthRate: g}

			res, err := CalculateDCF(cell)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"risk_free_rate": rf,
					"growth_rate":    g,
				}).WithError(err).Warn("sensitivity cell failed, recording NaN")
				row[j] = math.NaN()
				continue
			}
			row[j] = res.ValuePerShare
		}
		table.Values[i] = row
	}

	return table, nil
}

// spanRange returns steps evenly spaced points covering [base-span, base+span].
func spanRange(base, span float64, steps int) []float64 {
	if steps == 1 {
		return []float64{base}
	}
	out := make([]float64, steps)
	low := base - span
	step := 2 * span / float64(steps-1)
	for i := range out {
		out[i] = low + float64(i)*step
	}
	return out
}

func percentLabels(values []float64) []string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = fmt.Sprintf("%.2f%%", v*100)
	}
	return labels
}

func methodName(m TerminalValueMethod) string {
	if m == nil {
		return "none"
	}
	return m.Name()
}
