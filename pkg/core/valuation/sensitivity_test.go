package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitivityGridShapeAndLabels(t *testing.T) {
	table, err := SensitivityAnalysis(baseDCFInputs(), 0.01, 0.005, 3)
	require.NoError(t, err)

	require.Len(t, table.RiskFreeRates, 3)
	require.Len(t, table.GrowthRates, 3)
	require.Len(t, table.Values, 3)
	for _, row := range table.Values {
		require.Len(t, row, 3)
	}

	// Axes span base +/- range, labeled as percentages with 2 decimals.
	assert.InDelta(t, 0.035, table.RiskFreeRates[0], 1e-12)
	assert.InDelta(t, 0.045, table.RiskFreeRates[1], 1e-12)
	assert.InDelta(t, 0.055, table.RiskFreeRates[2], 1e-12)
	assert.Equal(t, []string{"3.50%", "4.50%", "5.50%"}, table.RiskFreeLabels)
	assert.Equal(t, []string{"2.00%", "2.50%", "3.00%"}, table.GrowthLabels)
}

func TestSensitivityCenterCellMatchesBaseCase(t *testing.T) {
	base := baseDCFInputs()
	baseRes, err := CalculateDCF(base)
	require.NoError(t, err)

	table, err := SensitivityAnalysis(base, 0.01, 0.005, 3)
	require.NoError(t, err)
	assert.InDelta(t, baseRes.ValuePerShare, table.Values[1][1], 1e-9)
}

func TestSensitivityBadCellsBecomeNaN(t *testing.T) {
	// A growth range wide enough to push the top growth rate above the WACC
	// derived at the lowest risk-free rate. The cell fails; the table survives.
	table, err := SensitivityAnalysis(baseDCFInputs(), 0.02, 0.10, 3)
	require.NoError(t, err)

	var sawNaN, sawFinite bool
	for _, row := range table.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				sawNaN = true
			} else {
				sawFinite = true
			}
		}
	}
	assert.True(t, sawNaN, "expected at least one failed cell recorded as NaN")
	assert.True(t, sawFinite, "expected the table to keep its valid cells")
}

func TestSensitivityRequiresGordonTerminal(t *testing.T) {
	in := baseDCFInputs()
	in.Terminal = ExitMultiple{Multiple: 8, TerminalEBITDA: 20_000_000}

	_, err := SensitivityAnalysis(in, 0.01, 0.005, 3)
	assert.Error(t, err)
}

func TestSensitivityRejectsNonPositiveSteps(t *testing.T) {
	_, err := SensitivityAnalysis(baseDCFInputs(), 0.01, 0.005, 0)
	assert.Error(t, err)
}

func TestSensitivityDoesNotMutateBase(t *testing.T) {
	base := baseDCFInputs()
	_, err := SensitivityAnalysis(base, 0.01, 0.005, 3)
	require.NoError(t, err)

	assert.Equal(t, baseDCFInputs(), base)
}
