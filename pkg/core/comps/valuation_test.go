package comps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targetInputs() ValuationInputs {
	return ValuationInputs{
		TargetSymbol: "TGT",
		Target: TargetMetrics{
			Revenue:   1000,
			EBITDA:    200,
			EBIT:      160,
			NetIncome: 100,
		},
		Peers: []PeerMetrics{
			{Symbol: "P1", MarketCap: 1500, EnterpriseValue: 2000, Revenue: 1000, EBITDA: 250, EBIT: 200, NetIncome: 120},
			{Symbol: "P2", MarketCap: 2400, EnterpriseValue: 3000, Revenue: 1200, EBITDA: 300, EBIT: 240, NetIncome: 150},
			{Symbol: "P3", MarketCap: 900, EnterpriseValue: 1200, Revenue: 800, EBITDA: 150, EBIT: 120, NetIncome: 60},
			{Symbol: "P4", MarketCap: 3200, EnterpriseValue: 4000, Revenue: 1600, EBITDA: 500, EBIT: 400, NetIncome: 200},
		},
		SharesOutstanding: 100,
		NetDebt:           300,
	}
}

func TestCalculateValuationMedianPath(t *testing.T) {
	res, err := CalculateValuation(targetInputs())
	require.NoError(t, err)

	assert.Equal(t, "TGT", res.TargetSymbol)
	assert.Equal(t, 4, res.PeerCount)

	// Peer EV/EBITDA multiples: 8, 10, 8, 8 -> median 8.
	ebitda, ok := res.Bases[MetricEVEBITDA]
	require.True(t, ok)
	assert.Equal(t, "median", ebitda.MultipleSource)
	assert.InDelta(t, 8.0, ebitda.Multiple, 1e-12)
	assert.InDelta(t, 200*8.0, ebitda.ImpliedEV, 1e-9)
	assert.InDelta(t, 200*8.0-300, ebitda.ImpliedEquityValue, 1e-9)
	assert.InDelta(t, (200*8.0-300)/100, ebitda.ValuePerShare, 1e-9)

	// P/E values equity directly: no EV bridge.
	pe, ok := res.Bases[MetricPE]
	require.True(t, ok)
	assert.Equal(t, 0.0, pe.ImpliedEV)
	assert.InDelta(t, 100*pe.Multiple, pe.ImpliedEquityValue, 1e-9)
	assert.InDelta(t, pe.ImpliedEquityValue/100, pe.ValuePerShare, 1e-9)

	// All four bases reported; no blended number anywhere.
	assert.Len(t, res.Bases, 4)
}

func TestCalculateValuationRegressionPath(t *testing.T) {
	in := targetInputs()
	in.Methods = []string{MethodRegression}
	in.Target.RevenueGrowth = fp(0.08)
	in.Target.ROIC = fp(0.15)
	growths := []float64{0.05, 0.10, 0.02, 0.08}
	roics := []float64{0.10, 0.15, 0.20, 0.12}
	for i := range in.Peers {
		in.Peers[i].RevenueGrowth = fp(growths[i])
		in.Peers[i].ROIC = fp(roics[i])
	}

	res, err := CalculateValuation(in)
	require.NoError(t, err)

	assert.Equal(t, MethodRegression, res.Bases[MetricEVRevenue].MultipleSource)
	assert.Equal(t, MethodRegression, res.Bases[MetricEVEBITDA].MultipleSource)
	// EV/EBIT and P/E stay on the median path.
	assert.Equal(t, "median", res.Bases[MetricEVEBIT].MultipleSource)
	assert.Equal(t, "median", res.Bases[MetricPE].MultipleSource)
}

func TestRegressionRequestedWithoutTargetFundamentalsFallsToMedian(t *testing.T) {
	in := targetInputs()
	in.Methods = []string{MethodRegression}
	// Target growth/ROIC absent: the regression path is not eligible.

	res, err := CalculateValuation(in)
	require.NoError(t, err)
	assert.Equal(t, "median", res.Bases[MetricEVRevenue].MultipleSource)
}

func TestRegressionRequestedButUnsupportedFailsLoudly(t *testing.T) {
	in := targetInputs()
	in.Methods = []string{MethodRegression}
	in.Target.RevenueGrowth = fp(0.08)
	in.Target.ROIC = fp(0.15)
	// Peers lack growth/ROIC entirely: fewer than 3 complete observations.

	_, err := CalculateValuation(in)
	assert.Error(t, err, "an infeasible regression must fail, never silently revert to the median")
}

func TestCalculateValuationWinsorizationToggle(t *testing.T) {
	in := targetInputs()
	// Add an extreme peer to stretch the distribution.
	in.Peers = append(in.Peers, PeerMetrics{
		Symbol: "WILD", MarketCap: 90_000, EnterpriseValue: 100_000, Revenue: 100, EBITDA: 10, EBIT: 8, NetIncome: 5,
	})

	plain, err := CalculateValuation(in)
	require.NoError(t, err)

	in.UseWinsorization = true
	winsorized, err := CalculateValuation(in)
	require.NoError(t, err)

	// Winsorization clips the tails, pulling max down toward the bounds.
	assert.Less(t, winsorized.Summary[MetricEVEBITDA].Max, plain.Summary[MetricEVEBITDA].Max)
	assert.Equal(t, plain.Summary[MetricEVEBITDA].Count, winsorized.Summary[MetricEVEBITDA].Count)
}

func TestCalculateValuationOmitsBasisWithoutUsableTargetMetric(t *testing.T) {
	in := targetInputs()
	in.Target.NetIncome = -50 // loss-making target: no meaningful P/E value

	res, err := CalculateValuation(in)
	require.NoError(t, err)

	_, hasPE := res.Bases[MetricPE]
	assert.False(t, hasPE)
}

func TestCalculateValuationZeroSharesDegenerate(t *testing.T) {
	in := targetInputs()
	in.SharesOutstanding = 0

	res, err := CalculateValuation(in)
	require.NoError(t, err)
	for metric, basis := range res.Bases {
		assert.Equal(t, 0.0, basis.ValuePerShare, "metric %s", metric)
	}
}

func TestCalculateValuationEmptyPeersFails(t *testing.T) {
	in := targetInputs()
	in.Peers = nil
	_, err := CalculateValuation(in)
	assert.Error(t, err)
}

func TestCalculateValuationDoesNotMutateCallerPeers(t *testing.T) {
	in := targetInputs()
	_, err := CalculateValuation(in)
	require.NoError(t, err)

	for _, p := range in.Peers {
		assert.Nil(t, p.EVEBITDA, "caller's peer slice must stay untouched")
	}
}
