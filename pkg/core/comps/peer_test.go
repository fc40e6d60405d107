package comps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMultiples(t *testing.T) {
	p := CalculateMultiples(PeerMetrics{
		Symbol:          "ALPHA",
		MarketCap:       800,
		EnterpriseValue: 1000,
		Revenue:         500,
		EBITDA:          100,
		EBIT:            80,
		NetIncome:       50,
	})

	require.NotNil(t, p.EVRevenue)
	assert.InDelta(t, 2.0, *p.EVRevenue, 1e-12)
	require.NotNil(t, p.EVEBITDA)
	assert.InDelta(t, 10.0, *p.EVEBITDA, 1e-12)
	require.NotNil(t, p.EVEBIT)
	assert.InDelta(t, 12.5, *p.EVEBIT, 1e-12)
	require.NotNil(t, p.PERatio)
	assert.InDelta(t, 16.0, *p.PERatio, 1e-12)
}

func TestCalculateMultiplesExcludesNonPositiveDenominators(t *testing.T) {
	p := CalculateMultiples(PeerMetrics{
		Symbol:          "LOSSY",
		MarketCap:       400,
		EnterpriseValue: 600,
		Revenue:         300,
		EBITDA:          0,    // zero EBITDA: no EV/EBITDA
		EBIT:            -20,  // negative EBIT: no EV/EBIT
		NetIncome:       -5,   // loss-making: no P/E
	})

	assert.NotNil(t, p.EVRevenue)
	assert.Nil(t, p.EVEBITDA)
	assert.Nil(t, p.EVEBIT)
	assert.Nil(t, p.PERatio)
}

func TestCalculatePeerMultiplesReturnsNewSlice(t *testing.T) {
	peers := []PeerMetrics{{Symbol: "A", EnterpriseValue: 100, Revenue: 50}}
	out := CalculatePeerMultiples(peers)

	require.Len(t, out, 1)
	assert.NotNil(t, out[0].EVRevenue)
	// Input slice untouched.
	assert.Nil(t, peers[0].EVRevenue)
}
