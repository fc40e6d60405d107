package valuation

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corporate_valuation/pkg/core/comps"
	coreval "corporate_valuation/pkg/core/valuation"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func sampleDCFRequest() DCFRequest {
	return DCFRequest{
		FCFFForecast: []float64{100, 110, 121},
		WACC: coreval.WACCInputs{
			RiskFreeRate:       0.04,
			EquityRiskPremium:  0.06,
			UnleveredBeta:      1.0,
			TargetDebtToEquity: 0.25,
			PreTaxCostOfDebt:   0.05,
			TaxRate:            0.21,
			MarketCap:          5000,
			NetDebt:            1000,
		},
		Terminal:          TerminalRequest{Method: "gordon", PerpetualGrowthRate: 0.02},
		SharesOutstanding: 100,
		Cash:              200,
		Debt:              1200,
	}
}

func TestHandleDCF(t *testing.T) {
	rec := postJSON(t, HandleDCF, sampleDCFRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RunID  string             `json:"run_id"`
		Result coreval.DCFResult  `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Greater(t, resp.Result.ValuePerShare, 0.0)
}

func TestHandleDCFRejectsUnknownTerminalMethod(t *testing.T) {
	req := sampleDCFRequest()
	req.Terminal.Method = "mystery"

	rec := postJSON(t, HandleDCF, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDCFConfigErrorsReturn422(t *testing.T) {
	req := sampleDCFRequest()
	req.Terminal.PerpetualGrowthRate = 0.50

	rec := postJSON(t, HandleDCF, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleDCFRejectsGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	HandleDCF(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleCCA(t *testing.T) {
	body := CCARequest{
		TargetSymbol: "TGT",
		Target:       comps.TargetMetrics{Revenue: 1000, EBITDA: 200, EBIT: 160, NetIncome: 100},
		Peers: []comps.PeerMetrics{
			{Symbol: "P1", MarketCap: 1500, EnterpriseValue: 2000, Revenue: 1000, EBITDA: 250, EBIT: 200, NetIncome: 120},
			{Symbol: "P2", MarketCap: 2400, EnterpriseValue: 3000, Revenue: 1200, EBITDA: 300, EBIT: 240, NetIncome: 150},
			{Symbol: "P3", MarketCap: 900, EnterpriseValue: 1200, Revenue: 800, EBITDA: 150, EBIT: 120, NetIncome: 60},
		},
		SharesOutstanding: 100,
		NetDebt:           300,
	}

	rec := postJSON(t, HandleCCA, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RunID  string          `json:"run_id"`
		Result comps.CCAResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Result.PeerCount)
	assert.NotEmpty(t, resp.Result.Bases)
}

func TestHandleCCAEmptyPeersReturns422(t *testing.T) {
	rec := postJSON(t, HandleCCA, CCARequest{TargetSymbol: "TGT"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleSensitivity(t *testing.T) {
	body := SensitivityRequest{
		DCFRequest:    sampleDCFRequest(),
		RiskFreeRange: 0.01,
		GrowthRange:   0.005,
		Steps:         3,
	}

	rec := postJSON(t, HandleSensitivity, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result SensitivityResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Result.Values, 3)
	for _, row := range resp.Result.Values {
		for _, cell := range row {
			assert.NotNil(t, cell)
		}
	}
}

func TestHandleSensitivityFailedCellsEncodeAsNull(t *testing.T) {
	// A wide growth range pushes the top growth column past the derived
	// WACC, so those cells fail inside the grid.
	body := SensitivityRequest{
		DCFRequest:    sampleDCFRequest(),
		RiskFreeRange: 0.01,
		GrowthRange:   0.10,
		Steps:         3,
	}

	rec := postJSON(t, HandleSensitivity, body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Body.Bytes())

	var resp struct {
		RunID  string              `json:"run_id"`
		Result SensitivityResponse `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Result.Values, 3)

	// Growth spans {-0.08, 0.02, 0.12}; 12% exceeds the WACC in every row,
	// while the surviving columns keep their values.
	for _, row := range resp.Result.Values {
		require.Len(t, row, 3)
		assert.Nil(t, row[2])
		require.NotNil(t, row[0])
		require.NotNil(t, row[1])
		assert.False(t, math.IsNaN(*row[0]))
	}
}

func TestHandleMonteCarlo(t *testing.T) {
	body := MonteCarloRequest{
		DCFRequest:  sampleDCFRequest(),
		ERPStdDev:   0.01,
		BetaStdDev:  0.1,
		Simulations: 100,
		Seed:        7,
	}

	rec := postJSON(t, HandleMonteCarlo, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result coreval.MonteCarloResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Result.Requested)
	assert.Equal(t, resp.Result.Successful, len(resp.Result.Outcomes))
}
