// Package valuation exposes the calculation engines over HTTP. Handlers are
// thin shells: decode JSON, build engine inputs, run, encode. No valuation
// number is derived here.
package valuation

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"corporate_valuation/pkg/core/comps"
	coreval "corporate_valuation/pkg/core/valuation"
)

// TerminalRequest is the wire form of the terminal-value choice.
type TerminalRequest struct {
	Method              string  `json:"method"` // "gordon" or "exit_multiple"
	PerpetualGrowthRate float64 `json:"perpetual_growth_rate"`
	ExitMultiple        float64 `json:"exit_multiple"`
	TerminalEBITDA      float64 `json:"terminal_ebitda"`
}

func (t TerminalRequest) toMethod() (coreval.TerminalValueMethod, bool) {
	switch t.Method {
	case "gordon", "gordon_growth":
		return coreval.GordonGrowth{PerpetualGrowthRate: t.PerpetualGrowthRate}, true
	case "exit_multiple":
		return coreval.ExitMultiple{Multiple: t.ExitMultiple, TerminalEBITDA: t.TerminalEBITDA}, true
	}
	return nil, false
}

// DCFRequest is the wire form of a DCF calculation.
type DCFRequest struct {
	FCFFForecast      []float64           `json:"fcff_forecast"`
	WACC              coreval.WACCInputs  `json:"wacc"`
	Terminal          TerminalRequest     `json:"terminal"`
	SharesOutstanding float64             `json:"shares_outstanding"`
	Cash              float64             `json:"cash"`
	Debt              float64             `json:"debt"`
	MinorityInterest  float64             `json:"minority_interest"`
	Investments       float64             `json:"investments"`
	MidYearConvention bool                `json:"mid_year_convention"`
}

func (r DCFRequest) toInputs() (coreval.DCFInputs, bool) {
	terminal, ok := r.Terminal.toMethod()
	if !ok {
		return coreval.DCFInputs{}, false
	}
	return coreval.DCFInputs{
		FCFFForecast:      r.FCFFForecast,
		WACC:              r.WACC,
		Terminal:          terminal,
		SharesOutstanding: r.SharesOutstanding,
		Cash:              r.Cash,
		Debt:              r.Debt,
		MinorityInterest:  r.MinorityInterest,
		Investments:       r.Investments,
		MidYearConvention: r.MidYearConvention,
	}, true
}

// SensitivityRequest adds the grid parameters to a DCF base case.
type SensitivityRequest struct {
	DCFRequest
	RiskFreeRange float64 `json:"risk_free_range"`
	GrowthRange   float64 `json:"growth_range"`
	Steps         int     `json:"steps"`
}

// SensitivityResponse is the wire form of a sensitivity table. The engine
// records failed cells as NaN, which JSON cannot represent; those cells
// cross the wire as null so the rest of the table survives encoding.
type SensitivityResponse struct {
	RiskFreeLabels []string     `json:"risk_free_labels"`
	GrowthLabels   []string     `json:"growth_labels"`
	RiskFreeRates  []float64    `json:"risk_free_rates"`
	GrowthRates    []float64    `json:"growth_rates"`
	Values         [][]*float64 `json:"values"`
}

func newSensitivityResponse(t *coreval.SensitivityTable) SensitivityResponse {
	values := make([][]*float64, len(t.Values))
	for i, row := range t.Values {
		cells := make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				cell := v
				cells[j] = &cell
			}
		}
		values[i] = cells
	}
	return SensitivityResponse{
		RiskFreeLabels: t.RiskFreeLabels,
		GrowthLabels:   t.GrowthLabels,
		RiskFreeRates:  t.RiskFreeRates,
		GrowthRates:    t.GrowthRates,
		Values:         values,
	}
}

// MonteCarloRequest adds the simulation parameters to a DCF base case.
type MonteCarloRequest struct {
	DCFRequest
	ERPStdDev    float64 `json:"erp_std_dev"`
	BetaStdDev   float64 `json:"beta_std_dev"`
	GrowthStdDev float64 `json:"growth_std_dev"`
	Simulations  int     `json:"simulations"`
	Seed         int64   `json:"seed"`
}

// CCARequest is the wire form of a comparable company valuation.
type CCARequest struct {
	TargetSymbol      string              `json:"target_symbol"`
	Target            comps.TargetMetrics `json:"target"`
	Peers             []comps.PeerMetrics `json:"peers"`
	SharesOutstanding float64             `json:"shares_outstanding"`
	NetDebt           float64             `json:"net_debt"`
	Methods           []string            `json:"methods"`
	UseWinsorization  bool                `json:"use_winsorization"`
}

// envelope tags every response with the run ID for log correlation.
type envelope struct {
	RunID  string      `json:"run_id"`
	Result interface{} `json:"result"`
}

func writeResult(w http.ResponseWriter, runID string, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope{RunID: runID, Result: result}); err != nil {
		logrus.WithField("run_id", runID).WithError(err).Error("failed to encode response")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func newRun(endpoint string) (string, *logrus.Entry) {
	runID := uuid.NewString()
	return runID, logrus.WithFields(logrus.Fields{"run_id": runID, "endpoint": endpoint})
}

// HandleDCF serves POST /api/valuation/dcf.
func HandleDCF(w http.ResponseWriter, r *http.Request) {
	var req DCFRequest
	if !decode(w, r, &req) {
		return
	}
	runID, log := newRun("dcf")

	in, ok := req.toInputs()
	if !ok {
		http.Error(w, "unknown terminal method", http.StatusBadRequest)
		return
	}
	res, err := coreval.CalculateDCF(in)
	if err != nil {
		log.WithError(err).Warn("dcf request failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	log.WithField("value_per_share", res.ValuePerShare).Info("dcf computed")
	writeResult(w, runID, res)
}

// HandleSensitivity serves POST /api/valuation/sensitivity.
func HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if !decode(w, r, &req) {
		return
	}
	runID, log := newRun("sensitivity")

	in, ok := req.toInputs()
	if !ok {
		http.Error(w, "unknown terminal method", http.StatusBadRequest)
		return
	}
	table, err := coreval.SensitivityAnalysis(in, req.RiskFreeRange, req.GrowthRange, req.Steps)
	if err != nil {
		log.WithError(err).Warn("sensitivity request failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	log.WithField("steps", req.Steps).Info("sensitivity table computed")
	writeResult(w, runID, newSensitivityResponse(table))
}

// HandleMonteCarlo serves POST /api/valuation/montecarlo.
func HandleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if !decode(w, r, &req) {
		return
	}
	runID, log := newRun("montecarlo")

	in, ok := req.toInputs()
	if !ok {
		http.Error(w, "unknown terminal method", http.StatusBadRequest)
		return
	}
	res, err := coreval.MonteCarloSimulation(in, coreval.MonteCarloConfig{
		ERPStdDev:    req.ERPStdDev,
		BetaStdDev:   req.BetaStdDev,
		GrowthStdDev: req.GrowthStdDev,
		Simulations:  req.Simulations,
		Seed:         req.Seed,
	})
	if err != nil {
		log.WithError(err).Warn("monte carlo request failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	log.WithFields(logrus.Fields{
		"requested":  res.Requested,
		"successful": res.Successful,
	}).Info("monte carlo simulation computed")
	writeResult(w, runID, res)
}

// HandleCCA serves POST /api/valuation/cca.
func HandleCCA(w http.ResponseWriter, r *http.Request) {
	var req CCARequest
	if !decode(w, r, &req) {
		return
	}
	runID, log := newRun("cca")

	res, err := comps.CalculateValuation(comps.ValuationInputs{
		TargetSymbol:      req.TargetSymbol,
		Target:            req.Target,
		Peers:             req.Peers,
		SharesOutstanding: req.SharesOutstanding,
		NetDebt:           req.NetDebt,
		Methods:           req.Methods,
		UseWinsorization:  req.UseWinsorization,
	})
	if err != nil {
		log.WithError(err).Warn("cca request failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	log.WithField("peer_count", res.PeerCount).Info("cca valuation computed")
	writeResult(w, runID, res)
}
