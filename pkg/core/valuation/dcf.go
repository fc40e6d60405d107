package valuation

import "fmt"

// DCFInputs encapsulates everything required for a discounted cash flow
// valuation. Cash and debt are supplied separately; the equity bridge nets
// them internally so both remain available for disclosure.
type DCFInputs struct {
	FCFFForecast      []float64
	WACC              WACCInputs
	Terminal          TerminalValueMethod
	SharesOutstanding float64
	Cash              float64
	Debt              float64
	MinorityInterest  float64
	Investments       float64
	MidYearConvention bool
}

// DCFResult holds the valuation outputs along with the WACC decomposition
// and the per-period inputs actually used. Constructed once per calculation
// and never mutated afterward.
type DCFResult struct {
	EnterpriseValue   float64 `json:"enterprise_value"`
	EquityValue       float64 `json:"equity_value"`
	ValuePerShare     float64 `json:"value_per_share"`
	SharesOutstanding float64 `json:"shares_outstanding"`

	PVForecastPeriod float64 `json:"pv_forecast_period"`
	TerminalValue    float64 `json:"terminal_value"`
	PVTerminalValue  float64 `json:"pv_terminal_value"`

	WACC               float64 `json:"wacc"`
	CostOfEquity       float64 `json:"cost_of_equity"`
	LeveredBeta        float64 `json:"levered_beta"`
	AfterTaxCostOfDebt float64 `json:"after_tax_cost_of_debt"`
	WeightEquity       float64 `json:"weight_equity"`
	WeightDebt         float64 `json:"weight_debt"`

	FCFFForecast    []float64 `json:"fcff_forecast"`
	DiscountFactors []float64 `json:"discount_factors"`
}

// CalculateDCF performs a two-stage FCFF DCF: explicit forecast period plus
// terminal value, discounted at a single WACC, bridged to equity value and
// per-share value.
//
// Configuration errors (empty forecast, invalid terminal setup) fail loudly.
// Zero shares outstanding is a degenerate-but-valid input and yields a zero
// per-share value rather than an error.
func CalculateDCF(in DCFInputs) (DCFResult, error) {
	if len(in.FCFFForecast) == 0 {
		return DCFResult{}, fmt.Errorf("dcf: FCFF forecast is empty")
	}

	// 1. Discount rate
	wacc := CalculateWACC(in.WACC)

	// 2. PV of explicit forecast
	factors, pvForecast := DiscountCashFlows(in.FCFFForecast, wacc.WACC, in.MidYearConvention)

	// 3. Terminal value off the last forecast FCFF, discounted from year n
	// (n - 0.5 under the mid-year convention).
	lastFCFF := in.FCFFForecast[len(in.FCFFForecast)-1]
	tv, err := CalculateTerminalValue(lastFCFF, in.Terminal, wacc.WACC)
	if err != nil {
		return DCFResult{}, err
	}
	pvTerminal := tv * terminalDiscountFactor(len(in.FCFFForecast), wacc.WACC, in.MidYearConvention)

	// 4. Enterprise value
	ev := pvForecast + pvTerminal

	// 5. Equity bridge: EV - net debt - minority interest + investments.
	// Net debt is derived inline from the separately tracked cash and debt.
	equity := ev - (in.Debt - in.Cash) - in.MinorityInterest + in.Investments

	// 6. Per-share value; zero shares is exploratory what-if territory.
	vps := 0.0
	if in.SharesOutstanding != 0 {
		vps = equity / in.SharesOutstanding
	}

	forecast := append([]float64(nil), in.FCFFForecast...)

	return DCFResult{
		EnterpriseValue:    ev,
		EquityValue:        equity,
		ValuePerShare:      vps,
		SharesOutstanding:  in.SharesOutstanding,
		PVForecastPeriod:   pvForecast,
		TerminalValue:      tv,
		PVTerminalValue:    pvTerminal,
		WACC:               wacc.WACC,
		CostOfEquity:       wacc.CostOfEquity,
		LeveredBeta:        wacc.LeveredBeta,
		AfterTaxCostOfDebt: wacc.AfterTaxCostOfDebt,
		WeightEquity:       wacc.WeightEquity,
		WeightDebt:         wacc.WeightDebt,
		FCFFForecast:       forecast,
		DiscountFactors:    factors,
	}, nil
}
