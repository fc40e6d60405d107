package valuation

// WACCInputs holds the capital-structure parameters for a cost-of-capital
// calculation. All rates are decimal fractions (0.045 = 4.5%).
type WACCInputs struct {
	RiskFreeRate       float64
	EquityRiskPremium  float64
	UnleveredBeta      float64
	TargetDebtToEquity float64 // Target leverage (D/E), not spot
	PreTaxCostOfDebt   float64
	TaxRate            float64
	MarketCap          float64
	NetDebt            float64
}

// WACCResult holds the calculated rates and weights.
type WACCResult struct {
	WACC               float64
	CostOfEquity       float64
	LeveredBeta        float64
	AfterTaxCostOfDebt float64
	WeightEquity       float64
	WeightDebt         float64
}

// CalculateWACC computes the Weighted Average Cost of Capital using CAPM and
// the Hamada equation. Capital weights come from current market values
// (market cap and net debt); the beta re-levering uses the target D/E the
// company is moving toward, not its spot leverage.
func CalculateWACC(in WACCInputs) WACCResult {
	// 1. Re-lever beta (Hamada)
	// BetaL = BetaU * (1 + (1-t)*(D/E))
	leveredBeta := in.UnleveredBeta * (1 + (1-in.TaxRate)*in.TargetDebtToEquity)

	// 2. Cost of equity (CAPM)
	// Ke = Rf + BetaL * ERP
	ke := in.RiskFreeRate + leveredBeta*in.EquityRiskPremium

	// 3. Cost of debt (after-tax)
	// Kd = PreTaxKd * (1 - t)
	kd := in.PreTaxCostOfDebt * (1 - in.TaxRate)

	// 4. Weights from market values.
	// Zero total capital degenerates to an all-equity structure.
	we, wd := 1.0, 0.0
	if total := in.MarketCap + in.NetDebt; total != 0 {
		we = in.MarketCap / total
		wd = in.NetDebt / total
	}

	// 5. WACC
	wacc := ke*we + kd*wd

	return WACCResult{
		WACC:               wacc,
		CostOfEquity:       ke,
		LeveredBeta:        leveredBeta,
		AfterTaxCostOfDebt: kd,
		WeightEquity:       we,
		WeightDebt:         wd,
	}
}
