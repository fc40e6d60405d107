package valuation

import (
	"fmt"
	"math"
)

// LBOInputs parameterizes an ability-to-pay analysis: given a leverage
// level, projected cash flow components and a sponsor's target IRR, what is
// the maximum entry price?
type LBOInputs struct {
	EntryEBITDA     float64   // LTM EBITDA at entry
	LeverageRatio   float64   // Debt / EBITDA at entry (e.g. 5.0x)
	InterestRate    float64   // blended cost of acquisition debt
	TaxRate         float64
	ExitMultiple    float64   // EV / EBITDA at exit
	HoldingPeriod   int       // years
	EBITDAForecast  []float64 // one per holding year
	CapexForecast   []float64
	NWCDeltas       []float64 // change in net working capital per year
	TargetIRR       float64   // e.g. 0.20
}

// LBOResult reports the price a sponsor can pay to clear the target IRR.
type LBOResult struct {
	MaxEntryEV           float64 `json:"max_entry_ev"`
	ImpliedEntryMultiple float64 `json:"implied_entry_multiple"`
	EquityCheck          float64 `json:"equity_check"`
	DebtRaised           float64 `json:"debt_raised"`
	ExitEquityValue      float64 `json:"exit_equity_value"`
	ExitDebt             float64 `json:"exit_debt"`
}

// CalculateLBO sweeps free cash flow against the acquisition debt over the
// holding period, values the exit at the exit multiple, and backs the
// maximum entry price out of the sponsor's target IRR.
func CalculateLBO(in LBOInputs) (LBOResult, error) {
	if in.HoldingPeriod <= 0 {
		return LBOResult{}, fmt.Errorf("lbo: holding period must be positive, got %d", in.HoldingPeriod)
	}
	if len(in.EBITDAForecast) < in.HoldingPeriod ||
		len(in.CapexForecast) < in.HoldingPeriod ||
		len(in.NWCDeltas) < in.HoldingPeriod {
		return LBOResult{}, fmt.Errorf("lbo: forecasts must cover all %d holding years", in.HoldingPeriod)
	}
	if in.EntryEBITDA <= 0 {
		return LBOResult{}, fmt.Errorf("lbo: entry EBITDA must be positive, got %.2f", in.EntryEBITDA)
	}

	initialDebt := in.EntryEBITDA * in.LeverageRatio
	currentDebt := initialDebt

	// Debt sweep: all positive free cash flow pays down debt; deficits draw
	// on the revolver. D&A is approximated by capex for the tax shield.
	for year := 0; year < in.HoldingPeriod; year++ {
		ebitda := in.EBITDAForecast[year]
		interest := currentDebt * in.InterestRate

		taxable := ebitda - interest - in.CapexForecast[year]
		taxes := taxable * in.TaxRate
		if taxes < 0 {
			taxes = 0
		}

		fcf := ebitda - interest - taxes - in.CapexForecast[year] - in.NWCDeltas[year]
		currentDebt -= fcf
		if currentDebt < 0 {
			currentDebt = 0
		}
	}

	// Exit at the exit multiple on final-year EBITDA.
	exitEV := in.EBITDAForecast[in.HoldingPeriod-1] * in.ExitMultiple
	exitEquity := exitEV - currentDebt

	// Entry equity backed out of the target IRR:
	// (1+IRR)^T = ExitEquity / EntryEquity
	entryEquity := exitEquity / math.Pow(1.0+in.TargetIRR, float64(in.HoldingPeriod))

	maxEntryEV := entryEquity + initialDebt

	return LBOResult{
		MaxEntryEV:           maxEntryEV,
		ImpliedEntryMultiple: maxEntryEV / in.EntryEBITDA,
		EquityCheck:          entryEquity,
		DebtRaised:           initialDebt,
		ExitEquityValue:      exitEquity,
		ExitDebt:             currentDebt,
	}, nil
}
