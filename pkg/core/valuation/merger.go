package valuation

import (
	"fmt"
	"math"
)

// MergerInputs describes an acquisition for accretion/dilution analysis.
// The consideration mix fractions must sum to 1.
type MergerInputs struct {
	AcquirerNetIncome  float64
	AcquirerShares     float64
	AcquirerSharePrice float64

	TargetNetIncome float64
	OfferValue      float64 // equity purchase price for the target

	PctCash  float64
	PctDebt  float64
	PctStock float64

	CostOfDebt    float64 // rate on new acquisition debt
	CashYield     float64 // pre-tax yield forgone on balance-sheet cash used
	TaxRate       float64
	PreTaxSynergies float64
}

// MergerResult reports standalone vs pro-forma EPS and the resulting
// accretion (positive) or dilution (negative) as a fraction.
type MergerResult struct {
	StandaloneEPS     float64 `json:"standalone_eps"`
	ProFormaEPS       float64 `json:"pro_forma_eps"`
	AccretionDilution float64 `json:"accretion_dilution"`
	NewSharesIssued   float64 `json:"new_shares_issued"`
	ProFormaNetIncome float64 `json:"pro_forma_net_income"`
}

// CalculateAccretionDilution computes pro-forma EPS for the combined
// company: acquirer plus target earnings, plus after-tax synergies, less the
// after-tax cost of debt and cash financing, spread over the enlarged share
// count from any stock consideration.
func CalculateAccretionDilution(in MergerInputs) (MergerResult, error) {
	if in.AcquirerShares <= 0 {
		return MergerResult{}, fmt.Errorf("merger: acquirer shares must be positive, got %.2f", in.AcquirerShares)
	}
	if mix := in.PctCash + in.PctDebt + in.PctStock; math.Abs(mix-1.0) > 1e-9 {
		return MergerResult{}, fmt.Errorf("merger: consideration mix must sum to 1, got %.4f", mix)
	}
	if in.PctStock > 0 && in.AcquirerSharePrice <= 0 {
		return MergerResult{}, fmt.Errorf("merger: stock consideration requires a positive acquirer share price")
	}

	standaloneEPS := in.AcquirerNetIncome / in.AcquirerShares

	debtFinancing := in.OfferValue * in.PctDebt
	cashUsed := in.OfferValue * in.PctCash
	stockValue := in.OfferValue * in.PctStock

	afterTax := 1 - in.TaxRate
	interestCost := debtFinancing * in.CostOfDebt * afterTax
	forgoneInterest := cashUsed * in.CashYield * afterTax
	synergies := in.PreTaxSynergies * afterTax

	proFormaNI := in.AcquirerNetIncome + in.TargetNetIncome + synergies - interestCost - forgoneInterest

	newShares := 0.0
	if in.PctStock > 0 {
		newShares = stockValue / in.AcquirerSharePrice
	}
	proFormaEPS := proFormaNI / (in.AcquirerShares + newShares)

	accretion := 0.0
	if standaloneEPS != 0 {
		accretion = proFormaEPS/standaloneEPS - 1
	}

	return MergerResult{
		StandaloneEPS:     standaloneEPS,
		ProFormaEPS:       proFormaEPS,
		AccretionDilution: accretion,
		NewSharesIssued:   newShares,
		ProFormaNetIncome: proFormaNI,
	}, nil
}
