package valuation

import (
	"fmt"

	"corporate_valuation/pkg/core/comps"
)

// SummaryInputs aggregates the inputs for the full suite of valuation
// methods run over one scenario.
type SummaryInputs struct {
	DCF DCFInputs
	CCA *comps.ValuationInputs // nil skips comparable company analysis
	LBO *LBOInputs             // nil skips the LBO ability-to-pay check
}

// ValuationLineItem is one row of the per-method summary: a methodology
// label and its value per share. No blending happens here; weighting the
// methods against each other is a caller decision.
type ValuationLineItem struct {
	Method        string  `json:"method"`
	ValuePerShare float64 `json:"value_per_share"`
}

// basisLabels maps each multiple basis to its summary-row label.
var basisLabels = map[comps.MultipleMetric]string{
	comps.MetricEVRevenue: "Comparable Companies (EV/Revenue)",
	comps.MetricEVEBITDA:  "Comparable Companies (EV/EBITDA)",
	comps.MetricEVEBIT:    "Comparable Companies (EV/EBIT)",
	comps.MetricPE:        "Comparable Companies (P/E)",
}

// RunAllValuations executes DCF and, when configured, CCA and LBO over a
// single scenario and returns one line item per methodology. The CCA bases
// are reported independently, one line each.
func RunAllValuations(in SummaryInputs) ([]ValuationLineItem, error) {
	items := []ValuationLineItem{}

	dcfRes, err := CalculateDCF(in.DCF)
	if err != nil {
		return nil, fmt.Errorf("summary: dcf failed: %w", err)
	}
	items = append(items, ValuationLineItem{
		Method:        "Discounted Cash Flow (FCFF)",
		ValuePerShare: dcfRes.ValuePerShare,
	})

	if in.CCA != nil {
		ccaRes, err := comps.CalculateValuation(*in.CCA)
		if err != nil {
			return nil, fmt.Errorf("summary: cca failed: %w", err)
		}
		for _, metric := range comps.AllMetrics {
			basis, ok := ccaRes.Bases[metric]
			if !ok {
				continue
			}
			items = append(items, ValuationLineItem{
				Method:        basisLabels[metric],
				ValuePerShare: basis.ValuePerShare,
			})
		}
	}

	if in.LBO != nil {
		lboRes, err := CalculateLBO(*in.LBO)
		if err != nil {
			return nil, fmt.Errorf("summary: lbo failed: %w", err)
		}
		vps := 0.0
		if in.DCF.SharesOutstanding != 0 {
			// Ability-to-pay expressed per share of the target.
			vps = (lboRes.MaxEntryEV - (in.DCF.Debt - in.DCF.Cash)) / in.DCF.SharesOutstanding
		}
		items = append(items, ValuationLineItem{
			Method:        "LBO Ability-to-Pay",
			ValuePerShare: vps,
		})
	}

	return items, nil
}
