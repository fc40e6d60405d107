package valuation

import "math"

// DiscountCashFlows discounts a stream of per-period cash flows at a flat
// rate. Periods are indexed from 1. Under the mid-year convention each flow
// is assumed to arrive halfway through its period, so every discount period
// is shifted back by half a year.
//
// Returns the discount factor applied to each period alongside the summed
// present value.
func DiscountCashFlows(cashFlows []float64, wacc float64, midYear bool) (factors []float64, pvSum float64) {
	factors = make([]float64, len(cashFlows))
	for i, cf := range cashFlows {
		period := float64(i + 1)
		if midYear {
			period -= 0.5
		}
		df := 1.0 / math.Pow(1.0+wacc, period)
		factors[i] = df
		pvSum += cf * df
	}
	return factors, pvSum
}

// terminalDiscountFactor returns the factor that discounts the terminal value
// struck at the end of forecast year n. The mid-year convention shifts it to
// n - 0.5, matching the timing applied to the interim flows.
func terminalDiscountFactor(n int, wacc float64, midYear bool) float64 {
	period := float64(n)
	if midYear {
		period -= 0.5
	}
	return 1.0 / math.Pow(1.0+wacc, period)
}
