package valuation

import "fmt"

// TerminalValueMethod is the closed set of terminal-value configurations.
// Exactly two implementations exist: GordonGrowth and ExitMultiple. Modeling
// the choice as a sealed interface keeps invalid field combinations
// unrepresentable.
type TerminalValueMethod interface {
	terminalValueMethod()
	Name() string
}

// GordonGrowth capitalizes the final forecast cash flow at a perpetual
// growth rate.
type GordonGrowth struct {
	PerpetualGrowthRate float64
}

func (GordonGrowth) terminalValueMethod() {}

// Name identifies the method in errors and logs.
func (GordonGrowth) Name() string { return "gordon_growth" }

// ExitMultiple values the terminal year as EBITDA times an exit multiple.
type ExitMultiple struct {
	Multiple       float64
	TerminalEBITDA float64
}

func (ExitMultiple) terminalValueMethod() {}

// Name identifies the method in errors and logs.
func (ExitMultiple) Name() string { return "exit_multiple" }

// CalculateTerminalValue computes the undiscounted terminal value off the
// last forecast FCFF.
//
// Gordon growth requires g strictly below the discount rate; the calculation
// is mathematically undefined otherwise and fails loudly rather than
// clamping. Exit multiple requires a positive multiple and positive terminal
// EBITDA.
func CalculateTerminalValue(lastFCFF float64, method TerminalValueMethod, wacc float64) (float64, error) {
	switch m := method.(type) {
	case GordonGrowth:
		if m.PerpetualGrowthRate >= wacc {
			return 0, fmt.Errorf("terminal value: perpetual growth rate %.4f must be strictly below WACC %.4f", m.PerpetualGrowthRate, wacc)
		}
		// TV = FCFF_n * (1+g) / (WACC - g)
		return lastFCFF * (1 + m.PerpetualGrowthRate) / (wacc - m.PerpetualGrowthRate), nil
	case ExitMultiple:
		if m.Multiple <= 0 {
			return 0, fmt.Errorf("terminal value: exit multiple is missing or non-positive (%.4f)", m.Multiple)
		}
		if m.TerminalEBITDA <= 0 {
			return 0, fmt.Errorf("terminal value: terminal EBITDA is missing or non-positive (%.2f)", m.TerminalEBITDA)
		}
		return m.TerminalEBITDA * m.Multiple, nil
	case nil:
		return 0, fmt.Errorf("terminal value: no method configured")
	default:
		return 0, fmt.Errorf("terminal value: unknown method %q", method.Name())
	}
}
