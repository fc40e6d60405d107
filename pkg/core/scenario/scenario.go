// Package scenario loads analysis scenario files (YAML or HJSON, selected by
// extension) and converts them into engine inputs. All numeric conversion
// and validation of the file format happens here, at the system boundary;
// the engines themselves only ever see float64 values.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"corporate_valuation/pkg/core/comps"
	"corporate_valuation/pkg/core/valuation"
)

// Scenario is the on-disk schema for one valuation run.
type Scenario struct {
	Name   string `yaml:"name" json:"name"`
	Symbol string `yaml:"symbol" json:"symbol"`

	DCF         *DCFSection         `yaml:"dcf" json:"dcf"`
	CCA         *CCASection         `yaml:"cca" json:"cca"`
	Sensitivity *SensitivitySection `yaml:"sensitivity" json:"sensitivity"`
	MonteCarlo  *MonteCarloSection  `yaml:"monte_carlo" json:"monte_carlo"`
	LBO         *LBOSection         `yaml:"lbo" json:"lbo"`
}

// DCFSection configures the DCF engine.
type DCFSection struct {
	FCFFForecast      []float64       `yaml:"fcff_forecast" json:"fcff_forecast"`
	WACC              WACCSection     `yaml:"wacc" json:"wacc"`
	Terminal          TerminalSection `yaml:"terminal" json:"terminal"`
	SharesOutstanding float64         `yaml:"shares_outstanding" json:"shares_outstanding"`
	Cash              float64         `yaml:"cash" json:"cash"`
	Debt              float64         `yaml:"debt" json:"debt"`
	MinorityInterest  float64         `yaml:"minority_interest" json:"minority_interest"`
	Investments       float64         `yaml:"investments" json:"investments"`
	MidYearConvention bool            `yaml:"mid_year_convention" json:"mid_year_convention"`
}

// WACCSection mirrors valuation.WACCInputs.
type WACCSection struct {
	RiskFreeRate       float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	EquityRiskPremium  float64 `yaml:"equity_risk_premium" json:"equity_risk_premium"`
	UnleveredBeta      float64 `yaml:"unlevered_beta" json:"unlevered_beta"`
	TargetDebtToEquity float64 `yaml:"target_debt_to_equity" json:"target_debt_to_equity"`
	PreTaxCostOfDebt   float64 `yaml:"pre_tax_cost_of_debt" json:"pre_tax_cost_of_debt"`
	TaxRate            float64 `yaml:"tax_rate" json:"tax_rate"`
	MarketCap          float64 `yaml:"market_cap" json:"market_cap"`
	NetDebt            float64 `yaml:"net_debt" json:"net_debt"`
}

// TerminalSection is the serialized form of the terminal-value choice.
// Method is "gordon" or "exit_multiple"; only the fields of the selected
// method are read.
type TerminalSection struct {
	Method              string  `yaml:"method" json:"method"`
	PerpetualGrowthRate float64 `yaml:"perpetual_growth_rate" json:"perpetual_growth_rate"`
	ExitMultiple        float64 `yaml:"exit_multiple" json:"exit_multiple"`
	TerminalEBITDA      float64 `yaml:"terminal_ebitda" json:"terminal_ebitda"`
}

// CCASection configures the comparable company engine.
type CCASection struct {
	Target            TargetSection `yaml:"target" json:"target"`
	Peers             []PeerSection `yaml:"peers" json:"peers"`
	SharesOutstanding float64       `yaml:"shares_outstanding" json:"shares_outstanding"`
	NetDebt           float64       `yaml:"net_debt" json:"net_debt"`
	Methods           []string      `yaml:"methods" json:"methods"`
	UseWinsorization  bool          `yaml:"use_winsorization" json:"use_winsorization"`
}

// TargetSection is the on-disk form of the target company's metrics.
type TargetSection struct {
	Revenue       float64  `yaml:"revenue" json:"revenue"`
	EBITDA        float64  `yaml:"ebitda" json:"ebitda"`
	EBIT          float64  `yaml:"ebit" json:"ebit"`
	NetIncome     float64  `yaml:"net_income" json:"net_income"`
	RevenueGrowth *float64 `yaml:"revenue_growth" json:"revenue_growth"`
	ROIC          *float64 `yaml:"roic" json:"roic"`
}

// PeerSection is the on-disk form of one comparable company. Derived
// multiples are never read from disk; the engine computes them.
type PeerSection struct {
	Symbol          string   `yaml:"symbol" json:"symbol"`
	Name            string   `yaml:"name" json:"name"`
	MarketCap       float64  `yaml:"market_cap" json:"market_cap"`
	EnterpriseValue float64  `yaml:"enterprise_value" json:"enterprise_value"`
	Revenue         float64  `yaml:"revenue" json:"revenue"`
	EBITDA          float64  `yaml:"ebitda" json:"ebitda"`
	EBIT            float64  `yaml:"ebit" json:"ebit"`
	NetIncome       float64  `yaml:"net_income" json:"net_income"`
	RevenueGrowth   *float64 `yaml:"revenue_growth" json:"revenue_growth"`
	ROIC            *float64 `yaml:"roic" json:"roic"`
	Sector          string   `yaml:"sector" json:"sector"`
	Industry        string   `yaml:"industry" json:"industry"`
}

// SensitivitySection configures the 2-D sensitivity grid.
type SensitivitySection struct {
	RiskFreeRange float64 `yaml:"risk_free_range" json:"risk_free_range"`
	GrowthRange   float64 `yaml:"growth_range" json:"growth_range"`
	Steps         int     `yaml:"steps" json:"steps"`
}

// MonteCarloSection configures the stochastic simulation.
type MonteCarloSection struct {
	ERPStdDev    float64 `yaml:"erp_std_dev" json:"erp_std_dev"`
	BetaStdDev   float64 `yaml:"beta_std_dev" json:"beta_std_dev"`
	GrowthStdDev float64 `yaml:"growth_std_dev" json:"growth_std_dev"`
	Simulations  int     `yaml:"simulations" json:"simulations"`
	Seed         int64   `yaml:"seed" json:"seed"`
}

// LBOSection configures the ability-to-pay analysis.
type LBOSection struct {
	EntryEBITDA    float64   `yaml:"entry_ebitda" json:"entry_ebitda"`
	LeverageRatio  float64   `yaml:"leverage_ratio" json:"leverage_ratio"`
	InterestRate   float64   `yaml:"interest_rate" json:"interest_rate"`
	TaxRate        float64   `yaml:"tax_rate" json:"tax_rate"`
	ExitMultiple   float64   `yaml:"exit_multiple" json:"exit_multiple"`
	HoldingPeriod  int       `yaml:"holding_period" json:"holding_period"`
	EBITDAForecast []float64 `yaml:"ebitda_forecast" json:"ebitda_forecast"`
	CapexForecast  []float64 `yaml:"capex_forecast" json:"capex_forecast"`
	NWCDeltas      []float64 `yaml:"nwc_deltas" json:"nwc_deltas"`
	TargetIRR      float64   `yaml:"target_irr" json:"target_irr"`
}

// Load reads and parses a scenario file. ".yaml"/".yml" parse as YAML,
// ".hjson" as HJSON; anything else is rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}

	var s Scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
		}
	case ".hjson":
		if err := hjson.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("scenario: unsupported file extension %q (want .yaml, .yml or .hjson)", ext)
	}

	return &s, nil
}

// DCFInputs converts the scenario's DCF section into engine inputs.
func (s *Scenario) DCFInputs() (valuation.DCFInputs, error) {
	if s.DCF == nil {
		return valuation.DCFInputs{}, fmt.Errorf("scenario %q: no dcf section", s.Name)
	}

	terminal, err := s.DCF.Terminal.toMethod()
	if err != nil {
		return valuation.DCFInputs{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	return valuation.DCFInputs{
		FCFFForecast: append([]float64(nil), s.DCF.FCFFForecast...),
		WACC: valuation.WACCInputs{
			RiskFreeRate:       s.DCF.WACC.RiskFreeRate,
			EquityRiskPremium:  s.DCF.WACC.EquityRiskPremium,
			UnleveredBeta:      s.DCF.WACC.UnleveredBeta,
			TargetDebtToEquity: s.DCF.WACC.TargetDebtToEquity,
			PreTaxCostOfDebt:   s.DCF.WACC.PreTaxCostOfDebt,
			TaxRate:            s.DCF.WACC.TaxRate,
			MarketCap:          s.DCF.WACC.MarketCap,
			NetDebt:            s.DCF.WACC.NetDebt,
		},
		Terminal:          terminal,
		SharesOutstanding: s.DCF.SharesOutstanding,
		Cash:              s.DCF.Cash,
		Debt:              s.DCF.Debt,
		MinorityInterest:  s.DCF.MinorityInterest,
		Investments:       s.DCF.Investments,
		MidYearConvention: s.DCF.MidYearConvention,
	}, nil
}

func (t TerminalSection) toMethod() (valuation.TerminalValueMethod, error) {
	switch strings.ToLower(t.Method) {
	case "gordon", "gordon_growth":
		return valuation.GordonGrowth{PerpetualGrowthRate: t.PerpetualGrowthRate}, nil
	case "exit_multiple":
		return valuation.ExitMultiple{Multiple: t.ExitMultiple, TerminalEBITDA: t.TerminalEBITDA}, nil
	case "":
		return nil, fmt.Errorf("terminal method is required (gordon or exit_multiple)")
	default:
		return nil, fmt.Errorf("unknown terminal method %q", t.Method)
	}
}

// CCAInputs converts the scenario's CCA section into engine inputs.
func (s *Scenario) CCAInputs() (comps.ValuationInputs, error) {
	if s.CCA == nil {
		return comps.ValuationInputs{}, fmt.Errorf("scenario %q: no cca section", s.Name)
	}
	peers := make([]comps.PeerMetrics, len(s.CCA.Peers))
	for i, p := range s.CCA.Peers {
		peers[i] = comps.PeerMetrics{
			Symbol:          p.Symbol,
			Name:            p.Name,
			MarketCap:       p.MarketCap,
			EnterpriseValue: p.EnterpriseValue,
			Revenue:         p.Revenue,
			EBITDA:          p.EBITDA,
			EBIT:            p.EBIT,
			NetIncome:       p.NetIncome,
			RevenueGrowth:   p.RevenueGrowth,
			ROIC:            p.ROIC,
			Sector:          p.Sector,
			Industry:        p.Industry,
		}
	}
	return comps.ValuationInputs{
		TargetSymbol: s.Symbol,
		Target: comps.TargetMetrics{
			Revenue:       s.CCA.Target.Revenue,
			EBITDA:        s.CCA.Target.EBITDA,
			EBIT:          s.CCA.Target.EBIT,
			NetIncome:     s.CCA.Target.NetIncome,
			RevenueGrowth: s.CCA.Target.RevenueGrowth,
			ROIC:          s.CCA.Target.ROIC,
		},
		Peers:             peers,
		SharesOutstanding: s.CCA.SharesOutstanding,
		NetDebt:           s.CCA.NetDebt,
		Methods:           s.CCA.Methods,
		UseWinsorization:  s.CCA.UseWinsorization,
	}, nil
}

// MonteCarloConfig converts the scenario's Monte Carlo section.
func (s *Scenario) MonteCarloConfig() (valuation.MonteCarloConfig, error) {
	if s.MonteCarlo == nil {
		return valuation.MonteCarloConfig{}, fmt.Errorf("scenario %q: no monte_carlo section", s.Name)
	}
	return valuation.MonteCarloConfig{
		ERPStdDev:    s.MonteCarlo.ERPStdDev,
		BetaStdDev:   s.MonteCarlo.BetaStdDev,
		GrowthStdDev: s.MonteCarlo.GrowthStdDev,
		Simulations:  s.MonteCarlo.Simulations,
		Seed:         s.MonteCarlo.Seed,
	}, nil
}

// LBOInputs converts the scenario's LBO section.
func (s *Scenario) LBOInputs() (valuation.LBOInputs, error) {
	if s.LBO == nil {
		return valuation.LBOInputs{}, fmt.Errorf("scenario %q: no lbo section", s.Name)
	}
	return valuation.LBOInputs{
		EntryEBITDA:    s.LBO.EntryEBITDA,
		LeverageRatio:  s.LBO.LeverageRatio,
		InterestRate:   s.LBO.InterestRate,
		TaxRate:        s.LBO.TaxRate,
		ExitMultiple:   s.LBO.ExitMultiple,
		HoldingPeriod:  s.LBO.HoldingPeriod,
		EBITDAForecast: append([]float64(nil), s.LBO.EBITDAForecast...),
		CapexForecast:  append([]float64(nil), s.LBO.CapexForecast...),
		NWCDeltas:      append([]float64(nil), s.LBO.NWCDeltas...),
		TargetIRR:      s.LBO.TargetIRR,
	}, nil
}
