package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corporate_valuation/pkg/core/valuation"
)

func TestLoadYAMLScenario(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "base.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "base case", s.Name)
	assert.Equal(t, "TGT", s.Symbol)

	in, err := s.DCFInputs()
	require.NoError(t, err)

	require.Len(t, in.FCFFForecast, 5)
	assert.Equal(t, 10_000_000.0, in.FCFFForecast[0])
	assert.Equal(t, 0.045, in.WACC.RiskFreeRate)
	assert.True(t, in.MidYearConvention)

	gordon, ok := in.Terminal.(valuation.GordonGrowth)
	require.True(t, ok)
	assert.Equal(t, 0.025, gordon.PerpetualGrowthRate)

	// Loaded inputs must run cleanly end to end.
	res, err := valuation.CalculateDCF(in)
	require.NoError(t, err)
	assert.Greater(t, res.ValuePerShare, 0.0)
}

func TestLoadYAMLCCASection(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "base.yaml"))
	require.NoError(t, err)

	cca, err := s.CCAInputs()
	require.NoError(t, err)

	assert.Equal(t, "TGT", cca.TargetSymbol)
	require.Len(t, cca.Peers, 3)
	assert.Equal(t, "P1", cca.Peers[0].Symbol)
	assert.Equal(t, 250.0, cca.Peers[0].EBITDA)
	assert.True(t, cca.UseWinsorization)
}

func TestLoadYAMLMonteCarloSection(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "base.yaml"))
	require.NoError(t, err)

	cfg, err := s.MonteCarloConfig()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Simulations)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadHJSONScenario(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "exitmultiple.hjson"))
	require.NoError(t, err)

	in, err := s.DCFInputs()
	require.NoError(t, err)

	exit, ok := in.Terminal.(valuation.ExitMultiple)
	require.True(t, ok)
	assert.Equal(t, 9.0, exit.Multiple)
	assert.Equal(t, 180.0, exit.TerminalEBITDA)
}

func TestLoadRejectsUnknownTerminalMethod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad
dcf:
  fcff_forecast: [100]
  terminal:
    method: perpetuity_of_doom
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	_, err = s.DCFInputs()
	assert.Error(t, err)
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	_, err := Load("scenario.toml")
	assert.Error(t, err)
}

func TestDCFInputsRequiresSection(t *testing.T) {
	s := &Scenario{Name: "empty"}
	_, err := s.DCFInputs()
	assert.Error(t, err)
	_, err = s.CCAInputs()
	assert.Error(t, err)
	_, err = s.MonteCarloConfig()
	assert.Error(t, err)
	_, err = s.LBOInputs()
	assert.Error(t, err)
}
