package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OLSResult holds the fitted coefficients of an ordinary-least-squares
// regression together with the coefficient of determination.
type OLSResult struct {
	Coefficients []float64 // one per design-matrix column, intercept first if present
	RSquared     float64
}

// OLS fits response ~ design by ordinary least squares using a QR
// factorization. Each row of design is one observation; callers that want an
// intercept must include a leading 1.0 column themselves.
//
// Requires at least as many observations as columns; returns an error for a
// rank-deficient or empty design matrix.
func OLS(design [][]float64, response []float64) (OLSResult, error) {
	n := len(design)
	if n == 0 || n != len(response) {
		return OLSResult{}, fmt.Errorf("ols: design has %d rows but response has %d values", n, len(response))
	}
	k := len(design[0])
	if k == 0 {
		return OLSResult{}, fmt.Errorf("ols: design matrix has no columns")
	}
	if n < k {
		return OLSResult{}, fmt.Errorf("ols: %d observations cannot identify %d coefficients", n, k)
	}

	flat := make([]float64, 0, n*k)
	for i, row := range design {
		if len(row) != k {
			return OLSResult{}, fmt.Errorf("ols: row %d has %d columns, expected %d", i, len(row), k)
		}
		flat = append(flat, row...)
	}

	x := mat.NewDense(n, k, flat)
	y := mat.NewDense(n, 1, append([]float64(nil), response...))

	var qr mat.QR
	qr.Factorize(x)

	var coef mat.Dense
	if err := qr.SolveTo(&coef, false, y); err != nil {
		return OLSResult{}, fmt.Errorf("ols: solve failed: %w", err)
	}

	coefficients := make([]float64, k)
	for j := 0; j < k; j++ {
		coefficients[j] = coef.At(j, 0)
	}

	// R^2 = 1 - SSR/SST against the mean model.
	yBar := Mean(response)
	var ssr, sst float64
	for i := 0; i < n; i++ {
		var fitted float64
		for j := 0; j < k; j++ {
			fitted += design[i][j] * coefficients[j]
		}
		ssr += (response[i] - fitted) * (response[i] - fitted)
		sst += (response[i] - yBar) * (response[i] - yBar)
	}
	r2 := 1.0
	if sst > 0 {
		r2 = 1 - ssr/sst
	}

	return OLSResult{Coefficients: coefficients, RSquared: r2}, nil
}
