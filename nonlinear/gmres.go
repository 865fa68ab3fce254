package nonlinear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Operator applies a linear map to v.
type Operator func(v []float64) ([]float64, error)

type LinearStats struct {
	Iterations int
	Residual   float64 // ||b - A x|| / ||b||
}

/*
GMRES solves A x = b with restarted GMRES(restart), right preconditioned by M (nil for
none), starting from x0. It stops when the relative residual drops below tol or after
maxIter inner iterations, the latter returns ErrLinearNotConverged along with the
best iterate.
*/
func GMRES(A, M Operator, b, x0 []float64, tol float64, restart, maxIter int) (x []float64, stats LinearStats, err error) {
	var (
		n     = len(b)
		bnorm = floats.Norm(b, 2)
	)
	if M == nil {
		M = func(v []float64) ([]float64, error) { return append([]float64(nil), v...), nil }
	}
	if restart < 1 {
		restart = 1
	}
	x = make([]float64, n)
	if x0 != nil {
		copy(x, x0)
	}
	if bnorm == 0 {
		for i := range x {
			x[i] = 0
		}
		return
	}
	var (
		V  = make([][]float64, restart+1)
		Z  = make([][]float64, restart)
		H  = make([][]float64, restart+1)
		cs = make([]float64, restart)
		sn = make([]float64, restart)
		g  = make([]float64, restart+1)
	)
	for i := range H {
		H[i] = make([]float64, restart)
	}
	for {
		var Ax []float64
		if Ax, err = A(x); err != nil {
			return
		}
		r := make([]float64, n)
		floats.SubTo(r, b, Ax)
		beta := floats.Norm(r, 2)
		stats.Residual = beta / bnorm
		if stats.Residual <= tol {
			return
		}
		if stats.Iterations >= maxIter {
			err = fmt.Errorf("%w: relative residual %8.3e after %d iterations",
				ErrLinearNotConverged, stats.Residual, stats.Iterations)
			return
		}
		floats.Scale(1/beta, r)
		V[0] = r
		for i := range g {
			g[i] = 0
		}
		g[0] = beta
		var k int
		for j := 0; j < restart && stats.Iterations < maxIter; j++ {
			if Z[j], err = M(V[j]); err != nil {
				return
			}
			var w []float64
			if w, err = A(Z[j]); err != nil {
				return
			}
			for i := 0; i <= j; i++ {
				H[i][j] = floats.Dot(w, V[i])
				floats.AddScaled(w, -H[i][j], V[i])
			}
			H[j+1][j] = floats.Norm(w, 2)
			breakdown := H[j+1][j] == 0
			if !breakdown {
				floats.Scale(1/H[j+1][j], w)
				V[j+1] = w
			}
			for i := 0; i < j; i++ {
				h0, h1 := H[i][j], H[i+1][j]
				H[i][j] = cs[i]*h0 + sn[i]*h1
				H[i+1][j] = -sn[i]*h0 + cs[i]*h1
			}
			denom := math.Hypot(H[j][j], H[j+1][j])
			if denom == 0 {
				cs[j], sn[j] = 1, 0
			} else {
				cs[j], sn[j] = H[j][j]/denom, H[j+1][j]/denom
			}
			H[j][j] = cs[j]*H[j][j] + sn[j]*H[j+1][j]
			H[j+1][j] = 0
			g[j+1] = -sn[j] * g[j]
			g[j] = cs[j] * g[j]
			stats.Iterations++
			k = j + 1
			if math.Abs(g[j+1])/bnorm <= tol || breakdown {
				break
			}
		}
		// Back substitution for the least squares coefficients
		y := make([]float64, k)
		for i := k - 1; i >= 0; i-- {
			sum := g[i]
			for l := i + 1; l < k; l++ {
				sum -= H[i][l] * y[l]
			}
			if H[i][i] != 0 {
				y[i] = sum / H[i][i]
			}
		}
		for i := 0; i < k; i++ {
			floats.AddScaled(x, y[i], Z[i])
		}
	}
}
