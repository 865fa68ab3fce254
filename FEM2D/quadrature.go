package FEM2D

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxGaussPoints caps the points per direction, 2*MaxGaussPoints-1 is the highest exact degree.
const MaxGaussPoints = 12

// JacobiGQ returns the N+1 point Gauss quadrature for the Jacobi weight (1-x)^alpha (1+x)^beta.
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	var (
		fac        float64
		h1, d0, d1 []float64
		VVr        *mat.Dense
	)
	if N == 0 {
		X = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		W = []float64{2.}
		return
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	VVr = mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(VVr)
	W = make([]float64, N+1)
	g0 := gamma0(alpha, beta)
	for i, v := range VVr.RawRowView(0) {
		W[i] = v * v * g0
	}
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func GaussLegendre(n int) (X, W []float64) { return JacobiGQ(0, 0, n-1) }

// PointsForOrder is the number of Gauss points per direction that integrates degree order exactly.
func PointsForOrder(order int) (n int) {
	n = order/2 + 1
	if n < 1 {
		n = 1
	}
	if n > MaxGaussPoints {
		n = MaxGaussPoints
	}
	return
}

// Rule holds quadrature points in element reference coordinates.
type Rule struct {
	N    int
	R, S []float64
	W    []float64
}

func TensorRule(n int) (rl *Rule) {
	x, w := GaussLegendre(n)
	rl = &Rule{
		N: n * n,
		R: make([]float64, n*n),
		S: make([]float64, n*n),
		W: make([]float64, n*n),
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			ind := i + j*n
			rl.R[ind], rl.S[ind] = x[i], x[j]
			rl.W[ind] = w[i] * w[j]
		}
	}
	return
}

// EdgeRule places an n point Gauss rule along one side of the reference square.
func EdgeRule(n int, side Side) (rl *Rule) {
	x, w := GaussLegendre(n)
	rl = &Rule{
		N: n,
		R: make([]float64, n),
		S: make([]float64, n),
		W: w,
	}
	for i, xi := range x {
		switch side {
		case Bottom:
			rl.R[i], rl.S[i] = xi, -1
		case Right:
			rl.R[i], rl.S[i] = 1, xi
		case Top:
			rl.R[i], rl.S[i] = -xi, 1
		case Left:
			rl.R[i], rl.S[i] = -1, -xi
		}
	}
	return
}
