package FEM2D

import "github.com/notargets/flamefront/weakform"

// Reference vertex coordinates of the bilinear element, counter-clockwise.
var (
	refR = [4]float64{-1, 1, 1, -1}
	refS = [4]float64{-1, -1, 1, 1}
)

// Q1Order is the polynomial order reported for Q1 shape functions in quadrature estimation.
const Q1Order = 1

func Q1Value(a int, r, s float64) float64 {
	return 0.25 * (1 + refR[a]*r) * (1 + refS[a]*s)
}

func Q1Grad(a int, r, s float64) (dr, ds float64) {
	dr = 0.25 * refR[a] * (1 + refS[a]*s)
	ds = 0.25 * refS[a] * (1 + refR[a]*r)
	return
}

// sampleShape fills f with shape function a and its physical derivatives at pts.
func (m *Mesh) sampleShape(a int, pts *weakform.Points, f *weakform.Func[weakform.Real]) {
	var (
		rx = 2 / m.Hx()
		sy = 2 / m.Hy()
	)
	for i := 0; i < pts.N; i++ {
		dr, ds := Q1Grad(a, pts.R[i], pts.S[i])
		f.Val[i] = weakform.Real(Q1Value(a, pts.R[i], pts.S[i]))
		f.Dx[i] = weakform.Real(dr * rx)
		f.Dy[i] = weakform.Real(ds * sy)
	}
}

// points maps a reference rule into element k.
func (m *Mesh) points(k int, rl *Rule) (pts *weakform.Points) {
	pts = weakform.NewPoints(rl.N)
	pts.Elem = k
	for i := 0; i < rl.N; i++ {
		pts.R[i], pts.S[i] = rl.R[i], rl.S[i]
		pts.X[i], pts.Y[i] = m.MapToPhysical(k, rl.R[i], rl.S[i])
	}
	return
}

// volumeWeights scales reference weights by the element Jacobian determinant.
func (m *Mesh) volumeWeights(rl *Rule) (wt []float64) {
	detJ := 0.25 * m.Hx() * m.Hy()
	wt = make([]float64, rl.N)
	for i, w := range rl.W {
		wt[i] = w * detJ
	}
	return
}

func (m *Mesh) edgeWeights(side Side, rl *Rule) (wt []float64) {
	var length float64
	switch side {
	case Bottom, Top:
		length = m.Hx()
	default:
		length = m.Hy()
	}
	wt = make([]float64, rl.N)
	for i, w := range rl.W {
		wt[i] = 0.5 * length * w
	}
	return
}
