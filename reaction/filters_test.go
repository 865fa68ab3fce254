package reaction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/flamefront/weakform"
)

func TestReferenceValue(t *testing.T) {
	var (
		p                 = Params{Le: 1, Alpha: 0.6, Beta: 10}
		omega, dT, dC     = p.PointValues(1.5, 0.5)
		t2, t3            = 5., 1.3
		t4                = 100. / 2 * math.Exp(t2/t3)
		expectedOmega     = t4 * 0.5
		expectedDOmegaDT  = t4 * 10 / (t3 * t3) * 0.5
		expectedDOmegaDC  = t4
		handComputedOmega = 1172.5
	)
	assert.InDeltaf(t, expectedOmega, omega, 1.e-9, "Omega")
	assert.InDeltaf(t, expectedDOmegaDT, dT, 1.e-9, "dOmega/dT")
	assert.InDeltaf(t, expectedDOmegaDC, dC, 1.e-9, "dOmega/dC")
	// exp(3.846) rounded to 46.9 by hand
	assert.InDeltaf(t, handComputedOmega, omega, 0.005*handComputedOmega, "Omega against the rounded hand value")
}

func TestClamp(t *testing.T) {
	p := Params{Le: 2, Alpha: 0.8, Beta: 10}
	{ // Temperatures at or below zero share t1 = -1
		o0, dT0, dC0 := p.PointValues(0, 0.3)
		oNeg, dTNeg, dCNeg := p.PointValues(-2.5, 0.3)
		assert.Equal(t, o0, oNeg)
		assert.Equal(t, dT0, dTNeg)
		assert.Equal(t, dC0, dCNeg)
		expected := 100. / 4 * math.Exp(-10/(1-0.8)) * 0.3
		assert.InDeltaf(t, 1, o0/expected, 1.e-12, "Omega at T = 0")
	}
	{ // At T = 1 the exponential is one
		o, _, dC := p.PointValues(1, 0.3)
		assert.InDeltaf(t, 100./4*0.3, o, 1.e-12, "Omega at T = 1")
		assert.InDeltaf(t, 100./4, dC, 1.e-12, "dOmega/dC at T = 1")
	}
	{ // A vanishing denominator is not guarded, it shows up as NaN
		p := Params{Le: 1, Alpha: 1, Beta: 10}
		_, dT, _ := p.PointValues(0, 0.5)
		assert.True(t, math.IsNaN(dT))
	}
}

func TestFiniteDifferences(t *testing.T) {
	var (
		p = Params{Le: 1.3, Alpha: 0.7, Beta: 8}
		h = 1.e-6
	)
	for _, state := range [][2]float64{{1.5, 0.5}, {0.4, 0.9}, {1.05, 0.01}, {2.2, 1}} {
		T, C := state[0], state[1]
		_, dT, dC := p.PointValues(T, C)
		oTp, _, _ := p.PointValues(T+h, C)
		oTm, _, _ := p.PointValues(T-h, C)
		oCp, _, _ := p.PointValues(T, C+h)
		oCm, _, _ := p.PointValues(T, C-h)
		fdT := (oTp - oTm) / (2 * h)
		fdC := (oCp - oCm) / (2 * h)
		assert.InDeltaf(t, 0, (fdT-dT)/dT, 1.e-3, "dOmega/dT at T = %g, C = %g", T, C)
		assert.InDeltaf(t, 0, (fdC-dC)/dC, 1.e-3, "dOmega/dC at T = %g, C = %g", T, C)
	}
}

func TestOmegaGradient(t *testing.T) {
	var (
		p      = Params{Le: 1, Alpha: 0.8, Beta: 10}
		values = [][]float64{{1.2, 0.7}, {0.4, 0.6}}
		dx     = [][]float64{{0.3, -1}, {0.1, 0.5}}
		dy     = [][]float64{{-0.2, 0}, {0.6, 2}}
		out    = make([]float64, 2)
		outdx  = make([]float64, 2)
		outdy  = make([]float64, 2)
	)
	p.Omega(2, values, dx, dy, out, outdx, outdy)
	for i := 0; i < 2; i++ {
		omega, dT, dC := p.PointValues(values[0][i], values[1][i])
		assert.InDeltaf(t, omega, out[i], 1.e-12, "Omega")
		assert.InDeltaf(t, dT*dx[0][i]+dC*dx[1][i], outdx[i], 1.e-9, "dOmega/dx by the chain rule")
		assert.InDeltaf(t, dT*dy[0][i]+dC*dy[1][i], outdy[i], 1.e-9, "dOmega/dy by the chain rule")
	}
	p.DOmegaDT(2, values, dx, dy, out, outdx, outdy)
	assert.Equal(t, []float64{0, 0}, outdx)
	assert.Equal(t, []float64{0, 0}, outdy)
}

type linearField struct {
	a, b, c float64 // a + b x + c y
	order   int
}

func (lf linearField) Sample(pts *weakform.Points, out *weakform.Func[weakform.Real]) {
	for i := 0; i < pts.N; i++ {
		out.Val[i] = weakform.Real(lf.a + lf.b*pts.X[i] + lf.c*pts.Y[i])
		out.Dx[i] = weakform.Real(lf.b)
		out.Dy[i] = weakform.Real(lf.c)
	}
}

func (lf linearField) Order() int { return lf.order }

func TestFilter(t *testing.T) {
	var (
		p    = Params{Le: 1, Alpha: 0.8, Beta: 10}
		T    = linearField{1, 0.1, 0, 1}
		C    = linearField{0.5, 0, -0.05, 2}
		set  = NewFilterSet(p, T, C)
		pts  = weakform.NewPoints(3)
		fout = weakform.NewFunc[weakform.Real](3)
	)
	assert.Equal(t, 3, len(set))
	for i := 0; i < pts.N; i++ {
		pts.X[i], pts.Y[i] = float64(i), float64(2*i)
	}
	for name, mf := range set {
		assert.Equal(t, 2, mf.Order(), string(name))
	}
	set[weakform.Omega].Sample(pts, fout)
	for i := 0; i < pts.N; i++ {
		Tv, Cv := 1+0.1*pts.X[i], 0.5-0.05*pts.Y[i]
		omega, dT, dC := p.PointValues(Tv, Cv)
		assert.InDeltaf(t, omega, float64(fout.Val[i]), 1.e-9, "Omega at point %d", i)
		assert.InDeltaf(t, dT*0.1, float64(fout.Dx[i]), 1.e-9, "dOmega/dx at point %d", i)
		assert.InDeltaf(t, -dC*0.05, float64(fout.Dy[i]), 1.e-9, "dOmega/dy at point %d", i)
	}
	set[weakform.DOmegaDC].Sample(pts, fout)
	_, _, dC := p.PointValues(1, 0.5)
	assert.InDeltaf(t, dC, float64(fout.Val[0]), 1.e-9, "dOmega/dC")
	assert.Equal(t, weakform.DOmegaDT, NewOmegaDT(p, T, C).Name)
}
