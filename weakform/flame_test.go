package weakform_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/flamefront/reaction"
	"github.com/notargets/flamefront/weakform"
)

type constField float64

func (c constField) Sample(pts *weakform.Points, out *weakform.Func[weakform.Real]) {
	for i := 0; i < pts.N; i++ {
		out.Val[i], out.Dx[i], out.Dy[i] = weakform.Real(c), 0, 0
	}
}

func (c constField) Order() int { return 1 }

func flameExt() map[weakform.FieldName]weakform.MeshFunction {
	ext := make(map[weakform.FieldName]weakform.MeshFunction)
	for _, name := range weakform.FlameFieldOrder {
		ext[name] = constField(0.5)
	}
	return ext
}

func point(val, dx, dy float64) *weakform.Func[weakform.Real] {
	f := weakform.NewFunc[weakform.Real](1)
	f.Val[0], f.Dx[0], f.Dy[0] = weakform.Real(val), weakform.Real(dx), weakform.Real(dy)
	return f
}

var wt = []float64{1}

func TestFlameRegistration(t *testing.T) {
	names := func(wf *weakform.WeakForm) (m, v []string) {
		for _, mf := range wf.MatrixForms {
			m = append(m, mf.Name)
		}
		for _, vf := range wf.VectorForms {
			v = append(v, vf.Name)
		}
		return
	}
	var (
		jacobian = []string{"JacobianFormVol_0_0", "JacobianFormSurf_0_0", "JacobianFormVol_0_1",
			"JacobianFormVol_1_0", "JacobianFormVol_1_1"}
		approx   = []string{"PreconditionerForm_0", "PreconditionerForm_1"}
		residual = []string{"ResidualFormVol_0", "ResidualFormSurf_0", "ResidualFormVol_1"}
	)
	for _, tc := range []struct {
		jfnk    bool
		precond weakform.PrecondKind
		matrix  []string
	}{
		{false, weakform.PrecondNone, jacobian},
		{false, weakform.PrecondJacobian, jacobian},
		{false, weakform.PrecondApprox, jacobian},
		{true, weakform.PrecondJacobian, jacobian},
		{true, weakform.PrecondApprox, approx},
		{true, weakform.PrecondNone, nil},
	} {
		p := weakform.FlameParams{Le: 1, Alpha: 0.8, Beta: 10, Kappa: 0.1, Tau: 0.5, JFNK: tc.jfnk, Precond: tc.precond}
		wf, err := weakform.NewFlameWeakForm(p, flameExt())
		require.NoError(t, err)
		m, v := names(wf)
		if diff := cmp.Diff(tc.matrix, m); diff != "" {
			t.Errorf("matrix forms, JFNK = %v, precond = %s (-want +got):\n%s", tc.jfnk, tc.precond, diff)
		}
		if diff := cmp.Diff(residual, v); diff != "" {
			t.Errorf("vector forms (-want +got):\n%s", diff)
		}
		assert.Equal(t, 2, wf.NEq)
		assert.Equal(t, tc.jfnk, wf.JacobianFree)
		// Surface forms attach to the default heat loss marker
		key := weakform.FormKey{I: 0, J: -1, Domain: weakform.Surface, Marker: weakform.DefaultNeumannMarker}
		_, ok := wf.VectorForm(key)
		assert.True(t, ok)
	}
	{ // Every field is required, even those the registered forms do not read
		for _, name := range weakform.FlameFieldOrder {
			ext := flameExt()
			delete(ext, name)
			_, err := weakform.NewFlameWeakForm(weakform.FlameParams{Tau: 1, Le: 1}, ext)
			assert.Error(t, err, string(name))
		}
	}
}

func TestJacobianForms(t *testing.T) {
	var (
		tau, Le, kappa = 0.05, 2., 0.1
		vj             = point(1, 0.3, -0.2)
		vi             = point(0.7, 0.1, 0.4)
		mass           = 0.7
		grad           = 0.3*0.1 - 0.2*0.4
		ext            = weakform.Ext[weakform.Real]{
			weakform.DOmegaDT: point(2.5, 0, 0),
			weakform.DOmegaDC: point(1.5, 0, 0),
		}
	)
	eval := func(mf weakform.MatrixForm) float64 {
		return float64(mf.Value(1, wt, nil, vj, vi, ext))
	}
	assert.InDeltaf(t, 1.5*mass/tau+grad-2.5*mass, eval(weakform.JacobianFormVol00(tau)), 1.e-12, "Vol00")
	assert.InDeltaf(t, kappa*mass, eval(weakform.JacobianFormSurf00("Neumann", kappa)), 1.e-15, "Surf00")
	assert.InDeltaf(t, -1.5*mass, eval(weakform.JacobianFormVol01()), 1.e-15, "Vol01")
	assert.InDeltaf(t, 2.5*mass, eval(weakform.JacobianFormVol10()), 1.e-15, "Vol10")
	assert.InDeltaf(t, 1.5*mass/tau+grad/Le+1.5*mass, eval(weakform.JacobianFormVol11(tau, Le)), 1.e-12, "Vol11")
	{ // Off diagonal blocks are antisymmetric when both sensitivities match
		ext[weakform.DOmegaDC] = point(2.5, 0, 0)
		assert.Equal(t, -eval(weakform.JacobianFormVol10()), eval(weakform.JacobianFormVol01()))
	}
	{ // Approximate blocks are the diagonal blocks without reaction
		ext[weakform.DOmegaDT] = point(0, 0, 0)
		ext[weakform.DOmegaDC] = point(0, 0, 0)
		assert.Equal(t, eval(weakform.JacobianFormVol00(tau)), eval(weakform.PreconditionerForm0(tau)))
		assert.Equal(t, eval(weakform.JacobianFormVol11(tau, Le)), eval(weakform.PreconditionerForm1(tau, Le)))
	}
}

func TestResidualForms(t *testing.T) {
	var (
		tau, Le, kappa = 0.05, 2., 0.1
		p              = reaction.Params{Le: Le, Alpha: 0.6, Beta: 10}
		vi             = point(0.7, 0.1, 0.4)
	)
	{ // A constant state leaves only the reaction term
		omega, _, _ := p.PointValues(0.5, 0.25)
		var (
			T, C = point(0.5, 0, 0), point(0.25, 0, 0)
			ext  = weakform.Ext[weakform.Real]{
				weakform.TPrevTime1: T, weakform.TPrevTime2: T,
				weakform.CPrevTime1: C, weakform.CPrevTime2: C,
				weakform.Omega: point(omega, 0, 0),
			}
			uExt = []*weakform.Func[weakform.Real]{T, C}
		)
		r0 := weakform.ResidualFormVol0(tau).Value(1, wt, uExt, vi, ext)
		r1 := weakform.ResidualFormVol1(tau, Le).Value(1, wt, uExt, vi, ext)
		assert.InDeltaf(t, -omega*0.7, float64(r0), 1.e-12, "T residual")
		assert.InDeltaf(t, omega*0.7, float64(r1), 1.e-12, "C residual")
		rs := weakform.ResidualFormSurf0("Neumann", kappa).Value(1, wt, uExt, vi, ext)
		assert.InDeltaf(t, kappa*0.5*0.7, float64(rs), 1.e-15, "heat loss")
	}
	{ // The Jacobian forms are the derivatives of the residual forms
		var (
			T0, C0 = 1.2, 0.4
			vj     = point(0.8, -0.4, 0.25)
			prev1  = point(1.1, 0.2, 0)
			prev2  = point(0.9, -0.1, 0.3)
			h      = 1.e-6
		)
		residuals := func(dT, dC float64) (r0, r1, rs float64) {
			var (
				T = point(T0+dT*0.8, 0.3-dT*0.4, -0.1+dT*0.25)
				C = point(C0+dC*0.8, 0.05-dC*0.4, 0.2+dC*0.25)
			)
			omega, _, _ := p.PointValues(float64(T.Val[0]), float64(C.Val[0]))
			ext := weakform.Ext[weakform.Real]{
				weakform.TPrevTime1: prev1, weakform.TPrevTime2: prev2,
				weakform.CPrevTime1: prev2, weakform.CPrevTime2: prev1,
				weakform.Omega: point(omega, 0, 0),
			}
			uExt := []*weakform.Func[weakform.Real]{T, C}
			r0 = float64(weakform.ResidualFormVol0(tau).Value(1, wt, uExt, vi, ext))
			r1 = float64(weakform.ResidualFormVol1(tau, Le).Value(1, wt, uExt, vi, ext))
			rs = float64(weakform.ResidualFormSurf0("Neumann", kappa).Value(1, wt, uExt, vi, ext))
			return
		}
		_, dT, dC := p.PointValues(T0, C0)
		ext := weakform.Ext[weakform.Real]{
			weakform.DOmegaDT: point(dT, 0, 0),
			weakform.DOmegaDC: point(dC, 0, 0),
		}
		jac := func(mf weakform.MatrixForm) float64 {
			return float64(mf.Value(1, wt, nil, vj, vi, ext))
		}
		var (
			r0p, r1p, rsp = residuals(h, 0)
			r0m, r1m, rsm = residuals(-h, 0)
			c0p, c1p, _   = residuals(0, h)
			c0m, c1m, _   = residuals(0, -h)
		)
		check := func(name string, analytic, fd float64) {
			assert.InDeltaf(t, analytic, fd, 1.e-5*math.Max(1, math.Abs(analytic)), name)
		}
		check("Vol00", jac(weakform.JacobianFormVol00(tau)), (r0p-r0m)/(2*h))
		check("Surf00", jac(weakform.JacobianFormSurf00("Neumann", kappa)), (rsp-rsm)/(2*h))
		check("Vol01", jac(weakform.JacobianFormVol01()), (c0p-c0m)/(2*h))
		check("Vol10", jac(weakform.JacobianFormVol10()), (r1p-r1m)/(2*h))
		check("Vol11", jac(weakform.JacobianFormVol11(tau, Le)), (c1p-c1m)/(2*h))
	}
}
