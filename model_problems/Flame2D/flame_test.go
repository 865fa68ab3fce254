package Flame2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/notargets/flamefront/InputParameters"
	"github.com/notargets/flamefront/weakform"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func smallFlame(t *testing.T, modify func(ip *InputParameters.FlameParameters)) *Flame {
	ip := InputParameters.NewFlameParameters()
	ip.Nx, ip.Ny, ip.InitRefNum = 60, 2, 0
	ip.FinalTime = 2 * ip.Tau
	if modify != nil {
		modify(ip)
	}
	f, err := NewFlame(ip, 2)
	require.NoError(t, err)
	return f
}

func TestInitialCondition(t *testing.T) {
	{
		T, C := InitialT(9), InitialC(9, 2)
		u, ux, _ := T(5, 1)
		assert.Equal(t, 1., u)
		assert.Equal(t, 0., ux)
		u, ux, _ = T(10, 1)
		assert.InDeltaf(t, math.Exp(-1), u, 1.e-15, "T beyond the front")
		assert.InDeltaf(t, -math.Exp(-1), ux, 1.e-15, "dT/dx beyond the front")
		u, _, _ = C(9, 0)
		assert.Equal(t, 0., u)
		u, ux, _ = C(10, 0)
		assert.InDeltaf(t, 1-math.Exp(-2), u, 1.e-15, "C beyond the front")
		assert.InDeltaf(t, 2*math.Exp(-2), ux, 1.e-15, "dC/dx beyond the front")
	}
	{
		f := smallFlame(t, nil)
		T, C := f.Temperature(), f.Concentration()
		// Dirichlet values on the left wall come from the lift
		assert.InDeltaf(t, 1., T.Value(0, 8), 1.e-12, "left wall temperature")
		assert.Equal(t, 0., C.Value(0, 8))
		// Far downstream the projected fields approach the unburnt state
		assert.InDeltaf(t, 0., T.Value(60, 8), 0.02, "unburnt temperature")
		assert.InDeltaf(t, 1., C.Value(60, 8), 0.02, "unburnt concentration")
		assert.Equal(t, f.U, f.prev1)
		assert.Equal(t, f.U, f.prev2)
	}
}

func TestFlameStep(t *testing.T) {
	f := smallFlame(t, nil)
	require.NoError(t, f.Solve(nil))
	assert.Equal(t, 2, f.Steps)
	assert.InDeltaf(t, 2*f.Params.Tau, f.Time, 1.e-12, "time after two steps")
	for _, v := range f.U {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	T, C := f.Temperature(), f.Concentration()
	assert.InDeltaf(t, 1., T.Value(0, 3), 1.e-12, "left wall temperature")
	assert.Equal(t, 0., C.Value(0, 3))
	x, Tc, Cc := f.Centerline(25)
	assert.Equal(t, 0., x[0])
	assert.Equal(t, 60., x[24])
	for i := range x {
		assert.True(t, Tc[i] > -0.2 && Tc[i] < 1.5, "T out of range at x = %g: %g", x[i], Tc[i])
		assert.True(t, Cc[i] > -0.2 && Cc[i] < 1.2, "C out of range at x = %g: %g", x[i], Cc[i])
	}
	assert.Greater(t, f.Newton, 0)
}

func TestSolverModesAgree(t *testing.T) {
	step := func(modify func(ip *InputParameters.FlameParameters)) *Flame {
		f := smallFlame(t, func(ip *InputParameters.FlameParameters) {
			ip.AbsResid = 1.e-10
			ip.LinearTol = 1.e-8
			if modify != nil {
				modify(ip)
			}
		})
		_, err := f.Step()
		require.NoError(t, err)
		return f
	}
	ref := step(nil)
	assert.Equal(t, 0, ref.Krylov)
	for _, pc := range []weakform.PrecondKind{weakform.PrecondNone, weakform.PrecondJacobian, weakform.PrecondApprox} {
		f := step(func(ip *InputParameters.FlameParameters) {
			ip.JFNK = true
			ip.Preconditioner = pc.String()
		})
		assert.Equal(t, pc, f.Params.Precond)
		assert.Greater(t, f.Krylov, 0)
		assert.InDeltaSlicef(t, ref.U, f.U, 1.e-6, "JFNK with preconditioner %s", pc)
		nMatrix := len(f.DP.WF.MatrixForms)
		switch pc {
		case weakform.PrecondNone:
			assert.Equal(t, 0, nMatrix)
		case weakform.PrecondJacobian:
			assert.Equal(t, 5, nMatrix)
		case weakform.PrecondApprox:
			assert.Equal(t, 2, nMatrix)
		}
	}
}

func TestLagReaction(t *testing.T) {
	f := smallFlame(t, func(ip *InputParameters.FlameParameters) { ip.LagReaction = true })
	{ // The residual is affine in u, the Jacobian must reproduce any difference exactly
		var (
			n  = f.NDOF()
			u  = append([]float64(nil), f.U...)
			up = make([]float64, n)
			v  = make([]float64, n)
		)
		for i := range v {
			v[i] = 0.05 * math.Sin(float64(i))
			up[i] = u[i] + v[i]
		}
		R0, err := f.Residual(u)
		require.NoError(t, err)
		R1, err := f.Residual(up)
		require.NoError(t, err)
		J, err := f.Jacobian(u)
		require.NoError(t, err)
		Jv := J.MulVec(v)
		for i := range Jv {
			assert.InDeltaf(t, R1[i]-R0[i], Jv[i], 1.e-9*math.Max(1, math.Abs(Jv[i])), "row %d", i)
		}
	}
	stats, err := f.Step()
	require.NoError(t, err)
	// With the reaction lagged the system is linear, one Newton step converges
	assert.LessOrEqual(t, f.Newton, 2)
	assert.Equal(t, 0, stats.LinearIterations)
	{ // JFNK solves the same lagged step to the same state
		fj := smallFlame(t, func(ip *InputParameters.FlameParameters) {
			ip.LagReaction = true
			ip.JFNK = true
			ip.AbsResid = 1.e-10
			ip.LinearTol = 1.e-8
		})
		_, err = fj.Step()
		require.NoError(t, err)
		fn := smallFlame(t, func(ip *InputParameters.FlameParameters) {
			ip.LagReaction = true
			ip.AbsResid = 1.e-10
		})
		_, err = fn.Step()
		require.NoError(t, err)
		assert.InDeltaSlicef(t, fn.U, fj.U, 1.e-6, "lagged Newton and JFNK")
	}
}

func TestInvalidParameters(t *testing.T) {
	for _, modify := range []func(ip *InputParameters.FlameParameters){
		func(ip *InputParameters.FlameParameters) { ip.Tau = 0 },
		func(ip *InputParameters.FlameParameters) { ip.Nx = 0 },
		func(ip *InputParameters.FlameParameters) { ip.BCs["Top"] = "Wall" },
		func(ip *InputParameters.FlameParameters) { ip.Preconditioner = "ilu" },
		func(ip *InputParameters.FlameParameters) { ip.BCs["Top"] = "Neumann-top" },
	} {
		ip := InputParameters.NewFlameParameters()
		modify(ip)
		_, err := NewFlame(ip, 1)
		assert.Error(t, err)
	}
}
