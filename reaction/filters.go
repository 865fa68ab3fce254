package reaction

import (
	"math"
)

/*
Params are the Arrhenius-type reaction kinetics shared by the three filters:

	Omega = β²/(2·Le) · exp(β·t1 / (1 + α·t1)) · C,   t1 = max(T,0) - 1

The clamp floors T at zero, not at the ignition temperature of one. The derivative of the
clamp itself is not modelled.
*/
type Params struct {
	Le, Alpha, Beta float64
}

/*
FilterFn computes a derived field at n points from its inputs. values[0] is T, values[1]
is C, with their x and y derivatives in dx and dy.
*/
type FilterFn func(n int, values, dx, dy [][]float64, out, outdx, outdy []float64)

func (p Params) kinetics(T float64) (t3, t4 float64) {
	var (
		t1 = math.Max(T, 0) - 1
		t2 = t1 * p.Beta
	)
	t3 = 1 + t1*p.Alpha
	t4 = p.Beta * p.Beta / (2 * p.Le) * math.Exp(t2/t3)
	return
}

// Omega is the reaction rate with its spatial derivatives by the chain rule.
func (p Params) Omega(n int, values, dx, dy [][]float64, out, outdx, outdy []float64) {
	for i := 0; i < n; i++ {
		var (
			C      = values[1][i]
			t3, t4 = p.kinetics(values[0][i])
			t5     = p.Beta / (t3 * t3) * C
		)
		out[i] = t4 * C
		outdx[i] = t4 * (dx[1][i] + dx[0][i]*t5)
		outdy[i] = t4 * (dy[1][i] + dy[0][i]*t5)
	}
}

// DOmegaDT is ∂Omega/∂T. Only the point value is used downstream, derivatives are zero.
func (p Params) DOmegaDT(n int, values, dx, dy [][]float64, out, outdx, outdy []float64) {
	for i := 0; i < n; i++ {
		var (
			t3, t4 = p.kinetics(values[0][i])
			t5     = p.Beta / (t3 * t3)
		)
		out[i] = t4 * t5 * values[1][i]
		outdx[i] = 0
		outdy[i] = 0
	}
}

// DOmegaDC is ∂Omega/∂C, derivatives are zero.
func (p Params) DOmegaDC(n int, values, dx, dy [][]float64, out, outdx, outdy []float64) {
	for i := 0; i < n; i++ {
		_, t4 := p.kinetics(values[0][i])
		out[i] = t4
		outdx[i] = 0
		outdy[i] = 0
	}
}

// PointValues evaluates all three filters at one point with zero gradients.
func (p Params) PointValues(T, C float64) (omega, dOmegaDT, dOmegaDC float64) {
	var (
		values = [][]float64{{T}, {C}}
		zero   = [][]float64{{0}, {0}}
		out    = make([]float64, 1)
		dummy  = make([]float64, 2)
	)
	p.Omega(1, values, zero, zero, out, dummy[:1], dummy[1:])
	omega = out[0]
	p.DOmegaDT(1, values, zero, zero, out, dummy[:1], dummy[1:])
	dOmegaDT = out[0]
	p.DOmegaDC(1, values, zero, zero, out, dummy[:1], dummy[1:])
	dOmegaDC = out[0]
	return
}
