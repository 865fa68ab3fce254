package FEM2D

import (
	"github.com/notargets/flamefront/weakform"
)

// Solution is a finite element function: free coefficients plus the Dirichlet lift.
type Solution struct {
	Space  *Space
	Coeffs []float64
	nodal  []float64
}

func VectorToSolution(coeffs []float64, sp *Space) (sln *Solution) {
	sln = &Solution{
		Space:  sp,
		Coeffs: append([]float64(nil), coeffs...),
		nodal:  make([]float64, sp.Mesh.NV()),
	}
	for v, dof := range sp.VToDOF {
		if dof < 0 {
			sln.nodal[v] = sp.Lift[v]
		} else {
			sln.nodal[v] = sln.Coeffs[dof]
		}
	}
	return
}

// NodalValues are the solution values at the mesh vertices.
func (sln *Solution) NodalValues() []float64 { return sln.nodal }

func (sln *Solution) Order() int { return sln.Space.Order }

func (sln *Solution) Sample(pts *weakform.Points, out *weakform.Func[weakform.Real]) {
	var (
		m     = sln.Space.Mesh
		verts = m.EToV[pts.Elem]
		rx    = 2 / m.Hx()
		sy    = 2 / m.Hy()
	)
	out.Zero()
	for i := 0; i < pts.N; i++ {
		var val, dx, dy float64
		for a, v := range verts {
			dr, ds := Q1Grad(a, pts.R[i], pts.S[i])
			val += sln.nodal[v] * Q1Value(a, pts.R[i], pts.S[i])
			dx += sln.nodal[v] * dr * rx
			dy += sln.nodal[v] * ds * sy
		}
		out.Val[i] = weakform.Real(val)
		out.Dx[i] = weakform.Real(dx)
		out.Dy[i] = weakform.Real(dy)
	}
}

// Value evaluates the solution at a physical point.
func (sln *Solution) Value(x, y float64) (val float64) {
	var (
		m       = sln.Space.Mesh
		k, r, s = m.Locate(x, y)
	)
	for a, v := range m.EToV[k] {
		val += sln.nodal[v] * Q1Value(a, r, s)
	}
	return
}

type ConstantSolution struct {
	C float64
}

func (cs ConstantSolution) Order() int { return 0 }

func (cs ConstantSolution) Sample(pts *weakform.Points, out *weakform.Func[weakform.Real]) {
	out.Zero()
	for i := 0; i < pts.N; i++ {
		out.Val[i] = weakform.Real(cs.C)
	}
}

// ExactSolution wraps an analytic function and its gradient.
type ExactSolution struct {
	Fn  func(x, y float64) (u, ux, uy float64)
	Ord int
}

func (es ExactSolution) Order() int { return es.Ord }

func (es ExactSolution) Sample(pts *weakform.Points, out *weakform.Func[weakform.Real]) {
	for i := 0; i < pts.N; i++ {
		u, ux, uy := es.Fn(pts.X[i], pts.Y[i])
		out.Val[i] = weakform.Real(u)
		out.Dx[i] = weakform.Real(ux)
		out.Dy[i] = weakform.Real(uy)
	}
}
