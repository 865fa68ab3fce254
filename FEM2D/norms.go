package FEM2D

import (
	"math"

	"github.com/notargets/flamefront/weakform"
)

// Norm integrates the L2 or H1 norm of f over the mesh.
func Norm(f weakform.MeshFunction, m *Mesh, norm weakform.Norm) float64 {
	return math.Sqrt(integrateSquared(f, nil, m, norm))
}

/*
CalcErrors returns the absolute error ||sln - ref|| and the error relative to ||ref||, using
a rule a few orders above what either function needs.
*/
func CalcErrors(sln, ref weakform.MeshFunction, m *Mesh, norm weakform.Norm) (abs, rel float64) {
	abs = math.Sqrt(integrateSquared(sln, ref, m, norm))
	refNorm := Norm(ref, m, norm)
	if refNorm == 0 {
		rel = abs
		return
	}
	rel = abs / refNorm
	return
}

func integrateSquared(f, g weakform.MeshFunction, m *Mesh, norm weakform.Norm) (total float64) {
	order := f.Order()
	if g != nil && g.Order() > order {
		order = g.Order()
	}
	var (
		rl = TensorRule(PointsForOrder(2*order + 2))
		wt = m.volumeWeights(rl)
		ff = weakform.NewFunc[weakform.Real](rl.N)
		gf = weakform.NewFunc[weakform.Real](rl.N)
	)
	for k := 0; k < m.K(); k++ {
		pts := m.points(k, rl)
		f.Sample(pts, ff)
		if g != nil {
			g.Sample(pts, gf)
		} else {
			gf.Zero()
		}
		for i := 0; i < rl.N; i++ {
			var (
				e   = float64(ff.Val[i] - gf.Val[i])
				ex  = float64(ff.Dx[i] - gf.Dx[i])
				ey  = float64(ff.Dy[i] - gf.Dy[i])
				val = e * e
			)
			if norm == weakform.H1Norm {
				val += ex*ex + ey*ey
			}
			total += wt[i] * val
		}
	}
	return
}
