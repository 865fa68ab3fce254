package FEM2D

import (
	"fmt"

	"github.com/notargets/flamefront/nonlinear"
	"github.com/notargets/flamefront/weakform"
)

// Project computes the Galerkin projection of src onto sp in the L2 or H1 inner product.
func Project(sp *Space, src weakform.MeshFunction, norm weakform.Norm, ProcLimit int) (sln *Solution, err error) {
	var (
		wf *weakform.WeakForm
		dp *DiscreteProblem
	)
	if wf, err = weakform.NewProjectionWeakForm(src, norm); err != nil {
		return
	}
	if dp, err = NewDiscreteProblem(wf, []*Space{sp}, ProcLimit); err != nil {
		return
	}
	u := make([]float64, dp.NDOF())
	J, R, err := dp.Assemble(u, true, true)
	if err != nil {
		return
	}
	for i := range R {
		R[i] = -R[i]
	}
	var lu *nonlinear.DirectSolver
	if lu, err = nonlinear.NewDirectSolver(J); err != nil {
		err = fmt.Errorf("%s projection: %w", norm, err)
		return
	}
	du, err := lu.Solve(R)
	if err != nil {
		err = fmt.Errorf("%s projection: %w", norm, err)
		return
	}
	sln = VectorToSolution(du, sp)
	return
}
