package nonlinear

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/flamefront/utils"
)

// DirectSolver holds the dense LU factorisation of an assembled sparse matrix.
type DirectSolver struct {
	lu mat.LU
	n  int
}

func NewDirectSolver(A utils.CSR) (ds *DirectSolver, err error) {
	nr, nc := A.Dims()
	if nr != nc {
		err = fmt.Errorf("direct solve needs a square matrix, have %d x %d", nr, nc)
		return
	}
	ds = &DirectSolver{n: nr}
	ds.lu.Factorize(A.ToDense())
	if cond := ds.lu.Cond(); math.IsInf(cond, 1) || math.IsNaN(cond) || cond > mat.ConditionTolerance {
		return nil, ErrSingular
	}
	return
}

func (ds *DirectSolver) Solve(b []float64) (x []float64, err error) {
	if len(b) != ds.n {
		err = fmt.Errorf("right hand side has length %d, matrix has %d rows", len(b), ds.n)
		return
	}
	var xv mat.VecDense
	if err = ds.lu.SolveVecTo(&xv, false, mat.NewVecDense(ds.n, append([]float64(nil), b...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
		log.Warnf("direct solve is ill conditioned: %v", err)
		err = nil
	}
	x = append([]float64(nil), xv.RawVector().Data...)
	return
}
