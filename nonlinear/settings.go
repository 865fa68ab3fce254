package nonlinear

import (
	"errors"

	"github.com/notargets/flamefront/utils"
)

var (
	ErrDiverged           = errors.New("nonlinear iteration diverged")
	ErrMaxIterations      = errors.New("nonlinear iteration reached its iteration limit")
	ErrSingular           = errors.New("matrix is singular")
	ErrLinearNotConverged = errors.New("linear solver did not reach its tolerance")
)

// Problem is what the solvers need from an assembled discretisation.
type Problem interface {
	NDOF() int
	Residual(u []float64) ([]float64, error)
	Jacobian(u []float64) (utils.CSR, error)
}

/*
Settings follow the NOX status tests: the enabled residual tests are combined with AND,
MaxIters stops the iteration. With neither test enabled the absolute test is used.
*/
type Settings struct {
	AbsResid, RelResid float64
	UseAbs, UseRel     bool
	MaxIters           int
	LinearTol          float64 // Relative tolerance of the Krylov solve
	Restart            int     // GMRES restart length
	MaxLinearIters     int
	Lambda             float64 // Finite difference perturbation parameter of JFNK
}

func DefaultSettings() Settings {
	return Settings{
		AbsResid:       1.e-8,
		RelResid:       1.e-2,
		UseAbs:         true,
		UseRel:         false,
		MaxIters:       50,
		LinearTol:      1.e-5,
		Restart:        30,
		MaxLinearIters: 300,
		Lambda:         1.e-6,
	}
}

func (s Settings) converged(norm, norm0 float64) bool {
	if !s.UseAbs && !s.UseRel {
		return norm <= s.AbsResid
	}
	if s.UseAbs && norm > s.AbsResid {
		return false
	}
	if s.UseRel && norm > s.RelResid*norm0 {
		return false
	}
	return true
}

type Stats struct {
	Iterations       int
	LinearIterations int
	InitialResidual  float64
	Residual         float64
	AchievedTol      float64 // Relative residual of the last linear solve
}

type Solver interface {
	Solve(u0 []float64) (u []float64, stats Stats, err error)
}
