package nonlinear

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/flamefront/utils"
)

// Newton solves with the assembled Jacobian and a direct linear solve per step.
type Newton struct {
	Problem  Problem
	Settings Settings
}

func NewNewton(p Problem, s Settings) *Newton {
	return &Newton{Problem: p, Settings: s}
}

func (nw *Newton) Solve(u0 []float64) (u []float64, stats Stats, err error) {
	if u, err = initialIterate(nw.Problem, u0); err != nil {
		return
	}
	for it := 0; ; it++ {
		var (
			R    []float64
			done bool
		)
		if R, done, err = nw.Settings.check(nw.Problem, u, it, &stats); done || err != nil {
			return
		}
		var (
			J  utils.CSR
			ds *DirectSolver
		)
		if J, err = nw.Problem.Jacobian(u); err != nil {
			return
		}
		if ds, err = NewDirectSolver(J); err != nil {
			return
		}
		floats.Scale(-1, R)
		var du []float64
		if du, err = ds.Solve(R); err != nil {
			return
		}
		floats.Add(u, du)
		stats.Iterations++
	}
}

// JFNK is Newton-Krylov with a finite difference Jacobian action. With Preconditioned
// set the assembled matrix of the problem is LU factored and applied on the right.
type JFNK struct {
	Problem        Problem
	Settings       Settings
	Preconditioned bool
}

func NewJFNK(p Problem, s Settings, preconditioned bool) *JFNK {
	return &JFNK{Problem: p, Settings: s, Preconditioned: preconditioned}
}

func (jf *JFNK) Solve(u0 []float64) (u []float64, stats Stats, err error) {
	if u, err = initialIterate(jf.Problem, u0); err != nil {
		return
	}
	lambda := jf.Settings.Lambda
	if lambda <= 0 {
		lambda = DefaultSettings().Lambda
	}
	for it := 0; ; it++ {
		var (
			R    []float64
			done bool
		)
		if R, done, err = jf.Settings.check(jf.Problem, u, it, &stats); done || err != nil {
			return
		}
		var M Operator
		if jf.Preconditioned {
			if M, err = jf.preconditioner(u); err != nil {
				return
			}
		}
		Jv := jacobianAction(jf.Problem, u, R, lambda)
		b := make([]float64, len(R))
		floats.ScaleTo(b, -1, R)
		var (
			du     []float64
			lstats LinearStats
		)
		du, lstats, err = GMRES(Jv, M, b, nil, jf.Settings.LinearTol, jf.Settings.Restart, jf.Settings.MaxLinearIters)
		stats.LinearIterations += lstats.Iterations
		stats.AchievedTol = lstats.Residual
		switch {
		case errors.Is(err, ErrLinearNotConverged):
			log.Warnf("JFNK iteration %d: %v, taking the inexact step", it, err)
			err = nil
		case err != nil:
			return
		}
		floats.Add(u, du)
		stats.Iterations++
	}
}

// jacobianAction approximates J(u)·v by a forward difference from R = R(u). The step
// δ = λ(1 + ‖u‖)/‖v‖ keeps the perturbation of size λ at u = 0.
func jacobianAction(p Problem, u, R []float64, lambda float64) Operator {
	unorm := floats.Norm(u, 2)
	return func(v []float64) (jv []float64, err error) {
		jv = make([]float64, len(v))
		vnorm := floats.Norm(v, 2)
		if vnorm == 0 {
			return
		}
		delta := lambda * (1 + unorm) / vnorm
		up := make([]float64, len(u))
		floats.AddScaledTo(up, u, delta, v)
		var Rp []float64
		if Rp, err = p.Residual(up); err != nil {
			return
		}
		floats.SubTo(jv, Rp, R)
		floats.Scale(1/delta, jv)
		return
	}
}

func (jf *JFNK) preconditioner(u []float64) (M Operator, err error) {
	var (
		J  utils.CSR
		ds *DirectSolver
	)
	if J, err = jf.Problem.Jacobian(u); err != nil {
		return
	}
	if ds, err = NewDirectSolver(J); err != nil {
		return
	}
	M = ds.Solve
	return
}

func initialIterate(p Problem, u0 []float64) (u []float64, err error) {
	n := p.NDOF()
	u = make([]float64, n)
	switch len(u0) {
	case 0:
	case n:
		copy(u, u0)
	default:
		err = fmt.Errorf("initial iterate has length %d, problem has %d unknowns", len(u0), n)
	}
	return
}

// check evaluates the residual at u and applies the status tests for iteration it.
func (s Settings) check(p Problem, u []float64, it int, stats *Stats) (R []float64, done bool, err error) {
	if R, err = p.Residual(u); err != nil {
		return
	}
	norm := floats.Norm(R, 2)
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		err = fmt.Errorf("%w: residual norm %v at iteration %d", ErrDiverged, norm, it)
		return
	}
	if it == 0 {
		stats.InitialResidual = norm
	}
	stats.Residual = norm
	log.Debugf("nonlinear iteration %3d, ||R|| = %12.6e", it, norm)
	if s.converged(norm, stats.InitialResidual) {
		done = true
		return
	}
	if it >= s.MaxIters {
		err = fmt.Errorf("%w: ||R|| = %8.3e after %d iterations", ErrMaxIterations, norm, it)
	}
	return
}
