package Poisson2D

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/flamefront/FEM2D"
	"github.com/notargets/flamefront/InputParameters"
	"github.com/notargets/flamefront/nonlinear"
	"github.com/notargets/flamefront/types"
	"github.com/notargets/flamefront/weakform"
)

// F is the right hand side of -Δu = F for the exact solution u = x^2 + y^2
const F = -4.

func Exact(x, y float64) (u, ux, uy float64) {
	return x*x + y*y, 2 * x, 2 * y
}

// Poisson solves on (-1,1)^2 with the exact solution imposed on every side.
type Poisson struct {
	Mesh      *FEM2D.Mesh
	Space     *FEM2D.Space
	Settings  nonlinear.Settings
	Precond   bool
	ProcLimit int
}

type Result struct {
	Method     string
	Solution   *FEM2D.Solution
	Stats      nonlinear.Stats
	Elapsed    time.Duration
	RelErrorH1 float64 // Percent
}

func (r Result) String() string {
	return fmt.Sprintf("%-6s: %3d iterations, %4d linear, %v, relative H1 error %8.4f%%",
		r.Method, r.Stats.Iterations, r.Stats.LinearIterations, r.Elapsed, r.RelErrorH1)
}

func NewPoisson(ip *InputParameters.PoissonParameters, ProcLimit int) (p *Poisson, err error) {
	var (
		marker  = types.BC_Dirichlet.String()
		markers = [FEM2D.NumSides]string{marker, marker, marker, marker}
		pk      weakform.PrecondKind
	)
	if pk, err = ip.PrecondKind(); err != nil {
		return
	}
	p = &Poisson{
		Settings:  ip.Settings(),
		Precond:   pk != weakform.PrecondNone,
		ProcLimit: ProcLimit,
	}
	if p.Mesh, err = FEM2D.NewMesh(-1, 1, -1, 1, ip.Nx, ip.Ny, markers); err != nil {
		return
	}
	for i := 0; i < ip.InitRefNum; i++ {
		p.Mesh = p.Mesh.RefineAll()
	}
	p.Space, err = FEM2D.NewSpace(p.Mesh, map[string]FEM2D.EssentialBC{
		marker: func(x, y float64) float64 {
			u, _, _ := Exact(x, y)
			return u
		},
	})
	return
}

func (p *Poisson) problem(jacobianFree bool) (dp *FEM2D.DiscreteProblem, err error) {
	var wf *weakform.WeakForm
	if wf, err = weakform.NewPoissonWeakForm(F, jacobianFree, p.Precond); err != nil {
		return
	}
	return FEM2D.NewDiscreteProblem(wf, []*FEM2D.Space{p.Space}, p.ProcLimit)
}

func (p *Poisson) solve(method string, jacobianFree bool, u0 []float64) (res Result, err error) {
	var (
		dp     *FEM2D.DiscreteProblem
		solver nonlinear.Solver
		u      []float64
	)
	if dp, err = p.problem(jacobianFree); err != nil {
		return
	}
	if jacobianFree {
		solver = nonlinear.NewJFNK(dp, p.Settings, p.Precond)
	} else {
		solver = nonlinear.NewNewton(dp, p.Settings)
	}
	start := time.Now()
	if u, res.Stats, err = solver.Solve(u0); err != nil {
		err = fmt.Errorf("%s: %w", method, err)
		return
	}
	res.Method = method
	res.Elapsed = time.Since(start)
	res.Solution = FEM2D.VectorToSolution(u, p.Space)
	_, rel := FEM2D.CalcErrors(res.Solution, FEM2D.ExactSolution{Fn: Exact, Ord: 2}, p.Mesh, weakform.H1Norm)
	res.RelErrorH1 = 100 * rel
	log.Infof("%v", res)
	return
}

func (p *Poisson) SolveNewton(u0 []float64) (Result, error) {
	return p.solve("Newton", false, u0)
}

func (p *Poisson) SolveJFNK(u0 []float64) (Result, error) {
	return p.solve("JFNK", true, u0)
}

// Run solves with Newton, then with JFNK started from the projection of the Newton solution.
func (p *Poisson) Run() (newton, jfnk Result, err error) {
	if newton, err = p.SolveNewton(nil); err != nil {
		return
	}
	var init *FEM2D.Solution
	if init, err = FEM2D.Project(p.Space, newton.Solution, weakform.H1Norm, p.ProcLimit); err != nil {
		return
	}
	jfnk, err = p.SolveJFNK(init.Coeffs)
	return
}
