package Flame2D

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/notargets/flamefront/FEM2D"
	"github.com/notargets/flamefront/InputParameters"
	"github.com/notargets/flamefront/nonlinear"
	"github.com/notargets/flamefront/reaction"
	"github.com/notargets/flamefront/types"
	"github.com/notargets/flamefront/utils"
	"github.com/notargets/flamefront/weakform"
)

/*
Flame advances the coupled temperature / concentration system with BDF2 in time. The
unknown vector holds the T coefficients followed by the C coefficients. The weak form and
the discrete problem are built once, the external fields it reads are references that are
rebound to the current iterate and to the two previous time levels.
*/
type Flame struct {
	Params      weakform.FlameParams
	FinalTime   float64
	LagReaction bool
	Settings    nonlinear.Settings
	Mesh        *FEM2D.Mesh
	Spaces      []*FEM2D.Space
	DP          *FEM2D.DiscreteProblem
	U           []float64
	Time        float64
	Steps       int
	Newton      int // Accumulated nonlinear iterations
	Krylov      int // Accumulated linear iterations
	prev1       []float64
	prev2       []float64
	iterT       *fieldRef
	iterC       *fieldRef
	tPrev1      *fieldRef
	tPrev2      *fieldRef
	cPrev1      *fieldRef
	cPrev2      *fieldRef
}

// fieldRef lets a weak form read a field that is replaced between evaluations.
type fieldRef struct {
	weakform.MeshFunction
}

func NewFlame(ip *InputParameters.FlameParameters, ProcLimit int) (f *Flame, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	f = &Flame{
		FinalTime:   ip.FinalTime,
		LagReaction: ip.LagReaction,
		Settings:    ip.Settings(),
	}
	if f.Params, err = ip.FlameParams(); err != nil {
		return
	}
	var markers [FEM2D.NumSides]string
	for side := FEM2D.Bottom; side < FEM2D.NumSides; side++ {
		if markers[side] = ip.BCs[side.String()]; markers[side] == "" {
			markers[side] = types.BC_Out.String()
		}
	}
	if f.Mesh, err = FEM2D.NewMesh(0, ip.Length, 0, ip.Width, ip.Nx, ip.Ny, markers); err != nil {
		return
	}
	for i := 0; i < ip.InitRefNum; i++ {
		f.Mesh = f.Mesh.RefineAll()
	}
	var (
		essT = make(map[string]FEM2D.EssentialBC)
		essC = make(map[string]FEM2D.EssentialBC)
	)
	for _, marker := range markers {
		if types.NewBCTAG(marker).GetFLAG() == types.BC_Dirichlet {
			essT[marker] = func(x, y float64) float64 { return 1 }
			essC[marker] = func(x, y float64) float64 { return 0 }
		}
	}
	f.Spaces = make([]*FEM2D.Space, 2)
	if f.Spaces[0], err = FEM2D.NewSpace(f.Mesh, essT); err != nil {
		return
	}
	if f.Spaces[1], err = FEM2D.NewSpace(f.Mesh, essC); err != nil {
		return
	}
	if err = f.initialCondition(ProcLimit); err != nil {
		return
	}
	f.iterT, f.iterC = &fieldRef{}, &fieldRef{}
	f.tPrev1, f.tPrev2 = &fieldRef{}, &fieldRef{}
	f.cPrev1, f.cPrev2 = &fieldRef{}, &fieldRef{}
	srcT, srcC := f.iterT, f.iterC
	if f.LagReaction {
		srcT, srcC = f.tPrev1, f.cPrev1
	}
	ext := reaction.NewFilterSet(reaction.Params{Le: f.Params.Le, Alpha: f.Params.Alpha, Beta: f.Params.Beta},
		srcT, srcC)
	ext[weakform.TPrevTime1], ext[weakform.TPrevTime2] = f.tPrev1, f.tPrev2
	ext[weakform.CPrevTime1], ext[weakform.CPrevTime2] = f.cPrev1, f.cPrev2
	if f.LagReaction {
		// Omega no longer depends on the iterate, so neither does the Jacobian
		ext[weakform.DOmegaDT], ext[weakform.DOmegaDC] = FEM2D.ConstantSolution{}, FEM2D.ConstantSolution{}
	}
	// Bind everything once so the quadrature order estimate sees real fields
	f.bindHistory()
	f.bindIterate(f.U)
	var wf *weakform.WeakForm
	if wf, err = weakform.NewFlameWeakForm(f.Params, ext); err != nil {
		return
	}
	if f.DP, err = FEM2D.NewDiscreteProblem(wf, f.Spaces, ProcLimit); err != nil {
		return
	}
	log.Infof("flame: %d x %d elements, %d unknowns, JFNK = %v, preconditioner = %s",
		f.Mesh.Nx, f.Mesh.Ny, f.DP.NDOF(), f.Params.JFNK, f.Params.Precond)
	return
}

// InitialT and InitialC place the ignition front at x = X1.
func InitialT(X1 float64) func(x, y float64) (u, ux, uy float64) {
	return func(x, y float64) (u, ux, uy float64) {
		if x <= X1 {
			return 1, 0, 0
		}
		u = math.Exp(X1 - x)
		return u, -u, 0
	}
}

func InitialC(X1, Le float64) func(x, y float64) (u, ux, uy float64) {
	return func(x, y float64) (u, ux, uy float64) {
		if x <= X1 {
			return 0, 0, 0
		}
		e := math.Exp(Le * (X1 - x))
		return 1 - e, Le * e, 0
	}
}

func (f *Flame) initialCondition(ProcLimit int) (err error) {
	var (
		slnT, slnC *FEM2D.Solution
		srcT       = FEM2D.ExactSolution{Fn: InitialT(f.Params.X1), Ord: 4}
		srcC       = FEM2D.ExactSolution{Fn: InitialC(f.Params.X1, f.Params.Le), Ord: 4}
	)
	if slnT, err = FEM2D.Project(f.Spaces[0], srcT, weakform.L2Norm, ProcLimit); err != nil {
		return fmt.Errorf("initial temperature: %w", err)
	}
	if slnC, err = FEM2D.Project(f.Spaces[1], srcC, weakform.L2Norm, ProcLimit); err != nil {
		return fmt.Errorf("initial concentration: %w", err)
	}
	f.U = append(append([]float64{}, slnT.Coeffs...), slnC.Coeffs...)
	f.prev1 = append([]float64(nil), f.U...)
	f.prev2 = append([]float64(nil), f.U...)
	return
}

func (f *Flame) solutions(u []float64) (T, C *FEM2D.Solution) {
	nT := f.Spaces[0].NDOF()
	return FEM2D.VectorToSolution(u[:nT], f.Spaces[0]), FEM2D.VectorToSolution(u[nT:], f.Spaces[1])
}

func (f *Flame) bindIterate(u []float64) {
	T, C := f.solutions(u)
	f.iterT.MeshFunction, f.iterC.MeshFunction = T, C
}

func (f *Flame) bindHistory() {
	T1, C1 := f.solutions(f.prev1)
	T2, C2 := f.solutions(f.prev2)
	f.tPrev1.MeshFunction, f.cPrev1.MeshFunction = T1, C1
	f.tPrev2.MeshFunction, f.cPrev2.MeshFunction = T2, C2
}

// NDOF, Residual and Jacobian make the flame a nonlinear.Problem at the current time level.
func (f *Flame) NDOF() int { return f.DP.NDOF() }

func (f *Flame) Residual(u []float64) ([]float64, error) {
	f.bindIterate(u)
	return f.DP.Residual(u)
}

func (f *Flame) Jacobian(u []float64) (utils.CSR, error) {
	f.bindIterate(u)
	return f.DP.Jacobian(u)
}

func (f *Flame) Solver() nonlinear.Solver {
	if f.Params.JFNK {
		return nonlinear.NewJFNK(f, f.Settings, f.Params.Precond != weakform.PrecondNone)
	}
	return nonlinear.NewNewton(f, f.Settings)
}

// Step advances one time step of length Tau.
func (f *Flame) Step() (stats nonlinear.Stats, err error) {
	var u []float64
	f.bindHistory()
	if u, stats, err = f.Solver().Solve(f.U); err != nil {
		err = fmt.Errorf("time step %d, t = %g: %w", f.Steps+1, f.Time+f.Params.Tau, err)
		return
	}
	f.prev2, f.prev1 = f.prev1, u
	f.U = append([]float64(nil), u...)
	f.Time += f.Params.Tau
	f.Steps++
	f.Newton += stats.Iterations
	f.Krylov += stats.LinearIterations
	T, C := f.Temperature(), f.Concentration()
	log.Infof("step %4d, t = %8.3f, iterations = %2d, linear = %4d, ||T|| = %10.6f, ||C|| = %10.6f",
		f.Steps, f.Time, stats.Iterations, stats.LinearIterations,
		FEM2D.Norm(T, f.Mesh, weakform.L2Norm), FEM2D.Norm(C, f.Mesh, weakform.L2Norm))
	return
}

func (f *Flame) Temperature() *FEM2D.Solution {
	T, _ := f.solutions(f.U)
	return T
}

func (f *Flame) Concentration() *FEM2D.Solution {
	_, C := f.solutions(f.U)
	return C
}

// Solve steps until FinalTime, plotting along the way when pm asks for it.
func (f *Flame) Solve(pm *PlotMeta) (err error) {
	var lc *lineChart
	if pm != nil && pm.Plot {
		lc = newLineChart(f, pm)
	}
	for f.Time < f.FinalTime-0.5*f.Params.Tau {
		if _, err = f.Step(); err != nil {
			return
		}
		if lc != nil && f.Steps%pm.StepsBeforePlot == 0 {
			if err = lc.plot(f); err != nil {
				return
			}
		}
	}
	log.Infof("flame: reached t = %g in %d steps, %d nonlinear and %d linear iterations",
		f.Time, f.Steps, f.Newton, f.Krylov)
	log.Debugf("flame: %s", utils.GetMemUsage())
	return
}

// Centerline samples T and C at n >= 2 points along y = (Y0+Y1)/2.
func (f *Flame) Centerline(n int) (x, T, C []float64) {
	if n < 2 {
		n = 2
	}
	var (
		m    = f.Mesh
		y    = 0.5 * (m.Y0 + m.Y1)
		slnT = f.Temperature()
		slnC = f.Concentration()
	)
	x, T, C = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = m.X0 + (m.X1-m.X0)*float64(i)/float64(n-1)
		T[i] = slnT.Value(x[i], y)
		C[i] = slnC.Value(x[i], y)
	}
	return
}
