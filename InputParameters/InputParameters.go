package InputParameters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"gopkg.in/ini.v1"

	"github.com/notargets/flamefront/nonlinear"
	"github.com/notargets/flamefront/types"
	"github.com/notargets/flamefront/weakform"
)

// Solver controls shared by the model problems
type SolverParameters struct {
	AbsResid       float64 `json:"AbsResid"`
	RelResid       float64 `json:"RelResid"`
	UseRelResid    bool    `json:"UseRelResid"`
	MaxIterations  int     `json:"MaxIterations"`
	LinearTol      float64 `json:"LinearTol"`
	Restart        int     `json:"Restart"`
	Preconditioner string  `json:"Preconditioner"` // none, jacobian or approx
}

// Parameters obtained from the YAML or INI input file
type FlameParameters struct {
	Title       string            `json:"Title"`
	Le          float64           `json:"Le"`
	Alpha       float64           `json:"Alpha"`
	Beta        float64           `json:"Beta"`
	Kappa       float64           `json:"Kappa"`
	X1          float64           `json:"X1"`
	Tau         float64           `json:"Tau"`
	FinalTime   float64           `json:"FinalTime"`
	Length      float64           `json:"Length"`
	Width       float64           `json:"Width"`
	Nx          int               `json:"Nx"`
	Ny          int               `json:"Ny"`
	InitRefNum  int               `json:"InitRefNum"`
	JFNK        bool              `json:"JFNK"`
	LagReaction bool              `json:"LagReaction"`
	BCs         map[string]string `json:"BCs"` // Side name to boundary marker, e.g. Top: Neumann-top
	SolverParameters
}

func NewFlameParameters() *FlameParameters {
	return &FlameParameters{
		Title:      "Flame propagation in a channel",
		Le:         1,
		Alpha:      0.8,
		Beta:       10,
		Kappa:      0.1,
		X1:         9,
		Tau:        0.5,
		FinalTime:  60,
		Length:     60,
		Width:      16,
		Nx:         30,
		Ny:         8,
		InitRefNum: 1,
		BCs: map[string]string{
			"Left":   "Dirichlet",
			"Right":  "Outflow",
			"Top":    "Neumann",
			"Bottom": "Neumann",
		},
		SolverParameters: defaultSolverParameters(),
	}
}

type PoissonParameters struct {
	Title      string `json:"Title"`
	Nx         int    `json:"Nx"`
	Ny         int    `json:"Ny"`
	InitRefNum int    `json:"InitRefNum"`
	SolverParameters
}

func NewPoissonParameters() *PoissonParameters {
	return &PoissonParameters{
		Title:            "Poisson with exact solution x^2+y^2",
		Nx:               4,
		Ny:               4,
		InitRefNum:       1,
		SolverParameters: defaultSolverParameters(),
	}
}

func defaultSolverParameters() SolverParameters {
	s := nonlinear.DefaultSettings()
	return SolverParameters{
		AbsResid:       s.AbsResid,
		RelResid:       s.RelResid,
		MaxIterations:  s.MaxIters,
		LinearTol:      s.LinearTol,
		Restart:        s.Restart,
		Preconditioner: weakform.PrecondJacobian.String(),
	}
}

func (sp *SolverParameters) Settings() (s nonlinear.Settings) {
	s = nonlinear.DefaultSettings()
	s.AbsResid, s.RelResid = sp.AbsResid, sp.RelResid
	s.UseAbs, s.UseRel = true, sp.UseRelResid
	s.MaxIters, s.LinearTol = sp.MaxIterations, sp.LinearTol
	if sp.Restart > 0 {
		s.Restart = sp.Restart
	}
	return
}

func (sp *SolverParameters) PrecondKind() (weakform.PrecondKind, error) {
	return weakform.ParsePrecondKind(sp.Preconditioner)
}

func (sp *SolverParameters) loadINI(sec *ini.Section) {
	sp.AbsResid = sec.Key("AbsResid").MustFloat64(sp.AbsResid)
	sp.RelResid = sec.Key("RelResid").MustFloat64(sp.RelResid)
	sp.UseRelResid = sec.Key("UseRelResid").MustBool(sp.UseRelResid)
	sp.MaxIterations = sec.Key("MaxIterations").MustInt(sp.MaxIterations)
	sp.LinearTol = sec.Key("LinearTol").MustFloat64(sp.LinearTol)
	sp.Restart = sec.Key("Restart").MustInt(sp.Restart)
	sp.Preconditioner = sec.Key("Preconditioner").MustString(sp.Preconditioner)
}

func (sp *SolverParameters) print() {
	fmt.Printf("%8.2e\t\t= AbsResid\n", sp.AbsResid)
	fmt.Printf("%8.2e\t\t= RelResid (enabled: %v)\n", sp.RelResid, sp.UseRelResid)
	fmt.Printf("[%d]\t\t\t\t= MaxIterations\n", sp.MaxIterations)
	fmt.Printf("%8.2e\t\t= LinearTol\n", sp.LinearTol)
	fmt.Printf("[%s]\t\t\t= Preconditioner\n", sp.Preconditioner)
}

// Parse overlays the YAML document onto the current values
func (fp *FlameParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

/*
ParseINI reads the [flame] and [solver] sections, with the boundary markers under [bcs]:

	[flame]
	Le = 1
	Tau = 0.5
	[bcs]
	Top = Neumann-top
*/
func (fp *FlameParameters) ParseINI(data []byte) (err error) {
	var file *ini.File
	if file, err = ini.Load(data); err != nil {
		return
	}
	sec := file.Section("flame")
	fp.Title = sec.Key("Title").MustString(fp.Title)
	fp.Le = sec.Key("Le").MustFloat64(fp.Le)
	fp.Alpha = sec.Key("Alpha").MustFloat64(fp.Alpha)
	fp.Beta = sec.Key("Beta").MustFloat64(fp.Beta)
	fp.Kappa = sec.Key("Kappa").MustFloat64(fp.Kappa)
	fp.X1 = sec.Key("X1").MustFloat64(fp.X1)
	fp.Tau = sec.Key("Tau").MustFloat64(fp.Tau)
	fp.FinalTime = sec.Key("FinalTime").MustFloat64(fp.FinalTime)
	fp.Length = sec.Key("Length").MustFloat64(fp.Length)
	fp.Width = sec.Key("Width").MustFloat64(fp.Width)
	fp.Nx = sec.Key("Nx").MustInt(fp.Nx)
	fp.Ny = sec.Key("Ny").MustInt(fp.Ny)
	fp.InitRefNum = sec.Key("InitRefNum").MustInt(fp.InitRefNum)
	fp.JFNK = sec.Key("JFNK").MustBool(fp.JFNK)
	fp.LagReaction = sec.Key("LagReaction").MustBool(fp.LagReaction)
	if file.HasSection("bcs") {
		for _, key := range file.Section("bcs").Keys() {
			if fp.BCs == nil {
				fp.BCs = make(map[string]string)
			}
			fp.BCs[key.Name()] = key.String()
		}
	}
	fp.SolverParameters.loadINI(file.Section("solver"))
	return
}

// Validate checks the values that the flame driver cannot recover from
func (fp *FlameParameters) Validate() (err error) {
	switch {
	case fp.Tau <= 0:
		err = fmt.Errorf("time step Tau must be positive, have %g", fp.Tau)
	case fp.Le <= 0:
		err = fmt.Errorf("Lewis number Le must be positive, have %g", fp.Le)
	case fp.Length <= 0 || fp.Width <= 0:
		err = fmt.Errorf("channel must have positive extent, have %g x %g", fp.Length, fp.Width)
	case fp.Nx < 1 || fp.Ny < 1 || fp.InitRefNum < 0:
		err = fmt.Errorf("invalid grid %d x %d refined %d times", fp.Nx, fp.Ny, fp.InitRefNum)
	}
	if err != nil {
		return
	}
	for _, side := range sortedKeys(fp.BCs) {
		if err = types.NewBCTAG(fp.BCs[side]).Validate(); err != nil {
			return fmt.Errorf("boundary %s: %w", side, err)
		}
	}
	_, err = fp.PrecondKind()
	return
}

func (fp *FlameParameters) FlameParams() (p weakform.FlameParams, err error) {
	p = weakform.FlameParams{
		Le:    fp.Le,
		Alpha: fp.Alpha,
		Beta:  fp.Beta,
		Kappa: fp.Kappa,
		X1:    fp.X1,
		Tau:   fp.Tau,
		JFNK:  fp.JFNK,
	}
	if p.Precond, err = fp.PrecondKind(); err != nil {
		return
	}
	for _, side := range sortedKeys(fp.BCs) {
		bt := types.NewBCTAG(fp.BCs[side])
		if bt.GetFLAG() != types.BC_Neuman {
			continue
		}
		if p.NeumannMarker != "" && p.NeumannMarker != string(bt) {
			err = fmt.Errorf("heat loss is applied on one marker, found %q and %q", p.NeumannMarker, bt)
			return
		}
		p.NeumannMarker = string(bt)
	}
	return
}

func (fp *FlameParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fp.Title)
	fmt.Printf("%8.5f\t\t= Le\n", fp.Le)
	fmt.Printf("%8.5f\t\t= Alpha\n", fp.Alpha)
	fmt.Printf("%8.5f\t\t= Beta\n", fp.Beta)
	fmt.Printf("%8.5f\t\t= Kappa\n", fp.Kappa)
	fmt.Printf("%8.5f\t\t= X1\n", fp.X1)
	fmt.Printf("%8.5f\t\t= Tau\n", fp.Tau)
	fmt.Printf("%8.5f\t\t= FinalTime\n", fp.FinalTime)
	fmt.Printf("[%g x %g]\t\t= Channel\n", fp.Length, fp.Width)
	fmt.Printf("[%d x %d], %d refinements\t= Grid\n", fp.Nx, fp.Ny, fp.InitRefNum)
	fmt.Printf("[%v]\t\t\t= JFNK\n", fp.JFNK)
	fmt.Printf("[%v]\t\t\t= LagReaction\n", fp.LagReaction)
	for _, key := range sortedKeys(fp.BCs) {
		fmt.Printf("BCs[%s] = %v\n", key, fp.BCs[key])
	}
	fp.SolverParameters.print()
}

func (pp *PoissonParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, pp)
}

func (pp *PoissonParameters) ParseINI(data []byte) (err error) {
	var file *ini.File
	if file, err = ini.Load(data); err != nil {
		return
	}
	sec := file.Section("poisson")
	pp.Title = sec.Key("Title").MustString(pp.Title)
	pp.Nx = sec.Key("Nx").MustInt(pp.Nx)
	pp.Ny = sec.Key("Ny").MustInt(pp.Ny)
	pp.InitRefNum = sec.Key("InitRefNum").MustInt(pp.InitRefNum)
	pp.SolverParameters.loadINI(file.Section("solver"))
	return
}

func (pp *PoissonParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", pp.Title)
	fmt.Printf("[%d x %d], %d refinements\t= Grid\n", pp.Nx, pp.Ny, pp.InitRefNum)
	pp.SolverParameters.print()
}

type parser interface {
	Parse(data []byte) error
	ParseINI(data []byte) error
}

// ReadFile fills ip from fileName, which is read as INI when it ends in .ini and YAML otherwise
func ReadFile(fileName string, ip parser) (err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	if strings.EqualFold(filepath.Ext(fileName), ".ini") {
		err = ip.ParseINI(data)
	} else {
		err = ip.Parse(data)
	}
	if err != nil {
		err = fmt.Errorf("reading %s: %w", fileName, err)
	}
	return
}

func sortedKeys(m map[string]string) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}
