package types

import (
	"fmt"
	"strings"
)

type BCFLAG uint8

const (
	BC_None      BCFLAG = iota
	BC_Dirichlet        // Essential, value prescribed
	BC_Neuman           // Robin heat loss, κ·u on the boundary
	BC_Out              // Natural, no boundary term
)

func (bc BCFLAG) String() string {
	switch bc {
	case BC_None:
		return "None"
	case BC_Dirichlet:
		return "Dirichlet"
	case BC_Neuman:
		return "Neumann"
	case BC_Out:
		return "Outflow"
	}
	return fmt.Sprintf("BCFLAG(%d)", uint8(bc))
}

var BCNameMap = map[string]BCFLAG{
	"none":      BC_None,
	"dirichlet": BC_Dirichlet,
	"bdy":       BC_Dirichlet,
	"neuman":    BC_Neuman,
	"neumann":   BC_Neuman,
	"robin":     BC_Neuman,
	"out":       BC_Out,
	"outflow":   BC_Out,
}

/*
BCTAG is a boundary marker as it appears in an input file, a BC name with an optional
label separated by a dash, e.g. "Neumann-top" or "Dirichlet-1".
*/
type BCTAG string

func NewBCTAG(token string) BCTAG {
	return BCTAG(strings.TrimSpace(token))
}

func (bt BCTAG) split() (name, label string) {
	name = string(bt)
	if ind := strings.Index(name, "-"); ind != -1 {
		name, label = name[:ind], name[ind+1:]
	}
	return
}

func (bt BCTAG) GetFLAG() (flag BCFLAG) {
	name, _ := bt.split()
	var ok bool
	if flag, ok = BCNameMap[strings.ToLower(name)]; !ok {
		flag = BC_None
	}
	return
}

func (bt BCTAG) GetLabel() (label string) {
	_, label = bt.split()
	return
}

func (bt BCTAG) Validate() (err error) {
	name, _ := bt.split()
	if _, ok := BCNameMap[strings.ToLower(name)]; !ok {
		err = fmt.Errorf("unknown boundary condition %q in marker %q", name, string(bt))
	}
	return
}
