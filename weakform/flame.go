package weakform

import (
	"fmt"
	"strings"
)

const (
	DOmegaDT   FieldName = "dOmega/dT"
	DOmegaDC   FieldName = "dOmega/dC"
	TPrevTime1 FieldName = "T_prev_time_1"
	TPrevTime2 FieldName = "T_prev_time_2"
	CPrevTime1 FieldName = "C_prev_time_1"
	CPrevTime2 FieldName = "C_prev_time_2"
	Omega      FieldName = "Omega"
)

// FlameFieldOrder is the binding order of the flame model's external fields.
var FlameFieldOrder = []FieldName{
	DOmegaDT, DOmegaDC, TPrevTime1, TPrevTime2, CPrevTime1, CPrevTime2, Omega,
}

type PrecondKind uint8

const (
	PrecondNone     PrecondKind = iota
	PrecondJacobian             // Precondition with the full Jacobian forms
	PrecondApprox               // Precondition with the decoupled diagonal blocks
)

func (pk PrecondKind) String() string {
	switch pk {
	case PrecondNone:
		return "none"
	case PrecondJacobian:
		return "jacobian"
	case PrecondApprox:
		return "approx"
	}
	return fmt.Sprintf("PrecondKind(%d)", uint8(pk))
}

func ParsePrecondKind(label string) (pk PrecondKind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "none", "0":
		pk = PrecondNone
	case "jacobian", "full", "1":
		pk = PrecondJacobian
	case "approx", "approximate", "block", "2":
		pk = PrecondApprox
	default:
		err = fmt.Errorf("unknown preconditioner %q, use one of: none, jacobian, approx", label)
	}
	return
}

const DefaultNeumannMarker = "Neumann"

/*
FlameParams are the coefficients of the coupled temperature (T) / concentration (C) system.
X1 is not read by any form, the driver uses it to place the initial ignition front.
*/
type FlameParams struct {
	Le, Alpha, Beta, Kappa, X1, Tau float64
	JFNK                            bool
	Precond                         PrecondKind
	NeumannMarker                   string
}

/*
NewFlameWeakForm binds the seven external fields by name and registers:
  - the Jacobian forms when running Newton, or JFNK preconditioned by the Jacobian
  - otherwise the two approximate diagonal blocks when PrecondApprox is requested
  - the residual forms in every mode
*/
func NewFlameWeakForm(p FlameParams, ext map[FieldName]MeshFunction) (wf *WeakForm, err error) {
	var (
		marker = p.NeumannMarker
		mfs    []MatrixForm
		vfs    []VectorForm
	)
	if marker == "" {
		marker = DefaultNeumannMarker
	}
	for _, name := range FlameFieldOrder {
		if mf, ok := ext[name]; !ok || mf == nil {
			err = fmt.Errorf("flame weak form: external field %q is not bound", name)
			return
		}
	}
	if !p.JFNK || p.Precond == PrecondJacobian {
		mfs = append(mfs,
			JacobianFormVol00(p.Tau),
			JacobianFormSurf00(marker, p.Kappa),
			JacobianFormVol01(),
			JacobianFormVol10(),
			JacobianFormVol11(p.Tau, p.Le),
		)
	} else if p.Precond == PrecondApprox {
		mfs = append(mfs,
			PreconditionerForm0(p.Tau),
			PreconditionerForm1(p.Tau, p.Le),
		)
	}
	vfs = append(vfs,
		ResidualFormVol0(p.Tau),
		ResidualFormSurf0(marker, p.Kappa),
		ResidualFormVol1(p.Tau, p.Le),
	)
	if wf, err = NewWeakForm(2, p.JFNK, ext, mfs, vfs); err != nil {
		err = fmt.Errorf("flame weak form: %w", err)
	}
	return
}
