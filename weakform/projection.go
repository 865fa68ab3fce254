package weakform

import "fmt"

type Norm uint8

const (
	L2Norm Norm = iota
	H1Norm
)

func (n Norm) String() string {
	switch n {
	case L2Norm:
		return "L2"
	case H1Norm:
		return "H1"
	}
	return fmt.Sprintf("Norm(%d)", uint8(n))
}

const ProjectionSource FieldName = "projection_source"

// NewProjectionWeakForm is the Galerkin projection of src in the L2 or H1 inner product.
func NewProjectionWeakForm(src MeshFunction, norm Norm) (wf *WeakForm, err error) {
	var (
		withGrad = norm == H1Norm
		ext      = map[FieldName]MeshFunction{ProjectionSource: src}
	)
	mfs := []MatrixForm{{
		Key:   volKey(0, 0),
		Name:  "ProjectionMatrix",
		Value: projectionMatrix[Real](withGrad),
		Ord:   projectionMatrix[Ord](withGrad),
	}}
	vfs := []VectorForm{{
		Key:   volKey(0, -1),
		Name:  "ProjectionResidual",
		Needs: []FieldName{ProjectionSource},
		Value: projectionResidual[Real](withGrad),
		Ord:   projectionResidual[Ord](withGrad),
	}}
	return NewWeakForm(1, false, ext, mfs, vfs)
}

func projectionMatrix[T Number[T]](withGrad bool) MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], _ Ext[T]) (result T) {
		for i := 0; i < n; i++ {
			term := vj.Val[i].Mul(vi.Val[i])
			if withGrad {
				term = term.Add(Grad(vj, vi, i))
			}
			result = result.Add(term.Scale(wt[i]))
		}
		return
	}
}

func projectionResidual[T Number[T]](withGrad bool) VectorFn[T] {
	return func(n int, wt []float64, uExt []*Func[T], vi *Func[T], ext Ext[T]) (result T) {
		var (
			u   = uExt[0]
			src = ext[ProjectionSource]
		)
		for i := 0; i < n; i++ {
			term := u.Val[i].Sub(src.Val[i]).Mul(vi.Val[i])
			if withGrad {
				term = term.Add(u.Dx[i].Sub(src.Dx[i]).Mul(vi.Dx[i])).
					Add(u.Dy[i].Sub(src.Dy[i]).Mul(vi.Dy[i]))
			}
			result = result.Add(term.Scale(wt[i]))
		}
		return
	}
}
