package weakform

/*
NewPoissonWeakForm discretises -Δu = f with a constant right hand side. The stiffness
form is left out when the solver is Jacobian-free and does not precondition, because
nothing would read the assembled matrix.
*/
func NewPoissonWeakForm(f float64, jacobianFree, precond bool) (wf *WeakForm, err error) {
	var mfs []MatrixForm
	if !jacobianFree || precond {
		mfs = append(mfs, MatrixForm{
			Key:   volKey(0, 0),
			Name:  "PoissonJacobian",
			Value: stiffness[Real](),
			Ord:   stiffness[Ord](),
		})
	}
	vfs := []VectorForm{{
		Key:   volKey(0, -1),
		Name:  "PoissonResidual",
		Value: poissonResidual[Real](f),
		Ord:   poissonResidual[Ord](f),
	}}
	return NewWeakForm(1, jacobianFree, nil, mfs, vfs)
}

func stiffness[T Number[T]]() MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], _ Ext[T]) (result T) {
		for i := 0; i < n; i++ {
			result = result.Add(Grad(vj, vi, i).Scale(wt[i]))
		}
		return
	}
}

func poissonResidual[T Number[T]](f float64) VectorFn[T] {
	return func(n int, wt []float64, uExt []*Func[T], vi *Func[T], _ Ext[T]) (result T) {
		u := uExt[0]
		for i := 0; i < n; i++ {
			result = result.Add(Grad(u, vi, i).Sub(vi.Val[i].Scale(f)).Scale(wt[i]))
		}
		return
	}
}
