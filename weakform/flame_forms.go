package weakform

// Jacobian blocks of the coupled flame system. Row/column 0 is T, 1 is C.

func JacobianFormVol00(tau float64) MatrixForm {
	return MatrixForm{
		Key:   volKey(0, 0),
		Name:  "JacobianFormVol_0_0",
		Needs: []FieldName{DOmegaDT},
		Value: jacobianVol00[Real](tau),
		Ord:   jacobianVol00[Ord](tau),
	}
}

func jacobianVol00[T Number[T]](tau float64) MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], ext Ext[T]) (result T) {
		dOmegaDT := ext[DOmegaDT]
		for i := 0; i < n; i++ {
			mass := vj.Val[i].Mul(vi.Val[i])
			result = result.Add(
				mass.Scale(1.5 / tau).
					Add(Grad(vj, vi, i)).
					Sub(dOmegaDT.Val[i].Mul(mass)).
					Scale(wt[i]))
		}
		return
	}
}

func JacobianFormSurf00(marker string, kappa float64) MatrixForm {
	return MatrixForm{
		Key:   surfKey(0, 0, marker),
		Name:  "JacobianFormSurf_0_0",
		Value: jacobianSurf00[Real](kappa),
		Ord:   jacobianSurf00[Ord](kappa),
	}
}

func jacobianSurf00[T Number[T]](kappa float64) MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], _ Ext[T]) (result T) {
		for i := 0; i < n; i++ {
			result = result.Add(vj.Val[i].Mul(vi.Val[i]).Scale(kappa).Scale(wt[i]))
		}
		return
	}
}

func JacobianFormVol01() MatrixForm {
	return MatrixForm{
		Key:   volKey(0, 1),
		Name:  "JacobianFormVol_0_1",
		Needs: []FieldName{DOmegaDC},
		Value: jacobianVol01[Real](),
		Ord:   jacobianVol01[Ord](),
	}
}

func jacobianVol01[T Number[T]]() MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], ext Ext[T]) (result T) {
		dOmegaDC := ext[DOmegaDC]
		for i := 0; i < n; i++ {
			result = result.Sub(dOmegaDC.Val[i].Mul(vj.Val[i]).Mul(vi.Val[i]).Scale(wt[i]))
		}
		return
	}
}

func JacobianFormVol10() MatrixForm {
	return MatrixForm{
		Key:   volKey(1, 0),
		Name:  "JacobianFormVol_1_0",
		Needs: []FieldName{DOmegaDT},
		Value: jacobianVol10[Real](),
		Ord:   jacobianVol10[Ord](),
	}
}

func jacobianVol10[T Number[T]]() MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], ext Ext[T]) (result T) {
		dOmegaDT := ext[DOmegaDT]
		for i := 0; i < n; i++ {
			result = result.Add(dOmegaDT.Val[i].Mul(vj.Val[i]).Mul(vi.Val[i]).Scale(wt[i]))
		}
		return
	}
}

func JacobianFormVol11(tau, Le float64) MatrixForm {
	return MatrixForm{
		Key:   volKey(1, 1),
		Name:  "JacobianFormVol_1_1",
		Needs: []FieldName{DOmegaDC},
		Value: jacobianVol11[Real](tau, Le),
		Ord:   jacobianVol11[Ord](tau, Le),
	}
}

func jacobianVol11[T Number[T]](tau, Le float64) MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], ext Ext[T]) (result T) {
		dOmegaDC := ext[DOmegaDC]
		for i := 0; i < n; i++ {
			mass := vj.Val[i].Mul(vi.Val[i])
			result = result.Add(
				mass.Scale(1.5 / tau).
					Add(Grad(vj, vi, i).Scale(1 / Le)).
					Add(dOmegaDC.Val[i].Mul(mass)).
					Scale(wt[i]))
		}
		return
	}
}

// Approximate diagonal blocks, the reaction coupling is dropped.

func PreconditionerForm0(tau float64) MatrixForm {
	return MatrixForm{
		Key:   volKey(0, 0),
		Name:  "PreconditionerForm_0",
		Value: preconditioner[Real](tau, 1),
		Ord:   preconditioner[Ord](tau, 1),
	}
}

func PreconditionerForm1(tau, Le float64) MatrixForm {
	return MatrixForm{
		Key:   volKey(1, 1),
		Name:  "PreconditionerForm_1",
		Value: preconditioner[Real](tau, Le),
		Ord:   preconditioner[Ord](tau, Le),
	}
}

func preconditioner[T Number[T]](tau, Le float64) MatrixFn[T] {
	return func(n int, wt []float64, _ []*Func[T], vj, vi *Func[T], _ Ext[T]) (result T) {
		for i := 0; i < n; i++ {
			result = result.Add(
				vj.Val[i].Mul(vi.Val[i]).Scale(1.5 / tau).
					Add(Grad(vj, vi, i).Scale(1 / Le)).
					Scale(wt[i]))
		}
		return
	}
}

// Residual forms, uExt[0] is the current T iterate and uExt[1] the current C iterate.

func ResidualFormVol0(tau float64) VectorForm {
	return VectorForm{
		Key:   volKey(0, -1),
		Name:  "ResidualFormVol_0",
		Needs: []FieldName{TPrevTime1, TPrevTime2, Omega},
		Value: residualVol0[Real](tau),
		Ord:   residualVol0[Ord](tau),
	}
}

func residualVol0[T Number[T]](tau float64) VectorFn[T] {
	return func(n int, wt []float64, uExt []*Func[T], vi *Func[T], ext Ext[T]) (result T) {
		var (
			tIter      = uExt[0]
			tPrevTime1 = ext[TPrevTime1]
			tPrevTime2 = ext[TPrevTime2]
			omega      = ext[Omega]
		)
		for i := 0; i < n; i++ {
			bdf2 := tIter.Val[i].Scale(3).Sub(tPrevTime1.Val[i].Scale(4)).Add(tPrevTime2.Val[i])
			result = result.Add(
				bdf2.Mul(vi.Val[i]).Scale(1 / (2 * tau)).
					Add(Grad(tIter, vi, i)).
					Sub(omega.Val[i].Mul(vi.Val[i])).
					Scale(wt[i]))
		}
		return
	}
}

func ResidualFormSurf0(marker string, kappa float64) VectorForm {
	return VectorForm{
		Key:   surfKey(0, -1, marker),
		Name:  "ResidualFormSurf_0",
		Value: residualSurf0[Real](kappa),
		Ord:   residualSurf0[Ord](kappa),
	}
}

func residualSurf0[T Number[T]](kappa float64) VectorFn[T] {
	return func(n int, wt []float64, uExt []*Func[T], vi *Func[T], _ Ext[T]) (result T) {
		tIter := uExt[0]
		for i := 0; i < n; i++ {
			result = result.Add(tIter.Val[i].Mul(vi.Val[i]).Scale(kappa).Scale(wt[i]))
		}
		return
	}
}

func ResidualFormVol1(tau, Le float64) VectorForm {
	return VectorForm{
		Key:   volKey(1, -1),
		Name:  "ResidualFormVol_1",
		Needs: []FieldName{CPrevTime1, CPrevTime2, Omega},
		Value: residualVol1[Real](tau, Le),
		Ord:   residualVol1[Ord](tau, Le),
	}
}

func residualVol1[T Number[T]](tau, Le float64) VectorFn[T] {
	return func(n int, wt []float64, uExt []*Func[T], vi *Func[T], ext Ext[T]) (result T) {
		var (
			cIter      = uExt[1]
			cPrevTime1 = ext[CPrevTime1]
			cPrevTime2 = ext[CPrevTime2]
			omega      = ext[Omega]
		)
		for i := 0; i < n; i++ {
			bdf2 := cIter.Val[i].Scale(3).Sub(cPrevTime1.Val[i].Scale(4)).Add(cPrevTime2.Val[i])
			result = result.Add(
				bdf2.Mul(vi.Val[i]).Scale(1 / (2 * tau)).
					Add(Grad(cIter, vi, i).Scale(1 / Le)).
					Add(omega.Val[i].Mul(vi.Val[i])).
					Scale(wt[i]))
		}
		return
	}
}
