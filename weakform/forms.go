package weakform

import (
	"fmt"
	"sort"
)

type DomainKind uint8

const (
	Volume DomainKind = iota
	Surface
)

func (d DomainKind) String() string {
	switch d {
	case Volume:
		return "Volume"
	case Surface:
		return "Surface"
	}
	return fmt.Sprintf("DomainKind(%d)", uint8(d))
}

// AnyMarker matches every element of a volume form.
const AnyMarker = ""

/*
FormKey identifies a form by equation row I, column J (-1 for vector forms), the kind of
domain it integrates over and, for surface forms, the boundary marker it applies to.
*/
type FormKey struct {
	I, J   int
	Domain DomainKind
	Marker string
}

func (k FormKey) String() string {
	if k.Domain == Surface {
		return fmt.Sprintf("%s(%d,%d)[%s]", k.Domain, k.I, k.J, k.Marker)
	}
	return fmt.Sprintf("%s(%d,%d)", k.Domain, k.I, k.J)
}

// MatrixFn integrates one Jacobian entry: trial function vj against test function vi.
type MatrixFn[T Number[T]] func(n int, wt []float64, uExt []*Func[T], vj, vi *Func[T], ext Ext[T]) T

// VectorFn integrates one residual entry against test function vi.
type VectorFn[T Number[T]] func(n int, wt []float64, uExt []*Func[T], vi *Func[T], ext Ext[T]) T

type MatrixForm struct {
	Key   FormKey
	Name  string
	Needs []FieldName // External fields read by the form
	Value MatrixFn[Real]
	Ord   MatrixFn[Ord]
}

type VectorForm struct {
	Key   FormKey
	Name  string
	Needs []FieldName
	Value VectorFn[Real]
	Ord   VectorFn[Ord]
}

/*
WeakForm is the set of forms an assembler integrates for one problem, together with the
external fields they read. It does not change after construction; a different solver
configuration needs a new WeakForm.
*/
type WeakForm struct {
	NEq          int
	JacobianFree bool
	MatrixForms  []MatrixForm
	VectorForms  []VectorForm
	ext          map[FieldName]MeshFunction
}

func NewWeakForm(NEq int, jacobianFree bool, ext map[FieldName]MeshFunction,
	matrixForms []MatrixForm, vectorForms []VectorForm) (wf *WeakForm, err error) {
	if NEq < 1 {
		err = fmt.Errorf("weak form needs at least one equation, have %d", NEq)
		return
	}
	wf = &WeakForm{
		NEq:          NEq,
		JacobianFree: jacobianFree,
		MatrixForms:  append([]MatrixForm(nil), matrixForms...),
		VectorForms:  append([]VectorForm(nil), vectorForms...),
		ext:          make(map[FieldName]MeshFunction, len(ext)),
	}
	for name, mf := range ext {
		if mf == nil {
			err = fmt.Errorf("external field %q is bound to nil", name)
			return nil, err
		}
		wf.ext[name] = mf
	}
	seen := make(map[FormKey]bool)
	check := func(key FormKey, name string, needs []FieldName) error {
		if key.I < 0 || key.I >= NEq || key.J >= NEq {
			return fmt.Errorf("form %s has key %s outside of %d equations", name, key, NEq)
		}
		if key.Domain == Surface && key.Marker == AnyMarker {
			return fmt.Errorf("surface form %s has no boundary marker", name)
		}
		if seen[key] {
			return fmt.Errorf("form %s duplicates key %s", name, key)
		}
		seen[key] = true
		for _, fn := range needs {
			if _, ok := wf.ext[fn]; !ok {
				return fmt.Errorf("form %s needs external field %q, which is not bound", name, fn)
			}
		}
		return nil
	}
	for _, mf := range wf.MatrixForms {
		if mf.Key.J < 0 {
			return nil, fmt.Errorf("matrix form %s has no column", mf.Name)
		}
		if err = check(mf.Key, mf.Name, mf.Needs); err != nil {
			return nil, err
		}
	}
	for _, vf := range wf.VectorForms {
		if vf.Key.J != -1 {
			return nil, fmt.Errorf("vector form %s must have column -1", vf.Name)
		}
		if err = check(vf.Key, vf.Name, vf.Needs); err != nil {
			return nil, err
		}
	}
	return
}

func (wf *WeakForm) Ext(name FieldName) (mf MeshFunction, ok bool) {
	mf, ok = wf.ext[name]
	return
}

func (wf *WeakForm) ExtNames() (names []FieldName) {
	for name := range wf.ext {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return
}

func (wf *WeakForm) HasMatrixForms() bool { return len(wf.MatrixForms) != 0 }

func (wf *WeakForm) MatrixForm(key FormKey) (mf MatrixForm, ok bool) {
	for _, mf = range wf.MatrixForms {
		if mf.Key == key {
			return mf, true
		}
	}
	return MatrixForm{}, false
}

func (wf *WeakForm) VectorForm(key FormKey) (vf VectorForm, ok bool) {
	for _, vf = range wf.VectorForms {
		if vf.Key == key {
			return vf, true
		}
	}
	return VectorForm{}, false
}

func volKey(i, j int) FormKey { return FormKey{I: i, J: j, Domain: Volume, Marker: AnyMarker} }

func surfKey(i, j int, marker string) FormKey {
	return FormKey{I: i, J: j, Domain: Surface, Marker: marker}
}
