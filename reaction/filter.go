package reaction

import (
	"github.com/notargets/flamefront/weakform"
)

// Filter is a mesh function derived pointwise from other mesh functions.
type Filter struct {
	Name    weakform.FieldName
	sources []weakform.MeshFunction
	fn      FilterFn
}

func NewFilter(name weakform.FieldName, fn FilterFn, sources ...weakform.MeshFunction) *Filter {
	return &Filter{
		Name:    name,
		sources: sources,
		fn:      fn,
	}
}

func NewOmega(p Params, T, C weakform.MeshFunction) *Filter {
	return NewFilter(weakform.Omega, p.Omega, T, C)
}

func NewOmegaDT(p Params, T, C weakform.MeshFunction) *Filter {
	return NewFilter(weakform.DOmegaDT, p.DOmegaDT, T, C)
}

func NewOmegaDC(p Params, T, C weakform.MeshFunction) *Filter {
	return NewFilter(weakform.DOmegaDC, p.DOmegaDC, T, C)
}

// NewFilterSet returns the three reaction fields keyed by the names the flame forms read.
func NewFilterSet(p Params, T, C weakform.MeshFunction) map[weakform.FieldName]weakform.MeshFunction {
	return map[weakform.FieldName]weakform.MeshFunction{
		weakform.Omega:    NewOmega(p, T, C),
		weakform.DOmegaDT: NewOmegaDT(p, T, C),
		weakform.DOmegaDC: NewOmegaDC(p, T, C),
	}
}

// Sample allocates its scratch space per call so filters can be shared across goroutines.
func (f *Filter) Sample(pts *weakform.Points, out *weakform.Func[weakform.Real]) {
	var (
		n      = pts.N
		ns     = len(f.sources)
		values = make([][]float64, ns)
		dx     = make([][]float64, ns)
		dy     = make([][]float64, ns)
		o      = make([]float64, 3*n)
	)
	for k, src := range f.sources {
		sf := weakform.NewFunc[weakform.Real](n)
		src.Sample(pts, sf)
		values[k] = weakform.RealsToFloats(sf.Val)
		dx[k] = weakform.RealsToFloats(sf.Dx)
		dy[k] = weakform.RealsToFloats(sf.Dy)
	}
	f.fn(n, values, dx, dy, o[:n], o[n:2*n], o[2*n:])
	for i := 0; i < n; i++ {
		out.Val[i] = weakform.Real(o[i])
		out.Dx[i] = weakform.Real(o[n+i])
		out.Dy[i] = weakform.Real(o[2*n+i])
	}
}

func (f *Filter) Order() (order int) {
	for _, src := range f.sources {
		if o := src.Order(); o > order {
			order = o
		}
	}
	return
}
