package weakform

// Func holds one function sampled at the N points of a quadrature batch.
type Func[T Number[T]] struct {
	N           int
	Val, Dx, Dy []T
}

func NewFunc[T Number[T]](n int) (f *Func[T]) {
	f = &Func[T]{
		N:   n,
		Val: make([]T, n),
		Dx:  make([]T, n),
		Dy:  make([]T, n),
	}
	return
}

// NewOrdFunc is the single point stand-in used during quadrature order estimation.
func NewOrdFunc(order int) (f *Func[Ord]) {
	f = NewFunc[Ord](1)
	f.Val[0], f.Dx[0], f.Dy[0] = Ord{order}, Ord{order}, Ord{order}
	return
}

func (f *Func[T]) Zero() {
	var zero T
	for i := 0; i < f.N; i++ {
		f.Val[i], f.Dx[i], f.Dy[i] = zero, zero, zero
	}
}

// Grad returns ∇u·∇v at point i.
func Grad[T Number[T]](u, v *Func[T], i int) T {
	return u.Dx[i].Mul(v.Dx[i]).Add(u.Dy[i].Mul(v.Dy[i]))
}

type FieldName string

// Ext maps external field names to their samples at the current batch.
type Ext[T Number[T]] map[FieldName]*Func[T]

/*
Points locates a quadrature batch: the element it lives in, the reference coordinates
(r,s) in [-1,1]² and the physical coordinates (x,y) of each point.
*/
type Points struct {
	Elem int
	N    int
	R, S []float64
	X, Y []float64
}

func NewPoints(n int) (p *Points) {
	p = &Points{
		N: n,
		R: make([]float64, n),
		S: make([]float64, n),
		X: make([]float64, n),
		Y: make([]float64, n),
	}
	return
}

// MeshFunction is anything the assembler can sample at quadrature points.
type MeshFunction interface {
	// Sample fills out with values and physical x/y derivatives at pts.
	Sample(pts *Points, out *Func[Real])
	// Order is the polynomial order reported to quadrature estimation.
	Order() int
}
