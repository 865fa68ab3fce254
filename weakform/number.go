package weakform

import "fmt"

// Number is the arithmetic every form body is written against. Each body is
// instantiated twice:
//   - Real runs the integrand on actual shape function data.
//   - Ord runs the same expression on polynomial orders, which the assembler uses
//     to pick a quadrature rule before the Real pass.
//
// The zero value of a Number is its additive identity.
type Number[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Scale(float64) T
}

type Real float64

func (a Real) Add(b Real) Real      { return a + b }
func (a Real) Sub(b Real) Real      { return a - b }
func (a Real) Mul(b Real) Real      { return a * b }
func (a Real) Scale(s float64) Real { return a * Real(s) }

func RealsToFloats(r []Real) (f []float64) {
	f = make([]float64, len(r))
	for i, val := range r {
		f[i] = float64(val)
	}
	return
}

// Ord is the polynomial degree of an integrand term.
type Ord struct {
	Order int
}

func (a Ord) Add(b Ord) Ord {
	if b.Order > a.Order {
		return b
	}
	return a
}

func (a Ord) Sub(b Ord) Ord     { return a.Add(b) }
func (a Ord) Mul(b Ord) Ord     { return Ord{Order: a.Order + b.Order} }
func (a Ord) Scale(float64) Ord { return a }
func (a Ord) String() string    { return fmt.Sprintf("Ord(%d)", a.Order) }
