package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK accumulates matrix entries during assembly, convert with ToCSR when done.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

// AddAt sums val into entry (i,j).
func (m DOK) AddAt(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: true,
		name:     m.name,
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

// MulVec returns m*x.
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch: matrix has %d columns, vector has length %d", nc, len(x)))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for ii := raw.Indptr[i]; ii < raw.Indptr[i+1]; ii++ {
			sum += raw.Data[ii] * x[raw.Ind[ii]]
		}
		y[i] = sum
	}
	return
}

func (m CSR) ToDense() (D *mat.Dense) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	D = mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		for ii := raw.Indptr[i]; ii < raw.Indptr[i+1]; ii++ {
			D.Set(i, raw.Ind[ii], D.At(i, raw.Ind[ii])+raw.Data[ii])
		}
	}
	return
}
