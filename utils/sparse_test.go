package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparse(t *testing.T) {
	D := NewDOK(3, 4)
	D.AddAt(0, 0, 1)
	D.AddAt(0, 0, 2) // Summed
	D.AddAt(1, 3, -1)
	D.AddAt(2, 1, 5)
	assert.Equal(t, 3., D.At(0, 0))
	assert.Equal(t, 3, D.NNZ())
	A := D.ToCSR()
	nr, nc := A.Dims()
	assert.Equal(t, 3, nr)
	assert.Equal(t, 4, nc)
	assert.Equal(t, 5., A.At(2, 1))
	assert.Equal(t, 5., A.T().At(1, 2))
	assert.Equal(t, []float64{3, -4, 10}, A.MulVec([]float64{1, 2, 3, 4}))
	assert.Panics(t, func() { A.MulVec([]float64{1, 2}) })
	Ad := A.ToDense()
	assert.Equal(t, []float64{3, 0, 0, 0, 0, 0, 0, -1, 0, 5, 0, 0}, Ad.RawMatrix().Data)
	{
		ro := NewDOK(2, 2).SetReadOnly("ro")
		assert.Panics(t, func() { ro.AddAt(0, 0, 1) })
	}
}
