package FEM2D

import (
	"fmt"
)

// EssentialBC gives the prescribed value on a Dirichlet boundary.
type EssentialBC func(x, y float64) float64

/*
Space is a continuous bilinear (Q1) space over a Mesh. Vertices on a side whose marker has
an EssentialBC are removed from the unknowns: their VToDOF entry is -1 and their value
comes from Lift.
*/
type Space struct {
	Mesh      *Mesh
	Order     int
	VToDOF    []int
	Lift      []float64
	Essential map[string]EssentialBC
	ndof      int
}

func NewSpace(m *Mesh, essential map[string]EssentialBC) (sp *Space, err error) {
	if m == nil {
		err = fmt.Errorf("space needs a mesh")
		return
	}
	for marker := range essential {
		var found bool
		for _, mk := range m.Markers {
			found = found || mk == marker
		}
		if !found {
			err = fmt.Errorf("essential boundary condition on marker %q, which no side of the mesh carries", marker)
			return
		}
	}
	sp = &Space{
		Mesh:      m,
		Order:     Q1Order,
		VToDOF:    make([]int, m.NV()),
		Lift:      make([]float64, m.NV()),
		Essential: essential,
	}
	for v := 0; v < m.NV(); v++ {
		sp.VToDOF[v] = -1
		var bc EssentialBC
		for _, side := range m.VertexSides(v) {
			if fn, ok := essential[m.Markers[side]]; ok {
				bc = fn
				break
			}
		}
		if bc != nil {
			sp.Lift[v] = bc(m.VX[v], m.VY[v])
			continue
		}
		sp.VToDOF[v] = sp.ndof
		sp.ndof++
	}
	return
}

func (sp *Space) NDOF() int { return sp.ndof }

// ElementDOF returns the dof of each element vertex, -1 where the vertex is constrained.
func (sp *Space) ElementDOF(k int) (dofs [4]int) {
	for a, v := range sp.Mesh.EToV[k] {
		dofs[a] = sp.VToDOF[v]
	}
	return
}
