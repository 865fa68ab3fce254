package FEM2D

import (
	"fmt"
)

type Side uint8

const (
	Bottom Side = iota
	Right
	Top
	Left
	NumSides
)

func (s Side) String() string {
	switch s {
	case Bottom:
		return "Bottom"
	case Right:
		return "Right"
	case Top:
		return "Top"
	case Left:
		return "Left"
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

type BoundaryEdge struct {
	Elem   int
	Side   Side
	Marker string
}

/*
Mesh is a structured grid of Nx x Ny bilinear quadrilaterals on [X0,X1]x[Y0,Y1].
Vertices are numbered row major from the lower left corner, element vertices run
counter-clockwise starting at the lower left. Each of the four sides of the rectangle
carries one boundary marker.
*/
type Mesh struct {
	X0, X1, Y0, Y1 float64
	Nx, Ny         int
	Markers        [NumSides]string
	VX, VY         []float64
	EToV           [][4]int
	BEdges         []BoundaryEdge
}

func NewMesh(X0, X1, Y0, Y1 float64, Nx, Ny int, markers [NumSides]string) (m *Mesh, err error) {
	if Nx < 1 || Ny < 1 {
		err = fmt.Errorf("mesh needs at least one element in each direction, have %d x %d", Nx, Ny)
		return
	}
	if !(X1 > X0) || !(Y1 > Y0) {
		err = fmt.Errorf("degenerate mesh extent [%g,%g]x[%g,%g]", X0, X1, Y0, Y1)
		return
	}
	m = &Mesh{
		X0: X0, X1: X1, Y0: Y0, Y1: Y1,
		Nx: Nx, Ny: Ny,
		Markers: markers,
		VX:      make([]float64, (Nx+1)*(Ny+1)),
		VY:      make([]float64, (Nx+1)*(Ny+1)),
		EToV:    make([][4]int, Nx*Ny),
	}
	hx, hy := m.Hx(), m.Hy()
	for j := 0; j <= Ny; j++ {
		for i := 0; i <= Nx; i++ {
			v := m.vertex(i, j)
			m.VX[v] = X0 + float64(i)*hx
			m.VY[v] = Y0 + float64(j)*hy
		}
	}
	for j := 0; j < Ny; j++ {
		for i := 0; i < Nx; i++ {
			k := i + j*Nx
			m.EToV[k] = [4]int{m.vertex(i, j), m.vertex(i+1, j), m.vertex(i+1, j+1), m.vertex(i, j+1)}
			if j == 0 {
				m.BEdges = append(m.BEdges, BoundaryEdge{Elem: k, Side: Bottom, Marker: markers[Bottom]})
			}
			if i == Nx-1 {
				m.BEdges = append(m.BEdges, BoundaryEdge{Elem: k, Side: Right, Marker: markers[Right]})
			}
			if j == Ny-1 {
				m.BEdges = append(m.BEdges, BoundaryEdge{Elem: k, Side: Top, Marker: markers[Top]})
			}
			if i == 0 {
				m.BEdges = append(m.BEdges, BoundaryEdge{Elem: k, Side: Left, Marker: markers[Left]})
			}
		}
	}
	return
}

func (m *Mesh) vertex(i, j int) int { return i + j*(m.Nx+1) }

func (m *Mesh) K() int        { return m.Nx * m.Ny }
func (m *Mesh) NV() int       { return (m.Nx + 1) * (m.Ny + 1) }
func (m *Mesh) Hx() float64   { return (m.X1 - m.X0) / float64(m.Nx) }
func (m *Mesh) Hy() float64   { return (m.Y1 - m.Y0) / float64(m.Ny) }
func (m *Mesh) Area() float64 { return (m.X1 - m.X0) * (m.Y1 - m.Y0) }

// RefineAll splits every element into four.
func (m *Mesh) RefineAll() (mr *Mesh) {
	mr, _ = NewMesh(m.X0, m.X1, m.Y0, m.Y1, 2*m.Nx, 2*m.Ny, m.Markers)
	return
}

// VertexSides reports every side of the rectangle the vertex lies on.
func (m *Mesh) VertexSides(v int) (sides []Side) {
	i, j := v%(m.Nx+1), v/(m.Nx+1)
	if j == 0 {
		sides = append(sides, Bottom)
	}
	if i == m.Nx {
		sides = append(sides, Right)
	}
	if j == m.Ny {
		sides = append(sides, Top)
	}
	if i == 0 {
		sides = append(sides, Left)
	}
	return
}

// MapToPhysical maps reference coordinates (r,s) in [-1,1]² of element k to (x,y).
func (m *Mesh) MapToPhysical(k int, r, s float64) (x, y float64) {
	v0 := m.EToV[k][0]
	x = m.VX[v0] + 0.5*(r+1)*m.Hx()
	y = m.VY[v0] + 0.5*(s+1)*m.Hy()
	return
}

// Locate returns the element containing (x,y) and the reference coordinates of the point.
func (m *Mesh) Locate(x, y float64) (k int, r, s float64) {
	var (
		hx, hy = m.Hx(), m.Hy()
		i      = int((x - m.X0) / hx)
		j      = int((y - m.Y0) / hy)
	)
	i = clampInt(i, 0, m.Nx-1)
	j = clampInt(j, 0, m.Ny-1)
	k = i + j*m.Nx
	v0 := m.EToV[k][0]
	r = 2*(x-m.VX[v0])/hx - 1
	s = 2*(y-m.VY[v0])/hy - 1
	return
}

func clampInt(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
