// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fem is the finite-element solver engine behind the bridge.
// It provides simplicial meshes, scalar function spaces, structured
// field values, variational forms and a direct linear solver. Solver
// operations record themselves on the adjoint working tape when one is
// installed, which is how the bridge obtains vector-Jacobian products
// without differentiating through solver internals.
package fem

import (
	"fmt"

	"github.com/gradfem-ml/gradfem/internal/parallel"
)

// Mesh is a simplicial mesh: intervals in 1D, triangles in 2D.
type Mesh struct {
	dim    int
	coords [][]float64 // vertex coordinates, [nverts][dim]
	cells  [][]int     // vertex indices per cell
}

// NewIntervalMesh creates a 1D mesh of n equal cells on [a, b].
func NewIntervalMesh(n int, a, b float64) *Mesh {
	if n < 1 {
		panic(fmt.Sprintf("interval mesh needs at least 1 cell, got %d", n))
	}
	coords := make([][]float64, n+1)
	h := (b - a) / float64(n)
	for i := range coords {
		coords[i] = []float64{a + float64(i)*h}
	}
	cells := make([][]int, n)
	for e := range cells {
		cells[e] = []int{e, e + 1}
	}
	return &Mesh{dim: 1, coords: coords, cells: cells}
}

// NewUnitIntervalMesh creates a 1D mesh of n equal cells on [0, 1].
func NewUnitIntervalMesh(n int) *Mesh {
	return NewIntervalMesh(n, 0, 1)
}

// NewUnitSquareMesh creates a triangulated mesh of the unit square
// with nx by ny quads, each split into two triangles.
func NewUnitSquareMesh(nx, ny int) *Mesh {
	if nx < 1 || ny < 1 {
		panic(fmt.Sprintf("unit square mesh needs positive resolution, got %dx%d", nx, ny))
	}
	cfg := parallel.DefaultConfig()
	vid := func(i, j int) int { return j*(nx+1) + i }

	coords := make([][]float64, (nx+1)*(ny+1))
	parallel.ForGrid(ny+1, nx+1, func(j, i int) {
		coords[vid(i, j)] = []float64{float64(i) / float64(nx), float64(j) / float64(ny)}
	}, cfg)

	cells := make([][]int, 2*nx*ny)
	parallel.ForGrid(ny, nx, func(j, i int) {
		// Split each quad along its lower-left to upper-right diagonal.
		q := 2 * (j*nx + i)
		cells[q] = []int{vid(i, j), vid(i+1, j), vid(i+1, j+1)}
		cells[q+1] = []int{vid(i, j), vid(i+1, j+1), vid(i, j+1)}
	}, cfg)
	return &Mesh{dim: 2, coords: coords, cells: cells}
}

// Dim returns the geometric dimension of the mesh.
func (m *Mesh) Dim() int { return m.dim }

// NumVertices returns the number of mesh vertices.
func (m *Mesh) NumVertices() int { return len(m.coords) }

// NumCells returns the number of mesh cells.
func (m *Mesh) NumCells() int { return len(m.cells) }

// Vertex returns the coordinates of vertex i.
func (m *Mesh) Vertex(i int) []float64 { return m.coords[i] }

// Cell returns the vertex indices of cell e.
func (m *Mesh) Cell(e int) []int { return m.cells[e] }

// CellMeasure returns the length (1D) or area (2D) of cell e.
func (m *Mesh) CellMeasure(e int) float64 {
	c := m.cells[e]
	switch m.dim {
	case 1:
		d := m.coords[c[1]][0] - m.coords[c[0]][0]
		if d < 0 {
			d = -d
		}
		return d
	case 2:
		p0, p1, p2 := m.coords[c[0]], m.coords[c[1]], m.coords[c[2]]
		a := (p1[0]-p0[0])*(p2[1]-p0[1]) - (p2[0]-p0[0])*(p1[1]-p0[1])
		if a < 0 {
			a = -a
		}
		return a / 2
	default:
		panic(fmt.Sprintf("unsupported mesh dimension %d", m.dim))
	}
}

// BoundaryVertices returns the indices of vertices lying on the mesh
// boundary. A facet (vertex in 1D, edge in 2D) is on the boundary when
// it belongs to exactly one cell.
func (m *Mesh) BoundaryVertices() []int {
	onBoundary := make(map[int]bool)

	switch m.dim {
	case 1:
		degree := make(map[int]int)
		for _, c := range m.cells {
			degree[c[0]]++
			degree[c[1]]++
		}
		for v, d := range degree {
			if d == 1 {
				onBoundary[v] = true
			}
		}
	case 2:
		type edge struct{ a, b int }
		count := make(map[edge]int)
		norm := func(a, b int) edge {
			if a > b {
				a, b = b, a
			}
			return edge{a, b}
		}
		for _, c := range m.cells {
			count[norm(c[0], c[1])]++
			count[norm(c[1], c[2])]++
			count[norm(c[2], c[0])]++
		}
		for e, n := range count {
			if n == 1 {
				onBoundary[e.a] = true
				onBoundary[e.b] = true
			}
		}
	}

	verts := make([]int, 0, len(onBoundary))
	for v := range m.coords {
		if onBoundary[v] {
			verts = append(verts, v)
		}
	}
	return verts
}
