// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalMesh(t *testing.T) {
	mesh := NewIntervalMesh(4, 0, 1)

	assert.Equal(t, 1, mesh.Dim())
	assert.Equal(t, 5, mesh.NumVertices())
	assert.Equal(t, 4, mesh.NumCells())
	for e := 0; e < mesh.NumCells(); e++ {
		assert.InDelta(t, 0.25, mesh.CellMeasure(e), 1e-15)
	}
	assert.Equal(t, []int{0, 4}, mesh.BoundaryVertices())
}

func TestUnitSquareMesh(t *testing.T) {
	mesh := NewUnitSquareMesh(2, 2)

	assert.Equal(t, 2, mesh.Dim())
	assert.Equal(t, 9, mesh.NumVertices())
	assert.Equal(t, 8, mesh.NumCells())

	area := 0.0
	for e := 0; e < mesh.NumCells(); e++ {
		area += mesh.CellMeasure(e)
	}
	assert.InDelta(t, 1.0, area, 1e-14)

	// Every vertex except the center is on the boundary.
	boundary := mesh.BoundaryVertices()
	assert.Len(t, boundary, 8)
	assert.NotContains(t, boundary, 4)
}

func TestDG0Space(t *testing.T) {
	mesh := NewIntervalMesh(4, 0, 1)
	V, err := NewFunctionSpace(mesh, DG0)
	require.NoError(t, err)

	assert.Equal(t, 4, V.Dim())
	assert.Empty(t, V.BoundaryDofs())

	M := V.MassMatrix()
	for i := 0; i < V.Dim(); i++ {
		assert.InDelta(t, 0.25, M.At(i, i), 1e-15)
	}
	for _, w := range V.LoadVector() {
		assert.InDelta(t, 0.25, w, 1e-15)
	}

	_, err = V.StiffnessMatrix()
	require.Error(t, err)
}

func TestP1IntervalSpace(t *testing.T) {
	mesh := NewUnitIntervalMesh(10)
	V, err := NewFunctionSpace(mesh, P1)
	require.NoError(t, err)

	assert.Equal(t, 11, V.Dim())
	assert.Equal(t, []int{0, 10}, V.BoundaryDofs())

	// Load weights sum to the domain measure.
	total := 0.0
	for _, w := range V.LoadVector() {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-14)

	// Mass row sums equal the load weights: Σ_j ∫φ_i φ_j = ∫φ_i.
	M := V.MassMatrix()
	for i := 0; i < V.Dim(); i++ {
		row := 0.0
		for j := 0; j < V.Dim(); j++ {
			row += M.At(i, j)
		}
		assert.InDelta(t, V.LoadVector()[i], row, 1e-14)
	}
}

func TestP1SquareStiffness(t *testing.T) {
	mesh := NewUnitSquareMesh(3, 3)
	V, err := NewFunctionSpace(mesh, P1)
	require.NoError(t, err)

	K, err := V.StiffnessMatrix()
	require.NoError(t, err)

	// Constants lie in the kernel of the stiffness form: row sums are
	// zero, and the matrix is symmetric.
	for i := 0; i < V.Dim(); i++ {
		row := 0.0
		for j := 0; j < V.Dim(); j++ {
			row += K.At(i, j)
			assert.InDelta(t, K.At(j, i), K.At(i, j), 1e-14)
		}
		assert.InDelta(t, 0.0, row, 1e-12)
	}
}
