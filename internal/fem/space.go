// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Family identifies the finite-element family of a function space.
type Family int

// Supported element families.
const (
	// DG0 is piecewise-constant discontinuous Galerkin: one degree of
	// freedom per cell.
	DG0 Family = iota
	// P1 is continuous piecewise-linear Lagrange: one degree of
	// freedom per vertex.
	P1
)

// String returns the conventional name of the family.
func (f Family) String() string {
	switch f {
	case DG0:
		return "DG0"
	case P1:
		return "P1"
	default:
		return "unknown"
	}
}

// FunctionSpace is a scalar finite-element space over a mesh. The
// space is built once and shared read-only across solves; the mass
// matrix, load weights and boundary dof set are precomputed at
// construction and the stiffness matrix is assembled on first use.
type FunctionSpace struct {
	mesh   *Mesh
	family Family
	dim    int

	mass      *mat.Dense
	load      []float64 // ∫ φ_i dx
	boundary  []int     // boundary dof indices (empty for DG0)
	stiffness *mat.Dense
}

// NewFunctionSpace creates a function space of the given family over
// the mesh.
func NewFunctionSpace(m *Mesh, family Family) (*FunctionSpace, error) {
	V := &FunctionSpace{mesh: m, family: family}

	switch family {
	case DG0:
		V.dim = m.NumCells()
		V.assembleDG0()
	case P1:
		V.dim = m.NumVertices()
		V.assembleP1()
		V.boundary = m.BoundaryVertices()
	default:
		return nil, fmt.Errorf("unsupported element family %v", family)
	}
	return V, nil
}

// Mesh returns the underlying mesh.
func (V *FunctionSpace) Mesh() *Mesh { return V.mesh }

// Family returns the element family.
func (V *FunctionSpace) Family() Family { return V.family }

// Dim returns the number of degrees of freedom.
func (V *FunctionSpace) Dim() int { return V.dim }

// BoundaryDofs returns the dof indices on the mesh boundary. DG0
// spaces have no boundary dofs.
func (V *FunctionSpace) BoundaryDofs() []int { return V.boundary }

// MassMatrix returns the consistent mass matrix ∫ φ_i φ_j dx.
// The returned matrix is shared; callers must not modify it.
func (V *FunctionSpace) MassMatrix() *mat.Dense { return V.mass }

// LoadVector returns the weights w_i = ∫ φ_i dx used to assemble
// constant sources. The returned slice is shared; callers must not
// modify it.
func (V *FunctionSpace) LoadVector() []float64 { return V.load }

// StiffnessMatrix returns the stiffness matrix ∫ ∇φ_i·∇φ_j dx,
// assembling it on first use. DG0 has no conforming gradient, so the
// stiffness form is not defined for it.
func (V *FunctionSpace) StiffnessMatrix() (*mat.Dense, error) {
	if V.family == DG0 {
		return nil, fmt.Errorf("stiffness form is not defined for %v", V.family)
	}
	if V.stiffness == nil {
		V.stiffness = V.assembleStiffnessP1()
	}
	return V.stiffness, nil
}

func (V *FunctionSpace) assembleDG0() {
	V.mass = mat.NewDense(V.dim, V.dim, nil)
	V.load = make([]float64, V.dim)
	for e := 0; e < V.mesh.NumCells(); e++ {
		h := V.mesh.CellMeasure(e)
		V.mass.Set(e, e, h)
		V.load[e] = h
	}
}

func (V *FunctionSpace) assembleP1() {
	V.mass = mat.NewDense(V.dim, V.dim, nil)
	V.load = make([]float64, V.dim)

	for e := 0; e < V.mesh.NumCells(); e++ {
		c := V.mesh.Cell(e)
		h := V.mesh.CellMeasure(e)

		switch V.mesh.Dim() {
		case 1:
			// Element mass matrix h/6 * [2 1; 1 2].
			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					v := h / 6
					if a == b {
						v *= 2
					}
					V.mass.Set(c[a], c[b], V.mass.At(c[a], c[b])+v)
				}
				V.load[c[a]] += h / 2
			}
		case 2:
			// Element mass matrix A/12 * [2 1 1; 1 2 1; 1 1 2].
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					v := h / 12
					if a == b {
						v *= 2
					}
					V.mass.Set(c[a], c[b], V.mass.At(c[a], c[b])+v)
				}
				V.load[c[a]] += h / 3
			}
		}
	}
}

func (V *FunctionSpace) assembleStiffnessP1() *mat.Dense {
	K := mat.NewDense(V.dim, V.dim, nil)

	for e := 0; e < V.mesh.NumCells(); e++ {
		c := V.mesh.Cell(e)
		h := V.mesh.CellMeasure(e)

		switch V.mesh.Dim() {
		case 1:
			// Element stiffness 1/h * [1 -1; -1 1].
			K.Set(c[0], c[0], K.At(c[0], c[0])+1/h)
			K.Set(c[1], c[1], K.At(c[1], c[1])+1/h)
			K.Set(c[0], c[1], K.At(c[0], c[1])-1/h)
			K.Set(c[1], c[0], K.At(c[1], c[0])-1/h)
		case 2:
			// Linear triangle: K_ab = (b_a b_b + c_a c_b) / (4A) with
			// b_a = y_b - y_c, c_a = x_c - x_b taken cyclically.
			p := [3][]float64{V.mesh.Vertex(c[0]), V.mesh.Vertex(c[1]), V.mesh.Vertex(c[2])}
			var bb, cc [3]float64
			for a := 0; a < 3; a++ {
				i, j := (a+1)%3, (a+2)%3
				bb[a] = p[i][1] - p[j][1]
				cc[a] = p[j][0] - p[i][0]
			}
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					K.Set(c[a], c[b], K.At(c[a], c[b])+(bb[a]*bb[b]+cc[a]*cc[b])/(4*h))
				}
			}
		}
	}
	return K
}
