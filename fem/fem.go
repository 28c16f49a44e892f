// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fem provides the public API of the finite-element solver
// engine: meshes, function spaces, structured field values,
// variational forms and the linear solve that problems call from
// their forward pass.
package fem

import (
	"github.com/gradfem-ml/gradfem/internal/fem"
)

// Mesh is a simplicial mesh: intervals in 1D, triangles in 2D.
type Mesh = fem.Mesh

// NewIntervalMesh creates a 1D mesh of n equal cells on [a, b].
func NewIntervalMesh(n int, a, b float64) *Mesh {
	return fem.NewIntervalMesh(n, a, b)
}

// NewUnitIntervalMesh creates a 1D mesh of n equal cells on [0, 1].
func NewUnitIntervalMesh(n int) *Mesh {
	return fem.NewUnitIntervalMesh(n)
}

// NewUnitSquareMesh creates a triangulated mesh of the unit square.
func NewUnitSquareMesh(nx, ny int) *Mesh {
	return fem.NewUnitSquareMesh(nx, ny)
}

// Family identifies the finite-element family of a function space.
type Family = fem.Family

// Supported element families.
const (
	DG0 Family = fem.DG0
	P1  Family = fem.P1
)

// FunctionSpace is a scalar finite-element space over a mesh.
type FunctionSpace = fem.FunctionSpace

// NewFunctionSpace creates a function space of the given family over
// the mesh.
func NewFunctionSpace(m *Mesh, family Family) (*FunctionSpace, error) {
	return fem.NewFunctionSpace(m, family)
}

// Value is a structured field: a Function or a Constant.
type Value = fem.Value

// Function is a field in a function space.
type Function = fem.Function

// NewFunction creates a zero function in V.
func NewFunction(V *FunctionSpace) *Function {
	return fem.NewFunction(V)
}

// Constant is a spatially uniform value.
type Constant = fem.Constant

// NewConstant creates a constant from its components.
func NewConstant(vals ...float64) *Constant {
	return fem.NewConstant(vals...)
}

// DirichletBC prescribes a scalar value on the boundary of a space.
type DirichletBC = fem.DirichletBC

// NewDirichletBC creates a boundary condition pinning the whole
// boundary of V to the given scalar value.
func NewDirichletBC(V *FunctionSpace, value Value) (*DirichletBC, error) {
	return fem.NewDirichletBC(V, value)
}

// BilinearForm is the left-hand side of a variational problem.
type BilinearForm = fem.BilinearForm

// LinearForm is the right-hand side L(v) = ∫ g v dx.
type LinearForm = fem.LinearForm

// Mass is the form ∫ u v dx on V.
func Mass(V *FunctionSpace) BilinearForm { return fem.Mass(V) }

// Stiffness is the form ∫ ∇u·∇v dx on V.
func Stiffness(V *FunctionSpace) BilinearForm { return fem.Stiffness(V) }

// Source builds the form ∫ g v dx on V.
func Source(V *FunctionSpace, g Value) LinearForm { return fem.Source(V, g) }

// SolveLinear solves a(u, v) = L(v) subject to the given Dirichlet
// conditions.
func SolveLinear(a BilinearForm, L LinearForm, bcs ...*DirichletBC) (*Function, error) {
	return fem.SolveLinear(a, L, bcs...)
}

// Square returns the pointwise square of v.
func Square(v Value) Value { return fem.Square(v) }

// Mul returns the pointwise product of a and b.
func Mul(a, b Value) Value { return fem.Mul(a, b) }
