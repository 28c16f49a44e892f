// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradfem-ml/gradfem/internal/fem"
)

// squares solves ∫u v = ∫f1²f2² v on a 4-cell piecewise-constant
// space, so u = f1²·f2² elementwise.
type squares struct {
	V *fem.FunctionSpace
}

func newSquares(t *testing.T) *squares {
	t.Helper()
	mesh := fem.NewIntervalMesh(4, 0, 1)
	V, err := fem.NewFunctionSpace(mesh, fem.DG0)
	require.NoError(t, err)
	return &squares{V: V}
}

func (p *squares) InputTemplates() []fem.Value {
	return []fem.Value{fem.NewFunction(p.V), fem.NewFunction(p.V)}
}

func (p *squares) Forward(inputs ...fem.Value) ([]fem.Value, error) {
	f1, f2 := inputs[0], inputs[1]

	g := fem.Mul(fem.Square(f1), fem.Square(f2))
	u, err := fem.SolveLinear(fem.Mass(p.V), fem.Source(p.V, g))
	if err != nil {
		return nil, err
	}
	return []fem.Value{u}, nil
}

// poisson solves -Δu = f on the unit square with u = g on the
// boundary; both f and g are scalar constants.
type poisson struct {
	V *fem.FunctionSpace
}

func newPoisson(t *testing.T) *poisson {
	t.Helper()
	mesh := fem.NewUnitSquareMesh(10, 10)
	V, err := fem.NewFunctionSpace(mesh, fem.P1)
	require.NoError(t, err)
	return &poisson{V: V}
}

func (p *poisson) InputTemplates() []fem.Value {
	return []fem.Value{fem.NewConstant(0), fem.NewConstant(0)}
}

func (p *poisson) Forward(inputs ...fem.Value) ([]fem.Value, error) {
	f, g := inputs[0], inputs[1]

	bc, err := fem.NewDirichletBC(p.V, g)
	if err != nil {
		return nil, err
	}
	u, err := fem.SolveLinear(fem.Stiffness(p.V), fem.Source(p.V, f), bc)
	if err != nil {
		return nil, err
	}
	return []fem.Value{u}, nil
}

// doublePoisson runs two solves against a fixed homogeneous boundary
// condition and additionally passes its own inputs through unchanged,
// exercising the multi-output contract.
type doublePoisson struct {
	V  *fem.FunctionSpace
	bc *fem.DirichletBC
}

func newDoublePoisson(t *testing.T) *doublePoisson {
	t.Helper()
	mesh := fem.NewUnitIntervalMesh(10)
	V, err := fem.NewFunctionSpace(mesh, fem.P1)
	require.NoError(t, err)
	bc, err := fem.NewDirichletBC(V, fem.NewConstant(0))
	require.NoError(t, err)
	return &doublePoisson{V: V, bc: bc}
}

func (p *doublePoisson) InputTemplates() []fem.Value {
	return []fem.Value{fem.NewConstant(0), fem.NewConstant(0)}
}

func (p *doublePoisson) Forward(inputs ...fem.Value) ([]fem.Value, error) {
	f1, f2 := inputs[0], inputs[1]

	u1, err := fem.SolveLinear(fem.Stiffness(p.V), fem.Source(p.V, f1), p.bc)
	if err != nil {
		return nil, err
	}
	u2, err := fem.SolveLinear(fem.Stiffness(p.V), fem.Source(p.V, f2), p.bc)
	if err != nil {
		return nil, err
	}
	return []fem.Value{u1, u2, f1, f2}, nil
}
