// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fem

import "fmt"

// DirichletBC prescribes a scalar value on every boundary dof of a
// space. The value may be a Constant that is itself a differentiable
// input; the solve's adjoint then yields a sensitivity for it.
type DirichletBC struct {
	space *FunctionSpace
	value Value
	dofs  []int
}

// NewDirichletBC creates a boundary condition pinning the whole
// boundary of V to the given scalar value.
func NewDirichletBC(V *FunctionSpace, value Value) (*DirichletBC, error) {
	if value.Len() != 1 {
		return nil, fmt.Errorf("dirichlet value must be scalar, got %s", describe(value))
	}
	dofs := V.BoundaryDofs()
	if len(dofs) == 0 {
		return nil, fmt.Errorf("space %v has no boundary dofs to constrain", V.Family())
	}
	return &DirichletBC{space: V, value: value, dofs: dofs}, nil
}

// Value returns the prescribed boundary value.
func (bc *DirichletBC) Value() Value { return bc.value }

// Dofs returns the constrained dof indices.
func (bc *DirichletBC) Dofs() []int { return bc.dofs }
