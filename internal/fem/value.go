// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fem

import "fmt"

// Value is a structured field: the solver-native representation of
// one quantity, either spatially varying (Function) or uniform
// (Constant). Conversion between a Value and its flat dof buffer is
// bijective, which is what lets the bridge move samples across the
// tensor boundary. Values are adjoint variables; identity is pointer
// identity.
type Value interface {
	// Len returns the flat degree-of-freedom count.
	Len() int
	// Dofs returns the live dof slice. Writing into it mutates the
	// field.
	Dofs() []float64
	// Like returns a fresh zero-valued field with the same structure,
	// suitable as a per-sample instance of a template.
	Like() Value
}

// Function is a field in a function space, represented by its dof
// vector.
type Function struct {
	space *FunctionSpace
	dofs  []float64
}

// NewFunction creates a zero function in V.
func NewFunction(V *FunctionSpace) *Function {
	return &Function{space: V, dofs: make([]float64, V.Dim())}
}

// Space returns the function space of f.
func (f *Function) Space() *FunctionSpace { return f.space }

// Len returns the number of dofs.
func (f *Function) Len() int { return len(f.dofs) }

// Dofs returns the live dof slice.
func (f *Function) Dofs() []float64 { return f.dofs }

// Like returns a fresh zero function in the same space.
func (f *Function) Like() Value { return NewFunction(f.space) }

// Constant is a spatially uniform value: a scalar or a small fixed
// vector.
type Constant struct {
	vals []float64
}

// NewConstant creates a constant from its components.
func NewConstant(vals ...float64) *Constant {
	if len(vals) == 0 {
		panic("constant needs at least one component")
	}
	c := &Constant{vals: make([]float64, len(vals))}
	copy(c.vals, vals)
	return c
}

// Len returns the number of components.
func (c *Constant) Len() int { return len(c.vals) }

// Dofs returns the live component slice.
func (c *Constant) Dofs() []float64 { return c.vals }

// Like returns a fresh zero constant with the same component count.
func (c *Constant) Like() Value { return &Constant{vals: make([]float64, len(c.vals))} }

// sameStructure reports whether two values convert to and from
// identically shaped buffers (same kind, space and dof count).
func sameStructure(a, b Value) bool {
	switch av := a.(type) {
	case *Function:
		bv, ok := b.(*Function)
		return ok && av.space == bv.space
	case *Constant:
		bv, ok := b.(*Constant)
		return ok && len(av.vals) == len(bv.vals)
	default:
		return false
	}
}

func describe(v Value) string {
	switch f := v.(type) {
	case *Function:
		return fmt.Sprintf("Function(%v, %d dofs)", f.space.Family(), f.Len())
	case *Constant:
		return fmt.Sprintf("Constant(%d)", f.Len())
	default:
		return fmt.Sprintf("%T", v)
	}
}
