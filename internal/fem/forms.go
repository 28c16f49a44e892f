// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fem

type bilinearKind int

const (
	massKind bilinearKind = iota
	stiffnessKind
)

// BilinearForm is the left-hand side of a variational problem
// a(u, v) = L(v).
type BilinearForm struct {
	kind  bilinearKind
	space *FunctionSpace
}

// Mass is the form ∫ u v dx on V.
func Mass(V *FunctionSpace) BilinearForm {
	return BilinearForm{kind: massKind, space: V}
}

// Stiffness is the form ∫ ∇u·∇v dx on V.
func Stiffness(V *FunctionSpace) BilinearForm {
	return BilinearForm{kind: stiffnessKind, space: V}
}

// Space returns the trial/test space of the form.
func (a BilinearForm) Space() *FunctionSpace { return a.space }

// LinearForm is the right-hand side L(v) = ∫ g v dx. The source g may
// be a Function on the same space or a scalar Constant; in either case
// the assembled vector is linear in g, which is what the adjoint of
// the solve relies on.
type LinearForm struct {
	space  *FunctionSpace
	source Value
}

// Source builds the form ∫ g v dx on V.
func Source(V *FunctionSpace, g Value) LinearForm {
	return LinearForm{space: V, source: g}
}
