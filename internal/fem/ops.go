// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"

	"github.com/gradfem-ml/gradfem/internal/adjoint"
)

// Pointwise field algebra. These operate on dof vectors, produce a new
// field of the same structure, and record their adjoint on the working
// tape. Structural misuse (mismatched spaces) is a programming error
// and panics, matching how dimension mismatches are treated elsewhere
// in the numeric stack.

// Square returns the pointwise square of v.
func Square(v Value) Value {
	out := v.Like()
	in := v.Dofs()
	res := out.Dofs()
	for i, x := range in {
		res[i] = x * x
	}

	if t := adjoint.WorkingTape(); t != nil {
		t.Record(&squareOp{in: v, out: out, x: snapshot(in)})
	}
	return out
}

// Mul returns the pointwise product of a and b. The operands must
// have the same structure.
func Mul(a, b Value) Value {
	if !sameStructure(a, b) {
		panic(fmt.Sprintf("cannot multiply %s with %s", describe(a), describe(b)))
	}
	out := a.Like()
	av, bv := a.Dofs(), b.Dofs()
	res := out.Dofs()
	for i := range av {
		res[i] = av[i] * bv[i]
	}

	if t := adjoint.WorkingTape(); t != nil {
		t.Record(&mulOp{a: a, b: b, out: out, av: snapshot(av), bv: snapshot(bv)})
	}
	return out
}

func snapshot(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	return s
}

// squareOp: out = x², so x̄ = 2 x ⊙ ōut.
type squareOp struct {
	in  Value
	out Value
	x   []float64
}

func (op *squareOp) Inputs() []adjoint.Variable  { return []adjoint.Variable{op.in} }
func (op *squareOp) Outputs() []adjoint.Variable { return []adjoint.Variable{op.out} }

func (op *squareOp) VJP(outCots [][]float64) ([][]float64, error) {
	cot := outCots[0]
	in := make([]float64, len(cot))
	for i := range cot {
		in[i] = 2 * op.x[i] * cot[i]
	}
	return [][]float64{in}, nil
}

// mulOp: out = a ⊙ b, so ā = b ⊙ ōut and b̄ = a ⊙ ōut.
type mulOp struct {
	a, b   Value
	out    Value
	av, bv []float64
}

func (op *mulOp) Inputs() []adjoint.Variable  { return []adjoint.Variable{op.a, op.b} }
func (op *mulOp) Outputs() []adjoint.Variable { return []adjoint.Variable{op.out} }

func (op *mulOp) VJP(outCots [][]float64) ([][]float64, error) {
	cot := outCots[0]
	ca := make([]float64, len(cot))
	cb := make([]float64, len(cot))
	for i := range cot {
		ca[i] = op.bv[i] * cot[i]
		cb[i] = op.av[i] * cot[i]
	}
	return [][]float64{ca, cb}, nil
}
