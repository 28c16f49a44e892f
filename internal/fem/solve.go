// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/gradfem-ml/gradfem/internal/adjoint"
)

// SolveLinear solves the variational problem a(u, v) = L(v) subject to
// the given Dirichlet conditions and returns the solution field.
//
// Boundary conditions are applied by row replacement: constrained rows
// of the system matrix become identity rows and the right-hand side
// carries the prescribed value. The factorization is retained by the
// recorded adjoint operation, whose reverse rule solves the transposed
// system and pulls the resulting multiplier back through the source
// and boundary-value dependencies.
//
// Solver failures (a singular system) are returned unchanged and are
// never retried.
func SolveLinear(a BilinearForm, L LinearForm, bcs ...*DirichletBC) (*Function, error) {
	V := a.space
	if L.space != V {
		return nil, fmt.Errorf("bilinear form on %v and linear form on %v use different spaces",
			a.space.Family(), L.space.Family())
	}
	n := V.Dim()

	var base *mat.Dense
	switch a.kind {
	case massKind:
		base = V.MassMatrix()
	case stiffnessKind:
		var err error
		base, err = V.StiffnessMatrix()
		if err != nil {
			return nil, err
		}
	}

	A := mat.NewDense(n, n, nil)
	A.Copy(base)

	b := make([]float64, n)
	var srcIsFunction bool
	switch g := L.source.(type) {
	case *Function:
		if g.space != V {
			return nil, fmt.Errorf("source function lives on a different space than the form")
		}
		bv := mat.NewVecDense(n, b)
		bv.MulVec(V.mass, mat.NewVecDense(n, g.dofs))
		srcIsFunction = true
	case *Constant:
		if g.Len() != 1 {
			return nil, fmt.Errorf("source constant must be scalar, got %s", describe(g))
		}
		for i := range b {
			b[i] = g.vals[0] * V.load[i]
		}
	default:
		return nil, fmt.Errorf("unsupported source %s", describe(L.source))
	}

	bcRow := make([]bool, n)
	for _, bc := range bcs {
		if bc.space != V {
			return nil, fmt.Errorf("boundary condition space does not match the form space")
		}
		val := bc.value.Dofs()[0]
		for _, d := range bc.dofs {
			for j := 0; j < n; j++ {
				A.Set(d, j, 0)
			}
			A.Set(d, d, 1)
			b[d] = val
			bcRow[d] = true
		}
	}

	lu := new(mat.LU)
	lu.Factorize(A)

	x := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(x, false, mat.NewVecDense(n, b)); err != nil {
		return nil, fmt.Errorf("linear solve failed: %w", err)
	}

	u := NewFunction(V)
	copy(u.dofs, x.RawVector().Data)

	if t := adjoint.WorkingTape(); t != nil {
		t.Record(&solveOp{
			space:         V,
			lu:            lu,
			source:        L.source,
			srcIsFunction: srcIsFunction,
			bcs:           bcs,
			bcRow:         bcRow,
			out:           u,
		})
	}
	return u, nil
}

// solveOp is the adjoint of u = A⁻¹ b(g, bc₁, …): solve Aᵀλ = ū, then
// ḡ = (∂b/∂g)ᵀ λ restricted to unconstrained rows, and each boundary
// value accumulates λ over its constrained rows.
type solveOp struct {
	space         *FunctionSpace
	lu            *mat.LU
	source        Value
	srcIsFunction bool
	bcs           []*DirichletBC
	bcRow         []bool
	out           *Function
}

func (op *solveOp) Inputs() []adjoint.Variable {
	in := []adjoint.Variable{op.source}
	for _, bc := range op.bcs {
		in = append(in, bc.value)
	}
	return in
}

func (op *solveOp) Outputs() []adjoint.Variable { return []adjoint.Variable{op.out} }

func (op *solveOp) VJP(outCots [][]float64) ([][]float64, error) {
	n := op.space.Dim()

	lam := mat.NewVecDense(n, nil)
	if err := op.lu.SolveVecTo(lam, true, mat.NewVecDense(n, snapshot(outCots[0]))); err != nil {
		return nil, fmt.Errorf("adjoint solve failed: %w", err)
	}

	// The assembled source vector was zeroed on constrained rows, so
	// the multiplier is masked there before the source pullback.
	lamSrc := make([]float64, n)
	for i := 0; i < n; i++ {
		if !op.bcRow[i] {
			lamSrc[i] = lam.AtVec(i)
		}
	}

	var srcCot []float64
	if op.srcIsFunction {
		v := mat.NewVecDense(n, nil)
		v.MulVec(op.space.mass.T(), mat.NewVecDense(n, lamSrc))
		srcCot = snapshot(v.RawVector().Data)
	} else {
		s := 0.0
		for i := 0; i < n; i++ {
			s += op.space.load[i] * lamSrc[i]
		}
		srcCot = []float64{s}
	}

	cots := [][]float64{srcCot}
	for _, bc := range op.bcs {
		s := 0.0
		for _, d := range bc.dofs {
			s += lam.AtVec(d)
		}
		cots = append(cots, []float64{s})
	}
	return cots, nil
}
