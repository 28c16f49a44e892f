// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bridge

import (
	"fmt"
	"math"

	"github.com/gradfem-ml/gradfem/internal/tensor"
)

// Gradient-check tolerances, matching the usual autodiff defaults:
// central differences with step gradEps, comparison
// |adjoint - numerical| <= gradAtol + gradRtol*|numerical|.
const (
	gradEps  = 1e-6
	gradAtol = 1e-5
	gradRtol = 1e-3
)

// GradCheck verifies the module's adjoint-computed Jacobian against a
// finite-difference estimate for every input/output pair and returns
// nil when they agree within tolerance.
//
// The check runs one forward per perturbed input element and one
// forward-plus-backward per output element, so it is intended for the
// small problems used in testing.
func GradCheck(m *Module, args ...any) error {
	// Perturbations are applied to private copies so the caller's
	// buffers are never touched.
	ins := make([]*inputBatch, len(args))
	for i, arg := range args {
		b, err := asBatch(arg, i)
		if err != nil {
			return err
		}
		ins[i] = b.clone()
	}

	invoke := func() ([][]float64, error) {
		callArgs := make([]any, len(ins))
		for i, b := range ins {
			rows := make([][]float64, b.rows)
			for s := 0; s < b.rows; s++ {
				rows[s] = b.row(s)
			}
			callArgs[i] = rows
		}
		outs, _, err := m.Invoke(callArgs...)
		if err != nil {
			return nil, err
		}
		flat := make([][]float64, len(outs))
		for j, out := range outs {
			buf := out.AsFloat64()
			flat[j] = make([]float64, len(buf))
			copy(flat[j], buf)
		}
		return flat, nil
	}

	base, err := invoke()
	if err != nil {
		return err
	}

	// Finite-difference Jacobian: numerical[j][i][l][k] laid out as
	// numerical[j][i][l*inElems+k].
	numerical := make([][][]float64, len(base))
	for j := range base {
		numerical[j] = make([][]float64, len(ins))
		for i, b := range ins {
			numerical[j][i] = make([]float64, len(base[j])*len(b.data))
		}
	}
	for i, b := range ins {
		for k := range b.data {
			orig := b.data[k]
			b.data[k] = orig + gradEps
			plus, err := invoke()
			if err != nil {
				b.data[k] = orig
				return err
			}
			b.data[k] = orig - gradEps
			minus, err := invoke()
			b.data[k] = orig
			if err != nil {
				return err
			}
			for j := range base {
				for l := range base[j] {
					numerical[j][i][l*len(b.data)+k] = (plus[j][l] - minus[j][l]) / (2 * gradEps)
				}
			}
		}
	}

	// Adjoint Jacobian, one backward per output element.
	for j := range base {
		for l := range base[j] {
			callArgs := make([]any, len(ins))
			for i, b := range ins {
				rows := make([][]float64, b.rows)
				for s := 0; s < b.rows; s++ {
					rows[s] = b.row(s)
				}
				callArgs[i] = rows
			}
			outs, rec, err := m.Invoke(callArgs...)
			if err != nil {
				return err
			}

			seeds := make([]any, len(outs))
			for jj, out := range outs {
				seed, err := tensor.Zeros(out.Shape())
				if err != nil {
					return err
				}
				if jj == j {
					seed.AsFloat64()[l] = 1
				}
				seeds[jj] = seed
			}
			grads, err := rec.Backward(seeds...)
			if err != nil {
				return err
			}

			for i := range ins {
				adj := grads[i].AsFloat64()
				for k := range adj {
					want := numerical[j][i][l*len(ins[i].data)+k]
					if math.Abs(adj[k]-want) > gradAtol+gradRtol*math.Abs(want) {
						return fmt.Errorf(
							"gradient mismatch d(output %d)[%d]/d(input %d)[%d]: adjoint %v, numerical %v",
							j, l, i, k, adj[k], want)
					}
				}
			}
		}
	}
	return nil
}
