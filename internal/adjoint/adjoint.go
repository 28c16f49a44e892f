// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package adjoint is the differentiation engine for solver-side
// computations. It records the structured-field operations performed
// inside a problem's forward pass on a working tape and later computes
// vector-Jacobian products by walking that tape in reverse.
//
// The engine is deliberately separate from internal/autodiff: the host
// tape differentiates tensor-level graphs, while this tape
// differentiates through the PDE solver's own operations (linear
// solves, field algebra) using their analytic adjoints.
package adjoint

import "fmt"

// Variable identifies one structured field participating in a taped
// computation. Identity is pointer identity; Len is the flat
// degree-of-freedom count of the field's cotangent.
type Variable interface {
	Len() int
}

// Op is one recorded solver operation. VJP receives one cotangent
// slice per output, aligned with Outputs, and returns one cotangent
// slice per input, aligned with Inputs. A nil entry means no
// sensitivity flows through that slot.
type Op interface {
	Inputs() []Variable
	Outputs() []Variable
	VJP(outputCotangents [][]float64) ([][]float64, error)
}

// Tape records solver operations in execution order.
type Tape struct {
	ops       []Op
	recording bool
}

// NewTape creates an empty tape.
func NewTape() *Tape {
	return &Tape{ops: make([]Op, 0, 8)}
}

// StartRecording enables operation recording.
func (t *Tape) StartRecording() { t.recording = true }

// StopRecording disables operation recording.
func (t *Tape) StopRecording() { t.recording = false }

// Recording reports whether the tape is currently recording.
func (t *Tape) Recording() bool { return t.recording }

// Record appends an operation if the tape is recording.
func (t *Tape) Record(op Op) {
	if t.recording {
		t.ops = append(t.ops, op)
	}
}

// NumOps returns the number of recorded operations.
func (t *Tape) NumOps() int { return len(t.ops) }

// VJP computes input cotangents for the taped computation.
//
// seeds maps output variables to their cotangents. The returned map
// holds the accumulated cotangent of every variable reached by the
// reverse sweep, including the seeds themselves; a variable that is
// both an input and a seeded output (a pass-through) therefore ends up
// with its seed included in the accumulation.
func (t *Tape) VJP(seeds map[Variable][]float64) (map[Variable][]float64, error) {
	cots := make(map[Variable][]float64, len(seeds))
	for v, seed := range seeds {
		if len(seed) != v.Len() {
			return nil, fmt.Errorf("seed length %d does not match variable dof count %d", len(seed), v.Len())
		}
		acc := make([]float64, len(seed))
		copy(acc, seed)
		cots[v] = acc
	}

	for i := len(t.ops) - 1; i >= 0; i-- {
		op := t.ops[i]

		outputs := op.Outputs()
		outCots := make([][]float64, len(outputs))
		hasAny := false
		for j, out := range outputs {
			if c, ok := cots[out]; ok {
				outCots[j] = c
				hasAny = true
			}
		}
		if !hasAny {
			continue
		}
		for j, out := range outputs {
			if outCots[j] == nil {
				outCots[j] = make([]float64, out.Len())
			}
		}

		inCots, err := op.VJP(outCots)
		if err != nil {
			return nil, fmt.Errorf("adjoint of operation %d: %w", i, err)
		}

		inputs := op.Inputs()
		for j, in := range inputs {
			if j >= len(inCots) || inCots[j] == nil {
				continue
			}
			if acc, ok := cots[in]; ok {
				for k := range acc {
					acc[k] += inCots[j][k]
				}
			} else {
				cots[in] = inCots[j]
			}
		}
	}

	return cots, nil
}
