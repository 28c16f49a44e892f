// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff implements the host-framework side of the bridge:
// a gradient tape for reverse-mode automatic differentiation.
//
// Operations are recorded during the forward pass and replayed in
// reverse during Backward. An external computation (such as a PDE
// solve wrapped by internal/bridge) participates as a differentiable
// operator node by recording an Operation whose Backward method
// produces vector-Jacobian products for all of its inputs.
package autodiff

import (
	"fmt"

	"github.com/gradfem-ml/gradfem/internal/tensor"
)

// Operation is one differentiable node recorded on the tape.
//
// Backward receives one output-gradient tensor per output, aligned
// with Outputs(), and returns one input-gradient tensor per input,
// aligned with Inputs(). A nil entry means no gradient flows through
// that slot.
type Operation interface {
	Inputs() []*tensor.RawTensor
	Outputs() []*tensor.RawTensor
	Backward(outputGrads []*tensor.RawTensor) ([]*tensor.RawTensor, error)
}

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic
// differentiation.
type GradientTape struct {
	operations []Operation
	recording  bool
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]Operation, 0, 16),
		recording:  false,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward computes gradients for all tensors reachable from the
// seeded outputs by walking the tape in reverse.
//
// seeds maps output tensors to their cotangents (typically ones for a
// scalar loss). The returned map associates every tensor that received
// a gradient with its accumulated value.
func (t *GradientTape) Backward(seeds map[*tensor.RawTensor]*tensor.RawTensor) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	// Stop recording during backward so gradient work is not taped.
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	grads := make(map[*tensor.RawTensor]*tensor.RawTensor, len(seeds))
	for out, seed := range seeds {
		grads[out] = seed
	}

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]

		outputs := op.Outputs()
		outputGrads := make([]*tensor.RawTensor, len(outputs))
		hasAnyGrad := false
		for j, out := range outputs {
			if g, ok := grads[out]; ok {
				outputGrads[j] = g
				hasAnyGrad = true
			}
		}
		if !hasAnyGrad {
			continue
		}
		fillMissingGradsWithZeros(outputs, outputGrads)

		inputGrads, err := op.Backward(outputGrads)
		if err != nil {
			return nil, fmt.Errorf("backward of operation %d: %w", i, err)
		}
		accumulateGrads(op.Inputs(), inputGrads, grads)
	}

	return grads, nil
}

// fillMissingGradsWithZeros fills nil gradients with zero tensors so
// operations never see a partially seeded output set.
func fillMissingGradsWithZeros(outputs, outputGrads []*tensor.RawTensor) {
	for j, out := range outputs {
		if outputGrads[j] != nil {
			continue
		}
		zero, err := tensor.NewRaw(out.Shape(), out.DType())
		if err != nil {
			continue
		}
		outputGrads[j] = zero
	}
}

// accumulateGrads sums gradients when the same tensor feeds multiple
// operations.
func accumulateGrads(inputs, inputGrads []*tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for j, input := range inputs {
		if j >= len(inputGrads) {
			break
		}
		inputGrad := inputGrads[j]
		if inputGrad == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			dst := existing.AsFloat64()
			src := inputGrad.AsFloat64()
			for k := range dst {
				dst[k] += src[k]
			}
		} else {
			grads[input] = inputGrad
		}
	}
}
