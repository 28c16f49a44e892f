// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bridge

import (
	"fmt"

	"github.com/gradfem-ml/gradfem/internal/adjoint"
	"github.com/gradfem-ml/gradfem/internal/autodiff"
	"github.com/gradfem-ml/gradfem/internal/fem"
	"github.com/gradfem-ml/gradfem/internal/tensor"
)

// Module wraps one Problem as a differentiable operator. It holds no
// solve state between calls; every invocation produces its own Record.
type Module struct {
	problem   Problem
	templates []fem.Value
}

// New wraps a problem, snapshotting its input templates.
func New(p Problem) (*Module, error) {
	templates := p.InputTemplates()
	if len(templates) == 0 {
		return nil, fmt.Errorf("problem declares no input templates")
	}
	for i, tpl := range templates {
		if tpl == nil {
			return nil, typeErrorf("input template %d is nil", i)
		}
		if tpl.Len() == 0 {
			return nil, typeErrorf("input template %d has zero dofs", i)
		}
	}
	return &Module{problem: p, templates: templates}, nil
}

// NumInputs returns the number of positional inputs the problem
// expects.
func (m *Module) NumInputs() int { return len(m.templates) }

// recordState is the lifecycle tag of a Record. A record moves from
// recorded to consumed on its first backward pass and never back.
type recordState int

const (
	stateRecorded recordState = iota
	stateConsumed
)

// Record is the retained forward computation of one Invoke call: the
// structured inputs and outputs of every sample together with the
// per-sample adjoint tapes. It answers exactly one Backward call.
type Record struct {
	state   recordState
	batch   int
	tapes   []*adjoint.Tape
	inputs  [][]fem.Value // [sample][slot]
	outputs [][]fem.Value // [sample][slot]
	inLens  []int
	outLens []int
}

// Invoke is the forward-pass entry point. It validates the call,
// runs the problem's forward once per batch sample, and returns one
// stacked (batch, dofs) tensor per output plus the Record the host
// framework hands back to Backward.
func (m *Module) Invoke(args ...any) ([]*tensor.RawTensor, *Record, error) {
	if len(args) != len(m.templates) {
		return nil, nil, arityErrorf("problem takes %d inputs, got %d", len(m.templates), len(args))
	}

	batches := make([]*inputBatch, len(args))
	for i, arg := range args {
		b, err := asBatch(arg, i)
		if err != nil {
			return nil, nil, err
		}
		if b.cols != m.templates[i].Len() {
			return nil, nil, shapeErrorf("input %d has %d dofs per sample, template expects %d",
				i, b.cols, m.templates[i].Len())
		}
		batches[i] = b
	}

	batch := batches[0].rows
	for i, b := range batches {
		if b.rows != batch {
			return nil, nil, shapeErrorf("input %d has batch size %d, input 0 has %d", i, b.rows, batch)
		}
	}

	rec := &Record{
		state:  stateRecorded,
		batch:  batch,
		tapes:  make([]*adjoint.Tape, batch),
		inputs: make([][]fem.Value, batch),
		inLens: make([]int, len(m.templates)),
	}
	for i, tpl := range m.templates {
		rec.inLens[i] = tpl.Len()
	}

	var outRows [][][]float64 // [slot][sample]
	for s := 0; s < batch; s++ {
		outs, err := m.forwardSample(rec, batches, s)
		if err != nil {
			return nil, nil, err
		}

		if s == 0 {
			rec.outLens = make([]int, len(outs))
			rec.outputs = make([][]fem.Value, batch)
			outRows = make([][][]float64, len(outs))
			for j, out := range outs {
				rec.outLens[j] = out.Len()
				outRows[j] = make([][]float64, batch)
			}
		} else if len(outs) != len(rec.outLens) {
			return nil, nil, typeErrorf("forward returned %d outputs for sample %d, %d for sample 0",
				len(outs), s, len(rec.outLens))
		}

		rec.outputs[s] = outs
		for j, out := range outs {
			if out.Len() != rec.outLens[j] {
				return nil, nil, shapeErrorf("output %d of sample %d has %d dofs, sample 0 had %d",
					j, s, out.Len(), rec.outLens[j])
			}
			row := make([]float64, out.Len())
			copy(row, out.Dofs())
			outRows[j][s] = row
		}
	}

	tensors := make([]*tensor.RawTensor, len(outRows))
	for j, rows := range outRows {
		t, err := stackRows(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("stacking output %d: %w", j, err)
		}
		tensors[j] = t
	}
	return tensors, rec, nil
}

// forwardSample runs one sample's solve under a fresh adjoint working
// tape and validates the problem's outputs.
func (m *Module) forwardSample(rec *Record, batches []*inputBatch, s int) ([]fem.Value, error) {
	inputs := make([]fem.Value, len(m.templates))
	for i, tpl := range m.templates {
		v := tpl.Like()
		copy(v.Dofs(), batches[i].row(s))
		inputs[i] = v
	}
	rec.inputs[s] = inputs

	tape := adjoint.NewTape()
	tape.StartRecording()
	prev := adjoint.SetWorkingTape(tape)
	outs, err := m.problem.Forward(inputs...)
	adjoint.SetWorkingTape(prev)
	tape.StopRecording()
	rec.tapes[s] = tape

	if err != nil {
		return nil, fmt.Errorf("forward solve for sample %d: %w", s, err)
	}
	if len(outs) == 0 {
		return nil, typeErrorf("forward returned no outputs for sample %d", s)
	}
	for j, out := range outs {
		if out == nil {
			return nil, typeErrorf("forward returned a nil output at slot %d for sample %d", j, s)
		}
	}
	return outs, nil
}

// Backward computes input gradients from output gradients, one
// gradient per output in forward-output order, and returns one
// gradient tensor per input in forward-input order. Output gradients
// accept the same array-like kinds as forward inputs.
//
// The record is consumed by this call; invoking Backward a second time
// against the same record is a StateError.
func (r *Record) Backward(outputGrads ...any) ([]*tensor.RawTensor, error) {
	if r == nil {
		return nil, stateErrorf("backward invoked without a forward record")
	}
	if r.state == stateConsumed {
		return nil, stateErrorf("backward already consumed this forward record")
	}

	if len(outputGrads) != len(r.outLens) {
		return nil, arityErrorf("forward produced %d outputs, backward got %d gradients",
			len(r.outLens), len(outputGrads))
	}
	grads := make([]*inputBatch, len(outputGrads))
	for j, g := range outputGrads {
		b, err := asBatch(g, j)
		if err != nil {
			return nil, err
		}
		if b.rows != r.batch || b.cols != r.outLens[j] {
			return nil, shapeErrorf("output gradient %d has shape (%d, %d), want (%d, %d)",
				j, b.rows, b.cols, r.batch, r.outLens[j])
		}
		grads[j] = b
	}

	inputGrads := make([][][]float64, len(r.inLens)) // [slot][sample]
	for i, n := range r.inLens {
		inputGrads[i] = make([][]float64, r.batch)
		for s := 0; s < r.batch; s++ {
			inputGrads[i][s] = make([]float64, n)
		}
	}

	for s := 0; s < r.batch; s++ {
		seeds := make(map[adjoint.Variable][]float64)
		for j, out := range r.outputs[s] {
			cot := grads[j].row(s)
			if acc, ok := seeds[out]; ok {
				// The same field returned through two output slots
				// receives the sum of both cotangents.
				for k := range acc {
					acc[k] += cot[k]
				}
			} else {
				seed := make([]float64, len(cot))
				copy(seed, cot)
				seeds[out] = seed
			}
		}

		cots, err := r.tapes[s].VJP(seeds)
		if err != nil {
			return nil, fmt.Errorf("adjoint replay for sample %d: %w", s, err)
		}
		for i, in := range r.inputs[s] {
			if c, ok := cots[in]; ok {
				copy(inputGrads[i][s], c)
			}
		}
	}

	r.state = stateConsumed

	tensors := make([]*tensor.RawTensor, len(inputGrads))
	for i, rows := range inputGrads {
		t, err := stackRows(rows)
		if err != nil {
			return nil, fmt.Errorf("stacking input gradient %d: %w", i, err)
		}
		tensors[i] = t
	}
	return tensors, nil
}

// moduleOp exposes one Invoke call as an Operation on the host tape,
// wiring the host framework's backward dispatch to the Record.
type moduleOp struct {
	inputs  []*tensor.RawTensor
	outputs []*tensor.RawTensor
	rec     *Record
}

func (op *moduleOp) Inputs() []*tensor.RawTensor  { return op.inputs }
func (op *moduleOp) Outputs() []*tensor.RawTensor { return op.outputs }

func (op *moduleOp) Backward(outputGrads []*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	args := make([]any, len(outputGrads))
	for j, g := range outputGrads {
		args[j] = g
	}
	return op.rec.Backward(args...)
}

// Apply runs Invoke and registers the executed computation on the host
// gradient tape, making the module a custom operator node in the host
// graph. Inputs must be the framework's native tensors so the host can
// route gradients back to them.
func (m *Module) Apply(tape *autodiff.GradientTape, inputs ...*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	args := make([]any, len(inputs))
	for i, in := range inputs {
		args[i] = in
	}
	outs, rec, err := m.Invoke(args...)
	if err != nil {
		return nil, err
	}
	if tape != nil && tape.IsRecording() {
		tape.Record(&moduleOp{inputs: inputs, outputs: outs, rec: rec})
	}
	return outs, nil
}
