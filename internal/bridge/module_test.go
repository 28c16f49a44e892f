// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/gradfem-ml/gradfem/internal/autodiff"
	"github.com/gradfem-ml/gradfem/internal/fem"
	"github.com/gradfem-ml/gradfem/internal/tensor"
)

var (
	squaresF1 = [][]float64{{1, 2, 3, 4}, {2, 3, 5, 6}}
	squaresF2 = [][]float64{{2, 3, 5, 6}, {1, 2, 2, 1}}
)

func TestSquaresForward(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	outs, _, err := m.Invoke(squaresF1, squaresF2)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.True(t, outs[0].Shape().Equal(tensor.Shape{2, 4}))

	u := outs[0].AsFloat64()
	for s := 0; s < 2; s++ {
		for i := 0; i < 4; i++ {
			f1, f2 := squaresF1[s][i], squaresF2[s][i]
			assert.InDelta(t, f1*f1*f2*f2, u[s*4+i], 1e-11, "sample %d dof %d", s, i)
		}
	}
}

func TestSquaresGradCheck(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)
	require.NoError(t, GradCheck(m, squaresF1, squaresF2))
}

func TestPoissonGradCheck(t *testing.T) {
	m, err := New(newPoisson(t))
	require.NoError(t, err)
	require.NoError(t, GradCheck(m, [][]float64{{1.0}}, [][]float64{{0.0}}))
}

func TestDoublePoissonForward(t *testing.T) {
	m, err := New(newDoublePoisson(t))
	require.NoError(t, err)

	outs, _, err := m.Invoke([][]float64{{1.0}}, [][]float64{{2.0}})
	require.NoError(t, err)
	require.Len(t, outs, 4)

	require.True(t, outs[0].Shape().Equal(tensor.Shape{1, 11}))
	require.True(t, outs[1].Shape().Equal(tensor.Shape{1, 11}))
	require.True(t, outs[2].Shape().Equal(tensor.Shape{1, 1}))
	require.True(t, outs[3].Shape().Equal(tensor.Shape{1, 1}))

	// u = f/2·x(1-x) is nodally exact: the midpoint value is f/8.
	assert.InDelta(t, 1.0/8, outs[0].AsFloat64()[5], 1e-11)
	assert.InDelta(t, 2.0/8, outs[1].AsFloat64()[5], 1e-11)

	// Pass-through slots return the inputs unchanged.
	assert.Equal(t, 1.0, outs[2].AsFloat64()[0])
	assert.Equal(t, 2.0, outs[3].AsFloat64()[0])
}

func TestDoublePoissonGradCheck(t *testing.T) {
	m, err := New(newDoublePoisson(t))
	require.NoError(t, err)
	require.NoError(t, GradCheck(m, [][]float64{{1.0}}, [][]float64{{2.0}}))
}

func TestGradCheckLeavesCallerTensorsUntouched(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	f1, err := tensor.FromRows(squaresF1)
	require.NoError(t, err)
	f2, err := tensor.FromRows(squaresF2)
	require.NoError(t, err)
	want1 := append([]float64(nil), f1.AsFloat64()...)
	want2 := append([]float64(nil), f2.AsFloat64()...)

	require.NoError(t, GradCheck(m, f1, f2))

	// Finite-difference perturbations run on private copies.
	assert.Equal(t, want1, f1.AsFloat64())
	assert.Equal(t, want2, f2.AsFloat64())
}

func TestInputKindsAgree(t *testing.T) {
	m, err := New(newPoisson(t))
	require.NoError(t, err)

	fromRows, _, err := m.Invoke([][]float64{{1.0}}, [][]float64{{0.0}})
	require.NoError(t, err)

	fRaw, err := tensor.FromRows([][]float64{{1.0}})
	require.NoError(t, err)
	gRaw, err := tensor.FromRows([][]float64{{0.0}})
	require.NoError(t, err)
	fromTensors, _, err := m.Invoke(fRaw, gRaw)
	require.NoError(t, err)

	fromDense, _, err := m.Invoke(mat.NewDense(1, 1, []float64{1.0}), mat.NewDense(1, 1, []float64{0.0}))
	require.NoError(t, err)

	assert.Equal(t, fromRows[0].AsFloat64(), fromTensors[0].AsFloat64())
	assert.Equal(t, fromRows[0].AsFloat64(), fromDense[0].AsFloat64())
}

func TestSinglePrecisionRejected(t *testing.T) {
	m, err := New(newPoisson(t))
	require.NoError(t, err)

	f32, err := tensor.FromSlice([]float32{1}, tensor.Shape{1, 1})
	require.NoError(t, err)
	g32, err := tensor.FromSlice([]float32{0}, tensor.Shape{1, 1})
	require.NoError(t, err)

	var typeErr *TypeError
	_, _, err = m.Invoke(f32, g32)
	require.ErrorAs(t, err, &typeErr)

	_, _, err = m.Invoke([][]float32{{1}}, [][]float32{{0}})
	require.ErrorAs(t, err, &typeErr)

	_, _, err = m.Invoke([]float64{1}, []float64{0})
	require.ErrorAs(t, err, &typeErr, "unrecognized array-like kind")
}

func TestArityEnforced(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	var arityErr *ArityError
	_, _, err = m.Invoke(squaresF1)
	require.ErrorAs(t, err, &arityErr)

	_, _, err = m.Invoke(squaresF1, squaresF2, squaresF1)
	require.ErrorAs(t, err, &arityErr)
}

func TestShapeEnforced(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	var shapeErr *ShapeError

	// Non-batch shape must match the template's dof count.
	_, _, err = m.Invoke([][]float64{{1, 2, 3}}, [][]float64{{1, 2, 3}})
	require.ErrorAs(t, err, &shapeErr)

	// All inputs share one batch size.
	_, _, err = m.Invoke(squaresF1, [][]float64{{1, 2, 3, 4}})
	require.ErrorAs(t, err, &shapeErr)
}

func TestBackwardIsOneShot(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	_, rec, err := m.Invoke(squaresF1, squaresF2)
	require.NoError(t, err)

	seed := [][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}}
	_, err = rec.Backward(seed)
	require.NoError(t, err)

	var stateErr *StateError
	_, err = rec.Backward(seed)
	require.ErrorAs(t, err, &stateErr, "a record answers exactly one backward pass")
}

func TestBackwardValidatesGradients(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	_, rec, err := m.Invoke(squaresF1, squaresF2)
	require.NoError(t, err)

	var arityErr *ArityError
	_, err = rec.Backward()
	require.ErrorAs(t, err, &arityErr)

	var shapeErr *ShapeError
	_, err = rec.Backward([][]float64{{1, 1, 1, 1}})
	require.ErrorAs(t, err, &shapeErr, "gradient batch must match forward batch")

	// Validation failures do not consume the record.
	_, err = rec.Backward([][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}})
	require.NoError(t, err)
}

func TestBackwardGradientValues(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	_, rec, err := m.Invoke(squaresF1, squaresF2)
	require.NoError(t, err)

	grads, err := rec.Backward([][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}})
	require.NoError(t, err)
	require.Len(t, grads, 2)

	// u = f1²f2²: du/df1 = 2 f1 f2², du/df2 = 2 f2 f1².
	g1 := grads[0].AsFloat64()
	g2 := grads[1].AsFloat64()
	for s := 0; s < 2; s++ {
		for i := 0; i < 4; i++ {
			f1, f2 := squaresF1[s][i], squaresF2[s][i]
			assert.InDelta(t, 2*f1*f2*f2, g1[s*4+i], 1e-10)
			assert.InDelta(t, 2*f2*f1*f1, g2[s*4+i], 1e-10)
		}
	}
}

func TestDeterminism(t *testing.T) {
	m, err := New(newPoisson(t))
	require.NoError(t, err)

	first, _, err := m.Invoke([][]float64{{1.5}}, [][]float64{{0.25}})
	require.NoError(t, err)
	second, _, err := m.Invoke([][]float64{{1.5}}, [][]float64{{0.25}})
	require.NoError(t, err)

	assert.Equal(t, first[0].AsFloat64(), second[0].AsFloat64())
}

func TestApplyRegistersOnHostTape(t *testing.T) {
	m, err := New(newSquares(t))
	require.NoError(t, err)

	f1, err := tensor.FromRows(squaresF1)
	require.NoError(t, err)
	f2, err := tensor.FromRows(squaresF2)
	require.NoError(t, err)

	tape := autodiff.NewGradientTape()
	tape.StartRecording()
	outs, err := m.Apply(tape, f1, f2)
	require.NoError(t, err)
	require.Equal(t, 1, tape.NumOps())

	seed, err := tensor.FromRows([][]float64{{1, 1, 1, 1}, {1, 1, 1, 1}})
	require.NoError(t, err)
	grads, err := tape.Backward(map[*tensor.RawTensor]*tensor.RawTensor{outs[0]: seed})
	require.NoError(t, err)

	g1 := grads[f1]
	require.NotNil(t, g1, "gradient must be routed back to the caller's tensor")
	for s := 0; s < 2; s++ {
		for i := 0; i < 4; i++ {
			v1, v2 := squaresF1[s][i], squaresF2[s][i]
			assert.InDelta(t, 2*v1*v2*v2, g1.AsFloat64()[s*4+i], 1e-10)
		}
	}
}

// badProblem returns a nil output slot.
type badProblem struct {
	V *fem.FunctionSpace
}

func (p *badProblem) InputTemplates() []fem.Value {
	return []fem.Value{fem.NewFunction(p.V)}
}

func (p *badProblem) Forward(...fem.Value) ([]fem.Value, error) {
	return []fem.Value{nil}, nil
}

func TestInvalidForwardOutput(t *testing.T) {
	mesh := fem.NewIntervalMesh(2, 0, 1)
	V, err := fem.NewFunctionSpace(mesh, fem.DG0)
	require.NoError(t, err)

	m, err := New(&badProblem{V: V})
	require.NoError(t, err)

	var typeErr *TypeError
	_, _, err = m.Invoke([][]float64{{1, 2}})
	require.ErrorAs(t, err, &typeErr)
}

// emptyProblem declares no inputs.
type emptyProblem struct{}

func (emptyProblem) InputTemplates() []fem.Value { return nil }

func (emptyProblem) Forward(...fem.Value) ([]fem.Value, error) { return nil, nil }

func TestNewRejectsEmptyTemplates(t *testing.T) {
	_, err := New(emptyProblem{})
	require.Error(t, err)
}
