// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bridge

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gradfem-ml/gradfem/internal/tensor"
)

// inputBatch is the canonical form of one positional input: a
// row-major (rows, cols) double-precision tensor with the batch along
// dimension 0. data is the flat view of the same storage.
type inputBatch struct {
	t          *tensor.RawTensor
	rows, cols int
	data       []float64
}

// row returns sample i as a view sharing the batch's storage.
func (b *inputBatch) row(i int) []float64 {
	r, err := b.t.Row(i)
	if err != nil {
		panic(err) // i is validated against rows
	}
	return r.AsFloat64()
}

// clone returns a batch with freshly allocated storage, detached from
// the caller's buffers.
func (b *inputBatch) clone() *inputBatch {
	c := b.t.Clone()
	return &inputBatch{t: c, rows: b.rows, cols: b.cols, data: c.AsFloat64()}
}

func fromTensor(t *tensor.RawTensor) *inputBatch {
	shape := t.Shape()
	return &inputBatch{t: t, rows: shape[0], cols: shape[1], data: t.AsFloat64()}
}

// asBatch canonicalizes one call argument. Accepted kinds are the
// framework's native tensor (*tensor.RawTensor), a plain [][]float64,
// and a gonum *mat.Dense. Single precision is rejected, not upcast,
// and kind/dtype problems are TypeErrors while dimension problems are
// ShapeErrors. A native tensor is adopted without copying; the other
// kinds are copied into a fresh tensor.
func asBatch(arg any, pos int) (*inputBatch, error) {
	switch v := arg.(type) {
	case *tensor.RawTensor:
		if v == nil {
			return nil, typeErrorf("input %d is a nil tensor", pos)
		}
		switch v.DType() {
		case tensor.Float64:
		case tensor.Float32:
			return nil, typeErrorf("input %d has dtype float32; the bridge requires double precision", pos)
		default:
			return nil, typeErrorf("input %d has unsupported dtype %v", pos, v.DType())
		}
		if shape := v.Shape(); len(shape) != 2 {
			return nil, shapeErrorf("input %d must be 2-dimensional (batch, dofs), got shape %v", pos, shape)
		}
		return fromTensor(v), nil

	case [][]float64:
		if len(v) == 0 {
			return nil, shapeErrorf("input %d has zero rows", pos)
		}
		cols := len(v[0])
		for i, row := range v {
			if len(row) != cols {
				return nil, shapeErrorf("input %d is ragged: row %d has length %d, want %d", pos, i, len(row), cols)
			}
		}
		t, err := tensor.FromRows(v)
		if err != nil {
			return nil, shapeErrorf("input %d: %v", pos, err)
		}
		return fromTensor(t), nil

	case [][]float32:
		return nil, typeErrorf("input %d is single-precision; the bridge requires double precision", pos)

	case *mat.Dense:
		if v == nil {
			return nil, typeErrorf("input %d is a nil matrix", pos)
		}
		r, _ := v.Dims()
		rows := make([][]float64, r)
		for i := 0; i < r; i++ {
			rows[i] = v.RawRowView(i)
		}
		t, err := tensor.FromRows(rows)
		if err != nil {
			return nil, shapeErrorf("input %d: %v", pos, err)
		}
		return fromTensor(t), nil

	default:
		return nil, typeErrorf("input %d has unsupported kind %T; want *tensor.RawTensor, [][]float64 or *mat.Dense", pos, arg)
	}
}

// stackRows builds a (len(rows), n) output tensor from per-sample
// buffers.
func stackRows(rows [][]float64) (*tensor.RawTensor, error) {
	return tensor.FromRows(rows)
}
