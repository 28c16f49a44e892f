// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the flat numeric buffers
// exchanged with the differentiable bridge.
//
// Example:
//
//	x, err := tensor.FromRows([][]float64{{1, 2, 3, 4}})
//	fmt.Println(x.Shape()) // [1 4]
package tensor

import (
	"github.com/gradfem-ml/gradfem/internal/tensor"
)

// DType is a constraint for supported element types.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of a tensor. Dimension 0 is the
// batch axis for tensors crossing the bridge boundary.
type Shape = tensor.Shape

// RawTensor is the low-level tensor representation: a contiguous
// row-major buffer with runtime dtype information.
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-initialized tensor with the given shape and
// type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a tensor from a flat slice with the given shape.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromRows builds a Float64 tensor of shape (len(rows), len(rows[0]))
// from per-sample slices.
func FromRows(rows [][]float64) (*RawTensor, error) {
	return tensor.FromRows(rows)
}

// Zeros creates a Float64 tensor filled with zeros.
func Zeros(shape Shape) (*RawTensor, error) {
	return tensor.Zeros(shape)
}
