// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "fmt"

// FromSlice creates a RawTensor from a flat slice with the given shape.
// The data is copied.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}

	var zero T
	raw, err := NewRaw(shape, inferDataType(zero))
	if err != nil {
		return nil, err
	}

	switch src := any(data).(type) {
	case []float32:
		copy(raw.AsFloat32(), src)
	case []float64:
		copy(raw.AsFloat64(), src)
	}
	return raw, nil
}

// FromRows builds a Float64 tensor of shape (len(rows), len(rows[0]))
// from per-sample slices. Every row must have the same length.
func FromRows(rows [][]float64) (*RawTensor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot build a tensor from zero rows")
	}
	n := len(rows[0])
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has length %d, want %d", i, len(row), n)
		}
	}

	raw, err := NewRaw(Shape{len(rows), n}, Float64)
	if err != nil {
		return nil, err
	}
	buf := raw.AsFloat64()
	for i, row := range rows {
		copy(buf[i*n:(i+1)*n], row)
	}
	return raw, nil
}

// Zeros creates a Float64 tensor filled with zeros.
func Zeros(shape Shape) (*RawTensor, error) {
	return NewRaw(shape, Float64)
}
