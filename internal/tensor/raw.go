// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"unsafe"
)

// RawTensor is the low-level tensor representation: a contiguous
// row-major buffer with runtime dtype information. Row views share the
// underlying buffer, so writing through a view mutates the parent.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	offset int // element offset for row views
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		offset: 0,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.data[r.offset*r.dtype.Size():]
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.data[r.offset*r.dtype.Size():]
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Data returns the tensor's raw bytes. For row views this is the slice
// of the parent buffer backing the view.
func (r *RawTensor) Data() []byte {
	start := r.offset * r.dtype.Size()
	return r.data[start : start+r.ByteSize()]
}

// Row returns a view of sample i along the batch axis (dimension 0).
// The view shares storage with r and has the shape of r minus its
// leading dimension.
func (r *RawTensor) Row(i int) (*RawTensor, error) {
	if len(r.shape) == 0 {
		return nil, fmt.Errorf("cannot take a row of a scalar tensor")
	}
	if i < 0 || i >= r.shape[0] {
		return nil, fmt.Errorf("row index %d out of range for batch size %d", i, r.shape[0])
	}

	rowShape := r.shape[1:].Clone()
	return &RawTensor{
		data:   r.data,
		shape:  rowShape,
		stride: rowShape.ComputeStrides(),
		dtype:  r.dtype,
		offset: r.offset + i*r.stride[0],
	}, nil
}

// Clone returns a deep copy of the tensor with freshly allocated,
// contiguous storage.
func (r *RawTensor) Clone() *RawTensor {
	clone, err := NewRaw(r.shape, r.dtype)
	if err != nil {
		panic(err) // shape already validated
	}
	elemSize := r.dtype.Size()
	copy(clone.data, r.data[r.offset*elemSize:r.offset*elemSize+r.ByteSize()])
	return clone
}
