// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides the host-side gradient tape that bridge
// modules register on as differentiable operator nodes.
//
// Example:
//
//	tape := autodiff.NewGradientTape()
//	tape.StartRecording()
//	outs, _ := module.Apply(tape, x)
//	grads, _ := tape.Backward(map[*tensor.RawTensor]*tensor.RawTensor{outs[0]: seed})
package autodiff

import (
	"github.com/gradfem-ml/gradfem/internal/autodiff"
)

// Operation is one differentiable node recorded on the tape.
type Operation = autodiff.Operation

// GradientTape records operations during the forward pass and computes
// gradients by walking them in reverse.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}
