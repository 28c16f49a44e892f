// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bridge provides the public API of the differentiable bridge:
// wrap a finite-element Problem as a Module and it becomes an operator
// that consumes tensor batches, runs one PDE solve per sample, and
// answers backward passes with adjoint-computed vector-Jacobian
// products.
//
// Example:
//
//	module, err := bridge.New(problem)
//	outs, rec, err := module.Invoke(f1, f2)
//	grads, err := rec.Backward(outGrad)
package bridge

import (
	"github.com/gradfem-ml/gradfem/internal/bridge"
)

// Problem is the contract a user-defined PDE problem satisfies.
type Problem = bridge.Problem

// Module wraps one Problem as a differentiable operator.
type Module = bridge.Module

// Record is the retained forward computation of one Invoke call. It
// answers exactly one Backward call.
type Record = bridge.Record

// New wraps a problem, snapshotting its input templates.
func New(p Problem) (*Module, error) {
	return bridge.New(p)
}

// GradCheck verifies the module's adjoint-computed Jacobian against a
// finite-difference estimate for every input/output pair.
func GradCheck(m *Module, args ...any) error {
	return bridge.GradCheck(m, args...)
}

// Error classes surfaced by the bridge.
type (
	// TypeError reports an unsupported input kind, a non-double
	// dtype, or an unrecognized problem output.
	TypeError = bridge.TypeError
	// ShapeError reports a batch-size or per-sample shape mismatch.
	ShapeError = bridge.ShapeError
	// ArityError reports a wrong number of call arguments.
	ArityError = bridge.ArityError
	// StateError reports backward invoked without a valid forward
	// record, or twice against the same record.
	StateError = bridge.StateError
)
