// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bridge lets a finite-element problem participate as a
// differentiable operator in a tensor autodiff graph. It converts
// tensor batches to structured fields, runs the PDE solve once per
// sample, converts the results back, and answers backward passes with
// vector-Jacobian products obtained from the solver's adjoint engine.
package bridge

import "github.com/gradfem-ml/gradfem/internal/fem"

// Problem is the contract a user-defined PDE problem satisfies.
//
// A problem is constructed once per PDE configuration: mesh, function
// spaces and fixed boundary conditions are built in the constructor
// and shared read-only across all forward calls.
type Problem interface {
	// InputTemplates returns one reference field per positional input,
	// defining the structured type and flat shape a tensor input is
	// converted into. It is called once at wrap time, must be
	// deterministic, and the returned templates are never mutated.
	InputTemplates() []fem.Value

	// Forward maps structured inputs to structured outputs, performing
	// exactly the solves needed to produce them. It receives one field
	// per template, freshly built for the current sample, and may
	// return solved fields and pass-through values alike; anything
	// convertible to a flat buffer is a legal output.
	Forward(inputs ...fem.Value) ([]fem.Value, error)
}
