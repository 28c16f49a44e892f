// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bridge

import "fmt"

// The bridge fails fast: every error below is raised before any solver
// invocation for the offending call. Solver and adjoint failures pass
// through unwrapped into these classes.

// TypeError reports an unsupported input kind, a non-double dtype, or
// an unrecognized problem output.
type TypeError struct {
	msg string
}

func (e *TypeError) Error() string { return e.msg }

func typeErrorf(format string, args ...any) *TypeError {
	return &TypeError{msg: fmt.Sprintf(format, args...)}
}

// ShapeError reports a batch-size mismatch or a per-sample shape that
// does not match an input template.
type ShapeError struct {
	msg string
}

func (e *ShapeError) Error() string { return e.msg }

func shapeErrorf(format string, args ...any) *ShapeError {
	return &ShapeError{msg: fmt.Sprintf(format, args...)}
}

// ArityError reports a wrong number of call arguments relative to the
// problem's input templates.
type ArityError struct {
	msg string
}

func (e *ArityError) Error() string { return e.msg }

func arityErrorf(format string, args ...any) *ArityError {
	return &ArityError{msg: fmt.Sprintf(format, args...)}
}

// StateError reports a backward invocation against a record that is
// missing or already consumed. Backward is strictly one-shot per
// forward record.
type StateError struct {
	msg string
}

func (e *StateError) Error() string { return e.msg }

func stateErrorf(format string, args ...any) *StateError {
	return &StateError{msg: fmt.Sprintf(format, args...)}
}
