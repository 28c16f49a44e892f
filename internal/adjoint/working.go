// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package adjoint

// The working tape is the tape solver operations record onto while a
// forward pass runs. It mirrors the ambient-tape model of adjoint
// frameworks: user code calls the solver normally and the engine
// observes the calls. The bridge installs a fresh working tape around
// each per-sample forward invocation and restores the previous one
// afterwards.
//
// Execution is synchronous and single-threaded at this boundary, so a
// package-level slot is sufficient.
var working *Tape

// WorkingTape returns the current working tape, or nil when no tape is
// installed (solver calls then run undifferentiated).
func WorkingTape() *Tape {
	return working
}

// SetWorkingTape installs t as the working tape and returns the tape
// it replaced, so callers can restore it when their scope ends.
func SetWorkingTape(t *Tape) *Tape {
	prev := working
	working = t
	return prev
}
