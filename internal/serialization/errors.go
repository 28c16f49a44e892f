// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package serialization

import "errors"

var (
	// ErrBadMagic reports a file that does not start with the .gfs
	// magic bytes.
	ErrBadMagic = errors.New("not a .gfs file")

	// ErrUnsupportedVersion reports a format version this build cannot
	// read.
	ErrUnsupportedVersion = errors.New("unsupported .gfs format version")

	// ErrChecksumMismatch reports data whose SHA-256 checksum does not
	// match the header.
	ErrChecksumMismatch = errors.New("checksum mismatch, file is corrupted")

	// ErrCorruptIndex reports a tensor index inconsistent with the data
	// section.
	ErrCorruptIndex = errors.New("corrupt tensor index")
)
