// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package serialization reads and writes .gfs snapshot files: named
// tensor collections such as solution batches and their adjoint
// sensitivities. The format is a fixed 64-byte binary header with a
// SHA-256 checksum of the data section, a JSON tensor index, and a
// 64-byte-aligned data section holding the raw tensor buffers packed
// back to back.
package serialization

import (
	"time"

	"github.com/gradfem-ml/gradfem/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "GFSN"
	FormatVersion   = 1
	FixedHeaderSize = 64   // 0x40 bytes
	DataAlignment   = 64   // the data section starts on a 64-byte boundary
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // checksum position in the fixed header
)

// Upper bounds on the sizes a file's fixed header may declare. Checked
// before any allocation so a corrupt or hostile header cannot drive an
// outsized make.
const (
	MaxIndexSize = 16 << 20 // 16 MiB JSON index
	MaxDataSize  = 1 << 34  // 16 GiB data section
)

// Data type names used in the JSON index.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
)

// Flags in the fixed header.
const (
	FlagHasMetadata uint32 = 1 << 0
)

// Header is the JSON tensor index of a .gfs file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	ToolVersion   string            `json:"tool_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`
}

func dtypeToString(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return DTypeFloat32
	case tensor.Float64:
		return DTypeFloat64
	default:
		return "unknown"
	}
}

func stringToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case DTypeFloat32:
		return tensor.Float32, true
	case DTypeFloat64:
		return tensor.Float64, true
	default:
		return 0, false
	}
}
