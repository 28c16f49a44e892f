// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gradfem-ml/gradfem/internal/tensor"
)

// Snapshot is the decoded content of a .gfs file.
type Snapshot struct {
	Header  Header
	Tensors map[string]*tensor.RawTensor
}

// ReadFrom decodes a .gfs snapshot from r, verifying the checksum and
// the consistency of the tensor index.
func ReadFrom(r io.Reader) (*Snapshot, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if !bytes.Equal(fixed[0:4], []byte(MagicBytes)) {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(fixed[4:8]); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	if headerSize == 0 || headerSize > MaxIndexSize {
		return nil, fmt.Errorf("%w: declared index size %d", ErrCorruptIndex, headerSize)
	}
	if dataSize > MaxDataSize {
		return nil, fmt.Errorf("%w: declared data size %d", ErrCorruptIndex, dataSize)
	}
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read tensor index: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}

	pos := int64(FixedHeaderSize) + int64(headerSize)
	if padding := (DataAlignment - pos%DataAlignment) % DataAlignment; padding > 0 {
		if _, err := io.CopyN(io.Discard, r, padding); err != nil {
			return nil, fmt.Errorf("failed to skip padding: %w", err)
		}
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Header:  header,
		Tensors: make(map[string]*tensor.RawTensor, len(header.Tensors)),
	}
	for _, meta := range header.Tensors {
		dt, ok := stringToDtype(meta.DType)
		if !ok {
			return nil, fmt.Errorf("%w: tensor %q has unknown dtype %q", ErrCorruptIndex, meta.Name, meta.DType)
		}
		raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), dt)
		if err != nil {
			return nil, fmt.Errorf("%w: tensor %q: %v", ErrCorruptIndex, meta.Name, err)
		}
		if int64(raw.ByteSize()) != meta.Size {
			return nil, fmt.Errorf("%w: tensor %q size %d does not match shape %v",
				ErrCorruptIndex, meta.Name, meta.Size, meta.Shape)
		}
		end := meta.Offset + meta.Size
		if meta.Offset < 0 || end > int64(len(data)) {
			return nil, fmt.Errorf("%w: tensor %q extends past the data section", ErrCorruptIndex, meta.Name)
		}
		copy(raw.Data(), data[meta.Offset:end])
		snap.Tensors[meta.Name] = raw
	}
	return snap, nil
}

// Load reads a .gfs snapshot file from path.
func Load(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()
	return ReadFrom(file)
}
