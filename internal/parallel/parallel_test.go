// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("expected %d iterations, got %d", n, counter)
	}
}

func TestForDisjointWrites(t *testing.T) {
	cfg := DefaultConfig()

	n := 2048
	out := make([]int, n)
	For(n, func(i int) {
		out[i] = i * i
	}, cfg)

	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestForGrid(t *testing.T) {
	cfg := DefaultConfig()

	rows, cols := 40, 30
	visited := make([][]bool, rows)
	for r := range visited {
		visited[r] = make([]bool, cols)
	}

	ForGrid(rows, cols, func(r, c int) {
		visited[r][c] = true
	}, cfg)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !visited[r][c] {
				t.Errorf("missing iteration at (%d, %d)", r, c)
			}
		}
	}
}

func TestForSequentialFallback(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != 100 {
		t.Errorf("expected 100 iterations, got %d", counter)
	}
}

func TestForSmallLoopStaysSequential(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1
	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("expected %d iterations, got %d", n, counter)
	}
}
