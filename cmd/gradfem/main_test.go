// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradfem-ml/gradfem/internal/config"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("cells: 8\nboundary: 5.0\nsources: [2.0]\n"), 0o644))
	return path
}

func TestConfigFileValuesSurviveUnsetFlags(t *testing.T) {
	cmd := newSolveCmd()
	require.NoError(t, cmd.Flags().Set("config", writeTestConfig(t)))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Cells)
	assert.Equal(t, 5.0, cfg.Boundary)
	assert.Equal(t, []float64{2.0}, cfg.Sources)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	cmd := newSolveCmd()
	require.NoError(t, cmd.Flags().Set("config", writeTestConfig(t)))
	require.NoError(t, cmd.Flags().Set("cells", "4"))
	require.NoError(t, cmd.Flags().Set("boundary", "1.5"))
	require.NoError(t, cmd.Flags().Set("source", "3.0"))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Cells)
	assert.Equal(t, 1.5, cfg.Boundary)
	assert.Equal(t, []float64{3.0}, cfg.Sources)
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	cmd := newSolveCmd()

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
