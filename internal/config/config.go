// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config holds the YAML-backed configuration for the gradfem
// CLI demo.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the demo Poisson solve.
const (
	DefaultCells    = 32
	DefaultSource   = 1.0
	DefaultBoundary = 0.0
)

// Config describes one demo run: a 1D Poisson problem with a constant
// source per batch sample and a shared boundary value.
type Config struct {
	Cells    int       `yaml:"cells"`
	Boundary float64   `yaml:"boundary"`
	Sources  []float64 `yaml:"sources"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Cells:    DefaultCells,
		Boundary: DefaultBoundary,
		Sources:  []float64{DefaultSource},
	}
}

// Load reads a configuration file, applying defaults for omitted
// fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Cells < 1 {
		return fmt.Errorf("cells must be positive, got %d", c.Cells)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source value is required")
	}
	return nil
}
