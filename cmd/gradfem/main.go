// Copyright 2026 GradFEM Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Command gradfem demonstrates the differentiable bridge on a 1D
// Poisson problem: it solves -u'' = f with constant Dirichlet data for
// a batch of source values, plots the solution, and reports the
// adjoint sensitivity of the mean solution value per input.
package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/gradfem-ml/gradfem/bridge"
	"github.com/gradfem-ml/gradfem/fem"
	"github.com/gradfem-ml/gradfem/internal/config"
	"github.com/gradfem-ml/gradfem/internal/serialization"
	"github.com/gradfem-ml/gradfem/tensor"
)

const version = "v0.1.0-dev"

var (
	configFile string
	cells      int
	boundary   float64
	sources    []float64
	outputFile string
)

// poisson1D solves -u'' = f on the unit interval with u = g on the
// boundary. Both f and g are scalar constants and differentiable
// inputs.
type poisson1D struct {
	V *fem.FunctionSpace
}

func newPoisson1D(cells int) (*poisson1D, error) {
	mesh := fem.NewUnitIntervalMesh(cells)
	V, err := fem.NewFunctionSpace(mesh, fem.P1)
	if err != nil {
		return nil, err
	}
	return &poisson1D{V: V}, nil
}

func (p *poisson1D) InputTemplates() []fem.Value {
	return []fem.Value{fem.NewConstant(0), fem.NewConstant(0)}
}

func (p *poisson1D) Forward(inputs ...fem.Value) ([]fem.Value, error) {
	f, g := inputs[0], inputs[1]

	bc, err := fem.NewDirichletBC(p.V, g)
	if err != nil {
		return nil, err
	}
	u, err := fem.SolveLinear(fem.Stiffness(p.V), fem.Source(p.V, f), bc)
	if err != nil {
		return nil, err
	}
	return []fem.Value{u}, nil
}

// resolveConfig overlays explicitly set flags on the loaded (or
// default) configuration. Unset flags leave config-file values intact.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("cells") {
		cfg.Cells = cells
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("source") {
		cfg.Sources = sources
	}
	return cfg, cfg.Validate()
}

func runSolve(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	problem, err := newPoisson1D(cfg.Cells)
	if err != nil {
		return err
	}
	module, err := bridge.New(problem)
	if err != nil {
		return err
	}

	batch := len(cfg.Sources)
	f := make([][]float64, batch)
	g := make([][]float64, batch)
	for s, src := range cfg.Sources {
		f[s] = []float64{src}
		g[s] = []float64{cfg.Boundary}
	}

	outs, rec, err := module.Invoke(f, g)
	if err != nil {
		return err
	}

	u := outs[0].AsFloat64()
	n := cfg.Cells + 1
	for s := 0; s < batch; s++ {
		fmt.Printf("sample %d: f = %g, g = %g\n", s, cfg.Sources[s], cfg.Boundary)
		fmt.Println(asciigraph.Plot(u[s*n:(s+1)*n],
			asciigraph.Height(10),
			asciigraph.Caption(fmt.Sprintf("u(x) on [0,1], %d cells", cfg.Cells))))
		fmt.Println()
	}

	// Sensitivity of the mean solution value via the adjoint.
	seed := make([][]float64, batch)
	for s := range seed {
		seed[s] = make([]float64, n)
		for i := range seed[s] {
			seed[s][i] = 1 / float64(n)
		}
	}
	grads, err := rec.Backward(seed)
	if err != nil {
		return err
	}
	df := grads[0].AsFloat64()
	dg := grads[1].AsFloat64()
	for s := 0; s < batch; s++ {
		fmt.Printf("sample %d: d(mean u)/df = %.6f, d(mean u)/dg = %.6f\n", s, df[s], dg[s])
	}

	if outputFile != "" {
		snapshot := map[string]*tensor.RawTensor{
			"u":      outs[0],
			"grad/f": grads[0],
			"grad/g": grads[1],
		}
		meta := map[string]string{
			"problem": "poisson1d",
			"cells":   fmt.Sprint(cfg.Cells),
		}
		if err := serialization.Save(outputFile, snapshot, meta); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outputFile)
	}
	return nil
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a batch of 1D Poisson problems through the bridge",
		RunE:  runSolve,
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	cmd.Flags().IntVar(&cells, "cells", config.DefaultCells, "number of mesh cells")
	cmd.Flags().Float64Var(&boundary, "boundary", config.DefaultBoundary, "Dirichlet boundary value")
	cmd.Flags().Float64SliceVar(&sources, "source", nil, "constant source values, one per batch sample")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write solutions and sensitivities to a .gfs snapshot")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:   "gradfem",
		Short: "Differentiable finite-element bridge demo",
	}

	solveCmd := newSolveCmd()

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gradfem %s\n", version)
		},
	}

	root.AddCommand(solveCmd, versionCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
