// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagnostics plays the role msolid/plotter.go and mreten/plot.go
// play in the teacher: optional, gosl/plt-based visualisation of a
// calculation already performed elsewhere. Nothing in this package is
// consumed by sample, hull or gmin -- every exported function recovers
// from its own panics (a missing display backend, an unplottable
// dimensionality) and reports them as an error instead of letting them
// escape, so a diagnostics failure can never affect a minimization result
// (§4.7).
package diagnostics

import (
	"fmt"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/Teslos/pycalphad/compset"
	"github.com/Teslos/pycalphad/hull"
	"github.com/Teslos/pycalphad/sample"
)

// PlotPhaseEnergyOptions configures PlotPhaseEnergy; zero values fall back
// to sensible plot defaults.
type PlotPhaseEnergyOptions struct {
	SaveDir  string // if non-empty, figure is written here instead of shown
	SaveName string // file key, without extension
	Show     bool   // call plt.Show() after plotting
	Title    string
}

// PlotPhaseEnergy renders cs's phase energy against its sampled points
// (all, including discarded-unstable ones) with the survivors of the
// internal lower hull overlaid in a contrasting marker, for a phase with
// exactly one free internal coordinate (a binary solution on a single
// sublattice, or any phase whose DropDependentSiteFracs has length 1).
// Higher dimensionality is reported as an error rather than attempted: a
// 2-D contour is out of scope for this debugging aid.
func PlotPhaseEnergy(cs *compset.CompositionSet, all, survivors []sample.Point, opts PlotPhaseEnergyOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("diagnostics: PlotPhaseEnergy panicked: %v", r)
		}
	}()

	if len(all) == 0 {
		return fmt.Errorf("diagnostics: PlotPhaseEnergy: no sampled points for %s", cs.PhaseName)
	}
	if d := len(hull.DropDependentSiteFracs(all[0].SiteFracs)); d != 1 {
		return fmt.Errorf("diagnostics: PlotPhaseEnergy: %s has %d free internal coordinates, only 1-D phases are plotted", cs.PhaseName, d)
	}

	x := make([]float64, len(all))
	y := make([]float64, len(all))
	for i, p := range all {
		x[i] = hull.DropDependentSiteFracs(p.SiteFracs)[0]
		y[i] = p.Energy
	}
	plt.Plot(x, y, io.Sf("'b.', ms=3, clip_on=0, label='%s samples'", cs.PhaseName))

	if len(survivors) > 0 {
		hx := make([]float64, len(survivors))
		hy := make([]float64, len(survivors))
		for i, p := range survivors {
			hx[i] = hull.DropDependentSiteFracs(p.SiteFracs)[0]
			hy[i] = p.Energy
		}
		plt.Plot(hx, hy, io.Sf("'ro-', ms=6, clip_on=0, label='%s hull'", cs.PhaseName))
	}

	title := opts.Title
	if title == "" {
		title = cs.PhaseName
	}
	plt.Gll("$y$", "$G$", "leg_out=1, leg_ncol=2")
	plt.SupTitle(title, "size=10")

	if opts.SaveName != "" {
		if opts.SaveDir != "" {
			plt.SaveD(opts.SaveDir, opts.SaveName+".png")
		} else {
			plt.Save(opts.SaveName + ".png")
		}
	}
	if opts.Show {
		plt.Show()
	}
	return nil
}

// PlotGlobalHullOptions configures PlotGlobalHull.
type PlotGlobalHullOptions struct {
	SaveDir  string
	SaveName string
	Show     bool
	Title    string
}

// PlotGlobalHull renders the full assembled point cloud of m (mole
// fraction of the first independent element on the x-axis, energy on the
// y-axis) and highlights the vertices of selected (typically the
// FindTiePoints winner) with a distinct marker. Only the binary-system
// projection (one independent element) is drawn; ternary and higher
// systems report an error instead of attempting a 3-D plot.
func PlotGlobalHull(m *hull.HullMap, selected *hull.Facet, opts PlotGlobalHullOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("diagnostics: PlotGlobalHull panicked: %v", r)
		}
	}()

	all := m.All()
	if len(all) == 0 {
		return fmt.Errorf("diagnostics: PlotGlobalHull: empty hull map")
	}
	if len(all[0].MoleFracs) != 2 {
		return fmt.Errorf("diagnostics: PlotGlobalHull: only binary (2-element) systems are plotted, got %d elements", len(all[0].MoleFracs))
	}

	x := make([]float64, len(all))
	y := make([]float64, len(all))
	for i, p := range all {
		x[i] = p.MoleFracs[0]
		y[i] = p.Energy
	}
	plt.Plot(x, y, "'k.', ms=3, clip_on=0, label='candidates'")

	if selected != nil {
		sx := make([]float64, len(selected.VertexIDs))
		sy := make([]float64, len(selected.VertexIDs))
		for i, vid := range selected.VertexIDs {
			hp := m.Get(vid)
			sx[i] = hp.MoleFracs[0]
			sy[i] = hp.Energy
		}
		plt.Plot(sx, sy, "'rs-', ms=8, clip_on=0, label='selected tie facet'")
	}

	title := opts.Title
	if title == "" {
		title = "global hull"
	}
	plt.Gll("$x$", "$G$", "leg_out=1, leg_ncol=2")
	plt.SupTitle(title, "size=10")

	if opts.SaveName != "" {
		if opts.SaveDir != "" {
			plt.SaveD(opts.SaveDir, opts.SaveName+".png")
		} else {
			plt.Save(opts.SaveName + ".png")
		}
	}
	if opts.Show {
		plt.Show()
	}
	return nil
}
