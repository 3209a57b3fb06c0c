// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gmin implements GlobalMinimizer, the top-level orchestrator of
// §5: for each active phase, sample its internal composition space, reduce
// it to an internal lower hull, assemble every phase's survivors into one
// global hull map, and extract tie points against the user's target
// composition.
package gmin

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/Teslos/pycalphad/compset"
	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/hull"
	"github.com/Teslos/pycalphad/phase"
	"github.com/Teslos/pycalphad/sample"
)

// GlobalMinimizer owns the phase catalogue for one system and runs the
// sample -> internal-hull -> global-hull -> tie-point pipeline against
// whatever EvalConditions it is given. It is single-threaded and
// synchronous, matching the teacher's own un-parallelised sequential
// analysis loop when MPI is not requested.
type GlobalMinimizer struct {
	Phases          []phase.Phase
	Params          []phase.Parameter
	Symbols         expr.SymbolTable
	SampleOptions   sample.Options
	TiePointOptions hull.TiePointOptions
	Verbose         bool

	compositionSets map[string]*compset.CompositionSet
}

// New builds a GlobalMinimizer over phases, with params and syms shared by
// every phase's CompositionSet (a parameter's own Phase field selects which
// phase it applies to, mirroring models.BuildAllModels' filtering).
func New(phases []phase.Phase, params []phase.Parameter, syms expr.SymbolTable) *GlobalMinimizer {
	return &GlobalMinimizer{
		Phases:          phases,
		Params:          params,
		Symbols:         syms,
		compositionSets: map[string]*compset.CompositionSet{},
	}
}

// compositionSetFor lazily builds and caches the CompositionSet for a
// phase, so repeated Run calls (e.g. scanning a temperature range) reuse
// the AST/derivative work.
func (g *GlobalMinimizer) compositionSetFor(p phase.Phase) *compset.CompositionSet {
	if cs, ok := g.compositionSets[p.Name]; ok {
		return cs
	}
	var own []phase.Parameter
	for _, pm := range g.Params {
		if pm.Phase == p.Name {
			own = append(own, pm)
		}
	}
	cs := compset.New(p, own, g.Symbols)
	g.compositionSets[p.Name] = cs
	return cs
}

// Run executes the full pipeline for conds, returning the tie points at
// conds.Xfrac (in conds.IndependentElements order). A ConstraintBasisFailure
// panic raised by any CompositionSet is recovered here and surfaced as an
// error, matching main.go's top-level recover() discipline (§7).
func (g *GlobalMinimizer) Run(conds *conditions.EvalConditions) (tps []hull.TiePoint, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gmin: %v", r)
		}
	}()

	m := hull.NewHullMap()
	elements := conds.IndependentElements()

	for _, p := range g.Phases {
		if conds.Phases[p.Name] == conditions.Suspended {
			continue
		}
		cs := g.compositionSetFor(p)
		if err := cs.BuildConstraintBasis(); err != nil {
			return nil, err
		}

		pts, err := sample.PointSample(cs, conds, g.SampleOptions)
		if err != nil {
			return nil, fmt.Errorf("gmin: %s: sampling failed: %w", p.Name, err)
		}
		if g.Verbose {
			io.Pf("gmin: %s: sampled %d points\n", p.Name, len(pts))
		}

		shape := sublatticeShape(p)
		survivors, _, err := hull.InternalHull(pts, shape)
		if err != nil {
			return nil, fmt.Errorf("gmin: %s: internal hull failed: %w", p.Name, err)
		}
		if g.Verbose {
			io.Pfcyan("gmin: %s: internal hull kept %d/%d points\n", p.Name, len(survivors), len(pts))
		}

		for _, sp := range survivors {
			mole := hull.ConvertSiteFractionsToMoleFractions(p, sp.SiteFracs, conds.Elements)
			m.Add(hull.HullPoint{
				PhaseName:      p.Name,
				InternalCoords: hull.DropDependentSiteFracs(sp.SiteFracs),
				SiteFracs:      sp.SiteFracs,
				MoleFracs:      mole,
				Energy:         sp.Energy,
			})
		}
	}

	if m.Len() == 0 {
		return nil, nil
	}

	facets, err := hull.GlobalLowerHull(m)
	if err != nil {
		return nil, fmt.Errorf("gmin: global hull failed: %w", err)
	}
	if g.Verbose {
		io.Pf("gmin: global hull: %d points, %d facets\n", m.Len(), len(facets))
	}

	xbar := make([]float64, len(elements))
	for i, el := range elements {
		xbar[i] = conds.Xfrac[el]
	}

	tps, err = hull.FindTiePoints(facets, m, xbar, g.TiePointOptions, g.compositionSets, conds)
	if err != nil {
		return nil, fmt.Errorf("gmin: tie-point extraction failed: %w", err)
	}
	if err := g.renameDuplicatePhases(tps); err != nil {
		return nil, err
	}
	return tps, nil
}

// renameDuplicatePhases appends "#2", "#3", ... to the PhaseName of every
// tie point beyond the first one sharing a phase name -- the naming
// convention real CALPHAD tools use to report miscibility-gap instances of
// the same phase as distinct compositions -- and caches a renamed
// CompositionSet for each one via CloneWithRenamedPhase, so a caller that
// goes on to re-evaluate a miscibility-gap tie point's energy or gradient
// finds it under its disambiguated name.
func (g *GlobalMinimizer) renameDuplicatePhases(tps []hull.TiePoint) error {
	seen := map[string]int{}
	for i := range tps {
		name := tps[i].PhaseName
		seen[name]++
		if n := seen[name]; n > 1 {
			newName := fmt.Sprintf("%s#%d", name, n)
			renamed, err := g.RenamedCompositionSet(name, newName)
			if err != nil {
				return fmt.Errorf("gmin: renaming duplicate phase %q: %w", name, err)
			}
			g.compositionSets[newName] = renamed
			tps[i].PhaseName = newName
		}
	}
	return nil
}

func sublatticeShape(p phase.Phase) []int {
	shape := make([]int, len(p.Sublattices))
	for i, s := range p.Sublattices {
		shape[i] = len(s.Entries)
	}
	return shape
}

// RenamedCompositionSet returns a CompositionSet for a renamed ("#2"-style)
// phase instance, built via compset.CloneWithRenamedPhase, for callers that
// need to re-evaluate a miscibility-gap tie point's energy/gradient under
// its disambiguated name.
func (g *GlobalMinimizer) RenamedCompositionSet(baseName, newName string) (*compset.CompositionSet, error) {
	cs, ok := g.compositionSets[baseName]
	if !ok {
		return nil, chk.Err("gmin: no composition set cached for phase %q", baseName)
	}
	return cs.CloneWithRenamedPhase(newName), nil
}
