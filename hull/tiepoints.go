// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hull

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Teslos/pycalphad/compset"
	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/phase"
)

// TiePointOptions carries the two tunables governing tie-point extraction;
// zero values fall back to the spec defaults.
type TiePointOptions struct {
	CoplanarityAllowance float64 // default 0.001
	CriticalEdgeLength   float64 // default 0.05
}

func (o *TiePointOptions) setDefaults() {
	if o.CoplanarityAllowance == 0 {
		o.CoplanarityAllowance = 0.001
	}
	if o.CriticalEdgeLength == 0 {
		o.CriticalEdgeLength = 0.05
	}
}

// TiePoint is one phase composition admitted to the equilibrium tie
// hyperplane, with its lever-rule amount.
type TiePoint struct {
	PhaseName     string
	SiteFracs     [][]float64
	MoleFracs     []float64
	Energy        float64
	PhaseFraction float64
}

// FindTiePoints implements §4.6's tie-point extraction: locate the
// smallest-area global-hull facet containing xbar (the user's overall
// mole fraction over independent components), filter its vertex pairs
// into true tie lines, merge near-duplicate same-phase tie points, and
// assign lever-rule phase fractions. Returns an empty (nil) slice, not an
// error, when no facet contains xbar (InfeasibleCondition, §7).
func FindTiePoints(facets []Facet, m *HullMap, xbar []float64, opts TiePointOptions, css map[string]*compset.CompositionSet, conds *conditions.EvalConditions) ([]TiePoint, error) {
	opts.setDefaults()

	var bestFacet *Facet
	bestArea := math.Inf(1)
	for i := range facets {
		f := &facets[i]
		basis, err := buildBasisMatrix(*f, m)
		if err != nil {
			continue // degenerate facet: cannot test containment, skip
		}
		bc := barycentric(basis, xbar)
		if anyNegative(bc) {
			continue
		}
		if f.Area < bestArea {
			bestArea = f.Area
			bestFacet = f
		}
	}
	if bestFacet == nil {
		return nil, nil
	}

	admitted := map[int]bool{}
	verts := bestFacet.VertexIDs
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			a, b := m.Get(verts[i]), m.Get(verts[j])
			if a.PhaseName != b.PhaseName {
				admitted[verts[i]] = true
				admitted[verts[j]] = true
				continue
			}
			if internalDistance(a.InternalCoords, b.InternalCoords) <= opts.CriticalEdgeLength {
				continue
			}
			trueTie, err := isTrueTieLine(a, b, css, conds, opts.CoplanarityAllowance)
			if err != nil {
				return nil, err
			}
			if trueTie {
				admitted[verts[i]] = true
				admitted[verts[j]] = true
			}
		}
	}
	if len(admitted) == 0 {
		admitted[verts[0]] = true
	}

	ids := make([]int, 0, len(admitted))
	for id := range admitted {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	ids = mergeSamePhase(ids, m, opts.CriticalEdgeLength)

	fracs, err := leverRuleFractions(ids, m, xbar)
	if err != nil {
		return nil, err
	}
	out := make([]TiePoint, len(ids))
	for i, id := range ids {
		hp := m.Get(id)
		out[i] = TiePoint{PhaseName: hp.PhaseName, SiteFracs: hp.SiteFracs, MoleFracs: hp.MoleFracs, Energy: hp.Energy, PhaseFraction: fracs[i]}
	}
	return out, nil
}

// buildBasisMatrix inverts the augmented vertex matrix of f (each column
// [independent mole fractions; 1]), which downstream use requires per §9's
// resolved Open Question: matrix inversion, left commented out in the
// original source, is performed here.
func buildBasisMatrix(f Facet, m *HullMap) (*mat.Dense, error) {
	k := len(f.VertexIDs)
	Vaug := mat.NewDense(k, k, nil)
	for col, vid := range f.VertexIDs {
		indep := DropDependentDimensions(m.Get(vid).MoleFracs)
		if len(indep) != k-1 {
			return nil, fmt.Errorf("hull: facet vertex dimension mismatch")
		}
		for row, v := range indep {
			Vaug.Set(row, col, v)
		}
		Vaug.Set(k-1, col, 1)
	}
	var inv mat.Dense
	if err := inv.Inverse(Vaug); err != nil {
		return nil, fmt.Errorf("hull: ConstraintBasisFailure: facet vertex matrix is singular: %w", err)
	}
	return &inv, nil
}

// barycentric multiplies basis by the augmented trial point [xbar; 1].
func barycentric(basis *mat.Dense, xbar []float64) []float64 {
	k, _ := basis.Dims()
	aug := mat.NewDense(k, 1, nil)
	for i := 0; i < k-1 && i < len(xbar); i++ {
		aug.Set(i, 0, xbar[i])
	}
	aug.Set(k-1, 0, 1)
	var res mat.Dense
	res.Mul(basis, aug)
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		out[i] = res.At(i, 0)
	}
	return out
}

// anyNegative rejects strictly-negative barycentric components only
// (§7: "rejected exactly at zero, no tolerance" -- zero is on-boundary and
// admitted).
func anyNegative(bc []float64) bool {
	for _, v := range bc {
		if v < 0 {
			return true
		}
	}
	return false
}

func internalDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// mergeSamePhase implements §4.6 step 4: drop one of any two same-phase
// admitted points closer than CriticalEdgeLength, restarting the pairwise
// scan after every mutation since dropping invalidates the cursor.
func mergeSamePhase(ids []int, m *HullMap, critical float64) []int {
	for {
		merged := false
		for i := 0; i < len(ids) && !merged; i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := m.Get(ids[i]), m.Get(ids[j])
				if a.PhaseName == b.PhaseName && internalDistance(a.InternalCoords, b.InternalCoords) <= critical {
					ids = append(ids[:j], ids[j+1:]...)
					merged = true
					break
				}
			}
		}
		if !merged {
			break
		}
	}
	return ids
}

// isTrueTieLine implements the midpoint true-energy oracle of §4.6: always
// true between different phases; between two points of the same phase, the
// midpoint's internal coordinates are averaged and the phase's model AST
// re-evaluates the true energy there, compared against the lever-rule
// (linearly interpolated) energy.
func isTrueTieLine(a, b HullPoint, css map[string]*compset.CompositionSet, conds *conditions.EvalConditions, allowance float64) (bool, error) {
	if a.PhaseName != b.PhaseName {
		return true, nil
	}
	cs, ok := css[a.PhaseName]
	if !ok {
		return true, nil
	}
	mid := averageSiteFracs(a.SiteFracs, b.SiteFracs)
	x := make([]float64, len(cs.VarNames))
	for subl, ys := range mid {
		names := cs.Phase.Sublattices[subl].SpeciesNames()
		for k, name := range names {
			x[cs.VarIndex[phase.SiteFracVar(cs.PhaseName, subl, name)]] = ys[k]
		}
	}
	x[cs.VarIndex[phase.PhaseFracVar(cs.PhaseName)]] = 1
	trueEnergy, err := cs.EvaluateObjective(conds, x)
	if err != nil {
		return false, err
	}
	leverEnergy := (a.Energy + b.Energy) / 2
	if leverEnergy == 0 {
		return math.Abs(trueEnergy-leverEnergy) >= allowance, nil
	}
	rel := (trueEnergy - leverEnergy) / math.Abs(leverEnergy)
	return rel >= allowance, nil
}

func averageSiteFracs(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i := range a {
		out[i] = make([]float64, len(a[i]))
		for j := range a[i] {
			out[i][j] = (a[i][j] + b[i][j]) / 2
		}
	}
	return out
}

// leverRuleFractions solves for the phase amounts f (summing to 1) whose
// weighted mole fractions reproduce xbar: one sole tie point trivially
// carries fraction 1; otherwise solves the (len(xbar)+1)-equation linear
// system (one row per independent element, plus Σf=1) via gonum.
func leverRuleFractions(ids []int, m *HullMap, xbar []float64) ([]float64, error) {
	n := len(ids)
	if n == 1 {
		return []float64{1}, nil
	}
	d := len(xbar)
	A := mat.NewDense(d+1, n, nil)
	b := mat.NewDense(d+1, 1, nil)
	for col, id := range ids {
		hp := m.Get(id)
		for row := 0; row < d; row++ {
			A.Set(row, col, hp.MoleFracs[row])
		}
		A.Set(d, col, 1)
	}
	for row := 0; row < d; row++ {
		b.Set(row, 0, xbar[row])
	}
	b.Set(d, 0, 1)
	var x mat.Dense
	if err := x.Solve(A, b); err != nil {
		return nil, fmt.Errorf("hull: lever rule solve failed: %w", err)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = x.At(i, 0)
	}
	return out, nil
}
