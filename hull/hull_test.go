// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hull

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/Teslos/pycalphad/compset"
	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/phase"
)

func TestLowerHullSinglePoint(tst *testing.T) {
	chk.PrintTitle("LowerHullSinglePoint")

	facets, err := LowerHull([]Point{{Coords: nil, Energy: -100}})
	if err != nil {
		tst.Fatalf("LowerHull failed: %v", err)
	}
	if len(facets) != 1 || len(facets[0].VertexIDs) != 1 {
		tst.Fatalf("expected one degenerate single-vertex facet, got %+v", facets)
	}
}

func TestLowerHullIdealBinaryFacetsAreEdges(tst *testing.T) {
	chk.PrintTitle("LowerHullIdealBinaryFacetsAreEdges")

	const R = conditions.R
	const T = 1000.0
	n := 21
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		yB := float64(i) / float64(n-1)
		yA := 1 - yB
		e := 0.0
		if yA > 0 {
			e += yA * math.Log(yA)
		}
		if yB > 0 {
			e += yB * math.Log(yB)
		}
		pts[i] = Point{Coords: []float64{yB}, Energy: R * T * e}
	}
	facets, err := LowerHull(pts)
	if err != nil {
		tst.Fatalf("LowerHull failed: %v", err)
	}
	if len(facets) == 0 {
		tst.Fatalf("expected at least one lower-hull facet")
	}
	for _, f := range facets {
		if len(f.VertexIDs) != 2 {
			tst.Fatalf("expected binary edges (2 vertices), got %d", len(f.VertexIDs))
		}
	}
	// the midpoint yB=0.5 must be a hull vertex: it is the unique global
	// minimum of the strictly convex R*T*(y ln y + (1-y) ln(1-y)) curve.
	found := false
	for _, f := range facets {
		for _, vid := range f.VertexIDs {
			if math.Abs(pts[vid].Coords[0]-0.5) < 1e-9 {
				found = true
			}
		}
	}
	if !found {
		tst.Fatalf("expected yB=0.5 on the lower hull")
	}
}

func idealBinaryPhase() phase.Phase {
	return phase.Phase{
		Name: "LIQUID",
		Sublattices: []phase.Sublattice{
			{Multiplicity: 1, Entries: []phase.SublatticeEntry{
				{Species: phase.Species{Name: "A"}},
				{Species: phase.Species{Name: "B"}},
			}},
		},
	}
}

func TestFindTiePointsIdealBinary(tst *testing.T) {
	chk.PrintTitle("FindTiePointsIdealBinary")

	p := idealBinaryPhase()
	cs := compset.New(p, nil, nil)
	conds := conditions.NewEvalConditions([]string{"A", "B"}, []string{"LIQUID"})
	conds.StateVars["T"] = 1000
	conds.Xfrac["A"] = 0.5
	conds.Xfrac["B"] = 0.5

	m := NewHullMap()
	n := 21
	for i := 0; i < n; i++ {
		yB := float64(i) / float64(n-1)
		yA := 1 - yB
		x := make([]float64, len(cs.VarNames))
		x[cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "A")]] = yA
		x[cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "B")]] = yB
		x[cs.VarIndex[phase.PhaseFracVar("LIQUID")]] = 1
		e, err := cs.EvaluateObjective(conds, x)
		if err != nil {
			tst.Fatalf("EvaluateObjective failed: %v", err)
		}
		m.Add(HullPoint{
			PhaseName:      "LIQUID",
			InternalCoords: []float64{yB},
			SiteFracs:      [][]float64{{yA, yB}},
			MoleFracs:      []float64{yA, yB},
			Energy:         e,
		})
	}

	facets, err := GlobalLowerHull(m)
	if err != nil {
		tst.Fatalf("GlobalLowerHull failed: %v", err)
	}

	css := map[string]*compset.CompositionSet{"LIQUID": cs}
	tps, err := FindTiePoints(facets, m, []float64{0.5}, TiePointOptions{}, css, conds)
	if err != nil {
		tst.Fatalf("FindTiePoints failed: %v", err)
	}
	if len(tps) != 1 {
		tst.Fatalf("expected a single tie point (x_B=0.5 is the pure minimum), got %d", len(tps))
	}
	if math.Abs(tps[0].MoleFracs[1]-0.5) > 1e-6 {
		tst.Errorf("tie point x_B = %g, want 0.5", tps[0].MoleFracs[1])
	}
	if math.Abs(tps[0].PhaseFraction-1) > 1e-9 {
		tst.Errorf("phase fraction = %g, want 1", tps[0].PhaseFraction)
	}
	wantEnergy := conditions.R * 1000 * math.Log(0.5)
	chk.Float64(tst, "tie-point energy", 1e-3, tps[0].Energy, wantEnergy)
}

func TestFindTiePointsInfeasibleReturnsEmpty(tst *testing.T) {
	chk.PrintTitle("FindTiePointsInfeasibleReturnsEmpty")

	p := idealBinaryPhase()
	cs := compset.New(p, nil, nil)
	conds := conditions.NewEvalConditions([]string{"A", "B"}, []string{"LIQUID"})
	conds.StateVars["T"] = 1000

	m := NewHullMap()
	// facet spans only x_B in [0.4, 0.6]; a trial point far outside is
	// infeasible for it.
	for _, yB := range []float64{0.4, 0.6} {
		yA := 1 - yB
		m.Add(HullPoint{
			PhaseName:      "LIQUID",
			InternalCoords: []float64{yB},
			SiteFracs:      [][]float64{{yA, yB}},
			MoleFracs:      []float64{yA, yB},
			Energy:         conditions.R * 1000 * (yA*math.Log(yA) + yB*math.Log(yB)),
		})
	}
	facets, err := GlobalLowerHull(m)
	if err != nil {
		tst.Fatalf("GlobalLowerHull failed: %v", err)
	}
	css := map[string]*compset.CompositionSet{"LIQUID": cs}
	tps, err := FindTiePoints(facets, m, []float64{0.99}, TiePointOptions{}, css, conds)
	if err != nil {
		tst.Fatalf("FindTiePoints failed: %v", err)
	}
	if len(tps) != 0 {
		tst.Fatalf("expected no tie points for an out-of-range trial point, got %d", len(tps))
	}
}

func TestFindTiePointsTwoPhaseEutectic(tst *testing.T) {
	chk.PrintTitle("FindTiePointsTwoPhaseEutectic")

	conds := conditions.NewEvalConditions([]string{"A", "B"}, []string{"ALPHA", "BETA"})
	conds.StateVars["T"] = 500

	m := NewHullMap()
	// ALPHA is stable (low energy) near x_B=0.2, BETA near x_B=0.7: a
	// straight tie line should form between them and admit both as
	// distinct-phase vertices regardless of internal distance.
	m.Add(HullPoint{PhaseName: "ALPHA", InternalCoords: []float64{0.2}, SiteFracs: [][]float64{{0.8, 0.2}}, MoleFracs: []float64{0.8, 0.2}, Energy: -8000})
	m.Add(HullPoint{PhaseName: "BETA", InternalCoords: []float64{0.7}, SiteFracs: [][]float64{{0.3, 0.7}}, MoleFracs: []float64{0.3, 0.7}, Energy: -6000})

	facets, err := GlobalLowerHull(m)
	if err != nil {
		tst.Fatalf("GlobalLowerHull failed: %v", err)
	}
	css := map[string]*compset.CompositionSet{}
	tps, err := FindTiePoints(facets, m, []float64{0.4}, TiePointOptions{}, css, conds)
	if err != nil {
		tst.Fatalf("FindTiePoints failed: %v", err)
	}
	if len(tps) != 2 {
		tst.Fatalf("expected two tie points (one per phase), got %d", len(tps))
	}
	sum := 0.0
	for _, tp := range tps {
		sum += tp.PhaseFraction
	}
	chk.Float64(tst, "lever-rule fractions sum to 1", 1e-9, sum, 1)
}

func TestMergeSamePhaseDropsCloseDuplicate(tst *testing.T) {
	chk.PrintTitle("MergeSamePhaseDropsCloseDuplicate")

	m := NewHullMap()
	id0 := m.Add(HullPoint{PhaseName: "FCC_A1", InternalCoords: []float64{0.50}})
	id1 := m.Add(HullPoint{PhaseName: "FCC_A1", InternalCoords: []float64{0.51}}) // 0.01 apart < 0.05 default
	ids := mergeSamePhase([]int{id0, id1}, m, 0.05)
	if len(ids) != 1 {
		tst.Fatalf("expected merge to drop one of the two close same-phase points, got %d survivors", len(ids))
	}
}

func TestConvertSiteFractionsToMoleFractionsEndmemberIsBasisVector(tst *testing.T) {
	chk.PrintTitle("ConvertSiteFractionsToMoleFractionsEndmemberIsBasisVector")

	p := phase.Phase{
		Name: "FCC_A1",
		Sublattices: []phase.Sublattice{
			{Multiplicity: 1, Entries: []phase.SublatticeEntry{{Species: phase.Species{Name: "A"}}}},
			{Multiplicity: 1, Entries: []phase.SublatticeEntry{{Species: phase.Species{Name: "A"}}}},
		},
	}
	x := ConvertSiteFractionsToMoleFractions(p, [][]float64{{1}, {1}}, []string{"A", "B"})
	chk.Float64(tst, "x_A", 1e-12, x[0], 1)
	chk.Float64(tst, "x_B", 1e-12, x[1], 0)
}

func TestDropRestoreDependentDimensionsRoundTrip(tst *testing.T) {
	chk.PrintTitle("DropRestoreDependentDimensionsRoundTrip")

	x := []float64{0.2, 0.3, 0.5}
	restored := RestoreDependentDimensions(DropDependentDimensions(x))
	for i := range x {
		chk.Float64(tst, "component", 1e-12, restored[i], x[i])
	}
}

func TestDropRestoreDependentSiteFracsRoundTrip(tst *testing.T) {
	chk.PrintTitle("DropRestoreDependentSiteFracsRoundTrip")

	siteFracs := [][]float64{{0.3, 0.7}, {1}, {0.2, 0.5, 0.3}}
	shape := []int{2, 1, 3}
	restored := RestoreDependentSiteFracs(DropDependentSiteFracs(siteFracs), shape)
	for i := range siteFracs {
		for j := range siteFracs[i] {
			chk.Float64(tst, "site fraction", 1e-12, restored[i][j], siteFracs[i][j])
		}
	}
}
