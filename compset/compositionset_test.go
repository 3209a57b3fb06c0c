// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compset

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/phase"
)

func idealBinary() phase.Phase {
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

func TestBuildConstraintBasisNullSpace(tst *testing.T) {
	chk.PrintTitle("BuildConstraintBasisNullSpace")

	cs := New(idealBinary(), nil, nil)
	if err := cs.BuildConstraintBasis(); err != nil {
		tst.Fatalf("BuildConstraintBasis failed: %v", err)
	}
	rows, cols := cs.Z.Dims()
	if rows != len(cs.VarNames) {
		tst.Fatalf("Z rows = %d, want %d", rows, len(cs.VarNames))
	}
	// one sublattice constraint removes exactly one degree of freedom,
	// leaving (n_vars - 1) null-space columns
	if cols != len(cs.VarNames)-1 {
		tst.Fatalf("Z cols = %d, want %d", cols, len(cs.VarNames)-1)
	}
}

func TestObjectiveGradientScaling(tst *testing.T) {
	chk.PrintTitle("ObjectiveGradientScaling")

	cs := New(idealBinary(), nil, nil)
	c := conditions.NewEvalConditions([]string{"A", "B"}, []string{"LIQUID"})
	c.StateVars["T"] = 1000

	yA := cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "A")]
	yB := cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "B")]
	frac := cs.VarIndex[phase.PhaseFracVar("LIQUID")]

	x := make([]float64, len(cs.VarNames))
	x[yA] = 0.5
	x[yB] = 0.5
	x[frac] = 0.7

	full, err := cs.EvaluateObjectiveGradient(c, x)
	if err != nil {
		tst.Fatalf("EvaluateObjectiveGradient failed: %v", err)
	}
	single, err := cs.EvaluateSinglePhaseObjectiveGradient(c, x)
	if err != nil {
		tst.Fatalf("EvaluateSinglePhaseObjectiveGradient failed: %v", err)
	}
	chk.Float64(tst, "d/dyA scaled", 1e-9, full[yA], single[yA]*0.7)
	chk.Float64(tst, "d/dfrac unscaled", 1e-9, full[frac], single[frac])
}

func TestInternalGradientMatchesSymbolic(tst *testing.T) {
	chk.PrintTitle("InternalGradientMatchesSymbolic")

	cs := New(idealBinary(), nil, nil)
	c := conditions.NewEvalConditions([]string{"A", "B"}, []string{"LIQUID"})
	c.StateVars["T"] = 800

	yA := cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "A")]
	yB := cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "B")]
	frac := cs.VarIndex[phase.PhaseFracVar("LIQUID")]

	x := make([]float64, len(cs.VarNames))
	x[yA] = 0.3
	x[yB] = 0.7
	x[frac] = 1

	symbolic, err := cs.EvaluateSinglePhaseObjectiveGradient(c, x)
	if err != nil {
		tst.Fatalf("symbolic gradient failed: %v", err)
	}
	numeric, err := cs.EvaluateInternalObjectiveGradient(c, x)
	if err != nil {
		tst.Fatalf("numeric gradient failed: %v", err)
	}
	for i := range symbolic {
		chk.Float64(tst, "grad component", 1e-4, numeric[i], symbolic[i])
	}
}

func TestHessianSymmetricAndSparse(tst *testing.T) {
	chk.PrintTitle("HessianSymmetricAndSparse")

	cs := New(idealBinary(), nil, nil)
	c := conditions.NewEvalConditions([]string{"A", "B"}, []string{"LIQUID"})
	c.StateVars["T"] = 900

	yA := cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "A")]
	yB := cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "B")]
	frac := cs.VarIndex[phase.PhaseFracVar("LIQUID")]

	x := make([]float64, len(cs.VarNames))
	x[yA] = 0.4
	x[yB] = 0.6
	x[frac] = 1

	H, err := cs.EvaluateObjectiveHessianMatrix(c, x)
	if err != nil {
		tst.Fatalf("Hessian failed: %v", err)
	}
	for i := range H {
		for j := range H[i] {
			if H[i][j] != H[j][i] {
				tst.Fatalf("Hessian not symmetric at (%d,%d)", i, j)
			}
		}
	}
	if H[frac][frac] != 0 {
		tst.Errorf("d2/dfrac2 should be zero, got %g", H[frac][frac])
	}
}

func TestCloneWithRenamedPhaseEvaluatesIdentically(tst *testing.T) {
	chk.PrintTitle("CloneWithRenamedPhaseEvaluatesIdentically")

	cs := New(idealBinary(), nil, nil)
	clone := cs.CloneWithRenamedPhase("LIQUID#2")

	if clone.PhaseName != "LIQUID#2" {
		tst.Fatalf("clone.PhaseName = %q, want LIQUID#2", clone.PhaseName)
	}
	if clone.Phase.Name != "LIQUID#2" {
		tst.Fatalf("clone.Phase.Name = %q, want LIQUID#2", clone.Phase.Name)
	}
	for _, v := range clone.VarNames {
		if strings.Contains(v, "LIQUID") && !strings.Contains(v, "LIQUID#2") {
			tst.Fatalf("clone variable %q still references the original phase name", v)
		}
	}

	c := conditions.NewEvalConditions([]string{"A", "B"}, []string{"LIQUID", "LIQUID#2"})
	c.StateVars["T"] = 1000

	x := make([]float64, len(cs.VarNames))
	x[cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "A")]] = 0.4
	x[cs.VarIndex[phase.SiteFracVar("LIQUID", 0, "B")]] = 0.6
	x[cs.VarIndex[phase.PhaseFracVar("LIQUID")]] = 1
	orig, err := cs.EvaluateObjective(c, x)
	if err != nil {
		tst.Fatalf("original EvaluateObjective failed: %v", err)
	}

	xc := make([]float64, len(clone.VarNames))
	xc[clone.VarIndex[phase.SiteFracVar("LIQUID#2", 0, "A")]] = 0.4
	xc[clone.VarIndex[phase.SiteFracVar("LIQUID#2", 0, "B")]] = 0.6
	xc[clone.VarIndex[phase.PhaseFracVar("LIQUID#2")]] = 1
	cloned, err := clone.EvaluateObjective(c, xc)
	if err != nil {
		tst.Fatalf("clone EvaluateObjective failed: %v", err)
	}
	chk.Float64(tst, "clone energy matches original at same composition", 1e-9, cloned, orig)
}
