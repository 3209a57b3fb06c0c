// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/phase"
)

func binaryPhase() phase.Phase {
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

func TestIdealMixingSymmetricAtHalf(tst *testing.T) {
	chk.PrintTitle("IdealMixingSymmetricAtHalf")

	p := binaryPhase()
	ast := IdealMixing{}.AST(p, nil)
	vals := expr.Values{
		StateVars: map[string]float64{"T": 1000},
		VarIndex: map[string]int{
			phase.SiteFracVar("LIQUID", 0, "A"): 0,
			phase.SiteFracVar("LIQUID", 0, "B"): 1,
		},
		X: []float64{0.5, 0.5},
	}
	v, err := expr.Evaluate(ast, vals, nil)
	if err != nil {
		tst.Fatalf("evaluate failed: %v", err)
	}
	// R*T*(0.5*ln0.5 + 0.5*ln0.5) = R*T*ln(0.5)
	expected := 8.3145 * 1000 * (0.5*math.Log(0.5) + 0.5*math.Log(0.5))
	chk.Float64(tst, "G_ideal(0.5)", 1e-6, v, expected)
}

func TestPureCompoundEndmemberOnly(tst *testing.T) {
	chk.PrintTitle("PureCompoundEndmemberOnly")

	p := binaryPhase()
	gA := expr.NumNode(-1000)
	gB := expr.NumNode(-2000)
	params := []phase.Parameter{
		{Phase: "LIQUID", Kind: phase.ParamG, Pattern: []phase.Sublattice{{Entries: []phase.SublatticeEntry{{Species: phase.Species{Name: "A"}}}}}, Expr: gA},
		{Phase: "LIQUID", Kind: phase.ParamG, Pattern: []phase.Sublattice{{Entries: []phase.SublatticeEntry{{Species: phase.Species{Name: "B"}}}}}, Expr: gB},
	}
	ast := PureCompoundEnergy{}.AST(p, params)
	vals := expr.Values{
		VarIndex: map[string]int{
			phase.SiteFracVar("LIQUID", 0, "A"): 0,
			phase.SiteFracVar("LIQUID", 0, "B"): 1,
		},
		X: []float64{0.3, 0.7},
	}
	v, err := expr.Evaluate(ast, vals, nil)
	if err != nil {
		tst.Fatalf("evaluate failed: %v", err)
	}
	chk.Float64(tst, "G_ref", 1e-9, v, 0.3*-1000+0.7*-2000)
}

func TestRedlichKisterBinary(tst *testing.T) {
	chk.PrintTitle("RedlichKisterBinary")

	p := binaryPhase()
	params := []phase.Parameter{
		{Phase: "LIQUID", Kind: phase.ParamL, RKOrder: 0, Expr: expr.NumNode(10000),
			Pattern: []phase.Sublattice{{Entries: []phase.SublatticeEntry{
				{Species: phase.Species{Name: "A"}}, {Species: phase.Species{Name: "B"}},
			}}}},
	}
	ast := RedlichKisterExcess{}.AST(p, params)
	vals := expr.Values{
		VarIndex: map[string]int{
			phase.SiteFracVar("LIQUID", 0, "A"): 0,
			phase.SiteFracVar("LIQUID", 0, "B"): 1,
		},
		X: []float64{0.5, 0.5},
	}
	v, err := expr.Evaluate(ast, vals, nil)
	if err != nil {
		tst.Fatalf("evaluate failed: %v", err)
	}
	chk.Float64(tst, "G_excess(0.5,0.5)", 1e-9, v, 0.5*0.5*10000)
}

func TestAllModelKindsRegistered(tst *testing.T) {
	chk.PrintTitle("AllModelKindsRegistered")

	kinds := Kinds()
	want := map[string]bool{KindPureCompound: true, KindIdealMixing: true, KindRedlichKister: true, KindIHJMagnetic: true}
	for _, k := range kinds {
		delete(want, k)
	}
	if len(want) != 0 {
		tst.Errorf("missing registered model kinds: %v", want)
	}
}
