// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestSimplifyIdempotent(tst *testing.T) {
	chk.PrintTitle("SimplifyIdempotent")

	cases := []*Node{
		Add(NumNode(1), NumNode(2), SymNode("x")),
		Mul(NumNode(0), SymNode("x")),
		Mul(NumNode(1), SymNode("y")),
		Pow(SymNode("x"), NumNode(0)),
		Pow(SymNode("x"), NumNode(1)),
		Sub(SymNode("x"), SymNode("x")),
		Div(SymNode("x"), NumNode(1)),
	}
	for _, c := range cases {
		once := Simplify(c)
		twice := Simplify(once)
		if !once.Equal(twice) {
			tst.Errorf("Simplify not idempotent on %v: once=%v twice=%v", c, once, twice)
		}
	}
}

func TestSimplifyNeutralElements(tst *testing.T) {
	chk.PrintTitle("SimplifyNeutralElements")

	if !IsZero(Mul(NumNode(0), SymNode("x"))) {
		tst.Error("0*x should simplify to zero")
	}
	if !IsZero(Sub(SymNode("x"), SymNode("x"))) {
		tst.Error("x-x should simplify to zero")
	}
	got := Simplify(Mul(NumNode(1), SymNode("y")))
	if got.Kind != KindSym || got.Sym != "y" {
		tst.Errorf("1*y should simplify to y, got %v", got)
	}
	got = Simplify(Pow(SymNode("x"), NumNode(0)))
	if got.Kind != KindNum || got.Num != 1 {
		tst.Errorf("x^0 should simplify to 1, got %v", got)
	}
}

func TestDifferentiateMatchesFiniteDifference(tst *testing.T) {
	chk.PrintTitle("DifferentiateMatchesFiniteDifference")

	// f(x) = x^3 * ln(x) / exp(x)  -- exercises Pow, Mul, Ln, Exp, Div chain rules
	f := Div(Mul(Pow(SymNode("x"), NumNode(3)), Ln(SymNode("x"))), Exp(SymNode("x")))
	df := Simplify(Differentiate(f, "x", nil))

	h := 1e-6
	x0 := 2.3
	eval := func(x float64) float64 {
		v, err := Evaluate(f, Values{VarIndex: map[string]int{"x": 0}, X: []float64{x}}, nil)
		if err != nil {
			tst.Fatalf("evaluate failed: %v", err)
		}
		return v
	}
	numeric := (eval(x0+h) - eval(x0-h)) / (2 * h)

	analytic, err := Evaluate(df, Values{VarIndex: map[string]int{"x": 0}, X: []float64{x0}}, nil)
	if err != nil {
		tst.Fatalf("evaluate derivative failed: %v", err)
	}

	chk.Float64(tst, "d/dx", 1e-4, analytic, numeric)
}

func TestEvaluateUndefinedReference(tst *testing.T) {
	chk.PrintTitle("EvaluateUndefinedReference")

	_, err := Evaluate(SymNode("nope"), Values{}, nil)
	if err == nil {
		tst.Fatal("expected ErrUndefinedReference")
	}
}

func TestEvaluatePiecewiseOutOfRange(tst *testing.T) {
	chk.PrintTitle("EvaluatePiecewiseOutOfRange")

	p := Piecewise([]*Node{NumNode(1), NumNode(2)}, []float64{0, 298.15}, []float64{298.15, 6000})
	_, err := Evaluate(p, Values{StateVars: map[string]float64{"T": -10}}, nil)
	if err == nil {
		tst.Fatal("expected ErrOutOfRange")
	}
	v, err := Evaluate(p, Values{StateVars: map[string]float64{"T": 1000}}, nil)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Float64(tst, "piecewise branch", 1e-15, v, 2)
}

func TestSymbolTableResolution(tst *testing.T) {
	chk.PrintTitle("SymbolTableResolution")

	syms := SymbolTable{"GHSERAL": Add(NumNode(-7976.15), Mul(NumNode(137.093038), SymNode("T")))}
	v, err := Evaluate(SymNode("GHSERAL"), Values{StateVars: map[string]float64{"T": 900}}, syms)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	chk.Float64(tst, "GHSERAL(900)", 1e-9, v, -7976.15+137.093038*900)
}

func TestCyclicSymbolDetected(tst *testing.T) {
	chk.PrintTitle("CyclicSymbolDetected")

	syms := SymbolTable{"A": SymNode("B"), "B": SymNode("A")}
	_, err := Evaluate(SymNode("A"), Values{}, syms)
	if err == nil {
		tst.Fatal("expected ErrCyclicSymbol")
	}
}

func TestRenameSym(tst *testing.T) {
	chk.PrintTitle("RenameSym")

	t := Add(SymNode("FCC_FRAC"), Mul(NumNode(2), SymNode("FCC_FRAC")))
	renamed := t.RenameSym(map[string]string{"FCC_FRAC": "FCC#2_FRAC"})
	vars := renamed.Vars(nil)
	for _, v := range vars {
		if v != "FCC#2_FRAC" {
			tst.Errorf("expected renamed symbol, got %q", v)
		}
	}
}
