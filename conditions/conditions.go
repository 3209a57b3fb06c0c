// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package conditions defines the evaluation conditions (state variables,
// active elements, per-phase status, target composition) that every
// minimization run is driven by, plus the thermodynamic constants shared
// across the module.
package conditions

// R is the molar gas constant, in J/(mol.K).
const R = 8.3145

// PhaseStatus records whether a phase participates in the current
// calculation.
type PhaseStatus int

const (
	Entered   PhaseStatus = iota // phase is a candidate and contributes hull points
	Suspended                    // phase is excluded from this calculation entirely
	Fixed                        // phase fraction is pinned externally (not driven by the hull)
)

// EvalConditions bundles everything a CompositionSet or the global
// minimizer needs to know about the calculation being requested.
type EvalConditions struct {
	StateVars map[string]float64    // e.g. {"T": 1000, "P": 101325}
	Elements  []string               // ordered component list; last entry is the dependent mole fraction
	Xfrac     map[string]float64     // system-wide mole fraction per element, sums to 1
	Phases    map[string]PhaseStatus // per-phase participation status
}

// NewEvalConditions returns an EvalConditions with all maps initialised and
// every named phase defaulted to Entered.
func NewEvalConditions(elements []string, phaseNames []string) *EvalConditions {
	c := &EvalConditions{
		StateVars: map[string]float64{},
		Elements:  append([]string(nil), elements...),
		Xfrac:     map[string]float64{},
		Phases:    map[string]PhaseStatus{},
	}
	for _, p := range phaseNames {
		c.Phases[p] = Entered
	}
	return c
}

// ActivePhases returns the names of every phase whose status is Entered.
func (c *EvalConditions) ActivePhases() []string {
	var out []string
	for name, st := range c.Phases {
		if st == Entered {
			out = append(out, name)
		}
	}
	return out
}

// IndependentElements returns every element except the last (dependent) one.
func (c *EvalConditions) IndependentElements() []string {
	if len(c.Elements) == 0 {
		return nil
	}
	return c.Elements[:len(c.Elements)-1]
}
