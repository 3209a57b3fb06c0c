// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package models builds the Gibbs-energy expression tree contributed by
// each of the four recognised energy-model kinds: pure-compound reference
// energy, ideal mixing, Redlich-Kister excess energy, and the IHJ magnetic
// contribution.
package models

import (
	"github.com/cpmech/gosl/chk"

	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/phase"
)

// EnergyModel builds one additive Gibbs-energy contribution for a phase.
type EnergyModel interface {
	// AST returns the symbolic expression for this model's energy
	// contribution. PureCompoundEnergy divides its sum by the phase's total
	// site count; the other models are not normalized.
	AST(p phase.Phase, params []phase.Parameter) *expr.Node
}

// modelAllocators maps a model kind name to its constructor, following the
// msolid "allocators[\"ccm\"] = func() Model {...}" factory-registration
// idiom: each model kind registers itself from its own init().
var modelAllocators = make(map[string]func() EnergyModel)

// New looks up and constructs the energy model registered under kind.
func New(kind string) EnergyModel {
	alloc, ok := modelAllocators[kind]
	if !ok {
		chk.Panic("models: unknown energy model kind %q", kind)
	}
	return alloc()
}

// Kinds returns the names of every registered model kind, for diagnostics.
func Kinds() []string {
	out := make([]string, 0, len(modelAllocators))
	for k := range modelAllocators {
		out = append(out, k)
	}
	return out
}

// BuildAllModels sums the AST of every registered model kind for phase p,
// in the order PureCompound, IdealMixing, RedlichKister, and -- when
// p.Magnetic.Enabled -- IHJMagnetic. Returns the combined, simplified
// Gibbs-energy AST for the phase.
func BuildAllModels(p phase.Phase, params []phase.Parameter) *expr.Node {
	kinds := []string{KindPureCompound, KindIdealMixing, KindRedlichKister}
	if p.Magnetic.Enabled {
		kinds = append(kinds, KindIHJMagnetic)
	}
	var terms []*expr.Node
	for _, k := range kinds {
		m := New(k)
		terms = append(terms, m.AST(p, params))
	}
	return expr.Simplify(expr.Add(terms...))
}

func paramsFor(params []phase.Parameter, phaseName string, kind phase.ParameterKind) []phase.Parameter {
	var out []phase.Parameter
	for _, pm := range params {
		if pm.Phase == phaseName && pm.Kind == kind {
			out = append(out, pm)
		}
	}
	return out
}
