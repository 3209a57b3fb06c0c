// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/phase"
)

const KindPureCompound = "purecompound"

func init() {
	modelAllocators[KindPureCompound] = func() EnergyModel { return new(PureCompoundEnergy) }
}

// PureCompoundEnergy sums, over every endmember combination (one species per
// sublattice), the product of site fractions times that endmember's G
// parameter.
type PureCompoundEnergy struct{}

// AST implements EnergyModel.
func (PureCompoundEnergy) AST(p phase.Phase, params []phase.Parameter) *expr.Node {
	gparams := paramsFor(params, p.Name, phase.ParamG)
	combos := p.EndmemberCombinations()
	if len(combos) == 0 {
		return expr.NumNode(0)
	}
	var terms []*expr.Node
	for _, combo := range combos {
		var gexpr *expr.Node
		for _, pm := range gparams {
			if pm.MatchesEndmember(combo) {
				gexpr = pm.Expr
				break
			}
		}
		if gexpr == nil {
			continue // no G parameter for this endmember: contributes nothing
		}
		factors := []*expr.Node{gexpr}
		for subl, sp := range combo {
			factors = append(factors, expr.SymNode(phase.SiteFracVar(p.Name, subl, sp)))
		}
		terms = append(terms, expr.Mul(factors...))
	}
	if len(terms) == 0 {
		return expr.NumNode(0)
	}
	sum := expr.Add(terms...)
	total := p.TotalSites()
	if total != 1 {
		// Per §4.2: normalized by the total mixing-site count, so a
		// multi-sublattice phase's energy lands on the same per-atom
		// scale the global hull's mole fractions use.
		sum = expr.Div(sum, expr.NumNode(total))
	}
	return expr.Simplify(sum)
}
