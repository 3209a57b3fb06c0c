// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/phase"
)

const KindIdealMixing = "idealmixing"

func init() {
	modelAllocators[KindIdealMixing] = func() EnergyModel { return new(IdealMixing) }
}

// IdealMixing contributes n*R*T*sum(y*ln(y)) per sublattice, n being the
// sublattice's site multiplicity.
type IdealMixing struct{}

// AST implements EnergyModel.
func (IdealMixing) AST(p phase.Phase, params []phase.Parameter) *expr.Node {
	var terms []*expr.Node
	for subl, s := range p.Sublattices {
		if len(s.Entries) < 2 {
			continue // a single-species sublattice has no mixing entropy
		}
		var ylny []*expr.Node
		for _, sp := range s.SpeciesNames() {
			y := expr.SymNode(phase.SiteFracVar(p.Name, subl, sp))
			ylny = append(ylny, expr.Mul(y, expr.Ln(y.Clone())))
		}
		contribution := expr.Mul(
			expr.NumNode(s.Multiplicity),
			expr.NumNode(conditions.R),
			expr.SymNode("T"),
			expr.Add(ylny...),
		)
		terms = append(terms, contribution)
	}
	if len(terms) == 0 {
		return expr.NumNode(0)
	}
	return expr.Simplify(expr.Add(terms...))
}
