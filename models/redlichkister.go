// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/phase"
)

const KindRedlichKister = "redlichkister"

func init() {
	modelAllocators[KindRedlichKister] = func() EnergyModel { return new(RedlichKisterExcess) }
}

// RedlichKisterExcess contributes the binary and ternary interaction energy
// of an L-type parameter: for a binary interaction on one sublattice,
// y_i*y_j*sum_k(L_k*(y_i-y_j)^k); for a ternary interaction,
// y_i*y_j*y_k*L/3 per interacting species (the textbook Muggianu
// convention -- see DESIGN.md for why this implementation does not follow
// the original C++ source's divide-by-1 variant).
type RedlichKisterExcess struct{}

// AST implements EnergyModel.
func (RedlichKisterExcess) AST(p phase.Phase, params []phase.Parameter) *expr.Node {
	var terms []*expr.Node
	for _, pm := range paramsFor(params, p.Name, phase.ParamL) {
		interacting, fixedFactors, ok := splitInteractionPattern(p, pm.Pattern)
		if !ok {
			continue
		}
		switch len(interacting) {
		case 2:
			yi := expr.SymNode(interacting[0])
			yj := expr.SymNode(interacting[1])
			diff := expr.Pow(expr.Sub(yi.Clone(), yj.Clone()), expr.NumNode(float64(pm.RKOrder)))
			factors := append([]*expr.Node{yi, yj, pm.Expr, diff}, fixedFactors...)
			terms = append(terms, expr.Mul(factors...))
		case 3:
			yi := expr.SymNode(interacting[0])
			yj := expr.SymNode(interacting[1])
			yk := expr.SymNode(interacting[2])
			third := expr.Div(pm.Expr, expr.NumNode(3))
			factors := append([]*expr.Node{yi, yj, yk, third}, fixedFactors...)
			terms = append(terms, expr.Mul(factors...))
		}
	}
	if len(terms) == 0 {
		return expr.NumNode(0)
	}
	return expr.Simplify(expr.Add(terms...))
}

// splitInteractionPattern locates the single sublattice with more than one
// species in pm's pattern (the interacting sublattice) and returns its
// species' site-fraction symbol names plus the site-fraction symbols of
// every other sublattice's single fixed species.
func splitInteractionPattern(p phase.Phase, pattern []phase.Sublattice) (interacting []string, fixed []*expr.Node, ok bool) {
	for subl, entry := range pattern {
		names := entry.SpeciesNames()
		if subl >= len(p.Sublattices) {
			return nil, nil, false
		}
		switch {
		case len(names) >= 2:
			if interacting != nil {
				return nil, nil, false // more than one interacting sublattice is not supported
			}
			for _, n := range names {
				interacting = append(interacting, phase.SiteFracVar(p.Name, subl, n))
			}
		case len(names) == 1:
			fixed = append(fixed, expr.SymNode(phase.SiteFracVar(p.Name, subl, names[0])))
		}
	}
	if len(interacting) < 2 {
		return nil, nil, false
	}
	return interacting, fixed, true
}
