// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package models

import (
	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/phase"
)

const KindIHJMagnetic = "ihjmagnetic"

func init() {
	modelAllocators[KindIHJMagnetic] = func() EnergyModel { return new(IHJMagnetic) }
}

// IHJMagnetic implements the Inden-Hillert-Jarl magnetic ordering
// contribution: R*T*ln(beta+1)*g(tau), tau = T/Tcrit, with g a piecewise
// polynomial in tau whose coefficients depend on the phase's SRO fraction p
// and whose below/above-Curie branches are selected by tau.
type IHJMagnetic struct{}

// AST implements EnergyModel.
func (IHJMagnetic) AST(p phase.Phase, params []phase.Parameter) *expr.Node {
	if !p.Magnetic.Enabled {
		return expr.NumNode(0)
	}
	tc := compositionWeightedProperty(p, params, phase.ParamTC)
	beta := compositionWeightedProperty(p, params, phase.ParamBMAGN)
	if tc == nil || beta == nil {
		return expr.NumNode(0)
	}
	tcrit := expr.Mul(tc, expr.NumNode(magneticOrderingFactor(p.Magnetic.AFactor)))
	tau := expr.Div(expr.SymNode("T"), tcrit)

	pp := p.Magnetic.P
	if pp == 0 {
		pp = 0.4
	}
	aFac := 518.0/1125.0 + (11692.0/15975.0)*(1.0/pp-1.0)

	// tau < 1 branch
	below := expr.Sub(expr.NumNode(1), expr.Mul(expr.NumNode(1/aFac), expr.Add(
		expr.Div(expr.Mul(expr.NumNode(79), expr.Pow(tau.Clone(), expr.NumNode(-1))), expr.NumNode(140*pp)),
		expr.Mul(expr.NumNode((474.0/497.0)*(1.0/pp-1.0)), expr.Add(
			expr.Div(expr.Pow(tau.Clone(), expr.NumNode(3)), expr.NumNode(6)),
			expr.Div(expr.Pow(tau.Clone(), expr.NumNode(9)), expr.NumNode(135)),
			expr.Div(expr.Pow(tau.Clone(), expr.NumNode(15)), expr.NumNode(600)),
		)),
	)))

	// tau >= 1 branch
	above := expr.Neg(expr.Mul(expr.NumNode(1/aFac), expr.Add(
		expr.Div(expr.Pow(tau.Clone(), expr.NumNode(-5)), expr.NumNode(10)),
		expr.Div(expr.Pow(tau.Clone(), expr.NumNode(-15)), expr.NumNode(315)),
		expr.Div(expr.Pow(tau.Clone(), expr.NumNode(-25)), expr.NumNode(1500)),
	)))

	g := expr.Piecewise([]*expr.Node{below, above}, []float64{0, 1}, []float64{1, 1e9})

	energy := expr.Mul(expr.NumNode(conditions.R), expr.SymNode("T"), expr.Ln(expr.Add(beta, expr.NumNode(1))), g)
	return expr.Simplify(energy)
}

// magneticOrderingFactor returns the effective Curie-temperature scaling:
// ferromagnetic phases (AFactor == 0, the MagneticAttrs zero value meaning
// "not antiferromagnetic") use 1; antiferromagnetic phases scale Tc by the
// configured factor (typically -1/3 for BCC).
func magneticOrderingFactor(aFactor float64) float64 {
	if aFactor == 0 {
		return 1
	}
	return aFactor
}

// compositionWeightedProperty sums, over every parameter of kind in params
// restricted to phase p, that parameter's expression weighted by the
// product of site fractions named in its pattern -- for an endmember
// pattern this is a single product; for an interacting pattern it reuses
// the binary Redlich-Kister weighting so TC(y)/beta(y) follow the same
// sublattice-interaction convention as the excess energy itself.
func compositionWeightedProperty(p phase.Phase, params []phase.Parameter, kind phase.ParameterKind) *expr.Node {
	var terms []*expr.Node
	for _, pm := range paramsFor(params, p.Name, kind) {
		interacting, fixed, ok := splitInteractionPattern(p, pm.Pattern)
		if !ok {
			// endmember-style pattern: single species per sublattice
			var factors []*expr.Node
			for subl, entry := range pm.Pattern {
				names := entry.SpeciesNames()
				if len(names) != 1 {
					factors = nil
					break
				}
				factors = append(factors, expr.SymNode(phase.SiteFracVar(p.Name, subl, names[0])))
			}
			if factors == nil {
				continue
			}
			terms = append(terms, expr.Mul(append(factors, pm.Expr)...))
			continue
		}
		if len(interacting) != 2 {
			continue
		}
		yi := expr.SymNode(interacting[0])
		yj := expr.SymNode(interacting[1])
		diff := expr.Pow(expr.Sub(yi.Clone(), yj.Clone()), expr.NumNode(float64(pm.RKOrder)))
		factors := append([]*expr.Node{yi, yj, pm.Expr, diff}, fixed...)
		terms = append(terms, expr.Mul(factors...))
	}
	if len(terms) == 0 {
		return nil
	}
	return expr.Simplify(expr.Add(terms...))
}
