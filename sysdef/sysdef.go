// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysdef implements the system definition read from a (.sysdef)
// JSON file: elements, phases and their parameters. It plays the role a TDB
// database parser would in a full CALPHAD front-end, projected onto the
// plain-JSON subset this module actually consumes; parsing .tdb text is out
// of scope.
package sysdef

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/Teslos/pycalphad/expr"
	"github.com/Teslos/pycalphad/phase"
)

// SublatticeDef is the JSON projection of one phase.Sublattice.
type SublatticeDef struct {
	Multiplicity float64  `json:"multiplicity"`
	Species      []string `json:"species"`
}

// MagneticDef is the JSON projection of phase.MagneticAttrs.
type MagneticDef struct {
	Enabled bool    `json:"enabled"`
	AFactor float64 `json:"afactor"`
	P       float64 `json:"p"`
}

// PhaseDef is the JSON projection of one phase.Phase.
type PhaseDef struct {
	Name        string          `json:"name"`
	Sublattices []SublatticeDef `json:"sublattices"`
	Magnetic    MagneticDef     `json:"magnetic"`
}

// ParameterDef is the JSON projection of one phase.Parameter. Expr is a
// literal temperature polynomial given as coefficients of T^0, T^1, ...;
// callers needing piecewise or transcendental expressions build a
// phase.Parameter directly instead of going through JSON.
type ParameterDef struct {
	Phase       string     `json:"phase"`
	Kind        string     `json:"kind"`
	Pattern     [][]string `json:"pattern"` // one []string of species per sublattice
	RKOrder     int        `json:"rkorder"`
	PolyCoeffsT []float64  `json:"poly_coeffs_t"`
}

// SystemDef is the root JSON document: element list, phase list, parameter
// list. Field tags and the SetDefault/Read pattern mirror inp.Data /
// inp.ReadSim.
type SystemDef struct {
	Desc       string         `json:"desc"`
	Elements   []string       `json:"elements"`
	Phases     []PhaseDef     `json:"phases"`
	Parameters []ParameterDef `json:"parameters"`

	// CoplanarityAllowance and CriticalEdgeLength default to the values in
	// SPEC_FULL.md when zero (see SetDefault).
	CoplanarityAllowance float64 `json:"coplanarity_allowance"`
	CriticalEdgeLength   float64 `json:"critical_edge_length"`
	NInit                int     `json:"n_init"`
	NRef                 int     `json:"n_ref"`
}

// SetDefault fills zero-valued tunables with the spec's defaults.
func (o *SystemDef) SetDefault() {
	if o.CoplanarityAllowance == 0 {
		o.CoplanarityAllowance = 0.001
	}
	if o.CriticalEdgeLength == 0 {
		o.CriticalEdgeLength = 0.05
	}
	if o.NInit == 0 {
		o.NInit = 20
	}
	if o.NRef == 0 {
		o.NRef = 2
	}
}

// ReadSystemDef reads and decodes a .sysdef JSON file, following
// inp.ReadSim's read-then-unmarshal-then-default discipline (defaults are
// applied before decode here because JSON zero values and "unset" are
// indistinguishable for these scalar tunables).
func ReadSystemDef(path string) *SystemDef {
	var o SystemDef
	o.SetDefault()
	b := io.ReadFile(path)
	if err := json.Unmarshal(b, &o); err != nil {
		chk.Panic("sysdef: cannot unmarshal system definition file %q: %v", path, err)
	}
	o.SetDefault()
	return &o
}

// BuildPhases converts every PhaseDef into a phase.Phase.
func (o *SystemDef) BuildPhases() []phase.Phase {
	out := make([]phase.Phase, len(o.Phases))
	for i, pd := range o.Phases {
		out[i] = pd.toPhase()
	}
	return out
}

func (pd PhaseDef) toPhase() phase.Phase {
	subls := make([]phase.Sublattice, len(pd.Sublattices))
	for i, sd := range pd.Sublattices {
		entries := make([]phase.SublatticeEntry, len(sd.Species))
		for j, sp := range sd.Species {
			entries[j] = phase.SublatticeEntry{Species: phase.Species{Name: sp}}
		}
		subls[i] = phase.Sublattice{Multiplicity: sd.Multiplicity, Entries: entries}
	}
	return phase.Phase{
		Name:        pd.Name,
		Sublattices: subls,
		Magnetic:    phase.MagneticAttrs{Enabled: pd.Magnetic.Enabled, AFactor: pd.Magnetic.AFactor, P: pd.Magnetic.P},
	}
}

// BuildParameters converts every ParameterDef into a phase.Parameter, building a
// literal polynomial-in-T AST from PolyCoeffsT when no richer expression is
// required.
func (o *SystemDef) BuildParameters() []phase.Parameter {
	out := make([]phase.Parameter, len(o.Parameters))
	for i, pd := range o.Parameters {
		out[i] = pd.toParameter()
	}
	return out
}

func (pd ParameterDef) toParameter() phase.Parameter {
	pattern := make([]phase.Sublattice, len(pd.Pattern))
	for i, species := range pd.Pattern {
		entries := make([]phase.SublatticeEntry, len(species))
		for j, sp := range species {
			entries[j] = phase.SublatticeEntry{Species: phase.Species{Name: sp}}
		}
		pattern[i] = phase.Sublattice{Entries: entries}
	}
	return phase.Parameter{
		Phase:   pd.Phase,
		Kind:    phase.ParameterKind(pd.Kind),
		Pattern: pattern,
		RKOrder: pd.RKOrder,
		Expr:    polyInT(pd.PolyCoeffsT),
	}
}

// polyInT builds sum(coeffs[i] * T^i) as an expression tree.
func polyInT(coeffs []float64) *expr.Node {
	if len(coeffs) == 0 {
		return expr.NumNode(0)
	}
	var terms []*expr.Node
	for i, c := range coeffs {
		if c == 0 {
			continue
		}
		if i == 0 {
			terms = append(terms, expr.NumNode(c))
			continue
		}
		terms = append(terms, expr.Mul(expr.NumNode(c), expr.Pow(expr.SymNode("T"), expr.NumNode(float64(i)))))
	}
	if len(terms) == 0 {
		return expr.NumNode(0)
	}
	return expr.Simplify(expr.Add(terms...))
}
