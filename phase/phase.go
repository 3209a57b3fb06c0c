// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phase holds the plain data model shared by the whole module:
// species, sublattices, phases and their parameters. It has no behaviour of
// its own beyond simple accessors -- energy models (package models) and
// composition sets (package compset) are built from these records.
package phase

import (
	"strconv"

	"github.com/Teslos/pycalphad/expr"
)

// Species is a named constituent that may occupy one or more sublattices.
type Species struct {
	Name string
}

// SublatticeEntry is one species slot on a sublattice; the site
// multiplicity is held by the enclosing Sublattice.
type SublatticeEntry struct {
	Species Species
}

// Sublattice is an ordered group of distinct species sharing one site
// multiplicity within a phase.
type Sublattice struct {
	Multiplicity float64
	Entries      []SublatticeEntry
}

// SpeciesNames returns the species names on this sublattice, in entry order.
func (s Sublattice) SpeciesNames() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Species.Name
	}
	return out
}

// SiteFracVar returns the canonical variable name used in expression trees
// for the site fraction of species sp on this phase's sublattice index subl.
func SiteFracVar(phaseName string, subl int, sp string) string {
	return phaseName + "_Y" + strconv.Itoa(subl) + "_" + sp
}

// PhaseFracVar returns the canonical variable name for a phase's own
// fraction of the system, e.g. "FCC_A1_FRAC".
func PhaseFracVar(phaseName string) string {
	return phaseName + "_FRAC"
}

// MagneticAttrs carries the IHJ magnetic-model parameters of a phase, when
// applicable. AFactor is the antiferromagnetic reduction factor (typically
// 1/3 for BCC, 1 otherwise); zero-value MagneticAttrs disables the model.
type MagneticAttrs struct {
	Enabled bool
	AFactor float64 // antiferromagnetic factor
	P       float64 // SRO enthalpy fraction (0.28 for BCC, 0.4 for others)
}

// Phase is a named collection of sublattices plus optional magnetic
// attributes.
type Phase struct {
	Name        string
	Sublattices []Sublattice
	Magnetic    MagneticAttrs
}

// TotalSites returns the sum of sublattice multiplicities, used to normalise
// per-mole-of-atoms energies.
func (p Phase) TotalSites() float64 {
	total := 0.0
	for _, s := range p.Sublattices {
		total += s.Multiplicity
	}
	return total
}

// AllSiteFracVars returns every site-fraction variable name owned by this
// phase, plus the trailing phase-fraction variable.
func (p Phase) AllSiteFracVars() []string {
	var out []string
	for i, s := range p.Sublattices {
		for _, name := range s.SpeciesNames() {
			out = append(out, SiteFracVar(p.Name, i, name))
		}
	}
	return append(out, PhaseFracVar(p.Name))
}

// EndmemberCombinations enumerates every way of picking exactly one species
// per sublattice, returned as parallel (sublattice-index -> species name)
// maps. Used by the pure-compound energy model to build the endmember sum.
func (p Phase) EndmemberCombinations() []map[int]string {
	if len(p.Sublattices) == 0 {
		return nil
	}
	combos := []map[int]string{{}}
	for i, subl := range p.Sublattices {
		var next []map[int]string
		for _, c := range combos {
			for _, sp := range subl.SpeciesNames() {
				nc := make(map[int]string, len(c)+1)
				for k, v := range c {
					nc[k] = v
				}
				nc[i] = sp
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}

// ParameterKind enumerates the kinds of thermodynamic parameter a Phase can
// carry. RK order is stored separately on Parameter, not in the kind.
type ParameterKind string

const (
	ParamG      ParameterKind = "G"      // Gibbs energy of an endmember
	ParamL      ParameterKind = "L"      // Redlich-Kister interaction coefficient
	ParamTC     ParameterKind = "TC"     // Curie/Neel temperature
	ParamBMAGN  ParameterKind = "BMAGN"  // Bohr magneton number
)

// Parameter is one thermodynamic parameter record: an energy (or
// energy-adjacent) quantity attached to a phase, a species pattern (which
// sublattice sites it applies to), and a temperature-dependent expression.
type Parameter struct {
	Phase   string
	Kind    ParameterKind
	Pattern []Sublattice // one entry per sublattice; each lists the species this parameter interacts over
	RKOrder int          // Redlich-Kister polynomial order (0 for non-L parameters)
	Expr    *expr.Node   // temperature-dependent expression, e.g. a Piecewise node
}

// MatchesEndmember reports whether combo (as produced by
// EndmemberCombinations) is exactly the single-species pattern of a G
// parameter.
func (pm Parameter) MatchesEndmember(combo map[int]string) bool {
	if pm.Kind != ParamG {
		return false
	}
	if len(pm.Pattern) != len(combo) {
		return false
	}
	for i, subl := range pm.Pattern {
		if len(subl.Entries) != 1 {
			return false
		}
		if subl.Entries[0].Species.Name != combo[i] {
			return false
		}
	}
	return true
}
