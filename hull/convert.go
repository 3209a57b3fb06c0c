// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hull

import "github.com/Teslos/pycalphad/phase"

// DropDependentSiteFracs flattens siteFracs (one slice per sublattice) into
// a single independent-coordinate vector, dropping the last species of
// every sublattice that has more than one species -- a single-species
// sublattice contributes no free axis and is omitted entirely.
func DropDependentSiteFracs(siteFracs [][]float64) []float64 {
	var out []float64
	for _, s := range siteFracs {
		if len(s) <= 1 {
			continue
		}
		out = append(out, s[:len(s)-1]...)
	}
	return out
}

// RestoreDependentSiteFracs is the exact inverse of DropDependentSiteFracs
// given shape, the species count per sublattice: each dependent species'
// fraction is recovered as 1 minus the sum of its sublattice's independent
// fractions.
func RestoreDependentSiteFracs(flat []float64, shape []int) [][]float64 {
	out := make([][]float64, len(shape))
	idx := 0
	for i, k := range shape {
		if k <= 1 {
			out[i] = []float64{1}
			continue
		}
		indep := append([]float64(nil), flat[idx:idx+k-1]...)
		idx += k - 1
		sum := 0.0
		for _, v := range indep {
			sum += v
		}
		out[i] = append(indep, 1-sum)
	}
	return out
}

// DropDependentDimensions drops the last (dependent) component of a
// mole-fraction vector that sums to 1.
func DropDependentDimensions(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	return append([]float64(nil), x[:len(x)-1]...)
}

// RestoreDependentDimensions is the exact inverse of DropDependentDimensions:
// the dropped coordinate is recovered as 1 minus the sum of the rest.
func RestoreDependentDimensions(xIndep []float64) []float64 {
	sum := 0.0
	for _, v := range xIndep {
		sum += v
	}
	return append(append([]float64(nil), xIndep...), 1-sum)
}

// ConvertSiteFractionsToMoleFractions converts p's per-sublattice site
// fractions into a mole-fraction vector over elements: each element's mole
// fraction is the site-multiplicity-weighted sum of its site fractions,
// renormalized by the phase's total site count.
func ConvertSiteFractionsToMoleFractions(p phase.Phase, siteFracs [][]float64, elements []string) []float64 {
	total := p.TotalSites()
	x := make([]float64, len(elements))
	for ei, el := range elements {
		sum := 0.0
		for si, subl := range p.Sublattices {
			if si >= len(siteFracs) {
				continue
			}
			for k, name := range subl.SpeciesNames() {
				if name == el && k < len(siteFracs[si]) {
					sum += subl.Multiplicity * siteFracs[si][k]
				}
			}
		}
		if total != 0 {
			x[ei] = sum / total
		}
	}
	return x
}
