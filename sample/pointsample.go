// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sample implements adaptive simplex subdivision: discretising a
// phase's internal composition space (the product of one unit simplex per
// sublattice) into a candidate point set for the internal lower convex
// hull.
package sample

import (
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"

	"github.com/Teslos/pycalphad/compset"
	"github.com/Teslos/pycalphad/conditions"
	"github.com/Teslos/pycalphad/phase"
)

// Point is one sampled internal-coordinate point: full site fractions (one
// slice per sublattice, each summing to 1) plus the evaluated energy.
type Point struct {
	SiteFracs [][]float64 // [sublattice][species]
	Energy    float64
	Stable    bool // true unless discarded by the Hessian PSD screen
}

// Options configures PointSample; zero NInit and NRef fall back to the
// defaults N_init=20 and N_ref=2. DiscardUnstable has no default: the zero
// value false keeps every sampled point.
type Options struct {
	NInit           int
	NRef            int
	DiscardUnstable bool
}

func (o *Options) setDefaults() {
	if o.NInit == 0 {
		o.NInit = 20
	}
	if o.NRef == 0 {
		o.NRef = 2
	}
}

// PointSample generates the initial candidate set for cs's phase: a coarse
// grid at resolution NInit, refined by NRef around surviving (PSD, if
// DiscardUnstable) points.
func PointSample(cs *compset.CompositionSet, c *conditions.EvalConditions, opts Options) ([]Point, error) {
	opts.setDefaults()

	coarse, err := gridSample(cs, c, opts.NInit)
	if err != nil {
		return nil, err
	}
	if opts.DiscardUnstable {
		if err := screenStability(cs, c, coarse); err != nil {
			return nil, err
		}
	}

	var survivors []Point
	for _, p := range coarse {
		if p.Stable {
			survivors = append(survivors, p)
		}
	}
	if len(survivors) == 0 {
		return coarse, nil
	}

	refined, err := refineAround(cs, c, survivors, opts.NInit*opts.NRef)
	if err != nil {
		return nil, err
	}
	if opts.DiscardUnstable {
		if err := screenStability(cs, c, refined); err != nil {
			return nil, err
		}
	}
	return append(coarse, refined...), nil
}

// gridSample builds the Cartesian product, over sublattices, of each
// sublattice's simplex grid at resolution n, and evaluates the phase
// energy at every combination.
func gridSample(cs *compset.CompositionSet, c *conditions.EvalConditions, n int) ([]Point, error) {
	perSublattice := make([][][]float64, len(cs.Phase.Sublattices))
	for i, s := range cs.Phase.Sublattices {
		perSublattice[i] = simplexGrid(len(s.Entries), n)
	}
	combos := cartesianProduct(perSublattice)

	out := make([]Point, 0, len(combos))
	for _, combo := range combos {
		pt, err := evaluatePoint(cs, c, combo)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

// refineAround builds a finer simplex grid (resolution n) restricted to
// points whose site fractions are all within 0.1 of some survivor's,
// following the spec's two-pass "coarse discard, then refine" subdivision.
// The 0.1 radius is fixed; it does not follow the NInit actually used.
func refineAround(cs *compset.CompositionSet, c *conditions.EvalConditions, survivors []Point, n int) ([]Point, error) {
	perSublattice := make([][][]float64, len(cs.Phase.Sublattices))
	for i, s := range cs.Phase.Sublattices {
		perSublattice[i] = simplexGrid(len(s.Entries), n)
	}
	combos := cartesianProduct(perSublattice)

	const cellWidth = 2.0 / 20.0 // two grid spacings at the default NInit=20
	var out []Point
	for _, combo := range combos {
		if !nearAny(combo, survivors, cellWidth) {
			continue
		}
		pt, err := evaluatePoint(cs, c, combo)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

func nearAny(combo [][]float64, survivors []Point, tol float64) bool {
	for _, s := range survivors {
		maxDiff := 0.0
		for i := range combo {
			for j := range combo[i] {
				d := combo[i][j] - s.SiteFracs[i][j]
				if d < 0 {
					d = -d
				}
				if d > maxDiff {
					maxDiff = d
				}
			}
		}
		if maxDiff <= tol {
			return true
		}
	}
	return false
}

func evaluatePoint(cs *compset.CompositionSet, c *conditions.EvalConditions, combo [][]float64) (Point, error) {
	x := make([]float64, len(cs.VarNames))
	for subl, ys := range combo {
		names := cs.Phase.Sublattices[subl].SpeciesNames()
		for k, name := range names {
			x[cs.VarIndex[phase.SiteFracVar(cs.PhaseName, subl, name)]] = ys[k]
		}
	}
	x[cs.VarIndex[phase.PhaseFracVar(cs.PhaseName)]] = 1
	e, err := cs.EvaluateObjective(c, x)
	if err != nil {
		return Point{}, err
	}
	return Point{SiteFracs: combo, Energy: e, Stable: true}, nil
}

// screenStability marks every point whose Hessian, projected onto cs.Z,
// fails the positive-semidefinite test as unstable. cs.BuildConstraintBasis
// must have been called already.
func screenStability(cs *compset.CompositionSet, c *conditions.EvalConditions, pts []Point) error {
	if cs.Z == nil {
		return nil // no constraint basis built: nothing to project
	}
	for i := range pts {
		x := make([]float64, len(cs.VarNames))
		for subl, ys := range pts[i].SiteFracs {
			names := cs.Phase.Sublattices[subl].SpeciesNames()
			for k, name := range names {
				x[cs.VarIndex[phase.SiteFracVar(cs.PhaseName, subl, name)]] = ys[k]
			}
		}
		x[cs.VarIndex[phase.PhaseFracVar(cs.PhaseName)]] = 1

		H, err := cs.EvaluateObjectiveHessianMatrix(c, x)
		if err != nil {
			return err
		}
		pts[i].Stable = isPSDProjected(H, cs.Z)
	}
	return nil
}

// isPSDProjected reports whether Z^T*H*Z is positive semidefinite (all
// eigenvalues >= -1e-8), via gonum's symmetric eigendecomposition.
func isPSDProjected(H [][]float64, Z *mat.Dense) bool {
	n := len(H)
	Hd := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			Hd.Set(i, j, H[i][j])
		}
	}
	var HZ, ZtHZ mat.Dense
	HZ.Mul(Hd, Z)
	ZtHZ.Mul(Z.T(), &HZ)

	rows, _ := ZtHZ.Dims()
	if rows == 0 {
		return true // no free directions left; vacuously stable
	}
	sym := mat.NewSymDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := i; j < rows; j++ {
			sym.SetSym(i, j, ZtHZ.At(i, j))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return false
	}
	const tol = -1e-8
	for _, v := range eig.Values(nil) {
		if v < tol {
			return false
		}
	}
	return true
}

// simplexGrid returns every k-vector of nonnegative multiples of 1/n that
// sums to 1 -- the standard barycentric discretisation of the (k-1)-simplex
// at resolution n. k==1 (a single-species sublattice) has exactly one point.
func simplexGrid(k, n int) [][]float64 {
	if k <= 0 {
		return nil
	}
	if k == 1 {
		return [][]float64{{1}}
	}
	axis := utl.LinSpace(0, 1, n+1)
	var out [][]float64
	var rec func(remaining int, depth int, prefix []float64)
	rec = func(remaining int, depth int, prefix []float64) {
		if depth == k-1 {
			out = append(out, append(append([]float64(nil), prefix...), axis[remaining]))
			return
		}
		for i := 0; i <= remaining; i++ {
			rec(remaining-i, depth+1, append(prefix, axis[i]))
		}
	}
	rec(n, 0, nil)
	return out
}

// cartesianProduct combines per-sublattice grids into every full
// combination, one []float64 per sublattice per combination.
func cartesianProduct(perSublattice [][][]float64) [][][]float64 {
	if len(perSublattice) == 0 {
		return nil
	}
	combos := [][][]float64{{}}
	for _, grid := range perSublattice {
		var next [][][]float64
		for _, c := range combos {
			for _, pt := range grid {
				nc := make([][]float64, len(c), len(c)+1)
				copy(nc, c)
				nc = append(nc, pt)
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}
