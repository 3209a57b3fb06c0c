// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hull implements the convex-hull oracle this module's global
// minimization depends on: the lower convex hull over a phase's internal
// composition space (§4.5), the global lower hull assembling every phase's
// surviving points in a shared mole-fraction space, and tie-point
// extraction against a user's target composition (§4.6).
//
// No third-party Go convex-hull package exists anywhere in the teacher
// lineage or the wider example pack (grep across every vendored/retrieved
// source came up empty), so the primitive below is implemented directly --
// see DESIGN.md for the standard-library justification. It targets the
// modest sample counts this module's adaptive simplex subdivision produces
// (N_init=20 by default), not arbitrary-scale point clouds.
package hull

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Point is one point offered to the lower-hull oracle: Coords are the
// independent geometric coordinates (dependent dimensions already
// dropped), Energy is its scalar height.
type Point struct {
	Coords []float64
	Energy float64
}

// Facet is one simplex of the lower hull: the vertex ids (indices into the
// slice passed to LowerHull), the hyperplane coefficients such that
// Energy = Normal[:d]·Coords + Offset holds exactly on every vertex (the
// trailing Normal component is always -1, marking it as a lower-hull
// facet per the oracle contract in SPEC_FULL.md §6), and the facet's
// d-dimensional volume in the lifted (coords, energy) space.
type Facet struct {
	VertexIDs []int
	Normal    []float64
	Offset    float64
	Area      float64
}

const lowerHullTol = 1e-9

// LowerHull computes the lower convex hull of points: the facets whose
// supporting hyperplane lies below every other point in the set. Special
// cases per §4.5: zero points returns nil; a set no larger than the
// ambient dimension (d+1, d = len(points[0].Coords)) cannot form more than
// one facet and is returned whole.
func LowerHull(points []Point) ([]Facet, error) {
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	d := len(points[0].Coords)
	k := d + 1
	if n <= k {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i
		}
		return []Facet{buildDegenerateFacet(points, ids)}, nil
	}

	var facets []Facet
	combo := make([]int, k)
	var rec func(start, depth int) error
	rec = func(start, depth int) error {
		if depth == k {
			f, ok, err := tryFacet(points, append([]int(nil), combo...))
			if err != nil {
				return err
			}
			if ok {
				facets = append(facets, f)
			}
			return nil
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			if err := rec(i+1, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rec(0, 0); err != nil {
		return nil, err
	}
	return facets, nil
}

// buildDegenerateFacet handles the "too few points to prune" case: if the
// set is exactly large enough to define one hyperplane, build it properly;
// otherwise wrap the points as a facet with no well-defined normal.
func buildDegenerateFacet(points []Point, ids []int) Facet {
	d := 0
	if len(points) > 0 {
		d = len(points[0].Coords)
	}
	if len(ids) == d+1 {
		if f, ok, err := tryFacet(points, ids); err == nil && ok {
			return f
		}
	}
	return Facet{VertexIDs: ids}
}

// tryFacet attempts to build the hyperplane through the d+1 points named by
// ids (d = len(ids)-1), solving the exactly-determined linear system
// Energy_i = Normal[:d]·Coords_i + Offset, then verifies every other point
// lies on or above that hyperplane (the lower-hull condition). Returns
// ok=false (not an error) for a singular system or a facet that fails the
// lower-support test -- both are normal outcomes of the combinatorial
// search, not failures.
func tryFacet(points []Point, ids []int) (Facet, bool, error) {
	k := len(ids)
	d := k - 1
	A := mat.NewDense(k, k, nil)
	rhs := mat.NewDense(k, 1, nil)
	for row, id := range ids {
		p := points[id]
		for col := 0; col < d; col++ {
			A.Set(row, col, p.Coords[col])
		}
		A.Set(row, d, 1)
		rhs.Set(row, 0, p.Energy)
	}
	var sol mat.Dense
	if err := sol.Solve(A, rhs); err != nil {
		return Facet{}, false, nil
	}
	n := make([]float64, d)
	for i := 0; i < d; i++ {
		n[i] = sol.At(i, 0)
	}
	b := sol.At(d, 0)

	inFacet := make(map[int]bool, k)
	for _, id := range ids {
		inFacet[id] = true
	}
	for id, p := range points {
		if inFacet[id] {
			continue
		}
		pred := b
		for i := 0; i < d; i++ {
			pred += n[i] * p.Coords[i]
		}
		if p.Energy < pred-lowerHullTol {
			return Facet{}, false, nil
		}
	}

	normal := append(append([]float64(nil), n...), -1)
	return Facet{VertexIDs: ids, Normal: normal, Offset: b, Area: simplexArea(points, ids)}, true, nil
}

// simplexArea returns the (k-1)-dimensional volume of the simplex spanned
// by points[ids] in the lifted (coords, energy) space, via the Gram
// determinant: vol = sqrt(det(E·Eᵀ)) / (k-1)!, E the matrix of edge
// vectors from the first vertex.
func simplexArea(points []Point, ids []int) float64 {
	k := len(ids)
	if k <= 1 {
		return 0
	}
	base := ambient(points[ids[0]])
	m := k - 1
	edges := make([][]float64, m)
	for i := 1; i < k; i++ {
		v := ambient(points[ids[i]])
		e := make([]float64, len(v))
		for j := range v {
			e[j] = v[j] - base[j]
		}
		edges[i-1] = e
	}
	G := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			G.Set(i, j, dot(edges[i], edges[j]))
		}
	}
	det := mat.Det(G)
	if det < 0 {
		det = 0
	}
	return math.Sqrt(det) / factorial(m)
}

func ambient(p Point) []float64 {
	return append(append([]float64(nil), p.Coords...), p.Energy)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
