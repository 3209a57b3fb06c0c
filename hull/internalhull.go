// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hull

import "github.com/Teslos/pycalphad/sample"

// InternalHull computes one phase's internal lower convex hull: the
// dependent species of every sublattice is dropped from the geometric view
// given to LowerHull (§4.5), and restored on the way back out via
// RestoreDependentSiteFracs so callers keep working in full site-fraction
// coordinates. shape is the species count per sublattice (sample points'
// SiteFracs share this shape).
func InternalHull(pts []sample.Point, shape []int) ([]sample.Point, []Facet, error) {
	if len(pts) == 0 {
		return nil, nil, nil
	}
	geom := make([]Point, len(pts))
	for i, p := range pts {
		geom[i] = Point{Coords: DropDependentSiteFracs(p.SiteFracs), Energy: p.Energy}
	}
	facets, err := LowerHull(geom)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[int]bool)
	var survivors []sample.Point
	for _, f := range facets {
		for _, vid := range f.VertexIDs {
			if seen[vid] {
				continue
			}
			seen[vid] = true
			survivors = append(survivors, sample.Point{
				SiteFracs: RestoreDependentSiteFracs(geom[vid].Coords, shape),
				Energy:    pts[vid].Energy,
				Stable:    pts[vid].Stable,
			})
		}
	}
	return survivors, facets, nil
}
