// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hull

// HullPoint is one point surviving a phase's internal hull, re-expressed in
// the shared global coordinate system (§3 "Hull point").
type HullPoint struct {
	PhaseName      string
	InternalCoords []float64 // independent internal coordinates, for same-phase distance tests
	SiteFracs      [][]float64
	MoleFracs      []float64 // full vector, one entry per conditions.Elements
	Energy         float64
	OnHull         bool
}

// HullMap is the append-only store of hull points described in §3: random
// access by id, plus a mutating setter for the on-global-hull flag. It is
// written only by GlobalLowerHull and the single thread executing a
// GlobalMinimizer run (§5); nothing exposes mutation of it afterward.
type HullMap struct {
	pts []HullPoint
}

// NewHullMap returns an empty HullMap.
func NewHullMap() *HullMap { return &HullMap{} }

// Add appends p and returns its id.
func (m *HullMap) Add(p HullPoint) int {
	m.pts = append(m.pts, p)
	return len(m.pts) - 1
}

// Get returns the point stored at id.
func (m *HullMap) Get(id int) HullPoint { return m.pts[id] }

// SetOnHull sets the on-global-hull flag of the point stored at id.
func (m *HullMap) SetOnHull(id int, v bool) { m.pts[id].OnHull = v }

// Len returns the number of stored points.
func (m *HullMap) Len() int { return len(m.pts) }

// All returns every stored point, in insertion (id) order.
func (m *HullMap) All() []HullPoint { return m.pts }

// GlobalLowerHull computes the global lower hull over every point in m, in
// (mole-fractions-minus-last, energy) space (§4.6), and marks every facet
// vertex's on-global-hull flag.
func GlobalLowerHull(m *HullMap) ([]Facet, error) {
	geom := make([]Point, m.Len())
	for i, p := range m.pts {
		geom[i] = Point{Coords: DropDependentDimensions(p.MoleFracs), Energy: p.Energy}
	}
	facets, err := LowerHull(geom)
	if err != nil {
		return nil, err
	}
	for _, f := range facets {
		for _, vid := range f.VertexIDs {
			m.SetOnHull(vid, true)
		}
	}
	return facets, nil
}
