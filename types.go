/*
Copyright © 2026 the amscrown authors.
This file is part of amscrown.

amscrown is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

amscrown is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with amscrown.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package amscrown delineates individual tree crowns from airborne LiDAR
// point clouds using Adaptive Mean Shift 3D (AMS3D, Ferraz et al. 2012).
package amscrown

import "math"

// Point is a single LiDAR return. Coordinates are in the units of the
// input data (conventionally meters).
type Point struct {
	X, Y, Z float64
}

// ModedPoint is a Point augmented with the density-mode position its
// mean-shift kernel converged to.
type ModedPoint struct {
	Point
	ModeX, ModeY, ModeZ float64
}

// Mode returns the point the Point converged to.
func (m ModedPoint) Mode() Point { return Point{m.ModeX, m.ModeY, m.ModeZ} }

// OutputPoint is a ModedPoint tagged with its globally-unique crown ID.
// CrownID 0 means the point was not assigned to any crown ("noise").
type OutputPoint struct {
	ModedPoint
	CrownID int
}

// LabeledCloud is the final output of SegmentTreeCrowns: every input point
// that survived the min_height filter, exactly once, tagged with its
// crown ID.
type LabeledCloud []OutputPoint

// coreBounds is the four edges of a tile's core (non-buffered) region:
// [XLo, XHi) x [YLo, YHi).
type coreBounds struct {
	XLo, XHi, YLo, YHi float64
}

// contains reports whether (x, y) lies inside b, using the tiling
// convention that the low edge is inclusive and the high edge is
// exclusive.
func (b coreBounds) contains(x, y float64) bool {
	return x >= b.XLo && x < b.XHi && y >= b.YLo && y < b.YHi
}

// Tile is a rectangular core region with a buffered halo, as described in
// spec section 4.C. Points carries every input point whose (x, y) falls
// in the buffered (core + halo) region; InBuffer[i] is true iff
// Points[i] lies outside the core.
type Tile struct {
	ID       int
	Core     coreBounds
	Points   []Point
	InBuffer []bool
}

// coreCount returns the number of points in t that lie in the tile's core
// (InBuffer == false).
func (t *Tile) coreCount() int {
	n := 0
	for _, b := range t.InBuffer {
		if !b {
			n++
		}
	}
	return n
}

// TileResult is the per-tile output of the mean-shift + labeling
// pipeline: every ModedPoint retained after the core-area filter (spec
// section 4.D step 6), tagged with a tile-local crown ID. ID 0 denotes
// "unclustered".
type TileResult struct {
	TileID int
	Points []ModedPoint
	IDs    []int
}

// pointList accumulates points and their local cluster assignment while
// a tile is being processed, keeping the two parallel slices in
// lock-step as they are built up incrementally.
type pointList struct {
	points []ModedPoint
	ids    []int
}

func newPointList(capacity int) *pointList {
	return &pointList{
		points: make([]ModedPoint, 0, capacity),
		ids:    make([]int, 0, capacity),
	}
}

func (l *pointList) add(p ModedPoint, id int) {
	l.points = append(l.points, p)
	l.ids = append(l.ids, id)
}

func (l *pointList) result(tileID int) TileResult {
	return TileResult{TileID: tileID, Points: l.points, IDs: l.ids}
}

// dist3 returns the Euclidean distance between two 3D points.
func dist3(x1, y1, z1, x2, y2, z2 float64) float64 {
	dx, dy, dz := x1-x2, y1-y2, z1-z2
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
