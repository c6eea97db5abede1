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

// Package spatialgrid implements a uniform horizontal grid index used to
// accelerate the mean-shift engine's neighbor scan and the mode
// labeler's density query, as recommended in spec section 4.B. Points
// are bucketed by floor(x/cell), floor(y/cell); a query for a bounding
// radius visits only the 3x3 block of buckets around the query point,
// since cell is chosen to be at least as large as the query's maximum
// possible radius.
package spatialgrid

// Index buckets 2D (X, Y) keys by a fixed cell size and reports, for a
// query point and radius no larger than that cell size, the candidate
// indices whose bucket could contain a match. Exact membership is left
// to the caller, matching the teacher package's bbox-query-then-filter
// idiom (query an index for a superset, then apply the exact test).
type Index struct {
	cell    float64
	buckets map[bucketKey][]int
}

type bucketKey struct {
	bx, by int64
}

// New builds an Index over xs, ys bucketed at the given cell size. xs
// and ys must be the same length; cell must be > 0.
func New(xs, ys []float64, cell float64) *Index {
	idx := &Index{
		cell:    cell,
		buckets: make(map[bucketKey][]int, len(xs)),
	}
	for i := range xs {
		k := idx.keyOf(xs[i], ys[i])
		idx.buckets[k] = append(idx.buckets[k], i)
	}
	return idx
}

func (idx *Index) keyOf(x, y float64) bucketKey {
	return bucketKey{bx: floorDiv(x, idx.cell), by: floorDiv(y, idx.cell)}
}

func floorDiv(v, cell float64) int64 {
	q := v / cell
	iq := int64(q)
	if q < 0 && float64(iq) != q {
		iq--
	}
	return iq
}

// Query appends to dst every point index whose bucket lies within the
// 3x3 neighborhood of (x, y)'s bucket, i.e. every candidate within
// `cell` of (x, y). The caller must apply its own exact distance test;
// Query only narrows the brute-force scan.
func (idx *Index) Query(x, y float64, dst []int) []int {
	center := idx.keyOf(x, y)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			k := bucketKey{bx: center.bx + dx, by: center.by + dy}
			dst = append(dst, idx.buckets[k]...)
		}
	}
	return dst
}
