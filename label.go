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

package amscrown

import "github.com/Lenostatos/meanshiftr-improved/internal/spatialgrid"

// LabelModes clusters a mode cloud into crown IDs using density-based
// clustering (spec section 4.E): two points get the same ID iff their
// modes are transitively eps-connected via other core points, where a
// core point has at least minPts other points (itself excluded) within
// eps. Points unreachable from any core point get ID 0 ("noise").
//
// Candidate core points are visited in ascending index order and
// expanded breadth-first, so the resulting partition is deterministic
// for a given input ordering, per spec section 4.E.
func LabelModes(modes []Point, eps float64, minPts int) []int {
	n := len(modes)
	labels := make([]int, n)
	if n == 0 || eps <= 0 || minPts < 1 {
		return labels
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, m := range modes {
		xs[i] = m.X
		ys[i] = m.Y
	}
	index := spatialgrid.New(xs, ys, eps)

	neighborsOf := func(i int, dst []int) []int {
		dst = dst[:0]
		var candidates []int
		candidates = index.Query(modes[i].X, modes[i].Y, candidates)
		for _, j := range candidates {
			if dist3(modes[i].X, modes[i].Y, modes[i].Z, modes[j].X, modes[j].Y, modes[j].Z) <= eps {
				dst = append(dst, j)
			}
		}
		return dst
	}

	const unvisited = -1
	visited := make([]int, n)
	for i := range visited {
		visited[i] = unvisited
	}

	clusterID := 0
	var nbuf, qbuf []int
	for i := 0; i < n; i++ {
		if visited[i] != unvisited {
			continue
		}
		nbuf = neighborsOf(i, nbuf)
		if len(nbuf)-1 < minPts { // -1: neighborsOf includes the point itself, minPts must not
			visited[i] = 0 // tentatively noise; may be claimed as a border point later
			continue
		}

		clusterID++
		visited[i] = clusterID
		queue := append(qbuf[:0], nbuf...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if visited[j] == clusterID {
				continue
			}
			wasUnvisited := visited[j] == unvisited
			visited[j] = clusterID
			if !wasUnvisited {
				continue // reclaimed noise point: a border point, don't expand further
			}
			var jn []int
			jn = neighborsOf(j, jn)
			if len(jn)-1 >= minPts {
				queue = append(queue, jn...)
			}
		}
		qbuf = queue
	}

	copy(labels, visited) // every entry is now 0 (noise) or a positive cluster ID
	return labels
}
