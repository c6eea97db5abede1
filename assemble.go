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

import "sort"

// Assemble concatenates a set of TileResults into a single LabeledCloud,
// per spec section 4.F. Tile-local crown IDs are not globally unique, so
// each tile's non-zero IDs are rewritten by a running offset: results
// must be given in ascending TileID order (RunTiled already returns them
// that way). ID 0 ("noise") is preserved across every tile and its
// points are appended last, after every clustered point.
func Assemble(results []TileResult, compact bool) LabeledCloud {
	out := make(LabeledCloud, 0, countPoints(results))
	var noise []OutputPoint

	offset := 0
	for _, r := range results {
		maxID := offset // a tile contributing no non-zero IDs must not reset the offset
		for i, localID := range r.IDs {
			if localID == 0 {
				noise = append(noise, OutputPoint{ModedPoint: r.Points[i], CrownID: 0})
				continue
			}
			globalID := localID + offset
			if globalID > maxID {
				maxID = globalID
			}
			out = append(out, OutputPoint{ModedPoint: r.Points[i], CrownID: globalID})
		}
		offset = maxID
	}
	out = append(out, noise...)

	if compact {
		compactIDs(out)
	}
	return out
}

func countPoints(results []TileResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Points)
	}
	return n
}

// compactIDs renumbers the non-zero crown IDs in cloud to a dense 1..K
// range, in ascending order of the original ID, leaving ID 0 untouched
// (spec section 4.F's optional Compact pass).
func compactIDs(cloud LabeledCloud) {
	seen := make(map[int]int)
	order := make([]int, 0)
	for _, p := range cloud {
		if p.CrownID == 0 {
			continue
		}
		if _, ok := seen[p.CrownID]; !ok {
			seen[p.CrownID] = 0
			order = append(order, p.CrownID)
		}
	}
	sort.Ints(order)
	remap := make(map[int]int, len(order))
	for i, id := range order {
		remap[id] = i + 1
	}
	for i, p := range cloud {
		if p.CrownID != 0 {
			cloud[i].CrownID = remap[p.CrownID]
		}
	}
}
