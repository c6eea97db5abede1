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

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// tileKey identifies a tile by its core-grid cell indices.
type tileKey struct {
	ix, iy int
}

// coreTile is a tile as it exists after the first splitting pass: only
// the points whose core-tile assignment is this key, not yet carrying
// any buffer points from neighbors.
type coreTile struct {
	key    tileKey
	core   coreBounds
	points []Point
}

// Bounds lets a coreTile be indexed in an R-tree keyed by its core
// extent, mirroring the teacher package's pattern of inserting grid
// cells into an Rtree keyed by their geometry and querying it with
// SearchIntersect.
func (t *coreTile) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: t.core.XLo, Y: t.core.YLo},
		Max: geom.Point{X: t.core.XHi, Y: t.core.YHi},
	}
}

// SplitCloudBuffered partitions points into a set of Tiles covering the
// cloud's XY bounding box, per spec section 4.C: core regions form a
// disjoint tiling aligned to a grid anchored at
// (floor(xmin/coreWidth)*coreWidth, floor(ymin/coreWidth)*coreWidth),
// and each tile additionally carries buffer copies of points from its
// 8-connected neighbors within bufferWidth of the shared edge.
func SplitCloudBuffered(points []Point, coreWidth, bufferWidth float64) ([]Tile, error) {
	if coreWidth <= 0 {
		return nil, ErrInvalidConfig
	}
	if bufferWidth < 0 {
		return nil, ErrInvalidConfig
	}
	if len(points) == 0 {
		return nil, nil
	}

	x0, y0 := math.Inf(1), math.Inf(1)
	for _, p := range points {
		if p.X < x0 {
			x0 = p.X
		}
		if p.Y < y0 {
			y0 = p.Y
		}
	}
	x0 = math.Floor(x0/coreWidth) * coreWidth
	y0 = math.Floor(y0/coreWidth) * coreWidth

	cores := make(map[tileKey]*coreTile)
	for _, p := range points {
		k := tileKey{
			ix: int(math.Floor((p.X - x0) / coreWidth)),
			iy: int(math.Floor((p.Y - y0) / coreWidth)),
		}
		t, ok := cores[k]
		if !ok {
			t = &coreTile{
				key: k,
				core: coreBounds{
					XLo: x0 + float64(k.ix)*coreWidth,
					XHi: x0 + float64(k.ix+1)*coreWidth,
					YLo: y0 + float64(k.iy)*coreWidth,
					YHi: y0 + float64(k.iy+1)*coreWidth,
				},
			}
			cores[k] = t
		}
		t.points = append(t.points, p)
	}

	tree := rtree.NewTree(25, 50)
	for _, t := range cores {
		tree.Insert(t)
	}

	// Deterministic tile ordering: the assembler relies on tiles being
	// sorted before ID renumbering (spec section 4.D).
	keys := make([]tileKey, 0, len(cores))
	for k := range cores {
		keys = append(keys, k)
	}
	sortTileKeys(keys)

	tiles := make([]Tile, 0, len(keys))
	for id, k := range keys {
		t := cores[k]
		tile := Tile{ID: id, Core: t.core}
		tile.Points = append(tile.Points, t.points...)
		tile.InBuffer = append(tile.InBuffer, make([]bool, len(t.points))...)

		buffered := &geom.Bounds{
			Min: geom.Point{X: t.core.XLo - bufferWidth, Y: t.core.YLo - bufferWidth},
			Max: geom.Point{X: t.core.XHi + bufferWidth, Y: t.core.YHi + bufferWidth},
		}
		for _, x := range tree.SearchIntersect(buffered) {
			n := x.(*coreTile)
			if n.key == t.key {
				continue
			}
			dx, dy := n.key.ix-t.key.ix, n.key.iy-t.key.iy
			if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
				continue // not 8-connected; can happen for tiny cores and a large buffer
			}
			for _, p := range n.points {
				if !inBufferStrip(p, t.core, dx, dy, bufferWidth) {
					continue
				}
				tile.Points = append(tile.Points, p)
				tile.InBuffer = append(tile.InBuffer, true)
			}
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}

// inBufferStrip reports whether point p, which belongs to the core
// tile offset (dx, dy) compass cells away from core, lies within
// bufferWidth of core's boundary in the direction(s) of the offset.
func inBufferStrip(p Point, core coreBounds, dx, dy int, bufferWidth float64) bool {
	switch dx {
	case 1:
		if p.X >= core.XHi+bufferWidth {
			return false
		}
	case -1:
		if p.X < core.XLo-bufferWidth {
			return false
		}
	}
	switch dy {
	case 1:
		if p.Y >= core.YHi+bufferWidth {
			return false
		}
	case -1:
		if p.Y < core.YLo-bufferWidth {
			return false
		}
	}
	return true
}

// sortTileKeys orders tiles in row-major order (y, then x), giving
// deterministic, spatially coherent tile IDs for equal inputs.
func sortTileKeys(keys []tileKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].iy != keys[j].iy {
			return keys[i].iy < keys[j].iy
		}
		return keys[i].ix < keys[j].ix
	})
}
