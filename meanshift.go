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
	"context"
	"runtime"
	"sync"

	"github.com/Lenostatos/meanshiftr-improved/internal/spatialgrid"
)

// MeanShift runs the adaptive mean-shift engine (spec section 4.B) on
// points, returning the mode each point's kernel converged to. The
// outer loop over points is embarrassingly parallel: workers stride
// across the point array the way the teacher package's Calculations
// striped cells across nprocs goroutines.
func MeanShift(ctx context.Context, points []Point, cfg Configuration) ([]ModedPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := len(points)
	modes := make([]ModedPoint, n)
	if n == 0 {
		return modes, nil
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	zMax := points[0].Z
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
		if p.Z > zMax {
			zMax = p.Z
		}
	}
	rMax := cfg.CrownDiameterToHeight * zMax * 0.5
	cell := rMax
	if cell <= 0 {
		cell = 1 // degenerate cloud (zMax <= 0); grid still partitions correctly
	}
	index := spatialgrid.New(xs, ys, cell)

	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			var candidates []int
			for ii := pp; ii < n; ii += nprocs {
				select {
				case <-ctx.Done():
					modes[ii] = ModedPoint{Point: points[ii], ModeX: points[ii].X, ModeY: points[ii].Y, ModeZ: points[ii].Z}
					continue
				default:
				}
				candidates = candidates[:0]
				modes[ii] = converge(points, index, points[ii], cfg, candidates)
			}
		}(pp)
	}
	wg.Wait()

	select {
	case <-ctx.Done():
		return modes, ctx.Err()
	default:
	}
	return modes, nil
}

// converge iterates the adaptive kernel starting at p's own position
// until the step size falls below cfg.ConvergenceEpsilon or
// cfg.MaxIterations is reached (spec section 4.B). Non-convergence is
// not an error: the last centroid is emitted unchanged.
func converge(points []Point, index *spatialgrid.Index, p Point, cfg Configuration, candidates []int) ModedPoint {
	cx, cy, cz := p.X, p.Y, p.Z
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		ox, oy, oz := cx, cy, cz
		g := cfg.geometry(cz)

		candidates = index.Query(cx, cy, candidates[:0])
		var sx, sy, sz, sw float64
		for _, j := range candidates {
			q := points[j]
			if !g.contains(cx, cy, q.X, q.Y, q.Z) {
				continue
			}
			w := cfg.weight(g, cx, cy, cz, q.X, q.Y, q.Z)
			sx += w * q.X
			sy += w * q.Y
			sz += w * q.Z
			sw += w
		}
		if sw == 0 {
			// No neighbor found: halt immediately, keeping the previous
			// centroid.
			break
		}
		cx, cy, cz = sx/sw, sy/sw, sz/sw

		if dist3(cx, cy, cz, ox, oy, oz) <= cfg.ConvergenceEpsilon {
			break
		}
	}
	return ModedPoint{Point: p, ModeX: cx, ModeY: cy, ModeZ: cz}
}
