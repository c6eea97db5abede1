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
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
)

// tileOutcome is a worker's report for a single tile, sent over the
// result channel the way the teacher package's job workers reported
// results and errors on separate but jointly-drained channels.
type tileOutcome struct {
	result TileResult
	err    error
}

// RunTiled dispatches mean-shift + labeling across tiles using a worker
// pool, per spec section 4.D. Tiles are independent tasks; ordering of
// completion is irrelevant, but the returned slice is sorted by tile ID
// so that equal inputs produce equal output (spec section 5).
//
// The worker pool is acquired at the start of the call and fully joined
// before RunTiled returns on every exit path, including the error path.
// If any tile's task returns a fatal error, in-flight tiles are allowed
// to finish but no further tiles are dispatched; the first error is
// returned.
func RunTiled(ctx context.Context, tiles []Tile, cfg Configuration) ([]TileResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(tiles) == 0 {
		return nil, nil
	}

	nworkers := cfg.workers(runtime.NumCPU())
	if nworkers > len(tiles) {
		nworkers = len(tiles)
	}

	jobCh := make(chan int, len(tiles))
	resultCh := make(chan tileOutcome, len(tiles))
	var stopped int32

	for i := range tiles {
		jobCh <- i
	}
	close(jobCh)

	var wg sync.WaitGroup
	wg.Add(nworkers)
	for w := 0; w < nworkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				if atomic.LoadInt32(&stopped) == 1 {
					continue // drain remaining jobs without doing new work
				}
				out := runTileSafely(ctx, &tiles[idx], cfg)
				if out.err != nil {
					atomic.StoreInt32(&stopped, 1)
				}
				resultCh <- out
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]TileResult, 0, len(tiles))
	var firstErr error
	done := 0
	for out := range resultCh {
		done++
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}
			continue
		}
		results = append(results, out.result)
		if cfg.Progress != nil {
			cfg.Progress(done, len(tiles))
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sortTileResults(results)
	return results, nil
}

// runTileSafely runs runTile, converting a recovered panic into a
// wrapped ErrWorkerPanic instead of crashing the process (spec section
// 7's WorkerPanic taxonomy entry).
func runTileSafely(ctx context.Context, tile *Tile, cfg Configuration) (out tileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = tileOutcome{err: fmt.Errorf("%w: tile %d: %v", ErrWorkerPanic, tile.ID, r)}
		}
	}()
	result, err := runTile(ctx, tile, cfg)
	if err != nil {
		return tileOutcome{err: fmt.Errorf("amscrown: processing tile %d: %w", tile.ID, err)}
	}
	return tileOutcome{result: result}
}

// runTile is the per-task pipeline of spec section 4.D: height filter,
// numerical re-centering, mean-shift, labeling, and the core-area
// retention filter that prevents a crown cut by a tile boundary from
// being counted twice.
func runTile(ctx context.Context, tile *Tile, cfg Configuration) (TileResult, error) {
	filtered, inBuffer := filterByHeight(tile.Points, tile.InBuffer, cfg.MinHeight)
	if len(filtered) == 0 {
		return TileResult{TileID: tile.ID}, nil // degenerate tile: an empty result, not an error; nothing is logged
	}

	offX, offY := tile.Core.XLo, tile.Core.YLo
	shifted := make([]Point, len(filtered))
	for i, p := range filtered {
		shifted[i] = Point{X: p.X - offX, Y: p.Y - offY, Z: p.Z}
	}

	modes, err := MeanShift(ctx, shifted, cfg)
	if err != nil {
		return TileResult{}, err
	}

	modePoints := make([]Point, len(modes))
	for i, m := range modes {
		modePoints[i] = m.Mode()
	}
	ids := LabelModes(modePoints, cfg.ClusterEps, cfg.ClusterMinPts)

	// Un-shift.
	for i := range modes {
		modes[i].X += offX
		modes[i].Y += offY
		modes[i].ModeX += offX
		modes[i].ModeY += offY
	}

	return retainCoreResult(tile.ID, tile.Core, modes, ids, inBuffer, cfg.ClusterStrategy), nil
}

// filterByHeight keeps only the points (and their InBuffer flags) with
// Z >= minHeight (spec section 4.D step 1).
func filterByHeight(points []Point, inBuffer []bool, minHeight float64) ([]Point, []bool) {
	out := make([]Point, 0, len(points))
	flags := make([]bool, 0, len(points))
	for i, p := range points {
		if p.Z >= minHeight {
			out = append(out, p)
			flags = append(flags, inBuffer[i])
		}
	}
	return out, flags
}

// retainCoreResult applies the tile's core-area retention rule (spec
// section 4.D step 6 and the two strategies named in section 4.F/9) and
// packages the survivors into a TileResult.
func retainCoreResult(tileID int, core coreBounds, modes []ModedPoint, ids []int, inBuffer []bool, strategy ClusterStrategy) TileResult {
	list := newPointList(len(modes))

	if strategy == RoundedMode {
		for i, m := range modes {
			if core.contains(m.ModeX, m.ModeY) {
				list.add(m, ids[i])
			}
		}
		return list.result(tileID)
	}

	// ClusterCenter: compute the mean mode position of every non-zero
	// local cluster ID seen in this tile (including buffer points, since
	// a crown spanning the boundary needs its full extent to locate its
	// true center), then retain a point iff that mean lies in the core.
	membersX := map[int][]float64{}
	membersY := map[int][]float64{}
	for i, id := range ids {
		if id == 0 {
			continue
		}
		membersX[id] = append(membersX[id], modes[i].ModeX)
		membersY[id] = append(membersY[id], modes[i].ModeY)
	}

	for i, id := range ids {
		if id == 0 {
			if core.contains(modes[i].ModeX, modes[i].ModeY) {
				list.add(modes[i], 0)
			}
			continue
		}
		n := float64(len(membersX[id]))
		cx := floats.Sum(membersX[id]) / n
		cy := floats.Sum(membersY[id]) / n
		if core.contains(cx, cy) {
			list.add(modes[i], id)
		}
	}
	return list.result(tileID)
}

func sortTileResults(results []TileResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].TileID < results[j].TileID })
}
