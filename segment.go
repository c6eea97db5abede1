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
)

// SegmentTreeCrowns runs the full AMS3D pipeline over points: splitting
// into buffered tiles, running mean-shift and labeling on each tile in
// parallel, and assembling the per-tile results into one globally
// labeled cloud (spec section 5). It is the single entry point most
// callers need; the component functions (SplitCloudBuffered, RunTiled,
// Assemble) remain exported for callers that need to interleave their
// own logging or checkpointing between stages.
func SegmentTreeCrowns(ctx context.Context, points []Point, cfg Configuration) (LabeledCloud, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tiles, err := SplitCloudBuffered(points, cfg.CoreWidth, cfg.BufferWidth)
	if err != nil {
		return nil, fmt.Errorf("amscrown: splitting cloud into tiles: %w", err)
	}
	if len(tiles) == 0 {
		return nil, nil
	}

	results, err := RunTiled(ctx, tiles, cfg)
	if err != nil {
		return nil, fmt.Errorf("amscrown: running tiled mean-shift: %w", err)
	}

	return Assemble(results, cfg.Compact), nil
}
