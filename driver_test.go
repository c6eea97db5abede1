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
	"errors"
	"testing"
)

func driverTestConfig() Configuration {
	cfg := treeConfig()
	cfg.ClusterEps = 1
	cfg.ClusterMinPts = 2
	cfg.CoreWidth = 20
	cfg.BufferWidth = 4
	return cfg
}

func TestRunTiledEmptyInput(t *testing.T) {
	results, err := RunTiled(context.Background(), nil, driverTestConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRunTiledRejectsInvalidConfig(t *testing.T) {
	tiles := []Tile{{ID: 0, Core: coreBounds{XHi: 10, YHi: 10}, Points: []Point{{Z: 5}}, InBuffer: []bool{false}}}
	if _, err := RunTiled(context.Background(), tiles, Configuration{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}

func TestRunTiledFiltersBelowMinHeight(t *testing.T) {
	cfg := driverTestConfig()
	cfg.MinHeight = 5
	tile := Tile{
		ID:       0,
		Core:     coreBounds{XLo: 0, XHi: 20, YLo: 0, YHi: 20},
		Points:   []Point{{X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 10}},
		InBuffer: []bool{false, false},
	}
	results, err := RunTiled(context.Background(), []Tile{tile}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 tile result, got %d", len(results))
	}
	if len(results[0].Points) != 1 {
		t.Errorf("expected 1 surviving point, got %d", len(results[0].Points))
	}
}

func TestRunTiledSortsResultsByTileID(t *testing.T) {
	cfg := driverTestConfig()
	tiles := []Tile{
		{ID: 2, Core: coreBounds{XLo: 0, XHi: 20, YLo: 0, YHi: 20}, Points: []Point{{X: 1, Y: 1, Z: 5}}, InBuffer: []bool{false}},
		{ID: 0, Core: coreBounds{XLo: 0, XHi: 20, YLo: 0, YHi: 20}, Points: []Point{{X: 1, Y: 1, Z: 5}}, InBuffer: []bool{false}},
		{ID: 1, Core: coreBounds{XLo: 0, XHi: 20, YLo: 0, YHi: 20}, Points: []Point{{X: 1, Y: 1, Z: 5}}, InBuffer: []bool{false}},
	}
	results, err := RunTiled(context.Background(), tiles, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range results {
		if r.TileID != i {
			t.Errorf("results[%d].TileID = %d, want %d", i, r.TileID, i)
		}
	}
}

func TestRetainCoreResultRoundedModeKeepsOnlyCoreModes(t *testing.T) {
	core := coreBounds{XLo: 0, XHi: 10, YLo: 0, YHi: 10}
	modes := []ModedPoint{
		{Point: Point{X: 5}, ModeX: 5, ModeY: 5, ModeZ: 0},
		{Point: Point{X: 15}, ModeX: 15, ModeY: 5, ModeZ: 0}, // outside core
	}
	result := retainCoreResult(0, core, modes, []int{1, 1}, []bool{false, true}, RoundedMode)
	if len(result.Points) != 1 {
		t.Fatalf("expected 1 retained point, got %d", len(result.Points))
	}
	if result.Points[0].ModeX != 5 {
		t.Errorf("unexpected retained point: %+v", result.Points[0])
	}
}

func TestRetainCoreResultClusterCenterUsesMeanPosition(t *testing.T) {
	// A single cluster straddling the core boundary: its mean mode
	// position decides retention for every member, including the buffer
	// copy.
	core := coreBounds{XLo: 0, XHi: 10, YLo: 0, YHi: 10}
	modes := []ModedPoint{
		{Point: Point{X: 8}, ModeX: 8, ModeY: 5, ModeZ: 0},  // in core
		{Point: Point{X: 11}, ModeX: 11, ModeY: 5, ModeZ: 0}, // in buffer, same cluster
	}
	result := retainCoreResult(0, core, modes, []int{1, 1}, []bool{false, true}, ClusterCenter)
	// Mean X = 9.5, which lies in the core, so both members are retained.
	if len(result.Points) != 2 {
		t.Fatalf("expected both cluster members retained under ClusterCenter, got %d", len(result.Points))
	}
}

func TestRunTileSafelyRecoversPanic(t *testing.T) {
	// A tile with mismatched Points/InBuffer lengths will panic inside
	// filterByHeight's index access; runTileSafely must convert this to
	// an ErrWorkerPanic instead of crashing the test binary.
	tile := &Tile{ID: 3, Points: []Point{{Z: 5}}, InBuffer: nil}
	out := runTileSafely(context.Background(), tile, driverTestConfig())
	if out.err == nil {
		t.Fatal("expected an error from the malformed tile")
	}
	if !errors.Is(out.err, ErrWorkerPanic) {
		t.Errorf("got %v, want ErrWorkerPanic", out.err)
	}
}
