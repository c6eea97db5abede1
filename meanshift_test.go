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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func treeConfig() Configuration {
	cfg := DefaultConfiguration()
	cfg.CrownDiameterToHeight = 0.6
	cfg.CrownHeightToHeight = 0.8
	cfg.MaxIterations = 100
	cfg.ConvergenceEpsilon = 1e-4
	// Validate also checks the tiling and clustering fields.
	cfg.CoreWidth = 30
	cfg.ClusterMinPts = 2
	return cfg
}

// singleTowerCloud is a tight vertical cluster of returns simulating one
// tree crown (spec section 8 scenario A).
func singleTowerCloud() []Point {
	var pts []Point
	for z := 2.0; z <= 10; z += 1 {
		for dx := -0.2; dx <= 0.2; dx += 0.2 {
			for dy := -0.2; dy <= 0.2; dy += 0.2 {
				pts = append(pts, Point{X: dx, Y: dy, Z: z})
			}
		}
	}
	return pts
}

func TestMeanShiftModesStayOnTowerAxis(t *testing.T) {
	cfg := treeConfig()
	pts := singleTowerCloud()
	modes, err := MeanShift(context.Background(), pts, cfg)
	if err != nil {
		t.Fatalf("MeanShift: %v", err)
	}
	if len(modes) != len(pts) {
		t.Fatalf("expected %d modes, got %d", len(pts), len(modes))
	}
	for _, m := range modes {
		if math.Abs(m.ModeX) > 0.3 || math.Abs(m.ModeY) > 0.3 {
			t.Errorf("mode (%v, %v) strayed far from the tower's axis", m.ModeX, m.ModeY)
		}
	}
}

func TestMeanShiftRejectsInvalidConfig(t *testing.T) {
	cfg := Configuration{}
	if _, err := MeanShift(context.Background(), []Point{{}}, cfg); err == nil {
		t.Error("expected a validation error for a zero-value configuration")
	}
}

func TestMeanShiftEmptyInput(t *testing.T) {
	cfg := treeConfig()
	modes, err := MeanShift(context.Background(), nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(modes) != 0 {
		t.Errorf("expected 0 modes, got %d", len(modes))
	}
}

func TestMeanShiftHonorsCancellation(t *testing.T) {
	cfg := treeConfig()
	pts := singleTowerCloud()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	modes, err := MeanShift(ctx, pts, cfg)
	if err == nil {
		t.Error("expected a context-cancellation error")
	}
	if len(modes) != len(pts) {
		t.Fatalf("expected %d modes even on cancellation, got %d", len(pts), len(modes))
	}
	for i, m := range modes {
		if m.ModeX != pts[i].X || m.ModeY != pts[i].Y || m.ModeZ != pts[i].Z {
			t.Errorf("point %d: expected an untouched identity mode on cancellation, got %+v", i, m)
		}
	}
}

// TestMeanShiftTranslationInvariant checks that shifting every input
// point by the same horizontal vector shifts every resulting mode by the
// same vector (spec section 8's translation-invariance property). Z is
// left unshifted: kernel radius and height scale with height.
func TestMeanShiftTranslationInvariant(t *testing.T) {
	cfg := treeConfig()
	base := singleTowerCloud()
	shifted := make([]Point, len(base))
	const dx, dy, dz = 100, -50, 0
	for i, p := range base {
		shifted[i] = Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
	}

	m1, err := MeanShift(context.Background(), base, cfg)
	if err != nil {
		t.Fatalf("MeanShift(base): %v", err)
	}
	m2, err := MeanShift(context.Background(), shifted, cfg)
	if err != nil {
		t.Fatalf("MeanShift(shifted): %v", err)
	}
	opt := cmpopts.EquateApprox(0, 1e-6)
	for i := range m1 {
		got := Point{m2[i].ModeX - dx, m2[i].ModeY - dy, m2[i].ModeZ - dz}
		want := m1[i].Mode()
		if diff := cmp.Diff(want, got, opt); diff != "" {
			t.Errorf("point %d: translated mode mismatch (-want +got):\n%s", i, diff)
		}
	}
}
