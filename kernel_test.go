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
	"testing"
)

func testKernelConfig(variant KernelVariant) Configuration {
	cfg := DefaultConfiguration()
	cfg.CrownDiameterToHeight = 0.6
	cfg.CrownHeightToHeight = 0.5
	cfg.Variant = variant
	return cfg
}

func TestGeometryClassicCenteredOnCentroid(t *testing.T) {
	cfg := testKernelConfig(Classic)
	g := cfg.geometry(10)
	if g.center != 10 {
		t.Errorf("Classic kernel center = %v, want 10", g.center)
	}
	wantR := 0.6 * 10 * 0.5
	if g.radius != wantR {
		t.Errorf("radius = %v, want %v", g.radius, wantR)
	}
}

func TestGeometryImprovedShiftedUpward(t *testing.T) {
	cfg := testKernelConfig(Improved)
	g := cfg.geometry(10)
	wantH := 0.5 * 10 * improvedHeightFactor
	wantCenter := 10 + wantH/6
	if math.Abs(g.center-wantCenter) > 1e-9 {
		t.Errorf("Improved kernel center = %v, want %v", g.center, wantCenter)
	}
}

func TestContainsRadiusAndHeightBounds(t *testing.T) {
	cfg := testKernelConfig(Classic)
	g := cfg.geometry(10)
	if !g.contains(0, 0, 0, 0, 10) {
		t.Error("centroid's own position should be contained")
	}
	if g.contains(0, 0, g.radius+1, 0, 10) {
		t.Error("point beyond radius should not be contained")
	}
	if g.contains(0, 0, 0, 0, g.center+g.height) {
		t.Error("point far above the cylinder should not be contained")
	}
}

func TestHorizontalWeightPeaksAtCenter(t *testing.T) {
	cfg := testKernelConfig(Classic)
	g := cfg.geometry(10)
	wCenter := g.horizontalWeight(0, 0, 0, 0)
	wEdge := g.horizontalWeight(0, 0, g.radius, 0)
	if wCenter != 1 {
		t.Errorf("weight at center = %v, want 1", wCenter)
	}
	if wEdge >= wCenter {
		t.Errorf("weight at edge (%v) should be less than at center (%v)", wEdge, wCenter)
	}
}

func TestVerticalWeightClassicAsymmetric(t *testing.T) {
	cfg := testKernelConfig(Classic)
	g := cfg.geometry(10)
	below := g.verticalWeightClassic(10, 10-g.height/4-0.001)
	if below != 0 {
		t.Errorf("weight just below the lower bound should be 0, got %v", below)
	}
	if g.verticalWeightClassic(10, 10) <= 0 {
		t.Error("weight at the centroid's own height should be positive")
	}
}

// TestKernelVariantsDistinct confirms the Classic and Improved variants
// disagree on cylinder membership near the lower boundary: Classic's
// cylinder reaches down to cz-h/2, Improved's only to cz-h/4 (for
// cz=10 here, 7.5 versus 8.75), so a point at pz=8 is inside one and
// not the other.
func TestKernelVariantsDistinct(t *testing.T) {
	classic := testKernelConfig(Classic)
	improved := testKernelConfig(Improved)
	cz, px, py, pz := 10.0, 0.3, 0.0, 8.0

	gc := classic.geometry(cz)
	gi := improved.geometry(cz)
	inClassic := gc.contains(0, 0, px, py, pz)
	inImproved := gi.contains(0, 0, px, py, pz)
	if inClassic == inImproved {
		t.Errorf("expected distinct membership for Classic (%v) and Improved (%v) variants", inClassic, inImproved)
	}
}
