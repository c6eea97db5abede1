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

import "math"

// kernelGeometry is the adaptive cylinder derived from a centroid's
// height above ground (spec section 4.A).
type kernelGeometry struct {
	radius float64 // cylinder radius
	height float64 // cylinder height
	center float64 // vertical center of the cylinder (mz)
}

// geometry computes the adaptive kernel geometry for a centroid at
// height cz, for the given configuration.
func (cfg *Configuration) geometry(cz float64) kernelGeometry {
	r := cfg.CrownDiameterToHeight * cz * 0.5
	h := cfg.CrownHeightToHeight * cz * cfg.heightFactor()
	g := kernelGeometry{radius: r, height: h}
	if cfg.Variant == Improved {
		g.center = cz + h/6
	} else {
		g.center = cz
	}
	return g
}

// contains reports whether (px, py, pz) lies inside the cylinder
// centered horizontally at (cx, cy) with the geometry's radius and
// height.
func (g kernelGeometry) contains(cx, cy, px, py, pz float64) bool {
	dx, dy := px-cx, py-cy
	if dx*dx+dy*dy > g.radius*g.radius {
		return false
	}
	return pz >= g.center-g.height/2 && pz <= g.center+g.height/2
}

// horizontalWeight is the Gaussian horizontal weight: exp(-5*dh^2) where
// dh is the horizontal distance from (cx, cy) normalized by the cylinder
// radius.
func (g kernelGeometry) horizontalWeight(cx, cy, px, py float64) float64 {
	dh := math.Hypot(px-cx, py-cy) / g.radius
	return math.Exp(-5 * dh * dh)
}

// verticalWeightClassic is the asymmetric, upper-3/4 Epanechnikov weight
// used by the Classic kernel variant. cz is the centroid height (not the
// kernel center, which for Classic equals cz).
func (g kernelGeometry) verticalWeightClassic(cz, pz float64) float64 {
	lo, hi := cz-g.height/4, cz+g.height/2
	if pz < lo || pz > hi {
		return 0
	}
	dv := math.Min(math.Abs(lo-pz), math.Abs(hi-pz)) / (3 * g.height / 8)
	return 1 - (1-dv)*(1-dv)
}

// verticalWeightImproved is the symmetric Epanechnikov weight used by
// the Improved kernel variant: the cylinder test already gates
// membership, so no mask is needed here.
func (g kernelGeometry) verticalWeightImproved(pz float64) float64 {
	dv := math.Abs(g.center-pz) / (g.height / 2)
	return 1 - dv*dv
}

// weight returns the combined vertical*horizontal weight of candidate
// point p with respect to centroid (cx, cy, cz), per cfg's kernel
// variant. Callers must have already confirmed membership with
// contains.
func (cfg *Configuration) weight(g kernelGeometry, cx, cy, cz, px, py, pz float64) float64 {
	var vertical float64
	if cfg.Variant == Improved {
		vertical = g.verticalWeightImproved(pz)
	} else {
		vertical = g.verticalWeightClassic(cz, pz)
	}
	return vertical * g.horizontalWeight(cx, cy, px, py)
}
