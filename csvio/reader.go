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

package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Lenostatos/meanshiftr-improved"
)

// ReadCloud reads a point cloud in the reference input CSV format: a
// header row naming "x", "y", "z" in any order, followed by one row per
// return. Extra columns are ignored.
func ReadCloud(r io.Reader) ([]amscrown.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvio: reading header: %w", err)
	}
	ix, iy, iz := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "x":
			ix = i
		case "y":
			iy = i
		case "z":
			iz = i
		}
	}
	if ix < 0 || iy < 0 || iz < 0 {
		return nil, fmt.Errorf("csvio: header %v is missing one of x, y, z", header)
	}

	var points []amscrown.Point
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvio: reading row: %w", err)
		}
		x, err := strconv.ParseFloat(row[ix], 64)
		if err != nil {
			return nil, fmt.Errorf("csvio: parsing x: %w", err)
		}
		y, err := strconv.ParseFloat(row[iy], 64)
		if err != nil {
			return nil, fmt.Errorf("csvio: parsing y: %w", err)
		}
		z, err := strconv.ParseFloat(row[iz], 64)
		if err != nil {
			return nil, fmt.Errorf("csvio: parsing z: %w", err)
		}
		points = append(points, amscrown.Point{X: x, Y: y, Z: z})
	}
	return points, nil
}
