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

// Package csvio reads and writes the reference CSV cloud formats used by
// the amscrown command line: an input cloud of bare (x, y, z) returns,
// and an output cloud of labeled points (spec section 6).
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Lenostatos/meanshiftr-improved"
)

var inputHeader = []string{"x", "y", "z"}

var outputHeader = []string{"x", "y", "z", "mode_x", "mode_y", "mode_z", "crown_id"}

// Writer wraps csv.Writer with a method for writing a LabeledCloud in the
// output format amscrown's CLI produces.
type Writer struct {
	w *csv.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// WriteCloud writes cloud's header and rows, flushing when done.
func (w *Writer) WriteCloud(cloud amscrown.LabeledCloud) error {
	if err := w.w.Write(outputHeader); err != nil {
		return fmt.Errorf("csvio: writing header: %w", err)
	}
	row := make([]string, len(outputHeader))
	for _, p := range cloud {
		row[0] = strconv.FormatFloat(p.X, 'g', -1, 64)
		row[1] = strconv.FormatFloat(p.Y, 'g', -1, 64)
		row[2] = strconv.FormatFloat(p.Z, 'g', -1, 64)
		row[3] = strconv.FormatFloat(p.ModeX, 'g', -1, 64)
		row[4] = strconv.FormatFloat(p.ModeY, 'g', -1, 64)
		row[5] = strconv.FormatFloat(p.ModeZ, 'g', -1, 64)
		row[6] = strconv.Itoa(p.CrownID)
		if err := w.w.Write(row); err != nil {
			return fmt.Errorf("csvio: writing row: %w", err)
		}
	}
	w.w.Flush()
	return w.w.Error()
}
