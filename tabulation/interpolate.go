/*
Copyright © 2024 the ICEpost authors.
This file is part of ICEpost.

ICEpost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ICEpost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ICEpost.  If not, see <http://www.gnu.org/licenses/>.
*/

package tabulation

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Log receives the warnings emitted by out-of-range queries.
var Log logrus.FieldLogger = logrus.StandardLogger()

// Options control the treatment of query points outside of the
// sampled ranges.
type Options struct {
	// Fatal makes out-of-range queries return an *OutOfRangeError.
	Fatal bool

	// Extrapolate makes out-of-range queries extrapolate linearly from
	// the outermost interval. Otherwise they return NaN.
	// Non-fatal out-of-range queries are logged as warnings either way.
	Extrapolate bool
}

// DefaultOptions are the options used by most callers.
var DefaultOptions = Options{Extrapolate: true}

// Bounds returns the grid bounds mode matching o.
func (o Options) Bounds() Bounds {
	switch {
	case o.Fatal:
		return BoundsFatal
	case o.Extrapolate:
		return BoundsExtrapolate
	default:
		return BoundsNaN
	}
}

// Query returns the value of the table at point, which holds one
// coordinate per axis in the order of the table, by multilinear
// interpolation between the surrounding grid points.
func (t *Table) Query(point []float64, o Options) (float64, error) {
	return t.query(point, o, make([]Bracket, t.grid.NDim()))
}

// QueryAll queries the table at each of the points independently.
func (t *Table) QueryAll(points [][]float64, o Options) ([]float64, error) {
	out := make([]float64, len(points))
	br := make([]Bracket, t.grid.NDim())
	for i, p := range points {
		v, err := t.query(p, o, br)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (t *Table) query(point []float64, o Options, br []Bracket) (float64, error) {
	g := t.grid
	if len(point) != g.NDim() {
		return math.NaN(), fmt.Errorf("%w: query has %d coordinates but table has axes %v",
			ErrAxisMismatch, len(point), g.order)
	}
	mode := o.Bounds()
	valid := true
	for i, ax := range g.order {
		b, err := g.IndexOf(ax, point[i], mode)
		if err != nil {
			return math.NaN(), err
		}
		if b.OutOfRange {
			r := g.ranges[ax]
			Log.WithFields(logrus.Fields{
				"axis":  ax,
				"value": point[i],
				"min":   r[0],
				"max":   r[len(r)-1],
			}).Warn("tabulation: query out of range")
			if mode == BoundsNaN {
				valid = false
			}
		}
		br[i] = b
	}
	if !valid {
		return math.NaN(), nil
	}
	return t.interpolate(br), nil
}

// interpolate combines the values at the 2^N corners of the cell
// described by br. Corners with zero weight are skipped, so that a
// point lying on a grid line does not depend on the values beyond it.
func (t *Table) interpolate(br []Bracket) float64 {
	n := len(br)
	var v float64
	for c := 0; c < 1<<uint(n); c++ {
		w := 1.
		var o int
		for i, b := range br {
			if c&(1<<uint(i)) == 0 {
				w *= 1 - b.T
				o += b.Lo * t.grid.strides[i]
			} else {
				if b.Hi == b.Lo {
					w = 0
					break
				}
				w *= b.T
				o += b.Hi * t.grid.strides[i]
			}
		}
		if w == 0 {
			continue
		}
		v += w * t.data.Elements[o]
	}
	return v
}
