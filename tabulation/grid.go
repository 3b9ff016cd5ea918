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
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Grid is a rectilinear sampling grid: an ordered set of named axes,
// each with strictly increasing sampling points.
// A Grid is immutable once created, so it can be shared between Tables.
type Grid struct {
	order   []string
	ranges  map[string][]float64
	shape   []int
	strides []int
	pos     map[string]int
	size    int
}

// NewGrid creates a new grid. order sets the nesting of the axes in the
// data (the last axis varies fastest) and must be a permutation of the
// keys of ranges.
func NewGrid(order []string, ranges map[string][]float64) (*Grid, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: grid must have at least one axis", ErrAxisMismatch)
	}
	if len(order) != len(ranges) {
		return nil, fmt.Errorf("%w: order %v has %d axes but there are %d ranges",
			ErrAxisMismatch, order, len(order), len(ranges))
	}
	g := &Grid{
		order:  make([]string, len(order)),
		ranges: make(map[string][]float64, len(order)),
		shape:  make([]int, len(order)),
		pos:    make(map[string]int, len(order)),
	}
	copy(g.order, order)
	for i, ax := range order {
		if _, ok := g.pos[ax]; ok {
			return nil, fmt.Errorf("%w: axis '%s' appears twice in order %v", ErrAxisMismatch, ax, order)
		}
		r, ok := ranges[ax]
		if !ok {
			return nil, fmt.Errorf("%w: axis '%s' has no range", ErrAxisMismatch, ax)
		}
		if err := checkRange(ax, r); err != nil {
			return nil, err
		}
		g.pos[ax] = i
		g.ranges[ax] = append([]float64(nil), r...)
		g.shape[i] = len(r)
	}
	g.strides = stridesOf(g.shape)
	g.size = g.strides[0] * g.shape[0]
	return g, nil
}

func checkRange(axis string, r []float64) error {
	if len(r) == 0 {
		return fmt.Errorf("%w: axis '%s' has no sampling points", ErrRange, axis)
	}
	for i, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: axis '%s' has non-finite sampling point %g", ErrRange, axis, v)
		}
		if i > 0 && v <= r[i-1] {
			return fmt.Errorf("%w: sampling points of axis '%s' are not strictly increasing (%g after %g)",
				ErrRange, axis, v, r[i-1])
		}
	}
	return nil
}

// stridesOf returns the row-major strides of an array with the given shape.
func stridesOf(shape []int) []int {
	s := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}

// Order returns the names of the axes in nesting order.
func (g *Grid) Order() []string { return append([]string(nil), g.order...) }

// Ranges returns a copy of the sampling points of every axis.
func (g *Grid) Ranges() map[string][]float64 {
	o := make(map[string][]float64, len(g.ranges))
	for k, v := range g.ranges {
		o[k] = append([]float64(nil), v...)
	}
	return o
}

// Range returns a copy of the sampling points of axis, or nil
// if there is no such axis.
func (g *Grid) Range(axis string) []float64 {
	r, ok := g.ranges[axis]
	if !ok {
		return nil
	}
	return append([]float64(nil), r...)
}

// Shape returns the number of sampling points along each axis, in order.
func (g *Grid) Shape() []int { return append([]int(nil), g.shape...) }

// Size returns the total number of grid points.
func (g *Grid) Size() int { return g.size }

// NDim returns the number of axes.
func (g *Grid) NDim() int { return len(g.order) }

// Axis returns the position of axis in the order.
func (g *Grid) Axis(axis string) (int, bool) {
	i, ok := g.pos[axis]
	return i, ok
}

// Equal returns whether two grids have the same order and sampling points.
func (g *Grid) Equal(o *Grid) bool {
	if g == o {
		return true
	}
	if g == nil || o == nil || len(g.order) != len(o.order) {
		return false
	}
	for i, ax := range g.order {
		if o.order[i] != ax || !floats.Equal(g.ranges[ax], o.ranges[ax]) {
			return false
		}
	}
	return true
}

// Input returns the coordinates of the grid point at the
// given flat (row-major) index.
func (g *Grid) Input(flat int) (map[string]float64, error) {
	if flat < 0 || flat >= g.size {
		return nil, fmt.Errorf("tabulation: index %d out of range for grid of size %d", flat, g.size)
	}
	o := make(map[string]float64, len(g.order))
	for i, ax := range g.order {
		o[ax] = g.ranges[ax][flat/g.strides[i]]
		flat %= g.strides[i]
	}
	return o, nil
}

// offset returns the flat index of an n-dimensional index.
func (g *Grid) offset(idx []int) int {
	var o int
	for i, j := range idx {
		o += j * g.strides[i]
	}
	return o
}

// withOrder returns a grid with the same ranges and a different order.
func (g *Grid) withOrder(order []string) (*Grid, error) {
	if len(order) != len(g.order) {
		return nil, fmt.Errorf("%w: new order %v is not a permutation of %v", ErrAxisMismatch, order, g.order)
	}
	for _, ax := range order {
		if _, ok := g.pos[ax]; !ok {
			return nil, fmt.Errorf("%w: new order %v is not a permutation of %v", ErrAxisMismatch, order, g.order)
		}
	}
	return NewGrid(order, g.ranges)
}

// Bounds sets how a sampling grid treats values outside of the range
// of an axis.
type Bounds int

// Out-of-range behaviors.
const (
	// Extrapolate linearly from the outermost interval.
	BoundsExtrapolate Bounds = iota
	// Flag the value so that the caller returns NaN.
	BoundsNaN
	// Return an *OutOfRangeError.
	BoundsFatal
)

// Bracket locates a value within the sampling points of an axis.
// The value lies at fraction T between the sampling points at
// indices Lo and Hi. T is outside of [0, 1] when extrapolating.
type Bracket struct {
	Lo, Hi     int
	T          float64
	OutOfRange bool
}

// IndexOf returns the bracketing pair of sampling points of axis around x.
// Values outside of the range are only rejected when mode is BoundsFatal;
// otherwise the bracket is flagged OutOfRange and T is computed from the
// outermost interval.
func (g *Grid) IndexOf(axis string, x float64, mode Bounds) (Bracket, error) {
	r, ok := g.ranges[axis]
	if !ok {
		return Bracket{}, fmt.Errorf("%w: no axis '%s' in grid %v", ErrAxisMismatch, axis, g.order)
	}
	n := len(r)
	out := x < r[0] || x > r[n-1]
	if out && mode == BoundsFatal {
		return Bracket{}, &OutOfRangeError{Axis: axis, Value: x, Min: r[0], Max: r[n-1]}
	}
	if math.IsNaN(x) {
		return Bracket{Hi: min(1, n-1), T: math.NaN()}, nil
	}
	if n == 1 {
		return Bracket{OutOfRange: out}, nil
	}
	i := sort.Search(n, func(j int) bool { return r[j] > x }) - 1
	if i < 0 {
		i = 0
	} else if i > n-2 {
		i = n - 2
	}
	b := Bracket{Lo: i, Hi: i + 1, OutOfRange: out}
	if d := r[i+1] - r[i]; d != 0 {
		b.T = (x - r[i]) / d
	}
	return b, nil
}
