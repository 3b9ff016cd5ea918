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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Table is a scalar field sampled on a Grid. Data are stored in row-major
// order over the axes of the grid: the last axis varies fastest.
// Missing values are NaN.
type Table struct {
	grid *Grid
	data *sparse.DenseArray
}

// NewTable creates a table from flat data sampled at ranges,
// with the axes nested in the given order.
func NewTable(data []float64, ranges map[string][]float64, order []string) (*Table, error) {
	g, err := NewGrid(order, ranges)
	if err != nil {
		return nil, err
	}
	return newTable(g, data)
}

// newTable creates a table on grid g, copying data.
func newTable(g *Grid, data []float64) (*Table, error) {
	if len(data) != g.Size() {
		return nil, fmt.Errorf("%w: %d values for grid of shape %v (size %d)",
			ErrSize, len(data), g.shape, g.Size())
	}
	a := sparse.ZerosDense(g.Shape()...)
	copy(a.Elements, data)
	return &Table{grid: g, data: a}, nil
}

// Grid returns the sampling grid of the table.
func (t *Table) Grid() *Grid { return t.grid }

// Order returns the names of the axes in nesting order.
func (t *Table) Order() []string { return t.grid.Order() }

// Ranges returns the sampling points of every axis.
func (t *Table) Ranges() map[string][]float64 { return t.grid.Ranges() }

// Shape returns the number of sampling points along each axis.
func (t *Table) Shape() []int { return t.grid.Shape() }

// Size returns the number of values in the table.
func (t *Table) Size() int { return t.grid.Size() }

// NDim returns the number of axes.
func (t *Table) NDim() int { return t.grid.NDim() }

// Data returns a copy of the flat data.
func (t *Table) Data() []float64 {
	return append([]float64(nil), t.data.Elements...)
}

// At returns the value at the given n-dimensional index.
func (t *Table) At(idx ...int) (float64, error) {
	if err := t.data.CheckIndex(idx); err != nil {
		return math.NaN(), fmt.Errorf("tabulation: %v", err)
	}
	return t.data.Elements[t.grid.offset(idx)], nil
}

// Set sets the value at the given n-dimensional index.
func (t *Table) Set(v float64, idx ...int) error {
	if err := t.data.CheckIndex(idx); err != nil {
		return fmt.Errorf("tabulation: %v", err)
	}
	t.data.Elements[t.grid.offset(idx)] = v
	return nil
}

// Copy returns a deep copy of the table. The grid is shared, as grids
// are immutable.
func (t *Table) Copy() *Table {
	a := sparse.ZerosDense(t.grid.Shape()...)
	copy(a.Elements, t.data.Elements)
	return &Table{grid: t.grid, data: a}
}

// Equal returns whether two tables have the same grid and data,
// treating NaN values as equal to each other.
func (t *Table) Equal(o *Table) bool {
	return t.grid.Equal(o.grid) && floats.Same(t.data.Elements, o.data.Elements)
}

// SetOrder changes the nesting order of the axes, permuting the data so
// that the table still describes the same field.
func (t *Table) SetOrder(order []string) error {
	g, err := t.grid.withOrder(order)
	if err != nil {
		return err
	}
	t.data = transpose(t.grid, t.data, g)
	t.grid = g
	return nil
}

// transpose returns the data sampled on from, rearranged for the
// order of to. The grids must have the same axes.
func transpose(from *Grid, data *sparse.DenseArray, to *Grid) *sparse.DenseArray {
	out := sparse.ZerosDense(to.Shape()...)
	// Stride in the source data of each axis of the destination.
	src := make([]int, len(to.order))
	for i, ax := range to.order {
		src[i] = from.strides[from.pos[ax]]
	}
	idx := make([]int, len(to.order))
	for j := range out.Elements {
		var o int
		for i, k := range idx {
			o += k * src[i]
		}
		out.Elements[j] = data.Elements[o]
		increment(idx, to.shape)
	}
	return out
}

// increment advances an n-dimensional row-major index by one.
func increment(idx, shape []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}

// Slice returns a table restricted to the sampling points with the given
// indices along each axis. Axes that are not listed are kept whole.
// Indices must be strictly increasing.
func (t *Table) Slice(idx map[string][]int) (*Table, error) {
	g, sel, err := t.grid.slice(idx)
	if err != nil {
		return nil, err
	}
	return &Table{grid: g, data: gather(t.grid, t.data, g, sel)}, nil
}

// SliceRanges is like Slice, but selects sampling points by value.
func (t *Table) SliceRanges(vals map[string][]float64) (*Table, error) {
	idx, err := t.grid.indices(vals)
	if err != nil {
		return nil, err
	}
	return t.Slice(idx)
}

// slice returns the grid resulting from slicing g and, for each axis
// in order, the selected indices.
func (g *Grid) slice(idx map[string][]int) (*Grid, [][]int, error) {
	for ax := range idx {
		if _, ok := g.pos[ax]; !ok {
			return nil, nil, fmt.Errorf("%w: cannot slice axis '%s', not in grid %v", ErrAxisMismatch, ax, g.order)
		}
	}
	sel := make([][]int, len(g.order))
	ranges := make(map[string][]float64, len(g.order))
	for i, ax := range g.order {
		r := g.ranges[ax]
		s, ok := idx[ax]
		if !ok {
			s = make([]int, len(r))
			for j := range s {
				s[j] = j
			}
		}
		ranges[ax] = make([]float64, len(s))
		for j, k := range s {
			if k < 0 || k >= len(r) {
				return nil, nil, fmt.Errorf("tabulation: index %d out of range for axis '%s' with %d sampling points",
					k, ax, len(r))
			}
			ranges[ax][j] = r[k]
		}
		sel[i] = s
	}
	ng, err := NewGrid(g.order, ranges)
	if err != nil {
		return nil, nil, err
	}
	return ng, sel, nil
}

// indices converts sampling values to indices.
func (g *Grid) indices(vals map[string][]float64) (map[string][]int, error) {
	idx := make(map[string][]int, len(vals))
	for ax, v := range vals {
		r, ok := g.ranges[ax]
		if !ok {
			return nil, fmt.Errorf("%w: cannot slice axis '%s', not in grid %v", ErrAxisMismatch, ax, g.order)
		}
		idx[ax] = make([]int, len(v))
		for j, x := range v {
			k, err := floats.Find(nil, func(y float64) bool { return y == x }, r, 1)
			if err != nil {
				return nil, fmt.Errorf("%w: value %g is not a sampling point of axis '%s'", ErrRange, x, ax)
			}
			idx[ax][j] = k[0]
		}
	}
	return idx, nil
}

// gather copies the elements of data selected by sel into an array
// shaped for g.
func gather(from *Grid, data *sparse.DenseArray, g *Grid, sel [][]int) *sparse.DenseArray {
	out := sparse.ZerosDense(g.Shape()...)
	idx := make([]int, len(sel))
	for j := range out.Elements {
		var o int
		for i, k := range idx {
			o += sel[i][k] * from.strides[i]
		}
		out.Elements[j] = data.Elements[o]
		increment(idx, g.shape)
	}
	return out
}

// Squeeze returns a table without the axes that have a single
// sampling point. It fails if every axis has a single sampling point.
func (t *Table) Squeeze() (*Table, error) {
	g, err := t.grid.squeeze()
	if err != nil {
		return nil, err
	}
	return newTable(g, t.data.Elements)
}

func (g *Grid) squeeze() (*Grid, error) {
	var order []string
	ranges := make(map[string][]float64)
	for _, ax := range g.order {
		if len(g.ranges[ax]) > 1 {
			order = append(order, ax)
			ranges[ax] = g.ranges[ax]
		}
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: cannot squeeze grid where every axis has a single sampling point", ErrAxisMismatch)
	}
	return NewGrid(order, ranges)
}

// InsertDimension returns a table with an additional axis that has a
// single sampling point at value. pos is the position of the new
// axis in the order.
func (t *Table) InsertDimension(axis string, value float64, pos int) (*Table, error) {
	g, err := t.grid.insert(axis, value, pos)
	if err != nil {
		return nil, err
	}
	return newTable(g, t.data.Elements)
}

func (g *Grid) insert(axis string, value float64, pos int) (*Grid, error) {
	if _, ok := g.pos[axis]; ok {
		return nil, fmt.Errorf("%w: axis '%s' already in grid", ErrAxisMismatch, axis)
	}
	if pos < 0 || pos > len(g.order) {
		return nil, fmt.Errorf("%w: position %d out of range for grid with %d axes",
			ErrAxisMismatch, pos, len(g.order))
	}
	order := make([]string, 0, len(g.order)+1)
	order = append(order, g.order[:pos]...)
	order = append(order, axis)
	order = append(order, g.order[pos:]...)
	ranges := g.Ranges()
	ranges[axis] = []float64{value}
	return NewGrid(order, ranges)
}
