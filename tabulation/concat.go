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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Concat returns the concatenation of t and o along the only axis
// whose sampling points differ between them. The sampling points of
// o along that axis must all be greater than those of t.
func (t *Table) Concat(o *Table) (*Table, error) {
	axis, err := t.grid.concatAxis(o.grid)
	if err != nil {
		return nil, err
	}
	return t.ConcatAlong(axis, o)
}

// ConcatAlong returns the concatenation of t and o along axis.
func (t *Table) ConcatAlong(axis string, o *Table) (*Table, error) {
	g, err := t.grid.concat(axis, o.grid)
	if err != nil {
		return nil, err
	}
	return &Table{grid: g, data: concatData(t.grid, t.data, o.grid, o.data, g, axis)}, nil
}

// concatAxis finds the axis along which g and o can be concatenated.
func (g *Grid) concatAxis(o *Grid) (string, error) {
	if err := g.sameOrder(o); err != nil {
		return "", err
	}
	var diff []string
	for _, ax := range g.order {
		if !floats.Equal(g.ranges[ax], o.ranges[ax]) {
			diff = append(diff, ax)
		}
	}
	if len(diff) != 1 {
		return "", fmt.Errorf("%w: tables must differ along exactly one axis, found %d %v",
			ErrConcat, len(diff), diff)
	}
	return diff[0], nil
}

func (g *Grid) sameOrder(o *Grid) error {
	if len(g.order) != len(o.order) {
		return fmt.Errorf("%w: orders %v and %v differ", ErrConcat, g.order, o.order)
	}
	for i, ax := range g.order {
		if o.order[i] != ax {
			return fmt.Errorf("%w: orders %v and %v differ", ErrConcat, g.order, o.order)
		}
	}
	return nil
}

// concat returns the grid resulting from extending g with o along axis.
func (g *Grid) concat(axis string, o *Grid) (*Grid, error) {
	if err := g.sameOrder(o); err != nil {
		return nil, err
	}
	if _, ok := g.pos[axis]; !ok {
		return nil, fmt.Errorf("%w: axis '%s' not in grid %v", ErrConcat, axis, g.order)
	}
	for _, ax := range g.order {
		if ax != axis && !floats.Equal(g.ranges[ax], o.ranges[ax]) {
			return nil, fmt.Errorf("%w: sampling points of axis '%s' differ", ErrConcat, ax)
		}
	}
	a, b := g.ranges[axis], o.ranges[axis]
	if b[0] <= a[len(a)-1] {
		return nil, fmt.Errorf("%w: sampling points %v of axis '%s' do not follow %v",
			ErrConcat, b, axis, a)
	}
	ranges := g.Ranges()
	ranges[axis] = append(ranges[axis], b...)
	return NewGrid(g.order, ranges)
}

// concatData joins the blocks of a and b along axis: for every index
// of the axes that come before it, the block of a is followed by
// the block of b.
func concatData(ga *Grid, a *sparse.DenseArray, gb *Grid, b *sparse.DenseArray, g *Grid, axis string) *sparse.DenseArray {
	p := g.pos[axis]
	out := sparse.ZerosDense(g.Shape()...)
	na := ga.shape[p] * ga.strides[p]
	nb := gb.shape[p] * gb.strides[p]
	outer := ga.size / na
	for i := 0; i < outer; i++ {
		dst := out.Elements[i*(na+nb):]
		copy(dst[:na], a.Elements[i*na:(i+1)*na])
		copy(dst[na:na+nb], b.Elements[i*nb:(i+1)*nb])
	}
	return out
}
