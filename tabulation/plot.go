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
	"io"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot dimensions.
const (
	PlotWidth  = 6 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// Plot draws the field in t against axis x, with one line for each
// sampling point of axis c, colored by its value. iso must hold a value
// for each of the remaining axes. The figure is written to w in the
// given format, which can be any format supported by
// gonum.org/v1/plot (e.g. "png", "svg", "pdf").
func Plot(t *Table, x, c string, iso map[string]float64, w io.Writer, format string) error {
	p, err := IsoPlot(t, x, c, iso)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return fmt.Errorf("tabulation: plotting: %v", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("tabulation: plotting: %v", err)
	}
	return nil
}

// IsoPlot creates the plot drawn by Plot.
func IsoPlot(t *Table, x, c string, iso map[string]float64) (*plot.Plot, error) {
	g := t.grid
	ix, ok := g.Axis(x)
	if !ok {
		return nil, fmt.Errorf("%w: no axis '%s' to plot against", ErrAxisMismatch, x)
	}
	ic, ok := g.Axis(c)
	if !ok {
		return nil, fmt.Errorf("%w: no axis '%s' to color by", ErrAxisMismatch, c)
	}
	if x == c {
		return nil, fmt.Errorf("%w: cannot plot against and color by the same axis '%s'", ErrAxisMismatch, x)
	}
	point := make([]float64, g.NDim())
	var missing []string
	for i, ax := range g.order {
		if i == ix || i == ic {
			if _, ok := iso[ax]; ok {
				return nil, fmt.Errorf("%w: iso value given for plotted axis '%s'", ErrAxisMismatch, ax)
			}
			continue
		}
		v, ok := iso[ax]
		if !ok {
			missing = append(missing, ax)
			continue
		}
		point[i] = v
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: iso values missing for axes %v", ErrAxisMismatch, missing)
	}

	p, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("tabulation: plotting: %v", err)
	}
	p.X.Label.Text = x
	p.Y.Label.Text = "value"
	p.Title.Text = fmt.Sprintf("%v", iso)
	p.Legend.Top = true

	xs, cs := g.ranges[x], g.ranges[c]
	cm := moreland.ExtendedBlackBody()
	cm.SetMin(cs[0])
	cm.SetMax(cs[len(cs)-1])
	if len(cs) == 1 {
		cm.SetMax(cs[0] + 1)
	}
	for _, cv := range cs {
		xy := make(plotter.XYs, 0, len(xs))
		point[ic] = cv
		for _, xv := range xs {
			point[ix] = xv
			v, err := t.Query(point, DefaultOptions)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xy = append(xy, struct{ X, Y float64 }{X: xv, Y: v})
		}
		if len(xy) == 0 {
			continue
		}
		l, err := plotter.NewLine(xy)
		if err != nil {
			return nil, fmt.Errorf("tabulation: plotting: %v", err)
		}
		if l.Color, err = cm.At(cv); err != nil {
			return nil, fmt.Errorf("tabulation: plotting: %v", err)
		}
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("%s = %g", c, cv), l)
	}
	return p, nil
}
