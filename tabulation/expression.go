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

	"github.com/Knetic/govaluate"
	"github.com/spf13/cast"
)

// ExpressionFunctions are the functions available to field expressions
// in addition to the govaluate operators.
var ExpressionFunctions = map[string]govaluate.ExpressionFunction{
	"exp":  mathFunc("exp", math.Exp),
	"log":  mathFunc("log", math.Log),
	"sqrt": mathFunc("sqrt", math.Sqrt),
	"abs":  mathFunc("abs", math.Abs),
	"pow": func(args ...interface{}) (interface{}, error) {
		x, err := floatArgs("pow", 2, args)
		if err != nil {
			return nil, err
		}
		return math.Pow(x[0], x[1]), nil
	},
}

func mathFunc(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		x, err := floatArgs(name, 1, args)
		if err != nil {
			return nil, err
		}
		return f(x[0]), nil
	}
}

func floatArgs(name string, n int, args []interface{}) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("tabulation: got %d arguments for function '%s', but needs %d", len(args), name, n)
	}
	o := make([]float64, n)
	for i, a := range args {
		v, err := cast.ToFloat64E(a)
		if err != nil {
			return nil, fmt.Errorf("tabulation: function '%s': %v", name, err)
		}
		o[i] = v
	}
	return o, nil
}

// evaluate computes expr at every point of g. The expression may use the
// axes of g and the variables in vars, whose values at flat index i are
// vars[name][i].
func evaluate(g *Grid, expr string, vars map[string][]float64) ([]float64, error) {
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, ExpressionFunctions)
	if err != nil {
		return nil, fmt.Errorf("tabulation: expression '%s': %v", expr, err)
	}
	for _, v := range e.Vars() {
		if _, ok := vars[v]; ok {
			continue
		}
		if _, ok := g.Axis(v); ok {
			continue
		}
		avail := g.Order()
		for k := range vars {
			avail = append(avail, k)
		}
		sort.Strings(avail)
		return nil, fmt.Errorf("%w: variable '%s' in expression '%s' (available: %v)",
			ErrFieldNotFound, v, expr, avail)
	}
	o := make([]float64, g.Size())
	params := make(map[string]interface{}, g.NDim()+len(vars))
	for i := range o {
		in, err := g.Input(i)
		if err != nil {
			return nil, err
		}
		for k, v := range in {
			params[k] = v
		}
		for k, v := range vars {
			params[k] = v[i]
		}
		r, err := e.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("tabulation: evaluating '%s' at %v: %v", expr, in, err)
		}
		v, ok := r.(float64)
		if !ok {
			return nil, fmt.Errorf("tabulation: expression '%s' evaluates to %v (%T), not a number", expr, r, r)
		}
		o[i] = v
	}
	return o, nil
}

// Generate creates a tabulation whose fields are computed from
// expressions of the axes, for example {"f": "x * exp(y)"}.
func Generate(ranges map[string][]float64, order []string, exprs map[string]string, c *Config) (*Tabulation, error) {
	g, err := NewGrid(order, ranges)
	if err != nil {
		return nil, err
	}
	data := make(map[string][]float64, len(exprs))
	for f, expr := range exprs {
		if data[f], err = evaluate(g, expr, nil); err != nil {
			return nil, fmt.Errorf("field '%s': %w", f, err)
		}
	}
	return New(ranges, data, nil, order, c)
}

// AddExpression adds a field computed from an expression of the axes and
// the existing fields of tb, stored in file.
func (tb *Tabulation) AddExpression(name, expr, file string) error {
	vars := make(map[string][]float64, len(tb.fields))
	for _, f := range tb.fields {
		vars[f] = tb.tables[f].data.Elements
	}
	d, err := evaluate(tb.grid, expr, vars)
	if err != nil {
		return fmt.Errorf("field '%s': %w", name, err)
	}
	return tb.AddField(name, d, file)
}
