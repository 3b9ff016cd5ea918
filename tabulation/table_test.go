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
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"gonum.org/v1/gonum/floats"
)

const tolerance = 1e-12

// multilinear is reproduced exactly by multilinear interpolation,
// including when extrapolating.
func multilinear(x, y, z float64) float64 {
	return 1 + 2*x - 3*y + 0.5*z + 0.25*x*y - 0.1*y*z + 0.05*x*y*z
}

func testRanges() map[string][]float64 {
	return map[string][]float64{
		"x": {0, 0.5, 2, 3},
		"y": {-1, 1, 4},
		"z": {10, 20},
	}
}

// testTable returns a table of multilinear sampled on testRanges.
func testTable(t *testing.T) *Table {
	r := testRanges()
	var data []float64
	for _, x := range r["x"] {
		for _, y := range r["y"] {
			for _, z := range r["z"] {
				data = append(data, multilinear(x, y, z))
			}
		}
	}
	tbl, err := NewTable(data, r, []string{"x", "y", "z"})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

// captureLog redirects the package logger to a test hook.
func captureLog(t *testing.T) *test.Hook {
	logger, hook := test.NewNullLogger()
	old := Log
	Log = logger
	t.Cleanup(func() { Log = old })
	return hook
}

func TestNewTableSize(t *testing.T) {
	_, err := NewTable([]float64{1, 2, 3}, map[string][]float64{"x": {0, 1}}, []string{"x"})
	if !errors.Is(err, ErrSize) {
		t.Errorf("have error %v, want ErrSize", err)
	}
}

func TestTableAtSet(t *testing.T) {
	tbl := testTable(t)
	v, err := tbl.At(1, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := multilinear(0.5, 4, 10); v != want {
		t.Errorf("have %g, want %g", v, want)
	}
	if err := tbl.Set(0, 1, 2, 0); err != nil {
		t.Fatal(err)
	}
	if v, _ := tbl.At(1, 2, 0); v != 0 {
		t.Errorf("set to zero: have %g", v)
	}
	if _, err := tbl.At(4, 0, 0); err == nil {
		t.Error("expected error for out of bounds index")
	}
	if err := tbl.Set(1, 0, 0); err == nil {
		t.Error("expected error for wrong number of indices")
	}
}

func TestQueryExactAtSamplePoints(t *testing.T) {
	tbl := testTable(t)
	hook := captureLog(t)
	r := testRanges()
	for i, x := range r["x"] {
		for j, y := range r["y"] {
			for k, z := range r["z"] {
				want, _ := tbl.At(i, j, k)
				have, err := tbl.Query([]float64{x, y, z}, Options{Fatal: true})
				if err != nil {
					t.Fatal(err)
				}
				if have != want {
					t.Errorf("(%g, %g, %g): have %g, want %g", x, y, z, have, want)
				}
			}
		}
	}
	if len(hook.Entries) != 0 {
		t.Errorf("%d warnings for in-range queries", len(hook.Entries))
	}
}

func TestQueryMultilinear(t *testing.T) {
	tbl := testTable(t)
	captureLog(t)
	points := [][]float64{
		{0.25, 0, 15},
		{1.7, 3.9, 11},
		{2.999, -0.5, 19.5},
		{-1, 5, 25}, // extrapolated along every axis
		{4, -2, 5},
	}
	have, err := tbl.QueryAll(points, DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range points {
		want := multilinear(p[0], p[1], p[2])
		if !floats.EqualWithinAbsOrRel(have[i], want, tolerance, tolerance) {
			t.Errorf("%v: have %g, want %g", p, have[i], want)
		}
	}
}

func TestQueryContinuity(t *testing.T) {
	tbl := testTable(t)
	const eps = 1e-9
	for _, x := range []float64{0.5, 2} {
		at, _ := tbl.Query([]float64{x, 0.3, 12}, DefaultOptions)
		below, _ := tbl.Query([]float64{x - eps, 0.3, 12}, DefaultOptions)
		above, _ := tbl.Query([]float64{x + eps, 0.3, 12}, DefaultOptions)
		if math.Abs(at-below) > 1e-6 || math.Abs(at-above) > 1e-6 {
			t.Errorf("discontinuous at x=%g: %g, %g, %g", x, below, at, above)
		}
	}
}

func TestQueryOutOfRange(t *testing.T) {
	tbl, err := NewTable([]float64{0, 1, 2, 3, 4, 5}, map[string][]float64{
		"x": {0, 1, 2},
		"y": {0, 1},
	}, []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	// 10% beyond the maximum of x.
	point := []float64{2.2, 0}

	t.Run("nan", func(t *testing.T) {
		hook := captureLog(t)
		v, err := tbl.Query(point, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !math.IsNaN(v) {
			t.Errorf("have %g, want NaN", v)
		}
		if len(hook.Entries) != 1 {
			t.Fatalf("have %d warnings, want 1", len(hook.Entries))
		}
		e := hook.LastEntry()
		if e.Data["axis"] != "x" || e.Data["value"] != 2.2 || e.Data["min"] != 0. || e.Data["max"] != 2. {
			t.Errorf("warning fields: %v", e.Data)
		}
	})
	t.Run("fatal", func(t *testing.T) {
		hook := captureLog(t)
		for _, o := range []Options{{Fatal: true}, {Fatal: true, Extrapolate: true}} {
			v, err := tbl.Query(point, o)
			var oe *OutOfRangeError
			if !errors.As(err, &oe) {
				t.Fatalf("have error %v, want *OutOfRangeError", err)
			}
			if !math.IsNaN(v) {
				t.Errorf("have value %g on error", v)
			}
		}
		if len(hook.Entries) != 0 {
			t.Errorf("have %d warnings, want 0", len(hook.Entries))
		}
	})
	t.Run("extrapolate", func(t *testing.T) {
		hook := captureLog(t)
		v, err := tbl.Query(point, DefaultOptions)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbsOrRel(v, 4.4, tolerance, tolerance) {
			t.Errorf("have %g, want 4.4", v)
		}
		if len(hook.Entries) != 1 {
			t.Errorf("have %d warnings, want 1", len(hook.Entries))
		}
	})
	t.Run("two axes", func(t *testing.T) {
		hook := captureLog(t)
		v, _ := tbl.Query([]float64{-1, 2}, Options{})
		if !math.IsNaN(v) {
			t.Errorf("have %g, want NaN", v)
		}
		if len(hook.Entries) != 2 {
			t.Errorf("have %d warnings, want one per axis", len(hook.Entries))
		}
	})
	t.Run("wrong dimension", func(t *testing.T) {
		if _, err := tbl.Query([]float64{1}, DefaultOptions); !errors.Is(err, ErrAxisMismatch) {
			t.Errorf("have error %v", err)
		}
	})
}

func TestQueryMissingValues(t *testing.T) {
	nan := math.NaN()
	tbl, err := NewTable([]float64{
		0, 1, nan,
		2, 3, nan,
	}, map[string][]float64{
		"x": {0, 1},
		"y": {0, 1, 2},
	}, []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	// On the grid line y=1 the missing values at y=2 are not needed.
	v, err := tbl.Query([]float64{0.5, 1}, Options{Fatal: true})
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Errorf("on grid line: have %g, want 2", v)
	}
	v, _ = tbl.Query([]float64{0.5, 1.5}, Options{Fatal: true})
	if !math.IsNaN(v) {
		t.Errorf("next to missing value: have %g, want NaN", v)
	}
}

func TestQuerySingletonAxis(t *testing.T) {
	tbl, err := NewTable([]float64{1, 3}, map[string][]float64{
		"x": {0, 1},
		"s": {5},
	}, []string{"x", "s"})
	if err != nil {
		t.Fatal(err)
	}
	hook := captureLog(t)
	v, _ := tbl.Query([]float64{0.5, 5}, DefaultOptions)
	if v != 2 {
		t.Errorf("have %g, want 2", v)
	}
	v, _ = tbl.Query([]float64{0.5, 6}, DefaultOptions)
	if v != 2 {
		t.Errorf("extrapolated: have %g, want 2", v)
	}
	if len(hook.Entries) != 1 {
		t.Errorf("have %d warnings, want 1", len(hook.Entries))
	}
}

func TestSetOrder(t *testing.T) {
	tbl := testTable(t)
	orig := tbl.Data()
	if err := tbl.SetOrder([]string{"z", "x", "y"}); err != nil {
		t.Fatal(err)
	}
	if want := []int{2, 4, 3}; !reflect.DeepEqual(tbl.Shape(), want) {
		t.Errorf("shape: have %v, want %v", tbl.Shape(), want)
	}
	v, err := tbl.At(1, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := multilinear(2, -1, 20); v != want {
		t.Errorf("reordered value: have %g, want %g", v, want)
	}
	q, _ := tbl.Query([]float64{12, 1.7, 3.9}, DefaultOptions)
	if want := multilinear(1.7, 3.9, 12); !floats.EqualWithinAbsOrRel(q, want, tolerance, tolerance) {
		t.Errorf("reordered query: have %g, want %g", q, want)
	}

	if err := tbl.SetOrder([]string{"x", "y", "z"}); err != nil {
		t.Fatal(err)
	}
	if !floats.Same(tbl.Data(), orig) {
		t.Error("round trip did not restore the data")
	}

	for _, order := range [][]string{{"x", "y"}, {"x", "y", "w"}, {"x", "x", "z"}} {
		if err := tbl.SetOrder(order); !errors.Is(err, ErrAxisMismatch) {
			t.Errorf("order %v: have error %v", order, err)
		}
	}
	if !floats.Same(tbl.Data(), orig) {
		t.Error("failed reorder changed the data")
	}
}

func TestConcat(t *testing.T) {
	y := []float64{0, 1}
	mk := func(x []float64, start float64) *Table {
		data := make([]float64, len(x)*len(y))
		for i := range data {
			data[i] = start + float64(i)
		}
		tbl, err := NewTable(data, map[string][]float64{"x": x, "y": y}, []string{"x", "y"})
		if err != nil {
			t.Fatal(err)
		}
		return tbl
	}
	a := mk([]float64{0, 1}, 0)
	b := mk([]float64{2}, 4)
	c := mk([]float64{3, 4}, 6)

	ab, err := a.Concat(b)
	if err != nil {
		t.Fatal(err)
	}
	abc1, err := ab.Concat(c)
	if err != nil {
		t.Fatal(err)
	}
	bc, err := b.Concat(c)
	if err != nil {
		t.Fatal(err)
	}
	abc2, err := a.Concat(bc)
	if err != nil {
		t.Fatal(err)
	}
	if !abc1.Equal(abc2) {
		t.Error("concatenation is not associative")
	}
	if want := []float64{0, 1, 2, 3, 4}; !floats.Equal(abc1.Grid().Range("x"), want) {
		t.Errorf("range: have %v, want %v", abc1.Grid().Range("x"), want)
	}
	if want := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}; !floats.Equal(abc1.Data(), want) {
		t.Errorf("data: have %v, want %v", abc1.Data(), want)
	}

	for name, o := range map[string]*Table{
		"overlapping": mk([]float64{1, 2}, 0),
		"preceding":   mk([]float64{-2, -1}, 0),
		"same":        mk([]float64{0, 1}, 0),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := a.Concat(o); !errors.Is(err, ErrConcat) {
				t.Errorf("have error %v, want ErrConcat", err)
			}
		})
	}
}

func TestConcatInnerAxis(t *testing.T) {
	a, _ := NewTable([]float64{0, 1, 10, 11}, map[string][]float64{
		"x": {0, 1}, "y": {0, 1},
	}, []string{"x", "y"})
	b, _ := NewTable([]float64{2, 12}, map[string][]float64{
		"x": {0, 1}, "y": {2},
	}, []string{"x", "y"})
	ab, err := a.ConcatAlong("y", b)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, 1, 2, 10, 11, 12}; !floats.Equal(ab.Data(), want) {
		t.Errorf("have %v, want %v", ab.Data(), want)
	}
	if _, err := a.ConcatAlong("x", b); !errors.Is(err, ErrConcat) {
		t.Errorf("wrong axis: have error %v", err)
	}
	b.SetOrder([]string{"y", "x"})
	if _, err := a.Concat(b); !errors.Is(err, ErrConcat) {
		t.Errorf("different order: have error %v", err)
	}
}

func TestSlice(t *testing.T) {
	tbl := testTable(t)
	s, err := tbl.Slice(map[string][]int{"x": {1, 3}, "z": {1}})
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2, 3, 1}; !reflect.DeepEqual(s.Shape(), want) {
		t.Fatalf("shape: have %v, want %v", s.Shape(), want)
	}
	v, _ := s.At(1, 2, 0)
	if want := multilinear(3, 4, 20); v != want {
		t.Errorf("have %g, want %g", v, want)
	}

	s2, err := tbl.SliceRanges(map[string][]float64{"x": {0.5, 3}, "z": {20}})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Equal(s2) {
		t.Error("SliceRanges differs from Slice")
	}

	if _, err := tbl.Slice(map[string][]int{"x": {4}}); err == nil {
		t.Error("expected error for index out of range")
	}
	if _, err := tbl.Slice(map[string][]int{"x": {1, 0}}); !errors.Is(err, ErrRange) {
		t.Errorf("unsorted indices: have error %v", err)
	}
	if _, err := tbl.SliceRanges(map[string][]float64{"x": {0.7}}); !errors.Is(err, ErrRange) {
		t.Errorf("value not sampled: have error %v", err)
	}
	if _, err := tbl.Slice(map[string][]int{"w": {0}}); !errors.Is(err, ErrAxisMismatch) {
		t.Errorf("unknown axis: have error %v", err)
	}
}

func TestSqueezeInsert(t *testing.T) {
	tbl := testTable(t)
	s, err := tbl.Slice(map[string][]int{"z": {1}})
	if err != nil {
		t.Fatal(err)
	}
	sq, err := s.Squeeze()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"x", "y"}; !reflect.DeepEqual(sq.Order(), want) {
		t.Errorf("order: have %v, want %v", sq.Order(), want)
	}
	v, _ := sq.Query([]float64{1.7, 3.9}, DefaultOptions)
	if want := multilinear(1.7, 3.9, 20); !floats.EqualWithinAbsOrRel(v, want, tolerance, tolerance) {
		t.Errorf("have %g, want %g", v, want)
	}

	back, err := sq.InsertDimension("z", 20, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(s) {
		t.Error("InsertDimension does not undo Squeeze")
	}
	if _, err := sq.InsertDimension("x", 0, 0); !errors.Is(err, ErrAxisMismatch) {
		t.Errorf("existing axis: have error %v", err)
	}
	if _, err := sq.InsertDimension("w", 0, 3); !errors.Is(err, ErrAxisMismatch) {
		t.Errorf("bad position: have error %v", err)
	}

	one, _ := NewTable([]float64{1}, map[string][]float64{"x": {0}}, []string{"x"})
	if _, err := one.Squeeze(); !errors.Is(err, ErrAxisMismatch) {
		t.Errorf("all singleton: have error %v", err)
	}
}

func TestTableCopy(t *testing.T) {
	tbl := testTable(t)
	c := tbl.Copy()
	if !c.Equal(tbl) {
		t.Fatal("copy differs")
	}
	c.Set(-1, 0, 0, 0)
	if c.Equal(tbl) {
		t.Error("copy shares data")
	}
}
