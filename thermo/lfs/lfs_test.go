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

package lfs

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/icepost/icepost/selection"
	"github.com/icepost/icepost/tabulation"
	"github.com/icepost/icepost/tabulation/foam"
	"github.com/sirupsen/logrus/hooks/test"
	"gonum.org/v1/gonum/floats"
)

const tolerance = 1e-12

func quiet(t *testing.T) {
	logger, _ := test.NewNullLogger()
	oldLFS, oldTab, oldFoam := Log, tabulation.Log, foam.Log
	Log, tabulation.Log, foam.Log = logger, logger, logger
	t.Cleanup(func() { Log, tabulation.Log, foam.Log = oldLFS, oldTab, oldFoam })
}

// linear is a model that is linear in every variable, so that
// multilinear interpolation reproduces it exactly.
type linear struct{}

func (linear) TypeName() string { return "linear" }

func (linear) Su(s State) (float64, error) {
	return 1e-6*s.P + 1e-3*s.T + 0.1*s.Phi - 0.2*s.EGR, nil
}

func (linear) DeltaL(s State) (float64, error) {
	return 1e-4 + 1e-5*s.Phi, nil
}

func TestGulders(t *testing.T) {
	g := GuldersIsoOctane
	ref := State{P: g.P0, T: g.T0, Phi: 1.075}
	su, err := g.Su(ref)
	if err != nil {
		t.Fatal(err)
	}
	if want := g.W * math.Pow(1.075, g.Eta); !floats.EqualWithinAbsOrRel(su, want, tolerance, tolerance) {
		t.Errorf("reference flame speed: have %g, want %g", su, want)
	}

	hot := ref
	hot.T = 600
	if v, _ := g.Su(hot); v <= su {
		t.Errorf("flame speed should increase with temperature: %g <= %g", v, su)
	}
	highP := ref
	highP.P = 40e5
	if v, _ := g.Su(highP); v >= su {
		t.Errorf("flame speed should decrease with pressure: %g >= %g", v, su)
	}
	diluted := ref
	diluted.EGR = 0.1
	if v, _ := g.Su(diluted); !floats.EqualWithinAbsOrRel(v, su*(1-2.06*math.Pow(0.1, 0.77)), tolerance, tolerance) {
		t.Errorf("EGR correction: %g", v)
	}

	for _, s := range []State{{P: 0, T: 300, Phi: 1}, {P: 1e5, T: 300, Phi: -1}, {P: 1e5, T: 300, Phi: 1, EGR: 2}} {
		if _, err := g.Su(s); err == nil {
			t.Errorf("%+v: expected an error", s)
		}
	}
	if _, err := g.DeltaL(ref); err == nil {
		t.Error("Gulders should not provide the flame thickness")
	}
}

func TestNewGulders(t *testing.T) {
	m, err := Models.Select(selection.Dictionary{
		"type":        "Gulders",
		"GuldersDict": map[string]interface{}{"fuel": "CH4", "W": 0.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	g := m.(*Gulders)
	if g.W != 0.5 || g.Xi != GuldersMethane.Xi {
		t.Errorf("coefficients: %+v", g)
	}
	if GuldersMethane.W != 0.422 {
		t.Error("overriding coefficients should not modify the fuel presets")
	}

	def, err := NewGulders(selection.Dictionary{})
	if err != nil {
		t.Fatal(err)
	}
	if *def != GuldersIsoOctane {
		t.Errorf("default fuel: %+v", def)
	}
	for name, d := range map[string]selection.Dictionary{
		"fuel": {"fuel": "H2"},
		"T0":   {"T0": 0.0},
		"W":    {"W": "fast"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := NewGulders(d); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestModels_abstract(t *testing.T) {
	_, err := Models.New(Models.BaseKey(), nil)
	if !errors.Is(err, selection.ErrAbstract) {
		t.Errorf("have %v, want %v", err, selection.ErrAbstract)
	}
	for _, k := range []string{"Gulders", "tabulatedLFS"} {
		if !Models.Has(k) {
			t.Errorf("%s not registered", k)
		}
	}
}

var lfsRanges = map[string][]float64{
	"p":   {1e5, 5e5, 2e6},
	"T":   {300, 500, 800},
	"phi": {0.6, 1, 1.4},
	"EGR": {0, 0.2},
}

func writeTable(t *testing.T, m Model, ranges map[string][]float64, thickness bool) string {
	t.Helper()
	tb, err := Tabulate(m, ranges, thickness)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "table")
	if err := foam.Write(tb, path, false); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTabulated(t *testing.T) {
	quiet(t)
	path := writeTable(t, linear{}, lfsRanges, true)
	tab, err := ReadTable(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if !tab.HasEGR() {
		t.Fatal("table should have an EGR axis")
	}
	if fmt.Sprint(tab.Table().Order()) != "[p T phi EGR]" {
		t.Errorf("order: %v", tab.Table().Order())
	}
	for _, s := range []State{
		{P: 1e5, T: 300, Phi: 0.6},
		{P: 3e5, T: 450, Phi: 1.2, EGR: 0.1},
		{P: 2e6, T: 800, Phi: 1.4, EGR: 0.2},
	} {
		want, _ := linear{}.Su(s)
		have, err := tab.Su(s)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbsOrRel(have, want, tolerance, tolerance) {
			t.Errorf("Su%+v: have %g, want %g", s, have, want)
		}
		wantD, _ := linear{}.DeltaL(s)
		haveD, err := tab.DeltaL(s)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbsOrRel(haveD, wantD, tolerance, tolerance) {
			t.Errorf("deltaL%+v: have %g, want %g", s, haveD, wantD)
		}
	}
}

func TestTabulated_select(t *testing.T) {
	quiet(t)
	ranges := map[string][]float64{
		"p":   lfsRanges["p"],
		"T":   lfsRanges["T"],
		"phi": lfsRanges["phi"],
	}
	g := &GuldersIsoOctane
	path := writeTable(t, g, ranges, false)
	m, err := Models.Select(selection.Dictionary{
		"type": "tabulatedLFS",
		"tabulatedLFSDict": map[string]interface{}{
			"tablePath":               path,
			"isLaminarFlameThickness": false,
			"Fatal":                   true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	tab := m.(*Tabulated)
	if tab.HasEGR() {
		t.Error("table should not have an EGR axis")
	}
	s := State{P: 5e5, T: 500, Phi: 1, EGR: 0.3}
	have, err := tab.Su(s)
	if err != nil {
		t.Fatal(err)
	}
	s.EGR = 0
	want, _ := g.Su(s)
	if !floats.EqualWithinAbsOrRel(have, want, tolerance, tolerance) {
		t.Errorf("Su at a grid point: have %g, want %g", have, want)
	}
	if _, err := tab.DeltaL(s); err == nil {
		t.Error("flame thickness was not loaded; expected an error")
	}

	out := State{P: 5e5, T: 1000, Phi: 1}
	var rangeErr *tabulation.OutOfRangeError
	if _, err := tab.Su(out); !errors.As(err, &rangeErr) {
		t.Errorf("fatal query out of range: have %v", err)
	}
	v, err := tab.SuWith(out, tabulation.Options{})
	if err != nil || !math.IsNaN(v) {
		t.Errorf("non-extrapolated query out of range: have %g, %v", v, err)
	}
	if _, err := tab.SuWith(out, tabulation.DefaultOptions); err != nil {
		t.Error(err)
	}
}

func TestTabulate_errors(t *testing.T) {
	quiet(t)
	if _, err := Tabulate(linear{}, map[string][]float64{"p": {1, 2}, "T": {1, 2}}, false); !errors.Is(err, tabulation.ErrAxisMismatch) {
		t.Errorf("missing axis: %v", err)
	}
	if _, err := Tabulate(&GuldersIsoOctane, lfsRanges, true); err == nil {
		t.Error("expected an error tabulating an unavailable flame thickness")
	}
}

func TestNewTabulated_errors(t *testing.T) {
	quiet(t)
	for name, d := range map[string]selection.Dictionary{
		"noPath":  {},
		"missing": {"tablePath": filepath.Join(t.TempDir(), "none")},
		"fatal":   {"tablePath": "x", "Fatal": "maybe"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := NewTabulated(d); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
