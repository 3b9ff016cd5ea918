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

package foam

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/icepost/icepost/tabulation"
	"github.com/kr/pretty"
	"github.com/sirupsen/logrus/hooks/test"
	"gonum.org/v1/gonum/floats"
)

const tableProperties = `/*---------------------------------------------------------------------------*\
  laminar flame speed table
\*---------------------------------------------------------------------------*/

// sampling points
pValues     3 (1e5 5e5 1e6);
TValues     ( 300 400.5 500 600 );
phi         (0.8 1.0);   /* equivalence ratio */
fuel        IC8H18;
mixture     "air and fuel";
EGRValues   (0);
coeffs
{
    a   -1.5;
    b   2;
    names (x y);
}
value       uniform 3;
`

func TestParseDictionary(t *testing.T) {
	d, err := ParseDictionary(strings.NewReader(tableProperties))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"pValues":   []float64{1e5, 5e5, 1e6},
		"TValues":   []float64{300, 400.5, 500, 600},
		"phi":       []float64{0.8, 1},
		"fuel":      "IC8H18",
		"mixture":   "air and fuel",
		"EGRValues": []float64{0},
		"coeffs": map[string]interface{}{
			"a":     -1.5,
			"b":     2.,
			"names": []interface{}{"x", "y"},
		},
		"value": EntryValues{"uniform", 3.},
	}
	if diff := pretty.Diff(d, want); len(diff) != 0 {
		t.Error(diff)
	}
}

func TestParseDictionaryErrors(t *testing.T) {
	for name, in := range map[string]string{
		"missing semicolon": "a 1",
		"unterminated list": "a (1 2;",
		"wrong count":       "a 3 (1 2);",
		"unclosed dict":     "a { b 1;",
		"bad keyword":       "(1 2);",
		"huge uniform":      "a 100000000000000000{1};",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseDictionary(strings.NewReader(in)); err == nil {
				t.Errorf("expected error parsing %q", in)
			}
		})
	}
}

func TestDictionaryRoundTrip(t *testing.T) {
	d := map[string]interface{}{
		"pValues": []float64{1e5, 2.5e5, -3},
		"fuel":    "IC8H18",
		"mixture": "air and fuel",
		"n":       4,
		"sub":     map[string]interface{}{"x": 1.25, "on": true},
		"mixed":   []interface{}{"a", 1.5},
		"value":   EntryValues{"uniform", 0.},
	}
	var b bytes.Buffer
	if err := WriteDictionary(&b, d, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "uniform 0;") {
		t.Errorf("entry with several values not written as is:\n%s", b.String())
	}
	have, err := ParseDictionary(&b)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"pValues": []float64{1e5, 2.5e5, -3},
		"fuel":    "IC8H18",
		"mixture": "air and fuel",
		"n":       4.,
		"sub":     map[string]interface{}{"x": 1.25, "on": "true"},
		"mixed":   []interface{}{"a", 1.5},
		"value":   EntryValues{"uniform", 0.},
	}
	if diff := pretty.Diff(have, want); len(diff) != 0 {
		t.Error(diff)
	}
	if err := WriteDictionary(&b, d, []string{"missing"}); err == nil {
		t.Error("expected error for missing key")
	}
	if err := WriteDictionary(&b, map[string]interface{}{"c": make(chan int)}, nil); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestScalarList(t *testing.T) {
	values := []float64{0, -1.5, 1e-5, 3.25e8, math.NaN(), math.Inf(1), math.Inf(-1)}
	var b bytes.Buffer
	if err := WriteScalarList(&b, "laminarFlameSpeedTable", values); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "class       scalarList;") ||
		!strings.Contains(b.String(), "object      laminarFlameSpeedTable;") {
		t.Errorf("missing header:\n%s", b.String())
	}
	have, err := ReadScalarList(&b)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Same(have, values) {
		t.Errorf("have %v, want %v", have, values)
	}

	for name, test := range map[string]struct {
		in   string
		want []float64
	}{
		"no header": {in: "3\n(\n1\n2\n3\n)\n", want: []float64{1, 2, 3}},
		"uniform":   {in: "4{2.5}", want: []float64{2.5, 2.5, 2.5, 2.5}},
		"empty":     {in: "0()", want: []float64{}},
	} {
		t.Run(name, func(t *testing.T) {
			have, err := ReadScalarList(strings.NewReader(test.in))
			if err != nil {
				t.Fatal(err)
			}
			if !floats.Equal(have, test.want) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}

	for name, in := range map[string]string{
		"binary":           "FoamFile { format binary; }\n2 (1 2)",
		"wrong size":       "3 (1 2)",
		"not number":       "2 (1 a)",
		"no list":          "2 1 2",
		"bad size":         "1.5 (1)",
		"huge size":        "100000000000000000 (1 2)",
		"huge uniform":     "100000000000000000{1}",
		"negative uniform": "-2{1}",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadScalarList(strings.NewReader(in)); err == nil {
				t.Errorf("expected error reading %q", in)
			}
		})
	}
}

func testTabulation(t *testing.T) *tabulation.Tabulation {
	r := map[string][]float64{
		"p":   {1e5, 5e5},
		"T":   {300, 400, 500},
		"phi": {0.8, 1, 1.2},
	}
	su := make([]float64, 18)
	dl := make([]float64, 18)
	for i := range su {
		su[i] = 0.1 * float64(i)
		dl[i] = 1e-4 * float64(i+1)
	}
	tb, err := tabulation.New(r, map[string][]float64{"Su": su, "deltaL": dl}, nil,
		[]string{"p", "T", "phi"}, &tabulation.Config{
			Files:      map[string]string{"Su": "laminarFlameSpeedTable", "deltaL": "deltaLTable"},
			InputNames: map[string]string{"phi": "eqvrValues"},
			Parameters: map[string]interface{}{"fuel": "IC8H18"},
		})
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestWriteRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "table")
	tb := testTabulation(t)
	if err := Write(tb, dir, false); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"tableProperties", "constant/laminarFlameSpeedTable", "constant/deltaLTable", "system"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Error(err)
		}
	}

	files := map[string]string{"Su": "laminarFlameSpeedTable", "deltaL": "deltaLTable"}
	have, err := Read(dir, []string{"p", "T", "phi"}, files, ReadOptions{
		InputNames: map[string]string{"eqvrValues": "phi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !have.Equal(tb) {
		t.Errorf("round trip: have %# v, want %# v", pretty.Formatter(have.TableProperties()),
			pretty.Formatter(tb.TableProperties()))
	}
	if have.Path() != dir {
		t.Errorf("path: %s", have.Path())
	}
	if diff := pretty.Diff(have.Parameters(), map[string]interface{}{"fuel": "IC8H18"}); len(diff) != 0 {
		t.Error(diff)
	}

	if _, err := Read(dir, []string{"p", "T"}, files, ReadOptions{
		InputNames: map[string]string{"eqvrValues": "phi"},
	}); !errors.Is(err, tabulation.ErrAxisMismatch) {
		t.Errorf("missing axis in order: have error %v", err)
	}
	// Without the input name the range is read as axis "eqvr".
	if _, err := Read(dir, []string{"p", "T", "phi"}, files, ReadOptions{}); !errors.Is(err, tabulation.ErrAxisMismatch) {
		t.Errorf("unnamed range: have error %v", err)
	}
}

func TestReadNoRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "table")
	if err := Write(testTabulation(t), dir, false); err != nil {
		t.Fatal(err)
	}
	os.Remove(filepath.Join(dir, "constant", "deltaLTable"))
	files := map[string]string{"Su": "laminarFlameSpeedTable", "deltaL": "deltaLTable"}
	opts := ReadOptions{InputNames: map[string]string{"eqvrValues": "phi"}}
	if _, err := Read(dir, []string{"p", "T", "phi"}, files, opts); err == nil {
		t.Error("expected error for missing file")
	}
	opts.NoRead = []string{"deltaL"}
	tb, err := Read(dir, []string{"p", "T", "phi"}, files, opts)
	if err != nil {
		t.Fatal(err)
	}
	dl, _ := tb.Table("deltaL")
	for _, v := range dl.Data() {
		if !math.IsNaN(v) {
			t.Fatalf("unread field has value %g", v)
		}
	}
	su, err := tb.Query("Su", []float64{1e5, 300, 1}, tabulation.Options{Fatal: true})
	if err != nil {
		t.Fatal(err)
	}
	if su != 0.1 {
		t.Errorf("Su: have %g, want 0.1", su)
	}
}

func TestReadSizeMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "table")
	if err := Write(testTabulation(t), dir, false); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, "constant", "deltaLTable"))
	if err != nil {
		t.Fatal(err)
	}
	WriteScalarList(f, "deltaLTable", []float64{1, 2, 3})
	f.Close()
	_, err = Read(dir, []string{"p", "T", "phi"},
		map[string]string{"deltaL": "deltaLTable"},
		ReadOptions{InputNames: map[string]string{"eqvrValues": "phi"}})
	if !errors.Is(err, tabulation.ErrSize) {
		t.Errorf("have error %v, want ErrSize", err)
	}
}

func TestReadMissingDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := Read(dir, []string{"p", "T"}, nil, ReadOptions{}); err == nil {
		t.Error("expected error for directory without constant/")
	}
	if _, err := Read("", []string{"p", "T"}, nil, ReadOptions{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestWriteOverwrite(t *testing.T) {
	logger, hook := test.NewNullLogger()
	old := Log
	Log = logger
	defer func() { Log = old }()

	dir := filepath.Join(t.TempDir(), "table")
	tb := testTabulation(t)
	if err := Write(tb, dir, false); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "constant", "stale")
	if err := os.WriteFile(stale, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Write(tb, dir, false); err == nil {
		t.Error("expected error writing over existing directory")
	}
	if err := Write(tb, dir, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("existing directory was not replaced")
	}
	if len(hook.Entries) != 1 {
		t.Errorf("have %d warnings, want 1", len(hook.Entries))
	}

	tb.SetPath(filepath.Join(filepath.Dir(dir), "other"))
	if err := Write(tb, "", false); err != nil {
		t.Fatal(err)
	}
	files := tb.Files()
	have, err := Read(tb.Path(), tb.Order(), files, ReadOptions{
		InputNames: map[string]string{"eqvrValues": "phi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have.Fields(), []string{"Su", "deltaL"}) {
		t.Errorf("fields: %v", have.Fields())
	}
}
