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
	"fmt"
	"os"

	"github.com/icepost/icepost/selection"
	"github.com/icepost/icepost/tabulation"
	"github.com/icepost/icepost/tabulation/foam"
)

// Names of the fields of a laminar flame speed table.
const (
	SuField     = "Su"
	DeltaLField = "deltaL"
)

// TableFiles maps the fields of a laminar flame speed table to the files
// they are stored in.
var TableFiles = map[string]string{
	SuField:     "laminarFlameSpeedTable",
	DeltaLField: "deltaLTable",
}

// TableInputNames maps the tableProperties entries of a laminar flame
// speed table to its axes.
var TableInputNames = map[string]string{
	"pValues":    "p",
	"tValues":    "T",
	"eqvrValues": "phi",
	"EGRValues":  "EGR",
}

// TableOrder is the nesting order of the axes of a laminar flame speed
// table. The EGR axis is optional.
var TableOrder = []string{"p", "T", "phi", "EGR"}

// Tabulated interpolates the laminar flame speed and thickness in a
// table stored in OpenFOAM format.
type Tabulated struct {
	table  *tabulation.Tabulation
	egr    bool
	deltaL bool

	// Options are used by Su and DeltaL.
	Options tabulation.Options
}

// NewTabulated reads the table in the "tablePath" directory of d.
// Other entries of d are:
//
//	isLaminarFlameThickness  whether the deltaL field is read (default true)
//	Fatal                    out-of-range queries are errors (default false)
//	extrapolate              out-of-range queries are extrapolated (default true)
func NewTabulated(d selection.Dictionary) (*Tabulated, error) {
	path, err := d.LookupString("tablePath")
	if err != nil {
		return nil, fmt.Errorf("lfs: tabulatedLFS: %w", err)
	}
	path = os.ExpandEnv(path)
	thickness, err := lookupBool(d, "isLaminarFlameThickness", true)
	if err != nil {
		return nil, fmt.Errorf("lfs: tabulatedLFS: %w", err)
	}
	var o tabulation.Options
	if o.Fatal, err = lookupBool(d, "Fatal", false); err != nil {
		return nil, fmt.Errorf("lfs: tabulatedLFS: %w", err)
	}
	if o.Extrapolate, err = lookupBool(d, "extrapolate", true); err != nil {
		return nil, fmt.Errorf("lfs: tabulatedLFS: %w", err)
	}
	t, err := ReadTable(path, thickness)
	if err != nil {
		return nil, err
	}
	t.Options = o
	return t, nil
}

// ReadTable reads a laminar flame speed table from the directory path.
// If thickness is false the laminar flame thickness is not read.
func ReadTable(path string, thickness bool) (*Tabulated, error) {
	props, err := foam.ReadProperties(path)
	if err != nil {
		return nil, fmt.Errorf("lfs: %w", err)
	}
	_, egr := props["EGRValues"]
	order, inputNames := TableOrder, TableInputNames
	if !egr {
		order = TableOrder[:3]
		inputNames = make(map[string]string, len(TableInputNames))
		for k, v := range TableInputNames {
			if v != "EGR" {
				inputNames[k] = v
			}
		}
	}
	var noRead []string
	if !thickness {
		noRead = []string{DeltaLField}
	}
	tb, err := foam.Read(path, order, TableFiles, foam.ReadOptions{
		InputNames: inputNames,
		NoRead:     noRead,
	})
	if err != nil {
		return nil, fmt.Errorf("lfs: %w", err)
	}
	return &Tabulated{
		table:   tb,
		egr:     egr,
		deltaL:  thickness,
		Options: tabulation.DefaultOptions,
	}, nil
}

func lookupBool(d selection.Dictionary, key string, def bool) (bool, error) {
	if _, ok := d[key]; !ok {
		return def, nil
	}
	return d.LookupBool(key)
}

// TypeName returns "tabulatedLFS".
func (t *Tabulated) TypeName() string { return "tabulatedLFS" }

// Table returns the underlying tabulation.
func (t *Tabulated) Table() *tabulation.Tabulation { return t.table }

// HasEGR returns whether the table has an EGR axis.
func (t *Tabulated) HasEGR() bool { return t.egr }

// Su returns the interpolated laminar flame speed at s.
func (t *Tabulated) Su(s State) (float64, error) {
	return t.SuWith(s, t.Options)
}

// SuWith is like Su but uses the options o.
func (t *Tabulated) SuWith(s State, o tabulation.Options) (float64, error) {
	return t.table.Query(SuField, t.point(s), o)
}

// DeltaL returns the interpolated laminar flame thickness at s.
func (t *Tabulated) DeltaL(s State) (float64, error) {
	return t.DeltaLWith(s, t.Options)
}

// DeltaLWith is like DeltaL but uses the options o.
func (t *Tabulated) DeltaLWith(s State, o tabulation.Options) (float64, error) {
	if !t.deltaL {
		return 0, fmt.Errorf("lfs: laminar flame thickness was not loaded from %s", t.table.Path())
	}
	return t.table.Query(DeltaLField, t.point(s), o)
}

// point returns the query point of s. EGR is ignored by tables
// without an EGR axis.
func (t *Tabulated) point(s State) []float64 {
	if t.egr {
		return []float64{s.P, s.T, s.Phi, s.EGR}
	}
	return []float64{s.P, s.T, s.Phi}
}
