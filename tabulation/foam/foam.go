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

// Package foam reads and writes tabulations in the directory layout used
// by OpenFOAM tabulated models:
//
//	path/tableProperties   sampling points of each axis and other parameters
//	path/constant/<file>   one scalarList file per field
//	path/system/
//
// The data in each file is in row-major order over the axes.
package foam

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/icepost/icepost/tabulation"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Log is the logger used by the package.
var Log logrus.FieldLogger = logrus.StandardLogger()

// TablePropertiesFile is the name of the file holding the sampling points.
const TablePropertiesFile = "tableProperties"

// ReadOptions configure Read.
type ReadOptions struct {
	// InputNames maps tableProperties entries to axes, for entries that do
	// not follow the "<axis>Values" naming convention or to rename axes.
	InputNames map[string]string

	// OutputNames maps fields to display names.
	OutputNames map[string]string

	// NoRead lists fields whose files are not read. They are filled with NaN.
	NoRead []string

	// MinAxes is the minimum number of axes. It defaults to 2.
	MinAxes int
}

// Read reads a tabulation from the directory path. order sets the
// nesting order of the axes in the files, and files maps each field to
// the name of the file in path/constant it is stored in.
func Read(path string, order []string, files map[string]string, o ReadOptions) (*tabulation.Tabulation, error) {
	props, err := ReadProperties(path)
	if err != nil {
		return nil, err
	}

	ranges := make(map[string][]float64)
	inputNames := make(map[string]string)
	params := make(map[string]interface{})
	for _, entry := range sortedKeys(props) {
		v := props[entry]
		axis, ok := o.InputNames[entry]
		if !ok {
			if !strings.HasSuffix(entry, "Values") || entry == "Values" {
				if entry != "FoamFile" {
					params[entry] = v
				}
				continue
			}
			axis = strings.TrimSuffix(entry, "Values")
		}
		if _, ok := ranges[axis]; ok {
			return nil, fmt.Errorf("foam: more than one range found for axis '%s'", axis)
		}
		r, err := toFloats(v)
		if err != nil {
			return nil, fmt.Errorf("foam: range '%s' in %s is not a list of numbers: %v",
				entry, TablePropertiesFile, err)
		}
		ranges[axis] = r
		if entry != axis+"Values" {
			inputNames[axis] = entry
		}
	}
	if len(order) != len(ranges) {
		return nil, fmt.Errorf("foam: order %v has %d axes but %s has %d ranges %v: %w",
			order, len(order), TablePropertiesFile, len(ranges), sortedAxes(ranges), tabulation.ErrAxisMismatch)
	}
	for _, ax := range order {
		if _, ok := ranges[ax]; !ok {
			return nil, fmt.Errorf("foam: axis '%s' not found in %s (available: %v); "+
				"entries not ending in 'Values' need an input name: %w",
				ax, TablePropertiesFile, sortedAxes(ranges), tabulation.ErrAxisMismatch)
		}
	}

	size := 1
	for _, r := range ranges {
		size *= len(r)
	}
	noRead := make(map[string]bool, len(o.NoRead))
	for _, f := range o.NoRead {
		noRead[f] = true
	}
	fields := make([]string, 0, len(files))
	for f := range files {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	data := make(map[string][]float64, len(files))
	for _, field := range fields {
		if noRead[field] {
			d := make([]float64, size)
			for i := range d {
				d[i] = math.NaN()
			}
			data[field] = d
			continue
		}
		file := filepath.Join(path, "constant", files[field])
		d, err := readScalarListFile(file)
		if err != nil {
			return nil, err
		}
		if len(d) != size {
			return nil, fmt.Errorf("foam: size of table stored in '%s' is not consistent with the size of the tabulation (%d != %d): %w",
				file, len(d), size, tabulation.ErrSize)
		}
		data[field] = d
	}
	Log.WithFields(logrus.Fields{
		"path":   path,
		"fields": fields,
		"order":  order,
	}).Debug("foam: read tabulation")

	return tabulation.New(ranges, data, fields, order, &tabulation.Config{
		Files:       files,
		InputNames:  inputNames,
		OutputNames: o.OutputNames,
		Path:        path,
		Parameters:  params,
		MinAxes:     o.MinAxes,
	})
}

// ReadProperties reads the tableProperties dictionary of the
// tabulation stored in the directory path.
func ReadProperties(path string) (map[string]interface{}, error) {
	if err := checkDir(path); err != nil {
		return nil, err
	}
	file := filepath.Join(path, TablePropertiesFile)
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("foam: %v", err)
	}
	defer f.Close()
	props, err := ParseDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("foam: reading %s: %w", file, err)
	}
	return props, nil
}

func readScalarListFile(file string) ([]float64, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("foam: cannot read tabulation: %v", err)
	}
	defer f.Close()
	d, err := ReadScalarList(f)
	if err != nil {
		return nil, fmt.Errorf("foam: reading %s: %w", file, err)
	}
	return d, nil
}

func checkDir(path string) error {
	if path == "" {
		return fmt.Errorf("foam: tabulation directory not set")
	}
	for _, p := range []string{path, filepath.Join(path, "constant")} {
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			return fmt.Errorf("foam: folder '%s' not found, cannot read the tabulation", p)
		}
	}
	if _, err := os.Stat(filepath.Join(path, TablePropertiesFile)); err != nil {
		return fmt.Errorf("foam: file '%s' not found, cannot read the tabulation",
			filepath.Join(path, TablePropertiesFile))
	}
	return nil
}

func toFloats(v interface{}) ([]float64, error) {
	if f, ok := v.([]float64); ok {
		return f, nil
	}
	s, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(s))
	for i, e := range s {
		if o[i], err = cast.ToFloat64E(e); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func sortedAxes(r map[string][]float64) []string {
	o := make([]string, 0, len(r))
	for k := range r {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// Write writes tb to the directory path, or to the path of tb if path is
// empty. An existing directory is replaced only if overwrite is true.
func Write(tb *tabulation.Tabulation, path string, overwrite bool) error {
	if path == "" {
		path = tb.Path()
	}
	if path == "" {
		return fmt.Errorf("foam: cannot write tabulation: path not set")
	}
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("foam: cannot write tabulation: '%s' already exists", path)
		}
		Log.WithField("path", path).Warn("foam: overwriting tabulation")
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("foam: %v", err)
		}
	}
	for _, d := range []string{"constant", "system"} {
		if err := os.MkdirAll(filepath.Join(path, d), 0755); err != nil {
			return fmt.Errorf("foam: %v", err)
		}
	}

	props := tb.TableProperties()
	entries := make(map[string]interface{}, len(props.Entries)+len(props.Parameters))
	var keys []string
	for _, k := range sortedKeys(props.Parameters) {
		entries[k] = props.Parameters[k]
		keys = append(keys, k)
	}
	for _, ax := range props.Order {
		name := props.Names[ax]
		entries[name] = props.Entries[name]
		keys = append(keys, name)
	}
	if err := writeFile(filepath.Join(path, TablePropertiesFile), func(f *os.File) error {
		return WriteDictionary(f, entries, keys)
	}); err != nil {
		return err
	}

	for _, field := range props.Fields {
		t, err := tb.Table(field)
		if err != nil {
			return err
		}
		file := props.Files[field]
		if err := writeFile(filepath.Join(path, "constant", file), func(f *os.File) error {
			return WriteScalarList(f, file, t.Data())
		}); err != nil {
			return err
		}
	}
	Log.WithFields(logrus.Fields{
		"path":   path,
		"fields": props.Fields,
	}).Debug("foam: wrote tabulation")
	return nil
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("foam: %v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("foam: writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("foam: %v", err)
	}
	return nil
}
