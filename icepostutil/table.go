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

package icepostutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/icepost/icepost/selection"
	"github.com/icepost/icepost/tabulation"
	"github.com/icepost/icepost/tabulation/foam"
	"github.com/spf13/cast"
)

// readTable reads the tabulation in directory path using the order,
// files and inputNames configuration options.
func readTable(path string) (*tabulation.Tabulation, error) {
	path = os.ExpandEnv(path)
	order := Cfg.GetStringSlice("order")
	if len(order) == 0 {
		return nil, fmt.Errorf("icepost: the order of the axes of %s must be given with --order", path)
	}
	files, err := GetStringMapString("files", Cfg)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		if files, err = constantFiles(path); err != nil {
			return nil, err
		}
	}
	inputNames, err := GetStringMapString("inputNames", Cfg)
	if err != nil {
		return nil, err
	}
	return foam.Read(path, order, files, foam.ReadOptions{InputNames: inputNames})
}

// constantFiles returns the files in the constant folder of the
// tabulation in path, each mapped to a field of the same name.
func constantFiles(path string) (map[string]string, error) {
	entries, err := os.ReadDir(filepath.Join(path, "constant"))
	if err != nil {
		return nil, fmt.Errorf("icepost: %v", err)
	}
	files := make(map[string]string)
	for _, e := range entries {
		if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			files[e.Name()] = e.Name()
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("icepost: no fields found in %s", filepath.Join(path, "constant"))
	}
	return files, nil
}

func writeTable(tb *tabulation.Tabulation, path string) error {
	return foam.Write(tb, os.ExpandEnv(path), Cfg.GetBool("overwrite"))
}

// createTable writes to path a tabulation sampled at the ranges option,
// with one field per expression in the fields option.
func createTable(path string) error {
	order := Cfg.GetStringSlice("order")
	if len(order) == 0 {
		return fmt.Errorf("icepost: the order of the axes must be given with --order")
	}
	ranges, err := getStringMapFloatSlice("ranges", Cfg)
	if err != nil {
		return err
	}
	exprs, err := GetStringMapString("fields", Cfg)
	if err != nil {
		return err
	}
	if len(exprs) == 0 {
		return fmt.Errorf("icepost: no fields given with --fields")
	}
	tb, err := tabulation.Generate(ranges, order, exprs, nil)
	if err != nil {
		return err
	}
	return writeTable(tb, path)
}

// deriveFields adds to tb the fields in the fields option, in order of
// name, so that an expression may use the fields sorted before it.
func deriveFields(tb *tabulation.Tabulation) error {
	exprs, err := GetStringMapString("fields", Cfg)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(exprs))
	for f := range exprs {
		names = append(names, f)
	}
	sort.Strings(names)
	for _, f := range names {
		if err := tb.AddExpression(f, exprs[f], ""); err != nil {
			return err
		}
	}
	return nil
}

// tableInfo writes a description of tb to w.
func tableInfo(w io.Writer, tb *tabulation.Tabulation) error {
	props := tb.TableProperties()
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "path:\t%s\n", tb.Path())
	fmt.Fprintf(tw, "order:\t%v\n", props.Order)
	fmt.Fprintf(tw, "shape:\t%v\n", tb.Shape())
	fmt.Fprintf(tw, "size:\t%d\n", tb.Size())
	fmt.Fprintln(tw, "axes:")
	for _, ax := range props.Order {
		r := props.Entries[props.Names[ax]]
		fmt.Fprintf(tw, "  %s\t(%s)\t%d points in [%g, %g]\n", ax, props.Names[ax], len(r), r[0], r[len(r)-1])
	}
	fmt.Fprintln(tw, "fields:")
	for _, f := range props.Fields {
		fmt.Fprintf(tw, "  %s\tconstant/%s\n", f, props.Files[f])
	}
	if len(props.Parameters) > 0 {
		fmt.Fprintln(tw, "parameters:")
		keys := make([]string, 0, len(props.Parameters))
		for k := range props.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(tw, "  %s\t%v\n", k, props.Parameters[k])
		}
	}
	return tw.Flush()
}

// query interpolates field at the point whose coordinates are given
// as strings.
func query(tb *tabulation.Tabulation, field string, coords []string, o tabulation.Options) (float64, error) {
	point := make([]float64, len(coords))
	for i, c := range coords {
		v, err := cast.ToFloat64E(c)
		if err != nil {
			return 0, fmt.Errorf("icepost: invalid coordinate '%s': %v", c, err)
		}
		point[i] = v
	}
	return tb.Query(field, point, o)
}

// plotField plots field and writes the figure to file, in the format
// given by its extension.
func plotField(tb *tabulation.Tabulation, field, x, c string, iso map[string]float64, file string) error {
	t, err := tb.Table(field)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(filepath.Ext(file), ".")
	if format == "" {
		return fmt.Errorf("icepost: cannot determine the format of plot file '%s'", file)
	}
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("icepost: %v", err)
	}
	if err := tabulation.Plot(t, x, c, iso, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// describeModels writes the selection table of every model family to w.
func describeModels(w io.Writer, fs *selection.Families) {
	for _, name := range fs.Names() {
		r, err := fs.Lookup(name)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, r.Describe())
	}
}
