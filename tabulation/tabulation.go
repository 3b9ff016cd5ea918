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

// Package tabulation implements n-dimensional tables sampled on
// rectilinear grids, queried by multilinear interpolation.
package tabulation

import (
	"fmt"
	"sort"

	"github.com/ctessum/sparse"
)

// Config holds the optional properties of a Tabulation.
type Config struct {
	// Files maps fields to the names of the files they are stored in.
	// Fields that are not listed are stored in a file named after the field.
	Files map[string]string

	// InputNames maps axes to the names of the entries holding their
	// sampling points in tableProperties. By default the entry of axis
	// "p" is "pValues".
	InputNames map[string]string

	// OutputNames maps fields to display names, which can be used
	// in place of the field names.
	OutputNames map[string]string

	// Path is the directory the tabulation was read from or is
	// written to.
	Path string

	// Parameters holds the additional tableProperties entries.
	Parameters map[string]interface{}

	// MinAxes is the minimum number of axes. It defaults to 2.
	MinAxes int
}

// Tabulation is a set of named fields sampled on the same Grid.
// A Tabulation is not safe for concurrent mutation.
type Tabulation struct {
	grid   *Grid
	fields []string
	tables map[string]*Table

	files       map[string]string
	inputNames  map[string]string
	outputNames map[string]string
	path        string
	parameters  map[string]interface{}
	minAxes     int
}

// New creates a tabulation of the fields in data, sampled at ranges with
// the axes nested in order. fields sets the order of the fields; if it is
// nil the fields are sorted by name. c may be nil.
func New(ranges map[string][]float64, data map[string][]float64, fields []string, order []string, c *Config) (*Tabulation, error) {
	if c == nil {
		c = new(Config)
	}
	g, err := NewGrid(order, ranges)
	if err != nil {
		return nil, err
	}
	tb := &Tabulation{
		grid:        g,
		tables:      make(map[string]*Table, len(data)),
		files:       make(map[string]string),
		inputNames:  make(map[string]string),
		outputNames: make(map[string]string),
		path:        c.Path,
		parameters:  make(map[string]interface{}),
		minAxes:     c.MinAxes,
	}
	if tb.minAxes <= 0 {
		tb.minAxes = 2
	}
	if g.NDim() < tb.minAxes {
		return nil, fmt.Errorf("%w: tabulation needs at least %d axes, got %v",
			ErrAxisMismatch, tb.minAxes, order)
	}
	if fields == nil {
		for f := range data {
			fields = append(fields, f)
		}
		sort.Strings(fields)
	}
	if len(fields) != len(data) {
		return nil, fmt.Errorf("%w: %d fields listed %v for %d data arrays",
			ErrFieldNotFound, len(fields), fields, len(data))
	}
	for _, f := range fields {
		d, ok := data[f]
		if !ok {
			return nil, fmt.Errorf("%w: no data for field '%s'", ErrFieldNotFound, f)
		}
		if _, ok := tb.tables[f]; ok {
			return nil, fmt.Errorf("%w: field '%s' listed twice", ErrNames, f)
		}
		t, err := newTable(g, d)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", f, err)
		}
		tb.fields = append(tb.fields, f)
		tb.tables[f] = t
	}
	if err := tb.setNames(c.Files, c.InputNames, c.OutputNames); err != nil {
		return nil, err
	}
	for k, v := range c.Parameters {
		tb.parameters[k] = v
	}
	return tb, nil
}

// setNames validates and stores the file and display-name maps.
func (tb *Tabulation) setNames(files, inputNames, outputNames map[string]string) error {
	for f, file := range files {
		if _, ok := tb.tables[f]; !ok {
			return fmt.Errorf("%w: file given for unknown field '%s'", ErrNames, f)
		}
		if file == "" {
			return fmt.Errorf("%w: empty file name for field '%s'", ErrNames, f)
		}
	}
	if err := checkNames(inputNames, tb.grid.pos, "axis"); err != nil {
		return err
	}
	entries := make(map[string]string, len(tb.grid.order))
	for _, ax := range tb.grid.order {
		entries[ax] = ax + "Values"
		if n, ok := inputNames[ax]; ok {
			entries[ax] = n
		}
	}
	if err := checkNames(entries, tb.grid.pos, "axis"); err != nil {
		return err
	}
	fieldPos := make(map[string]int, len(tb.fields))
	for i, f := range tb.fields {
		fieldPos[f] = i
	}
	if err := checkNames(outputNames, fieldPos, "field"); err != nil {
		return err
	}
	for f, n := range outputNames {
		if _, ok := tb.tables[n]; ok && n != f {
			return fmt.Errorf("%w: display name '%s' of field '%s' is the name of another field", ErrNames, n, f)
		}
	}
	for k, v := range files {
		tb.files[k] = v
	}
	for k, v := range inputNames {
		tb.inputNames[k] = v
	}
	for k, v := range outputNames {
		tb.outputNames[k] = v
	}
	return nil
}

// checkNames checks that names maps existing keys to distinct, non-empty values.
func checkNames(names map[string]string, keys map[string]int, kind string) error {
	seen := make(map[string]string, len(names))
	for k, n := range names {
		if _, ok := keys[k]; !ok {
			return fmt.Errorf("%w: name given for unknown %s '%s'", ErrNames, kind, k)
		}
		if n == "" {
			return fmt.Errorf("%w: empty name for %s '%s'", ErrNames, kind, k)
		}
		if o, ok := seen[n]; ok {
			return fmt.Errorf("%w: %s '%s' and %s '%s' have the same name '%s'", ErrNames, kind, o, kind, k, n)
		}
		seen[n] = k
	}
	return nil
}

// Grid returns the sampling grid shared by the fields.
func (tb *Tabulation) Grid() *Grid { return tb.grid }

// Order returns the names of the axes in nesting order.
func (tb *Tabulation) Order() []string { return tb.grid.Order() }

// Ranges returns the sampling points of every axis.
func (tb *Tabulation) Ranges() map[string][]float64 { return tb.grid.Ranges() }

// Shape returns the number of sampling points along each axis.
func (tb *Tabulation) Shape() []int { return tb.grid.Shape() }

// Size returns the number of grid points.
func (tb *Tabulation) Size() int { return tb.grid.Size() }

// Fields returns the names of the fields.
func (tb *Tabulation) Fields() []string { return append([]string(nil), tb.fields...) }

// Path returns the directory associated with the tabulation.
func (tb *Tabulation) Path() string { return tb.path }

// SetPath sets the directory associated with the tabulation.
func (tb *Tabulation) SetPath(path string) { tb.path = path }

// MinAxes returns the minimum number of axes of the tabulation.
func (tb *Tabulation) MinAxes() int { return tb.minAxes }

// File returns the name of the file field is stored in.
func (tb *Tabulation) File(field string) (string, error) {
	f, err := tb.resolve(field)
	if err != nil {
		return "", err
	}
	if file, ok := tb.files[f]; ok {
		return file, nil
	}
	return f, nil
}

// Files returns the name of the file of every field.
func (tb *Tabulation) Files() map[string]string {
	o := make(map[string]string, len(tb.fields))
	for _, f := range tb.fields {
		o[f], _ = tb.File(f)
	}
	return o
}

// InputName returns the name of the tableProperties entry holding the
// sampling points of axis.
func (tb *Tabulation) InputName(axis string) string {
	if n, ok := tb.inputNames[axis]; ok {
		return n
	}
	return axis + "Values"
}

// InputNames returns the tableProperties entry name of every axis.
func (tb *Tabulation) InputNames() map[string]string {
	o := make(map[string]string, tb.grid.NDim())
	for _, ax := range tb.grid.order {
		o[ax] = tb.InputName(ax)
	}
	return o
}

// OutputNames returns the display names of the fields that have one.
func (tb *Tabulation) OutputNames() map[string]string {
	o := make(map[string]string, len(tb.outputNames))
	for k, v := range tb.outputNames {
		o[k] = v
	}
	return o
}

// Parameters returns the additional tableProperties entries.
func (tb *Tabulation) Parameters() map[string]interface{} {
	o := make(map[string]interface{}, len(tb.parameters))
	for k, v := range tb.parameters {
		o[k] = v
	}
	return o
}

// resolve returns the field with the given name or display name.
func (tb *Tabulation) resolve(name string) (string, error) {
	if _, ok := tb.tables[name]; ok {
		return name, nil
	}
	for f, n := range tb.outputNames {
		if n == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'; available fields are %v", ErrFieldNotFound, name, tb.fields)
}

// Table returns a copy of the table of field.
func (tb *Tabulation) Table(field string) (*Table, error) {
	f, err := tb.resolve(field)
	if err != nil {
		return nil, err
	}
	return tb.tables[f].Copy(), nil
}

// Query returns the value of field at point, which holds one
// coordinate per axis in the order of the tabulation.
func (tb *Tabulation) Query(field string, point []float64, o Options) (float64, error) {
	f, err := tb.resolve(field)
	if err != nil {
		return 0, err
	}
	return tb.tables[f].Query(point, o)
}

// QueryAll returns the value of field at each of the points.
func (tb *Tabulation) QueryAll(field string, points [][]float64, o Options) ([]float64, error) {
	f, err := tb.resolve(field)
	if err != nil {
		return nil, err
	}
	return tb.tables[f].QueryAll(points, o)
}

// SetOrder changes the nesting order of the axes of every field.
// If it fails, the tabulation is left unchanged.
func (tb *Tabulation) SetOrder(order []string) error {
	g, err := tb.grid.withOrder(order)
	if err != nil {
		return err
	}
	data := make(map[string]*sparse.DenseArray, len(tb.fields))
	for _, f := range tb.fields {
		data[f] = transpose(tb.grid, tb.tables[f].data, g)
	}
	tb.commit(g, data)
	return nil
}

// commit replaces the grid and the data of every field.
func (tb *Tabulation) commit(g *Grid, data map[string]*sparse.DenseArray) {
	tb.grid = g
	for _, f := range tb.fields {
		tb.tables[f] = &Table{grid: g, data: data[f]}
	}
}

// Concat returns the concatenation of tb and o along the only axis whose
// sampling points differ. Both must have the same fields and order.
// The result keeps the names, files and parameters of tb.
func (tb *Tabulation) Concat(o *Tabulation) (*Tabulation, error) {
	g, data, err := tb.concat(o)
	if err != nil {
		return nil, err
	}
	out := tb.clone()
	out.commit(g, data)
	return out, nil
}

// Append extends tb with o, as in Concat. If it fails, tb is left unchanged.
func (tb *Tabulation) Append(o *Tabulation) error {
	g, data, err := tb.concat(o)
	if err != nil {
		return err
	}
	tb.commit(g, data)
	return nil
}

func (tb *Tabulation) concat(o *Tabulation) (*Grid, map[string]*sparse.DenseArray, error) {
	if len(tb.fields) != len(o.fields) {
		return nil, nil, fmt.Errorf("%w: fields %v and %v differ", ErrConcat, tb.fields, o.fields)
	}
	for _, f := range tb.fields {
		if _, ok := o.tables[f]; !ok {
			return nil, nil, fmt.Errorf("%w: field '%s' missing from the tabulation to append", ErrConcat, f)
		}
	}
	axis, err := tb.grid.concatAxis(o.grid)
	if err != nil {
		return nil, nil, err
	}
	g, err := tb.grid.concat(axis, o.grid)
	if err != nil {
		return nil, nil, err
	}
	data := make(map[string]*sparse.DenseArray, len(tb.fields))
	for _, f := range tb.fields {
		data[f] = concatData(tb.grid, tb.tables[f].data, o.grid, o.tables[f].data, g, axis)
	}
	return g, data, nil
}

// clone returns a copy of tb sharing its table data.
func (tb *Tabulation) clone() *Tabulation {
	out := &Tabulation{
		grid:        tb.grid,
		fields:      tb.Fields(),
		tables:      make(map[string]*Table, len(tb.tables)),
		files:       make(map[string]string, len(tb.files)),
		inputNames:  make(map[string]string, len(tb.inputNames)),
		outputNames: tb.OutputNames(),
		path:        tb.path,
		parameters:  tb.Parameters(),
		minAxes:     tb.minAxes,
	}
	for k, v := range tb.tables {
		out.tables[k] = v
	}
	for k, v := range tb.files {
		out.files[k] = v
	}
	for k, v := range tb.inputNames {
		out.inputNames[k] = v
	}
	return out
}

// Copy returns a deep copy of the tabulation.
func (tb *Tabulation) Copy() *Tabulation {
	out := tb.clone()
	for k, v := range out.tables {
		out.tables[k] = v.Copy()
	}
	return out
}

// AddField adds a field to the tabulation, stored in file. If file is
// empty the field is stored in a file named after it.
func (tb *Tabulation) AddField(name string, data []float64, file string) error {
	if _, err := tb.resolve(name); err == nil {
		return fmt.Errorf("%w: field '%s' already exists", ErrNames, name)
	}
	t, err := newTable(tb.grid, data)
	if err != nil {
		return fmt.Errorf("field '%s': %w", name, err)
	}
	tb.fields = append(tb.fields, name)
	tb.tables[name] = t
	if file != "" {
		tb.files[name] = file
	}
	return nil
}

// DelField removes a field from the tabulation.
func (tb *Tabulation) DelField(name string) error {
	f, err := tb.resolve(name)
	if err != nil {
		return err
	}
	for i, ff := range tb.fields {
		if ff == f {
			tb.fields = append(tb.fields[:i], tb.fields[i+1:]...)
			break
		}
	}
	delete(tb.tables, f)
	delete(tb.files, f)
	delete(tb.outputNames, f)
	return nil
}

// SetFile sets the name of the file field is stored in.
func (tb *Tabulation) SetFile(field, file string) error {
	f, err := tb.resolve(field)
	if err != nil {
		return err
	}
	if file == "" {
		return fmt.Errorf("%w: empty file name for field '%s'", ErrNames, f)
	}
	tb.files[f] = file
	return nil
}

// SetInputName sets the name of the tableProperties entry holding the
// sampling points of axis.
func (tb *Tabulation) SetInputName(axis, name string) error {
	names := tb.InputNames()
	names[axis] = name
	if _, ok := tb.grid.pos[axis]; !ok {
		return fmt.Errorf("%w: name given for unknown axis '%s'", ErrNames, axis)
	}
	if err := checkNames(names, tb.grid.pos, "axis"); err != nil {
		return err
	}
	tb.inputNames[axis] = name
	return nil
}

// Slice returns a tabulation restricted to the sampling points with the
// given indices along each axis. Axes that are not listed are kept whole.
func (tb *Tabulation) Slice(idx map[string][]int) (*Tabulation, error) {
	g, sel, err := tb.grid.slice(idx)
	if err != nil {
		return nil, err
	}
	out := tb.clone()
	data := make(map[string]*sparse.DenseArray, len(tb.fields))
	for _, f := range tb.fields {
		data[f] = gather(tb.grid, tb.tables[f].data, g, sel)
	}
	out.commit(g, data)
	out.path = ""
	return out, nil
}

// Equal returns whether two tabulations have the same grid, fields,
// data and names.
func (tb *Tabulation) Equal(o *Tabulation) bool {
	if !tb.grid.Equal(o.grid) || len(tb.fields) != len(o.fields) {
		return false
	}
	for i, f := range tb.fields {
		if o.fields[i] != f || !tb.tables[f].Equal(o.tables[f]) {
			return false
		}
	}
	return mapsEqual(tb.Files(), o.Files()) &&
		mapsEqual(tb.InputNames(), o.InputNames()) &&
		mapsEqual(tb.outputNames, o.outputNames)
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// TableProperties summarizes the grid and fields of a tabulation in the
// form they are persisted in.
type TableProperties struct {
	// Order holds the axes in nesting order.
	Order []string

	// Entries maps the tableProperties entry name of each axis to its
	// sampling points.
	Entries map[string][]float64

	// Names maps each axis to its entry name.
	Names map[string]string

	// Fields holds the field names and Files the file of each field.
	Fields []string
	Files  map[string]string

	// Parameters holds the additional entries.
	Parameters map[string]interface{}
}

// TableProperties returns the persisted form of the grid and fields.
func (tb *Tabulation) TableProperties() TableProperties {
	p := TableProperties{
		Order:      tb.Order(),
		Entries:    make(map[string][]float64, tb.grid.NDim()),
		Names:      tb.InputNames(),
		Fields:     tb.Fields(),
		Files:      tb.Files(),
		Parameters: tb.Parameters(),
	}
	for _, ax := range tb.grid.order {
		p.Entries[tb.InputName(ax)] = tb.grid.Range(ax)
	}
	return p
}
