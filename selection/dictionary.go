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

package selection

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// TypeKey is the dictionary entry holding the name of the concrete type
// to construct.
const TypeKey = "type"

// Dictionary is the configuration mapping used to construct models.
// Values are loosely typed, as decoded from TOML or YAML, and are
// converted on lookup.
type Dictionary map[string]interface{}

// Lookup returns the entry stored under key, or an error if it is missing.
func (d Dictionary) Lookup(key string) (interface{}, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("selection: entry '%s' not found in dictionary; available entries are: %s",
			key, strings.Join(d.Keys(), ", "))
	}
	return v, nil
}

// LookupOrDefault returns the entry stored under key, or def if it is missing.
func (d Dictionary) LookupOrDefault(key string, def interface{}) interface{} {
	if v, ok := d[key]; ok {
		return v
	}
	return def
}

// LookupString returns the entry stored under key as a string.
func (d Dictionary) LookupString(key string) (string, error) {
	v, err := d.Lookup(key)
	if err != nil {
		return "", err
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("selection: entry '%s': %v", key, err)
	}
	return s, nil
}

// LookupFloat returns the entry stored under key as a float64.
func (d Dictionary) LookupFloat(key string) (float64, error) {
	v, err := d.Lookup(key)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("selection: entry '%s': %v", key, err)
	}
	return f, nil
}

// LookupInt returns the entry stored under key as an int.
func (d Dictionary) LookupInt(key string) (int, error) {
	v, err := d.Lookup(key)
	if err != nil {
		return 0, err
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("selection: entry '%s': %v", key, err)
	}
	return i, nil
}

// LookupBool returns the entry stored under key as a bool.
func (d Dictionary) LookupBool(key string) (bool, error) {
	v, err := d.Lookup(key)
	if err != nil {
		return false, err
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, fmt.Errorf("selection: entry '%s': %v", key, err)
	}
	return b, nil
}

// LookupFloats returns the entry stored under key as a slice of float64.
func (d Dictionary) LookupFloats(key string) ([]float64, error) {
	v, err := d.Lookup(key)
	if err != nil {
		return nil, err
	}
	o, err := ToFloat64SliceE(v)
	if err != nil {
		return nil, fmt.Errorf("selection: entry '%s': %v", key, err)
	}
	return o, nil
}

// SubDict returns the sub-dictionary stored under key.
func (d Dictionary) SubDict(key string) (Dictionary, error) {
	v, err := d.Lookup(key)
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case Dictionary:
		return s, nil
	case map[string]interface{}:
		return Dictionary(s), nil
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, fmt.Errorf("selection: entry '%s' is not a dictionary: %v", key, err)
	}
	return Dictionary(m), nil
}

// TypeName returns the name of the type that the dictionary describes,
// stored in the TypeKey entry.
func (d Dictionary) TypeName() (string, error) {
	return d.LookupString(TypeKey)
}

// Keys returns the sorted entry names.
func (d Dictionary) Keys() []string {
	o := make([]string, 0, len(d))
	for k := range d {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// ToFloat64SliceE converts a loosely typed list into a slice of float64.
func ToFloat64SliceE(v interface{}) ([]float64, error) {
	if f, ok := v.([]float64); ok {
		o := make([]float64, len(f))
		copy(o, f)
		return o, nil
	}
	s, err := cast.ToSliceE(v)
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(s))
	for i, e := range s {
		if o[i], err = cast.ToFloat64E(e); err != nil {
			return nil, fmt.Errorf("element %d: %v", i, err)
		}
	}
	return o, nil
}

// ReadDictionary reads a Dictionary from a TOML (.toml) or
// YAML (.yaml, .yml) file. The path can include environment variables.
func ReadDictionary(path string) (Dictionary, error) {
	path = os.ExpandEnv(path)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("selection: reading dictionary: %v", err)
	}
	d := make(Dictionary)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(b), (*map[string]interface{})(&d)); err != nil {
			return nil, fmt.Errorf("selection: decoding %s: %v", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, (*map[string]interface{})(&d)); err != nil {
			return nil, fmt.Errorf("selection: decoding %s: %v", path, err)
		}
	default:
		return nil, fmt.Errorf("selection: unsupported dictionary format '%s' for file %s", ext, path)
	}
	return d, nil
}
