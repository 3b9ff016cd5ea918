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
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryLookup(t *testing.T) {
	d := Dictionary{
		"type":   "janaf7",
		"Rgas":   "287.05",
		"n":      3,
		"fatal":  "true",
		"coeffs": []interface{}{1, "2.5", 3.0},
		"sub":    map[string]interface{}{"a": 1},
	}
	name, err := d.TypeName()
	require.NoError(t, err)
	assert.Equal(t, "janaf7", name)

	r, err := d.LookupFloat("Rgas")
	require.NoError(t, err)
	assert.Equal(t, 287.05, r)

	n, err := d.LookupInt("n")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	b, err := d.LookupBool("fatal")
	require.NoError(t, err)
	assert.True(t, b)

	c, err := d.LookupFloats("coeffs")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 3}, c)

	sub, err := d.SubDict("sub")
	require.NoError(t, err)
	assert.Equal(t, Dictionary{"a": 1}, sub)

	assert.Equal(t, 4, d.LookupOrDefault("missing", 4))
	assert.Equal(t, 3, d.LookupOrDefault("n", 4))

	_, err = d.LookupFloat("type")
	assert.Error(t, err)
	_, err = d.SubDict("n")
	assert.Error(t, err)
	_, err = d.LookupString("missing")
	assert.Error(t, err)
}

func TestReadDictionary(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "lfs.toml")
	yamlPath := filepath.Join(dir, "lfs.yaml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
type = "Gulders"

[GuldersDict]
alpha = 2.18
phiCoeffs = [0.4658, -0.326, 1.075]
`), 0644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
type: Gulders
GuldersDict:
  alpha: 2.18
  phiCoeffs: [0.4658, -0.326, 1.075]
`), 0644))

	var dicts []Dictionary
	for _, p := range []string{tomlPath, yamlPath} {
		d, err := ReadDictionary(p)
		require.NoError(t, err, p)
		dicts = append(dicts, d)

		name, err := d.TypeName()
		require.NoError(t, err)
		assert.Equal(t, "Gulders", name)
		sub, err := d.SubDict("GuldersDict")
		require.NoError(t, err)
		alpha, err := sub.LookupFloat("alpha")
		require.NoError(t, err)
		assert.Equal(t, 2.18, alpha)
		c, err := sub.LookupFloats("phiCoeffs")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.4658, -0.326, 1.075}, c)
	}
	if diff := pretty.Diff(dicts[0].Keys(), dicts[1].Keys()); len(diff) != 0 {
		t.Errorf("keys differ between formats: %v", diff)
	}

	_, err := ReadDictionary(filepath.Join(dir, "lfs.json"))
	assert.Error(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.ini"), nil, 0644))
	_, err = ReadDictionary(filepath.Join(dir, "x.ini"))
	assert.Error(t, err)
}
