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

// Package database holds the chemistry data bundled with ICEpost:
// atomic masses, molecules and JANAF thermodynamic coefficients.
// A Database is read-only once loaded.
package database

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed chemistry.toml
var chemistry string

// Constants are physical constants.
type Constants struct {
	// Tstd is the standard temperature [K].
	Tstd float64 `toml:"Tstd"`
	// Pstd is the standard pressure [Pa].
	Pstd float64 `toml:"pstd"`
	// Ru is the universal gas constant [J/(kmol K)].
	Ru float64 `toml:"Ru"`
}

// Molecule is a chemical specie.
type Molecule struct {
	Name string
	// Atoms holds the number of atoms of each element in the molecule.
	Atoms map[string]float64 `toml:"atoms"`
	Fuel  bool               `toml:"fuel"`
}

// Janaf7 holds the coefficients of the NASA 7-coefficient polynomials
// of a specie. The first five coefficients give cp/R as a polynomial
// in T; the sixth and seventh are the enthalpy and entropy constants.
type Janaf7 struct {
	CpLow  []float64 `toml:"cpLow"`
	CpHigh []float64 `toml:"cpHigh"`
	Tth    float64   `toml:"Tth"`
	Tlow   float64   `toml:"Tlow"`
	Thigh  float64   `toml:"Thigh"`
}

// Database is the chemistry database.
type Database struct {
	constants Constants
	atoms     map[string]float64
	molecules map[string]Molecule
	janaf7    map[string]Janaf7
}

type file struct {
	Constants Constants           `toml:"constants"`
	Atoms     map[string]float64  `toml:"atoms"`
	Molecules map[string]Molecule `toml:"molecules"`
	Janaf7    map[string]Janaf7   `toml:"janaf7"`
}

// Load loads the bundled database.
func Load() (*Database, error) {
	return Read(strings.NewReader(chemistry))
}

// Read reads a database in TOML format from r.
func Read(r io.Reader) (*Database, error) {
	var f file
	if _, err := toml.DecodeReader(r, &f); err != nil {
		return nil, fmt.Errorf("database: %v", err)
	}
	db := &Database{
		constants: f.Constants,
		atoms:     f.Atoms,
		molecules: make(map[string]Molecule, len(f.Molecules)),
		janaf7:    f.Janaf7,
	}
	if db.constants.Ru <= 0 {
		return nil, fmt.Errorf("database: universal gas constant not set")
	}
	for name, m := range f.Molecules {
		m.Name = name
		for a := range m.Atoms {
			if _, ok := db.atoms[a]; !ok {
				return nil, fmt.Errorf("database: molecule %s: unknown atom %s", name, a)
			}
		}
		db.molecules[name] = m
	}
	for name, j := range db.janaf7 {
		if len(j.CpLow) != 7 || len(j.CpHigh) != 7 {
			return nil, fmt.Errorf("database: janaf7 coefficients of %s: need 7 low and 7 high coefficients, have %d and %d",
				name, len(j.CpLow), len(j.CpHigh))
		}
	}
	return db, nil
}

var (
	defaultDB   *Database
	defaultErr  error
	defaultOnce sync.Once
)

// Default returns the bundled database, loading it the first time
// it is called. It panics if the bundled data are invalid.
func Default() *Database {
	defaultOnce.Do(func() {
		defaultDB, defaultErr = Load()
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultDB
}

// Constants returns the physical constants.
func (db *Database) Constants() Constants { return db.constants }

// AtomicMass returns the atomic mass [kg/kmol] of an element.
func (db *Database) AtomicMass(atom string) (float64, error) {
	m, ok := db.atoms[atom]
	if !ok {
		return 0, fmt.Errorf("database: atom '%s' not found", atom)
	}
	return m, nil
}

// Molecule returns the named molecule.
func (db *Database) Molecule(name string) (Molecule, error) {
	m, ok := db.molecules[name]
	if !ok {
		return Molecule{}, fmt.Errorf("database: molecule '%s' not found; available molecules are: %s",
			name, strings.Join(db.Molecules(), ", "))
	}
	return m, nil
}

// Molecules returns the sorted names of the molecules.
func (db *Database) Molecules() []string {
	return sortedNames(db.molecules, func(Molecule) bool { return true })
}

// Fuels returns the sorted names of the molecules that are fuels.
func (db *Database) Fuels() []string {
	return sortedNames(db.molecules, func(m Molecule) bool { return m.Fuel })
}

func sortedNames(m map[string]Molecule, keep func(Molecule) bool) []string {
	var o []string
	for k, v := range m {
		if keep(v) {
			o = append(o, k)
		}
	}
	sort.Strings(o)
	return o
}

// MolarMass returns the molar mass [kg/kmol] of a molecule.
func (db *Database) MolarMass(name string) (float64, error) {
	m, err := db.Molecule(name)
	if err != nil {
		return 0, err
	}
	var mm float64
	for a, n := range m.Atoms {
		mm += n * db.atoms[a]
	}
	return mm, nil
}

// Rgas returns the mass specific gas constant [J/(kg K)] of a molecule.
func (db *Database) Rgas(name string) (float64, error) {
	mm, err := db.MolarMass(name)
	if err != nil {
		return 0, err
	}
	return db.constants.Ru / mm, nil
}

// Janaf7 returns the JANAF coefficients of a molecule.
func (db *Database) Janaf7(name string) (Janaf7, error) {
	j, ok := db.janaf7[name]
	if !ok {
		return Janaf7{}, fmt.Errorf("database: janaf7 coefficients of '%s' not found", name)
	}
	j.CpLow = append([]float64(nil), j.CpLow...)
	j.CpHigh = append([]float64(nil), j.CpHigh...)
	return j, nil
}
