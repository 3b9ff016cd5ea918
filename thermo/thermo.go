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

// Package thermo holds the thermophysical model families of ICEpost:
// equations of state and thermodynamic correlations of single species.
// Each family keeps a selection.Registry so that the model to use can
// be chosen from a configuration dictionary at run time.
package thermo

import (
	"fmt"

	"github.com/icepost/icepost/database"
	"github.com/icepost/icepost/selection"
	"github.com/sirupsen/logrus"
)

// Tstd is the standard temperature [K] at which formation enthalpies
// are evaluated.
const Tstd = 298.15

// Log receives warnings about correlations evaluated outside their
// range of validity.
var Log logrus.FieldLogger = logrus.StandardLogger()

// Thermo is a thermodynamic correlation of a single specie.
// All quantities are mass specific.
type Thermo interface {
	selection.Registrable

	// Rgas returns the specific gas constant [J/(kg K)].
	Rgas() float64

	// Cp returns the constant pressure heat capacity [J/(kg K)]
	// at pressure p [Pa] and temperature T [K].
	Cp(p, T float64) float64

	// Ha returns the absolute enthalpy [J/kg].
	Ha(p, T float64) float64

	// Hf returns the enthalpy of formation [J/kg] at Tstd.
	Hf() float64

	// DcpdT returns the derivative of Cp with respect to temperature.
	DcpdT(p, T float64) float64
}

// Thermos is the registry of the Thermo family. Its base type is abstract.
var Thermos = selection.MustCreateRegistry[Thermo](selection.Default, "Thermo", "Thermo", nil)

// Hs returns the sensible enthalpy [J/kg] of th.
func Hs(th Thermo, p, T float64) float64 {
	return th.Ha(p, T) - th.Hf()
}

// Cv returns the constant volume heat capacity [J/(kg K)] of th,
// assuming ideal gas behavior.
func Cv(th Thermo, p, T float64) float64 {
	return th.Cp(p, T) - th.Rgas()
}

// Gamma returns the ratio of heat capacities of th.
func Gamma(th Thermo, p, T float64) float64 {
	return th.Cp(p, T) / Cv(th, p, T)
}

// rgas reads the specific gas constant from d, either directly from
// the "Rgas" entry or from the database molecule named in "specie".
func rgas(d selection.Dictionary) (float64, error) {
	if _, ok := d["Rgas"]; ok {
		r, err := d.LookupFloat("Rgas")
		if err != nil {
			return 0, err
		}
		if r <= 0 {
			return 0, fmt.Errorf("thermo: gas constant must be positive, have %g", r)
		}
		return r, nil
	}
	name, err := d.LookupString("specie")
	if err != nil {
		return 0, fmt.Errorf("thermo: either 'Rgas' or 'specie' must be given: %w", err)
	}
	return database.Default().Rgas(name)
}

func mustRegister[T any](r *selection.Registry[T], key string, f selection.Factory[T]) {
	if err := r.Register(key, f); err != nil {
		panic(err)
	}
}
