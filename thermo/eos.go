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

package thermo

import (
	"fmt"

	"github.com/icepost/icepost/selection"
)

// EquationOfState relates pressure, temperature and density of a gas.
// Cp and H return departures from ideal gas behavior.
type EquationOfState interface {
	selection.Registrable

	// Cp returns the departure of the constant pressure heat capacity
	// [J/(kg K)] from its ideal gas value.
	Cp(p, T float64) float64

	// H returns the enthalpy departure [J/kg].
	H(p, T float64) float64

	// Rho returns the density [kg/m3] at pressure p [Pa] and temperature T [K].
	Rho(p, T float64) float64

	// T returns the temperature at pressure p and density rho.
	T(p, rho float64) float64

	// P returns the pressure at temperature T and density rho.
	P(T, rho float64) float64

	// Z returns the compressibility factor.
	Z(p, T float64) float64

	// Partial derivatives of the equation of state.
	DpdT(p, T float64) float64
	DTdp(p, T float64) float64
	Drhodp(p, T float64) float64
	Dpdrho(p, T float64) float64
	DrhodT(p, T float64) float64
	DTdrho(p, T float64) float64
}

// EquationOfStates is the registry of the EquationOfState family.
// Its base type is abstract.
var EquationOfStates = selection.MustCreateRegistry[EquationOfState](selection.Default,
	"EquationOfState", "EquationOfState", nil)

func init() {
	mustRegister(EquationOfStates, "PerfectGas", func(d selection.Dictionary) (EquationOfState, error) {
		return NewPerfectGas(d)
	})
}

// PerfectGas is the equation of state p = rho R T.
type PerfectGas struct {
	// R is the specific gas constant [J/(kg K)].
	R float64
}

// NewPerfectGas creates a PerfectGas from a dictionary holding
// either "Rgas" or the name of a database "specie".
func NewPerfectGas(d selection.Dictionary) (*PerfectGas, error) {
	r, err := rgas(d)
	if err != nil {
		return nil, fmt.Errorf("thermo: PerfectGas: %w", err)
	}
	return &PerfectGas{R: r}, nil
}

// TypeName returns "PerfectGas".
func (g *PerfectGas) TypeName() string { return "PerfectGas" }

func (g *PerfectGas) Cp(p, T float64) float64  { return 0 }
func (g *PerfectGas) H(p, T float64) float64   { return 0 }
func (g *PerfectGas) Rho(p, T float64) float64 { return p / (g.R * T) }
func (g *PerfectGas) T(p, rho float64) float64 { return p / (rho * g.R) }
func (g *PerfectGas) P(T, rho float64) float64 { return rho * g.R * T }
func (g *PerfectGas) Z(p, T float64) float64   { return 1 }

func (g *PerfectGas) DpdT(p, T float64) float64   { return p / T }
func (g *PerfectGas) DTdp(p, T float64) float64   { return T / p }
func (g *PerfectGas) Drhodp(p, T float64) float64 { return 1 / (g.R * T) }
func (g *PerfectGas) Dpdrho(p, T float64) float64 { return g.R * T }
func (g *PerfectGas) DrhodT(p, T float64) float64 { return -p / (g.R * T * T) }
func (g *PerfectGas) DTdrho(p, T float64) float64 { return -g.R * T * T / p }
