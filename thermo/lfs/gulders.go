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
	"math"
	"sort"

	"github.com/icepost/icepost/selection"
)

// Gulders implements the laminar flame speed correlation described in:
//
// Gülder, Ö. L. (1984). Correlations of Laminar Combustion Data for
// Alternative S.I. Engine Fuels. SAE Technical Paper 841000.
//
// with the dilution correction of Metghalchi M. and Keck J. C. (1982).
// Burning velocities of mixtures of air with methanol, isooctane, and
// indolene at high pressure and temperature. Combustion and Flame 48:191–210.
type Gulders struct {
	// W, Eta and Xi are fitted to the flame speed at reference conditions [m/s].
	W, Eta, Xi float64

	// Alpha0 and Alpha1 give the temperature exponent
	// alpha = Alpha0 + Alpha1 (phi - 1).
	Alpha0, Alpha1 float64

	// Beta0 and Beta1 give the pressure exponent
	// beta = Beta0 + Beta1 (phi - 1).
	Beta0, Beta1 float64

	// T0 [K] and P0 [Pa] are the reference conditions.
	T0, P0 float64

	// F is the coefficient of the EGR dilution correction.
	F float64

	// Label is the name of the fuel.
	Label string
}

// GuldersIsoOctane is the correlation fitted to iso-octane/air flames.
var GuldersIsoOctane = Gulders{
	W:      0.4658,
	Eta:    -0.326,
	Xi:     4.48,
	Alpha0: 2.18,
	Alpha1: -0.8,
	Beta0:  -0.16,
	Beta1:  0.22,
	T0:     298,
	P0:     101325,
	F:      2.06,
	Label:  "IC8H18",
}

// GuldersMethane is the correlation fitted to methane/air flames.
var GuldersMethane = Gulders{
	W:      0.422,
	Eta:    0.15,
	Xi:     5.18,
	Alpha0: 2,
	Alpha1: 0,
	Beta0:  -0.5,
	Beta1:  0,
	T0:     298,
	P0:     101325,
	F:      2.06,
	Label:  "CH4",
}

// GuldersPropane is the correlation fitted to propane/air flames.
var GuldersPropane = Gulders{
	W:      0.446,
	Eta:    0.12,
	Xi:     4.95,
	Alpha0: 1.77,
	Alpha1: 0,
	Beta0:  -0.2,
	Beta1:  0,
	T0:     298,
	P0:     101325,
	F:      2.06,
	Label:  "C3H8",
}

// GuldersEthanol is the correlation fitted to ethanol/air flames.
var GuldersEthanol = Gulders{
	W:      0.465,
	Eta:    0.25,
	Xi:     6.34,
	Alpha0: 1.75,
	Alpha1: 0,
	Beta0:  -0.17,
	Beta1:  0,
	T0:     298,
	P0:     101325,
	F:      2.06,
	Label:  "C2H5OH",
}

// GuldersFuels holds the correlations by fuel name.
var GuldersFuels = map[string]Gulders{
	GuldersIsoOctane.Label: GuldersIsoOctane,
	GuldersMethane.Label:   GuldersMethane,
	GuldersPropane.Label:   GuldersPropane,
	GuldersEthanol.Label:   GuldersEthanol,
}

// NewGulders creates a Gulders correlation from d. The coefficients of
// the fuel named in the "fuel" entry (default IC8H18) are used unless
// d overrides them with any of the entries W, eta, xi, alpha0, alpha1,
// beta0, beta1, T0, p0 and f.
func NewGulders(d selection.Dictionary) (*Gulders, error) {
	fuel := GuldersIsoOctane.Label
	if _, ok := d["fuel"]; ok {
		var err error
		if fuel, err = d.LookupString("fuel"); err != nil {
			return nil, fmt.Errorf("lfs: Gulders: %w", err)
		}
	}
	g, ok := GuldersFuels[fuel]
	if !ok {
		fuels := make([]string, 0, len(GuldersFuels))
		for k := range GuldersFuels {
			fuels = append(fuels, k)
		}
		sort.Strings(fuels)
		return nil, fmt.Errorf("lfs: Gulders: no coefficients for fuel '%s'; available fuels are %v", fuel, fuels)
	}
	for key, v := range map[string]*float64{
		"W": &g.W, "eta": &g.Eta, "xi": &g.Xi,
		"alpha0": &g.Alpha0, "alpha1": &g.Alpha1,
		"beta0": &g.Beta0, "beta1": &g.Beta1,
		"T0": &g.T0, "p0": &g.P0, "f": &g.F,
	} {
		if _, ok := d[key]; !ok {
			continue
		}
		var err error
		if *v, err = d.LookupFloat(key); err != nil {
			return nil, fmt.Errorf("lfs: Gulders: %w", err)
		}
	}
	if g.T0 <= 0 || g.P0 <= 0 {
		return nil, fmt.Errorf("lfs: Gulders: reference conditions must be positive, have T0=%g, p0=%g", g.T0, g.P0)
	}
	return &g, nil
}

// TypeName returns "Gulders".
func (g *Gulders) TypeName() string { return "Gulders" }

// Su0 returns the laminar flame speed at reference conditions.
func (g *Gulders) Su0(phi float64) float64 {
	return g.W * math.Pow(phi, g.Eta) * math.Exp(-g.Xi*(phi-1.075)*(phi-1.075))
}

// Su returns the laminar flame speed at s.
func (g *Gulders) Su(s State) (float64, error) {
	if s.P <= 0 || s.T <= 0 || s.Phi <= 0 {
		return math.NaN(), fmt.Errorf("lfs: Gulders: pressure, temperature and equivalence ratio must be positive, have %+v", s)
	}
	if s.EGR < 0 || s.EGR > 1 {
		return math.NaN(), fmt.Errorf("lfs: Gulders: EGR must be in [0, 1], have %g", s.EGR)
	}
	alpha := g.Alpha0 + g.Alpha1*(s.Phi-1)
	beta := g.Beta0 + g.Beta1*(s.Phi-1)
	return g.Su0(s.Phi) * math.Pow(s.T/g.T0, alpha) * math.Pow(s.P/g.P0, beta) *
		(1 - g.F*math.Pow(s.EGR, 0.77)), nil
}

// DeltaL is not provided by the correlation and always returns an error.
func (g *Gulders) DeltaL(s State) (float64, error) {
	return math.NaN(), fmt.Errorf("lfs: Gulders: laminar flame thickness is not available")
}
