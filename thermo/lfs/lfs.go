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

// Package lfs holds the laminar flame speed models of ICEpost.
package lfs

import (
	"github.com/icepost/icepost/selection"
)

// State is the thermodynamic state of the unburnt mixture.
type State struct {
	// P is the pressure [Pa].
	P float64

	// T is the unburnt gas temperature [K].
	T float64

	// Phi is the equivalence ratio.
	Phi float64

	// EGR is the mass fraction of exhaust gas recirculation.
	EGR float64
}

// Model computes the laminar flame speed of a mixture.
type Model interface {
	selection.Registrable

	// Su returns the laminar flame speed [m/s] at state s.
	Su(s State) (float64, error)

	// DeltaL returns the laminar flame thickness [m] at state s.
	DeltaL(s State) (float64, error)
}

// Models is the registry of laminar flame speed models.
// Its base type is abstract.
var Models = selection.MustCreateRegistry[Model](selection.Default,
	"LaminarFlameSpeedModel", "laminarFlameSpeedModel", nil)

func init() {
	for key, f := range map[string]selection.Factory[Model]{
		"tabulatedLFS": func(d selection.Dictionary) (Model, error) { return NewTabulated(d) },
		"Gulders":      func(d selection.Dictionary) (Model, error) { return NewGulders(d) },
	} {
		if err := Models.Register(key, f); err != nil {
			panic(err)
		}
	}
}
