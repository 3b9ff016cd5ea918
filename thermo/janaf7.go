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

	"github.com/icepost/icepost/database"
	"github.com/icepost/icepost/selection"
	"github.com/sirupsen/logrus"
)

func init() {
	mustRegister(Thermos, "janaf7", func(d selection.Dictionary) (Thermo, error) {
		return NewJanaf7(d)
	})
}

// Janaf7 is the NASA 7-coefficient polynomial correlation:
//
//	cp/R = a0 + a1 T + a2 T^2 + a3 T^3 + a4 T^4
//	ha/R = a0 T + a1 T^2/2 + a2 T^3/3 + a3 T^4/4 + a4 T^5/5 + a5
//
// with one set of coefficients below Tth and another above it.
type Janaf7 struct {
	R float64

	// Specie is used in warnings.
	Specie string

	CpLow, CpHigh []float64

	// Tth is the temperature at which the coefficient sets switch.
	Tth float64

	// Tlow and Thigh bound the range of validity.
	Tlow, Thigh float64
}

// NewJanaf7 creates a Janaf7 from d. If d names a database "specie",
// coefficients missing from d are taken from the database.
func NewJanaf7(d selection.Dictionary) (*Janaf7, error) {
	r, err := rgas(d)
	if err != nil {
		return nil, fmt.Errorf("thermo: janaf7: %w", err)
	}
	j := &Janaf7{R: r}
	if name, err := d.LookupString("specie"); err == nil {
		j.Specie = name
		c, err := database.Default().Janaf7(name)
		if err != nil {
			return nil, fmt.Errorf("thermo: janaf7: %w", err)
		}
		j.CpLow, j.CpHigh = c.CpLow, c.CpHigh
		j.Tth, j.Tlow, j.Thigh = c.Tth, c.Tlow, c.Thigh
	}
	for _, f := range []struct {
		key string
		v   *[]float64
	}{{"cpLow", &j.CpLow}, {"cpHigh", &j.CpHigh}} {
		if _, ok := d[f.key]; !ok && *f.v != nil {
			continue
		}
		if *f.v, err = d.LookupFloats(f.key); err != nil {
			return nil, fmt.Errorf("thermo: janaf7: %w", err)
		}
		if len(*f.v) != 7 {
			return nil, fmt.Errorf("thermo: janaf7: '%s' needs 7 coefficients, have %d", f.key, len(*f.v))
		}
	}
	for _, f := range []struct {
		key string
		v   *float64
	}{{"Tth", &j.Tth}, {"Tlow", &j.Tlow}, {"Thigh", &j.Thigh}} {
		if _, ok := d[f.key]; !ok && j.Specie != "" {
			continue
		}
		if *f.v, err = d.LookupFloat(f.key); err != nil {
			return nil, fmt.Errorf("thermo: janaf7: %w", err)
		}
	}
	if !(j.Tlow <= j.Tth && j.Tth <= j.Thigh) {
		return nil, fmt.Errorf("thermo: janaf7: need Tlow <= Tth <= Thigh, have %g, %g, %g",
			j.Tlow, j.Tth, j.Thigh)
	}
	return j, nil
}

// TypeName returns "janaf7".
func (j *Janaf7) TypeName() string { return "janaf7" }

// Rgas returns the specific gas constant.
func (j *Janaf7) Rgas() float64 { return j.R }

func (j *Janaf7) coeffs(T float64) []float64 {
	j.checkRange(T)
	return j.set(T)
}

func (j *Janaf7) set(T float64) []float64 {
	if T < j.Tth {
		return j.CpLow
	}
	return j.CpHigh
}

func (j *Janaf7) checkRange(T float64) {
	if T < j.Tlow || T > j.Thigh {
		Log.WithFields(logrus.Fields{
			"specie": j.Specie,
			"T":      T,
			"Tlow":   j.Tlow,
			"Thigh":  j.Thigh,
		}).Warn("thermo: janaf7: temperature outside of range")
	}
}

// Cp returns the heat capacity at temperature T.
func (j *Janaf7) Cp(p, T float64) float64 {
	a := j.coeffs(T)
	var cp, tn float64 = 0, 1
	for i := 0; i < 5; i++ {
		cp += a[i] * tn
		tn *= T
	}
	return cp * j.R
}

// Ha returns the absolute enthalpy at temperature T.
func (j *Janaf7) Ha(p, T float64) float64 {
	j.checkRange(T)
	return j.ha(T)
}

func (j *Janaf7) ha(T float64) float64 {
	a := j.set(T)
	h, tn := a[5], T
	for i := 0; i < 5; i++ {
		h += a[i] * tn / float64(i+1)
		tn *= T
	}
	return h * j.R
}

// Hf returns the absolute enthalpy at Tstd.
func (j *Janaf7) Hf() float64 { return j.ha(Tstd) }

// DcpdT returns the derivative of the heat capacity at temperature T.
func (j *Janaf7) DcpdT(p, T float64) float64 {
	a := j.coeffs(T)
	var d, tn float64 = 0, 1
	for i := 1; i < 5; i++ {
		d += float64(i) * a[i] * tn
		tn *= T
	}
	return d * j.R
}
