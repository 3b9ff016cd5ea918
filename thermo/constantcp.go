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
	"math"

	"github.com/icepost/icepost/selection"
)

func init() {
	mustRegister(Thermos, "constantCp", func(d selection.Dictionary) (Thermo, error) {
		return NewConstantCp(d)
	})
}

// ConstantCp is a correlation with constant heat capacity.
type ConstantCp struct {
	R float64

	// CpValue is the heat capacity [J/(kg K)].
	CpValue float64

	// HfValue is the enthalpy of formation [J/kg]. It is NaN if unknown.
	HfValue float64
}

// NewConstantCp creates a ConstantCp from the "cp" and optional "hf"
// entries of d and its gas constant.
func NewConstantCp(d selection.Dictionary) (*ConstantCp, error) {
	r, err := rgas(d)
	if err != nil {
		return nil, fmt.Errorf("thermo: constantCp: %w", err)
	}
	cp, err := d.LookupFloat("cp")
	if err != nil {
		return nil, fmt.Errorf("thermo: constantCp: %w", err)
	}
	hf := math.NaN()
	if _, ok := d["hf"]; ok {
		if hf, err = d.LookupFloat("hf"); err != nil {
			return nil, fmt.Errorf("thermo: constantCp: %w", err)
		}
	}
	return &ConstantCp{R: r, CpValue: cp, HfValue: hf}, nil
}

// TypeName returns "constantCp".
func (c *ConstantCp) TypeName() string { return "constantCp" }

func (c *ConstantCp) Rgas() float64           { return c.R }
func (c *ConstantCp) Cp(p, T float64) float64 { return c.CpValue }
func (c *ConstantCp) Hf() float64             { return c.HfValue }

// Ha returns cp (T - Tstd) + hf.
func (c *ConstantCp) Ha(p, T float64) float64 {
	return c.CpValue*(T-Tstd) + c.HfValue
}

func (c *ConstantCp) DcpdT(p, T float64) float64 { return 0 }
