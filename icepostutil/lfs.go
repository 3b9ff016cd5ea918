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

package icepostutil

import (
	"fmt"
	"io"
	"os"

	"github.com/ctessum/unit"
	"github.com/icepost/icepost/selection"
	"github.com/icepost/icepost/tabulation"
	"github.com/icepost/icepost/tabulation/foam"
	"github.com/icepost/icepost/thermo/lfs"
)

// selectLFS selects the laminar flame speed model described in the
// dictionary file.
func selectLFS(file string) (lfs.Model, error) {
	d, err := selection.ReadDictionary(file)
	if err != nil {
		return nil, err
	}
	return lfs.Models.Select(d)
}

// evalLFS writes the laminar flame speed computed by m at s to w, and
// the laminar flame thickness if m provides it.
func evalLFS(w io.Writer, m lfs.Model, s lfs.State, o tabulation.Options) error {
	var su float64
	var err error
	tab, tabulated := m.(*lfs.Tabulated)
	if tabulated {
		su, err = tab.SuWith(s, o)
	} else {
		su, err = m.Su(s)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Su = %g\n", unit.New(su, unit.MeterPerSecond))
	var dl float64
	if tabulated {
		dl, err = tab.DeltaLWith(s, o)
	} else {
		dl, err = m.DeltaL(s)
	}
	if err == nil {
		fmt.Fprintf(w, "deltaL = %g\n", unit.New(dl, unit.Meter))
	}
	return nil
}

// tabulateLFS tabulates m over ranges and writes the table to path.
func tabulateLFS(m lfs.Model, ranges map[string][]float64, thickness bool, path string) error {
	tb, err := lfs.Tabulate(m, ranges, thickness)
	if err != nil {
		return err
	}
	return foam.Write(tb, os.ExpandEnv(path), Cfg.GetBool("overwrite"))
}
