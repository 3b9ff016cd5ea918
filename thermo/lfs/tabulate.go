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

	"github.com/icepost/icepost/tabulation"
	"github.com/sirupsen/logrus"
)

// Log reports the progress of table generation.
var Log logrus.FieldLogger = logrus.StandardLogger()

// Tabulate evaluates m at every point of the grid spanned by ranges and
// returns the results as a laminar flame speed table, ready to be
// written with foam.Write. ranges must hold the p, T and phi axes and
// may hold EGR. If thickness is true the laminar flame thickness is
// tabulated too.
func Tabulate(m Model, ranges map[string][]float64, thickness bool) (*tabulation.Tabulation, error) {
	var order []string
	for _, ax := range TableOrder {
		if _, ok := ranges[ax]; ok {
			order = append(order, ax)
		} else if ax != "EGR" {
			return nil, fmt.Errorf("lfs: tabulating %s: range of '%s' not given: %w",
				m.TypeName(), ax, tabulation.ErrAxisMismatch)
		}
	}
	g, err := tabulation.NewGrid(order, ranges)
	if err != nil {
		return nil, fmt.Errorf("lfs: %w", err)
	}
	fields := []string{SuField}
	if thickness {
		fields = append(fields, DeltaLField)
	}
	su := make([]float64, g.Size())
	deltaL := make([]float64, g.Size())

	for ii := 0; ii < g.Size(); ii++ {
		in, err := g.Input(ii)
		if err != nil {
			return nil, fmt.Errorf("lfs: %w", err)
		}
		s := State{P: in["p"], T: in["T"], Phi: in["phi"], EGR: in["EGR"]}
		if su[ii], err = m.Su(s); err != nil {
			return nil, fmt.Errorf("lfs: tabulating %s at %+v: %w", m.TypeName(), s, err)
		}
		if !thickness {
			continue
		}
		if deltaL[ii], err = m.DeltaL(s); err != nil {
			return nil, fmt.Errorf("lfs: tabulating %s at %+v: %w", m.TypeName(), s, err)
		}
	}
	Log.WithFields(logrus.Fields{
		"model":  m.TypeName(),
		"shape":  g.Shape(),
		"fields": fields,
	}).Info("lfs: tabulated laminar flame speed")

	data := map[string][]float64{SuField: su}
	files := map[string]string{SuField: TableFiles[SuField]}
	if thickness {
		data[DeltaLField] = deltaL
		files[DeltaLField] = TableFiles[DeltaLField]
	}
	inputNames := make(map[string]string, len(order))
	for entry, ax := range TableInputNames {
		if _, ok := ranges[ax]; ok {
			inputNames[ax] = entry
		}
	}
	return tabulation.New(ranges, data, fields, order, &tabulation.Config{
		Files:      files,
		InputNames: inputNames,
		MinAxes:    3,
	})
}
