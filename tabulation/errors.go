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

package tabulation

import (
	"errors"
	"fmt"
)

var (
	// ErrAxisMismatch is returned when the axes of a grid, a query or
	// an order do not match.
	ErrAxisMismatch = errors.New("tabulation: axis mismatch")

	// ErrSize is returned when the length of the data does not match the
	// size of the grid.
	ErrSize = errors.New("tabulation: data size does not match grid size")

	// ErrRange is returned for empty, unsorted or duplicated sampling points.
	ErrRange = errors.New("tabulation: invalid range")

	// ErrConcat is returned when two tables cannot be concatenated.
	ErrConcat = errors.New("tabulation: invalid concatenation")

	// ErrFieldNotFound is returned when accessing a field that is not
	// in a Tabulation.
	ErrFieldNotFound = errors.New("tabulation: field not found")

	// ErrNames is returned for invalid file or display-name maps.
	ErrNames = errors.New("tabulation: invalid names")
)

// OutOfRangeError is returned by a Fatal query that falls outside of
// the sampled range of an axis.
type OutOfRangeError struct {
	Axis     string
	Value    float64
	Min, Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("tabulation: value %g of '%s' is out of range [%g, %g]",
		e.Value, e.Axis, e.Min, e.Max)
}
