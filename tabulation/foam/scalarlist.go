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

package foam

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"text/scanner"
)

const banner = `/*--------------------------------*- C++ -*----------------------------------*\
  =========                 |
  \\      /  F ield         | OpenFOAM: The Open Source CFD Toolbox
   \\    /   O peration     |
    \\  /    A nd           | Written by ICEpost
     \\/     M anipulation  |
\*---------------------------------------------------------------------------*/
`

const separator = "// * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * //\n\n"

// Header is the FoamFile dictionary at the top of OpenFOAM data files.
type Header struct {
	Version  string
	Format   string
	Class    string
	Location string
	Object   string
}

// Write writes the header in OpenFOAM syntax.
func (h Header) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "FoamFile\n{\n"+
		"    version     %s;\n"+
		"    format      %s;\n"+
		"    class       %s;\n"+
		"    location    %q;\n"+
		"    object      %s;\n"+
		"}\n", h.Version, h.Format, h.Class, h.Location, word(h.Object))
	return err
}

// ReadScalarList reads an OpenFOAM scalarList file: an optional FoamFile
// header followed by the list, either as "N ( v1 ... vN )" or as "N{v}".
// Only the ascii format is supported.
func ReadScalarList(r io.Reader) ([]float64, error) {
	p := newParser(bufio.NewReader(r), "")
	if t := p.peek(); t.kind == scanner.Ident && t.text == "FoamFile" {
		p.next()
		if _, err := p.expect('{'); err != nil {
			return nil, err
		}
		h, _, err := p.dictionary('}')
		if err != nil {
			return nil, err
		}
		if f, ok := h["format"]; ok && f != "ascii" {
			return nil, fmt.Errorf("foam: unsupported format '%v', only ascii is supported", f)
		}
	}
	n, err := p.expect(scanner.Float)
	if err != nil {
		return nil, err
	}
	if n.num < 0 || n.num != math.Trunc(n.num) {
		return nil, p.errorf(n, "invalid list size %s", n.text)
	}
	t := p.next()
	switch t.kind {
	case '{':
		v, err := p.uniform(n)
		if err != nil {
			return nil, err
		}
		return v.([]float64), nil
	case '(':
	default:
		return nil, p.errorf(t, "expected list, found %s", describe(t))
	}
	var o []float64
loop:
	for {
		t := p.next()
		if p.err != nil {
			return nil, p.err
		}
		switch t.kind {
		case scanner.Float:
			o = append(o, t.num)
		case ')':
			break loop
		default:
			return nil, p.errorf(t, "expected number, found %s", describe(t))
		}
	}
	if float64(len(o)) != n.num {
		return nil, fmt.Errorf("foam: list has %d elements but its size is %s", len(o), n.text)
	}
	if o == nil {
		o = []float64{}
	}
	return o, nil
}

// WriteScalarList writes values as an ascii OpenFOAM scalarList file
// named object in the constant directory.
func WriteScalarList(w io.Writer, object string, values []float64) error {
	b := bufio.NewWriter(w)
	b.WriteString(banner)
	h := Header{
		Version:  "2.0",
		Format:   "ascii",
		Class:    "scalarList",
		Location: "constant",
		Object:   object,
	}
	if err := h.Write(b); err != nil {
		return err
	}
	b.WriteString(separator)
	fmt.Fprintf(b, "%d\n(\n", len(values))
	for _, v := range values {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('\n')
	}
	b.WriteString(")\n")
	return b.Flush()
}

func sortedKeys(d map[string]interface{}) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
