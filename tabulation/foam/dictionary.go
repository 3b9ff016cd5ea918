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
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
)

// token is a lexical element of an OpenFOAM file. kind is
// scanner.Ident for words, scanner.Float for numbers, scanner.String
// for quoted strings, scanner.EOF at the end of the input and the
// character itself for punctuation.
type token struct {
	kind rune
	text string
	num  float64
	pos  scanner.Position
}

type parser struct {
	s      scanner.Scanner
	peeked *token
	err    error
}

func newParser(r io.Reader, name string) *parser {
	p := new(parser)
	p.s.Init(r)
	p.s.Filename = name
	p.s.Mode = scanner.ScanIdents | scanner.ScanFloats | scanner.ScanInts |
		scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	p.s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || unicode.IsLetter(ch) ||
			i > 0 && (unicode.IsDigit(ch) || ch == '.' || ch == ':' || ch == '-')
	}
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = fmt.Errorf("foam: %s: %s", s.Position, msg)
		}
	}
	return p
}

func (p *parser) scan() token {
	k := p.s.Scan()
	t := token{kind: k, text: p.s.TokenText(), pos: p.s.Position}
	switch k {
	case scanner.Int, scanner.Float:
		t.kind = scanner.Float
		t.num, _ = strconv.ParseFloat(t.text, 64)
	case '-', '+':
		if n := p.s.Peek(); n == '.' || unicode.IsDigit(n) || unicode.IsLetter(n) {
			p.s.Scan()
			t.text += p.s.TokenText()
			if f, err := strconv.ParseFloat(t.text, 64); err == nil {
				t.kind, t.num = scanner.Float, f
			} else {
				t.kind = scanner.Ident
			}
		}
	case scanner.Ident:
		switch strings.ToLower(t.text) {
		case "nan", "inf", "infinity":
			t.kind = scanner.Float
			t.num, _ = strconv.ParseFloat(t.text, 64)
		}
	case scanner.String:
		t.text, _ = strconv.Unquote(t.text)
	}
	return t
}

func (p *parser) next() token {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t
	}
	return p.scan()
}

func (p *parser) peek() token {
	if p.peeked == nil {
		t := p.scan()
		p.peeked = &t
	}
	return *p.peeked
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	if p.err != nil {
		return p.err
	}
	return fmt.Errorf("foam: %s: %s", t.pos, fmt.Sprintf(format, args...))
}

func (p *parser) expect(kind rune) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s, found %s", scanner.TokenString(kind), describe(t))
	}
	return t, nil
}

func describe(t token) string {
	if t.kind == scanner.EOF {
		return "end of file"
	}
	return strconv.Quote(t.text)
}

// ParseDictionary parses the entries of an OpenFOAM dictionary file.
// Sub-dictionaries are returned as map[string]interface{}, numbers as
// float64, numeric lists as []float64, other lists as []interface{},
// and words and strings as string. Entries made of several values
// (e.g. "value uniform 0;") are returned as EntryValues.
func ParseDictionary(r io.Reader) (map[string]interface{}, error) {
	p := newParser(r, "")
	d, _, err := p.dictionary(scanner.EOF)
	return d, err
}

// dictionary parses entries until end and returns them, with
// the keys in the order they appear.
func (p *parser) dictionary(end rune) (map[string]interface{}, []string, error) {
	d := make(map[string]interface{})
	var keys []string
	for {
		t := p.next()
		if p.err != nil {
			return nil, nil, p.err
		}
		switch t.kind {
		case end:
			return d, keys, nil
		case scanner.Ident, scanner.String:
		case ';':
			continue
		default:
			return nil, nil, p.errorf(t, "expected keyword, found %s", describe(t))
		}
		key := t.text
		var v interface{}
		if p.peek().kind == '{' {
			p.next()
			sub, _, err := p.dictionary('}')
			if err != nil {
				return nil, nil, err
			}
			v = sub
		} else {
			var vals []interface{}
			for p.peek().kind != ';' {
				val, err := p.value()
				if err != nil {
					return nil, nil, err
				}
				vals = append(vals, val)
			}
			p.next()
			switch len(vals) {
			case 0:
				v = ""
			case 1:
				v = vals[0]
			default:
				v = EntryValues(vals)
			}
		}
		if _, ok := d[key]; !ok {
			keys = append(keys, key)
		}
		d[key] = v
	}
}

// value parses a single value: a number, a word, a string or a list.
func (p *parser) value() (interface{}, error) {
	t := p.next()
	if p.err != nil {
		return nil, p.err
	}
	switch t.kind {
	case scanner.Float:
		switch p.peek().kind {
		case '(':
			p.next()
			l, err := p.list()
			if err != nil {
				return nil, err
			}
			if n := listLen(l); float64(n) != t.num {
				return nil, p.errorf(t, "list has %d elements but its size is %g", n, t.num)
			}
			return l, nil
		case '{':
			p.next()
			return p.uniform(t)
		}
		return t.num, nil
	case '(':
		return p.list()
	case scanner.Ident, scanner.String:
		return t.text, nil
	}
	return nil, p.errorf(t, "unexpected %s", describe(t))
}

// list parses the elements of a list up to the closing parenthesis.
func (p *parser) list() (interface{}, error) {
	var vals []interface{}
	numeric := true
	for p.peek().kind != ')' {
		if p.peek().kind == scanner.EOF {
			return nil, p.errorf(p.peek(), "unterminated list")
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if _, ok := v.(float64); !ok {
			numeric = false
		}
		vals = append(vals, v)
	}
	p.next()
	if !numeric {
		return vals, nil
	}
	o := make([]float64, len(vals))
	for i, v := range vals {
		o[i] = v.(float64)
	}
	return o, nil
}

// EntryValues holds the values of a dictionary entry made of several
// values, such as "value uniform 0;". Unlike a list it is written
// without parentheses.
type EntryValues []interface{}

func (e EntryValues) String() string {
	s, err := formatValue(e)
	if err != nil {
		return fmt.Sprint([]interface{}(e))
	}
	return s
}

// MaxUniformSize is the largest size accepted for a list in the
// "N{value}" form.
const MaxUniformSize = 1 << 27

// uniform parses the "N{value}" form of a list whose elements
// all have the same value.
func (p *parser) uniform(n token) (interface{}, error) {
	v, err := p.expect(scanner.Float)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect('}'); err != nil {
		return nil, err
	}
	if n.num < 0 || n.num > MaxUniformSize || n.num != math.Trunc(n.num) {
		return nil, p.errorf(n, "invalid list size %s (at most %d)", n.text, MaxUniformSize)
	}
	o := make([]float64, int(n.num))
	for i := range o {
		o[i] = v.num
	}
	return o, nil
}

func listLen(l interface{}) int {
	switch v := l.(type) {
	case []float64:
		return len(v)
	case []interface{}:
		return len(v)
	}
	return 0
}

// WriteDictionary writes the entries of d in OpenFOAM dictionary syntax.
// keys sets the order of the entries; if it is nil the keys are sorted.
func WriteDictionary(w io.Writer, d map[string]interface{}, keys []string) error {
	if keys == nil {
		keys = sortedKeys(d)
	}
	b := new(strings.Builder)
	for _, k := range keys {
		v, ok := d[k]
		if !ok {
			return fmt.Errorf("foam: no entry '%s' in dictionary", k)
		}
		if err := writeEntry(b, k, v, ""); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeEntry(b *strings.Builder, key string, v interface{}, indent string) error {
	if sub, ok := v.(map[string]interface{}); ok {
		fmt.Fprintf(b, "%s%s\n%s{\n", indent, word(key), indent)
		for _, k := range sortedKeys(sub) {
			if err := writeEntry(b, k, sub[k], indent+"    "); err != nil {
				return err
			}
		}
		fmt.Fprintf(b, "%s}\n\n", indent)
		return nil
	}
	s, err := formatValue(v)
	if err != nil {
		return fmt.Errorf("foam: entry '%s': %v", key, err)
	}
	fmt.Fprintf(b, "%s%-12s%s;\n", indent, word(key)+" ", s)
	return nil
}

// formatValue formats a value in OpenFOAM syntax.
func formatValue(v interface{}) (string, error) {
	switch x := v.(type) {
	case float64:
		return formatFloat(x), nil
	case float32:
		return formatFloat(float64(x)), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case bool:
		return strconv.FormatBool(x), nil
	case string:
		return word(x), nil
	case []float64:
		s := make([]string, len(x))
		for i, f := range x {
			s[i] = formatFloat(f)
		}
		return "(" + strings.Join(s, " ") + ")", nil
	case []string:
		s := make([]string, len(x))
		for i, f := range x {
			s[i] = word(f)
		}
		return "(" + strings.Join(s, " ") + ")", nil
	case EntryValues:
		s := make([]string, len(x))
		for i, e := range x {
			var err error
			if s[i], err = formatValue(e); err != nil {
				return "", err
			}
		}
		return strings.Join(s, " "), nil
	case []interface{}:
		s := make([]string, len(x))
		for i, e := range x {
			var err error
			if s[i], err = formatValue(e); err != nil {
				return "", err
			}
		}
		return "(" + strings.Join(s, " ") + ")", nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// word returns s as is if it can be read back as a word,
// and quoted otherwise.
func word(s string) string {
	if s == "" {
		return `""`
	}
	for i, ch := range s {
		if !(ch == '_' || unicode.IsLetter(ch) ||
			i > 0 && (unicode.IsDigit(ch) || ch == '.' || ch == ':' || ch == '-')) {
			return strconv.Quote(s)
		}
	}
	return s
}
