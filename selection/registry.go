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

// Package selection implements run-time selection of model types.
// A model family declares a Registry of constructors keyed by type name,
// its variants register themselves, and callers construct the right
// variant from a configuration Dictionary without knowing which
// concrete types exist.
package selection

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log is the logger used to report registrations.
var Log logrus.FieldLogger = logrus.StandardLogger()

var (
	// ErrNoRegistry is returned when operating on a family that has
	// not created its registry.
	ErrNoRegistry = errors.New("selection: registry has not been created")

	// ErrDuplicate is returned when a key is registered twice in the same
	// family.
	ErrDuplicate = errors.New("selection: type already registered")

	// ErrIncompatible is returned when a constructor does not produce a
	// member of the family.
	ErrIncompatible = errors.New("selection: type is not compatible with registry")

	// ErrRegistryExists is returned when a family creates its registry
	// more than once.
	ErrRegistryExists = errors.New("selection: registry already exists")

	// ErrAbstract is wrapped by the ConstructionError returned when
	// constructing an abstract type.
	ErrAbstract = errors.New("cannot instantiate an abstract type")
)

// Registrable is implemented by every variant of a model family.
type Registrable interface {
	// TypeName returns the key the variant is registered under.
	TypeName() string
}

// Factory constructs a family member from a configuration Dictionary.
type Factory[T any] func(Dictionary) (T, error)

// UnknownTypeError is returned when constructing a type that is
// not in the registry.
type UnknownTypeError struct {
	Family    string
	Key       string
	Available []string

	description string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("selection: no type '%s' found in %s selection table\n%s",
		e.Key, e.Family, e.description)
}

// ConstructionError wraps a failure returned by the constructor of
// a registered type.
type ConstructionError struct {
	Family string
	Key    string
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("selection: failed constructing instance of type '%s' in %s family: %v",
		e.Key, e.Family, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

type entry[T any] struct {
	factory Factory[T]
}

func (e entry[T]) abstract() bool { return e.factory == nil }

// Registry holds the constructors of one model family.
// It is safe for concurrent use.
type Registry[T any] struct {
	family     string
	initialKey string

	mu      sync.RWMutex
	entries map[string]entry[T]
}

// New creates a registry for the named family and registers the
// base type under initialKey. If f is nil the base type is abstract.
// Most families should use CreateRegistry instead, which guards against
// creating the same family twice.
func New[T any](family, initialKey string, f Factory[T]) *Registry[T] {
	r := &Registry[T]{
		family:     family,
		initialKey: initialKey,
		entries:    map[string]entry[T]{initialKey: {factory: f}},
	}
	return r
}

// Family returns the name of the family.
func (r *Registry[T]) Family() string { return r.family }

// BaseKey returns the key the base type of the family is registered under.
func (r *Registry[T]) BaseKey() string { return r.initialKey }

// Register adds a constructor to the registry under key. It fails if the
// key is already taken, in which case the existing registration is kept.
func (r *Registry[T]) Register(key string, f Factory[T]) error {
	if r == nil {
		return ErrNoRegistry
	}
	if f == nil {
		return fmt.Errorf("%w: nil constructor for type '%s'", ErrIncompatible, key)
	}
	return r.add(key, entry[T]{factory: f})
}

// RegisterAbstract adds a type that cannot be instantiated, such as an
// intermediate base type.
func (r *Registry[T]) RegisterAbstract(key string) error {
	if r == nil {
		return ErrNoRegistry
	}
	return r.add(key, entry[T]{})
}

func (r *Registry[T]) add(key string, e entry[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("%w: '%s' in %s selection table", ErrDuplicate, key, r.family)
	}
	r.entries[key] = e
	Log.WithFields(logrus.Fields{
		"family":   r.family,
		"type":     key,
		"abstract": e.abstract(),
	}).Debug("selection: registered type")
	return nil
}

// RegisterType registers a constructor whose signature is only known at
// run time. ctor must be a function of the form
//
//	func(Dictionary) (X, error)
//
// where X is assignable to the family type T.
func (r *Registry[T]) RegisterType(key string, ctor interface{}) error {
	if r == nil {
		return ErrNoRegistry
	}
	switch f := ctor.(type) {
	case Factory[T]:
		return r.Register(key, f)
	case func(Dictionary) (T, error):
		return r.Register(key, f)
	case nil:
		return fmt.Errorf("%w: nil constructor for type '%s'", ErrIncompatible, key)
	}
	v := reflect.ValueOf(ctor)
	ft := v.Type()
	target := reflect.TypeOf((*T)(nil)).Elem()
	dictType := reflect.TypeOf(Dictionary(nil))
	errType := reflect.TypeOf((*error)(nil)).Elem()
	if ft.Kind() != reflect.Func || ft.NumIn() != 1 || ft.NumOut() != 2 ||
		ft.In(0) != dictType || ft.Out(1) != errType {
		return fmt.Errorf("%w: constructor for type '%s' has signature %v, want func(selection.Dictionary) (%v, error)",
			ErrIncompatible, key, ft, target)
	}
	if !ft.Out(0).AssignableTo(target) {
		return fmt.Errorf("%w: type '%s' (%v) is not a %v", ErrIncompatible, key, ft.Out(0), target)
	}
	return r.Register(key, func(d Dictionary) (T, error) {
		var zero T
		out := v.Call([]reflect.Value{reflect.ValueOf(d)})
		if err, _ := out[1].Interface().(error); err != nil {
			return zero, err
		}
		if out[0].Kind() == reflect.Interface && out[0].IsNil() {
			return zero, nil
		}
		return out[0].Interface().(T), nil
	})
}

// Has returns whether key is registered.
func (r *Registry[T]) Has(key string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns the sorted keys of all registered types.
func (r *Registry[T]) Keys() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	o := make([]string, 0, len(r.entries))
	for k := range r.entries {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// IsAbstract returns whether key is registered as an abstract type.
func (r *Registry[T]) IsAbstract(key string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return ok && e.abstract()
}

// Describe returns a listing of the registered types, marking those
// that are abstract.
func (r *Registry[T]) Describe() string {
	if r == nil {
		return "No selection table available\n"
	}
	b := new(strings.Builder)
	fmt.Fprintf(b, "Available types in %s selection table:\n", r.family)
	for _, k := range r.Keys() {
		if r.IsAbstract(k) {
			fmt.Fprintf(b, "\t%s (Abstract type)\n", k)
		} else {
			fmt.Fprintf(b, "\t%s\n", k)
		}
	}
	return b.String()
}

// New constructs the type registered under key from the
// coefficients in d.
func (r *Registry[T]) New(key string, d Dictionary) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNoRegistry
	}
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return zero, &UnknownTypeError{
			Family:      r.family,
			Key:         key,
			Available:   r.Keys(),
			description: r.Describe(),
		}
	}
	if e.abstract() {
		return zero, &ConstructionError{Family: r.family, Key: key, Err: ErrAbstract}
	}
	if d == nil {
		d = Dictionary{}
	}
	v, err := e.factory(d)
	if err != nil {
		return zero, &ConstructionError{Family: r.family, Key: key, Err: err}
	}
	return v, nil
}

// Select constructs the type named by the TypeKey entry of d. The
// coefficients are read from the sub-dictionary named <type>Dict if
// there is one, and from d itself otherwise.
func (r *Registry[T]) Select(d Dictionary) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNoRegistry
	}
	key, err := d.TypeName()
	if err != nil {
		return zero, fmt.Errorf("selection: selecting %s: %w", r.family, err)
	}
	coeffs := d
	if _, ok := d[key+"Dict"]; ok {
		if coeffs, err = d.SubDict(key + "Dict"); err != nil {
			return zero, fmt.Errorf("selection: selecting %s: %w", r.family, err)
		}
	}
	return r.New(key, coeffs)
}

// Describer is implemented by every Registry regardless of its family type.
type Describer interface {
	Family() string
	Keys() []string
	Describe() string
}

// Families keeps track of the registries that have been created so that
// each family creates its registry only once.
type Families struct {
	mu         sync.Mutex
	registries map[string]Describer
}

// Default is the set of families used by the model packages.
var Default = new(Families)

// CreateRegistry creates the registry for a family in fs, registering the
// base type under initialKey. A nil f marks the base type abstract.
// It returns ErrRegistryExists if the family has already been created.
func CreateRegistry[T any](fs *Families, family, initialKey string, f Factory[T]) (*Registry[T], error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.registries == nil {
		fs.registries = make(map[string]Describer)
	}
	if _, ok := fs.registries[family]; ok {
		return nil, fmt.Errorf("%w: %s", ErrRegistryExists, family)
	}
	r := New(family, initialKey, f)
	fs.registries[family] = r
	Log.WithFields(logrus.Fields{
		"family": family,
		"type":   initialKey,
	}).Debug("selection: created registry")
	return r, nil
}

// MustCreateRegistry is like CreateRegistry but panics on error.
// It is intended for initializing package-level registries.
func MustCreateRegistry[T any](fs *Families, family, initialKey string, f Factory[T]) *Registry[T] {
	r, err := CreateRegistry(fs, family, initialKey, f)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the sorted names of the created families.
func (fs *Families) Names() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	o := make([]string, 0, len(fs.registries))
	for k := range fs.registries {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// Lookup returns the registry of the named family.
func (fs *Families) Lookup(family string) (Describer, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	r, ok := fs.registries[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoRegistry, family)
	}
	return r, nil
}
