/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package object

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/objx"
	"dirpx.dev/objx/apis"
)

var (
	// classes maps a declared object pointer type to its *Class.
	classes sync.Map // map[reflect.Type]*Class
	// bases maps an interface type to the interfaces it embeds, as declared
	// with DeclareInterface.
	bases sync.Map // map[reflect.Type][]reflect.Type
	// declMu serializes declarations.
	declMu sync.Mutex
)

// accessor returns the view of self that serves one interface.
type accessor func(self any) any

// identity serves interfaces the object implements itself.
func identity(self any) any { return self }

// Class is the interface discovery table of one object type. It is built
// once at declaration; the ID-keyed lookup table is derived from it and
// rebuilt when the identity state changes.
type Class struct {
	// typ is the object pointer type.
	typ reflect.Type
	// views maps every reachable interface type to its accessor.
	views map[reflect.Type]accessor

	mu  sync.Mutex
	tbl atomic.Pointer[table]
}

// table is the ID-keyed form of a Class for one identity epoch.
type table struct {
	epoch uint64
	self  apis.ID
	byID  map[apis.ID]accessor
}

// cast returns the view of self registered under id, or nil.
func (t *table) cast(self any, id apis.ID) any {
	if get, ok := t.byID[id]; ok {
		return get(self)
	}
	return nil
}

// Type returns the object pointer type the class describes.
func (c *Class) Type() reflect.Type { return c.typ }

// ID returns the ID of the class's concrete type.
func (c *Class) ID() apis.ID { return c.table().self }

// Interfaces returns the interface types the class answers besides
// apis.Object and its own type, in no particular order.
func (c *Class) Interfaces() []reflect.Type {
	out := make([]reflect.Type, 0, len(c.views))
	for t := range c.views {
		out = append(out, t)
	}
	return out
}

// table returns the lookup table for the current epoch.
func (c *Class) table() *table {
	epoch := objx.Epoch()
	if t := c.tbl.Load(); t != nil && t.epoch == epoch {
		return t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.tbl.Load(); t != nil && t.epoch == epoch {
		return t
	}

	t := &table{
		epoch: epoch,
		self:  objx.TypeID(c.typ),
		byID:  make(map[apis.ID]accessor, len(c.views)+2),
	}
	for it, get := range c.views {
		t.byID[objx.TypeID(it)] = get
	}
	// The object itself always answers both, whatever else was declared.
	t.byID[objx.ObjectID] = identity
	t.byID[t.self] = identity

	c.tbl.Store(t)
	return t
}

// classOf returns the class declared for t, or a default class that
// answers only apis.Object and t itself.
func classOf(t reflect.Type) *Class {
	if c, ok := classes.Load(t); ok {
		return c.(*Class)
	}
	c, _ := classes.LoadOrStore(t, &Class{typ: t})
	return c.(*Class)
}

// Option describes one entry of a class declaration.
type Option func(*declaration)

// declaration collects options before the class is built.
type declaration struct {
	typ     reflect.Type
	direct  []direct
	through map[reflect.Type]reflect.Type
	errs    []error
}

// direct is one declared interface and the accessor serving it.
type direct struct {
	iface reflect.Type
	get   accessor
}

// Implements declares that the object pointer type satisfies I itself.
func Implements[I any]() Option {
	it := reflect.TypeFor[I]()
	return func(d *declaration) {
		if it.Kind() != reflect.Interface {
			d.errs = append(d.errs, fmt.Errorf("%w: %s", ErrNotInterface, it))
			return
		}
		if !d.typ.Implements(it) {
			d.errs = append(d.errs, fmt.Errorf("%w: %s by %s", ErrNotImplemented, it, d.typ))
			return
		}
		d.direct = append(d.direct, direct{iface: it, get: identity})
	}
}

// Via declares that I is served by a component of the object returned by
// get. P must be the declared object pointer type.
func Via[I any, P any](get func(P) I) Option {
	it := reflect.TypeFor[I]()
	pt := reflect.TypeFor[P]()
	return func(d *declaration) {
		if it.Kind() != reflect.Interface {
			d.errs = append(d.errs, fmt.Errorf("%w: %s", ErrNotInterface, it))
			return
		}
		if pt != d.typ {
			d.errs = append(d.errs, fmt.Errorf("%w: %s for %s", ErrAccessorMismatch, pt, d.typ))
			return
		}
		if get == nil {
			d.errs = append(d.errs, fmt.Errorf("%w: nil accessor for %s", ErrNotImplemented, it))
			return
		}
		d.direct = append(d.direct, direct{iface: it, get: func(self any) any {
			v := any(get(self.(P)))
			if isNilView(v) {
				return nil
			}
			return v
		}})
	}
}

// Disambiguate picks the declared entry Through as the one that serves B
// when several entries reach B.
func Disambiguate[B any, Through any]() Option {
	bt := reflect.TypeFor[B]()
	tt := reflect.TypeFor[Through]()
	return func(d *declaration) {
		if d.through == nil {
			d.through = make(map[reflect.Type]reflect.Type)
		}
		d.through[bt] = tt
	}
}

// Declare builds and records the class of the object pointer type P.
// Objects created by New before Declare keep the default class.
func Declare[P apis.Object](opts ...Option) (*Class, error) {
	declMu.Lock()
	defer declMu.Unlock()

	pt := reflect.TypeFor[P]()
	d := &declaration{typ: pt}
	for _, o := range opts {
		o(d)
	}
	if len(d.errs) > 0 {
		return nil, errors.Join(d.errs...)
	}

	views, err := d.resolve()
	if err != nil {
		return nil, err
	}

	c := &Class{typ: pt, views: views}
	if prev, loaded := classes.LoadOrStore(pt, c); loaded {
		// Declared before, or a default class was created by New first.
		return prev.(*Class), fmt.Errorf("%w: class %s", ErrAlreadyDeclared, pt)
	}
	return c, nil
}

// MustDeclare is like Declare but panics on error. Use it for
// package-level class variables.
func MustDeclare[P apis.Object](opts ...Option) *Class {
	c, err := Declare[P](opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// resolve expands each direct entry with its transitive bases and picks
// exactly one accessor per reachable interface.
func (d *declaration) resolve() (map[reflect.Type]accessor, error) {
	reach := make(map[reflect.Type][]int)
	for i, e := range d.direct {
		for _, t := range closure(e.iface) {
			reach[t] = append(reach[t], i)
		}
	}

	objectType := reflect.TypeFor[apis.Object]()
	views := make(map[reflect.Type]accessor, len(reach))
	var errs []error
	for t, from := range reach {
		if t == objectType {
			continue
		}
		if len(from) == 1 {
			views[t] = d.direct[from[0]].get
			continue
		}
		pick := -1
		if through, ok := d.through[t]; ok {
			for _, i := range from {
				if d.direct[i].iface == through {
					pick = i
					break
				}
			}
		}
		if pick < 0 {
			errs = append(errs, fmt.Errorf("%w: %s reached %d ways in %s", ErrAmbiguousInterface, t, len(from), d.typ))
			continue
		}
		views[t] = d.direct[pick].get
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return views, nil
}

// closure returns it and every interface it transitively extends.
func closure(it reflect.Type) []reflect.Type {
	seen := map[reflect.Type]bool{it: true}
	out := []reflect.Type{it}
	for i := 0; i < len(out); i++ {
		v, ok := bases.Load(out[i])
		if !ok {
			continue
		}
		for _, b := range v.([]reflect.Type) {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// Extension names an interface embedded by a declared interface.
type Extension struct {
	t reflect.Type
}

// Extends names B as a base of the interface passed to DeclareInterface.
func Extends[B any]() Extension {
	return Extension{t: reflect.TypeFor[B]()}
}

// DeclareInterface records that interface I embeds each base, so classes
// declaring I also answer the bases through I's accessor. Interfaces must
// be declared before the classes that rely on their bases.
func DeclareInterface[I any](exts ...Extension) error {
	declMu.Lock()
	defer declMu.Unlock()

	it := reflect.TypeFor[I]()
	if it.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, it)
	}
	if _, ok := bases.Load(it); ok {
		return fmt.Errorf("%w: interface %s", ErrAlreadyDeclared, it)
	}

	list := make([]reflect.Type, 0, len(exts))
	for _, e := range exts {
		if e.t == nil || e.t.Kind() != reflect.Interface {
			return fmt.Errorf("%w: base %v of %s", ErrNotInterface, e.t, it)
		}
		if !it.Implements(e.t) {
			return fmt.Errorf("%w: %s does not embed %s", ErrNotImplemented, it, e.t)
		}
		list = append(list, e.t)
	}
	bases.Store(it, list)
	return nil
}

// MustDeclareInterface is like DeclareInterface but panics on error.
func MustDeclareInterface[I any](exts ...Extension) {
	if err := DeclareInterface[I](exts...); err != nil {
		panic(err)
	}
}

// isNilView reports whether v is nil or a typed nil pointer.
func isNilView(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
