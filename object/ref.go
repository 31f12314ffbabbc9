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
	"dirpx.dev/objx"
	"dirpx.dev/objx/apis"
)

// Ref is a strong handle: a non-empty Ref owns one strong reference on
// its object and exposes the object through the view T.
//
// Ref is a value. Copying it with = does not add a reference; use Clone
// for a second owner and Release exactly once per owner.
type Ref[T any] struct {
	obj  apis.Object
	view T
}

// Attach adopts one strong reference the caller already holds on o,
// viewing o as T. If o does not answer T the reference is dropped and an
// empty handle is returned.
func Attach[T any](o apis.Object) Ref[T] {
	if o == nil {
		return Ref[T]{}
	}
	view, ok := Cast[T](o)
	if !ok {
		o.Decrement()
		return Ref[T]{}
	}
	return Ref[T]{obj: o, view: view}
}

// Get returns the view. It is the zero T for an empty handle.
func (r Ref[T]) Get() T { return r.view }

// Object returns the owning object, or nil for an empty handle.
func (r Ref[T]) Object() apis.Object { return r.obj }

// IsNil reports whether the handle is empty.
func (r Ref[T]) IsNil() bool { return r.obj == nil }

// Clone returns a second handle with its own strong reference.
func (r Ref[T]) Clone() Ref[T] {
	if r.obj == nil {
		return Ref[T]{}
	}
	r.obj.Increment()
	return r
}

// Release drops the handle's reference and empties it. Releasing an empty
// handle is a no-op.
func (r *Ref[T]) Release() {
	obj := r.obj
	*r = Ref[T]{}
	if obj != nil {
		obj.Decrement()
	}
}

// Assign makes r a second owner of src's object. The new reference is
// taken before the old one is dropped, so assigning a handle to itself is
// safe.
func (r *Ref[T]) Assign(src Ref[T]) {
	next := src.Clone()
	old := *r
	*r = next
	old.Release()
}

// Move transfers r's reference to the returned handle and empties r.
func (r *Ref[T]) Move() Ref[T] {
	out := *r
	*r = Ref[T]{}
	return out
}

// Detach empties r without dropping its reference and returns the object.
// The caller becomes responsible for one Decrement.
func (r *Ref[T]) Detach() apis.Object {
	obj := r.obj
	*r = Ref[T]{}
	return obj
}

// As queries r's object for U and returns a new owning handle.
func As[U, T any](r Ref[T]) (Ref[U], apis.Status) {
	return Query[U](r.obj)
}

// Cast views o as I without touching its strong count.
func Cast[I any](o apis.Object) (I, bool) {
	var zero I
	if o == nil {
		return zero, false
	}
	v, ok := o.Cast(objx.Of[I]()).(I)
	return v, ok
}

// Query views o as I and returns an owning handle on success.
func Query[I any](o apis.Object) (Ref[I], apis.Status) {
	if o == nil {
		return Ref[I]{}, apis.StatusNoInterface
	}
	v, st := o.Query(objx.Of[I]())
	if st != apis.StatusOK {
		return Ref[I]{}, st
	}
	view, ok := v.(I)
	if !ok {
		// The ID is bound to a different type; give the reference back.
		o.Decrement()
		return Ref[I]{}, apis.StatusNoInterface
	}
	return Ref[I]{obj: o, view: view}, apis.StatusOK
}

// MustQuery is like Query but panics with ErrNoInterface on a miss.
func MustQuery[I any](o apis.Object) Ref[I] {
	r, st := Query[I](o)
	if st != apis.StatusOK {
		panic(ErrNoInterface)
	}
	return r
}
