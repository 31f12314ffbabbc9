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

// Package box wraps plain values in reference-counted objects so they can
// travel wherever an apis.Object is expected, and unwraps them again.
package box

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/objx"
	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/object"
	"dirpx.dev/objx/utils/typeid"
)

// ID is the base ID of the generic Box type. The ID of Box[T] is
// objx.Generic(ID, objx.Of[T]()).
var ID = typeid.MustParse("9AE6A991-912C-4B95-9D8E-5ECE8997D8D8")

func init() {
	name := objx.GenericName(reflect.TypeFor[Box[struct{}]]())
	if err := objx.RegisterGeneric(name, ID); err != nil {
		panic(err)
	}
}

// ErrInvalidUnboxing is matched by every *UnboxError.
var ErrInvalidUnboxing = errors.New("objx(box): invalid unboxing")

// UnboxError reports an object that does not hold the requested type.
type UnboxError struct {
	// Want is the requested type.
	Want reflect.Type
	// Got is the dynamic type of the object, or nil for a nil object.
	Got reflect.Type
}

func (e *UnboxError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.String()
	}
	return fmt.Sprintf("%v: want %v, got %s", ErrInvalidUnboxing, e.Want, got)
}

// Unwrap returns ErrInvalidUnboxing.
func (e *UnboxError) Unwrap() error { return ErrInvalidUnboxing }

// Box is an object holding one immutable value.
type Box[T any] struct {
	object.Base
	value T
}

// Value returns the boxed value.
func (b *Box[T]) Value() T { return b.value }

// String formats the boxed value.
func (b *Box[T]) String() string { return fmt.Sprint(b.value) }

// New boxes v.
func New[T any](v T) object.Ref[*Box[T]] {
	return object.MustNew[Box[T]](func(b *Box[T]) error {
		b.value = v
		return nil
	})
}

// Value returns v as an object. An object is returned as itself with one
// more reference; anything else is boxed.
func Value[T any](v T) object.Ref[apis.Object] {
	if o, ok := any(v).(apis.Object); ok && !isNil(o) {
		return object.MustQuery[apis.Object](o)
	}
	r := New(v)
	return object.Attach[apis.Object](r.Detach())
}

// Unbox returns the T held by o: o itself if it answers T, or the value
// of a Box[T]. A nil o unboxes to the zero T when T is an interface or
// pointer type.
func Unbox[T any](o apis.Object) (T, error) {
	var zero T
	want := reflect.TypeFor[T]()
	if o == nil || isNil(o) {
		if k := want.Kind(); k == reflect.Interface || k == reflect.Ptr {
			return zero, nil
		}
		return zero, &UnboxError{Want: want}
	}
	if v, ok := object.Cast[T](o); ok {
		return v, nil
	}
	if b, ok := object.Cast[*Box[T]](o); ok {
		return b.value, nil
	}
	return zero, &UnboxError{Want: want, Got: reflect.TypeOf(o)}
}

// MustUnbox is like Unbox but panics with the *UnboxError.
func MustUnbox[T any](o apis.Object) T {
	v, err := Unbox[T](o)
	if err != nil {
		panic(err)
	}
	return v
}

// UnboxWeak returns a weak handle viewing o as T.
func UnboxWeak[T any](o apis.Object) (object.Weak[T], error) {
	r, st := object.Query[T](o)
	if st != apis.StatusOK {
		var got reflect.Type
		if o != nil {
			got = reflect.TypeOf(o)
		}
		return object.Weak[T]{}, &UnboxError{Want: reflect.TypeFor[T](), Got: got}
	}
	defer r.Release()
	return object.MakeWeak(r), nil
}

// isNil reports whether o holds a nil pointer.
func isNil(o apis.Object) bool {
	rv := reflect.ValueOf(o)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
