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

package box_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"dirpx.dev/objx"
	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/box"
	"dirpx.dev/objx/object"
)

type Greeter interface{ Greet() string }

type person struct {
	object.Base
	name string
}

func (p *person) Greet() string { return "hi " + p.name }

var _ = object.MustDeclare[*person](object.Implements[Greeter]())

func TestBoxID_DerivedFromBase(t *testing.T) {
	want := objx.Generic(box.ID, objx.Of[int]())
	if got := objx.Of[*box.Box[int]](); got != want {
		t.Fatalf("Of[*Box[int]] = %v, want %v", got, want)
	}
	if objx.Of[box.Box[int]]() == objx.Of[box.Box[string]]() {
		t.Fatal("instantiations must differ")
	}

	b := box.New(7)
	defer b.Release()
	if b.Get().TypeID() != want {
		t.Fatal("boxed object must report the instantiation ID")
	}
}

func TestNewAndUnbox(t *testing.T) {
	b := box.New("hello")
	defer b.Release()

	if b.Get().Value() != "hello" || b.Get().String() != "hello" {
		t.Fatalf("Value = %q", b.Get().Value())
	}
	got, err := box.Unbox[string](b.Object())
	if err != nil || got != "hello" {
		t.Fatalf("Unbox = (%q,%v)", got, err)
	}
	if b.Get().Count() != 1 {
		t.Fatal("Unbox must not touch the strong count")
	}
}

func TestUnbox_WrongType(t *testing.T) {
	b := box.New(42)
	defer b.Release()

	_, err := box.Unbox[string](b.Object())
	if !errors.Is(err, box.ErrInvalidUnboxing) {
		t.Fatalf("err = %v, want ErrInvalidUnboxing", err)
	}
	var ue *box.UnboxError
	if !errors.As(err, &ue) {
		t.Fatalf("err is %T, want *UnboxError", err)
	}
	if ue.Want != reflect.TypeFor[string]() || ue.Got != reflect.TypeFor[*box.Box[int]]() {
		t.Fatalf("UnboxError = %+v", ue)
	}

	// No implicit conversions.
	if _, err := box.Unbox[int64](b.Object()); !errors.Is(err, box.ErrInvalidUnboxing) {
		t.Fatalf("int64 from int: %v", err)
	}

	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, box.ErrInvalidUnboxing) {
			t.Fatalf("MustUnbox recover = %v", r)
		}
	}()
	box.MustUnbox[string](b.Object())
}

func TestUnbox_Nil(t *testing.T) {
	if v, err := box.Unbox[Greeter](nil); err != nil || v != nil {
		t.Fatalf("interface from nil = (%v,%v)", v, err)
	}
	if _, err := box.Unbox[int](nil); !errors.Is(err, box.ErrInvalidUnboxing) {
		t.Fatalf("value from nil: %v", err)
	}
}

func TestValue_ObjectsPassThrough(t *testing.T) {
	p := object.MustNew[person](func(p *person) error { p.name = "ada"; return nil })
	defer p.Release()

	v := box.Value(p.Get())
	if v.Object() != p.Object() {
		t.Fatal("boxing an object must return the same object")
	}
	if p.Get().Count() != 2 {
		t.Fatalf("count = %d, want 2", p.Get().Count())
	}
	g, err := box.Unbox[Greeter](v.Get())
	if err != nil || g.Greet() != "hi ada" {
		t.Fatalf("Unbox[Greeter] = (%v,%v)", g, err)
	}
	v.Release()
	if p.Get().Count() != 1 {
		t.Fatal("Release must drop the pass-through reference")
	}
}

func TestValue_BoxesPlainValues(t *testing.T) {
	v := box.Value(3.5)
	defer v.Release()

	if got := box.MustUnbox[float64](v.Get()); got != 3.5 {
		t.Fatalf("MustUnbox = %v", got)
	}
	if objx.ID(v.Get()) != objx.Of[box.Box[float64]]() {
		t.Fatal("boxed value must report Box[float64]")
	}
}

func TestUnboxWeak(t *testing.T) {
	p := object.MustNew[person](nil)
	w, err := box.UnboxWeak[Greeter](p.Object())
	if err != nil {
		t.Fatalf("UnboxWeak: %v", err)
	}
	defer w.Release()

	if r, ok := w.Resolve(); !ok {
		t.Fatal("Resolve of a live object failed")
	} else {
		r.Release()
	}
	p.Release()
	if _, ok := w.Resolve(); ok {
		t.Fatal("Resolve after destruction must fail")
	}

	if _, err := box.UnboxWeak[fmt.Stringer](nil); !errors.Is(err, box.ErrInvalidUnboxing) {
		t.Fatalf("nil object: %v", err)
	}
}

// Compile-time check: boxes are objects.
var _ apis.Object = (*box.Box[int])(nil)
