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
	"reflect"
	"sync/atomic"

	"dirpx.dev/objx"
	"dirpx.dev/objx/apis"
	ulog "dirpx.dev/objx/utils/log"
)

// Destroyer is implemented by objects that release resources when their
// last strong reference is dropped. Destroy runs at most once, on the
// goroutine that performed the final Decrement.
type Destroyer interface {
	Destroy()
}

// Base is the reference-counting core embedded by every object type:
//
//	type Widget struct {
//		object.Base
//		...
//	}
//
// Objects must be created with New; a zero Base is not usable.
type Base struct {
	// weak owns the authoritative strong count.
	weak *WeakRef
	// class answers Cast and TypeID.
	class *Class
	// self is the outer *T that embeds this Base.
	self any
	// dead is set once teardown starts.
	dead atomic.Bool
	// aborted is set when construction failed; Destroy is skipped.
	aborted atomic.Bool
}

// Ensure *Base carries the whole apis.Object method set.
var _ apis.Object = (*Base)(nil)

// base is unexported so only types embedding Base satisfy objectPtr.
func (b *Base) base() *Base { return b }

// Increment adds one strong reference and returns the new count.
func (b *Base) Increment() int64 {
	return b.weak.strong.Add(1)
}

// Decrement drops one strong reference and returns the new count. The
// transition to zero tears the object down before Decrement returns.
func (b *Base) Decrement() int64 {
	n := b.weak.strong.Add(-1)
	switch {
	case n == 0:
		b.teardown()
	case n < 0:
		panic(ErrNegativeCount)
	}
	return n
}

// Count returns the current strong count. It is a diagnostic snapshot.
func (b *Base) Count() int64 {
	return b.weak.strong.Load()
}

// Cast returns the view of the object registered under id, or nil.
// The strong count is not touched. A Base not made by New answers nothing.
func (b *Base) Cast(id apis.ID) any {
	if b.class == nil {
		return nil
	}
	return b.class.table().cast(b.self, id)
}

// Query is Cast plus one strong reference on success. The caller owns
// the returned reference.
func (b *Base) Query(id apis.ID) (any, apis.Status) {
	v := b.Cast(id)
	if v == nil {
		return nil, apis.StatusNoInterface
	}
	b.Increment()
	return v, apis.StatusOK
}

// GetWeakReference returns the object's weak control block with one more
// reference on it. The caller must Release it.
func (b *Base) GetWeakReference() apis.WeakReference {
	return b.weak.Clone()
}

// TypeID returns the ID of the object's concrete type, or apis.Nil for
// a Base not made by New.
func (b *Base) TypeID() apis.ID {
	if b.class == nil {
		return apis.Nil
	}
	return b.class.table().self
}

// teardown ends the object's lifetime. It runs once.
func (b *Base) teardown() {
	if !b.dead.CompareAndSwap(false, true) {
		return
	}
	b.weak.expired.Store(true)
	destroy := !b.aborted.Load()
	if d, ok := b.self.(Destroyer); ok && destroy {
		d.Destroy()
	}
	b.weak.target.Store(nil)
	b.weak.Release()

	if objx.Config().TraceLifecycle {
		ulog.Logger().Debug("objx: object destroyed",
			"type", b.class.typ.String(), "destructor", destroy)
	}
}

// objectPtr constrains New to pointers of types embedding Base.
type objectPtr[T any] interface {
	*T
	apis.Object
	base() *Base
}

// New allocates a T together with its weak control block, then runs init
// on it. The returned handle owns the single initial reference.
//
// If init fails, an empty handle is returned with init's error and the
// object never runs Destroy. Weak references to it report expired from
// then on, even when init kept strong references of its own; those still
// have to be released, and the last release frees the object.
func New[T any, P objectPtr[T]](init func(P) error) (Ref[P], error) {
	p := P(new(T))
	b := p.base()

	w := &WeakRef{}
	w.strong.Store(1)
	w.own.Store(1)
	w.target.Store(b)

	b.weak = w
	b.self = p
	b.class = classOf(reflect.TypeFor[P]())

	if init != nil {
		if err := init(p); err != nil {
			b.aborted.Store(true)
			w.expired.Store(true)
			b.Decrement()
			return Ref[P]{}, err
		}
	}
	return Ref[P]{obj: p, view: p}, nil
}

// MustNew is like New but panics if init fails.
func MustNew[T any, P objectPtr[T]](init func(P) error) Ref[P] {
	r, err := New[T, P](init)
	if err != nil {
		panic(err)
	}
	return r
}
