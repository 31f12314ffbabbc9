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
	"sync/atomic"

	"dirpx.dev/objx"
	"dirpx.dev/objx/apis"
)

// WeakRef is an object's weak control block. It outlives the object and
// holds the authoritative strong count, so a resolver can tell a live
// object from one being torn down without touching the object itself.
type WeakRef struct {
	// strong is the object's strong count.
	strong atomic.Int64
	// own counts holders of this block: the object plus each weak handle.
	own atomic.Int64
	// target points back at the object until teardown clears it.
	target atomic.Pointer[Base]
	// expired is set at teardown, or when New's init failed.
	expired atomic.Bool
}

// Ensure *WeakRef implements apis.WeakReference.
var _ apis.WeakReference = (*WeakRef)(nil)

// Resolve returns the view registered under id with one strong reference,
// or StatusExpired once the object's strong count has reached zero.
//
// The strong count is raised with compare-and-swap from a non-zero value
// only, so Resolve never revives an object whose final Decrement already
// happened. The speculative reference is dropped after the Query.
func (w *WeakRef) Resolve(id apis.ID) (any, apis.Status) {
	for {
		n := w.strong.Load()
		if n <= 0 || w.expired.Load() {
			return nil, apis.StatusExpired
		}
		if w.strong.CompareAndSwap(n, n+1) {
			break
		}
	}

	// A non-zero count keeps the back-pointer set.
	b := w.target.Load()
	if w.expired.Load() {
		b.Decrement()
		return nil, apis.StatusExpired
	}
	v, st := b.Query(id)
	b.Decrement()
	return v, st
}

// Expired reports whether the object is gone. A false result may be
// stale by the time it is read; use Resolve to get a usable reference.
func (w *WeakRef) Expired() bool {
	return w.expired.Load() || w.strong.Load() <= 0
}

// Clone adds a holder to the block.
func (w *WeakRef) Clone() apis.WeakReference {
	w.own.Add(1)
	return w
}

// Release drops a holder. The block is retired when the object and every
// weak handle have released it.
func (w *WeakRef) Release() {
	if w.own.Add(-1) < 0 {
		panic(ErrNegativeCount)
	}
}

// Holders returns the number of holders of the block. It is a diagnostic snapshot.
func (w *WeakRef) Holders() int64 {
	return w.own.Load()
}

// Weak is a typed weak handle. The zero value is an empty handle whose
// Resolve always fails.
type Weak[T any] struct {
	ref apis.WeakReference
}

// MakeWeak takes a weak handle on r's object. r keeps its strong reference.
func MakeWeak[T any](r Ref[T]) Weak[T] {
	if r.IsNil() {
		return Weak[T]{}
	}
	return Weak[T]{ref: r.obj.GetWeakReference()}
}

// Resolve returns a strong handle viewing the object as T, or false if
// the object has expired or no longer answers T.
func (w Weak[T]) Resolve() (Ref[T], bool) {
	if w.ref == nil {
		return Ref[T]{}, false
	}
	v, st := w.ref.Resolve(objx.ObjectID)
	if st != apis.StatusOK {
		return Ref[T]{}, false
	}
	o := v.(apis.Object)
	view, ok := Cast[T](o)
	if !ok {
		o.Decrement()
		return Ref[T]{}, false
	}
	return Ref[T]{obj: o, view: view}, true
}

// Expired reports whether the handle is empty or its object is gone.
func (w Weak[T]) Expired() bool {
	return w.ref == nil || w.ref.Expired()
}

// Clone returns another weak handle on the same object.
func (w Weak[T]) Clone() Weak[T] {
	if w.ref == nil {
		return Weak[T]{}
	}
	return Weak[T]{ref: w.ref.Clone()}
}

// Release drops the handle and empties it. Releasing an empty handle is a no-op.
func (w *Weak[T]) Release() {
	if w.ref == nil {
		return
	}
	w.ref.Release()
	w.ref = nil
}

// Reference returns the untyped control block, or nil for an empty handle.
func (w Weak[T]) Reference() apis.WeakReference {
	return w.ref
}
