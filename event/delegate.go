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

package event

import (
	"reflect"
	"sync/atomic"

	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/object"
)

// Delegate is one subscriber of a Trigger. The zero Delegate is dead.
//
// Two delegates are Equal when they call the same code on the same
// target. Function identity is the code pointer, so closures created by
// the same function literal are equal whatever they capture.
type Delegate[A any] struct {
	// call returns false when its target is gone.
	call func(A) bool
	// code is the entry point of the user function.
	code uintptr
	// target is the bound receiver, or the weak control block for BindWeak.
	target any
	// weak is set for BindWeak delegates and owned by the delegate.
	weak *lease
}

// lease is the weak handle a BindWeak delegate owns. Copies of the
// delegate share it, so it is released at most once.
type lease struct {
	ref  apis.WeakReference
	done atomic.Bool
}

// Func makes a delegate for a plain function.
func Func[A any](fn func(A)) Delegate[A] {
	if fn == nil {
		return Delegate[A]{}
	}
	return Delegate[A]{
		call: func(a A) bool { fn(a); return true },
		code: codeOf(fn),
	}
}

// Bind makes a delegate that calls fn with target.
func Bind[T comparable, A any](target T, fn func(T, A)) Delegate[A] {
	if fn == nil {
		return Delegate[A]{}
	}
	return Delegate[A]{
		call:   func(a A) bool { fn(target, a); return true },
		code:   codeOf(fn),
		target: target,
	}
}

// BindWeak makes a delegate that resolves w for each call and is dead
// once w's object has expired. The delegate takes ownership of w: the
// Trigger releases it when the entry is removed, and Unsubscribe releases
// it when the delegate is passed in to find an entry.
func BindWeak[T, A any](w object.Weak[T], fn func(T, A)) Delegate[A] {
	ref := w.Reference()
	if fn == nil || ref == nil {
		return Delegate[A]{}
	}
	return Delegate[A]{
		call: func(a A) bool {
			r, ok := w.Resolve()
			if !ok {
				return false
			}
			defer r.Release()
			fn(r.Get(), a)
			return true
		},
		code:   codeOf(fn),
		target: ref,
		weak:   &lease{ref: ref},
	}
}

// Equal reports whether d and o call the same code on the same target.
func (d Delegate[A]) Equal(o Delegate[A]) bool {
	return d.code == o.code && d.target == o.target
}

// Dead reports whether the delegate can no longer be called.
func (d Delegate[A]) Dead() bool {
	return d.call == nil || (d.weak != nil && d.weak.ref.Expired())
}

// Invoke calls the delegate and reports whether it ran.
func (d Delegate[A]) Invoke(a A) bool {
	if d.call == nil {
		return false
	}
	return d.call(a)
}

// release drops the weak handle owned by a BindWeak delegate. Later
// calls on the delegate or its copies do nothing.
func (d Delegate[A]) release() {
	if d.weak != nil && d.weak.done.CompareAndSwap(false, true) {
		d.weak.ref.Release()
	}
}

// codeOf returns the entry point of fn.
func codeOf(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}
