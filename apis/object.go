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

package apis

// Status is the outcome of an owning interface lookup (Query, Resolve).
// It is a value, not an error: a missing interface is a routine result.
type Status int

const (
	// StatusOK means the lookup succeeded and the caller owns one strong reference.
	StatusOK Status = iota
	// StatusNoInterface means the object does not implement the requested ID.
	StatusNoInterface
	// StatusExpired means a weak reference no longer has a live object.
	StatusExpired
)

// String returns a short lowercase name for s.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoInterface:
		return "no-interface"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Object is the lifecycle and discovery contract shared by every
// reference-counted object.
//
// All interface views of one object share a single strong count, so Cast
// never touches it. Query and Increment add one unit, Decrement removes
// one. The Decrement that brings the count to zero tears the object down
// on the calling goroutine.
type Object interface {
	// Increment adds a strong reference and returns the new count.
	Increment() int64
	// Decrement drops a strong reference and returns the new count.
	// Zero means the caller just destroyed the object.
	Decrement() int64
	// Cast returns the view of the object registered for id, or nil.
	// The strong count is not changed.
	Cast(id ID) any
	// Query is Cast plus one strong reference on success.
	Query(id ID) (any, Status)
	// GetWeakReference returns a new weak reference to the object.
	// The caller owns it and must Release it.
	GetWeakReference() WeakReference
	// TypeID returns the ID of the object's concrete type.
	TypeID() ID
}

// WeakReference observes an Object without keeping it alive.
type WeakReference interface {
	// Resolve returns an owning view for id, or StatusExpired once the
	// object has been destroyed.
	Resolve(id ID) (any, Status)
	// Expired reports whether the object has been destroyed.
	Expired() bool
	// Clone returns another owned handle to the same weak reference.
	Clone() WeakReference
	// Release drops the caller's ownership of the weak reference.
	Release()
}
