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

import "reflect"

// Registry binds types to explicit IDs. It is written during process
// start-up and then sealed; lookups are lock-free.
type Registry interface {
	// Register binds the nearest named type of t to id.
	// Re-registering the same (type, id) pair is a no-op.
	Register(t reflect.Type, id ID) error
	// RegisterGeneric binds the base ID of a generic type, named by its
	// canonical name without type arguments ("dirpx.dev/objx/box.Box").
	RegisterGeneric(name string, id ID) error
	// Lookup returns the ID registered for t, if any.
	Lookup(t reflect.Type) (id ID, ok bool)
	// LookupName returns the ID registered under a canonical type name,
	// covering both Register and RegisterGeneric entries.
	LookupName(name string) (id ID, ok bool)
	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Seal rejects every later registration.
	Seal()
	// Sealed reports whether Seal was called.
	Sealed() bool
}

// Entry is a single binding in a Registry snapshot.
type Entry struct {
	// Type is the registered type. It is nil for generic base entries.
	Type reflect.Type
	// Name is the canonical type name.
	Name string
	// ID is the bound identifier.
	ID ID
	// Generic marks a generic base entry.
	Generic bool
}
