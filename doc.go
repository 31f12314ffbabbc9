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

// Package objx provides process-wide type identity for the object runtime.
//
// Every Go type has one apis.ID, a 16-byte value in UUID layout. IDs key
// the interface tables that object.Cast and object.Query consult, so they
// must be stable across builds: they depend on canonical type names and
// registered constants only, never on addresses.
//
// # Resolution
//
// The resolver tries, in order:
//
//  1. If the value implements apis.Object, its TypeID(). This recovers the
//     concrete type of an object held through any interface view.
//  2. An explicit binding in the Registry.
//  3. A name-derived ID. Pointers are stripped, so *T and T share an ID.
//     A name bound in Config.Overrides wins. A generic instantiation
//     p.G[A,B] gets Generic(id(p.G), id(A), id(B)), recursively. Anything
//     else gets a SHA-1 UUID of its canonical name under Config.Namespace.
//
// # Design
//
// The package holds a read-mostly global snapshot of four parts:
//
//   - Config: namespace, pointer unwrap depth, name overrides and
//     lifecycle tracing.
//
//   - Registry: explicit type -> ID bindings and generic base bindings.
//     Register during init, then Seal.
//
//   - Resolver: the strategy chain above.
//
//   - Builder: constructs Registry and Resolver for a Config and migrates
//     entries from the previous Registry.
//
// Readers load the snapshot atomically and never lock:
//
//	func init() {
//		objx.MustRegister(reflect.TypeFor[Vector3](), vector3ID)
//	}
//
//	id := objx.Of[Vector3]()
//	id = objx.ID(v)
//
// Writers (SetConfig, SetBuilder, SetRegistry, SetResolver, SetAll) take a
// short build mutex, assemble a new snapshot and publish it. Epoch changes
// with every publish and every registration, so derived tables know when
// to rebuild.
//
// # Pinning
//
// SetRegistry and SetResolver install a layer and pin it: SetConfig and
// SetBuilder stop rebuilding that layer until UnpinRegistry or
// UnpinResolver. SetAll is the hard reset, mainly for tests.
package objx
