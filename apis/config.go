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

// Config carries read-only knobs that influence identifier resolution and
// object lifecycle tracing. It is passed by value and should be treated as
// immutable by implementations.
type Config struct {
	// Namespace is the UUID namespace used to derive IDs from type names
	// when no explicit ID is registered.
	Namespace ID

	// MaxUnwrap limits pointer unwrapping (**T -> *T -> T) when looking for
	// the named type that carries the ID. *T and T share one ID.
	MaxUnwrap int

	// Overrides pins the ID of a type by its canonical name
	// ("dirpx.dev/objx/box.Box", "int"). It is consulted after the registry
	// and before name derivation.
	Overrides map[string]ID

	// TraceLifecycle enables debug logging of object teardown.
	TraceLifecycle bool
}
