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

import (
	"reflect"
)

// Strategy is a pluggable resolution step. A Resolver chains strategies in
// order (e.g., Object -> Registry -> Name).
type Strategy interface {
	// TryResolve attempts to resolve an ID for value v according to cfg.
	// It returns (id, true) if handled; otherwise (Nil, false) to fall through.
	TryResolve(v any, cfg Config) (id ID, handled bool)

	// TryResolveType attempts to resolve an ID for the reflect.Type t.
	TryResolveType(t reflect.Type, cfg Config) (id ID, handled bool)
}

// NameStrategy is implemented by strategies that can also resolve a
// canonical type name ("dirpx.dev/objx/box.Box[int]") without a
// reflect.Type at hand.
type NameStrategy interface {
	// TryResolveName attempts to resolve an ID for a canonical type name.
	TryResolveName(name string, cfg Config) (id ID, handled bool)
}
