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

// Resolver coordinates strategies to resolve IDs for values and types.
// Typical chain: ObjectStrategy -> RegistryStrategy -> NameStrategy.
type Resolver interface {
	// Resolve returns the ID of v's type, or Nil if none can be determined.
	Resolve(v any, cfg Config) ID

	// ResolveType returns the ID of t, or Nil if none can be determined.
	ResolveType(t reflect.Type, cfg Config) ID

	// ResolveName returns the ID of the type with the given canonical name,
	// or Nil if none can be determined.
	ResolveName(name string, cfg Config) ID
}
