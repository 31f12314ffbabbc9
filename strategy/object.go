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

package strategy

import (
	"reflect"

	"dirpx.dev/objx/apis"
)

// NewObjectStrategy creates an apis.Strategy that asks live objects for
// their concrete type ID.
func NewObjectStrategy() apis.Strategy {
	return &objectStrategy{}
}

// objectStrategy is a zero-cost fast path: if v implements apis.Object,
// return its TypeID() and stop the chain. This recovers the concrete type
// of an object held through one of its interface views.
type objectStrategy struct{}

// Ensure objectStrategy implements apis.Strategy.
var _ apis.Strategy = (*objectStrategy)(nil)

// TryResolve checks if v implements apis.Object and returns its TypeID().
func (*objectStrategy) TryResolve(v any, _ apis.Config) (apis.ID, bool) {
	o, ok := v.(apis.Object)
	if !ok {
		return apis.Nil, false
	}
	// A typed nil pointer has no class to ask.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return apis.Nil, false
	}
	id := o.TypeID()
	return id, !id.IsNil()
}

// TryResolveType always returns false: TypeID requires an instance.
func (*objectStrategy) TryResolveType(_ reflect.Type, _ apis.Config) (apis.ID, bool) {
	// No instance -> cannot ask the object.
	return apis.Nil, false
}
