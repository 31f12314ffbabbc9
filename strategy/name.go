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
	"sync"

	"dirpx.dev/objx/apis"
	uref "dirpx.dev/objx/utils/reflect"
	"dirpx.dev/objx/utils/typeid"
)

// maxGenericDepth bounds recursion into nested type arguments.
const maxGenericDepth = 32

// NewNameStrategy creates an apis.Strategy that derives IDs from canonical
// type names. reg may be nil; when set, it supplies explicit IDs for type
// arguments and generic bases.
func NewNameStrategy(reg apis.Registry) apis.Strategy {
	return &nameStrategy{reg: reg}
}

// nameStrategy is the universal fallback. It always handles a non-nil type:
//
//   - pointers are stripped (*T and T share an ID);
//   - a name bound in the registry or in cfg.Overrides wins;
//   - a generic instantiation "p.G[A,B]" gets Derive(id(p.G), id(A), id(B)),
//     recursively, so the same instantiation yields the same ID no matter
//     which build computes it;
//   - anything else gets a SHA-1 name-derived ID under cfg.Namespace.
type nameStrategy struct {
	reg apis.Registry
	// cache memoizes type -> ID per config knobs and registry size.
	cache sync.Map // key: cacheKey, val: apis.ID
}

// Ensure nameStrategy implements apis.Strategy and apis.NameStrategy.
var (
	_ apis.Strategy     = (*nameStrategy)(nil)
	_ apis.NameStrategy = (*nameStrategy)(nil)
)

// cacheKey ensures memoization respects all inputs that affect resolution.
// Registry entries only grow, so the entry count identifies its state.
type cacheKey struct {
	t         reflect.Type
	namespace apis.ID
	maxUnwrap int16
	overrides uintptr
	entries   int
}

// TryResolve computes the ID for v's type.
func (s *nameStrategy) TryResolve(v any, cfg apis.Config) (apis.ID, bool) {
	if v == nil {
		return apis.Nil, false
	}
	return s.byType(reflect.TypeOf(v), cfg), true
}

// TryResolveType computes the ID for t.
func (s *nameStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (apis.ID, bool) {
	if t == nil {
		return apis.Nil, false
	}
	return s.byType(t, cfg), true
}

// TryResolveName computes the ID for a canonical type name.
func (s *nameStrategy) TryResolveName(name string, cfg apis.Config) (apis.ID, bool) {
	if name == "" {
		return apis.Nil, false
	}
	return s.byName(name, cfg, 0), true
}

// byType resolves the ID for t with memoization.
func (s *nameStrategy) byType(t reflect.Type, cfg apis.Config) apis.ID {
	key := cacheKey{
		t:         t,
		namespace: cfg.Namespace,
		maxUnwrap: int16(cfg.MaxUnwrap),
		overrides: reflect.ValueOf(cfg.Overrides).Pointer(),
	}
	if s.reg != nil {
		key.entries = s.reg.Count()
	}
	if v, ok := s.cache.Load(key); ok {
		return v.(apis.ID)
	}

	id := s.byName(uref.CanonicalName(uref.Unwrap(t, cfg.MaxUnwrap)), cfg, 0)
	s.cache.Store(key, id)
	return id
}

// byName resolves a canonical name, recursing into generic arguments.
func (s *nameStrategy) byName(name string, cfg apis.Config, depth int) apis.ID {
	name = uref.StripPointers(name, cfg.MaxUnwrap)

	if s.reg != nil {
		if id, ok := s.reg.LookupName(name); ok {
			return id
		}
	}
	if id, ok := cfg.Overrides[name]; ok {
		return id
	}
	if depth < maxGenericDepth {
		if base, args, ok := uref.SplitGeneric(name); ok {
			ids := make([]apis.ID, len(args))
			for i, a := range args {
				ids[i] = s.byName(a, cfg, depth+1)
			}
			return typeid.Derive(s.byName(base, cfg, depth+1), ids...)
		}
	}
	return typeid.FromName(cfg.Namespace, name)
}
