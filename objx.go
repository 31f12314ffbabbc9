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

package objx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/builder"
	"dirpx.dev/objx/config"
	uref "dirpx.dev/objx/utils/reflect"
	"dirpx.dev/objx/utils/typeid"
)

var (
	// ObjectID is the ID of apis.Object, the root interface of every object.
	ObjectID = typeid.MustParse("428EDA6A-3C61-4FE9-AAE5-012C69672D38")
	// WeakReferenceID is the ID of apis.WeakReference.
	WeakReferenceID = typeid.MustParse("00000037-0000-0000-C000-000000000046")
)

// init initializes the global state and binds the root interfaces.
func init() {
	// Initialize state with default cfg, reg, and res.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil)
	s.res = b.BuildResolver(s.cfg, s.reg, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)

	MustRegister(reflect.TypeFor[apis.Object](), ObjectID)
	MustRegister(reflect.TypeFor[apis.WeakReference](), WeakReferenceID)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("objx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("objx: builder returned nil resolver")
)

// Of returns the ID of T using the global resolver. Of[*T] equals Of[T].
func Of[T any]() apis.ID {
	return TypeID(reflect.TypeFor[T]())
}

// ID resolves the ID of the provided value v using the global resolver.
// For an apis.Object held through any interface view, this is the ID of
// its concrete type.
func ID(v any) apis.ID {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// TypeID resolves the ID of the provided reflect.Type t using the global resolver.
func TypeID(t reflect.Type) apis.ID {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// NameID resolves the ID of a canonical type name using the global resolver.
func NameID(name string) apis.ID {
	s := st.Load()
	return s.res.ResolveName(name, s.cfg)
}

// Generic returns the ID of the instantiation of the generic type base
// with the given argument IDs. TypeID of an instantiation equals Generic
// over the IDs of its base and arguments.
func Generic(base apis.ID, args ...apis.ID) apis.ID {
	return typeid.Derive(base, args...)
}

// GenericName returns the canonical name of the generic type that t
// instantiates ("dirpx.dev/objx/box.Box" for box.Box[int]).
func GenericName(t reflect.Type) string {
	return uref.StripTypeParams(uref.CanonicalName(uref.Unwrap(t, st.Load().cfg.MaxUnwrap)))
}

// Register adds a type-ID binding to the global registry.
func Register(t reflect.Type, id apis.ID) error {
	return st.Load().reg.Register(t, id)
}

// MustRegister is like Register but panics on error. Use it from init.
func MustRegister(t reflect.Type, id apis.ID) {
	if err := Register(t, id); err != nil {
		panic(err)
	}
}

// RegisterGeneric binds the base ID of a generic type by canonical name.
// Instantiations derive their IDs from it.
func RegisterGeneric(name string, id apis.ID) error {
	return st.Load().reg.RegisterGeneric(name, id)
}

// Seal makes the global registry read-only. Call it once init-time
// registration is done.
func Seal() {
	st.Load().reg.Seal()
}

// Epoch identifies the current identity state. Any change that can alter
// a computed ID (a new snapshot, a new registration) changes the epoch.
func Epoch() uint64 {
	s := st.Load()
	return s.epoch<<32 | uint64(uint32(s.reg.Count()))
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg)
	} else {
		npreg = true
	}

	// Resolver
	nres := res
	npres := false
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg, old.res)
	} else {
		npres = true
	}

	publish(old, ncfg, nreg, nres, nbld, npreg, npres)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// It rebuilds the unpinned registry and resolver using the new configuration.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg, nres := rebuild(old, cfg, old.bld)
	publish(old, cfg, nreg, nres, old.bld, old.preg, old.pres)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry.
// It rebuilds the resolver against it unless the resolver is pinned.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nres := old.res
	if !old.pres {
		nres = old.bld.BuildResolver(old.cfg, reg, old.res)
	}
	publish(old, old.cfg, reg, nres, old.bld, true, old.pres)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old, old.cfg, old.reg, res, old.bld, old.preg, true)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds unpinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg, nres := rebuild(old, old.cfg, b)
	publish(old, old.cfg, nreg, nres, b, old.preg, old.pres)
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops automatic rebuilds of the global registry.
func PinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old, old.cfg, old.reg, old.res, old.bld, true, old.pres)
}

// UnpinRegistry allows automatic rebuilds of the global registry again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old, old.cfg, old.reg, old.res, old.bld, false, old.pres)
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops automatic rebuilds of the global resolver.
func PinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old, old.cfg, old.reg, old.res, old.bld, old.preg, true)
}

// UnpinResolver allows automatic rebuilds of the global resolver again.
func UnpinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old, old.cfg, old.reg, old.res, old.bld, old.preg, false)
}

// rebuild builds the unpinned layers of old with b under cfg.
// Caller must hold buildMu.
func rebuild(old *state, cfg apis.Config, b apis.Builder) (apis.Registry, apis.Resolver) {
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(cfg, nreg, old.res)
	}
	return nreg, nres
}

// publish validates and atomically stores a new snapshot derived from old.
// Caller must hold buildMu.
func publish(old *state, cfg apis.Config, reg apis.Registry, res apis.Resolver, bld apis.Builder, preg, pres bool) {
	// Ensure non-nil reg and res.
	if reg == nil {
		panic(ErrNilRegistry)
	}
	if res == nil {
		panic(ErrNilResolver)
	}

	st.Store(
		&state{
			cfg:   cfg,
			reg:   reg,
			res:   res,
			bld:   bld,
			preg:  preg,
			pres:  pres,
			epoch: old.epoch + 1,
		},
	)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the reg is pinned (not rebuilt).
	preg bool
	// pres indicates whether the res is pinned (not rebuilt).
	pres bool
	// epoch counts published snapshots.
	epoch uint64
}
