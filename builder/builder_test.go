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

package builder_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/builder"
	"dirpx.dev/objx/config"
	"dirpx.dev/objx/registry"
	"dirpx.dev/objx/utils/typeid"
)

// userType is a plain named type with no special behavior.
// It is used to test fallback to name derivation.
type userType struct{}

// gen is a generic type whose base gets an explicit ID.
type gen[T any] struct{}

// hotType implements apis.Object and is used to verify that the
// object strategy takes priority over other strategies.
type hotType struct{}

var (
	idUser = typeid.MustParse("75736572-0000-4000-8000-000000000001")
	idGen  = typeid.MustParse("67656e00-0000-4000-8000-000000000002")
	idHot  = typeid.MustParse("686f7400-0000-4000-8000-000000000003")
)

func (hotType) Increment() int64                     { return 1 }
func (hotType) Decrement() int64                     { return 0 }
func (hotType) Cast(apis.ID) any                     { return nil }
func (hotType) Query(apis.ID) (any, apis.Status)     { return nil, apis.StatusNoInterface }
func (hotType) GetWeakReference() apis.WeakReference { return nil }
func (hotType) TypeID() apis.ID                      { return idHot }

// TestBuildRegistry_Basic asserts that BuildRegistry returns a non-nil,
// working Registry that supports Register/Lookup/Entries/Count.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	// prev may be nil; this must still produce a valid registry.
	reg := b.BuildRegistry(config.DefaultConfig(), nil)
	if reg == nil {
		t.Fatal("BuildRegistry returned nil")
	}

	tt := reflect.TypeOf(userType{})
	if err := reg.Register(tt, idUser); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got, ok := reg.Lookup(tt); !ok || got != idUser {
		t.Fatalf("Lookup mismatch: ok=%v got=%v want=%v", ok, got, idUser)
	}
	if c := reg.Count(); c != 1 {
		t.Fatalf("Count = %d, want 1", c)
	}
}

// TestBuildRegistry_MigratesEntries verifies that rebuilding copies plain
// and generic entries in order and keeps the sealed flag.
func TestBuildRegistry_MigratesEntries(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	prev := b.BuildRegistry(cfg, nil)
	if err := prev.Register(reflect.TypeOf(userType{}), idUser); err != nil {
		t.Fatal(err)
	}
	genName := reflect.TypeOf(userType{}).PkgPath() + ".gen"
	if err := prev.RegisterGeneric(genName, idGen); err != nil {
		t.Fatal(err)
	}
	prev.Seal()

	next := b.BuildRegistry(config.NewConfig(config.WithMaxUnwrap(2)), prev)
	if !reflect.DeepEqual(prev.Entries(), next.Entries()) {
		t.Fatalf("entries differ:\nprev=%v\nnext=%v", prev.Entries(), next.Entries())
	}
	if !next.Sealed() {
		t.Fatal("sealed state not carried over")
	}
	if id, ok := next.LookupName(genName); !ok || id != idGen {
		t.Fatalf("generic entry lost: %v %v", id, ok)
	}
}

// TestBuildResolver_Order verifies resolution priority:
// 1. If the value implements apis.Object, use TypeID().
// 2. Otherwise, if the type is explicitly registered in the Registry, use that.
// 3. Otherwise, fall back to the name-derived ID.
func TestBuildResolver_Order(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	reg := b.BuildRegistry(cfg, nil)
	type fromRegistry struct{}
	ttReg := reflect.TypeOf(fromRegistry{})
	if err := reg.Register(ttReg, idUser); err != nil {
		t.Fatalf("Register(fromRegistry) failed: %v", err)
	}
	// The registry entry for hotType must lose to the object strategy.
	if err := reg.Register(reflect.TypeOf(hotType{}), idGen); err != nil {
		t.Fatal(err)
	}

	res := b.BuildResolver(cfg, reg, nil)
	if res == nil {
		t.Fatal("BuildResolver returned nil")
	}

	// (1) Object should win.
	if got := res.Resolve(hotType{}, cfg); got != idHot {
		t.Fatalf("object priority broken: got %v want %v", got, idHot)
	}
	// By type there is no instance, so the registry answers.
	if got := res.ResolveType(reflect.TypeOf(hotType{}), cfg); got != idGen {
		t.Fatalf("registry by type: got %v want %v", got, idGen)
	}

	// (2) Registry should be next.
	if got := res.ResolveType(ttReg, cfg); got != idUser {
		t.Fatalf("registry strategy broken: got %v want %v", got, idUser)
	}

	// (3) Name derivation is the fallback.
	ttUser := reflect.TypeOf(userType{})
	want := typeid.FromName(cfg.Namespace, ttUser.PkgPath()+".userType")
	if got := res.ResolveType(ttUser, cfg); got != want {
		t.Fatalf("name fallback: got %v want %v", got, want)
	}
	if got := res.ResolveName(ttUser.PkgPath()+".userType", cfg); got != want {
		t.Fatalf("ResolveName: got %v want %v", got, want)
	}
}

// TestBuildResolver_GenericFromRegistry checks that an instantiation of a
// registered generic base derives from the base and argument IDs.
func TestBuildResolver_GenericFromRegistry(t *testing.T) {
	cfg := config.DefaultConfig()
	r := registry.New(cfg)
	if err := r.Register(reflect.TypeOf(userType{}), idUser); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterGeneric(reflect.TypeOf(userType{}).PkgPath()+".gen", idGen); err != nil {
		t.Fatal(err)
	}

	res := builder.New().BuildResolver(cfg, r, nil)
	got := res.Resolve(gen[userType]{}, cfg)
	if want := typeid.Derive(idGen, idUser); got != want {
		t.Fatalf("gen[userType] = %v, want %v", got, want)
	}
	if res.Resolve(&gen[userType]{}, cfg) != got {
		t.Fatal("pointer to instantiation must share the ID")
	}
}

// TestBuildResolver_Concurrency_Smoke hammers the resolver in parallel to ensure
// it is safe to call Resolve/ResolveType concurrently after being built.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()

	reg := b.BuildRegistry(cfg, nil)
	_ = reg.Register(reflect.TypeOf(userType{}), idUser)

	res := b.BuildResolver(cfg, reg, nil)

	types := []reflect.Type{
		reflect.TypeOf(userType{}),
		reflect.TypeOf(hotType{}),
		reflect.TypeOf(&userType{}),
		reflect.TypeOf([]userType{}),
		reflect.TypeOf(gen[userType]{}),
	}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				tt := types[(i+id)%len(types)]
				if res.ResolveType(tt, cfg).IsNil() {
					t.Errorf("nil ID for %v", tt)
					return
				}
				_ = res.Resolve(hotType{}, cfg)
			}
		}(w)
	}

	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
