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

package registry_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	apis "dirpx.dev/objx/apis"
	"dirpx.dev/objx/config"
	"dirpx.dev/objx/registry"
	"dirpx.dev/objx/utils/typeid"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}
type T4 struct{}
type T5 struct{}
type T6 struct{}
type T7 struct{}
type T8 struct{}
type T9 struct{}

// ids derives a distinct, stable ID per test type.
func ids(n int) []apis.ID {
	out := make([]apis.ID, n)
	for i := range out {
		out[i] = typeid.FromName(apis.Nil, "registry_test.T"+string(rune('0'+i)))
	}
	return out
}

// TestConcurrentRegisterAndLookup verifies that Register/Lookup/Entries/Count
// are race-free and consistent under concurrent use.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	types := []reflect.Type{
		reflect.TypeOf(T0{}), reflect.TypeOf(T1{}), reflect.TypeOf(T2{}),
		reflect.TypeOf(T3{}), reflect.TypeOf(T4{}), reflect.TypeOf(T5{}),
		reflect.TypeOf(T6{}), reflect.TypeOf(T7{}), reflect.TypeOf(T8{}),
		reflect.TypeOf(T9{}),
	}
	want := ids(len(types))

	// Register once (sequential) to establish baseline.
	for i, tt := range types {
		if err := reg.Register(tt, want[i]); err != nil {
			t.Fatalf("register %s: %v", tt, err)
		}
	}

	// Hammer with concurrent lookups and idempotent re-registrations.
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	// Readers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				tt := types[i%len(types)]
				if got, ok := reg.Lookup(tt); !ok || got != want[i%len(types)] {
					t.Errorf("lookup failed for %v: ok=%v got=%v", tt, ok, got)
					return
				}
				_ = reg.Count()
				_ = reg.Entries()
			}
		}()
	}

	// Writers (idempotent re-register)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(types)
				if err := reg.Register(types[j], want[j]); err != nil { // must be safe & idempotent
					t.Errorf("re-register %v: %v", types[j], err)
					return
				}
			}
		}(w)
	}

	wg.Wait()

	// Final consistency checks.
	if reg.Count() != len(types) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(types))
	}
	got := map[reflect.Type]apis.ID{}
	for _, e := range reg.Entries() {
		got[e.Type] = e.ID
	}
	for i, tt := range types {
		if got[tt] != want[i] {
			t.Fatalf("entry mismatch for %v: got %v want %v", tt, got[tt], want[i])
		}
	}
}

// TestConcurrentFirstRegistration races distinct writers for the same type:
// exactly one ID must win and every loser must see a conflict.
func TestConcurrentFirstRegistration(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	candidates := ids(8)

	var wg sync.WaitGroup
	errs := make([]error, len(candidates))
	wg.Add(len(candidates))
	for i := range candidates {
		go func(i int) {
			defer wg.Done()
			errs[i] = reg.Register(reflect.TypeOf(T0{}), candidates[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want 1 (errs=%v)", winners, errs)
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}
}

// TestEntriesSnapshot ensures Entries returns a copy that later writes do not touch.
func TestEntriesSnapshot(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	all := ids(2)

	_ = reg.Register(reflect.TypeOf(T0{}), all[0])
	snap := reg.Entries()
	_ = reg.Register(reflect.TypeOf(T1{}), all[1])

	if len(snap) != 1 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
	if snap[0].ID != all[0] || snap[0].Name == "" {
		t.Fatalf("snapshot contents invalid: %+v", snap[0])
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New(config.DefaultConfig())
