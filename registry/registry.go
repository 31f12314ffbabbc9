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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/objx/apis"
	"dirpx.dev/objx/config"
	uref "dirpx.dev/objx/utils/reflect"
	ulog "dirpx.dev/objx/utils/log"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("objx(registry): nil reflect.Type provided")
	// ErrNilID is returned when the zero ID is provided.
	ErrNilID = errors.New("objx(registry): nil identifier provided")
	// ErrEmptyName is returned when an empty generic name is provided.
	ErrEmptyName = errors.New("objx(registry): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type or name with a different ID.
	ErrConflictingRegistration = errors.New("objx(registry): conflicting type registration")
	// ErrDuplicateID indicates an attempt to bind one ID to two names.
	ErrDuplicateID = errors.New("objx(registry): identifier already bound to another type")
	// ErrGenericInstance is returned when a generic instantiation is registered
	// directly. Instantiation IDs are always derived from the generic base.
	ErrGenericInstance = errors.New("objx(registry): generic instantiations cannot be registered; register the generic base")
	// ErrSealed is returned by writes after Seal.
	ErrSealed = errors.New("objx(registry): registry is sealed")
)

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a write-once Registry backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// types maps normalized reflect.Type to its ID.
	types sync.Map // map[reflect.Type]apis.ID
	// names maps canonical names (types and generic bases) to their ID.
	names sync.Map // map[string]apis.ID
	// owners maps IDs back to canonical names; guarded by mu.
	owners map[apis.ID]string
	// entries keeps registration order for Entries; guarded by mu.
	entries []apis.Entry
	// count mirrors len(entries) for lock-free reads.
	count atomic.Int64
	// sealed rejects writes once set.
	sealed atomic.Bool
}

// Register binds the nearest named type of t to id.
// It is idempotent for the same (type, id) pair.
func (r *registry) Register(t reflect.Type, id apis.ID) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if id.IsNil() {
		return ErrNilID
	}

	// Normalize to the nearest named type according to r.cfg.
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err // ErrReflectTypeNotNamed (or ErrReflectNilType if somehow nil sneaks in)
	}
	name := uref.CanonicalName(b)
	if _, _, ok := uref.SplitGeneric(name); ok {
		return fmt.Errorf("%w: %s", ErrGenericInstance, name)
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.types.Load(b); ok {
		if old.(apis.ID) == id {
			return nil // idempotent re-registration
		}
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, name)
	}

	return r.store(apis.Entry{Type: b, Name: name, ID: id})
}

// RegisterGeneric binds the base ID of a generic type by canonical name.
func (r *registry) RegisterGeneric(name string, id apis.ID) error {
	if name == "" {
		return ErrEmptyName
	}
	if id.IsNil() {
		return ErrNilID
	}
	name = uref.StripTypeParams(name)

	if old, ok := r.names.Load(name); ok {
		if old.(apis.ID) == id {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, name)
	}

	return r.store(apis.Entry{Name: name, ID: id, Generic: true})
}

// store publishes e under the write lock.
func (r *registry) store(e apis.Entry) error {
	// Write path: guard with a mutex to keep the indexes consistent.
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return ErrSealed
	}

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.names.Load(e.Name); ok {
		if old.(apis.ID) == e.ID {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, e.Name)
	}
	if owner, ok := r.owners[e.ID]; ok {
		return fmt.Errorf("%w: %s is bound to %s", ErrDuplicateID, e.ID, owner)
	}

	if r.owners == nil {
		r.owners = make(map[apis.ID]string)
	}
	r.owners[e.ID] = e.Name
	r.names.Store(e.Name, e.ID)
	if e.Type != nil {
		r.types.Store(e.Type, e.ID)
	}
	r.entries = append(r.entries, e)
	r.count.Add(1)

	ulog.Logger().Debug("objx: registered identifier",
		"name", e.Name, "id", e.ID.String(), "generic", e.Generic)
	return nil
}

// Lookup returns the ID registered for t, if any.
func (r *registry) Lookup(t reflect.Type) (apis.ID, bool) {
	if t == nil {
		return apis.Nil, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return apis.Nil, false
	}
	if v, ok := r.types.Load(nt); ok {
		return v.(apis.ID), true
	}
	return apis.Nil, false
}

// LookupName returns the ID registered under a canonical name, if any.
func (r *registry) LookupName(name string) (apis.ID, bool) {
	if v, ok := r.names.Load(name); ok {
		return v.(apis.ID), true
	}
	return apis.Nil, false
}

// Entries returns a snapshot in registration order.
func (r *registry) Entries() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]apis.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	return int(r.count.Load())
}

// Seal makes the registry read-only.
func (r *registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Swap(true) {
		return
	}
	ulog.Logger().Debug("objx: registry sealed", "entries", len(r.entries))
}

// Sealed reports whether Seal was called.
func (r *registry) Sealed() bool {
	return r.sealed.Load()
}
