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

// Package typeid implements identifier arithmetic: parsing, deriving IDs
// from canonical type names, and mixing a generic base ID with the IDs of
// its type arguments.
package typeid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/google/uuid"

	"dirpx.dev/objx/apis"
)

// DefaultNamespace is the UUID namespace for name-derived IDs.
var DefaultNamespace = MustParse("5b3c0f3e-8e0a-4d7c-9a4e-2f61c3d9b7a1")

// ErrInvalidID is returned when a string is not a valid UUID.
var ErrInvalidID = errors.New("objx(typeid): invalid identifier")

// Parse parses s in any form accepted by uuid.Parse.
func Parse(s string) (apis.ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return apis.Nil, fmt.Errorf("%w %q: %v", ErrInvalidID, s, err)
	}
	return apis.ID(u), nil
}

// MustParse is like Parse but panics on error. Use it for package-level
// identifier constants.
func MustParse(s string) apis.ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromName derives a version 5 (SHA-1) UUID from a canonical type name.
// A Nil namespace selects DefaultNamespace.
func FromName(ns apis.ID, name string) apis.ID {
	if ns.IsNil() {
		ns = DefaultNamespace
	}
	return apis.ID(uuid.NewSHA1(uuid.UUID(ns), []byte(name)))
}

// Mix combines two IDs: each 64-bit half of b is rotated left by one and
// XORed into the matching half of a. Mix is not commutative, so argument
// order matters in Derive.
func Mix(a, b apis.ID) apis.ID {
	var out apis.ID
	for off := 0; off < 16; off += 8 {
		ah := binary.LittleEndian.Uint64(a[off:])
		bh := binary.LittleEndian.Uint64(b[off:])
		binary.LittleEndian.PutUint64(out[off:], ah^bits.RotateLeft64(bh, 1))
	}
	return out
}

// Derive returns the ID of a generic instantiation. The arguments are
// folded right to left and the result is mixed into base:
//
//	Derive(base, a, b, c) = Mix(base, Mix(a, Mix(b, c)))
//
// Derive with no arguments returns base.
func Derive(base apis.ID, args ...apis.ID) apis.ID {
	if len(args) == 0 {
		return base
	}
	acc := args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		acc = Mix(args[i], acc)
	}
	return Mix(base, acc)
}
