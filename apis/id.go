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
	"github.com/google/uuid"
)

// ID is a fixed-width identifier naming a type. Every concrete type has
// exactly one ID, and every instantiation of a generic type has its own ID
// derived from the generic's base ID and the IDs of its type arguments.
//
// The layout is that of a UUID so IDs can be written down in source and
// config files and stay stable across builds.
type ID [16]byte

// Nil is the zero ID. It never names a type.
var Nil ID

// IsNil reports whether id is the zero ID.
func (id ID) IsNil() bool { return id == Nil }

// IsZero is IsNil under the name encoders look for with omitempty.
func (id ID) IsZero() bool { return id == Nil }

// String returns the canonical UUID form of id.
func (id ID) String() string { return uuid.UUID(id).String() }

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts every form
// uuid.Parse accepts (plain, braced, urn-prefixed).
func (id *ID) UnmarshalText(data []byte) error {
	u, err := uuid.ParseBytes(data)
	if err != nil {
		return err
	}
	*id = ID(u)
	return nil
}
