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

package object

import "errors"

var (
	// ErrNegativeCount is the panic value when Decrement drops a strong
	// count below zero.
	ErrNegativeCount = errors.New("objx(object): negative reference count")
	// ErrNotInterface is returned when a declaration names a non-interface type.
	ErrNotInterface = errors.New("objx(object): not an interface type")
	// ErrNotImplemented is returned when a class or interface claims an
	// interface it does not satisfy.
	ErrNotImplemented = errors.New("objx(object): interface not implemented")
	// ErrAccessorMismatch is returned when a Via accessor takes a receiver
	// other than the declared class type.
	ErrAccessorMismatch = errors.New("objx(object): accessor receiver does not match class")
	// ErrAmbiguousInterface is returned when two declared entries reach the
	// same interface and no Disambiguate picks one.
	ErrAmbiguousInterface = errors.New("objx(object): ambiguous interface")
	// ErrAlreadyDeclared is returned when a type or interface is declared twice.
	ErrAlreadyDeclared = errors.New("objx(object): already declared")
	// ErrNoInterface is the panic value of MustQuery on a miss.
	ErrNoInterface = errors.New("objx(object): no such interface")
)
