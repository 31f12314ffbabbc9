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

// Package object implements reference-counted objects with interface
// discovery and weak references.
//
// An object type embeds Base and is created with New:
//
//	type Widget struct {
//		object.Base
//		codec jsonCodec
//	}
//
//	var widgetClass = object.MustDeclare[*Widget](
//		object.Implements[Printable](),
//		object.Via[Serializable](func(w *Widget) Serializable { return &w.codec }),
//	)
//
//	w, err := object.New[Widget](func(w *Widget) error { ... })
//	defer w.Release()
//
// The strong count lives in the object's WeakRef control block. The final
// Decrement runs Destroy (if the type implements Destroyer), detaches the
// control block and returns. Weak handles resolve with compare-and-swap
// from a non-zero count, so they never revive an object that is being
// torn down.
//
// Cast and Query look up views by ID in a per-class table built from the
// declaration. Every class answers apis.Object and its own type. An
// interface reached through two declared entries must be disambiguated.
package object
