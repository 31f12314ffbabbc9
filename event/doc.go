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

// Package event implements multi-subscriber events.
//
// A component keeps a Trigger and hands out its Event view:
//
//	type Button struct {
//		clicked event.Trigger[Click]
//	}
//
//	func (b *Button) Clicked() event.Event[Click] { return b.clicked.Event() }
//
// Subscribers are Delegates: plain functions (Func), functions bound to a
// receiver (Bind), or functions bound to an object through a weak
// reference (BindWeak), which stop being called once the object expires.
package event
