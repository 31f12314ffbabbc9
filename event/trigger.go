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

package event

import (
	"slices"
	"sync"
)

// Trigger is the owning side of an event: it holds the subscriber list
// and fires it. The zero Trigger is ready to use and must not be copied
// after first use.
//
// Fire calls subscribers outside the lock, on a snapshot taken when Fire
// starts. Handlers may Subscribe or Unsubscribe (themselves included)
// while firing: a handler added during Fire is not called by that Fire,
// and one removed during Fire may still be called if it was already in
// the snapshot.
type Trigger[A any] struct {
	mu   sync.Mutex
	list []Delegate[A]
}

// Subscribe appends d. Dead delegates are ignored.
func (t *Trigger[A]) Subscribe(d Delegate[A]) {
	if d.call == nil {
		return
	}
	t.mu.Lock()
	t.list = append(t.list, d)
	t.mu.Unlock()
}

// Unsubscribe removes the first entry Equal to d and reports whether one
// was found. A weak handle owned by d is released either way, so a
// BindWeak delegate built just to unsubscribe does not leak.
func (t *Trigger[A]) Unsubscribe(d Delegate[A]) bool {
	defer d.release()

	t.mu.Lock()
	i := slices.IndexFunc(t.list, d.Equal)
	if i < 0 {
		t.mu.Unlock()
		return false
	}
	removed := t.list[i]
	t.list = slices.Delete(t.list, i, i+1)
	t.mu.Unlock()

	removed.release()
	return true
}

// Fire drops dead entries, then calls every live subscriber with a in
// subscription order.
func (t *Trigger[A]) Fire(a A) {
	t.mu.Lock()
	var dead []Delegate[A]
	live := t.list[:0]
	for _, d := range t.list {
		if d.Dead() {
			dead = append(dead, d)
			continue
		}
		live = append(live, d)
	}
	clear(t.list[len(live):])
	t.list = live
	snapshot := slices.Clone(live)
	t.mu.Unlock()

	for _, d := range dead {
		d.release()
	}
	for _, d := range snapshot {
		d.Invoke(a)
	}
}

// Len returns the number of entries, dead ones included until the next Fire.
func (t *Trigger[A]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.list)
}

// Clear removes every entry.
func (t *Trigger[A]) Clear() {
	t.mu.Lock()
	list := t.list
	t.list = nil
	t.mu.Unlock()

	for _, d := range list {
		d.release()
	}
}

// Event returns the subscribe-only view of t.
func (t *Trigger[A]) Event() Event[A] {
	return Event[A]{t: t}
}

// Event is the public side of a Trigger: holders can subscribe and
// unsubscribe but not fire.
type Event[A any] struct {
	t *Trigger[A]
}

// Subscribe appends d to the underlying trigger.
func (e Event[A]) Subscribe(d Delegate[A]) {
	if e.t != nil {
		e.t.Subscribe(d)
	}
}

// Unsubscribe removes the first entry Equal to d.
func (e Event[A]) Unsubscribe(d Delegate[A]) bool {
	if e.t == nil {
		d.release()
		return false
	}
	return e.t.Unsubscribe(d)
}
