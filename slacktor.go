// MIT License
//
// Copyright (c) 2024-2026 Peperworx
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package slacktor is an in-process actor runtime. It stores heterogeneous
// actors behind opaque generational identifiers and dispatches statically
// typed messages to them with compile-time-checked result types.
//
// A System owns a generational slot allocator specialized to type-erased
// actor handles. Spawn erases a concrete actor into the slot table and
// returns an ID; Get recovers a precisely typed Handle from an ID; Ask
// invokes the actor's handler directly on the calling goroutine and returns
// the handler's result inline. There is no mailbox, no supervision tree and
// no scheduler: concurrency across actors comes entirely from the embedding
// program issuing Asks from its own goroutines, and handlers that need to
// await external progress simply block on ctx or channels.
//
// Registry mutation (Spawn, Kill, Shutdown, Shrink) must be serialized by
// the caller when a System is shared across goroutines. Asks against handles
// already obtained require no additional locking.
package slacktor

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Peperworx/slacktor/internal/slab"
	"github.com/Peperworx/slacktor/log"
)

// System is the actor registry: the sole owner and sole mutator of one slot
// allocator specialized to erased actor handles. Use New to construct one.
type System struct {
	id              uuid.UUID
	logger          log.Logger
	slots           *slab.Slab[cell]
	live            mapset.Set[ID]
	initialCapacity int
	bounded         bool
}

// New constructs a System. Without options the System reserves
// defaultInitialCapacity slots, grows without bound and logs nowhere.
func New(opts ...Option) *System {
	s := &System{
		id:              uuid.New(),
		logger:          log.DiscardLogger,
		initialCapacity: defaultInitialCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.slots = slab.New[cell](s.initialCapacity)
	s.live = mapset.NewSet[ID]()
	return s
}

// Spawn hosts actor on the System and returns its identifier. The concrete
// type is erased into the slot table; recover it later with Get. On an
// unbounded System Spawn never fails; on a bounded one it returns
// ErrCapacityExceeded when every slot is occupied.
func Spawn[A Actor](s *System, actor A) (ID, error) {
	st := newState(actor)

	key, err := s.slots.Insert(st)
	if errors.Is(err, slab.ErrExhausted) {
		if s.bounded {
			return ID{}, ErrCapacityExceeded
		}
		s.slots.IncreaseCapacity(0)
		key, err = s.slots.Insert(st)
	}
	if err != nil {
		return ID{}, err
	}

	id := idOf(key)
	s.live.Add(id)
	s.logger.Debugf("system=%s spawned %s", s.id, id)
	return id, nil
}

// Get recovers the typed handle of the actor identified by id. The second
// return value is false when the id is unknown, its slot has been recycled
// since, or the stored actor is not of type A; the three causes are not
// distinguished.
func Get[A Actor](s *System, id ID) (Handle[A], bool) {
	erased, ok := s.slots.Get(keyOf(id))
	if !ok {
		return Handle[A]{}, false
	}
	st, ok := erased.(*state[A])
	if !ok {
		return Handle[A]{}, false
	}
	return Handle[A]{state: st}, true
}

// Kill removes the System's tracking of id, freeing its slot for reuse, and
// runs the actor's teardown hook exactly once, returning the hook's error.
// Kill is idempotent: an unknown or stale id is a no-op. Handle copies
// obtained before the kill stay fully usable; the actor itself is collected
// only once the last copy is gone.
func (s *System) Kill(ctx context.Context, id ID) error {
	erased, ok := s.slots.Remove(keyOf(id))
	if !ok {
		return nil
	}
	s.live.Remove(id)
	s.logger.Debugf("system=%s killed %s", s.id, id)
	return erased.stop(ctx)
}

// Shutdown kills every live actor in unspecified order, aggregating their
// teardown errors, then releases all backing storage. The System ends up in
// the same state as just after New and can be reused.
func (s *System) Shutdown(ctx context.Context) error {
	var err error
	for _, id := range s.live.ToSlice() {
		if erased, ok := s.slots.Remove(keyOf(id)); ok {
			err = multierr.Append(err, erased.stop(ctx))
		}
	}
	s.live.Clear()
	s.slots.Clear()
	s.logger.Infof("system=%s shut down", s.id)
	return err
}

// Shrink releases unused backing capacity. Occupied slots and outstanding
// identifiers are unaffected.
func (s *System) Shrink() {
	s.slots.Shrink()
}

// NextID previews, without mutating the System, the identifier the next
// Spawn will return.
func (s *System) NextID() ID {
	return idOf(s.slots.NextKey())
}

// Len returns the number of live actors.
func (s *System) Len() int {
	return s.slots.Len()
}

// IDs returns the identifiers of all live actors in unspecified order.
func (s *System) IDs() []ID {
	return s.live.ToSlice()
}

// InstanceID returns the unique identity of this System instance, as carried
// in its log output.
func (s *System) InstanceID() uuid.UUID {
	return s.id
}
