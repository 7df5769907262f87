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

// Package slab implements a generational slot allocator. Slots are addressed
// by a Key pairing the slot index with a per-slot generation counter. Freed
// slots are recycled through an embedded LIFO free list, and the generation
// counter guards every lookup so that a stale Key can never resolve to a
// later occupant of the same slot.
package slab

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by Insert when the slab has no free entry and no
// spare capacity left. It is a recoverable outcome: the caller may call
// IncreaseCapacity and retry.
var ErrExhausted = errors.New("slab is at full capacity")

// Key uniquely names a live slab occupant at issuance time. The index may be
// reused across time, but the paired generation always differs, so two Keys
// are interchangeable only when both fields match.
type Key struct {
	index      uint64
	generation uint64
}

// NewKey builds a Key from its raw parts. It performs no validation; a Key
// only resolves when presented to the slab that issued its parts.
func NewKey(index, generation uint64) Key {
	return Key{index: index, generation: generation}
}

// Index returns the slot index the key refers to.
func (k Key) Index() uint64 {
	return k.index
}

// Generation returns the slot generation the key was issued at.
func (k Key) Generation() uint64 {
	return k.generation
}

// String returns the textual form of the key.
func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.index, k.generation)
}

// entry is a single slot. When occupied it carries the stored value; when
// free it carries the index of the next free slot, forming an implicit stack
// whose head is held by the slab. The generation counter is incremented
// exactly once per occupied-to-free transition.
type entry[T any] struct {
	value      T
	nextFree   uint64
	generation uint64
	occupied   bool
}

// Slab is a growable arena of numbered slots holding values of type T.
// Insert, Remove and Get are O(1); removal recycles the slot instead of
// deallocating it. The zero value is not usable; use New.
//
// A Slab is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
type Slab[T any] struct {
	entries  []entry[T]
	nextFree uint64
	used     int
	initial  int
}

// New creates a slab with backing storage reserved for capacity entries.
// No entries are created until Insert is called.
func New[T any](capacity int) *Slab[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Slab[T]{
		entries: make([]entry[T], 0, capacity),
		initial: capacity,
	}
}

// Insert stores value in a free slot and returns its Key. The most recently
// freed slot is reused first; when no freed slot exists a new entry is
// appended within the reserved capacity. ErrExhausted is returned when the
// slab is full, in which case the slab is left unchanged.
func (s *Slab[T]) Insert(value T) (Key, error) {
	if s.nextFree < uint64(len(s.entries)) {
		e := &s.entries[s.nextFree]
		if e.occupied {
			// The free-list head must designate a free entry. Anything else
			// means the bookkeeping is corrupted and continuing would clobber
			// a live occupant.
			panic(fmt.Sprintf("slab: free list corrupted: entry %d is occupied", s.nextFree))
		}

		key := Key{index: s.nextFree, generation: e.generation}
		s.nextFree = e.nextFree
		e.occupied = true
		e.value = value
		s.used++
		return key, nil
	}

	if len(s.entries) >= cap(s.entries) {
		return Key{}, ErrExhausted
	}

	key := Key{index: uint64(len(s.entries)), generation: 0}
	s.entries = append(s.entries, entry[T]{value: value, occupied: true})
	s.nextFree = uint64(len(s.entries))
	s.used++
	return key, nil
}

// Remove frees the slot named by key and returns the evicted value. Removal
// of an out-of-range, already-free or stale key is harmless: the slab is left
// untouched and ok is false. On success the slot's generation is incremented,
// invalidating every outstanding Key referencing it, and the slot is pushed
// onto the free list for reuse.
func (s *Slab[T]) Remove(key Key) (value T, ok bool) {
	if key.index >= uint64(len(s.entries)) {
		return value, false
	}

	e := &s.entries[key.index]
	if !e.occupied || e.generation != key.generation {
		return value, false
	}

	value = e.value
	var zero T
	e.value = zero
	e.generation++
	e.occupied = false
	e.nextFree = s.nextFree
	s.nextFree = key.index
	s.used--
	return value, true
}

// Get returns the value stored under key. ok is false when the index is out
// of range, the slot is free, or the generation is stale.
func (s *Slab[T]) Get(key Key) (value T, ok bool) {
	if key.index >= uint64(len(s.entries)) {
		return value, false
	}

	e := &s.entries[key.index]
	if !e.occupied || e.generation != key.generation {
		return value, false
	}
	return e.value, true
}

// GetRef returns a pointer to the value stored under key for in-place
// mutation, or nil when the key does not resolve. The pointer is invalidated
// by any subsequent Insert, IncreaseCapacity, Shrink or reset.
func (s *Slab[T]) GetRef(key Key) *T {
	if key.index >= uint64(len(s.entries)) {
		return nil
	}

	e := &s.entries[key.index]
	if !e.occupied || e.generation != key.generation {
		return nil
	}
	return &e.value
}

// NextKey previews, without mutating the slab, the Key the next Insert will
// return.
func (s *Slab[T]) NextKey() Key {
	if s.nextFree < uint64(len(s.entries)) {
		return Key{index: s.nextFree, generation: s.entries[s.nextFree].generation}
	}
	return Key{index: uint64(len(s.entries)), generation: 0}
}

// IncreaseCapacity reserves room for additional more entries. When additional
// is zero or negative the current capacity is doubled. Occupied slots and
// outstanding Keys are unaffected.
func (s *Slab[T]) IncreaseCapacity(additional int) {
	if additional <= 0 {
		additional = cap(s.entries)
	}
	if additional == 0 {
		// Doubling an empty reservation would be a no-op loop for callers
		// that grow on demand, so start with a single entry instead.
		additional = 1
	}

	grown := make([]entry[T], len(s.entries), cap(s.entries)+additional)
	copy(grown, s.entries)
	s.entries = grown
}

// Shrink trims spare capacity down to the current entry count. Occupied slots
// keep their indices and generations; only the unused reservation at the end
// is released.
func (s *Slab[T]) Shrink() {
	if cap(s.entries) == len(s.entries) {
		return
	}
	trimmed := make([]entry[T], len(s.entries))
	copy(trimmed, s.entries)
	s.entries = trimmed
}

// DeallocateTo drops every entry along with its generation history and
// returns the slab to a fresh state reserved at capacity. This is a
// destructive whole-slab reset meant for teardown, never for removing a
// single entry.
func (s *Slab[T]) DeallocateTo(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	s.entries = make([]entry[T], 0, capacity)
	s.nextFree = 0
	s.used = 0
	s.initial = capacity
}

// Clear resets the slab to its initial capacity, dropping all contents.
func (s *Slab[T]) Clear() {
	s.DeallocateTo(s.initial)
}

// Len returns the number of occupied slots. Freed slots stay allocated, so
// this does not reflect the slab's memory footprint.
func (s *Slab[T]) Len() int {
	return s.used
}

// IsEmpty returns true when no slot is occupied.
func (s *Slab[T]) IsEmpty() bool {
	return s.used == 0
}

// Cap returns the total reserved capacity in entries.
func (s *Slab[T]) Cap() int {
	return cap(s.entries)
}
