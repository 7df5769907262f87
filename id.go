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

package slacktor

import (
	"fmt"

	"github.com/Peperworx/slacktor/internal/slab"
)

// ID is the opaque identifier of one hosted actor. It pairs the actor's slot
// index with the generation the slot carried at spawn time; the index may be
// recycled across time but the full pair is never aliased between distinct
// live actors. IDs are comparable and usable as map keys.
type ID struct {
	index      uint64
	generation uint64
}

// Index returns the slot index backing the identifier.
func (id ID) Index() uint64 {
	return id.index
}

// Generation returns the slot generation the identifier was issued at.
func (id ID) Generation() uint64 {
	return id.generation
}

// String returns the textual form of the identifier.
func (id ID) String() string {
	return fmt.Sprintf("actor-%d:%d", id.index, id.generation)
}

// idOf converts an allocator key into its external identifier form.
func idOf(key slab.Key) ID {
	return ID{index: key.Index(), generation: key.Generation()}
}

// keyOf converts an identifier back into its allocator key.
func keyOf(id ID) slab.Key {
	return slab.NewKey(id.index, id.generation)
}
