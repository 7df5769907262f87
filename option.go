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

import "github.com/Peperworx/slacktor/log"

// defaultInitialCapacity sizes the slot table of a System constructed without
// an explicit capacity option.
const defaultInitialCapacity = 64

// Option configures a System at construction time.
type Option func(*System)

// WithInitialCapacity reserves room for capacity actors up front. The System
// still grows on demand once the reservation is exhausted.
func WithInitialCapacity(capacity int) Option {
	return func(s *System) {
		if capacity > 0 {
			s.initialCapacity = capacity
		}
	}
}

// WithCapacity bounds the System at capacity actors. Spawn returns
// ErrCapacityExceeded instead of growing once every slot is occupied.
func WithCapacity(capacity int) Option {
	return func(s *System) {
		if capacity > 0 {
			s.initialCapacity = capacity
			s.bounded = true
		}
	}
}

// WithLogger sets the logger used by the System. Defaults to
// log.DiscardLogger so an embedding program opts into output explicitly.
func WithLogger(logger log.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}
