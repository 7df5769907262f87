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
	"context"

	"go.uber.org/atomic"
)

// Actor marks a value that can be hosted by a System. Any type qualifies; the
// contract is behavioral: a hosted value must be safe to share across every
// goroutine the embedding program sends from, because Ask invokes handlers
// directly on the caller's goroutine with no mailbox in between.
type Actor = any

// StopHook is implemented by actors that need teardown when killed. PostStop
// runs at most once per actor, on the goroutine calling Kill or Shutdown,
// strictly after the registry has forgotten the actor's slot. Handle copies
// held elsewhere keep working while PostStop runs; implementations usually
// flip the actor into a "respond with an error to further messages" state.
type StopHook interface {
	PostStop(ctx context.Context) error
}

// Handler is the capability of processing messages of type M with results of
// exactly type R. An Ask only instantiates against an actor whose Receive
// signature matches both, so a mismatched response shape is a compile error,
// never a runtime surprise.
//
// Receive may compute synchronously or block on ctx, channels or any other
// externally driven progress; either way the result is delivered inline to
// the caller. Go's single method namespace means a concrete actor type binds
// one message type through Receive; actors serving several request shapes
// accept a sum message type or are split into cooperating actors.
type Handler[M, R any] interface {
	Receive(ctx context.Context, message M) R
}

// cell is the type-erased form of a handle state as stored in the registry's
// slab. Recovery back to the concrete actor type is a checked type assertion
// against *state[A].
type cell interface {
	stop(ctx context.Context) error
}

// state is the shared-ownership core behind every Handle copy of one actor.
// It outlives registry bookkeeping for as long as any Handle referencing it
// is reachable; the garbage collector plays the role of the reference count.
type state[A Actor] struct {
	actor   A
	stopped atomic.Bool
}

var _ cell = (*state[Actor])(nil)

func newState[A Actor](actor A) *state[A] {
	return &state[A]{actor: actor}
}

// stop runs the actor's teardown hook. The atomic flag guarantees the hook
// fires at most once even when Kill and Shutdown race or repeat.
func (s *state[A]) stop(ctx context.Context) error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if hook, ok := any(s.actor).(StopHook); ok {
		return hook.PostStop(ctx)
	}
	return nil
}

// Handle is a typed accessor to one hosted actor. Handles are cheap values:
// copying one is cloning it, and every copy addresses the same underlying
// actor. A handle stays usable after the registry kills its actor; only
// future System lookups are revoked. The zero Handle is invalid; obtain
// handles from Get.
type Handle[A Actor] struct {
	state *state[A]
}

// Valid reports whether the handle references an actor.
func (h Handle[A]) Valid() bool {
	return h.state != nil
}

// Ask delivers message to the actor behind handle and returns the handler's
// result. Delivery is a direct, immediate invocation on the calling
// goroutine: no queueing, no buffering, no independent scheduling. The
// handler may suspend on ctx or channels, but Ask returns only once the
// result is produced (request/response, never fire-and-forget).
//
// Concurrent Asks against the same handle need no locking from this runtime;
// whether they are safe is decided by the actor's own sharing discipline.
func Ask[A Handler[M, R], M, R any](ctx context.Context, handle Handle[A], message M) R {
	return handle.state.actor.Receive(ctx, message)
}
