package rxcore

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// sink is the per-subscription end of an Observable. It owns the
// subscription's context, serializes delivery to the observer and enforces
// that nothing follows a terminal event or a dispose.
type sink[T any] struct {
	observer Observer[T]
	queue    trampoline

	ctx       context.Context
	cancel    context.CancelFunc
	stopWatch func() bool

	stopped atomic.Bool

	mu       sync.Mutex
	released bool
	upstream Disposable
}

func newSink[T any](parent context.Context, observer Observer[T]) *sink[T] {
	s := &sink[T]{observer: observer}
	s.ctx, s.cancel = context.WithCancel(parent)
	// Parent cancellation stops delivery at once through ctx.Err(); the
	// resources are released from the AfterFunc goroutine.
	s.stopWatch = context.AfterFunc(parent, s.Dispose)
	return s
}

// on 交给生产者的 Observer
func (s *sink[T]) on(e Event[T]) {
	if s.stopped.Load() {
		return
	}
	s.queue.Schedule(func() { s.deliver(e) })
}

func (s *sink[T]) deliver(e Event[T]) {
	if s.ctx.Err() != nil {
		return
	}
	if e.IsTerminal() {
		if !s.stopped.CompareAndSwap(false, true) {
			return
		}
		s.observer(e)
		s.release()
		return
	}
	if s.stopped.Load() {
		return
	}
	s.observer(e)
}

// setUpstream records the producer's Disposable. If the subscription already
// ended while the producer ran, the Disposable is released right away.
func (s *sink[T]) setUpstream(d Disposable) {
	if d == nil {
		return
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		if err := disposeSafely(d); err != nil {
			reportDisposalError(err)
		}
		return
	}
	s.upstream = d
	s.mu.Unlock()
}

func (s *sink[T]) release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	upstream := s.upstream
	s.upstream = nil
	s.mu.Unlock()

	// The producer chain is released here, before cancel, so nested
	// subscriptions are not left to their AfterFunc goroutines.
	s.stopWatch()
	if err := disposeSafely(upstream); err != nil {
		reportDisposalError(err)
	}
	s.cancel()
}

// Dispose 停止发送并释放生产者
func (s *sink[T]) Dispose() {
	if s.stopped.CompareAndSwap(false, true) {
		s.release()
	}
}

func (s *sink[T]) IsDisposed() bool {
	return s.stopped.Load()
}
