// Serial task queue for rxcore
// 当前线程调度：任务排队并由正在执行的调用方依次执行
package rxcore

import (
	"context"
	"sync"

	"github.com/ef-ds/deque"
)

// ============================================================================
// trampoline 串行任务队列
// ============================================================================

// trampoline 串行任务队列，按提交顺序逐个执行任务
//
// The goroutine that finds the queue idle drains it; every other caller,
// whether concurrent or re-entrant from inside a task, only enqueues and
// returns. Nothing ever blocks waiting for another task to finish.
type trampoline struct {
	mu      sync.Mutex
	queue   deque.Deque
	running bool
}

// Schedule 提交任务，队列空闲时由调用方直接执行
func (t *trampoline) Schedule(task func()) {
	if t.push(task) {
		t.drain()
	}
}

// push enqueues task and reports whether the caller became responsible for
// draining. Callers that need their enqueue order to match some other lock
// push under that lock and drain after releasing it.
func (t *trampoline) push(task func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.queue.PushBack(task)
	if t.running {
		return false
	}
	t.running = true
	return true
}

func (t *trampoline) drain() {
	// A panicking task must not leave the queue marked as running, or every
	// later task would be queued forever.
	defer func() {
		if r := recover(); r != nil {
			t.mu.Lock()
			t.running = false
			t.mu.Unlock()
			panic(r)
		}
	}()

	for {
		t.mu.Lock()
		next, ok := t.queue.PopFront()
		if !ok {
			t.running = false
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()

		next.(func())()
	}
}

// Len 返回等待执行的任务数
func (t *trampoline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queue.Len()
}

// ============================================================================
// 订阅树共享的当前线程调度器
// ============================================================================

type currentThreadKey struct{}

// currentThread 返回订阅树共享的 trampoline，不存在时返回 nil
func currentThread(ctx context.Context) *trampoline {
	t, _ := ctx.Value(currentThreadKey{}).(*trampoline)
	return t
}

// withCurrentThread attaches a fresh trampoline to ctx unless one is already
// there. owner is true when the caller created it and must run the
// subscription through it.
func withCurrentThread(ctx context.Context) (_ context.Context, t *trampoline, owner bool) {
	if t = currentThread(ctx); t != nil {
		return ctx, t, false
	}
	t = &trampoline{}
	return context.WithValue(ctx, currentThreadKey{}, t), t, true
}

// scheduleRecursive 在订阅树的 trampoline 上反复执行 step，直到返回 false
//
// Each call of step runs as its own task, so synchronous producers emit one
// element per turn and every producer of a subscription tree gets its turn:
// an endless source cannot starve the outer sequence of a flatten operator.
// Without a trampoline in ctx the steps simply run in a loop.
func scheduleRecursive(ctx context.Context, step func() bool) {
	t := currentThread(ctx)
	if t == nil {
		for step() {
		}
		return
	}
	var next func()
	next = func() {
		if step() {
			t.Schedule(next)
		}
	}
	t.Schedule(next)
}
