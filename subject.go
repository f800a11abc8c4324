// Subject implementations for rxcore
// 主题：PublishSubject 语义的热源，以及 Variable 共用的广播列表
package rxcore

import (
	"context"
	"sync"
)

// ============================================================================
// broadcast 观察者列表
// ============================================================================

type broadcastEntry[T any] struct {
	id       uint64
	observer Observer[T]
}

// registration 一次订阅在广播列表中的登记状态，由 broadcast.mu 保护
type registration struct {
	id        uint64
	active    bool
	cancelled bool
}

// broadcast 热数据源共用的观察者列表
//
// Every add and every publish runs as a task on serial, so observers see
// events in exactly the order they were scheduled. Removal happens at once
// under mu.
type broadcast[T any] struct {
	serial trampoline

	mu        sync.Mutex
	nextID    uint64
	observers []broadcastEntry[T]
	terminal  *Event[T]
}

// add registers observer; it must run on serial. A registration cancelled
// before its turn is skipped. When the broadcast already terminated the
// terminal event is replayed instead. ok reports whether observer was added.
func (b *broadcast[T]) add(reg *registration, observer Observer[T]) (ok bool) {
	b.mu.Lock()
	if reg.cancelled {
		b.mu.Unlock()
		return false
	}
	if b.terminal != nil {
		terminal := *b.terminal
		b.mu.Unlock()
		observer(terminal)
		return false
	}
	b.nextID++
	reg.id = b.nextID
	reg.active = true
	b.observers = append(b.observers, broadcastEntry[T]{id: reg.id, observer: observer})
	b.mu.Unlock()
	return true
}

// publish 向当前观察者发送 e，必须在 serial 上执行
func (b *broadcast[T]) publish(e Event[T]) {
	b.mu.Lock()
	if b.terminal != nil {
		b.mu.Unlock()
		return
	}
	observers := make([]broadcastEntry[T], len(b.observers))
	copy(observers, b.observers)
	if e.IsTerminal() {
		b.terminal = &e
		b.observers = nil
	}
	b.mu.Unlock()

	for _, entry := range observers {
		entry.observer(e)
	}
}

func (b *broadcast[T]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

// subscription 返回注销 reg 的 Disposable
//
// The observer is unregistered before Dispose returns, even while another
// goroutine is draining serial. A publish that already took its snapshot may
// still call it; the subscription's sink has stopped delivery by then.
func (b *broadcast[T]) subscription(reg *registration) Disposable {
	return NewDisposable(func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		reg.cancelled = true
		if !reg.active {
			return
		}
		reg.active = false
		for i, entry := range b.observers {
			if entry.id == reg.id {
				b.observers = append(b.observers[:i], b.observers[i+1:]...)
				return
			}
		}
	})
}

// ============================================================================
// Subject 主题
// ============================================================================

// Subject 热数据源，OnNext 推送的值只发给此刻已订阅的观察者
//
// Observers that subscribe after termination receive the terminal event only.
type Subject[T any] struct {
	b broadcast[T]
}

// NewSubject 创建没有观察者的 Subject
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// OnNext 向所有当前观察者发送 value
func (s *Subject[T]) OnNext(value T) {
	s.b.serial.Schedule(func() { s.b.publish(NextEvent(value)) })
}

// OnError 以 err 结束所有观察者
func (s *Subject[T]) OnError(err error) {
	s.b.serial.Schedule(func() { s.b.publish(ErrorEvent[T](err)) })
}

// OnCompleted 通知所有观察者完成
func (s *Subject[T]) OnCompleted() {
	s.b.serial.Schedule(func() { s.b.publish(CompletedEvent[T]()) })
}

// AsObserver 返回Observer函数，用于让 Subject 订阅其他 Observable
func (s *Subject[T]) AsObserver() Observer[T] {
	return func(e Event[T]) {
		s.b.serial.Schedule(func() { s.b.publish(e) })
	}
}

// HasObservers 检查是否有观察者
func (s *Subject[T]) HasObservers() bool {
	return s.b.len() > 0
}

// AsObservable 返回 Subject 的 Observable 视图
func (s *Subject[T]) AsObservable() Observable[T] {
	return Create(func(_ context.Context, observer Observer[T]) Disposable {
		reg := &registration{}
		s.b.serial.Schedule(func() { s.b.add(reg, observer) })
		return s.b.subscription(reg)
	})
}
