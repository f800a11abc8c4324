// Variable for rxcore
// 可变单元：保存当前值，新订阅者立即收到当前值，随后收到每次修改
package rxcore

import (
	"context"
	"sync"
)

// Variable 可变单元，带有 Observable 视图
//
// Subscribing emits the current value at once and then every later value, in
// the order the writes happened, including writes made from inside an
// observer.
type Variable[T any] struct {
	b broadcast[T]

	mu        sync.RWMutex
	value     T
	completed bool
}

// NewVariable 创建持有 initial 的 Variable
func NewVariable[T any](initial T) *Variable[T] {
	return &Variable[T]{value: initial}
}

// Value 返回当前值
func (v *Variable[T]) Value() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set 保存 value 并发送给所有观察者
func (v *Variable[T]) Set(value T) {
	v.Update(func(T) T { return value })
}

// Update 原子地以 f(当前值) 替换当前值并发送结果
//
// f runs under the Variable's lock and must not access the Variable.
func (v *Variable[T]) Update(f func(T) T) {
	v.mu.Lock()
	v.value = f(v.value)
	value := v.value
	drain := v.b.serial.push(func() { v.b.publish(NextEvent(value)) })
	v.mu.Unlock()

	if drain {
		v.b.serial.drain()
	}
}

// Complete 通知所有观察者完成，之后的写入只更新 Value，不再发送
func (v *Variable[T]) Complete() {
	v.mu.Lock()
	if v.completed {
		v.mu.Unlock()
		return
	}
	v.completed = true
	drain := v.b.serial.push(func() { v.b.publish(CompletedEvent[T]()) })
	v.mu.Unlock()

	if drain {
		v.b.serial.drain()
	}
}

// AsObservable 返回 Variable 的 Observable 视图，订阅时立即发送当前值
func (v *Variable[T]) AsObservable() Observable[T] {
	return Create(func(_ context.Context, observer Observer[T]) Disposable {
		reg := &registration{}
		v.mu.RLock()
		current := v.value
		drain := v.b.serial.push(func() {
			if v.b.add(reg, observer) {
				observer.OnNext(current)
			}
		})
		v.mu.RUnlock()

		if drain {
			v.b.serial.drain()
		}
		return v.b.subscription(reg)
	})
}
