// Package rxcore provides reactive programming primitives for Go.
// 响应式事件流核心：Observable、Observer、Disposable 以及转换操作符
package rxcore

import "fmt"

// ============================================================================
// 核心类型定义
// ============================================================================

// EventKind 事件类型标签
type EventKind uint8

const (
	// KindNext 携带一个值
	KindNext EventKind = iota
	// KindError 以错误结束序列
	KindError
	// KindCompleted 正常结束序列
	KindCompleted
)

func (k EventKind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindCompleted:
		return "completed"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event 表示流中的一个通知，包含值、错误或完成信号
// Exactly one of Value (KindNext) or Err (KindError) is meaningful.
type Event[T any] struct {
	Kind  EventKind
	Value T
	Err   error
}

// NextEvent 创建数据事件
func NextEvent[T any](value T) Event[T] {
	return Event[T]{Kind: KindNext, Value: value}
}

// ErrorEvent 创建错误事件
func ErrorEvent[T any](err error) Event[T] {
	return Event[T]{Kind: KindError, Err: err}
}

// CompletedEvent 创建完成事件
func CompletedEvent[T any]() Event[T] {
	return Event[T]{Kind: KindCompleted}
}

// IsTerminal 检查事件是否为终止事件
func (e Event[T]) IsTerminal() bool {
	return e.Kind != KindNext
}

func (e Event[T]) String() string {
	switch e.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", e.Value)
	case KindError:
		return fmt.Sprintf("error(%v)", e.Err)
	default:
		return e.Kind.String()
	}
}

// retype 将终止事件转换为另一元素类型
func retype[T, U any](e Event[T]) Event[U] {
	return Event[U]{Kind: e.Kind, Err: e.Err}
}

// ============================================================================
// 观察者
// ============================================================================

// Observer 观察者函数类型
type Observer[T any] func(Event[T])

// OnNext 发送下一个值
func (o Observer[T]) OnNext(value T) {
	o(NextEvent(value))
}

// OnError 发送错误
func (o Observer[T]) OnError(err error) {
	o(ErrorEvent[T](err))
}

// OnCompleted 发送完成信号
func (o Observer[T]) OnCompleted() {
	o(CompletedEvent[T]())
}

// ObserverFuncs 由回调函数构建 Observer，回调均可为 nil
// An error arriving with a nil onError is passed to the configured unhandled
// error handler.
func ObserverFuncs[T any](onNext func(T), onError func(error), onCompleted func()) Observer[T] {
	return func(e Event[T]) {
		switch e.Kind {
		case KindNext:
			if onNext != nil {
				onNext(e.Value)
			}
		case KindError:
			if onError != nil {
				onError(e.Err)
				return
			}
			currentConfig().unhandled(e.Err)
		case KindCompleted:
			if onCompleted != nil {
				onCompleted()
			}
		}
	}
}
