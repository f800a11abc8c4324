// Side effect operators for rxcore
// 副作用操作符：Do、DoOnNext、DoOnSubscribe、DoOnDispose
package rxcore

import "context"

// ============================================================================
// 副作用操作符实现
// ============================================================================

// Do 在传递每个事件前调用 onEvent
// A panic in onEvent terminates the sequence with a *TransformError.
func Do[T any](src Observable[T], onEvent func(Event[T])) Observable[T] {
	return Create(func(ctx context.Context, observer Observer[T]) Disposable {
		return src.SubscribeContext(ctx, func(e Event[T]) {
			if err := safeCall(func() { onEvent(e) }); err != nil {
				observer.OnError(&TransformError{Op: "do", Err: err})
				return
			}
			observer(e)
		})
	})
}

// DoOnNext 在传递每个值前调用 action
func DoOnNext[T any](src Observable[T], action func(T)) Observable[T] {
	return Do(src, func(e Event[T]) {
		if e.Kind == KindNext {
			action(e.Value)
		}
	})
}

// DoOnSubscribe 每次订阅开始前调用 action
func DoOnSubscribe[T any](src Observable[T], action func()) Observable[T] {
	return Create(func(ctx context.Context, observer Observer[T]) Disposable {
		action()
		return src.SubscribeContext(ctx, observer)
	})
}

// DoOnDispose 订阅结束时调用 action，无论是释放还是终止
func DoOnDispose[T any](src Observable[T], action func()) Observable[T] {
	return Create(func(ctx context.Context, observer Observer[T]) Disposable {
		return NewCompositeDisposable(
			src.SubscribeContext(ctx, observer),
			NewDisposable(action),
		)
	})
}
