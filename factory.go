// Factory functions for rxcore
// 创建 Observable 的工厂函数
package rxcore

import (
	"context"
	"time"
)

// ============================================================================
// 同步数据源
// ============================================================================

// produce runs step on the subscription tree's trampoline until it returns
// false. A panic inside step ends the sequence with a *ProducerError.
func produce[T any](ctx context.Context, observer Observer[T], step func() bool) {
	scheduleRecursive(ctx, func() (more bool) {
		if ctx.Err() != nil {
			return false
		}
		if err := safeCall(func() { more = step() }); err != nil {
			observer.OnError(&ProducerError{Err: err})
			return false
		}
		return more
	})
}

// Of 依次发送给定的值，然后完成
func Of[T any](values ...T) Observable[T] {
	return FromSlice(values)
}

// FromSlice 依次发送切片中的元素，然后完成
//
// Elements are emitted one per trampoline turn, so a FromSlice outer
// interleaves with the inner sequences it feeds. The slice is read at
// subscription time.
func FromSlice[T any](items []T) Observable[T] {
	return Create(func(ctx context.Context, observer Observer[T]) Disposable {
		i := 0
		produce(ctx, observer, func() bool {
			if i == len(items) {
				observer.OnCompleted()
				return false
			}
			item := items[i]
			i++
			observer.OnNext(item)
			return true
		})
		return nil
	})
}

// Empty 不发送任何值，直接完成
func Empty[T any]() Observable[T] {
	return Create(func(_ context.Context, observer Observer[T]) Disposable {
		observer.OnCompleted()
		return nil
	})
}

// Never 不发送任何值，也永不结束
func Never[T any]() Observable[T] {
	return Create(func(context.Context, Observer[T]) Disposable {
		return nil
	})
}

// Throw 立即以 err 结束
func Throw[T any](err error) Observable[T] {
	return Create(func(_ context.Context, observer Observer[T]) Disposable {
		observer.OnError(err)
		return nil
	})
}

// Defer 每次订阅时调用 factory，并订阅其返回的 Observable
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return Create(func(ctx context.Context, observer Observer[T]) Disposable {
		var src Observable[T]
		if err := safeCall(func() { src = factory() }); err != nil {
			observer.OnError(&ProducerError{Err: err})
			return nil
		}
		return src.SubscribeContext(ctx, observer)
	})
}

// Repeat 无限重复发送 value，直到订阅被释放
//
// Like FromSlice it emits one value per trampoline turn, which leaves room
// for the rest of the subscription tree to run and to dispose it.
func Repeat[T any](value T) Observable[T] {
	return Create(func(ctx context.Context, observer Observer[T]) Disposable {
		produce(ctx, observer, func() bool {
			observer.OnNext(value)
			return true
		})
		return nil
	})
}

// ============================================================================
// 异步数据源
// ============================================================================

// Interval 在独立的 goroutine 中每隔 period 发送 0, 1, 2, ...，直到订阅被释放
func Interval(period time.Duration) Observable[int] {
	return Create(func(ctx context.Context, observer Observer[int]) Disposable {
		ticker := time.NewTicker(period)
		go func() {
			defer ticker.Stop()
			for n := 0; ; n++ {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					observer.OnNext(n)
				}
			}
		}()
		return nil
	})
}

// FromChannel 发送从 ch 接收的元素，ch 关闭时完成
func FromChannel[T any](ch <-chan T) Observable[T] {
	return Create(func(ctx context.Context, observer Observer[T]) Disposable {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-ch:
					if !ok {
						observer.OnCompleted()
						return
					}
					observer.OnNext(item)
				}
			}
		}()
		return nil
	})
}
