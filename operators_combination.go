// Combination operators for rxcore
// 组合操作符：Merge、FlatMap、SwitchLatest、FlatMapLatest
package rxcore

import (
	"context"
	"sync"
)

// ============================================================================
// Merge / FlatMap 合并操作符
// ============================================================================

// Merge 同时订阅所有数据源并交错发送它们的值
//
// It completes after all sources completed and fails on the first error,
// disposing the remaining sources.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return MergeAll(FromSlice(sources))
}

// MergeAll 展平序列的序列，每个内部序列到达即订阅，直到它自己结束
//
// A new inner never cancels an older one. The result completes once the
// outer and every inner sequence completed. The first error from any of them
// is forwarded and everything else is disposed.
func MergeAll[T any](sources Observable[Observable[T]]) Observable[T] {
	return mergeMap("mergeAll", sources, func(inner Observable[T]) Observable[T] { return inner })
}

// FlatMap 将每个值投影为 Observable，并像 MergeAll 一样合并结果
func FlatMap[T, U any](src Observable[T], project func(T) Observable[U]) Observable[U] {
	return mergeMap("flatMap", src, project)
}

// mergeMap projects values inline instead of building an Observable of
// Observables, so FlatMap over Observable[T] never instantiates a deeper
// nesting of itself.
func mergeMap[T, U any](op string, src Observable[T], project func(T) Observable[U]) Observable[U] {
	return Create(func(ctx context.Context, observer Observer[U]) Disposable {
		ctx, cancel := context.WithCancel(ctx)
		group := NewCompositeDisposable()

		var (
			mu     sync.Mutex
			active = 1 // the outer sequence
		)
		finish := func() {
			mu.Lock()
			active--
			done := active == 0
			mu.Unlock()
			if done {
				observer.OnCompleted()
			}
		}
		fail := func(err error) {
			observer.OnError(err)
			cancel()
		}

		outer := src.SubscribeContext(ctx, func(e Event[T]) {
			switch e.Kind {
			case KindError:
				fail(e.Err)
			case KindCompleted:
				finish()
			case KindNext:
				inner, err := projectInner(op, project, e.Value)
				if err != nil {
					fail(err)
					return
				}
				mu.Lock()
				active++
				mu.Unlock()

				slot := NewSerialDisposable()
				group.Add(slot)
				slot.Set(inner.SubscribeContext(ctx, func(ie Event[U]) {
					switch ie.Kind {
					case KindNext:
						observer(ie)
					case KindError:
						fail(ie.Err)
					case KindCompleted:
						group.Remove(slot)
						finish()
					}
				}))
			}
		})
		group.Add(outer)
		return NewDisposable(func() {
			group.Dispose()
			cancel()
		})
	})
}

// ============================================================================
// SwitchLatest / FlatMapLatest 切换操作符
// ============================================================================

// SwitchLatest 展平序列的序列，只镜像最新的内部序列
//
// Each new inner disposes the previous one before it is subscribed; values
// the previous one had in flight are dropped. The result completes once the
// outer and the current inner completed.
func SwitchLatest[T any](sources Observable[Observable[T]]) Observable[T] {
	return switchMap("switchLatest", sources, func(inner Observable[T]) Observable[T] { return inner })
}

// FlatMapLatest 将每个值投影为 Observable 并切换过去，释放上一个值投影出的 Observable
func FlatMapLatest[T, U any](src Observable[T], project func(T) Observable[U]) Observable[U] {
	return switchMap("flatMapLatest", src, project)
}

func switchMap[T, U any](op string, src Observable[T], project func(T) Observable[U]) Observable[U] {
	return Create(func(ctx context.Context, observer Observer[U]) Disposable {
		ctx, cancel := context.WithCancel(ctx)
		current := NewSerialDisposable()

		// Outer and inner events are handled one at a time on this queue, so
		// switching and forwarding never interleave. State below is only
		// touched from queued tasks.
		var (
			serial      trampoline
			latest      uint64
			innerActive bool
			outerDone   bool
			failed      bool
		)
		fail := func(err error) {
			failed = true
			observer.OnError(err)
			cancel()
		}

		onInner := func(id uint64, e Event[U]) {
			if failed || id != latest {
				return
			}
			switch e.Kind {
			case KindNext:
				observer(e)
			case KindError:
				fail(e.Err)
			case KindCompleted:
				innerActive = false
				if outerDone {
					observer.OnCompleted()
				}
			}
		}

		onOuter := func(e Event[T]) {
			if failed {
				return
			}
			switch e.Kind {
			case KindError:
				fail(e.Err)
			case KindCompleted:
				outerDone = true
				if !innerActive {
					observer.OnCompleted()
				}
			case KindNext:
				latest++
				id := latest
				current.Set(nil)
				inner, err := projectInner(op, project, e.Value)
				if err != nil {
					fail(err)
					return
				}
				innerActive = true
				current.Set(inner.SubscribeContext(ctx, func(ie Event[U]) {
					serial.Schedule(func() { onInner(id, ie) })
				}))
			}
		}

		outer := src.SubscribeContext(ctx, func(e Event[T]) {
			serial.Schedule(func() { onOuter(e) })
		})
		return NewCompositeDisposable(outer, current, NewDisposable(cancel))
	})
}

// projectInner runs project for operator op, reporting panics and zero
// Observables as a *TransformError.
func projectInner[T, U any](op string, project func(T) Observable[U], value T) (Observable[U], error) {
	return transform(op, func(v T) (Observable[U], error) {
		inner := project(v)
		if inner.subscribe == nil {
			return inner, ErrNilObservable
		}
		return inner, nil
	}, value)
}
