// Observable implementation for rxcore
// Observable 核心实现：订阅、取消与链式操作符
package rxcore

import "context"

// ============================================================================
// Observable 核心实现
// ============================================================================

// SubscribeFunc 为一次订阅生产数据的函数
//
// ctx is done as soon as the subscription terminates or is disposed; long
// running or looping producers must watch it. The returned Disposable, which
// may be nil, is disposed when the subscription ends.
type SubscribeFunc[T any] func(ctx context.Context, observer Observer[T]) Disposable

// Observable 惰性的推送式序列，零值不可用，需通过 Create 或工厂函数创建
//
// Observables are immutable values. Every subscription runs the producer
// afresh unless the producer itself shares state, as Variable and Subject do.
type Observable[T any] struct {
	subscribe SubscribeFunc[T]
}

// Create 由生产函数创建 Observable
func Create[T any](subscribe SubscribeFunc[T]) Observable[T] {
	return Observable[T]{subscribe: subscribe}
}

// Subscribe 订阅观察者，返回用于取消订阅的句柄
func (o Observable[T]) Subscribe(observer Observer[T]) Disposable {
	return o.SubscribeContext(context.Background(), observer)
}

// SubscribeContext 带父上下文订阅，ctx 结束时订阅随之释放
//
// The observer is never called concurrently nor re-entrantly, and never again
// after an error or completion. A panic raised while producing is delivered
// as a *ProducerError and does not escape SubscribeContext.
//
// The outermost subscription of a tree owns a trampoline that nested
// subscriptions and synchronous producers share; synchronous sources have
// produced everything they can by the time SubscribeContext returns.
func (o Observable[T]) SubscribeContext(ctx context.Context, observer Observer[T]) Disposable {
	if observer == nil {
		observer = func(Event[T]) {}
	}
	if ctx.Err() != nil {
		return Disposed()
	}

	ctx, thread, owner := withCurrentThread(ctx)
	s := newSink(ctx, observer)
	run := func() {
		if o.subscribe == nil {
			s.on(ErrorEvent[T](&ProducerError{Err: ErrNilObservable}))
			return
		}
		var upstream Disposable
		if err := safeCall(func() { upstream = o.subscribe(s.ctx, s.on) }); err != nil {
			s.on(ErrorEvent[T](&ProducerError{Err: err}))
		}
		s.setUpstream(upstream)
	}
	if owner {
		thread.Schedule(run)
	} else {
		run()
	}
	return s
}

// SubscribeWithCallbacks 使用回调函数订阅，回调均可为 nil
func (o Observable[T]) SubscribeWithCallbacks(onNext func(T), onError func(error), onCompleted func()) Disposable {
	return o.Subscribe(ObserverFuncs(onNext, onError, onCompleted))
}

// SubscribeNext 只订阅数据值
func (o Observable[T]) SubscribeNext(onNext func(T)) Disposable {
	return o.Subscribe(ObserverFuncs(onNext, nil, nil))
}

// ============================================================================
// 链式操作符（元素类型不变）
// ============================================================================

// Map 链式映射，元素类型不变
func (o Observable[T]) Map(f func(T) T) Observable[T] {
	return Map(o, f)
}

// Scan 链式累积，累积值与元素同类型
func (o Observable[T]) Scan(seed T, accumulate func(T, T) T) Observable[T] {
	return Scan(o, seed, accumulate)
}

// FlatMap 链式 FlatMap
func (o Observable[T]) FlatMap(project func(T) Observable[T]) Observable[T] {
	return FlatMap(o, project)
}

// FlatMapLatest 链式 FlatMapLatest
func (o Observable[T]) FlatMapLatest(project func(T) Observable[T]) Observable[T] {
	return FlatMapLatest(o, project)
}
