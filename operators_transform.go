// Transforming operators for rxcore
// 转换操作符：Map、Scan
package rxcore

import "context"

// ============================================================================
// Map 映射操作符
// ============================================================================

// Map 对每个值应用 f，错误与完成信号直接传递
// A panic in f terminates the sequence with a *TransformError.
func Map[T, U any](src Observable[T], f func(T) U) Observable[U] {
	return TryMap(src, func(v T) (U, error) { return f(v), nil })
}

// TryMap 可失败的 Map，首个错误以 *TransformError 结束序列并释放数据源
func TryMap[T, U any](src Observable[T], f func(T) (U, error)) Observable[U] {
	return tryMap("map", src, f)
}

func tryMap[T, U any](op string, src Observable[T], f func(T) (U, error)) Observable[U] {
	return Create(func(ctx context.Context, observer Observer[U]) Disposable {
		return src.SubscribeContext(ctx, func(e Event[T]) {
			if e.Kind != KindNext {
				observer(retype[T, U](e))
				return
			}
			result, err := transform(op, f, e.Value)
			if err != nil {
				observer.OnError(err)
				return
			}
			observer.OnNext(result)
		})
	})
}

// ============================================================================
// Scan 累积操作符
// ============================================================================

// Scan 从 seed 开始累积并发送每个中间状态，不发送 seed 本身
// Each subscription starts again from seed.
func Scan[T, S any](src Observable[T], seed S, accumulate func(S, T) S) Observable[S] {
	return TryScan(src, seed, func(state S, v T) (S, error) { return accumulate(state, v), nil })
}

// TryScan 可失败的 Scan
func TryScan[T, S any](src Observable[T], seed S, accumulate func(S, T) (S, error)) Observable[S] {
	return Create(func(ctx context.Context, observer Observer[S]) Disposable {
		state := seed
		step := func(v T) (S, error) { return accumulate(state, v) }
		return src.SubscribeContext(ctx, func(e Event[T]) {
			if e.Kind != KindNext {
				observer(retype[T, S](e))
				return
			}
			next, err := transform("scan", step, e.Value)
			if err != nil {
				observer.OnError(err)
				return
			}
			state = next
			observer.OnNext(state)
		})
	})
}
