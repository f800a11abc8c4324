// Blocking operators for rxcore
// 阻塞操作符：BlockingSubscribe、ToSlice、BlockingFirst
package rxcore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoElements 序列没有发送任何值就完成
var ErrNoElements = errors.New("sequence completed without elements")

// ============================================================================
// 阻塞操作符实现
// ============================================================================

// BlockingSubscribe 阻塞订阅，直到序列结束或 ctx 结束
// It returns the sequence's error, or ctx.Err() if the wait was cut short.
func BlockingSubscribe[T any](ctx context.Context, src Observable[T], observer Observer[T]) error {
	done := make(chan error, 1)
	subscription := src.SubscribeContext(ctx, func(e Event[T]) {
		if observer != nil {
			observer(e)
		}
		switch e.Kind {
		case KindError:
			done <- e.Err
		case KindCompleted:
			done <- nil
		}
	})
	defer subscription.Dispose()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ToSlice 阻塞收集所有值，出错时同时返回已收到的值
func ToSlice[T any](ctx context.Context, src Observable[T]) ([]T, error) {
	var (
		mu    sync.Mutex
		items []T
	)
	err := BlockingSubscribe(ctx, src, func(e Event[T]) {
		if e.Kind == KindNext {
			mu.Lock()
			items = append(items, e.Value)
			mu.Unlock()
		}
	})
	mu.Lock()
	defer mu.Unlock()
	return items, err
}

// BlockingFirst 阻塞获取第一个值并释放订阅
func BlockingFirst[T any](ctx context.Context, src Observable[T]) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	first := make(chan result, 1)
	subscription := src.SubscribeContext(ctx, func(e Event[T]) {
		switch e.Kind {
		case KindNext:
			first <- result{value: e.Value}
			cancel()
		case KindError:
			first <- result{err: e.Err}
		case KindCompleted:
			first <- result{err: ErrNoElements}
		}
	})
	defer subscription.Dispose()

	select {
	case r := <-first:
		return r.value, r.err
	case <-ctx.Done():
		// cancel() after the first value races with the channel read.
		select {
		case r := <-first:
			return r.value, r.err
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}
