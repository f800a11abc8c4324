package rxcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("Of", func(t *testing.T) {
		values, err := ToSlice(ctx, Of(1, 2, 3))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, values)
	})

	t.Run("FromSlice", func(t *testing.T) {
		values, err := ToSlice(ctx, FromSlice([]string{"x", "y"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, values)
	})

	t.Run("Empty", func(t *testing.T) {
		var rec recorder[int]
		Empty[int]().Subscribe(rec.observer())
		require.Len(t, rec.events, 1)
		assert.True(t, rec.completed())
	})

	t.Run("Never", func(t *testing.T) {
		var rec recorder[int]
		d := Never[int]().Subscribe(rec.observer())
		assert.Empty(t, rec.events)
		assert.False(t, d.IsDisposed())
		d.Dispose()
	})

	t.Run("Throw", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ToSlice(ctx, Throw[int](boom))
		assert.Same(t, boom, err)
	})

	t.Run("Defer builds a fresh source per subscription", func(t *testing.T) {
		calls := 0
		src := Defer(func() Observable[int] {
			calls++
			return Of(calls)
		})
		first, err := ToSlice(ctx, src)
		require.NoError(t, err)
		second, err := ToSlice(ctx, src)
		require.NoError(t, err)

		assert.Equal(t, []int{1}, first)
		assert.Equal(t, []int{2}, second)
	})

	t.Run("Defer factory panic", func(t *testing.T) {
		_, err := ToSlice(ctx, Defer(func() Observable[int] { panic("no source") }))
		var perr *ProducerError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("Interval ticks until disposed", func(t *testing.T) {
		ticks := make(chan int, 16)
		d := Interval(time.Millisecond).SubscribeNext(func(n int) { ticks <- n })

		for want := 0; want < 3; want++ {
			select {
			case got := <-ticks:
				assert.Equal(t, want, got)
			case <-time.After(time.Second):
				t.Fatal("interval did not tick")
			}
		}
		d.Dispose()
	})

	t.Run("FromChannel", func(t *testing.T) {
		ch := make(chan int)
		go func() {
			defer close(ch)
			for i := 1; i <= 3; i++ {
				ch <- i
			}
		}()
		values, err := ToSlice(ctx, FromChannel(ch))
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, values)
	})
}
