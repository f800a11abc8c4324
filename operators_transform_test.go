package rxcore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMap(t *testing.T) {
	t.Run("squares", func(t *testing.T) {
		var rec recorder[int]
		Of(1, 2, 3).Map(func(x int) int { return x * x }).Subscribe(rec.observer())

		assert.Equal(t, []int{1, 4, 9}, rec.values())
		assert.True(t, rec.completed())
	})

	t.Run("changes the element type", func(t *testing.T) {
		var rec recorder[string]
		Map(Of(1, 2), func(x int) string { return fmt.Sprintf("#%d", x) }).Subscribe(rec.observer())

		assert.Equal(t, []string{"#1", "#2"}, rec.values())
	})

	t.Run("passes errors through", func(t *testing.T) {
		boom := errors.New("boom")
		var rec recorder[int]
		Map(Throw[int](boom), func(x int) int { return x }).Subscribe(rec.observer())

		require.Len(t, rec.events, 1)
		assert.Same(t, boom, rec.last().Err)
	})

	t.Run("calls f once per element", func(t *testing.T) {
		calls := 0
		Map(Of(1, 2, 3), func(x int) int { calls++; return x }).Subscribe(nil)
		assert.Equal(t, 3, calls)
	})

	t.Run("panic becomes a transform error and stops the source", func(t *testing.T) {
		var (
			rec   recorder[int]
			calls int
		)
		Map(Of(1, 2, 3, 4), func(x int) int {
			calls++
			if x == 2 {
				panic("cannot map 2")
			}
			return x
		}).Subscribe(rec.observer())

		assert.Equal(t, []int{1}, rec.values())
		assert.Equal(t, 2, calls)

		var terr *TransformError
		require.ErrorAs(t, rec.last().Err, &terr)
		assert.Equal(t, "map", terr.Op)
		assert.Contains(t, terr.Error(), "cannot map 2")
	})
}

func TestTryMap(t *testing.T) {
	bad := errors.New("odd value")
	src := TryMap(Of(2, 4, 5, 6), func(x int) (int, error) {
		if x%2 != 0 {
			return 0, bad
		}
		return x / 2, nil
	})

	values, err := ToSlice(context.Background(), src)
	assert.Equal(t, []int{1, 2}, values)
	assert.ErrorIs(t, err, bad)

	var terr *TransformError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "map", terr.Op)
}

func TestMapProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.SliceOf(rapid.Int()).Draw(t, "input")
		offset := rapid.Int().Draw(t, "offset")
		f := func(x int) int { return x*3 + offset }

		var rec recorder[int]
		Map(FromSlice(input), f).Subscribe(rec.observer())

		require.Len(t, rec.events, len(input)+1)
		for i, v := range input {
			require.Equal(t, f(v), rec.events[i].Value)
		}
		require.True(t, rec.completed())
	})
}

func TestScan(t *testing.T) {
	t.Run("running sum", func(t *testing.T) {
		var rec recorder[int]
		Of(10, 100, 1000).
			Scan(1, func(aggregate, next int) int { return aggregate + next }).
			Subscribe(rec.observer())

		assert.Equal(t, []int{11, 111, 1111}, rec.values())
		assert.True(t, rec.completed())
	})

	t.Run("empty source never emits the seed", func(t *testing.T) {
		var rec recorder[int]
		Empty[int]().Scan(42, func(a, b int) int { return a + b }).Subscribe(rec.observer())

		assert.Empty(t, rec.values())
		assert.True(t, rec.completed())
	})

	t.Run("state is private to each subscription", func(t *testing.T) {
		src := Scan(Of("a", "b"), "", func(acc, s string) string { return acc + s })

		first, err := ToSlice(context.Background(), src)
		require.NoError(t, err)
		second, err := ToSlice(context.Background(), src)
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "ab"}, first)
		assert.Equal(t, []string{"a", "ab"}, second)
	})

	t.Run("failing accumulator", func(t *testing.T) {
		tooBig := errors.New("too big")
		src := TryScan(Of(1, 2, 3, 4), 0, func(acc, v int) (int, error) {
			if acc+v > 5 {
				return acc, tooBig
			}
			return acc + v, nil
		})

		values, err := ToSlice(context.Background(), src)
		assert.Equal(t, []int{1, 3}, values)
		assert.ErrorIs(t, err, tooBig)

		var terr *TransformError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "scan", terr.Op)
	})
}

func TestScanProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.SliceOf(rapid.IntRange(-1000, 1000)).Draw(t, "input")
		seed := rapid.IntRange(-1000, 1000).Draw(t, "seed")
		accumulate := func(acc, v int) int { return acc*2 - v }

		var rec recorder[int]
		Scan(FromSlice(input), seed, accumulate).Subscribe(rec.observer())

		values := rec.values()
		require.Len(t, values, len(input))
		state := seed
		for i, v := range input {
			state = accumulate(state, v)
			require.Equal(t, state, values[i], "element %d", i)
		}
		require.True(t, rec.completed())
	})
}
