package rxcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panicky is a foreign Disposable whose Dispose panics.
type panicky struct {
	calls int
}

func (p *panicky) Dispose() {
	p.calls++
	panic("dispose exploded")
}

func (p *panicky) IsDisposed() bool { return p.calls > 0 }

func TestNewDisposable(t *testing.T) {
	t.Run("runs the action once", func(t *testing.T) {
		calls := 0
		d := NewDisposable(func() { calls++ })
		assert.False(t, d.IsDisposed())

		d.Dispose()
		d.Dispose()

		assert.True(t, d.IsDisposed())
		assert.Equal(t, 1, calls)
	})

	t.Run("nil action", func(t *testing.T) {
		d := NewDisposable(nil)
		assert.NotPanics(t, d.Dispose)
		assert.True(t, d.IsDisposed())
	})

	t.Run("panicking action is logged and swallowed", func(t *testing.T) {
		buf := captureLog(t)
		d := NewDisposable(func() { panic("bad cleanup") })

		assert.NotPanics(t, d.Dispose)
		assert.True(t, d.IsDisposed())
		assert.Contains(t, buf.String(), "bad cleanup")
		assert.Contains(t, buf.String(), "dispose action failed")
	})

	t.Run("Disposed is already disposed", func(t *testing.T) {
		d := Disposed()
		assert.True(t, d.IsDisposed())
		assert.NotPanics(t, d.Dispose)
	})
}

func TestCompositeDisposable(t *testing.T) {
	t.Run("disposes everything in insertion order once", func(t *testing.T) {
		var order []int
		cd := NewCompositeDisposable()
		for i := 0; i < 3; i++ {
			i := i
			cd.Add(NewDisposable(func() { order = append(order, i) }))
		}
		require.Equal(t, 3, cd.Len())

		cd.Dispose()
		cd.Dispose()

		assert.Equal(t, []int{0, 1, 2}, order)
		assert.True(t, cd.IsDisposed())
		assert.Equal(t, 0, cd.Len())
	})

	t.Run("late add is disposed immediately", func(t *testing.T) {
		cd := NewCompositeDisposable()
		cd.Dispose()

		d := NewDisposable(nil)
		cd.Add(d)
		assert.True(t, d.IsDisposed())
		assert.Equal(t, 0, cd.Len())
	})

	t.Run("remove does not dispose", func(t *testing.T) {
		d := NewDisposable(nil)
		cd := NewCompositeDisposable(d)
		cd.Remove(d)
		cd.Dispose()

		assert.False(t, d.IsDisposed())
	})

	t.Run("foreign panic does not stop the rest", func(t *testing.T) {
		captureLog(t)
		bad := &panicky{}
		good := NewDisposable(nil)
		cd := NewCompositeDisposable(bad, good)

		assert.NotPanics(t, cd.Dispose)
		assert.Equal(t, 1, bad.calls)
		assert.True(t, good.IsDisposed())
	})
}

func TestSerialDisposable(t *testing.T) {
	first := NewDisposable(nil)
	second := NewDisposable(nil)

	sd := NewSerialDisposable()
	sd.Set(first)
	assert.False(t, first.IsDisposed())

	sd.Set(second)
	assert.True(t, first.IsDisposed(), "replacing disposes the previous resource")
	assert.False(t, second.IsDisposed())

	sd.Dispose()
	assert.True(t, second.IsDisposed())
	assert.True(t, sd.IsDisposed())

	late := NewDisposable(nil)
	sd.Set(late)
	assert.True(t, late.IsDisposed(), "set after dispose disposes immediately")
}
