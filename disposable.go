// Disposable implementations for rxcore
// 资源释放：基础 Disposable、组合式 Disposable 与串行 Disposable
package rxcore

import (
	"sync"

	"go.uber.org/atomic"
)

// ============================================================================
// 生命周期管理
// ============================================================================

// Disposable 可释放资源的接口
// Dispose must be safe to call any number of times from any goroutine.
type Disposable interface {
	// Dispose 释放资源
	Dispose()
	// IsDisposed 检查是否已释放
	IsDisposed() bool
}

// baseDisposable 基础可释放资源，动作最多执行一次
type baseDisposable struct {
	disposed atomic.Bool
	action   func()
}

// NewDisposable 创建在首次 Dispose 时执行 action 的 Disposable
// A panic in action is logged as a DisposalError and swallowed.
func NewDisposable(action func()) Disposable {
	return &baseDisposable{action: action}
}

func (d *baseDisposable) Dispose() {
	if !d.disposed.CompareAndSwap(false, true) {
		return
	}
	if d.action != nil {
		if err := safeCall(d.action); err != nil {
			reportDisposalError(err)
		}
	}
}

func (d *baseDisposable) IsDisposed() bool {
	return d.disposed.Load()
}

// Disposed 返回一个已释放的空 Disposable
func Disposed() Disposable {
	d := &baseDisposable{}
	d.disposed.Store(true)
	return d
}

// disposeSafely disposes d, converting a panic raised by a foreign
// implementation into a DisposalError.
func disposeSafely(d Disposable) error {
	if d == nil {
		return nil
	}
	if err := safeCall(d.Dispose); err != nil {
		return &DisposalError{Err: err}
	}
	return nil
}

func reportDisposalError(err error) {
	if _, ok := err.(*DisposalError); !ok {
		err = &DisposalError{Err: err}
	}
	logger().Error().Err(err).Msg("dispose action panicked")
}

// ============================================================================
// CompositeDisposable 组合式资源管理器
// ============================================================================

// CompositeDisposable 组合式可释放资源，统一释放一组资源
// Resources added after the group was disposed are disposed immediately.
type CompositeDisposable struct {
	mu        sync.Mutex
	disposed  bool
	resources []Disposable
}

// NewCompositeDisposable 创建组合式可释放资源
func NewCompositeDisposable(resources ...Disposable) *CompositeDisposable {
	cd := &CompositeDisposable{}
	for _, r := range resources {
		cd.Add(r)
	}
	return cd
}

// Add 添加可释放资源，已释放时立即释放它
func (cd *CompositeDisposable) Add(disposable Disposable) {
	if disposable == nil {
		return
	}
	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		if err := disposeSafely(disposable); err != nil {
			reportDisposalError(err)
		}
		return
	}
	cd.resources = append(cd.resources, disposable)
	cd.mu.Unlock()
}

// Remove 移除可释放资源但不释放它
func (cd *CompositeDisposable) Remove(disposable Disposable) {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	for i, r := range cd.resources {
		if r == disposable {
			cd.resources = append(cd.resources[:i], cd.resources[i+1:]...)
			return
		}
	}
}

// Len 返回当前持有的资源数
func (cd *CompositeDisposable) Len() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return len(cd.resources)
}

// Dispose 按添加顺序释放所有资源
func (cd *CompositeDisposable) Dispose() {
	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		return
	}
	cd.disposed = true
	resources := cd.resources
	cd.resources = nil
	cd.mu.Unlock()

	for _, r := range resources {
		if err := disposeSafely(r); err != nil {
			reportDisposalError(err)
		}
	}
}

func (cd *CompositeDisposable) IsDisposed() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.disposed
}

// ============================================================================
// SerialDisposable 串行资源管理器
// ============================================================================

// SerialDisposable 串行可释放资源，最多持有一个资源
// Replacing it disposes the previous one first.
type SerialDisposable struct {
	mu       sync.Mutex
	disposed bool
	current  Disposable
}

// NewSerialDisposable 创建空的串行可释放资源
func NewSerialDisposable() *SerialDisposable {
	return &SerialDisposable{}
}

// Set 释放当前资源并保存 next，已释放时立即释放 next
func (sd *SerialDisposable) Set(next Disposable) {
	sd.mu.Lock()
	if sd.disposed {
		sd.mu.Unlock()
		if err := disposeSafely(next); err != nil {
			reportDisposalError(err)
		}
		return
	}
	prev := sd.current
	sd.current = next
	sd.mu.Unlock()

	if err := disposeSafely(prev); err != nil {
		reportDisposalError(err)
	}
}

// Dispose 释放当前资源以及之后设置的所有资源
func (sd *SerialDisposable) Dispose() {
	sd.mu.Lock()
	if sd.disposed {
		sd.mu.Unlock()
		return
	}
	sd.disposed = true
	current := sd.current
	sd.current = nil
	sd.mu.Unlock()

	if err := disposeSafely(current); err != nil {
		reportDisposalError(err)
	}
}

func (sd *SerialDisposable) IsDisposed() bool {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.disposed
}
