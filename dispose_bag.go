package rxcore

import (
	"sync"

	"github.com/hashicorp/go-multierror"
)

// DisposeBag 释放袋，持有一个作用域内的 Disposable 并在作用域结束时统一释放
//
//	bag := rxcore.NewDisposeBag()
//	defer bag.Dispose()
//	rxcore.AddTo(rxcore.Of(1, 2, 3).SubscribeNext(print), bag)
type DisposeBag struct {
	mu          sync.Mutex
	disposed    bool
	disposables []Disposable
}

// NewDisposeBag 创建空的释放袋
func NewDisposeBag() *DisposeBag {
	return &DisposeBag{}
}

// Add 将 disposable 交给释放袋，释放袋已释放时立即释放它
func (b *DisposeBag) Add(disposable Disposable) {
	if disposable == nil {
		return
	}
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		if err := disposeSafely(disposable); err != nil {
			reportDisposalError(err)
		}
		return
	}
	b.disposables = append(b.disposables, disposable)
	b.mu.Unlock()
}

// Dispose 按添加顺序释放所有资源并清空释放袋，重复调用无效果
// A Disposable that panics is logged and does not stop the rest from being
// disposed.
func (b *DisposeBag) Dispose() {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	b.disposed = true
	disposables := b.disposables
	b.disposables = nil
	b.mu.Unlock()

	var result *multierror.Error
	for _, d := range disposables {
		if err := disposeSafely(d); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		logger().Error().
			Err(err).
			Int("failed", len(result.Errors)).
			Int("total", len(disposables)).
			Msg("dispose bag released resources with failures")
	}
}

// IsDisposed 检查是否已释放
func (b *DisposeBag) IsDisposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disposed
}

// Len 返回当前持有的资源数
func (b *DisposeBag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.disposables)
}

// AddTo 将 d 加入释放袋并返回 d，用于订阅链末尾
func AddTo(d Disposable, bag *DisposeBag) Disposable {
	bag.Add(d)
	return d
}
