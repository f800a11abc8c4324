package rxcore

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNilObservable 投影函数返回了未经 Create 或工厂函数构建的 Observable
var ErrNilObservable = errors.New("projection returned a nil observable")

// ProducerError 数据源生产数据时发生的错误
type ProducerError struct {
	Err error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("producer failed: %v", e.Err)
}

func (e *ProducerError) Unwrap() error {
	return e.Err
}

// TransformError 用户函数失败的错误，Op 为调用它的操作符名，如 "map"、"scan"
type TransformError struct {
	Op  string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// DisposalError 释放动作 panic 时的错误
// It is only ever logged; dispose never fails towards the caller.
type DisposalError struct {
	Err error
}

func (e *DisposalError) Error() string {
	return fmt.Sprintf("dispose action failed: %v", e.Err)
}

func (e *DisposalError) Unwrap() error {
	return e.Err
}

// panicError 将 recover 得到的值转换为带堆栈的错误
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("panic: %v", r)
}

// safeCall 执行 fn，并将 panic 作为错误返回
func safeCall(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	fn()
	return nil
}

// transform runs a user function on behalf of operator op. Both a returned
// error and a panic come back as a *TransformError.
func transform[T, U any](op string, fn func(T) (U, error), value T) (result U, err error) {
	if perr := safeCall(func() { result, err = fn(value) }); perr != nil {
		return result, &TransformError{Op: op, Err: perr}
	}
	if err != nil {
		return result, &TransformError{Op: op, Err: err}
	}
	return result, nil
}
