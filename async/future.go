package async

import (
	"context"
	"sync"
)

// Callback receives the outcome of a Future. Exactly one of result and err
// is meaningful: err is nil on success, result is the zero value on failure.
type Callback[T any] func(result T, err error)

// Future is a value that settles once, either resolved with a result or
// rejected with an error. Any number of goroutines may wait on it.
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	result T
	err    error
}

// New returns a pending Future and the function that settles it. Only the
// first call to settle has an effect.
func New[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, f.settle
}

// Go runs fn in a new goroutine and returns a Future for its outcome.
func Go[T any](fn func() (T, error)) *Future[T] {
	f, settle := New[T]()
	go func() {
		settle(fn())
	}()
	return f
}

// Resolved returns a Future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f, settle := New[T]()
	settle(v, nil)
	return f
}

// Rejected returns a Future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f, settle := New[T]()
	var zero T
	settle(zero, err)
	return f
}

func (f *Future[T]) settle(v T, err error) {
	f.once.Do(func() {
		if err == nil {
			f.result = v
		}
		f.err = err
		close(f.done)
	})
}

// Done is closed when the Future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future settles or ctx is done. A done ctx only
// stops the wait; the Future still settles on its own.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking. ok is false while pending.
func (f *Future[T]) Result() (result T, ok bool, err error) {
	select {
	case <-f.done:
		return f.result, true, f.err
	default:
		var zero T
		return zero, false, nil
	}
}

// OnComplete calls cb once, from its own goroutine, after the Future
// settles. It never runs cb on the caller's goroutine, even when the
// Future has already settled.
func (f *Future[T]) OnComplete(cb Callback[T]) {
	if cb == nil {
		return
	}
	go func() {
		<-f.done
		cb(f.result, f.err)
	}()
}

// Then returns a Future settled with fn applied to f's result. Rejections
// of f pass through unchanged and fn is not called.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next, settle := New[U]()
	go func() {
		<-f.done
		if f.err != nil {
			var zero U
			settle(zero, f.err)
			return
		}
		settle(fn(f.result))
	}()
	return next
}

// Nodeify attaches cb to f when cb is non-nil and returns f itself, so a
// caller can consume one outcome through both a callback and the Future.
func Nodeify[T any](f *Future[T], cb Callback[T]) *Future[T] {
	f.OnComplete(cb)
	return f
}
