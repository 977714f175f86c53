package vdom

import (
	"context"
	"fmt"
)

// Deferred is a value that settles later, either to a renderable value or
// to an error. It is safe to await from multiple goroutines.
type Deferred struct {
	value any
	err   error
	done  chan struct{}
}

// Defer starts fn on a new goroutine and returns its pending result.
// A panic in fn rejects the Deferred instead of crashing the process.
func Defer(ctx context.Context, fn func(ctx context.Context) (any, error)) *Deferred {
	d := &Deferred{done: make(chan struct{})}

	go func() {
		defer close(d.done)
		defer func() {
			if r := recover(); r != nil {
				d.value, d.err = nil, panicError(r)
			}
		}()

		// Early exit when the render was cancelled before we got scheduled
		if err := ctx.Err(); err != nil {
			d.err = err
			return
		}
		d.value, d.err = fn(ctx)
	}()

	return d
}

// Resolve returns an already settled Deferred holding v.
func Resolve(v any) *Deferred {
	d := &Deferred{value: v, done: make(chan struct{})}
	close(d.done)
	return d
}

// Reject returns an already settled Deferred failing with err.
func Reject(err error) *Deferred {
	d := &Deferred{err: err, done: make(chan struct{})}
	close(d.done)
	return d
}

// Await blocks until d settles or ctx is done.
func (d *Deferred) Await(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.value, d.err
	default:
	}
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed when d settles.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Settled reports whether d has settled without blocking.
func (d *Deferred) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// PanicError carries a recovered panic value.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func panicError(r any) error {
	return &PanicError{Value: r}
}

// Recover converts a panic raised by fn into an error.
func Recover(fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, panicError(r)
		}
	}()
	return fn()
}
