package vdom

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDeferSettles(t *testing.T) {
	d := Defer(context.Background(), func(context.Context) (any, error) {
		time.Sleep(5 * time.Millisecond)
		return "done", nil
	})

	v, err := d.Await(context.Background())
	if err != nil || v != "done" {
		t.Fatalf("Await = %v, %v", v, err)
	}
	if !d.Settled() {
		t.Error("should be settled after Await")
	}
	select {
	case <-d.Done():
	default:
		t.Error("Done should be closed")
	}
}

func TestDeferPanicRejects(t *testing.T) {
	d := Defer(context.Background(), func(context.Context) (any, error) {
		panic("kaboom")
	})

	_, err := d.Await(context.Background())
	var pe *PanicError
	if !errors.As(err, &pe) || err.Error() != "kaboom" {
		t.Errorf("err = %v, want PanicError kaboom", err)
	}
}

func TestDeferCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := make(chan struct{}, 1)
	d := Defer(ctx, func(context.Context) (any, error) {
		ran <- struct{}{}
		return nil, nil
	})
	<-d.Done()

	if _, err := d.Await(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(ran) != 0 {
		t.Error("fn should not run after cancellation")
	}
}

func TestAwaitRespectsContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	d := Defer(context.Background(), func(context.Context) (any, error) {
		<-block
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if _, err := d.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestResolveReject(t *testing.T) {
	if v, err := Resolve(1).Await(context.Background()); v != 1 || err != nil {
		t.Errorf("Resolve = %v, %v", v, err)
	}
	boom := errors.New("boom")
	if _, err := Reject(boom).Await(context.Background()); err != boom {
		t.Errorf("Reject = %v", err)
	}
}

func TestRecover(t *testing.T) {
	_, err := Recover(func() (any, error) { panic(errors.New("inner")) })
	if err == nil || err.Error() != "inner" {
		t.Errorf("err = %v, want inner", err)
	}

	v, err := Recover(func() (any, error) { return 3, nil })
	if v != 3 || err != nil {
		t.Errorf("Recover = %v, %v", v, err)
	}
}
