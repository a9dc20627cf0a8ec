package dispatch

import (
	"context"
	"time"
)

type timeoutDispatcher struct {
	inner   Dispatcher
	timeout time.Duration
}

// WithTimeout bounds every call to inner. A dispatcher that ignores its
// context is abandoned when the limit passes and ErrDispatchTimeout is returned.
// Each member of a Multi gets its own limit.
func WithTimeout(inner Dispatcher, timeout time.Duration) Dispatcher {
	if m, ok := inner.(Multi); ok {
		bounded := make(Multi, len(m))
		for i, d := range m {
			bounded[i] = WithTimeout(d, timeout)
		}
		return bounded
	}
	return &timeoutDispatcher{inner: inner, timeout: timeout}
}

func (t *timeoutDispatcher) Name() string {
	return t.inner.Name()
}

func (t *timeoutDispatcher) Dispatch(ctx context.Context, seconds int, label string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- t.inner.Dispatch(ctx, seconds, label)
	}()

	select {
	case err := <-done:
		if err != nil && ctx.Err() == context.DeadlineExceeded {
			return &Error{Dispatcher: t.inner.Name(), Err: ErrDispatchTimeout}
		}
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return &Error{Dispatcher: t.inner.Name(), Err: ErrDispatchTimeout}
		}
		return ctx.Err()
	}
}

func (t *timeoutDispatcher) Close() error {
	return Close(t.inner)
}
