package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Multi sends every countdown to all of its dispatchers.
type Multi []Dispatcher

func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, d := range m {
		names[i] = d.Name()
	}
	return strings.Join(names, "+")
}

// Dispatch runs every dispatcher at once and joins their errors.
// A slow dispatcher does not hold back the others.
func (m Multi) Dispatch(ctx context.Context, seconds int, label string) error {
	errs := make([]error, len(m))
	var wg sync.WaitGroup
	for i, d := range m {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = d.Dispatch(ctx, seconds, label)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, d := range m {
		if err := Close(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
