package analyzer

import (
	"context"
	"fmt"
	"time"
)

// callExternal runs fn with a per-attempt timeout and at most retries extra
// attempts. The caller's cancellation is detached: once an analysis has
// started, its external calls are bounded only by the timeout.
func callExternal[T any](ctx context.Context, timeout time.Duration, retries int, fn func(context.Context) (T, error)) (T, error) {
	base := context.WithoutCancel(ctx)

	var zero T
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(base, timeout)
		result, err := runBounded(attemptCtx, fn)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, fmt.Errorf("external call failed after %d attempt(s): %w", retries+1, lastErr)
}

// runBounded returns when fn finishes or ctx expires, whichever comes first,
// so an adapter that ignores its context cannot stall the pipeline
func runBounded[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := safeCall(ctx, fn)
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// safeCall turns a panic in an external adapter into an error so it takes the fallback path
func safeCall[T any](ctx context.Context, fn func(context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("external call panicked: %v", r)
		}
	}()
	return fn(ctx)
}
