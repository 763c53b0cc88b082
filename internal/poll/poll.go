// Package poll runs the background fetch tasks: at most one repeating loop
// plus any number of independent one-shot fires.
package poll

import (
	"context"
	"time"
)

// Cycle performs one fetch-and-apply pass. A non-nil error feeds the
// repeating loop's backoff; one-shot fires ignore it.
type Cycle func(ctx context.Context) error

const maxBackoff = 30 * time.Second

// Task is a handle to a running repeating loop. Stopping is cooperative: an
// in-flight cycle finishes, then the loop exits without starting another.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Repeat starts a repeating loop that performs one cycle immediately, then
// sleeps and repeats until the task is stopped or ctx is cancelled. When
// alive is non-nil it is probed before each cycle; a false result ends the
// loop, which covers consumers that disappear without an explicit stop.
func Repeat(ctx context.Context, interval time.Duration, alive func() bool, cycle Cycle) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		failures := 0
		for {
			if ctx.Err() != nil {
				return
			}
			if alive != nil && !alive() {
				return
			}
			if err := cycle(ctx); err != nil {
				failures++
			} else {
				failures = 0
			}

			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for the loop goroutine to exit, so once it
// returns no further cycle will run. Safe to call repeatedly and from any
// goroutine, including while the loop is sleeping or mid-fetch.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}

// Once runs a single cycle on its own goroutine. Its lifetime is tied to the
// passed context only, never to a repeating task's cancellation.
func Once(ctx context.Context, cycle Cycle) {
	go func() {
		_ = cycle(ctx)
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff. Zero failures means the base interval.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base << uint(failures)
	if backoff <= 0 || backoff > maxBackoff {
		return maxBackoff
	}
	return backoff
}
