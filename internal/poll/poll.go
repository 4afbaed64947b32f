// Package poll runs a step function a bounded number of times with a fixed
// delay in between, stopping early when the step says so.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when every attempt was used without a result
var ErrExhausted = errors.New("max attempts reached")

// Decision tells Until what to do after a step
type Decision int

const (
	// Continue waits for the next attempt
	Continue Decision = iota
	// Done stops and returns the step's value
	Done
	// Abort stops and returns the step's error
	Abort
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Done:
		return "done"
	case Abort:
		return "abort"
	}

	return "unknown"
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy is a bounded, fixed-interval retry policy
type Policy struct {
	MaxAttempts int
	Delay       time.Duration

	// Sleep defaults to a context-aware timer
	Sleep SleepFunc
}

// Step is invoked once per attempt, attempt counting from 1
type Step[T any] func(ctx context.Context, attempt int) (T, Decision, error)

// Sleep blocks for d unless the context ends first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Until waits Delay before every attempt and then runs step, at most
// MaxAttempts times. It returns the value of the first Done step together with
// the number of attempts used.
func Until[T any](ctx context.Context, p Policy, step Step[T]) (T, int, error) {
	var zero T

	sleep := p.Sleep

	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := sleep(ctx, p.Delay); err != nil {
			return zero, attempt - 1, err
		}

		val, decision, err := step(ctx, attempt)

		switch decision {
		case Done:
			return val, attempt, nil
		case Abort:
			if err == nil {
				err = errors.New("poll aborted")
			}
			return zero, attempt, err
		}
	}

	return zero, p.MaxAttempts, ErrExhausted
}
