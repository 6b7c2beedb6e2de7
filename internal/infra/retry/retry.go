// Package retry runs an operation under an attempt budget. The operation
// decides, per attempt, whether it is done, failed for good, or should be
// tried again (immediately or after a delay).
package retry

import (
	"context"
	"fmt"
	"time"
)

type action int

const (
	actionStop action = iota
	actionAgain
	actionWait
)

// Result is what an operation reports back after one attempt.
type Result struct {
	act   action
	delay time.Duration
	err   error
}

// Done ends the loop successfully.
func Done() Result { return Result{act: actionStop} }

// Fail ends the loop with err. It is not retried.
func Fail(err error) Result { return Result{act: actionStop, err: err} }

// Again retries immediately; err is kept as the last failure.
func Again(err error) Result { return Result{act: actionAgain, err: err} }

// After retries once d has elapsed; err is kept as the last failure.
func After(d time.Duration, err error) Result {
	return Result{act: actionWait, delay: d, err: err}
}

// ExhaustedError is returned when every attempt asked for another one.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("retry: gave up after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("retry: gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy bounds the number of attempts of one logical call. Every attempt
// counts, including ones that ended in a wait.
type Policy struct {
	MaxAttempts int
	Sleep       SleepFunc
}

// Op is one attempt. attempt starts at 1.
type Op func(ctx context.Context, attempt int) Result

// Do runs op until it stops or the budget is spent.
func (p Policy) Do(ctx context.Context, op Op) error {
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var last error
	for attempt := 1; attempt <= max; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := op(ctx, attempt)
		switch res.act {
		case actionStop:
			return res.err
		case actionWait:
			last = res.err
			if attempt < max {
				if err := sleep(ctx, res.delay); err != nil {
					return err
				}
			}
		default:
			last = res.err
		}
	}
	return &ExhaustedError{Attempts: max, Last: last}
}

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
