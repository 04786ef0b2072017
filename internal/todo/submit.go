package todo

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// ErrBackendUnavailable is returned by LatencySubmitter's simulated failures.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Submitter performs the asynchronous part of task creation.
type Submitter interface {
	Submit(ctx context.Context, d Draft) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, d Draft) error

// Submit calls f(ctx, d).
func (f SubmitterFunc) Submit(ctx context.Context, d Draft) error {
	return f(ctx, d)
}

// LatencySubmitter simulates a backend round trip.
type LatencySubmitter struct {
	// Delay before the submission resolves.
	Delay time.Duration
	// FailureRate in [0,1] is the probability of ErrBackendUnavailable.
	FailureRate float64
	// Rand returns values in [0,1); defaults to math/rand/v2.
	Rand func() float64
}

// Submit waits for Delay, honouring ctx, then succeeds or fails at random.
func (l LatencySubmitter) Submit(ctx context.Context, _ Draft) error {
	if l.Delay > 0 {
		timer := time.NewTimer(l.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	if l.FailureRate <= 0 {
		return nil
	}
	r := l.Rand
	if r == nil {
		r = rand.Float64
	}
	if r() < l.FailureRate {
		return ErrBackendUnavailable
	}
	return nil
}
