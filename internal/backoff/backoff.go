// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package backoff holds the two retry strategies that every polling loop
// of the client is built from: retrying until a predicate holds, and
// retrying for as long as the server asks for it with a Retry-After header.
package backoff

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/retry"

	rdeerrors "github.com/rdecli/rde/internal/errors"
)

var logger = loggo.GetLogger("rde.backoff")

// MaxRetryAfterDelay caps a single sleep requested by a Retry-After header.
const MaxRetryAfterDelay = 5 * time.Second

// Limits bounds a polling loop. A zero value places no bound on the loop.
type Limits struct {
	// MaxAttempts is the maximum number of requests made by the loop.
	MaxAttempts int

	// MaxDuration is the maximum wall-clock time spent in the loop.
	MaxDuration time.Duration
}

// IsZero reports whether the limits place no bound on a loop.
func (l Limits) IsZero() bool {
	return l.MaxAttempts <= 0 && l.MaxDuration <= 0
}

var errNotYet = errors.ConstError("predicate not satisfied")

// UntilArgs holds the arguments to Until.
type UntilArgs[T any] struct {
	// Func is called on every attempt. An error counts as an unsuccessful
	// attempt.
	Func func() (T, error)

	// Success reports whether the result ends the retry loop.
	Success func(T) bool

	// Delay is the time between two attempts.
	Delay time.Duration

	// Attempts is the maximum number of calls to Func.
	Attempts int

	// Clock is used to wait between attempts.
	Clock clock.Clock
}

// Validate checks the arguments.
func (a UntilArgs[T]) Validate() error {
	if a.Func == nil {
		return errors.NotValidf("missing Func")
	}
	if a.Success == nil {
		return errors.NotValidf("missing Success")
	}
	if a.Attempts <= 0 {
		return errors.NotValidf("Attempts %d", a.Attempts)
	}
	if a.Delay <= 0 {
		return errors.NotValidf("Delay %v", a.Delay)
	}
	if a.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	return nil
}

// Until calls args.Func until args.Success holds for its result, at most
// args.Attempts times, waiting args.Delay between calls. It returns the
// first successful result and true. When every attempt was used up, or
// the arguments are not valid, it returns the zero value and false: the
// caller decides what running out of attempts means.
func Until[T any](ctx context.Context, args UntilArgs[T]) (T, bool) {
	var zero T
	if err := args.Validate(); err != nil {
		logger.Errorf("retry until: %v", err)
		return zero, false
	}

	var result T
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			r, err := args.Func()
			if err != nil {
				return errors.Trace(err)
			}
			if !args.Success(r) {
				return errNotYet
			}
			result = r
			return nil
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Tracef("attempt %d/%d: %v", attempt, args.Attempts, err)
		},
		Attempts: args.Attempts,
		Delay:    args.Delay,
		Clock:    args.Clock,
		Stop:     ctx.Done(),
	})
	if err != nil {
		if !retry.IsAttemptsExceeded(err) {
			logger.Debugf("retry until stopped: %v", err)
		}
		return zero, false
	}
	return result, true
}

// Response is a response that may carry a Retry-After header.
type Response interface {
	// Headers returns the response headers. It must be safe to call on a
	// nil response.
	Headers() http.Header
}

// RetryAfterArgs holds the arguments to WhileRetryAfter.
type RetryAfterArgs[R Response] struct {
	// Initial, if set, makes the first request.
	Initial func() (R, error)

	// Subsequent makes every following request. It receives the previous
	// response, which is the zero R when Initial is not set.
	Subsequent func(previous R) (R, error)

	// BeforeSleep, if set, is called before every sleep.
	BeforeSleep func()

	// Clock is used to sleep between requests.
	Clock clock.Clock

	// Limits optionally bounds the loop.
	Limits Limits
}

// Validate checks the arguments.
func (a RetryAfterArgs[R]) Validate() error {
	if a.Subsequent == nil {
		return errors.NotValidf("missing Subsequent")
	}
	if a.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	return nil
}

// WhileRetryAfter keeps requesting for as long as the server answers with
// a valid Retry-After header, sleeping for the requested number of
// seconds, capped at MaxRetryAfterDelay, in between. It returns the first
// response without a Retry-After header.
//
// Without limits the loop only ends when the server stops asking for
// retries or ctx is done.
func WhileRetryAfter[R Response](ctx context.Context, args RetryAfterArgs[R]) (R, error) {
	var zero R
	if err := args.Validate(); err != nil {
		return zero, errors.Trace(err)
	}

	var (
		resp R
		err  error
	)
	if args.Initial != nil {
		resp, err = args.Initial()
	} else {
		resp, err = args.Subsequent(zero)
	}
	if err != nil {
		return zero, errors.Trace(err)
	}

	start := args.Clock.Now()
	for attempt := 1; ; attempt++ {
		delay, ok := RetryAfter(resp.Headers())
		if !ok {
			return resp, nil
		}
		if exceeded(args.Limits, attempt, args.Clock.Now().Sub(start)) {
			return resp, rdeerrors.Newf(rdeerrors.Timeout,
				"server still busy after %d requests", attempt)
		}
		if args.BeforeSleep != nil {
			args.BeforeSleep()
		}
		if delay > MaxRetryAfterDelay {
			delay = MaxRetryAfterDelay
		}
		logger.Debugf("server asked to retry, sleeping %v", delay)
		select {
		case <-ctx.Done():
			return resp, errors.Trace(ctx.Err())
		case <-args.Clock.After(delay):
		}
		if resp, err = args.Subsequent(resp); err != nil {
			return zero, errors.Trace(err)
		}
	}
}

// RetryAfter returns the delay asked for by a Retry-After header. Only a
// non-negative number of seconds is honoured.
func RetryAfter(header http.Header) (time.Duration, bool) {
	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// Poll calls f every interval until it reports done, an error occurs, ctx
// is done or the limits are reached. The first call happens immediately.
func Poll(ctx context.Context, clk clock.Clock, interval time.Duration, limits Limits, f func(attempt int) (bool, error)) error {
	start := clk.Now()
	for attempt := 1; ; attempt++ {
		done, err := f(attempt)
		if err != nil {
			return errors.Trace(err)
		}
		if done {
			return nil
		}
		if exceeded(limits, attempt, clk.Now().Add(interval).Sub(start)) {
			return rdeerrors.Newf(rdeerrors.Timeout, "gave up after %d attempts", attempt)
		}
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case <-clk.After(interval):
		}
	}
}

func exceeded(limits Limits, attempts int, elapsed time.Duration) bool {
	if limits.MaxAttempts > 0 && attempts >= limits.MaxAttempts {
		return true
	}
	return limits.MaxDuration > 0 && elapsed > limits.MaxDuration
}
