// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package changes follows an update of an environment until the server
// stops asking the client to come back later, and loads its logs.
package changes

import (
	"context"
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/rdecli/rde/core/change"
	"github.com/rdecli/rde/internal/backoff"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
)

var logger = loggo.GetLogger("rde.changes")

// API holds the endpoints used by the tracker.
type API interface {
	GetUpdate(ctx context.Context, id string) (*httpclient.Response, error)
	GetUpdateLogs(ctx context.Context, id string) (*httpclient.Response, error)
}

// Config holds the dependencies of a Tracker.
type Config struct {
	API   API
	Clock clock.Clock

	// Budgets holds the number of log attempts per update type. The
	// defaults are used when nil.
	Budgets change.LogBudgets

	// LogDelay is the time between two log attempts.
	LogDelay time.Duration

	// Limits bounds the Retry-After loop. Zero limits wait for as long as
	// the server asks.
	Limits backoff.Limits

	// BeforeSleep, if set, is called every time the server asks the
	// tracker to wait.
	BeforeSleep func()
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.API == nil {
		return errors.NotValidf("nil API")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Tracker follows updates of one environment.
type Tracker struct {
	config Config
}

// NewTracker returns a Tracker for the config.
func NewTracker(config Config) (*Tracker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Budgets == nil {
		config.Budgets = change.DefaultLogBudgets()
	}
	if config.LogDelay <= 0 {
		config.LogDelay = change.LogAttemptDelay
	}
	return &Tracker{config: config}, nil
}

// Result is the outcome of following an update.
type Result struct {
	// Update is the last state reported by the server.
	Update change.Update

	// NotFound is set when the update does not exist.
	NotFound bool

	// History holds the logs of the update.
	History History
}

// History holds the logs of an update.
type History struct {
	// Available is false when the logs did not become available in time.
	Available bool

	// WaitedFor is how long the tracker waited for the logs.
	WaitedFor time.Duration

	// Lines holds the log lines, oldest first.
	Lines []string

	// Failure, if set, tells why the logs could not be loaded.
	Failure string
}

// Track follows an existing update. A failed update is reported with a
// DeploymentFailure error and a staged one with a DeploymentWarning error;
// the result is filled in both cases.
func (t *Tracker) Track(ctx context.Context, id string) (Result, error) {
	id, err := change.ParseID(id)
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	return t.follow(ctx, id, nil)
}

// Submit makes the request that creates an update, then follows the
// update it created.
func (t *Tracker) Submit(ctx context.Context, initial func() (*httpclient.Response, error)) (Result, error) {
	resp, err := initial()
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return Result{}, &rdeerrors.Error{
			Kind:       rdeerrors.EnvironmentState,
			Message:    "another deployment is in progress",
			Detail:     resp.Text(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	case !resp.IsSuccess():
		err := rdeerrors.StatusError("submitting update", resp.StatusCode, resp.Status)
		err.Detail = resp.Text()
		return Result{}, err
	}
	var update change.Update
	if err := resp.JSON(&update); err != nil {
		return Result{}, errors.Trace(err)
	}
	if update.ID == "" {
		return Result{}, rdeerrors.Newf(rdeerrors.Internal, "server did not return an update id")
	}
	logger.Debugf("update %s submitted", update.ID)

	// The creation response only counts when the server already asks to
	// come back later; otherwise the update itself is fetched.
	var first *httpclient.Response
	if _, ok := backoff.RetryAfter(resp.Header); ok {
		first = resp
	}
	return t.follow(ctx, update.ID, first)
}

func (t *Tracker) follow(ctx context.Context, id string, first *httpclient.Response) (Result, error) {
	args := backoff.RetryAfterArgs[*httpclient.Response]{
		Subsequent: func(*httpclient.Response) (*httpclient.Response, error) {
			return t.config.API.GetUpdate(ctx, id)
		},
		BeforeSleep: t.config.BeforeSleep,
		Clock:       t.config.Clock,
		Limits:      t.config.Limits,
	}
	if first != nil {
		args.Initial = func() (*httpclient.Response, error) { return first, nil }
	}
	resp, err := backoff.WhileRetryAfter(ctx, args)
	if err != nil {
		return Result{}, errors.Annotatef(err, "following update %s", id)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		logger.Debugf("update %s does not exist", id)
		return Result{NotFound: true, Update: change.Update{ID: id}}, nil
	default:
		return Result{}, rdeerrors.StatusError("fetching update "+id, resp.StatusCode, resp.Status)
	}

	var result Result
	if err := resp.JSON(&result.Update); err != nil {
		return Result{}, errors.Trace(err)
	}
	if result.Update.ID == "" {
		result.Update.ID = id
	}
	if result.History, err = t.LoadHistory(ctx, result.Update); err != nil {
		if ctx.Err() != nil {
			return result, errors.Trace(err)
		}
		// The status of the update decides the outcome, not its logs.
		logger.Warningf("cannot load logs of update %s: %v", id, err)
		result.History = History{Failure: err.Error()}
	}
	return result, classify(result.Update)
}

func classify(update change.Update) error {
	switch update.Status {
	case change.Failed:
		return rdeerrors.Newf(rdeerrors.DeploymentFailure, "update %s failed", update.ID)
	case change.Staged:
		return rdeerrors.Newf(rdeerrors.DeploymentWarning,
			"update %s was staged, it is applied with the next restart", update.ID)
	}
	return nil
}

// LoadHistory waits for the logs of an update to become available. How
// long it waits depends on the update type. Running out of attempts is not
// an error: the returned history is then marked unavailable.
func (t *Tracker) LoadHistory(ctx context.Context, update change.Update) (History, error) {
	attempts := t.config.Budgets.Attempts(update.Type)
	var lastErr error
	resp, ok := backoff.Until(ctx, backoff.UntilArgs[*httpclient.Response]{
		Func: func() (*httpclient.Response, error) {
			resp, err := t.config.API.GetUpdateLogs(ctx, update.ID)
			if err != nil {
				lastErr = err
			}
			return resp, err
		},
		Success: func(resp *httpclient.Response) bool {
			return resp != nil && resp.StatusCode != http.StatusNotFound
		},
		Attempts: attempts,
		Delay:    t.config.LogDelay,
		Clock:    t.config.Clock,
	})
	if !ok {
		if err := ctx.Err(); err != nil {
			return History{}, errors.Trace(err)
		}
		waited := time.Duration(attempts) * t.config.LogDelay
		if lastErr != nil {
			logger.Debugf("last attempt to load logs of update %s: %v", update.ID, lastErr)
		}
		logger.Warningf("logs of update %s not available within %v", update.ID, waited)
		return History{WaitedFor: waited}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return History{}, rdeerrors.StatusError("loading logs of update "+update.ID, resp.StatusCode, resp.Status)
	}
	return History{
		Available: true,
		Lines:     change.ParseLogs(resp.Text()),
	}, nil
}
