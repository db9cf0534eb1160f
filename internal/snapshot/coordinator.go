// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package snapshot runs the long running snapshot operations of an
// environment. Each operation goes through four phases: the request, the
// progress polling, the completion and the wait for the environment to be
// ready again. A failure in any phase ends the operation; nothing is
// rolled back.
package snapshot

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	coresnapshot "github.com/rdecli/rde/core/snapshot"
	"github.com/rdecli/rde/internal/backoff"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
	"github.com/rdecli/rde/internal/inventory"
)

var logger = loggo.GetLogger("rde.snapshot")

// ProgressInterval is the time between two progress checks.
const ProgressInterval = 5 * time.Second

// API holds the endpoints used by the coordinator.
type API interface {
	StartSnapshotAction(ctx context.Context, action coresnapshot.Action, name, description string) (*httpclient.Response, error)
	SnapshotProgress(ctx context.Context, action coresnapshot.Action, name string) (*httpclient.Response, error)
}

// ReadinessGate waits for the environment to be ready.
type ReadinessGate interface {
	WaitUntilReady(ctx context.Context, limits backoff.Limits) (inventory.Inventory, error)
}

// Phase is a step of a snapshot operation.
type Phase string

const (
	PhaseAccepted  Phase = "accepted"
	PhasePickedUp  Phase = "picked up"
	PhaseCompleted Phase = "completed"
	PhaseReady     Phase = "ready"
)

// Reporter receives the progress of an operation.
type Reporter interface {
	// PhaseDone is called when a phase ends, with the time spent since the
	// previous one.
	PhaseDone(phase Phase, elapsed time.Duration)

	// Progress is called with every percentage polled.
	Progress(percentage float64)
}

type nopReporter struct{}

func (nopReporter) PhaseDone(Phase, time.Duration) {}
func (nopReporter) Progress(float64)               {}

// Config holds the dependencies of a Coordinator.
type Config struct {
	API       API
	Readiness ReadinessGate
	Clock     clock.Clock

	// Reporter is optional.
	Reporter Reporter

	// ProgressLimits and ReadyLimits bound the polling loops. Zero limits
	// poll until the server reports an outcome.
	ProgressLimits backoff.Limits
	ReadyLimits    backoff.Limits
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.API == nil {
		return errors.NotValidf("nil API")
	}
	if c.Readiness == nil {
		return errors.NotValidf("nil Readiness")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Coordinator runs snapshot operations against one environment.
type Coordinator struct {
	config Config
}

// NewCoordinator returns a Coordinator for the config.
func NewCoordinator(config Config) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Reporter == nil {
		config.Reporter = nopReporter{}
	}
	return &Coordinator{config: config}, nil
}

// Result describes a finished operation. The times are taken from the
// coordinator's clock and never decrease from one phase to the next.
type Result struct {
	Name   string
	Action coresnapshot.Action

	Started   time.Time
	Accepted  time.Time
	PickedUp  time.Time
	Completed time.Time
	Ready     time.Time
}

// Options changes how an operation is run.
type Options struct {
	// StatusOnly skips the request and follows an operation started
	// earlier.
	StatusOnly bool
}

// Create creates a snapshot of the environment.
func (c *Coordinator) Create(ctx context.Context, name, description string) (Result, error) {
	return c.run(ctx, coresnapshot.Create, name, description, Options{})
}

// Apply applies a snapshot to the environment.
func (c *Coordinator) Apply(ctx context.Context, name string, options Options) (Result, error) {
	return c.run(ctx, coresnapshot.Apply, name, "", options)
}

// Restore restores the environment from a snapshot.
func (c *Coordinator) Restore(ctx context.Context, name string, options Options) (Result, error) {
	return c.run(ctx, coresnapshot.Restore, name, "", options)
}

func (c *Coordinator) run(ctx context.Context, action coresnapshot.Action, name, description string, options Options) (Result, error) {
	if err := coresnapshot.ValidateName(name); err != nil {
		return Result{}, errors.Trace(err)
	}
	result := Result{
		Name:    name,
		Action:  action,
		Started: c.config.Clock.Now(),
	}

	if options.StatusOnly {
		result.Accepted = result.Started
	} else {
		if err := c.request(ctx, action, name, description); err != nil {
			return result, errors.Trace(err)
		}
		result.Accepted = c.phaseDone(PhaseAccepted, result.Started)
	}

	if err := c.waitForProgress(ctx, action, name, &result); err != nil {
		return result, errors.Trace(err)
	}

	if _, err := c.config.Readiness.WaitUntilReady(ctx, c.config.ReadyLimits); err != nil {
		return result, errors.Trace(err)
	}
	result.Ready = c.phaseDone(PhaseReady, result.Completed)
	return result, nil
}

func (c *Coordinator) phaseDone(phase Phase, previous time.Time) time.Time {
	now := c.config.Clock.Now()
	if now.Before(previous) {
		now = previous
	}
	logger.Debugf("snapshot operation %s after %v", phase, now.Sub(previous))
	c.config.Reporter.PhaseDone(phase, now.Sub(previous))
	return now
}

func (c *Coordinator) request(ctx context.Context, action coresnapshot.Action, name, description string) error {
	resp, err := c.config.API.StartSnapshotAction(ctx, action, name, description)
	if err != nil {
		return rdeerrors.Wrapf(err, rdeerrors.Internal, "unexpected snapshot error")
	}
	return requestError(action, name, resp)
}

// requestError maps the response to the request that starts an operation.
func requestError(action coresnapshot.Action, name string, resp *httpclient.Response) error {
	details := responseDetails(resp)
	failure := func(kind rdeerrors.Kind, format string, args ...interface{}) error {
		err := rdeerrors.Newf(kind, format, args...)
		err.Detail = details
		err.StatusCode = resp.StatusCode
		err.Status = resp.Status
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusBadRequest:
		return failure(rdeerrors.WrongEnvironmentType, "environment is not a rapid development environment")
	case http.StatusNotFound:
		lower := strings.ToLower(details)
		switch {
		case strings.Contains(lower, "snapshot does not exist"):
			return failure(rdeerrors.SnapshotNotFound, "snapshot %q not found", name)
		case action != coresnapshot.Create && strings.Contains(lower, "deleted"):
			return failure(rdeerrors.SnapshotDeleted, "snapshot %q was deleted", name)
		}
		return failure(rdeerrors.EnvironmentNotFound, "program or environment not found")
	case http.StatusNotAcceptable, http.StatusServiceUnavailable:
		return failure(rdeerrors.EnvironmentState, "environment is not in a state to %s a snapshot", action)
	case http.StatusConflict:
		if action == coresnapshot.Create {
			return failure(rdeerrors.SnapshotExists, "snapshot %q already exists", name)
		}
	case http.StatusInsufficientStorage:
		return failure(rdeerrors.SnapshotLimit, "snapshot limit reached")
	}
	return failure(rdeerrors.Unknown, "snapshot %s failed with status %d %s", action, resp.StatusCode, resp.Status)
}

func (c *Coordinator) waitForProgress(ctx context.Context, action coresnapshot.Action, name string, result *Result) error {
	err := backoff.Poll(ctx, c.config.Clock, ProgressInterval, c.config.ProgressLimits, func(attempt int) (bool, error) {
		resp, err := c.config.API.SnapshotProgress(ctx, action, name)
		if err != nil {
			return false, rdeerrors.Wrapf(err, rdeerrors.Internal, "unexpected snapshot error")
		}
		progress, err := progressOf(action, name, resp)
		if err != nil {
			return false, errors.Trace(err)
		}
		logger.Tracef("%s %q: %v%% after %d polls", action, name, progress.Percentage, attempt)
		c.config.Reporter.Progress(progress.Percentage)
		if progress.Percentage > 0 && result.PickedUp.IsZero() {
			result.PickedUp = c.phaseDone(PhasePickedUp, result.Accepted)
		}
		return progress.Done(), nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	result.Completed = c.phaseDone(PhaseCompleted, result.PickedUp)
	return nil
}

func progressOf(action coresnapshot.Action, name string, resp *httpclient.Response) (coresnapshot.Progress, error) {
	var progress coresnapshot.Progress
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return progress, rdeerrors.Newf(rdeerrors.SnapshotNotFound, "snapshot %q not found", name)
	default:
		return progress, &rdeerrors.Error{
			Kind:       rdeerrors.Unknown,
			Message:    "checking snapshot progress failed",
			Detail:     responseDetails(resp),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}
	if err := resp.JSON(&progress); err != nil {
		return progress, rdeerrors.Wrapf(err, rdeerrors.Unknown, "reading progress of snapshot %q", name)
	}
	switch {
	case progress.Failed() && action == coresnapshot.Create:
		return progress, rdeerrors.Newf(rdeerrors.SnapshotFailed, "snapshot %q could not be created", name)
	case progress.Percentage < 0:
		return progress, rdeerrors.Newf(rdeerrors.Unknown,
			"snapshot %s of %q failed with progress %v", action, name, progress.Percentage)
	}
	return progress, nil
}

// responseDetails returns the details field of an error body, or the body
// itself when it holds no such field.
func responseDetails(resp *httpclient.Response) string {
	var body struct {
		Details string `json:"details"`
	}
	if err := resp.JSON(&body); err == nil && body.Details != "" {
		return body.Details
	}
	return strings.TrimSpace(resp.Text())
}
