// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package snapshot holds the commands managing the snapshots of an
// environment.
package snapshot

import (
	"context"
	"strconv"
	"time"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/cmd/output"
	coresnapshot "github.com/rdecli/rde/core/snapshot"
	"github.com/rdecli/rde/internal/inventory"
	snapshotop "github.com/rdecli/rde/internal/snapshot"
)

var logger = loggo.GetLogger("rde.cmd.snapshot")

// SnapshotAPI is the part of the environment API used by the snapshot
// commands.
type SnapshotAPI interface {
	snapshotop.API
	inventory.API

	ListSnapshots(ctx context.Context) ([]coresnapshot.Snapshot, error)
	DeleteSnapshot(ctx context.Context, name string) error
	UndeleteSnapshot(ctx context.Context, name string) error
}

type snapshotCommandBase struct {
	envcmd.EnvCommandBase

	newAPIFunc func() (SnapshotAPI, error)
}

func (c *snapshotCommandBase) newAPI() (SnapshotAPI, error) {
	if c.newAPIFunc != nil {
		return c.newAPIFunc()
	}
	api, err := c.NewAPI()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return api, nil
}

// coordinate runs a snapshot operation, reporting every phase on ctx.
func (c *snapshotCommandBase) coordinate(
	ctx *cmd.Context,
	run func(context.Context, *snapshotop.Coordinator) (snapshotop.Result, error),
) error {
	api, err := c.newAPI()
	if err != nil {
		return errors.Trace(err)
	}
	limits, err := c.Limits()
	if err != nil {
		return errors.Trace(err)
	}
	coordinator, err := snapshotop.NewCoordinator(snapshotop.Config{
		API:            api,
		Readiness:      inventory.NewLoader(api, c.Clock(), ""),
		Clock:          c.Clock(),
		Reporter:       &phaseReporter{ctx: ctx},
		ProgressLimits: limits,
		ReadyLimits:    limits,
	})
	if err != nil {
		return errors.Trace(err)
	}

	stdCtx, done := c.StdContext(ctx)
	defer done()
	result, err := run(stdCtx, coordinator)
	if err != nil {
		return errors.Trace(err)
	}
	ctx.Infof("%s of snapshot %q finished in %s, the environment is ready",
		result.Action, result.Name, output.Elapsed(result.Ready.Sub(result.Started)))
	return nil
}

type phaseReporter struct {
	ctx  *cmd.Context
	last float64
}

// PhaseDone implements snapshotop.Reporter.
func (r *phaseReporter) PhaseDone(phase snapshotop.Phase, elapsed time.Duration) {
	r.ctx.Infof("%s (%s)", phase, output.Elapsed(elapsed))
}

// Progress implements snapshotop.Reporter.
func (r *phaseReporter) Progress(percentage float64) {
	if percentage == r.last {
		return
	}
	r.last = percentage
	r.ctx.Verbosef("%s%%", strconv.FormatFloat(percentage, 'f', -1, 64))
}
