// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package environment holds the commands acting on the environment as a
// whole.
package environment

import (
	"context"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/cmd/rde/common"
	"github.com/rdecli/rde/internal/changes"
	"github.com/rdecli/rde/internal/httpclient"
)

var logger = loggo.GetLogger("rde.cmd.environment")

// EnvironmentAPI is the part of the environment API used by the reset and
// restart commands.
type EnvironmentAPI interface {
	changes.API

	Reset(ctx context.Context) (*httpclient.Response, error)
	Restart(ctx context.Context) (*httpclient.Response, error)
}

const resetDoc = `
Resets the environment to its initial state: every deployed artifact and all
content is removed. The command waits until the reset is done.
`

const restartDoc = `
Restarts the author and publish instances of the environment. Staged
deployments are applied by the restart. The command waits until the
instances are up again.
`

// NewResetCommand returns a command resetting the environment.
func NewResetCommand() cmd.Command {
	return envcmd.Wrap(&updateCommand{reset: true})
}

// NewRestartCommand returns a command restarting the environment.
func NewRestartCommand() cmd.Command {
	return envcmd.Wrap(&updateCommand{})
}

// updateCommand submits an update to the environment as a whole and
// follows it.
type updateCommand struct {
	envcmd.EnvCommandBase
	envcmd.ConfirmationCommandBase

	newAPIFunc func() (EnvironmentAPI, error)

	reset bool
}

// Info implements cmd.Command.
func (c *updateCommand) Info() *cmd.Info {
	if c.reset {
		return rdecmd.Info(&cmd.Info{
			Name:     "reset",
			Purpose:  "Reset the environment to its initial state.",
			Doc:      resetDoc,
			Examples: "\n    rde reset\n    rde reset --no-prompt\n",
			SeeAlso:  []string{"restart", "snapshot-create"},
		})
	}
	return rdecmd.Info(&cmd.Info{
		Name:     "restart",
		Purpose:  "Restart the instances of the environment.",
		Doc:      restartDoc,
		Examples: "\n    rde restart\n",
		SeeAlso:  []string{"reset", "status"},
	})
}

// SetFlags implements cmd.Command.
func (c *updateCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	if c.reset {
		c.ConfirmationCommandBase.SetFlags(f)
	}
}

// Init implements cmd.Command.
func (c *updateCommand) Init(args []string) error {
	if err := cmd.CheckEmpty(args); err != nil {
		return err
	}
	return c.ConfirmationCommandBase.Init(c.Getenv)
}

func (c *updateCommand) newAPI() (EnvironmentAPI, error) {
	if c.newAPIFunc != nil {
		return c.newAPIFunc()
	}
	api, err := c.NewAPI()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return api, nil
}

// Run implements cmd.Command.
func (c *updateCommand) Run(ctx *cmd.Context) error {
	if c.reset {
		if err := c.Confirm(ctx, "All deployments and content of the environment will be removed. Continue?"); err != nil {
			return errors.Trace(err)
		}
	}
	api, err := c.newAPI()
	if err != nil {
		return errors.Trace(err)
	}
	tracker, err := c.NewTracker(ctx, api)
	if err != nil {
		return errors.Trace(err)
	}
	stdCtx, done := c.StdContext(ctx)
	defer done()

	submit := api.Restart
	if c.reset {
		submit = api.Reset
		ctx.Infof("Resetting the environment...")
	} else {
		ctx.Infof("Restarting the environment...")
	}
	result, err := tracker.Submit(stdCtx, func() (*httpclient.Response, error) {
		return submit(stdCtx)
	})
	if result.Update.ID != "" {
		common.ReportResult(ctx, result)
	}
	return errors.Trace(err)
}
