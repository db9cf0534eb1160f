// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"context"
	"fmt"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	coresnapshot "github.com/rdecli/rde/core/snapshot"
	snapshotop "github.com/rdecli/rde/internal/snapshot"
)

const applyDoc = `
Replaces the content and the deployed artifacts of the environment with the
ones of a snapshot. The command waits until the environment is ready again.

With --status no new operation is started: the command follows the one
started earlier, for instance by an invocation that was interrupted.
`

const restoreDoc = `
Restores the environment to the state it had when the snapshot was taken,
including the state of its repository. The command waits until the
environment is ready again.

With --status no new operation is started: the command follows the one
started earlier.
`

// NewApplyCommand returns a command applying a snapshot.
func NewApplyCommand() cmd.Command {
	return envcmd.Wrap(&actionCommand{action: coresnapshot.Apply})
}

// NewRestoreCommand returns a command restoring a snapshot.
func NewRestoreCommand() cmd.Command {
	return envcmd.Wrap(&actionCommand{action: coresnapshot.Restore})
}

// actionCommand applies or restores a snapshot.
type actionCommand struct {
	snapshotCommandBase
	envcmd.ConfirmationCommandBase

	action     coresnapshot.Action
	name       string
	statusOnly bool
}

// Info implements cmd.Command.
func (c *actionCommand) Info() *cmd.Info {
	info := &cmd.Info{
		Args:    "<name>",
		SeeAlso: []string{"snapshots", "snapshot-create"},
	}
	switch c.action {
	case coresnapshot.Restore:
		info.Name = "snapshot-restore"
		info.Purpose = "Restore the environment from a snapshot."
		info.Doc = restoreDoc
		info.Examples = "\n    rde snapshot-restore before-upgrade\n"
	default:
		info.Name = "snapshot-apply"
		info.Purpose = "Apply a snapshot to the environment."
		info.Doc = applyDoc
		info.Examples = "\n    rde snapshot-apply before-upgrade\n    rde snapshot-apply before-upgrade --status\n"
	}
	return rdecmd.Info(info)
}

// SetFlags implements cmd.Command.
func (c *actionCommand) SetFlags(f *gnuflag.FlagSet) {
	c.snapshotCommandBase.SetFlags(f)
	c.ConfirmationCommandBase.SetFlags(f)
	f.BoolVar(&c.statusOnly, "status", false, "Follow the operation started earlier instead of starting one")
}

// Init implements cmd.Command.
func (c *actionCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no snapshot name specified")
	}
	c.name = args[0]
	if err := cmd.CheckEmpty(args[1:]); err != nil {
		return err
	}
	return c.ConfirmationCommandBase.Init(c.Getenv)
}

// Run implements cmd.Command.
func (c *actionCommand) Run(ctx *cmd.Context) error {
	if err := coresnapshot.ValidateName(c.name); err != nil {
		return errors.Trace(err)
	}
	if !c.statusOnly {
		question := fmt.Sprintf("The content of the environment will be replaced by snapshot %q. Continue?", c.name)
		if err := c.Confirm(ctx, question); err != nil {
			return errors.Trace(err)
		}
	}
	options := snapshotop.Options{StatusOnly: c.statusOnly}
	return c.coordinate(ctx, func(stdCtx context.Context, co *snapshotop.Coordinator) (snapshotop.Result, error) {
		if c.action == coresnapshot.Restore {
			return co.Restore(stdCtx, c.name, options)
		}
		return co.Apply(stdCtx, c.name, options)
	})
}
