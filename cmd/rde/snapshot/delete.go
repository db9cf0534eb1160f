// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	coresnapshot "github.com/rdecli/rde/core/snapshot"
)

const deleteDoc = `
Deletes a snapshot. A deleted snapshot is purged seven days after its last
use; until then it can be brought back with snapshot-undelete.
`

const undeleteDoc = `
Brings back a deleted snapshot that was not purged yet.
`

// NewDeleteCommand returns a command deleting a snapshot.
func NewDeleteCommand() cmd.Command {
	return envcmd.Wrap(&deleteCommand{})
}

// NewUndeleteCommand returns a command bringing back a deleted snapshot.
func NewUndeleteCommand() cmd.Command {
	return envcmd.Wrap(&deleteCommand{undelete: true})
}

type deleteCommand struct {
	snapshotCommandBase

	undelete bool
	name     string
}

// Info implements cmd.Command.
func (c *deleteCommand) Info() *cmd.Info {
	if c.undelete {
		return rdecmd.Info(&cmd.Info{
			Name:     "snapshot-undelete",
			Args:     "<name>",
			Purpose:  "Bring back a deleted snapshot.",
			Doc:      undeleteDoc,
			Examples: "\n    rde snapshot-undelete before-upgrade\n",
			SeeAlso:  []string{"snapshots", "snapshot-delete"},
		})
	}
	return rdecmd.Info(&cmd.Info{
		Name:     "snapshot-delete",
		Args:     "<name>",
		Purpose:  "Delete a snapshot.",
		Doc:      deleteDoc,
		Examples: "\n    rde snapshot-delete before-upgrade\n",
		SeeAlso:  []string{"snapshots", "snapshot-undelete"},
	})
}

// Init implements cmd.Command.
func (c *deleteCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no snapshot name specified")
	}
	c.name = args[0]
	return cmd.CheckEmpty(args[1:])
}

// Run implements cmd.Command.
func (c *deleteCommand) Run(ctx *cmd.Context) error {
	if err := coresnapshot.ValidateName(c.name); err != nil {
		return errors.Trace(err)
	}
	api, err := c.newAPI()
	if err != nil {
		return errors.Trace(err)
	}
	stdCtx, done := c.StdContext(ctx)
	defer done()

	if c.undelete {
		if err := api.UndeleteSnapshot(stdCtx, c.name); err != nil {
			return errors.Trace(err)
		}
		ctx.Infof("Snapshot %q is available again.", c.name)
		return nil
	}
	if err := api.DeleteSnapshot(stdCtx, c.name); err != nil {
		return errors.Trace(err)
	}
	ctx.Infof("Snapshot %q deleted. Run \"rde snapshot-undelete %s\" to bring it back before it is purged.", c.name, c.name)
	return nil
}
