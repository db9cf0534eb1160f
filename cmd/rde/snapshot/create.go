// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"context"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	coresnapshot "github.com/rdecli/rde/core/snapshot"
	snapshotop "github.com/rdecli/rde/internal/snapshot"
)

const createDoc = `
Creates a snapshot of the content and the deployed artifacts of the
environment. The command waits until the snapshot is complete and the
environment is ready again.

Snapshot names are made of letters, digits, '.', '_' and '-', and are at most
64 characters long.
`

const createExamples = `
    rde snapshot-create before-upgrade
    rde snapshot-create nightly --description "state of the nightly build"
`

// NewCreateCommand returns a command creating a snapshot.
func NewCreateCommand() cmd.Command {
	return envcmd.Wrap(&createCommand{})
}

type createCommand struct {
	snapshotCommandBase

	name        string
	description string
}

// Info implements cmd.Command.
func (c *createCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "snapshot-create",
		Args:     "<name>",
		Purpose:  "Create a snapshot of the environment.",
		Doc:      createDoc,
		Examples: createExamples,
		SeeAlso:  []string{"snapshots", "snapshot-apply", "snapshot-delete"},
	})
}

// SetFlags implements cmd.Command.
func (c *createCommand) SetFlags(f *gnuflag.FlagSet) {
	c.snapshotCommandBase.SetFlags(f)
	f.StringVar(&c.description, "description", "", "A description of the snapshot")
}

// Init implements cmd.Command.
func (c *createCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no snapshot name specified")
	}
	c.name = args[0]
	return cmd.CheckEmpty(args[1:])
}

// Run implements cmd.Command.
func (c *createCommand) Run(ctx *cmd.Context) error {
	if err := coresnapshot.ValidateName(c.name); err != nil {
		return errors.Trace(err)
	}
	return c.coordinate(ctx, func(stdCtx context.Context, co *snapshotop.Coordinator) (snapshotop.Result, error) {
		return co.Create(stdCtx, c.name, c.description)
	})
}
