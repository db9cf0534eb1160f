// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"github.com/juju/clock"
	"github.com/juju/cmd/v3"

	"github.com/rdecli/rde/cmd/envcmd"
	coresnapshot "github.com/rdecli/rde/core/snapshot"
	"github.com/rdecli/rde/rdeclient"
)

func (c *snapshotCommandBase) setUpForTest(api SnapshotAPI, store rdeclient.ClientStore, clk clock.Clock) {
	c.newAPIFunc = func() (SnapshotAPI, error) { return api, nil }
	c.SetClientStore(store)
	c.SetClock(clk)
	c.SetGetenv(func(string) string { return "" })
}

// NewCreateCommandForTest returns a snapshot-create command using api.
func NewCreateCommandForTest(api SnapshotAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &createCommand{}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}

// NewActionCommandForTest returns a snapshot-apply or snapshot-restore
// command using api.
func NewActionCommandForTest(action coresnapshot.Action, api SnapshotAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &actionCommand{action: action}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}

// NewListCommandForTest returns a snapshots command using api.
func NewListCommandForTest(api SnapshotAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &listCommand{}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}

// NewDeleteCommandForTest returns a snapshot-delete or snapshot-undelete
// command using api.
func NewDeleteCommandForTest(undelete bool, api SnapshotAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &deleteCommand{undelete: undelete}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}
