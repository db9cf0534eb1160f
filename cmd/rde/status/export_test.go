// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"github.com/juju/clock"
	"github.com/juju/cmd/v3"

	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/rdeclient"
)

var Cell = cell

func (c *statusCommandBase) setUpForTest(api StatusAPI, store rdeclient.ClientStore, clk clock.Clock) {
	c.newAPIFunc = func() (StatusAPI, error) { return api, nil }
	c.SetClientStore(store)
	c.SetClock(clk)
	c.SetGetenv(func(string) string { return "" })
}

// NewStatusCommandForTest returns a status command using api.
func NewStatusCommandForTest(api StatusAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &statusCommand{}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}

// NewHistoryCommandForTest returns a history command using api.
func NewHistoryCommandForTest(api StatusAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &historyCommand{}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}

// NewInspectCommandForTest returns an inspect command using api.
func NewInspectCommandForTest(api StatusAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &inspectCommand{}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}
