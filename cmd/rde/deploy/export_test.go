// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package deploy

import (
	"github.com/juju/clock"
	"github.com/juju/cmd/v3"

	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/rdeclient"
)

var GuessType = guessType

func (c *deployCommandBase) setUpForTest(api DeployAPI, store rdeclient.ClientStore, clk clock.Clock) {
	c.newAPIFunc = func() (DeployAPI, error) { return api, nil }
	c.SetClientStore(store)
	c.SetClock(clk)
	c.SetGetenv(func(string) string { return "" })
}

// NewDeployCommandForTest returns a deploy command using api.
func NewDeployCommandForTest(api DeployAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &deployCommand{}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}

// NewDeleteCommandForTest returns a delete command using api.
func NewDeleteCommandForTest(api DeployAPI, store rdeclient.ClientStore, clk clock.Clock) cmd.Command {
	c := &deleteCommand{}
	c.setUpForTest(api, store, clk)
	return envcmd.Wrap(c)
}
