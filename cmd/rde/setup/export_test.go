// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package setup

import (
	"github.com/juju/clock"
	"github.com/juju/cmd/v3"

	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/rdeclient"
)

// NewSetupCommandForTest returns a setup command listing programs with api
// and reading environment variables from env.
func NewSetupCommandForTest(api rdeclient.ProgramLister, store rdeclient.ClientStore, clk clock.Clock, env map[string]string) cmd.Command {
	c := &setupCommand{
		newAPIFunc: func(rdeclient.Config) (rdeclient.ProgramLister, error) { return api, nil },
	}
	c.SetClientStore(store)
	c.SetClock(clk)
	c.SetGetenv(func(key string) string { return env[key] })
	return envcmd.Wrap(c)
}
