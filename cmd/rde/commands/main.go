// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package commands assembles the rde super-command.
package commands

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/rde/deploy"
	"github.com/rdecli/rde/cmd/rde/environment"
	"github.com/rdecli/rde/cmd/rde/setup"
	"github.com/rdecli/rde/cmd/rde/snapshot"
	"github.com/rdecli/rde/cmd/rde/status"
)

var rdeDoc = `
rde operates Rapid Development Environments: it deploys artifacts to them,
reports what runs on them and manages their snapshots.

Run "rde setup" first to select the environment to work with.
`

// Main registers the subcommands of the rde executable and hands over
// control to the cmd package. It returns the exit code of the process.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return cmd.Main(NewRdeCommand(), ctx, args[1:])
}

// NewRdeCommand returns the rde super-command.
func NewRdeCommand() cmd.Command {
	rcmd := rdecmd.NewSuperCommand(cmd.SuperCommandParams{
		Name: "rde",
		Doc:  rdeDoc,
	})
	registerCommands(rcmd)
	return rcmd
}

type commandRegistry interface {
	Register(cmd.Command)
}

// registerCommands registers commands in the specified registry.
func registerCommands(r commandRegistry) {
	// Configuration commands.
	r.Register(setup.NewSetupCommand())
	r.Register(environment.NewConsoleCommand())

	// Deployment commands.
	r.Register(deploy.NewDeployCommand())
	r.Register(deploy.NewDeleteCommand())
	r.Register(environment.NewResetCommand())
	r.Register(environment.NewRestartCommand())

	// Reporting commands.
	r.Register(status.NewStatusCommand())
	r.Register(status.NewHistoryCommand())
	r.Register(status.NewInspectCommand())

	// Snapshot commands.
	r.Register(snapshot.NewCreateCommand())
	r.Register(snapshot.NewApplyCommand())
	r.Register(snapshot.NewRestoreCommand())
	r.Register(snapshot.NewListCommand())
	r.Register(snapshot.NewDeleteCommand())
	r.Register(snapshot.NewUndeleteCommand())
}
