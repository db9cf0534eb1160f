// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package deploy

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/cmd/rde/common"
	"github.com/rdecli/rde/core/artifact"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
	"github.com/rdecli/rde/internal/inventory"
)

const deleteDoc = `
Removes an OSGi bundle or configuration from the environment. The artifact
is named by its id, its bundle symbolic name or its configuration PID, as
shown by the status command. An artifact deployed to both services is
removed from both unless --target is given.
`

const deleteExamples = `
    rde delete com.example.core
    rde delete com.example.Service --target publish --type osgi-config
`

// NewDeleteCommand returns a command deleting an artifact.
func NewDeleteCommand() cmd.Command {
	return envcmd.Wrap(&deleteCommand{})
}

type deleteCommand struct {
	deployCommandBase

	name         string
	artifactType string
	target       string
	force        bool
}

// Info implements cmd.Command.
func (c *deleteCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "delete",
		Args:     "<id>",
		Purpose:  "Delete an artifact from the environment.",
		Doc:      deleteDoc,
		Examples: deleteExamples,
		SeeAlso:  []string{"deploy", "status"},
	})
}

// SetFlags implements cmd.Command.
func (c *deleteCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	f.StringVar(&c.artifactType, "type", "", "Only delete artifacts of this type (osgi-bundle or osgi-config)")
	f.StringVar(&c.target, "target", "", "Only delete from the author or publish service")
	f.BoolVar(&c.force, "force", false, "Delete even when the environment would refuse")
}

// Init implements cmd.Command.
func (c *deleteCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no artifact specified")
	}
	c.name = args[0]
	return cmd.CheckEmpty(args[1:])
}

// Run implements cmd.Command.
func (c *deleteCommand) Run(ctx *cmd.Context) error {
	if c.target != "" && !artifact.IsService(c.target) {
		return rdeerrors.Newf(rdeerrors.Validation, "target %q must be one of %v", c.target, artifact.Services())
	}
	if c.artifactType != "" && c.artifactType != artifact.OSGiBundle && c.artifactType != artifact.OSGiConfig {
		return rdeerrors.Newf(rdeerrors.Validation, "type %q must be %s or %s",
			c.artifactType, artifact.OSGiBundle, artifact.OSGiConfig)
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

	inv, err := inventory.NewLoader(api, c.Clock(), c.target).LoadAll(stdCtx)
	if err != nil {
		return errors.Trace(err)
	}
	matches := c.match(inv.Items)
	if len(matches) == 0 {
		return rdeerrors.Newf(rdeerrors.Validation, "no artifact %q found", c.name)
	}

	for _, a := range matches {
		ctx.Infof("Deleting %s %s from %s...", a.Type, a.Name(), a.Service)
		result, err := tracker.Submit(stdCtx, func() (*httpclient.Response, error) {
			return api.DeleteArtifact(stdCtx, a.ID, c.force)
		})
		if result.Update.ID != "" {
			common.ReportResult(ctx, result)
		}
		if err != nil {
			return errors.Annotatef(err, "deleting %s from %s", a.Name(), a.Service)
		}
	}
	return nil
}

func (c *deleteCommand) match(items []artifact.Artifact) []artifact.Artifact {
	var result []artifact.Artifact
	for _, a := range items {
		if a.ID != c.name && a.Name() != c.name {
			continue
		}
		if c.artifactType != "" && a.Type != c.artifactType {
			continue
		}
		if c.target != "" && a.Service != c.target {
			continue
		}
		result = append(result, a)
	}
	return result
}
