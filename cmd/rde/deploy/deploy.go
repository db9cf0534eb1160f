// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package deploy holds the commands adding artifacts to and removing them
// from an environment.
package deploy

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/cmd/v3"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"

	"github.com/rdecli/rde/api/rde"
	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/cmd/rde/common"
	"github.com/rdecli/rde/core/artifact"
	"github.com/rdecli/rde/core/change"
	"github.com/rdecli/rde/internal/changes"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
	"github.com/rdecli/rde/internal/inventory"
)

var logger = loggo.GetLogger("rde.cmd.deploy")

// DeployAPI is the part of the environment API used by the deploy and
// delete commands.
type DeployAPI interface {
	changes.API
	inventory.API

	Deploy(ctx context.Context, args rde.DeployArgs) (*httpclient.Response, error)
	DeleteArtifact(ctx context.Context, id string, force bool) (*httpclient.Response, error)
}

var (
	deployableTypes = set.NewStrings(
		change.TypeOSGiBundle,
		change.TypeOSGiConfig,
		change.TypeContentPackage,
		change.TypeContentFile,
		change.TypeDispatcherConfig,
		change.TypeEnvConfig,
		change.TypeFrontend,
	)

	// Types deployed to a repository path.
	pathTypes = set.NewStrings(change.TypeContentFile)
)

const deployDoc = `
Deploys an artifact to the environment and waits until the deployment is
done, then prints its logs.

The artifact is a local file or an http(s) URL the environment downloads
itself. Its type is guessed from the file name unless --type is given:

    *.jar        osgi-bundle
    *.cfg.json   osgi-config
    *.zip        content-package

Content files need a --path in the repository.

A deployment that is staged instead of applied exits with status 40; it is
applied with the next restart of the environment.
`

const deployExamples = `
    rde deploy ./target/core-1.0.jar
    rde deploy ./com.example.Service.cfg.json --target author
    rde deploy https://example.com/all-1.0.zip
    rde deploy ./logo.png --type content-file --path /content/dam/logo.png
    rde deploy ./dispatcher.zip --type dispatcher-config
`

// NewDeployCommand returns a command deploying an artifact.
func NewDeployCommand() cmd.Command {
	return envcmd.Wrap(&deployCommand{})
}

type deployCommand struct {
	deployCommandBase

	location     string
	artifactType string
	target       string
	path         string
	force        bool
}

type deployCommandBase struct {
	envcmd.EnvCommandBase

	newAPIFunc func() (DeployAPI, error)
}

func (c *deployCommandBase) newAPI() (DeployAPI, error) {
	if c.newAPIFunc != nil {
		return c.newAPIFunc()
	}
	api, err := c.NewAPI()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return api, nil
}

// Info implements cmd.Command.
func (c *deployCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "deploy",
		Args:     "<file|url>",
		Purpose:  "Deploy an artifact to the environment.",
		Doc:      deployDoc,
		Examples: deployExamples,
		SeeAlso:  []string{"delete", "status", "history"},
	})
}

// SetFlags implements cmd.Command.
func (c *deployCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	f.StringVar(&c.artifactType, "type", "", "The artifact type, guessed from the file name when not given")
	f.StringVar(&c.target, "target", "", "Deploy to the author or publish service only")
	f.StringVar(&c.path, "path", "", "The repository path of a content file")
	f.BoolVar(&c.force, "force", false, "Deploy even when the environment would refuse")
}

// Init implements cmd.Command.
func (c *deployCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no artifact specified")
	}
	c.location = args[0]
	return cmd.CheckEmpty(args[1:])
}

// Run implements cmd.Command.
func (c *deployCommand) Run(ctx *cmd.Context) error {
	args, err := c.deployArgs()
	if err != nil {
		return errors.Trace(err)
	}
	if args.URL == "" {
		file, err := os.Open(c.location)
		if err != nil {
			return rdeerrors.Wrapf(err, rdeerrors.Validation, "cannot read artifact")
		}
		defer func() { _ = file.Close() }()
		args.Content = file
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

	ctx.Infof("Deploying %s %s...", args.Type, c.location)
	result, err := tracker.Submit(stdCtx, func() (*httpclient.Response, error) {
		return api.Deploy(stdCtx, args)
	})
	if result.Update.ID != "" {
		common.ReportResult(ctx, result)
	}
	return errors.Trace(err)
}

// deployArgs validates the options and the artifact location.
func (c *deployCommand) deployArgs() (rde.DeployArgs, error) {
	if c.target != "" && !artifact.IsService(c.target) {
		return rde.DeployArgs{}, rdeerrors.Newf(rdeerrors.Validation,
			"target %q must be one of %v", c.target, artifact.Services())
	}
	args := rde.DeployArgs{
		Type:    c.artifactType,
		Service: c.target,
		Path:    c.path,
		Force:   c.force,
	}
	if isURL(c.location) {
		args.URL = c.location
	} else {
		info, err := os.Stat(c.location)
		if err != nil {
			return rde.DeployArgs{}, rdeerrors.Wrapf(err, rdeerrors.Validation, "cannot read artifact")
		}
		if info.IsDir() {
			return rde.DeployArgs{}, rdeerrors.Newf(rdeerrors.Validation, "%s is a directory", c.location)
		}
		args.Filename = filepath.Base(c.location)
	}

	if args.Type == "" {
		args.Type = guessType(c.location)
		if args.Type == "" {
			return rde.DeployArgs{}, rdeerrors.Newf(rdeerrors.Validation,
				"cannot guess the type of %s, use --type", c.location)
		}
		logger.Debugf("guessed type %s for %s", args.Type, c.location)
	}
	if !deployableTypes.Contains(args.Type) {
		return rde.DeployArgs{}, rdeerrors.Newf(rdeerrors.Validation,
			"type %q must be one of %v", args.Type, deployableTypes.SortedValues())
	}
	if pathTypes.Contains(args.Type) && args.Path == "" {
		return rde.DeployArgs{}, rdeerrors.Newf(rdeerrors.Validation, "%s needs a --path", args.Type)
	}
	return args, nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func guessType(location string) string {
	name := strings.ToLower(location)
	if isURL(name) {
		name, _, _ = strings.Cut(name, "?")
	}
	switch {
	case strings.HasSuffix(name, ".jar"):
		return change.TypeOSGiBundle
	case strings.HasSuffix(name, ".cfg.json"):
		return change.TypeOSGiConfig
	case strings.HasSuffix(name, ".zip"):
		return change.TypeContentPackage
	}
	return ""
}
