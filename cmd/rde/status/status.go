// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package status holds the commands reporting the state of an environment:
// its deployed artifacts, its update history and its runtime.
package status

import (
	"context"
	"fmt"
	"io"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"github.com/juju/naturalsort"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/cmd/output"
	"github.com/rdecli/rde/core/artifact"
	"github.com/rdecli/rde/core/change"
	"github.com/rdecli/rde/internal/changes"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
	"github.com/rdecli/rde/internal/inventory"
)

var logger = loggo.GetLogger("rde.cmd.status")

// StatusAPI is the part of the environment API used by the reporting
// commands.
type StatusAPI interface {
	changes.API
	inventory.API

	ListUpdates(ctx context.Context) ([]change.Update, error)
	Inspect(ctx context.Context, service, kind string) (*httpclient.Response, error)
}

type statusCommandBase struct {
	envcmd.EnvCommandBase

	newAPIFunc func() (StatusAPI, error)
}

func (c *statusCommandBase) newAPI() (StatusAPI, error) {
	if c.newAPIFunc != nil {
		return c.newAPIFunc()
	}
	api, err := c.NewAPI()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return api, nil
}

const statusDoc = `
Shows the status of the environment and the OSGi bundles and configurations
deployed to each of its services.

Artifacts the server reports for an unknown service or type are counted but
not listed in the tabular output; use --format yaml to see them.
`

// NewStatusCommand returns a command showing the deployed artifacts.
func NewStatusCommand() cmd.Command {
	return envcmd.Wrap(&statusCommand{})
}

type statusCommand struct {
	statusCommandBase

	out    cmd.Output
	target string
}

// Info implements cmd.Command.
func (c *statusCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "status",
		Purpose:  "Show the artifacts deployed to the environment.",
		Doc:      statusDoc,
		Examples: "\n    rde status\n    rde status --target publish --format json\n",
		SeeAlso:  []string{"deploy", "delete", "history", "inspect"},
	})
}

// SetFlags implements cmd.Command.
func (c *statusCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	f.StringVar(&c.target, "target", "", "Only show the author or publish service")
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatStatusTabular,
	})
}

// Init implements cmd.Command.
func (c *statusCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// ArtifactInfo is the output of one deployed artifact.
type ArtifactInfo struct {
	ID      string `json:"id" yaml:"id"`
	Type    string `json:"type" yaml:"type"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ServiceInfo is the output of the artifacts of one service.
type ServiceInfo struct {
	Bundles []ArtifactInfo `json:"osgi-bundles" yaml:"osgi-bundles"`
	Configs []ArtifactInfo `json:"osgi-configs" yaml:"osgi-configs"`
}

// EnvironmentStatus is the output of the status command.
type EnvironmentStatus struct {
	Status    string                 `json:"status" yaml:"status"`
	Services  map[string]ServiceInfo `json:"services" yaml:"services"`
	Unmatched []artifact.Artifact    `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
}

// Run implements cmd.Command.
func (c *statusCommand) Run(ctx *cmd.Context) error {
	if c.target != "" && !artifact.IsService(c.target) {
		return rdeerrors.Newf(rdeerrors.Validation, "target %q must be one of %v", c.target, artifact.Services())
	}
	api, err := c.newAPI()
	if err != nil {
		return errors.Trace(err)
	}
	stdCtx, done := c.StdContext(ctx)
	defer done()

	inv, err := inventory.NewLoader(api, c.Clock(), c.target).LoadAll(stdCtx)
	if err != nil {
		return errors.Trace(err)
	}
	status := c.convert(inv)
	if n := len(status.Unmatched); n > 0 {
		logger.Debugf("unmatched artifacts: %v", status.Unmatched)
		writer := output.Writer(ctx.Stderr)
		output.WarningHighlight.Fprintf(writer, "WARNING")
		fmt.Fprintf(writer, " %d artifact(s) of an unknown service or type are not shown\n", n)
	}
	return c.out.Write(ctx, status)
}

func (c *statusCommand) convert(inv inventory.Inventory) EnvironmentStatus {
	grouped := inv.Group()
	status := EnvironmentStatus{
		Status:    inv.Status,
		Services:  make(map[string]ServiceInfo),
		Unmatched: grouped.Unmatched,
	}
	for _, service := range artifact.Services() {
		if c.target != "" && service != c.target {
			continue
		}
		buckets := grouped.Service(service)
		status.Services[service] = ServiceInfo{
			Bundles: artifactInfos(buckets.Bundles),
			Configs: artifactInfos(buckets.Configs),
		}
	}
	return status
}

// artifactInfos returns the artifacts sorted by name.
func artifactInfos(items []artifact.Artifact) []ArtifactInfo {
	byName := make(map[string][]ArtifactInfo)
	names := make([]string, 0, len(items))
	for _, a := range items {
		name := a.Name()
		if _, ok := byName[name]; !ok {
			names = append(names, name)
		}
		byName[name] = append(byName[name], ArtifactInfo{
			ID:      a.ID,
			Type:    a.Type,
			Name:    name,
			Version: a.Metadata.BundleVersion,
		})
	}
	naturalsort.Sort(names)

	result := make([]ArtifactInfo, 0, len(items))
	for _, name := range names {
		result = append(result, byName[name]...)
	}
	return result
}

func formatStatusTabular(writer io.Writer, value interface{}) error {
	status, ok := value.(EnvironmentStatus)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", status, value)
	}
	highlight := output.WarningHighlight
	if status.Status == inventory.StatusReady {
		highlight = output.GoodHighlight
	}
	fmt.Fprint(writer, "Environment: ")
	highlight.Fprintf(output.Writer(writer), "%s", status.Status)
	fmt.Fprint(writer, "\n\n")

	w := output.Wrapper{TabWriter: output.TabWriter(writer)}
	w.Println("Service", "Type", "Name", "Version", "ID")
	for _, service := range artifact.Services() {
		info, ok := status.Services[service]
		if !ok {
			continue
		}
		if len(info.Bundles)+len(info.Configs) == 0 {
			w.Println(service, "-", "-", "-", "-")
			continue
		}
		for _, a := range append(info.Bundles, info.Configs...) {
			version := a.Version
			if version == "" {
				version = "-"
			}
			w.Println(service, a.Type, a.Name, version, a.ID)
		}
	}
	return w.Flush()
}
