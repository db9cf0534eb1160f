// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/core/artifact"
	rdeerrors "github.com/rdecli/rde/internal/errors"
)

// column is one column of an inspect table.
type column struct {
	header string
	key    string
}

// inspectKind describes what an inspect subject is called on the server
// and which of its fields are shown in a table.
type inspectKind struct {
	endpoint string
	columns  []column
}

var inspectKinds = map[string]inspectKind{
	"bundles": {
		endpoint: "osgi-bundles",
		columns:  []column{{"ID", "id"}, {"Name", "symbolicName"}, {"Version", "version"}, {"State", "state"}},
	},
	"components": {
		endpoint: "osgi-components",
		columns:  []column{{"Name", "name"}, {"Bundle", "bundleId"}, {"State", "state"}},
	},
	"services": {
		endpoint: "osgi-services",
		columns:  []column{{"ID", "id"}, {"Bundle", "bundleId"}, {"Types", "types"}},
	},
	"configurations": {
		endpoint: "osgi-configurations",
		columns:  []column{{"PID", "pid"}, {"Factory PID", "factoryPid"}},
	},
	"requests": {
		endpoint: "requests",
		columns:  []column{{"Method", "method"}, {"Path", "path"}, {"Status", "status"}, {"Duration", "duration"}},
	},
}

func inspectKindNames() []string {
	names := make([]string, 0, len(inspectKinds))
	for name := range inspectKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const inspectDoc = `
Shows runtime information of one service of the environment: its OSGi
bundles, components, services and configurations, or the last requests it
served.
`

// NewInspectCommand returns a command inspecting the runtime of a service.
func NewInspectCommand() cmd.Command {
	return envcmd.Wrap(&inspectCommand{})
}

type inspectCommand struct {
	statusCommandBase

	out    cmd.Output
	kind   string
	target string
}

// Info implements cmd.Command.
func (c *inspectCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "inspect",
		Args:     "<" + strings.Join(inspectKindNames(), "|") + ">",
		Purpose:  "Inspect the runtime of a service of the environment.",
		Doc:      inspectDoc,
		Examples: "\n    rde inspect bundles\n    rde inspect requests --target publish --format json\n",
		SeeAlso:  []string{"status"},
	})
}

// SetFlags implements cmd.Command.
func (c *inspectCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	f.StringVar(&c.target, "target", artifact.Author, "The service to inspect, author or publish")
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": c.formatTabular,
	})
}

// Init implements cmd.Command.
func (c *inspectCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.Errorf("no subject specified, expected one of %s", strings.Join(inspectKindNames(), ", "))
	}
	c.kind = args[0]
	return cmd.CheckEmpty(args[1:])
}

// Run implements cmd.Command.
func (c *inspectCommand) Run(ctx *cmd.Context) error {
	kind, ok := inspectKinds[c.kind]
	if !ok {
		return rdeerrors.Newf(rdeerrors.Validation, "cannot inspect %q, expected one of %s",
			c.kind, strings.Join(inspectKindNames(), ", "))
	}
	if !artifact.IsService(c.target) {
		return rdeerrors.Newf(rdeerrors.Validation, "target %q must be one of %v", c.target, artifact.Services())
	}
	api, err := c.newAPI()
	if err != nil {
		return errors.Trace(err)
	}
	stdCtx, done := c.StdContext(ctx)
	defer done()

	resp, err := api.Inspect(stdCtx, c.target, kind.endpoint)
	if err != nil {
		return errors.Annotatef(err, "inspecting %s", kind.endpoint)
	}
	if resp.StatusCode != http.StatusOK {
		err := rdeerrors.StatusError("inspecting "+kind.endpoint, resp.StatusCode, resp.Status)
		err.Detail = resp.Text()
		return err
	}
	var result struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := resp.JSON(&result); err != nil {
		return errors.Trace(err)
	}
	if len(result.Items) == 0 && c.out.Name() == "tabular" {
		ctx.Infof("No %s to display.", c.kind)
		return nil
	}
	if result.Items == nil {
		result.Items = []map[string]interface{}{}
	}
	return c.out.Write(ctx, result.Items)
}

func (c *inspectCommand) formatTabular(writer io.Writer, value interface{}) error {
	items, ok := value.([]map[string]interface{})
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", items, value)
	}
	columns := inspectKinds[c.kind].columns

	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	headers := make([]interface{}, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}
	table.AddRow(headers...)
	for _, item := range items {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			row[i] = cell(item[col.key])
		}
		table.AddRow(row...)
	}
	fmt.Fprintln(writer, table)
	return nil
}

func cell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case []interface{}:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = cell(p)
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
