// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"io"
	"strings"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/cmd/output"
	"github.com/rdecli/rde/cmd/rde/common"
	"github.com/rdecli/rde/core/change"
	rdeerrors "github.com/rdecli/rde/internal/errors"
)

const historyDoc = `
Without an argument, lists the updates of the environment: deployments,
deletions, resets and restarts.

With the id of an update, waits until the update is done and prints its
status and logs. A failed or staged update is reported, not treated as an
error of the command.
`

// NewHistoryCommand returns a command showing the update history.
func NewHistoryCommand() cmd.Command {
	return envcmd.Wrap(&historyCommand{})
}

type historyCommand struct {
	statusCommandBase

	out cmd.Output
	id  string
}

// Info implements cmd.Command.
func (c *historyCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "history",
		Args:     "[<id>]",
		Purpose:  "Show the updates of the environment.",
		Doc:      historyDoc,
		Examples: "\n    rde history\n    rde history 42\n",
		SeeAlso:  []string{"deploy", "status"},
	})
}

// SetFlags implements cmd.Command.
func (c *historyCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": c.formatTabular,
	})
}

// Init implements cmd.Command.
func (c *historyCommand) Init(args []string) error {
	if len(args) > 0 {
		c.id, args = args[0], args[1:]
	}
	return cmd.CheckEmpty(args)
}

// Run implements cmd.Command.
func (c *historyCommand) Run(ctx *cmd.Context) error {
	if c.id != "" {
		return c.show(ctx)
	}
	api, err := c.newAPI()
	if err != nil {
		return errors.Trace(err)
	}
	stdCtx, done := c.StdContext(ctx)
	defer done()
	updates, err := api.ListUpdates(stdCtx)
	if err != nil {
		return errors.Trace(err)
	}
	if len(updates) == 0 && c.out.Name() == "tabular" {
		ctx.Infof("No updates to display.")
		return nil
	}
	if updates == nil {
		updates = []change.Update{}
	}
	return c.out.Write(ctx, updates)
}

func (c *historyCommand) show(ctx *cmd.Context) error {
	if _, err := change.ParseID(c.id); err != nil {
		return errors.Trace(err)
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

	result, err := tracker.Track(stdCtx, c.id)
	if result.NotFound {
		return errors.NotFoundf("update %s", c.id)
	}
	if result.Update.ID != "" {
		common.ReportResult(ctx, result)
	}
	switch rdeerrors.KindOf(err) {
	case rdeerrors.DeploymentFailure, rdeerrors.DeploymentWarning:
		logger.Debugf("update %s: %v", c.id, err)
		return nil
	}
	return errors.Trace(err)
}

func (c *historyCommand) formatTabular(writer io.Writer, value interface{}) error {
	updates, ok := value.([]change.Update)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", updates, value)
	}
	now := c.Clock().Now()
	w := output.Wrapper{TabWriter: output.TabWriter(writer)}
	w.Println("ID", "Action", "Status", "Type", "Name", "Targets", "Received")
	for _, u := range updates {
		w.Print(u.ID, u.Action)
		switch u.Status {
		case change.Completed:
			w.PrintColor(output.GoodHighlight, u.Status)
		case change.Failed:
			w.PrintColor(output.ErrorHighlight, u.Status)
		case change.Staged:
			w.PrintColor(output.WarningHighlight, u.Status)
		default:
			w.Print(u.Status)
		}
		received := "-"
		if u.Timestamps.Received != nil {
			received = output.Age(*u.Timestamps.Received, now)
		}
		w.Println(dash(u.Type), dash(u.Name()), dash(strings.Join(u.Targets(), ",")), received)
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
