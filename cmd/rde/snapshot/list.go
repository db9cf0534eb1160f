// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"io"
	"time"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/naturalsort"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	"github.com/rdecli/rde/cmd/output"
	coresnapshot "github.com/rdecli/rde/core/snapshot"
)

const listDoc = `
Lists the snapshots of the environment.

Deleted snapshots are kept for seven days after their last use, and can be
brought back with snapshot-undelete until they are purged.
`

// NewListCommand returns a command listing the snapshots.
func NewListCommand() cmd.Command {
	return envcmd.Wrap(&listCommand{})
}

type listCommand struct {
	snapshotCommandBase

	out         cmd.Output
	showDeleted bool
}

// Info implements cmd.Command.
func (c *listCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "snapshots",
		Purpose:  "List the snapshots of the environment.",
		Doc:      listDoc,
		Examples: "\n    rde snapshots\n    rde snapshots --all --format yaml\n",
		SeeAlso:  []string{"snapshot-create", "snapshot-delete", "snapshot-undelete"},
	})
}

// SetFlags implements cmd.Command.
func (c *listCommand) SetFlags(f *gnuflag.FlagSet) {
	c.snapshotCommandBase.SetFlags(f)
	f.BoolVar(&c.showDeleted, "all", false, "Include deleted snapshots")
	c.out.AddFlags(f, "tabular", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": c.formatTabular,
	})
}

// Init implements cmd.Command.
func (c *listCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// SnapshotInfo is the output of a snapshot.
type SnapshotInfo struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	State       string     `json:"state" yaml:"state"`
	Size        int64      `json:"size" yaml:"size"`
	Created     *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	LastUsed    *time.Time `json:"last-used,omitempty" yaml:"last-used,omitempty"`
	Usage       int        `json:"usage" yaml:"usage"`
	PurgeAt     *time.Time `json:"purge-at,omitempty" yaml:"purge-at,omitempty"`
}

// Run implements cmd.Command.
func (c *listCommand) Run(ctx *cmd.Context) error {
	api, err := c.newAPI()
	if err != nil {
		return errors.Trace(err)
	}
	stdCtx, done := c.StdContext(ctx)
	defer done()
	snapshots, err := api.ListSnapshots(stdCtx)
	if err != nil {
		return errors.Trace(err)
	}

	infos := c.convert(snapshots)
	if len(infos) == 0 && c.out.Name() == "tabular" {
		ctx.Infof("No snapshots to display.")
		return nil
	}
	return c.out.Write(ctx, infos)
}

func (c *listCommand) convert(snapshots []coresnapshot.Snapshot) []SnapshotInfo {
	byName := make(map[string]SnapshotInfo)
	names := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		if s.State == coresnapshot.Deleted && !c.showDeleted {
			continue
		}
		info := SnapshotInfo{
			Name:        s.Name,
			Description: s.Description,
			State:       string(s.State),
			Size:        s.Size.TotalSize,
			Created:     s.Created,
			LastUsed:    s.LastUsed,
			Usage:       s.Usage,
		}
		if purgeAt, ok := s.PurgeAt(); ok {
			info.PurgeAt = &purgeAt
		}
		if _, ok := byName[s.Name]; ok {
			logger.Warningf("snapshot %q listed twice", s.Name)
			continue
		}
		byName[s.Name] = info
		names = append(names, s.Name)
	}
	naturalsort.Sort(names)

	result := make([]SnapshotInfo, len(names))
	for i, name := range names {
		result[i] = byName[name]
	}
	return result
}

func (c *listCommand) formatTabular(writer io.Writer, value interface{}) error {
	infos, ok := value.([]SnapshotInfo)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", infos, value)
	}
	now := c.Clock().Now()
	w := output.Wrapper{TabWriter: output.TabWriter(writer)}
	w.SetColumnAlignRight(2)
	w.Println("Name", "State", "Size", "Created", "Last used", "Usage", "Purged", "Description")
	for _, info := range infos {
		w.Print(info.Name)
		if info.State == string(coresnapshot.Deleted) {
			w.PrintColor(output.WarningHighlight, info.State)
		} else {
			w.PrintColor(output.GoodHighlight, info.State)
		}
		w.Print(output.Bytes(info.Size), age(info.Created, now), age(info.LastUsed, now), info.Usage)
		purge := "-"
		if info.PurgeAt != nil {
			purge = info.PurgeAt.Format(time.DateOnly)
		}
		w.Println(purge, info.Description)
	}
	return w.Flush()
}

func age(t *time.Time, now time.Time) string {
	if t == nil {
		return "-"
	}
	return output.Age(*t, now)
}
