// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package common holds what several rde commands print the same way.
package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/juju/ansiterm"
	"github.com/juju/cmd/v3"

	"github.com/rdecli/rde/cmd/output"
	"github.com/rdecli/rde/core/change"
	"github.com/rdecli/rde/internal/changes"
)

// DescribeUpdate returns a one line summary of an update.
func DescribeUpdate(update change.Update) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%s: %s %s", update.ID, update.Action, update.Status)
	if update.Type != "" {
		fmt.Fprintf(&b, " %s", update.Type)
	}
	if name := update.Name(); name != "" {
		fmt.Fprintf(&b, " %s", name)
	}
	if targets := update.Targets(); len(targets) > 0 {
		fmt.Fprintf(&b, " on %s", strings.Join(targets, ", "))
	}
	return b.String()
}

// ReportResult writes the outcome of an update and its logs to the
// standard output of ctx.
func ReportResult(ctx *cmd.Context, result changes.Result) {
	if result.NotFound {
		ctx.Infof("Update %s does not exist.", result.Update.ID)
		return
	}
	writer := output.Writer(ctx.Stdout)
	statusColor(result.Update.Status).Fprintf(writer, "%s", DescribeUpdate(result.Update))
	fmt.Fprintln(writer)
	WriteHistory(ctx.Stdout, result.Update.ID, result.History)
}

// WriteHistory writes the log lines of update id, or a note that they
// could not be loaded.
func WriteHistory(w io.Writer, id string, history changes.History) {
	if !history.Available {
		if history.Failure != "" {
			fmt.Fprintf(w, "Logs could not be loaded: %s.\n", history.Failure)
		} else {
			fmt.Fprintf(w, "Logs not available after waiting %s.\n", output.Elapsed(history.WaitedFor))
		}
		fmt.Fprintf(w, "Run \"rde history %s\" later to see them.\n", id)
		return
	}
	for _, line := range history.Lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func statusColor(status change.Status) *ansiterm.Context {
	switch status {
	case change.Completed:
		return output.GoodHighlight
	case change.Failed:
		return output.ErrorHighlight
	case change.Staged:
		return output.WarningHighlight
	}
	return output.EmphasisHighlight
}
