// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package output holds helpers shared by the tabular formatters of the
// commands.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/juju/ansiterm"
	"github.com/mattn/go-isatty"
)

var (
	// WarningHighlight colours cautionary messages.
	WarningHighlight = ansiterm.Foreground(ansiterm.Yellow)

	// ErrorHighlight colours failures.
	ErrorHighlight = ansiterm.Foreground(ansiterm.BrightRed)

	// GoodHighlight colours successes.
	GoodHighlight = ansiterm.Foreground(ansiterm.Green)

	// EmphasisHighlight makes headers stand out.
	EmphasisHighlight = ansiterm.Styles(ansiterm.Bold)
)

// TabWriter returns a new tab writer with common layout definition.
func TabWriter(writer io.Writer) *ansiterm.TabWriter {
	const (
		// To format things into columns.
		minwidth = 0
		tabwidth = 1
		padding  = 2
		padchar  = ' '
		flags    = 0
	)
	return ansiterm.NewTabWriter(writer, minwidth, tabwidth, padding, padchar, flags)
}

// Wrapper provides some helper functions for writing values out tab
// separated.
type Wrapper struct {
	*ansiterm.TabWriter
}

// Print writes each value followed by a tab.
func (w *Wrapper) Print(values ...interface{}) {
	for _, v := range values {
		fmt.Fprintf(w, "%v\t", v)
	}
}

// PrintColor writes the value in the given colour, followed by a tab.
func (w *Wrapper) PrintColor(ctx *ansiterm.Context, value interface{}) {
	if ctx != nil {
		ctx.Fprintf(w.TabWriter, "%v\t", value)
	} else {
		fmt.Fprintf(w, "%v\t", value)
	}
}

// Println writes many tab separated values finished with a new line.
func (w *Wrapper) Println(values ...interface{}) {
	for i, v := range values {
		if i != len(values)-1 {
			fmt.Fprintf(w, "%v\t", v)
		} else {
			fmt.Fprintf(w, "%v", v)
		}
	}
	fmt.Fprintln(w)
}

// ColorCapable reports whether w is a terminal that should be written to
// in colour. Setting NO_COLOR disables colours.
func ColorCapable(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns a writer to w that only emits colours when w is a
// terminal.
func Writer(w io.Writer) *ansiterm.Writer {
	writer := ansiterm.NewWriter(w)
	writer.SetColorCapable(ColorCapable(w))
	return writer
}

// Bytes formats a size the way humans read it.
func Bytes(size int64) string {
	if size < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

// Age formats how long ago t was, relative to now.
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Elapsed formats a duration rounded to the second.
func Elapsed(d time.Duration) string {
	return d.Round(time.Second).String()
}
