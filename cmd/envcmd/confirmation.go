// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package envcmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	rdeerrors "github.com/rdecli/rde/internal/errors"
)

// SkipConfirmationEnvKey, when set to a true value, answers every
// confirmation prompt with yes.
const SkipConfirmationEnvKey = "RDE_SKIP_CONFIRMATION"

// ConfirmationCommandBase provides common attributes and methods that
// commands require to confirm the execution.
type ConfirmationCommandBase struct {
	assumeNoPrompt bool
}

// SetFlags implements Command.SetFlags.
func (c *ConfirmationCommandBase) SetFlags(f *gnuflag.FlagSet) {
	f.BoolVar(&c.assumeNoPrompt, "no-prompt", false, "Do not ask for confirmation")
}

// Init reads the environment variable skipping the confirmation.
func (c *ConfirmationCommandBase) Init(getenv func(string) string) error {
	if c.assumeNoPrompt {
		return nil
	}
	value := getenv(SkipConfirmationEnvKey)
	if value == "" {
		return nil
	}
	skip, err := strconv.ParseBool(value)
	if err != nil {
		return errors.Errorf("unexpected value for %s: %q", SkipConfirmationEnvKey, value)
	}
	c.assumeNoPrompt = skip
	return nil
}

// NeedsConfirmation returns if flags require the confirmation or not.
func (c *ConfirmationCommandBase) NeedsConfirmation() bool {
	return !c.assumeNoPrompt
}

// Confirm asks the question on ctx unless the confirmation is skipped.
// Anything but yes aborts the command with a validation error.
func (c *ConfirmationCommandBase) Confirm(ctx *cmd.Context, question string) error {
	if !c.NeedsConfirmation() {
		return nil
	}
	fmt.Fprintf(ctx.Stderr, "%s (y/N): ", question)
	answer, err := bufio.NewReader(ctx.Stdin).ReadString('\n')
	if err != nil && answer == "" {
		return rdeerrors.Newf(rdeerrors.Validation, "no confirmation given")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return rdeerrors.Newf(rdeerrors.Validation, "aborted")
}
