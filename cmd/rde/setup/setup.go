// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package setup holds the command selecting the environment the other
// commands act on.
package setup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/rdecli/rde/api/cloudmanager"
	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/rdeclient"
)

var logger = loggo.GetLogger("rde.cmd.setup")

// DefaultTokenLifetime is how long a token entered at setup is used
// before rde asks for a new one.
const DefaultTokenLifetime = 24 * time.Hour

const setupDoc = `
Selects the organisation, program and environment the other commands act
on, and stores an access token for them.

Whatever is not given on the command line is asked for. Programs and
environments are listed to choose from; only rapid development environments
can be selected.

The access token is kept in the keyring of the system when there is one. It
is not asked for when --token is given or RDE_ACCESS_TOKEN is set.
`

const setupExamples = `
    rde setup
    rde setup --org-id 1234@AdobeOrg --program 12345 --environment 67890
`

// NewSetupCommand returns a command configuring the client.
func NewSetupCommand() cmd.Command {
	return envcmd.Wrap(&setupCommand{})
}

type setupCommand struct {
	envcmd.EnvCommandBase

	newAPIFunc func(rdeclient.Config) (rdeclient.ProgramLister, error)

	orgID         string
	token         string
	tokenLifetime time.Duration

	in *bufio.Reader
}

// Info implements cmd.Command.
func (c *setupCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "setup",
		Purpose:  "Select the environment to work with.",
		Doc:      setupDoc,
		Examples: setupExamples,
		SeeAlso:  []string{"status", "console"},
	})
}

// SetFlags implements cmd.Command.
func (c *setupCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	f.StringVar(&c.orgID, "org-id", "", "The organisation owning the program")
	f.StringVar(&c.token, "token", "", "The access token to store")
	f.DurationVar(&c.tokenLifetime, "token-lifetime", DefaultTokenLifetime, "How long the access token is valid")
}

// Init implements cmd.Command.
func (c *setupCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

func (c *setupCommand) newAPI(config rdeclient.Config) (rdeclient.ProgramLister, error) {
	if c.newAPIFunc != nil {
		return c.newAPIFunc(config)
	}
	api, err := c.NewCloudManagerAPI(config)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return api, nil
}

// Run implements cmd.Command.
func (c *setupCommand) Run(ctx *cmd.Context) error {
	if c.tokenLifetime <= 0 {
		return rdeerrors.Newf(rdeerrors.Validation, "token lifetime must be positive, got %v", c.tokenLifetime)
	}
	c.in = bufio.NewReader(ctx.Stdin)
	store := c.ClientStore()

	config, err := c.ResolvedConfig()
	if err != nil {
		return errors.Trace(err)
	}
	if c.orgID != "" {
		config.OrgID = c.orgID
	}
	// The stored selection is replaced, so only the command line counts.
	config.Program, config.Environment = c.Selected()
	if config.OrgID == "" {
		if config.OrgID, err = c.prompt(ctx, "Organisation ID: "); err != nil {
			return errors.Trace(err)
		}
	}
	if err := c.storeToken(ctx, store); err != nil {
		return errors.Trace(err)
	}

	api, err := c.newAPI(config)
	if err != nil {
		return errors.Trace(err)
	}
	programs := rdeclient.NewProgramCache(api)
	stdCtx, done := c.StdContext(ctx)
	defer done()

	if config.Program == "" {
		if config.Program, err = c.selectProgram(stdCtx, ctx, programs); err != nil {
			return errors.Trace(err)
		}
	}
	env, err := c.selectEnvironment(stdCtx, ctx, programs, config)
	if err != nil {
		return errors.Trace(err)
	}
	config.Environment = env.ID

	stored, err := store.Config()
	if err != nil {
		return errors.Trace(err)
	}
	stored.OrgID = config.OrgID
	stored.Program = config.Program
	stored.Environment = config.Environment
	if err := store.UpdateConfig(stored); err != nil {
		return errors.Annotate(err, "saving configuration")
	}
	if consoleURL := env.ConsoleURL(); consoleURL != "" {
		if err := store.SetConsoleURL(config.Program, config.Environment, consoleURL); err != nil {
			logger.Warningf("cannot cache the console URL: %v", err)
		}
	}
	ctx.Infof("Using environment %s (%s) of program %s.", env.Name, env.ID, config.Program)
	return nil
}

func (c *setupCommand) storeToken(ctx *cmd.Context, store rdeclient.TokenStore) error {
	token := c.token
	if token == "" {
		if c.Getenv(rdeclient.AccessTokenEnvKey) != "" {
			logger.Debugf("using the access token of %s", rdeclient.AccessTokenEnvKey)
			return nil
		}
		var err error
		if token, err = c.promptSecret(ctx, "Access token: "); err != nil {
			return errors.Trace(err)
		}
	}
	err := store.SetToken(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
		Expiry:      c.Clock().Now().Add(c.tokenLifetime),
	})
	return errors.Annotate(err, "storing access token")
}

func (c *setupCommand) selectProgram(stdCtx context.Context, ctx *cmd.Context, programs *rdeclient.ProgramCache) (string, error) {
	all, err := programs.Programs(stdCtx)
	if err != nil {
		return "", errors.Trace(err)
	}
	var enabled []cloudmanager.Program
	for _, p := range all {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return "", rdeerrors.Newf(rdeerrors.EnvironmentNotFound, "no enabled program found")
	}
	choices := make([]string, len(enabled))
	for i, p := range enabled {
		choices[i] = fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	i, err := c.choose(ctx, "Program", choices)
	if err != nil {
		return "", errors.Trace(err)
	}
	return enabled[i].ID, nil
}

func (c *setupCommand) selectEnvironment(
	stdCtx context.Context, ctx *cmd.Context, programs *rdeclient.ProgramCache, config rdeclient.Config,
) (cloudmanager.Environment, error) {
	if config.Environment != "" {
		env, err := programs.Environment(stdCtx, config.Program, config.Environment)
		if errors.Is(err, errors.NotFound) {
			return env, rdeerrors.Newf(rdeerrors.EnvironmentNotFound,
				"environment %s not found in program %s", config.Environment, config.Program)
		} else if err != nil {
			return env, errors.Trace(err)
		}
		if !env.IsRDE() {
			return env, rdeerrors.Newf(rdeerrors.WrongEnvironmentType,
				"environment %s is a %s environment, not a rapid development environment", env.ID, env.Type)
		}
		return env, nil
	}

	all, err := programs.Environments(stdCtx, config.Program)
	if err != nil {
		return cloudmanager.Environment{}, errors.Trace(err)
	}
	var rdes []cloudmanager.Environment
	for _, env := range all {
		if env.IsRDE() {
			rdes = append(rdes, env)
		}
	}
	if len(rdes) == 0 {
		return cloudmanager.Environment{}, rdeerrors.Newf(rdeerrors.EnvironmentNotFound,
			"program %s has no rapid development environment", config.Program)
	}
	choices := make([]string, len(rdes))
	for i, env := range rdes {
		choices[i] = fmt.Sprintf("%s (%s)", env.Name, env.ID)
	}
	i, err := c.choose(ctx, "Environment", choices)
	if err != nil {
		return cloudmanager.Environment{}, errors.Trace(err)
	}
	return rdes[i], nil
}

// choose returns the index of the choice picked by the user. A single
// choice is picked without asking.
func (c *setupCommand) choose(ctx *cmd.Context, what string, choices []string) (int, error) {
	if len(choices) == 1 {
		ctx.Infof("%s: %s", what, choices[0])
		return 0, nil
	}
	for i, choice := range choices {
		fmt.Fprintf(ctx.Stderr, "  %d. %s\n", i+1, choice)
	}
	answer, err := c.prompt(ctx, fmt.Sprintf("%s [1-%d]: ", what, len(choices)))
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(choices) {
		return 0, rdeerrors.Newf(rdeerrors.Validation, "invalid choice %q", answer)
	}
	return n - 1, nil
}

func (c *setupCommand) prompt(ctx *cmd.Context, question string) (string, error) {
	fmt.Fprint(ctx.Stderr, question)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Trace(err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", rdeerrors.Newf(rdeerrors.Validation, "no answer given")
	}
	return answer, nil
}

// promptSecret reads an answer without echoing it when stdin is a
// terminal.
func (c *setupCommand) promptSecret(ctx *cmd.Context, question string) (string, error) {
	f, ok := ctx.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.prompt(ctx, question)
	}
	fmt.Fprint(ctx.Stderr, question)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(ctx.Stderr)
	if err != nil {
		return "", errors.Annotate(err, "reading access token")
	}
	answer := strings.TrimSpace(string(secret))
	if answer == "" {
		return "", rdeerrors.Newf(rdeerrors.Validation, "no answer given")
	}
	return answer, nil
}
