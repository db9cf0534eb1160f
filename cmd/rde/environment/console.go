// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package environment

import (
	"fmt"
	"net/url"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/webbrowser"

	rdecmd "github.com/rdecli/rde/cmd"
	"github.com/rdecli/rde/cmd/envcmd"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/rdeclient"
)

const consoleDoc = `
Opens the developer console of the environment in a web browser. The URL of
the console is printed when no browser can be started or --no-browser is
given.

The URL is looked up once a day and cached in between.
`

// NewConsoleCommand returns a command opening the developer console.
func NewConsoleCommand() cmd.Command {
	return envcmd.Wrap(&consoleCommand{})
}

type consoleCommand struct {
	envcmd.EnvCommandBase

	newAPIFunc  func() (rdeclient.ProgramLister, error)
	openBrowser func(*url.URL) error

	noBrowser bool
}

// Info implements cmd.Command.
func (c *consoleCommand) Info() *cmd.Info {
	return rdecmd.Info(&cmd.Info{
		Name:     "console",
		Purpose:  "Open the developer console of the environment.",
		Doc:      consoleDoc,
		Examples: "\n    rde console\n    rde console --no-browser\n",
		SeeAlso:  []string{"setup", "status"},
	})
}

// SetFlags implements cmd.Command.
func (c *consoleCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
	f.BoolVar(&c.noBrowser, "no-browser", false, "Print the URL instead of opening it")
}

// Init implements cmd.Command.
func (c *consoleCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

func (c *consoleCommand) newAPI() (rdeclient.ProgramLister, error) {
	if c.newAPIFunc != nil {
		return c.newAPIFunc()
	}
	config, err := c.Config()
	if err != nil {
		return nil, errors.Trace(err)
	}
	api, err := c.NewCloudManagerAPI(config)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return api, nil
}

// Run implements cmd.Command.
func (c *consoleCommand) Run(ctx *cmd.Context) error {
	consoleURL, err := c.consoleURL(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if c.noBrowser {
		fmt.Fprintln(ctx.Stdout, consoleURL)
		return nil
	}

	u, err := url.Parse(consoleURL)
	if err != nil {
		return rdeerrors.Wrapf(err, rdeerrors.Internal, "invalid console URL")
	}
	open := c.openBrowser
	if open == nil {
		open = webbrowser.Open
	}
	switch err := open(u); {
	case errors.Is(err, webbrowser.ErrNoBrowser):
		ctx.Infof("No browser found, open the console at:")
		fmt.Fprintln(ctx.Stdout, consoleURL)
	case err != nil:
		return errors.Annotate(err, "opening the console")
	default:
		ctx.Infof("Opening %s", consoleURL)
	}
	return nil
}

func (c *consoleCommand) consoleURL(ctx *cmd.Context) (string, error) {
	config, err := c.Config()
	if err != nil {
		return "", errors.Trace(err)
	}
	store := c.ClientStore()
	cached, err := store.ConsoleURL(config.Program, config.Environment)
	if err == nil {
		return cached, nil
	} else if !errors.Is(err, errors.NotFound) {
		return "", errors.Trace(err)
	}

	api, err := c.newAPI()
	if err != nil {
		return "", errors.Trace(err)
	}
	stdCtx, done := c.StdContext(ctx)
	defer done()
	env, err := rdeclient.NewProgramCache(api).Environment(stdCtx, config.Program, config.Environment)
	if err != nil {
		return "", errors.Trace(err)
	}
	consoleURL := env.ConsoleURL()
	if consoleURL == "" {
		return "", errors.NotFoundf("developer console of environment %s", env.Name)
	}
	if err := store.SetConsoleURL(config.Program, config.Environment, consoleURL); err != nil {
		logger.Warningf("cannot cache the console URL: %v", err)
	}
	return consoleURL, nil
}
