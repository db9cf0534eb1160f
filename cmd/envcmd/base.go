// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package envcmd holds the base of every command that acts on the
// configured RDE environment.
package envcmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"

	"github.com/rdecli/rde/api/cloudmanager"
	"github.com/rdecli/rde/api/rde"
	"github.com/rdecli/rde/cmd/output"
	"github.com/rdecli/rde/core/change"
	"github.com/rdecli/rde/internal/backoff"
	"github.com/rdecli/rde/internal/changes"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
	"github.com/rdecli/rde/rdeclient"
	"github.com/rdecli/rde/version"
)

var logger = loggo.GetLogger("rde.cmd.envcmd")

// EnvCommand extends cmd.Command with access to the environment. It is
// implicitly implemented by any type that embeds EnvCommandBase.
type EnvCommand interface {
	cmd.Command

	envBase() *EnvCommandBase
}

// EnvCommandBase is a convenience type for embedding in commands that
// talk to an RDE environment.
type EnvCommandBase struct {
	cmd.CommandBase

	store     rdeclient.ClientStore
	transport httpclient.Transport
	clock     clock.Clock
	getenv    func(string) string

	program     string
	environment string
	maxWait     time.Duration

	config *rdeclient.Config
}

func (c *EnvCommandBase) envBase() *EnvCommandBase {
	return c
}

// SetFlags implements cmd.Command.SetFlags.
func (c *EnvCommandBase) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.program, "program", "", "Program to act on, instead of the configured one")
	f.StringVar(&c.environment, "environment", "", "Environment to act on, instead of the configured one")
	f.DurationVar(&c.maxWait, "max-wait", 0, "Give up waiting for the environment after this long (0 waits as long as needed)")
}

// Selected returns the program and environment given on the command line,
// if any.
func (c *EnvCommandBase) Selected() (program, environment string) {
	return c.program, c.environment
}

// SetClientStore sets the store holding the local configuration.
func (c *EnvCommandBase) SetClientStore(store rdeclient.ClientStore) {
	c.store = store
}

// ClientStore returns the store holding the local configuration. The
// file store is used unless another one was set.
func (c *EnvCommandBase) ClientStore() rdeclient.ClientStore {
	if c.store == nil {
		c.store = rdeclient.NewFileClientStore()
	}
	return c.store
}

// SetTransport sets the transport the requests are made with.
func (c *EnvCommandBase) SetTransport(transport httpclient.Transport) {
	c.transport = transport
}

// SetClock sets the clock used by every polling loop.
func (c *EnvCommandBase) SetClock(clk clock.Clock) {
	c.clock = clk
}

// Clock returns the clock used by every polling loop.
func (c *EnvCommandBase) Clock() clock.Clock {
	if c.clock == nil {
		return clock.WallClock
	}
	return c.clock
}

// SetGetenv sets the function used to read environment variables.
func (c *EnvCommandBase) SetGetenv(getenv func(string) string) {
	c.getenv = getenv
}

// Getenv reads an environment variable.
func (c *EnvCommandBase) Getenv(key string) string {
	if c.getenv == nil {
		return os.Getenv(key)
	}
	return c.getenv(key)
}

// ResolvedConfig returns the stored configuration with the environment
// variables, the defaults and the command line options applied. It is not
// validated.
func (c *EnvCommandBase) ResolvedConfig() (rdeclient.Config, error) {
	stored, err := c.ClientStore().Config()
	if err != nil {
		return rdeclient.Config{}, errors.Trace(err)
	}
	config := stored.WithEnvironment(c.Getenv).WithDefaults()
	if c.program != "" {
		config.Program = c.program
	}
	if c.environment != "" {
		config.Environment = c.environment
	}
	if c.maxWait > 0 {
		config.Polling.MaxWait = c.maxWait
	}
	return config, nil
}

// Config returns the validated configuration of the environment the
// command acts on.
func (c *EnvCommandBase) Config() (rdeclient.Config, error) {
	if c.config != nil {
		return *c.config, nil
	}
	config, err := c.ResolvedConfig()
	if err != nil {
		return rdeclient.Config{}, errors.Trace(err)
	}
	if err := config.Validate(); err != nil {
		return rdeclient.Config{}, errors.Trace(err)
	}
	c.config = &config
	return config, nil
}

// Limits returns the bounds of the polling loops.
func (c *EnvCommandBase) Limits() (backoff.Limits, error) {
	config, err := c.Config()
	if err != nil {
		return backoff.Limits{}, errors.Trace(err)
	}
	return backoff.Limits{MaxDuration: config.Polling.MaxWait}, nil
}

// NewRequester returns a requester for baseURL that authenticates as the
// configured organisation.
func (c *EnvCommandBase) NewRequester(config rdeclient.Config, baseURL string) (*httpclient.Requester, error) {
	headers := make(http.Header)
	headers.Set("User-Agent", fmt.Sprintf("rde/%s", version.Current))
	headers.Set("x-api-key", config.APIKey)
	if config.OrgID != "" {
		headers.Set("x-gw-ims-org-id", config.OrgID)
	}
	requester, err := httpclient.NewRequester(httpclient.Config{
		BaseURL:     baseURL,
		Headers:     headers,
		TokenSource: rdeclient.NewTokenSource(c.ClientStore(), c.Getenv),
		Transport:   c.transport,
		Clock:       c.Clock(),
	})
	return requester, errors.Trace(err)
}

// NewAPI returns a client of the environment the command acts on.
func (c *EnvCommandBase) NewAPI() (*rde.Client, error) {
	config, err := c.Config()
	if err != nil {
		return nil, errors.Trace(err)
	}
	requester, err := c.NewRequester(config, rde.EnvironmentURL(config.APIURL, config.Program, config.Environment))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return rde.NewClient(requester), nil
}

// NewCloudManagerAPI returns a client of the API listing programs and
// environments. The configuration need not name an environment yet.
func (c *EnvCommandBase) NewCloudManagerAPI(config rdeclient.Config) (*cloudmanager.Client, error) {
	requester, err := c.NewRequester(config, config.CloudManagerURL)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return cloudmanager.NewClient(requester), nil
}

// NewTracker returns a tracker of the updates of api. The waiting is
// reported on ctx.
func (c *EnvCommandBase) NewTracker(ctx *cmd.Context, api changes.API) (*changes.Tracker, error) {
	config, err := c.Config()
	if err != nil {
		return nil, errors.Trace(err)
	}
	tracker, err := changes.NewTracker(changes.Config{
		API:     api,
		Clock:   c.Clock(),
		Budgets: change.DefaultLogBudgets().Merge(config.LogBudgets),
		Limits:  backoff.Limits{MaxDuration: config.Polling.MaxWait},
		BeforeSleep: func() {
			ctx.Verbosef("waiting for the environment...")
		},
	})
	return tracker, errors.Trace(err)
}

// StdContext returns a context that is cancelled when the command is
// interrupted. The returned function must be called when the command is
// done.
func (c *EnvCommandBase) StdContext(ctx *cmd.Context) (context.Context, func()) {
	stdCtx, cancel := context.WithCancel(context.Background())
	interrupted := make(chan os.Signal, 1)
	ctx.InterruptNotify(interrupted)
	done := make(chan struct{})
	go func() {
		select {
		case <-interrupted:
			logger.Debugf("interrupted, cancelling")
			cancel()
		case <-done:
		}
	}()
	return stdCtx, func() {
		ctx.StopInterruptNotify(interrupted)
		close(done)
		cancel()
	}
}

// Wrap wraps the specified EnvCommand, returning a Command that proxies to
// each of the EnvCommand methods and reports its failures.
func Wrap(c EnvCommand) cmd.Command {
	return &envCommandWrapper{EnvCommand: c}
}

type envCommandWrapper struct {
	EnvCommand
}

// Inner returns the wrapped command.
func (w *envCommandWrapper) Inner() cmd.Command {
	return w.EnvCommand
}

// Run implements cmd.Command.Run.
func (w *envCommandWrapper) Run(ctx *cmd.Context) error {
	base := w.envBase()
	detach, err := AttachLogFile(base.ClientStore())
	if err != nil {
		logger.Warningf("cannot write the log file: %v", err)
	}
	defer detach()

	err = w.EnvCommand.Run(ctx)
	if err == nil || cmd.IsRcPassthroughError(err) || errors.Is(err, cmd.ErrSilent) {
		return err
	}
	return ReportError(ctx, err)
}

// ReportError writes err to the standard error of ctx as a single line and
// returns an error carrying the exit code of err.
func ReportError(ctx *cmd.Context, err error) error {
	logger.Debugf("%s", errors.ErrorStack(err))

	message := err.Error()
	if errors.Is(err, context.Canceled) {
		message = "interrupted"
	}
	writer := output.Writer(ctx.Stderr)
	if errors.Is(err, rdeerrors.DeploymentWarning) {
		output.WarningHighlight.Fprintf(writer, "WARNING")
	} else {
		output.ErrorHighlight.Fprintf(writer, "ERROR")
	}
	fmt.Fprintf(writer, " %s\n", message)

	var classified *rdeerrors.Error
	if errors.As(err, &classified) && classified.Detail != "" {
		ctx.Verbosef("%s", classified.Detail)
	}
	return cmd.NewRcPassthroughError(rdeerrors.ExitCode(err))
}
