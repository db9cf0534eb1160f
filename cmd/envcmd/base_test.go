// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package envcmd_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/juju/cmd/v3"
	"github.com/juju/cmd/v3/cmdtesting"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/rdecli/rde/cmd/envcmd"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	rdetesting "github.com/rdecli/rde/internal/testing"
	"github.com/rdecli/rde/rdeclient"
)

type testCommand struct {
	envcmd.EnvCommandBase
	run func(*cmd.Context) error
}

func (c *testCommand) Info() *cmd.Info {
	return &cmd.Info{Name: "test"}
}

func (c *testCommand) SetFlags(f *gnuflag.FlagSet) {
	c.EnvCommandBase.SetFlags(f)
}

func (c *testCommand) Run(ctx *cmd.Context) error {
	return c.run(ctx)
}

type baseSuite struct {
	testing.IsolationSuite

	store  *rdeclient.MemStore
	server *rdetesting.FakeControlPlane
	env    map[string]string
}

var _ = gc.Suite(&baseSuite{})

func (s *baseSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.server = rdetesting.NewFakeControlPlane()
	s.AddCleanup(func(*gc.C) { s.server.Close() })

	s.store = rdeclient.NewMemStore()
	s.store.Configured = rdeclient.Config{
		APIURL:      s.server.URL,
		OrgID:       "org@AdobeOrg",
		Program:     rdetesting.Program,
		Environment: rdetesting.Environment,
	}
	s.env = map[string]string{rdeclient.AccessTokenEnvKey: "secret"}
}

func (s *baseSuite) newCommand(run func(*testCommand, *cmd.Context) error) (*testCommand, cmd.Command) {
	command := &testCommand{}
	command.run = func(ctx *cmd.Context) error { return run(command, ctx) }
	command.SetClientStore(s.store)
	command.SetTransport(s.server.Client())
	command.SetGetenv(func(key string) string { return s.env[key] })
	return command, envcmd.Wrap(command)
}

func (s *baseSuite) TestConfigOverrides(c *gc.C) {
	s.env[rdeclient.APIKeyEnvKey] = "my-key"
	var config rdeclient.Config
	_, command := s.newCommand(func(t *testCommand, _ *cmd.Context) error {
		var err error
		config, err = t.Config()
		return err
	})
	_, err := cmdtesting.RunCommand(c, command, "--environment", "111", "--max-wait", "2m")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(config.Program, gc.Equals, rdetesting.Program)
	c.Check(config.Environment, gc.Equals, "111")
	c.Check(config.APIKey, gc.Equals, "my-key")
	c.Check(config.CloudManagerURL, gc.Equals, rdeclient.DefaultCloudManagerURL)
	c.Check(config.Polling.MaxWait, gc.Equals, 2*time.Minute)
}

func (s *baseSuite) TestMissingConfiguration(c *gc.C) {
	s.store.Configured = rdeclient.Config{}
	_, command := s.newCommand(func(t *testCommand, _ *cmd.Context) error {
		_, err := t.NewAPI()
		return err
	})
	ctx, err := cmdtesting.RunCommand(c, command)
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitConfiguration))
	c.Check(cmdtesting.Stderr(ctx), gc.Equals,
		"ERROR configuration is missing [org-id program environment], run \"rde setup\"\n")
}

func (s *baseSuite) TestRequestHeaders(c *gc.C) {
	s.server.Queue("POST", rdetesting.EnvPath("runtime/restart"), rdetesting.Reply{Status: 202})
	_, command := s.newCommand(func(t *testCommand, ctx *cmd.Context) error {
		api, err := t.NewAPI()
		if err != nil {
			return err
		}
		stdCtx, done := t.StdContext(ctx)
		defer done()
		_, err = api.Restart(stdCtx)
		return err
	})
	_, err := cmdtesting.RunCommand(c, command)
	c.Assert(err, jc.ErrorIsNil)

	requests := s.server.RequestsTo("POST", rdetesting.EnvPath("runtime/restart"))
	c.Assert(requests, gc.HasLen, 1)
	header := requests[0].Header
	c.Check(header.Get("Authorization"), gc.Equals, "Bearer secret")
	c.Check(header.Get("x-api-key"), gc.Equals, rdeclient.DefaultAPIKey)
	c.Check(header.Get("x-gw-ims-org-id"), gc.Equals, "org@AdobeOrg")
	c.Check(header.Get("User-Agent"), jc.HasPrefix, "rde/")
}

func (s *baseSuite) TestLimits(c *gc.C) {
	s.store.Configured.Polling.MaxWait = time.Minute
	_, command := s.newCommand(func(t *testCommand, _ *cmd.Context) error {
		limits, err := t.Limits()
		c.Check(limits.MaxDuration, gc.Equals, time.Minute)
		c.Check(limits.MaxAttempts, gc.Equals, 0)
		return err
	})
	_, err := cmdtesting.RunCommand(c, command)
	c.Assert(err, jc.ErrorIsNil)
}

func (s *baseSuite) TestExitCodes(c *gc.C) {
	for i, test := range []struct {
		err    error
		code   int
		stderr string
	}{{
		err:    rdeerrors.Newf(rdeerrors.DeploymentWarning, "update 7 was staged"),
		code:   40,
		stderr: "WARNING update 7 was staged\n",
	}, {
		err:    errors.Annotate(rdeerrors.Newf(rdeerrors.DeploymentFailure, "update 7 failed"), "deploying"),
		code:   4,
		stderr: "ERROR deploying: update 7 failed\n",
	}, {
		err:    rdeerrors.Newf(rdeerrors.Validation, "bad name"),
		code:   3,
		stderr: "ERROR bad name\n",
	}, {
		err:    rdeerrors.StatusError("listing artifacts", 502, ""),
		code:   5,
		stderr: "ERROR listing artifacts: unexpected status 502 Bad Gateway\n",
	}, {
		err:    errors.Trace(context.Canceled),
		code:   1,
		stderr: "ERROR interrupted\n",
	}} {
		c.Logf("test %d: %v", i, test.err)
		_, command := s.newCommand(func(*testCommand, *cmd.Context) error { return test.err })
		ctx, err := cmdtesting.RunCommand(c, command)
		c.Check(err, jc.DeepEquals, cmd.NewRcPassthroughError(test.code))
		c.Check(cmdtesting.Stderr(ctx), gc.Equals, test.stderr)
	}
}

func (s *baseSuite) TestLogFile(c *gc.C) {
	path := filepath.Join(c.MkDir(), "rde.log")
	s.store.Configured.LogFile = path
	_, command := s.newCommand(func(*testCommand, *cmd.Context) error {
		loggo.GetLogger("rde.cmd.envcmd").Warningf("hello from the log file")
		return nil
	})
	_, err := cmdtesting.RunCommand(c, command)
	c.Assert(err, jc.ErrorIsNil)

	data, err := os.ReadFile(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), jc.Contains, "hello from the log file")
}

type confirmationSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&confirmationSuite{})

func (s *confirmationSuite) confirm(c *gc.C, args []string, env map[string]string, answer string) error {
	var base envcmd.ConfirmationCommandBase
	f := gnuflag.NewFlagSetWithFlagKnownAs("test", gnuflag.ContinueOnError, "option")
	base.SetFlags(f)
	c.Assert(f.Parse(true, args), jc.ErrorIsNil)
	if err := base.Init(func(key string) string { return env[key] }); err != nil {
		return err
	}
	ctx := cmdtesting.Context(c)
	ctx.Stdin = strings.NewReader(answer)
	return base.Confirm(ctx, "Reset the environment?")
}

func (s *confirmationSuite) TestConfirmed(c *gc.C) {
	c.Check(s.confirm(c, nil, nil, "y\n"), jc.ErrorIsNil)
	c.Check(s.confirm(c, nil, nil, "Yes\n"), jc.ErrorIsNil)
}

func (s *confirmationSuite) TestDeclined(c *gc.C) {
	for _, answer := range []string{"n\n", "\n", ""} {
		err := s.confirm(c, nil, nil, answer)
		c.Check(errors.Is(err, rdeerrors.Validation), jc.IsTrue, gc.Commentf("answer %q", answer))
	}
}

func (s *confirmationSuite) TestSkipped(c *gc.C) {
	c.Check(s.confirm(c, []string{"--no-prompt"}, nil, ""), jc.ErrorIsNil)
	c.Check(s.confirm(c, nil, map[string]string{envcmd.SkipConfirmationEnvKey: "true"}, ""), jc.ErrorIsNil)
}

func (s *confirmationSuite) TestInvalidSkipValue(c *gc.C) {
	err := s.confirm(c, nil, map[string]string{envcmd.SkipConfirmationEnvKey: "maybe"}, "")
	c.Check(err, gc.ErrorMatches, `unexpected value for RDE_SKIP_CONFIRMATION: "maybe"`)
}
