// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"github.com/juju/clock"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/rdecli/rde/internal/httpclient"
)

// The program and environment served by a FakeControlPlane.
const (
	Program     = "12345"
	Environment = "67890"
)

// EnvPath returns the server path of an environment scoped endpoint.
func EnvPath(path string) string {
	return "/program/" + Program + "/environment/" + Environment + "/" + path
}

// EnvironmentURL returns the base URL of the fake environment.
func (f *FakeControlPlane) EnvironmentURL() string {
	return f.URL + "/program/" + Program + "/environment/" + Environment
}

// Requester returns a requester for the fake environment that makes a
// single attempt per GET request.
func (f *FakeControlPlane) Requester(c *gc.C, clk clock.Clock) *httpclient.Requester {
	requester, err := httpclient.NewRequester(httpclient.Config{
		BaseURL:     f.EnvironmentURL(),
		Transport:   f.Client(),
		Clock:       clk,
		GetAttempts: 1,
	})
	c.Assert(err, jc.ErrorIsNil)
	return requester
}
