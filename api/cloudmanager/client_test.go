// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudmanager_test

import (
	"context"
	"net/http"

	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/rdecli/rde/api/cloudmanager"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
	rdetesting "github.com/rdecli/rde/internal/testing"
)

type clientSuite struct {
	testing.IsolationSuite

	server *rdetesting.FakeControlPlane
	client *cloudmanager.Client
}

var _ = gc.Suite(&clientSuite{})

func (s *clientSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.server = rdetesting.NewFakeControlPlane()
	s.AddCleanup(func(*gc.C) { s.server.Close() })
	requester, err := httpclient.NewRequester(httpclient.Config{
		BaseURL:     s.server.URL,
		Transport:   s.server.Client(),
		Clock:       rdetesting.NewRecordingClock(),
		GetAttempts: 1,
	})
	c.Assert(err, jc.ErrorIsNil)
	s.client = cloudmanager.NewClient(requester)
}

func (s *clientSuite) TestListPrograms(c *gc.C) {
	s.server.Queue("GET", "/api/programs", rdetesting.Reply{Body: `{
		"_embedded": {"programs": [
			{"id": "1", "name": "wknd", "enabled": true},
			{"id": "2", "name": "legacy", "enabled": false}
		]}
	}`})

	programs, err := s.client.ListPrograms(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(programs, jc.DeepEquals, []cloudmanager.Program{
		{ID: "1", Name: "wknd", Enabled: true},
		{ID: "2", Name: "legacy"},
	})
}

func (s *clientSuite) TestListEnvironments(c *gc.C) {
	s.server.Queue("GET", "/api/program/1/environments", rdetesting.Reply{Body: `{
		"_embedded": {"environments": [
			{"id": "10", "programId": "1", "name": "dev", "type": "dev"},
			{"id": "11", "programId": "1", "name": "rde-1", "type": "rde", "_links": {
				"http://ns.adobe.com/adobecloud/rel/developerConsole": {"href": "https://console.example.com/11"}
			}}
		]}
	}`})

	envs, err := s.client.ListEnvironments(context.Background(), "1")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(envs, gc.HasLen, 2)
	c.Check(envs[0].IsRDE(), jc.IsFalse)
	c.Check(envs[1].IsRDE(), jc.IsTrue)
	c.Check(envs[1].ConsoleURL(), gc.Equals, "https://console.example.com/11")
	c.Check(envs[0].ConsoleURL(), gc.Equals, "")
}

func (s *clientSuite) TestGetEnvironmentNotFound(c *gc.C) {
	s.server.Queue("GET", "/api/program/1/environment/99", rdetesting.Reply{Status: http.StatusNotFound})

	_, err := s.client.GetEnvironment(context.Background(), "1", "99")
	c.Check(err, jc.ErrorIs, rdeerrors.EnvironmentNotFound)
}

func (s *clientSuite) TestUnexpectedStatus(c *gc.C) {
	s.server.Queue("GET", "/api/programs", rdetesting.Reply{Status: http.StatusUnauthorized})

	_, err := s.client.ListPrograms(context.Background())
	c.Check(err, jc.ErrorIs, rdeerrors.UnexpectedStatus)
}
