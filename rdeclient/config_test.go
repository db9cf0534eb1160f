// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient_test

import (
	"time"

	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/rdeclient"
)

type configSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&configSuite{})

func (s *configSuite) TestParseConfig(c *gc.C) {
	config, err := rdeclient.ParseConfig([]byte(`
api-url: https://rde.example.com
org-id: org@AdobeOrg
program: 12345
environment: "67890"
polling:
  max-wait: 15m
log-budgets:
  frontend: 120
  osgi-bundle: 5
`))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(config, jc.DeepEquals, rdeclient.Config{
		APIURL:      "https://rde.example.com",
		OrgID:       "org@AdobeOrg",
		Program:     "12345",
		Environment: "67890",
		Polling:     rdeclient.PollingConfig{MaxWait: 15 * time.Minute},
		LogBudgets:  map[string]int{"frontend": 120, "osgi-bundle": 5},
	})
}

func (s *configSuite) TestParseEmpty(c *gc.C) {
	config, err := rdeclient.ParseConfig(nil)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(config.IsZero(), jc.IsTrue)
}

func (s *configSuite) TestParseInvalid(c *gc.C) {
	for i, test := range []struct {
		data   string
		errMsg string
	}{{
		data:   "polling:\n  max-wait: soon\n",
		errMsg: `invalid configuration: .*max-wait.*`,
	}, {
		data:   "log-budgets:\n  frontend: -1\n",
		errMsg: `log budget of "frontend" must be positive, got -1`,
	}, {
		data:   "api-url: [1, 2]\n",
		errMsg: `invalid configuration: .*api-url.*`,
	}, {
		data:   "api-url: [unclosed\n",
		errMsg: `cannot parse configuration: .*`,
	}} {
		c.Logf("test %d: %q", i, test.data)
		_, err := rdeclient.ParseConfig([]byte(test.data))
		c.Check(err, gc.ErrorMatches, test.errMsg)
		c.Check(err, jc.ErrorIs, rdeerrors.Configuration)
	}
}

func (s *configSuite) TestWithEnvironment(c *gc.C) {
	env := map[string]string{
		rdeclient.APIURLEnvKey: "https://override.example.com",
		rdeclient.OrgIDEnvKey:  "other@AdobeOrg",
	}
	config := rdeclient.Config{
		APIURL: "https://rde.example.com",
		APIKey: "key",
		OrgID:  "org@AdobeOrg",
	}.WithEnvironment(func(key string) string { return env[key] })
	c.Check(config.APIURL, gc.Equals, "https://override.example.com")
	c.Check(config.APIKey, gc.Equals, "key")
	c.Check(config.OrgID, gc.Equals, "other@AdobeOrg")
}

func (s *configSuite) TestWithDefaults(c *gc.C) {
	config := rdeclient.Config{APIURL: "https://rde.example.com"}.WithDefaults()
	c.Check(config.APIURL, gc.Equals, "https://rde.example.com")
	c.Check(config.CloudManagerURL, gc.Equals, rdeclient.DefaultCloudManagerURL)
	c.Check(config.APIKey, gc.Equals, rdeclient.DefaultAPIKey)
}

func (s *configSuite) TestValidate(c *gc.C) {
	valid := rdeclient.Config{
		APIURL:      "https://rde.example.com",
		OrgID:       "org@AdobeOrg",
		Program:     "1",
		Environment: "2",
	}
	c.Check(valid.Validate(), jc.ErrorIsNil)

	missing := valid
	missing.Program = ""
	missing.Environment = ""
	err := missing.Validate()
	c.Check(err, gc.ErrorMatches, `configuration is missing \[program environment\], run "rde setup"`)
	c.Check(rdeerrors.ExitCode(err), gc.Equals, rdeerrors.ExitConfiguration)

	badURL := valid
	badURL.APIURL = "rde.example.com"
	c.Check(badURL.Validate(), gc.ErrorMatches, `api-url "rde.example.com" is not a valid URL`)
}
