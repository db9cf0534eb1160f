// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cloudmanager lists the programs and environments an
// organisation has access to.
package cloudmanager

import (
	"context"
	"net/http"
	"net/url"

	"github.com/juju/errors"

	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
)

// TypeRDE is the type of rapid development environments.
const TypeRDE = "rde"

const developerConsoleRel = "http://ns.adobe.com/adobecloud/rel/developerConsole"

// Program is a program of the organisation.
type Program struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

type link struct {
	Href string `json:"href"`
}

// Environment is an environment of a program.
type Environment struct {
	ID          string          `json:"id" yaml:"id"`
	ProgramID   string          `json:"programId" yaml:"program-id"`
	Name        string          `json:"name" yaml:"name"`
	Type        string          `json:"type" yaml:"type"`
	Status      string          `json:"status" yaml:"status"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Links       map[string]link `json:"_links,omitempty" yaml:"-"`
}

// IsRDE reports whether the environment is a rapid development
// environment.
func (e Environment) IsRDE() bool {
	return e.Type == TypeRDE
}

// ConsoleURL returns the URL of the developer console, if there is one.
func (e Environment) ConsoleURL() string {
	return e.Links[developerConsoleRel].Href
}

// Requester is the subset of httpclient.Requester used by the client.
type Requester interface {
	Get(ctx context.Context, path string, params interface{}) (*httpclient.Response, error)
}

// Client lists programs and environments.
type Client struct {
	requester Requester
}

// NewClient returns a client using requester, whose base URL must be the
// Cloud Manager root URL.
func NewClient(requester Requester) *Client {
	return &Client{requester: requester}
}

// ListPrograms returns the programs of the organisation.
func (c *Client) ListPrograms(ctx context.Context) ([]Program, error) {
	var result struct {
		Embedded struct {
			Programs []Program `json:"programs"`
		} `json:"_embedded"`
	}
	if err := c.get(ctx, "api/programs", "listing programs", &result); err != nil {
		return nil, errors.Trace(err)
	}
	return result.Embedded.Programs, nil
}

// ListEnvironments returns the environments of a program.
func (c *Client) ListEnvironments(ctx context.Context, programID string) ([]Environment, error) {
	var result struct {
		Embedded struct {
			Environments []Environment `json:"environments"`
		} `json:"_embedded"`
	}
	path := "api/program/" + url.PathEscape(programID) + "/environments"
	if err := c.get(ctx, path, "listing environments", &result); err != nil {
		return nil, errors.Trace(err)
	}
	return result.Embedded.Environments, nil
}

// GetEnvironment returns one environment of a program.
func (c *Client) GetEnvironment(ctx context.Context, programID, environmentID string) (Environment, error) {
	var env Environment
	path := "api/program/" + url.PathEscape(programID) + "/environment/" + url.PathEscape(environmentID)
	if err := c.get(ctx, path, "fetching environment", &env); err != nil {
		return Environment{}, errors.Trace(err)
	}
	return env, nil
}

func (c *Client) get(ctx context.Context, path, operation string, out interface{}) error {
	resp, err := c.requester.Get(ctx, path, nil)
	if err != nil {
		return errors.Annotate(err, operation)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return rdeerrors.Newf(rdeerrors.EnvironmentNotFound, "%s: not found", operation)
	case !resp.IsSuccess():
		return rdeerrors.StatusError(operation, resp.StatusCode, resp.Status)
	}
	return errors.Trace(resp.JSON(out))
}
