// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rde provides access to the environment scoped endpoints of the
// RDE control plane. Most calls return the raw response: what a status
// code means depends on the operation, and the callers classify it.
package rde

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/rdecli/rde/core/change"
	"github.com/rdecli/rde/core/snapshot"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
)

var logger = loggo.GetLogger("rde.api")

// Requester is the subset of httpclient.Requester used by the client.
type Requester interface {
	Get(ctx context.Context, path string, params interface{}) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body interface{}) (*httpclient.Response, error)
	Delete(ctx context.Context, path string, params interface{}) (*httpclient.Response, error)
}

// Client talks to one environment.
type Client struct {
	requester Requester
}

// NewClient returns a client using requester, whose base URL must point at
// the environment.
func NewClient(requester Requester) *Client {
	return &Client{requester: requester}
}

// EnvironmentURL returns the base URL of an environment.
func EnvironmentURL(apiURL, program, environment string) string {
	return fmt.Sprintf("%s/program/%s/environment/%s",
		apiURL, url.PathEscape(program), url.PathEscape(environment))
}

// GetUpdate fetches an update.
func (c *Client) GetUpdate(ctx context.Context, id string) (*httpclient.Response, error) {
	resp, err := c.requester.Get(ctx, "runtime/updates/"+url.PathEscape(id), nil)
	return resp, errors.Trace(err)
}

// GetUpdateLogs fetches the logs of an update.
func (c *Client) GetUpdateLogs(ctx context.Context, id string) (*httpclient.Response, error) {
	resp, err := c.requester.Get(ctx, "runtime/updates/"+url.PathEscape(id)+"/logs", nil)
	return resp, errors.Trace(err)
}

// ListUpdates returns the update history of the environment.
func (c *Client) ListUpdates(ctx context.Context) ([]change.Update, error) {
	resp, err := c.requester.Get(ctx, "runtime/updates", nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !resp.IsSuccess() {
		return nil, rdeerrors.StatusError("listing updates", resp.StatusCode, resp.Status)
	}
	var result struct {
		Items []change.Update `json:"items"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, errors.Trace(err)
	}
	return result.Items, nil
}

// ListArtifactsParams holds the query of one artifacts page.
type ListArtifactsParams struct {
	Cursor  string `url:"cursor,omitempty"`
	Service string `url:"service,omitempty"`
}

// ListArtifacts fetches one page of deployed artifacts.
func (c *Client) ListArtifacts(ctx context.Context, params ListArtifactsParams) (*httpclient.Response, error) {
	resp, err := c.requester.Get(ctx, "runtime/updates/artifacts", params)
	return resp, errors.Trace(err)
}

// DeployArgs describes an artifact to deploy.
type DeployArgs struct {
	// Type is the artifact type, such as osgi-bundle.
	Type string

	// Service restricts the deployment to one instance role.
	Service string

	// Path is the target path, used by content files.
	Path string

	// Force deploys even when the server would refuse.
	Force bool

	// Filename and Content are the artifact to upload. When Content is nil
	// URL is sent instead.
	Filename string
	Content  io.Reader
	URL      string
}

// Deploy starts the deployment of an artifact. The response carries the
// created update.
func (c *Client) Deploy(ctx context.Context, args DeployArgs) (*httpclient.Response, error) {
	body := httpclient.NewMultipart()
	fields := []struct{ name, value string }{
		{"type", args.Type},
		{"service", args.Service},
		{"path", args.Path},
		{"url", args.URL},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := body.AddField(f.name, f.value); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if args.Force {
		if err := body.AddField("force", "true"); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if args.Content != nil {
		if err := body.AddFile("file", args.Filename, args.Content); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := body.Close(); err != nil {
		return nil, errors.Trace(err)
	}
	logger.Debugf("deploying %s %q", args.Type, args.Filename+args.URL)
	resp, err := c.requester.Post(ctx, "runtime/updates", body)
	return resp, errors.Trace(err)
}

type deleteParams struct {
	Force bool `url:"force,omitempty"`
}

// DeleteArtifact starts the removal of a deployed artifact.
func (c *Client) DeleteArtifact(ctx context.Context, id string, force bool) (*httpclient.Response, error) {
	resp, err := c.requester.Delete(ctx, "runtime/updates/artifacts/"+url.PathEscape(id), deleteParams{Force: force})
	return resp, errors.Trace(err)
}

// Reset starts resetting the environment to its initial state.
func (c *Client) Reset(ctx context.Context) (*httpclient.Response, error) {
	resp, err := c.requester.Post(ctx, "runtime/reset", nil)
	return resp, errors.Trace(err)
}

// Restart starts restarting the environment's instances.
func (c *Client) Restart(ctx context.Context) (*httpclient.Response, error) {
	resp, err := c.requester.Post(ctx, "runtime/restart", nil)
	return resp, errors.Trace(err)
}

// Inspect fetches runtime information of one instance role. Kind is one of
// osgi-bundles, osgi-components, osgi-services, osgi-configurations or
// requests.
func (c *Client) Inspect(ctx context.Context, service, kind string) (*httpclient.Response, error) {
	path := fmt.Sprintf("runtime/inspect/%s/%s", url.PathEscape(service), url.PathEscape(kind))
	resp, err := c.requester.Get(ctx, path, nil)
	return resp, errors.Trace(err)
}

// CreateSnapshotArgs holds the body of a snapshot creation.
type CreateSnapshotArgs struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// StartSnapshotAction starts a long running snapshot operation.
func (c *Client) StartSnapshotAction(ctx context.Context, action snapshot.Action, name, description string) (*httpclient.Response, error) {
	var (
		resp *httpclient.Response
		err  error
	)
	switch action {
	case snapshot.Create:
		resp, err = c.requester.Post(ctx, "runtime/snapshots", CreateSnapshotArgs{
			Name:        name,
			Description: description,
		})
	case snapshot.Apply, snapshot.Restore:
		resp, err = c.requester.Post(ctx, snapshotPath(name, string(action)), nil)
	default:
		return nil, errors.NotValidf("snapshot action %q", action)
	}
	return resp, errors.Trace(err)
}

type progressParams struct {
	Action snapshot.Action `url:"action"`
}

// SnapshotProgress fetches the progress of a running snapshot operation.
func (c *Client) SnapshotProgress(ctx context.Context, action snapshot.Action, name string) (*httpclient.Response, error) {
	resp, err := c.requester.Get(ctx, snapshotPath(name, "progress"), progressParams{Action: action})
	return resp, errors.Trace(err)
}

// ListSnapshots returns every snapshot of the environment, including the
// deleted ones that can still be undeleted.
func (c *Client) ListSnapshots(ctx context.Context) ([]snapshot.Snapshot, error) {
	resp, err := c.requester.Get(ctx, "runtime/snapshots", nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if resp.StatusCode == 404 {
		return nil, rdeerrors.Newf(rdeerrors.EnvironmentNotFound, "environment not found")
	}
	if !resp.IsSuccess() {
		return nil, rdeerrors.StatusError("listing snapshots", resp.StatusCode, resp.Status)
	}
	var result struct {
		Items []snapshot.Snapshot `json:"items"`
	}
	if err := resp.JSON(&result); err != nil {
		return nil, errors.Trace(err)
	}
	return result.Items, nil
}

// DeleteSnapshot deletes a snapshot. It can be undeleted within the
// retention window.
func (c *Client) DeleteSnapshot(ctx context.Context, name string) error {
	resp, err := c.requester.Delete(ctx, snapshotPath(name, ""), nil)
	if err != nil {
		return errors.Trace(err)
	}
	return snapshotStatus(resp, "deleting snapshot", name)
}

// UndeleteSnapshot recovers a deleted snapshot.
func (c *Client) UndeleteSnapshot(ctx context.Context, name string) error {
	resp, err := c.requester.Post(ctx, snapshotPath(name, "undelete"), nil)
	if err != nil {
		return errors.Trace(err)
	}
	return snapshotStatus(resp, "undeleting snapshot", name)
}

func snapshotStatus(resp *httpclient.Response, operation, name string) error {
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode == 404:
		return rdeerrors.Newf(rdeerrors.SnapshotNotFound, "snapshot %q not found", name)
	case resp.StatusCode == 409:
		return rdeerrors.Newf(rdeerrors.SnapshotDeleted,
			"snapshot %q can no longer be recovered", name)
	}
	return rdeerrors.StatusError(operation, resp.StatusCode, resp.Status)
}

func snapshotPath(name, verb string) string {
	path := "runtime/snapshots/" + url.PathEscape(name)
	if verb != "" {
		path += "/" + verb
	}
	return path
}
