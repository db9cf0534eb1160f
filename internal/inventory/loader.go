// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package inventory loads the artifacts deployed to an environment and
// waits for the environment to become ready.
package inventory

import (
	"context"
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/rdecli/rde/api/rde"
	"github.com/rdecli/rde/core/artifact"
	"github.com/rdecli/rde/internal/backoff"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
)

var logger = loggo.GetLogger("rde.inventory")

// StatusReady is the status of an environment that accepts changes.
const StatusReady = "Ready"

// ReadyInterval is the time between two readiness checks.
const ReadyInterval = 10 * time.Second

// API holds the endpoint used by the loader.
type API interface {
	ListArtifacts(ctx context.Context, params rde.ListArtifactsParams) (*httpclient.Response, error)
}

// Inventory is the complete list of artifacts of an environment.
type Inventory struct {
	// Status is the environment status reported with the last page.
	Status string

	// Items holds the artifacts in the order the server returned them.
	Items []artifact.Artifact
}

// IsReady reports whether the environment is ready.
func (i Inventory) IsReady() bool {
	return i.Status == StatusReady
}

// Group groups the artifacts by service and type.
func (i Inventory) Group() artifact.Grouped {
	return artifact.Group(i.Items)
}

type page struct {
	Status string              `json:"status"`
	Cursor string              `json:"cursor"`
	Items  []artifact.Artifact `json:"items"`
}

// Loader loads the inventory of one environment.
type Loader struct {
	api     API
	clock   clock.Clock
	service string
}

// NewLoader returns a loader. When service is not empty only the artifacts
// of that instance role are loaded.
func NewLoader(api API, clk clock.Clock, service string) *Loader {
	return &Loader{api: api, clock: clk, service: service}
}

// LoadAll follows the cursor of the artifact list until the last page.
func (l *Loader) LoadAll(ctx context.Context) (Inventory, error) {
	var (
		inventory Inventory
		cursor    string
	)
	for pages := 1; ; pages++ {
		resp, err := l.api.ListArtifacts(ctx, rde.ListArtifactsParams{
			Cursor:  cursor,
			Service: l.service,
		})
		if err != nil {
			return Inventory{}, errors.Annotate(err, "listing artifacts")
		}
		if resp.StatusCode != http.StatusOK {
			return Inventory{}, rdeerrors.StatusError("listing artifacts", resp.StatusCode, resp.Status)
		}
		var p page
		if err := resp.JSON(&p); err != nil {
			return Inventory{}, errors.Trace(err)
		}
		inventory.Status = p.Status
		inventory.Items = append(inventory.Items, p.Items...)
		if p.Cursor == "" {
			logger.Debugf("loaded %d artifacts in %d pages", len(inventory.Items), pages)
			return inventory, nil
		}
		cursor = p.Cursor
	}
}

// WaitUntilReady loads the inventory every ReadyInterval until the
// environment reports it is ready.
func (l *Loader) WaitUntilReady(ctx context.Context, limits backoff.Limits) (Inventory, error) {
	var inventory Inventory
	err := backoff.Poll(ctx, l.clock, ReadyInterval, limits, func(attempt int) (bool, error) {
		var err error
		if inventory, err = l.LoadAll(ctx); err != nil {
			return false, errors.Trace(err)
		}
		logger.Debugf("readiness check %d: environment is %q", attempt, inventory.Status)
		return inventory.IsReady(), nil
	})
	if err != nil {
		return inventory, errors.Annotate(err, "waiting for environment to be ready")
	}
	return inventory, nil
}
