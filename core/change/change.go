// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package change

import (
	"strconv"
	"strings"
	"time"

	rdeerrors "github.com/rdecli/rde/internal/errors"
)

// Status is the processing state of an update.
type Status string

const (
	Waiting    Status = "waiting"
	Processing Status = "processing"
	Staged     Status = "staged"
	Completed  Status = "completed"
	Failed     Status = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s Status) IsTerminal() bool {
	switch s {
	case Completed, Failed, Staged:
		return true
	}
	return false
}

// String returns the status as a string.
func (s Status) String() string {
	return string(s)
}

// Artifact types an update can carry.
const (
	TypeOSGiBundle       = "osgi-bundle"
	TypeOSGiConfig       = "osgi-config"
	TypeContentPackage   = "content-package"
	TypeContentFile      = "content-file"
	TypeDispatcherConfig = "dispatcher-config"
	TypeEnvConfig        = "env-config"
	TypeFrontend         = "frontend"
)

// Update is one asynchronous mutation of an environment. It is created by
// the server; the client only reads it.
type Update struct {
	ID              string            `json:"updateId" yaml:"id"`
	Action          string            `json:"action" yaml:"action"`
	Status          Status            `json:"status" yaml:"status"`
	Type            string            `json:"type,omitempty" yaml:"type,omitempty"`
	Service         string            `json:"service,omitempty" yaml:"service,omitempty"`
	Services        []string          `json:"services,omitempty" yaml:"services,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Timestamps      Timestamps        `json:"timestamps" yaml:"timestamps"`
	DeletedArtifact *DeletedArtifact  `json:"deletedArtifact,omitempty" yaml:"deleted-artifact,omitempty"`
}

// Name returns the descriptive name of the updated artifact, if known.
func (u Update) Name() string {
	if name := u.Metadata["name"]; name != "" {
		return name
	}
	if u.DeletedArtifact != nil {
		return u.DeletedArtifact.Name()
	}
	return ""
}

// Targets returns the instance roles the update applies to.
func (u Update) Targets() []string {
	if len(u.Services) > 0 {
		return u.Services
	}
	if u.Service != "" {
		return []string{u.Service}
	}
	return nil
}

// Timestamps records when the server received and processed an update.
type Timestamps struct {
	Received  *time.Time `json:"received,omitempty" yaml:"received,omitempty"`
	Processed *time.Time `json:"processed,omitempty" yaml:"processed,omitempty"`
}

// DeletedArtifact describes the artifact removed by a delete update.
type DeletedArtifact struct {
	ID       string            `json:"id" yaml:"id"`
	Type     string            `json:"type" yaml:"type"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Name returns the bundle symbolic name or configuration PID.
func (a DeletedArtifact) Name() string {
	if name := a.Metadata["bundleSymbolicName"]; name != "" {
		return name
	}
	return a.Metadata["configPid"]
}

// ParseID checks that id is a valid update identifier.
func ParseID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", rdeerrors.Newf(rdeerrors.Validation, "update id %q is not a number", id)
	}
	return id, nil
}
