// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot

import (
	"strings"
	"time"

	rdeerrors "github.com/rdecli/rde/internal/errors"
)

// RetentionWindow is how long a deleted snapshot can be undeleted before
// the server purges it.
const RetentionWindow = 7 * 24 * time.Hour

// State is the lifecycle state of a snapshot.
type State string

const (
	Available State = "AVAILABLE"
	Deleted   State = "DELETED"
)

// Size holds the storage used by a snapshot.
type Size struct {
	TotalSize int64 `json:"total_size" yaml:"total-size"`
}

// Snapshot is a named capture of an environment's content and deployment
// state. The name is unique among snapshots that are not deleted.
type Snapshot struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	State       State      `json:"state" yaml:"state"`
	Size        Size       `json:"size" yaml:"size"`
	Created     *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	LastUsed    *time.Time `json:"lastUsed,omitempty" yaml:"last-used,omitempty"`
	Usage       int        `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// PurgeAt returns when a deleted snapshot stops being recoverable. The
// deletion time is approximated by the last use of the snapshot.
func (s Snapshot) PurgeAt() (time.Time, bool) {
	if s.State != Deleted {
		return time.Time{}, false
	}
	from := s.LastUsed
	if from == nil {
		from = s.Created
	}
	if from == nil {
		return time.Time{}, false
	}
	return from.Add(RetentionWindow), true
}

// Action is a long running snapshot operation tracked through the
// progress endpoint.
type Action string

const (
	Create  Action = "create"
	Apply   Action = "apply"
	Restore Action = "restore"
)

// ProgressFailed is the percentage reported when an operation failed on
// the server after it was accepted.
const ProgressFailed = -2

// Progress is the state of a running snapshot operation.
type Progress struct {
	Percentage   float64 `json:"progressPercentage"`
	SnapshotName string  `json:"snapshotName"`
}

// Done reports whether the operation finished.
func (p Progress) Done() bool {
	return p.Percentage >= 100
}

// Failed reports whether the server reported an asynchronous failure.
func (p Progress) Failed() bool {
	return p.Percentage == ProgressFailed
}

// ValidateName checks a snapshot name before it is sent to the server.
// Only an empty name is refused: it would address the snapshot collection
// instead of one snapshot. Everything else is left to the server.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return rdeerrors.Newf(rdeerrors.Validation, "snapshot name must not be empty")
	}
	return nil
}
