// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package snapshot_test

import (
	"net/http"
	"strings"
	"time"

	"github.com/juju/cmd/v3"
	"github.com/juju/cmd/v3/cmdtesting"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/rdecli/rde/api/rde"
	"github.com/rdecli/rde/cmd/rde/snapshot"
	"github.com/rdecli/rde/cmd/rde/snapshot/mocks"
	coresnapshot "github.com/rdecli/rde/core/snapshot"
	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/internal/httpclient"
	rdetesting "github.com/rdecli/rde/internal/testing"
	"github.com/rdecli/rde/rdeclient"
)

type baseSuite struct {
	testing.IsolationSuite

	api   *mocks.MockSnapshotAPI
	store *rdeclient.MemStore
	clock *rdetesting.RecordingClock
}

func (s *baseSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.store = rdeclient.NewMemStore()
	s.store.Configured = rdeclient.Config{
		OrgID:       "org@AdobeOrg",
		Program:     rdetesting.Program,
		Environment: rdetesting.Environment,
	}
	s.clock = rdetesting.NewRecordingClock()
}

func (s *baseSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.api = mocks.NewMockSnapshotAPI(ctrl)
	return ctrl
}

func reply(status int, body string) *httpclient.Response {
	return &httpclient.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     make(http.Header),
		Body:       []byte(body),
	}
}

func (s *baseSuite) expectReady() {
	s.api.EXPECT().ListArtifacts(gomock.Any(), rde.ListArtifactsParams{}).
		Return(reply(http.StatusOK, `{"status": "Ready", "items": []}`), nil)
}

type createSuite struct {
	baseSuite
}

var _ = gc.Suite(&createSuite{})

func (s *createSuite) TestCreate(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.api.EXPECT().StartSnapshotAction(gomock.Any(), coresnapshot.Create, "nightly", "the nightly build").
			Return(reply(http.StatusCreated, ``), nil),
		s.api.EXPECT().SnapshotProgress(gomock.Any(), coresnapshot.Create, "nightly").
			Return(reply(http.StatusOK, `{"progressPercentage": 20, "snapshotName": "nightly"}`), nil),
		s.api.EXPECT().SnapshotProgress(gomock.Any(), coresnapshot.Create, "nightly").
			Return(reply(http.StatusOK, `{"progressPercentage": 100, "snapshotName": "nightly"}`), nil),
	)
	s.expectReady()

	command := snapshot.NewCreateCommandForTest(s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "nightly", "--description", "the nightly build")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, `
accepted (0s)
picked up (0s)
completed (5s)
ready (0s)
create of snapshot "nightly" finished in 5s, the environment is ready
`[1:])
	c.Check(s.clock.Delays(), jc.DeepEquals, []time.Duration{5 * time.Second})
}

func (s *createSuite) TestCreateExists(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.api.EXPECT().StartSnapshotAction(gomock.Any(), coresnapshot.Create, "nightly", "").
		Return(reply(http.StatusConflict, `{"details": "snapshot exists"}`), nil)

	command := snapshot.NewCreateCommandForTest(s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "nightly")
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitGeneral))
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "ERROR snapshot \"nightly\" already exists\n")
}

func (s *createSuite) TestCreateFailed(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.api.EXPECT().StartSnapshotAction(gomock.Any(), coresnapshot.Create, "nightly", "").
		Return(reply(http.StatusOK, ``), nil)
	s.api.EXPECT().SnapshotProgress(gomock.Any(), coresnapshot.Create, "nightly").
		Return(reply(http.StatusOK, `{"progressPercentage": -2}`), nil)

	command := snapshot.NewCreateCommandForTest(s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "nightly")
	c.Assert(err, gc.NotNil)
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "ERROR snapshot \"nightly\" could not be created\n")
}

func (s *createSuite) TestInvalidName(c *gc.C) {
	command := snapshot.NewCreateCommandForTest(nil, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "")
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitValidation))
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "ERROR snapshot name must not be empty\n")
}

func (s *createSuite) TestInit(c *gc.C) {
	_, err := cmdtesting.RunCommand(c, snapshot.NewCreateCommandForTest(nil, s.store, s.clock))
	c.Check(err, gc.ErrorMatches, "no snapshot name specified")
	_, err = cmdtesting.RunCommand(c, snapshot.NewCreateCommandForTest(nil, s.store, s.clock), "a", "b")
	c.Check(err, gc.ErrorMatches, `unrecognized args: \["b"\]`)
}

type actionSuite struct {
	baseSuite
}

var _ = gc.Suite(&actionSuite{})

func (s *actionSuite) TestApply(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.api.EXPECT().StartSnapshotAction(gomock.Any(), coresnapshot.Apply, "nightly", "").
		Return(reply(http.StatusOK, ``), nil)
	s.api.EXPECT().SnapshotProgress(gomock.Any(), coresnapshot.Apply, "nightly").
		Return(reply(http.StatusOK, `{"progressPercentage": 100}`), nil)
	s.expectReady()

	command := snapshot.NewActionCommandForTest(coresnapshot.Apply, s.api, s.store, s.clock)
	ctx := cmdtesting.Context(c)
	ctx.Stdin = strings.NewReader("y\n")
	err := cmdtesting.InitCommand(command, []string{"nightly"})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(command.Run(ctx), jc.ErrorIsNil)
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "will be replaced by snapshot \"nightly\". Continue? (y/N): ")
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "apply of snapshot \"nightly\" finished")
}

func (s *actionSuite) TestApplyDeclined(c *gc.C) {
	command := snapshot.NewActionCommandForTest(coresnapshot.Apply, nil, s.store, s.clock)
	ctx := cmdtesting.Context(c)
	ctx.Stdin = strings.NewReader("n\n")
	c.Assert(cmdtesting.InitCommand(command, []string{"nightly"}), jc.ErrorIsNil)
	err := command.Run(ctx)
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitValidation))
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "ERROR aborted\n")
}

func (s *actionSuite) TestApplyStatusOnly(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.api.EXPECT().SnapshotProgress(gomock.Any(), coresnapshot.Apply, "nightly").
		Return(reply(http.StatusOK, `{"progressPercentage": 100}`), nil)
	s.expectReady()

	command := snapshot.NewActionCommandForTest(coresnapshot.Apply, s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "nightly", "--status")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stderr(ctx), gc.Not(jc.Contains), "Continue?")
}

func (s *actionSuite) TestRestoreDeleted(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.api.EXPECT().StartSnapshotAction(gomock.Any(), coresnapshot.Restore, "nightly", "").
		Return(reply(http.StatusNotFound, `{"details": "The snapshot was deleted"}`), nil)

	command := snapshot.NewActionCommandForTest(coresnapshot.Restore, s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "nightly", "--no-prompt")
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitGeneral))
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "ERROR snapshot \"nightly\" was deleted\n")
}

func (s *actionSuite) TestMaxWait(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.api.EXPECT().StartSnapshotAction(gomock.Any(), coresnapshot.Apply, "nightly", "").
		Return(reply(http.StatusOK, ``), nil)
	s.api.EXPECT().SnapshotProgress(gomock.Any(), coresnapshot.Apply, "nightly").
		Return(reply(http.StatusOK, `{"progressPercentage": 0}`), nil).Times(2)

	command := snapshot.NewActionCommandForTest(coresnapshot.Apply, s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "nightly", "--no-prompt", "--max-wait", "8s")
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitGeneral))
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, "ERROR gave up after 2 attempts")
}

type listSuite struct {
	baseSuite
}

var _ = gc.Suite(&listSuite{})

func (s *listSuite) snapshots() []coresnapshot.Snapshot {
	created := rdetesting.Epoch.Add(-48 * time.Hour)
	used := rdetesting.Epoch.Add(-24 * time.Hour)
	return []coresnapshot.Snapshot{{
		Name:    "build-10",
		State:   coresnapshot.Available,
		Size:    coresnapshot.Size{TotalSize: 2500000},
		Created: &created,
		Usage:   1,
	}, {
		Name:     "build-9",
		State:    coresnapshot.Deleted,
		Size:     coresnapshot.Size{TotalSize: 1000},
		Created:  &created,
		LastUsed: &used,
	}, {
		Name:        "build-2",
		Description: "second",
		State:       coresnapshot.Available,
		Created:     &created,
	}}
}

func (s *listSuite) TestTabular(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.api.EXPECT().ListSnapshots(gomock.Any()).Return(s.snapshots(), nil)

	command := snapshot.NewListCommandForTest(s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "--all")
	c.Assert(err, jc.ErrorIsNil)

	lines := strings.Split(strings.TrimSpace(cmdtesting.Stdout(ctx)), "\n")
	c.Assert(lines, gc.HasLen, 4)
	c.Check(lines[0], gc.Matches, `Name +State +Size +Created +Last used +Usage +Purged +Description`)
	c.Check(lines[1], gc.Matches, `build-2 +AVAILABLE +0 B +2 days ago +- +0 +- +second`)
	c.Check(lines[2], gc.Matches, `build-9 +DELETED +1.0 kB +2 days ago +1 day ago +0 +2026-01-07.*`)
	c.Check(lines[3], gc.Matches, `build-10 +AVAILABLE +2.5 MB +2 days ago +- +1 +-.*`)
}

func (s *listSuite) TestHidesDeleted(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.api.EXPECT().ListSnapshots(gomock.Any()).Return(s.snapshots(), nil)

	command := snapshot.NewListCommandForTest(s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command, "--format", "yaml")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), gc.Not(jc.Contains), "build-9")
	c.Check(cmdtesting.Stdout(ctx), jc.Contains, "- name: build-2\n")
}

func (s *listSuite) TestEmpty(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.api.EXPECT().ListSnapshots(gomock.Any()).Return(nil, nil)

	command := snapshot.NewListCommandForTest(s.api, s.store, s.clock)
	ctx, err := cmdtesting.RunCommand(c, command)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), gc.Equals, "")
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "No snapshots to display.\n")
}

func (s *listSuite) TestEnvironmentNotFound(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.api.EXPECT().ListSnapshots(gomock.Any()).
		Return(nil, rdeerrors.Newf(rdeerrors.EnvironmentNotFound, "program or environment not found"))

	command := snapshot.NewListCommandForTest(s.api, s.store, s.clock)
	_, err := cmdtesting.RunCommand(c, command)
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitGeneral))
}

type deleteSuite struct {
	baseSuite
}

var _ = gc.Suite(&deleteSuite{})

func (s *deleteSuite) TestDelete(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.api.EXPECT().DeleteSnapshot(gomock.Any(), "nightly").Return(nil)

	ctx, err := cmdtesting.RunCommand(c, snapshot.NewDeleteCommandForTest(false, s.api, s.store, s.clock), "nightly")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stderr(ctx), jc.Contains, `Snapshot "nightly" deleted.`)
}

func (s *deleteSuite) TestUndelete(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.api.EXPECT().UndeleteSnapshot(gomock.Any(), "nightly").Return(nil)

	ctx, err := cmdtesting.RunCommand(c, snapshot.NewDeleteCommandForTest(true, s.api, s.store, s.clock), "nightly")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "Snapshot \"nightly\" is available again.\n")
}

func (s *deleteSuite) TestUndeleteNotFound(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.api.EXPECT().UndeleteSnapshot(gomock.Any(), "nightly").
		Return(rdeerrors.Newf(rdeerrors.SnapshotNotFound, "snapshot %q not found", "nightly"))

	ctx, err := cmdtesting.RunCommand(c, snapshot.NewDeleteCommandForTest(true, s.api, s.store, s.clock), "nightly")
	c.Assert(err, jc.DeepEquals, cmd.NewRcPassthroughError(rdeerrors.ExitGeneral))
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "ERROR snapshot \"nightly\" not found\n")
}
