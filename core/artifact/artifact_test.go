// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package artifact_test

import (
	"fmt"
	"math/rand"

	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/rdecli/rde/core/artifact"
)

type groupSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&groupSuite{})

func bundle(service, id string) artifact.Artifact {
	return artifact.Artifact{
		ID:      id,
		Service: service,
		Type:    artifact.OSGiBundle,
		Metadata: artifact.Metadata{
			BundleSymbolicName: "com.example." + id,
			BundleVersion:      "1.0.0",
		},
	}
}

func config(service, id string) artifact.Artifact {
	return artifact.Artifact{
		ID:       id,
		Service:  service,
		Type:     artifact.OSGiConfig,
		Metadata: artifact.Metadata{ConfigPID: "com.example.pid." + id},
	}
}

func (s *groupSuite) TestGroup(c *gc.C) {
	items := []artifact.Artifact{
		bundle(artifact.Author, "a1"),
		config(artifact.Publish, "p1"),
		bundle(artifact.Publish, "p2"),
		config(artifact.Author, "a2"),
		bundle(artifact.Author, "a3"),
	}
	g := artifact.Group(items)
	c.Check(g.Author.Bundles, jc.DeepEquals, []artifact.Artifact{items[0], items[4]})
	c.Check(g.Author.Configs, jc.DeepEquals, []artifact.Artifact{items[3]})
	c.Check(g.Publish.Bundles, jc.DeepEquals, []artifact.Artifact{items[2]})
	c.Check(g.Publish.Configs, jc.DeepEquals, []artifact.Artifact{items[1]})
	c.Check(g.Unmatched, gc.HasLen, 0)
	c.Check(g.Total(), gc.Equals, 5)
}

func (s *groupSuite) TestUnrecognisedAreKept(c *gc.C) {
	preview := bundle("preview", "x1")
	pkg := artifact.Artifact{ID: "x2", Service: artifact.Author, Type: "content-package"}
	g := artifact.Group([]artifact.Artifact{preview, bundle(artifact.Author, "a1"), pkg})
	c.Check(g.Total(), gc.Equals, 1)
	c.Check(g.Unmatched, jc.DeepEquals, []artifact.Artifact{preview, pkg})
}

func (s *groupSuite) TestPartitionProperty(c *gc.C) {
	services := []string{artifact.Author, artifact.Publish, "preview", ""}
	types := []string{artifact.OSGiBundle, artifact.OSGiConfig, "frontend", ""}
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := r.Intn(40)
		items := make([]artifact.Artifact, n)
		for i := range items {
			items[i] = artifact.Artifact{
				ID:      fmt.Sprintf("id-%d", i),
				Service: services[r.Intn(len(services))],
				Type:    types[r.Intn(len(types))],
			}
		}
		g := artifact.Group(items)
		c.Assert(g.Total()+len(g.Unmatched), gc.Equals, n)

		seen := make(map[artifact.Key]int)
		for _, service := range artifact.Services() {
			b := g.Service(service)
			for _, a := range b.Bundles {
				c.Assert(a.Service, gc.Equals, service)
				c.Assert(a.Type, gc.Equals, artifact.OSGiBundle)
				seen[a.Key()]++
			}
			for _, a := range b.Configs {
				c.Assert(a.Service, gc.Equals, service)
				c.Assert(a.Type, gc.Equals, artifact.OSGiConfig)
				seen[a.Key()]++
			}
		}
		for _, a := range g.Unmatched {
			c.Assert(artifact.IsService(a.Service) && (a.Type == artifact.OSGiBundle || a.Type == artifact.OSGiConfig), jc.IsFalse)
			seen[a.Key()]++
		}
		for _, count := range seen {
			c.Assert(count, gc.Equals, 1)
		}
		c.Assert(seen, gc.HasLen, n)
	}
}

func (s *groupSuite) TestName(c *gc.C) {
	c.Check(bundle(artifact.Author, "x").Name(), gc.Equals, "com.example.x")
	c.Check(config(artifact.Author, "y").Name(), gc.Equals, "com.example.pid.y")
	c.Check(artifact.Artifact{Metadata: artifact.Metadata{Name: "z"}}.Name(), gc.Equals, "z")
}
