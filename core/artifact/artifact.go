// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package artifact

import (
	"github.com/juju/collections/set"
)

// Instance roles of an environment.
const (
	Author  = "author"
	Publish = "publish"
)

// Artifact types tracked by the inventory.
const (
	OSGiBundle = "osgi-bundle"
	OSGiConfig = "osgi-config"
)

var (
	knownServices = set.NewStrings(Author, Publish)
	knownTypes    = set.NewStrings(OSGiBundle, OSGiConfig)
)

// IsService reports whether s names an instance role.
func IsService(s string) bool {
	return knownServices.Contains(s)
}

// Services returns the instance roles in display order.
func Services() []string {
	return []string{Author, Publish}
}

// Metadata describes a deployed artifact.
type Metadata struct {
	BundleSymbolicName string `json:"bundleSymbolicName,omitempty" yaml:"bundle-symbolic-name,omitempty"`
	BundleVersion      string `json:"bundleVersion,omitempty" yaml:"bundle-version,omitempty"`
	ConfigPID          string `json:"configPid,omitempty" yaml:"config-pid,omitempty"`
	Name               string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Artifact is one deployed bundle or configuration living on one instance
// role. It is identified by its service, type and id.
type Artifact struct {
	ID       string   `json:"id" yaml:"id"`
	Service  string   `json:"service" yaml:"service"`
	Type     string   `json:"type" yaml:"type"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Key uniquely identifies an artifact.
type Key struct {
	Service string
	Type    string
	ID      string
}

// Key returns the identity of the artifact.
func (a Artifact) Key() Key {
	return Key{Service: a.Service, Type: a.Type, ID: a.ID}
}

// Name returns the bundle symbolic name for bundles and the PID for
// configurations.
func (a Artifact) Name() string {
	switch {
	case a.Metadata.BundleSymbolicName != "":
		return a.Metadata.BundleSymbolicName
	case a.Metadata.ConfigPID != "":
		return a.Metadata.ConfigPID
	}
	return a.Metadata.Name
}

// Buckets holds the artifacts of one instance role, split by type.
type Buckets struct {
	Bundles []Artifact `json:"osgi-bundles" yaml:"osgi-bundles"`
	Configs []Artifact `json:"osgi-configs" yaml:"osgi-configs"`
}

// Grouped is the partition of an artifact list into the four known
// (service, type) buckets. Artifacts with an unrecognised service or
// type end up in Unmatched.
type Grouped struct {
	Author    Buckets    `json:"author" yaml:"author"`
	Publish   Buckets    `json:"publish" yaml:"publish"`
	Unmatched []Artifact `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
}

// Service returns the buckets of the named instance role.
func (g *Grouped) Service(name string) *Buckets {
	switch name {
	case Author:
		return &g.Author
	case Publish:
		return &g.Publish
	}
	return nil
}

// Total returns the number of artifacts in the four buckets.
func (g Grouped) Total() int {
	return len(g.Author.Bundles) + len(g.Author.Configs) +
		len(g.Publish.Bundles) + len(g.Publish.Configs)
}

// Group partitions items. The order of items is kept inside each bucket.
// Every artifact lands in exactly one bucket or in Unmatched.
func Group(items []Artifact) Grouped {
	var g Grouped
	for _, a := range items {
		buckets := g.Service(a.Service)
		if buckets == nil || !knownTypes.Contains(a.Type) {
			g.Unmatched = append(g.Unmatched, a)
			continue
		}
		if a.Type == OSGiBundle {
			buckets.Bundles = append(buckets.Bundles, a)
		} else {
			buckets.Configs = append(buckets.Configs, a)
		}
	}
	return g
}
