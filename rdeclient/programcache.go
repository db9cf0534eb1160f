// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient

import (
	"context"
	"sync"

	"github.com/juju/errors"

	"github.com/rdecli/rde/api/cloudmanager"
)

// ProgramLister lists programs and environments.
type ProgramLister interface {
	ListPrograms(ctx context.Context) ([]cloudmanager.Program, error)
	ListEnvironments(ctx context.Context, programID string) ([]cloudmanager.Environment, error)
}

// ProgramCache remembers the programs and environments listed during one
// invocation, so that interactive flows do not list them twice.
type ProgramCache struct {
	lister ProgramLister

	mu           sync.Mutex
	programs     []cloudmanager.Program
	environments map[string][]cloudmanager.Environment
}

// NewProgramCache returns an empty cache backed by lister.
func NewProgramCache(lister ProgramLister) *ProgramCache {
	return &ProgramCache{
		lister:       lister,
		environments: make(map[string][]cloudmanager.Environment),
	}
}

// Programs returns the programs, listing them on first use.
func (c *ProgramCache) Programs(ctx context.Context) ([]cloudmanager.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs != nil {
		return c.programs, nil
	}
	programs, err := c.lister.ListPrograms(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if programs == nil {
		programs = []cloudmanager.Program{}
	}
	c.programs = programs
	return programs, nil
}

// Environments returns the environments of a program, listing them on
// first use.
func (c *ProgramCache) Environments(ctx context.Context, programID string) ([]cloudmanager.Environment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if envs, ok := c.environments[programID]; ok {
		return envs, nil
	}
	envs, err := c.lister.ListEnvironments(ctx, programID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	c.environments[programID] = envs
	return envs, nil
}

// Environment returns one environment of a program.
func (c *ProgramCache) Environment(ctx context.Context, programID, environmentID string) (cloudmanager.Environment, error) {
	envs, err := c.Environments(ctx, programID)
	if err != nil {
		return cloudmanager.Environment{}, errors.Trace(err)
	}
	for _, env := range envs {
		if env.ID == environmentID {
			return env, nil
		}
	}
	return cloudmanager.Environment{}, errors.NotFoundf("environment %s of program %s", environmentID, programID)
}
