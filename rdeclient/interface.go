// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rdeclient holds the local state of the rde client: the
// configuration, the access token and a small cache.
package rdeclient

import (
	"time"

	"golang.org/x/oauth2"
)

// Config is the client configuration.
type Config struct {
	// APIURL is the root URL of the RDE control plane.
	APIURL string `yaml:"api-url,omitempty"`

	// CloudManagerURL is the root URL of the API listing programs and
	// environments.
	CloudManagerURL string `yaml:"cloud-manager-url,omitempty"`

	// APIKey is sent as the x-api-key header.
	APIKey string `yaml:"api-key,omitempty"`

	// OrgID is sent as the x-gw-ims-org-id header.
	OrgID string `yaml:"org-id,omitempty"`

	// Program and Environment select the environment commands act on.
	Program     string `yaml:"program,omitempty"`
	Environment string `yaml:"environment,omitempty"`

	// Polling bounds the polling loops.
	Polling PollingConfig `yaml:"polling,omitempty"`

	// LogBudgets overrides the number of attempts made to load the logs
	// of an update, per update type.
	LogBudgets map[string]int `yaml:"log-budgets,omitempty"`

	// LogFile, if set, receives the debug log of every invocation.
	LogFile string `yaml:"log-file,omitempty"`
}

// PollingConfig bounds the polling loops of long running operations.
type PollingConfig struct {
	// MaxWait is the longest time a single polling loop may run. Zero
	// waits for as long as the server needs.
	MaxWait time.Duration `yaml:"max-wait,omitempty"`
}

// MarshalYAML writes the durations in their string form.
func (p PollingConfig) MarshalYAML() (interface{}, error) {
	if p.MaxWait == 0 {
		return map[string]string{}, nil
	}
	return map[string]string{"max-wait": p.MaxWait.String()}, nil
}

// CacheEntry is a cached value with an expiry.
type CacheEntry struct {
	Value   string    `yaml:"value"`
	Expires time.Time `yaml:"expires"`
}

// ConfigGetter reads the configuration.
type ConfigGetter interface {
	// Config returns the stored configuration, without environment
	// overrides.
	Config() (Config, error)
}

// ConfigUpdater writes the configuration.
type ConfigUpdater interface {
	// UpdateConfig replaces the stored configuration.
	UpdateConfig(Config) error
}

// TokenStore keeps the access token.
type TokenStore interface {
	// Token returns the stored token. An error satisfying
	// errors.IsNotFound is returned when there is none.
	Token() (*oauth2.Token, error)

	// SetToken stores a token.
	SetToken(*oauth2.Token) error

	// RemoveToken forgets the stored token.
	RemoveToken() error
}

// ConsoleCache caches the developer console URL of environments.
type ConsoleCache interface {
	// ConsoleURL returns the cached URL of an environment. An error
	// satisfying errors.IsNotFound is returned when there is no entry or
	// it expired.
	ConsoleURL(program, environment string) (string, error)

	// SetConsoleURL caches the URL of an environment.
	SetConsoleURL(program, environment, url string) error
}

// ClientStore is the complete local state of the client.
type ClientStore interface {
	ConfigGetter
	ConfigUpdater
	TokenStore
	ConsoleCache
}
