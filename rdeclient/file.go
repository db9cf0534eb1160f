// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/mutex/v2"
	"github.com/juju/utils/v4"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v2"
)

var logger = loggo.GetLogger("rde.rdeclient")

// A second should be enough to read or write any of the files, but slow
// disks under load get some slack.
var lockTimeout = 5 * time.Second

// ConsoleURLExpiry is how long a console URL stays cached.
const ConsoleURLExpiry = 24 * time.Hour

// NewFileClientStore returns a client store keeping its files in DataDir.
// The token is kept in the OS keyring when there is one.
func NewFileClientStore() ClientStore {
	return &store{
		clock:  clock.WallClock,
		tokens: NewKeyringTokenStore(),
	}
}

type store struct {
	clock  clock.Clock
	tokens TokenStore
}

func (s *store) acquireLock() (mutex.Releaser, error) {
	const lockName = "rde-store"
	releaser, err := mutex.Acquire(mutex.Spec{
		Name:    lockName,
		Clock:   s.clock,
		Delay:   20 * time.Millisecond,
		Timeout: lockTimeout,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "cannot acquire %s lock", lockName)
	}
	return releaser, nil
}

// Config implements ConfigGetter.
func (s *store) Config() (Config, error) {
	releaser, err := s.acquireLock()
	if err != nil {
		return Config{}, errors.Annotate(err, "cannot read configuration")
	}
	defer releaser.Release()
	return ReadConfigFile(ConfigPath())
}

// UpdateConfig implements ConfigUpdater.
func (s *store) UpdateConfig(config Config) error {
	releaser, err := s.acquireLock()
	if err != nil {
		return errors.Annotate(err, "cannot update configuration")
	}
	defer releaser.Release()
	return errors.Trace(writeYAMLFile(ConfigPath(), config))
}

// Token implements TokenStore.
func (s *store) Token() (*oauth2.Token, error) {
	return s.tokens.Token()
}

// SetToken implements TokenStore.
func (s *store) SetToken(token *oauth2.Token) error {
	return s.tokens.SetToken(token)
}

// RemoveToken implements TokenStore.
func (s *store) RemoveToken() error {
	return s.tokens.RemoveToken()
}

type cacheFile struct {
	ConsoleURLs map[string]CacheEntry `yaml:"console-urls,omitempty"`
}

func consoleKey(program, environment string) string {
	return program + "/" + environment
}

// ConsoleURL implements ConsoleCache.
func (s *store) ConsoleURL(program, environment string) (string, error) {
	releaser, err := s.acquireLock()
	if err != nil {
		return "", errors.Annotate(err, "cannot read cache")
	}
	defer releaser.Release()

	var cache cacheFile
	if err := readYAMLFile(CachePath(), &cache); err != nil {
		return "", errors.Trace(err)
	}
	entry, ok := cache.ConsoleURLs[consoleKey(program, environment)]
	if !ok || !s.clock.Now().Before(entry.Expires) {
		return "", errors.NotFoundf("console URL of %s", consoleKey(program, environment))
	}
	return entry.Value, nil
}

// SetConsoleURL implements ConsoleCache.
func (s *store) SetConsoleURL(program, environment, url string) error {
	releaser, err := s.acquireLock()
	if err != nil {
		return errors.Annotate(err, "cannot update cache")
	}
	defer releaser.Release()

	var cache cacheFile
	if err := readYAMLFile(CachePath(), &cache); err != nil {
		return errors.Trace(err)
	}
	if cache.ConsoleURLs == nil {
		cache.ConsoleURLs = make(map[string]CacheEntry)
	}
	now := s.clock.Now()
	for key, entry := range cache.ConsoleURLs {
		if !now.Before(entry.Expires) {
			delete(cache.ConsoleURLs, key)
		}
	}
	cache.ConsoleURLs[consoleKey(program, environment)] = CacheEntry{
		Value:   url,
		Expires: now.Add(ConsoleURLExpiry),
	}
	return errors.Trace(writeYAMLFile(CachePath(), cache))
}

func readYAMLFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Trace(err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Annotatef(err, "cannot unmarshal %s", path)
	}
	return nil
}

func writeYAMLFile(path string, in interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return errors.Annotatef(err, "cannot marshal %s", filepath.Base(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("writing %s", path)
	return errors.Trace(utils.AtomicWriteFile(path, data, 0600))
}
