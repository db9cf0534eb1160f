// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient

import (
	"sync"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"golang.org/x/oauth2"
)

// MemStore is an in-memory ClientStore, used in tests.
type MemStore struct {
	mu sync.Mutex

	Clock        clock.Clock
	Configured   Config
	AccessToken  *oauth2.Token
	ConsoleCache map[string]CacheEntry
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		Clock:        clock.WallClock,
		ConsoleCache: make(map[string]CacheEntry),
	}
}

// Config implements ConfigGetter.
func (s *MemStore) Config() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Configured, nil
}

// UpdateConfig implements ConfigUpdater.
func (s *MemStore) UpdateConfig(config Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Configured = config
	return nil
}

// Token implements TokenStore.
func (s *MemStore) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AccessToken == nil {
		return nil, errors.NotFoundf("access token")
	}
	return s.AccessToken, nil
}

// SetToken implements TokenStore.
func (s *MemStore) SetToken(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AccessToken = token
	return nil
}

// RemoveToken implements TokenStore.
func (s *MemStore) RemoveToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AccessToken = nil
	return nil
}

// ConsoleURL implements ConsoleCache.
func (s *MemStore) ConsoleURL(program, environment string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.ConsoleCache[consoleKey(program, environment)]
	if !ok || !s.Clock.Now().Before(entry.Expires) {
		return "", errors.NotFoundf("console URL of %s", consoleKey(program, environment))
	}
	return entry.Value, nil
}

// SetConsoleURL implements ConsoleCache.
func (s *MemStore) SetConsoleURL(program, environment, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ConsoleCache[consoleKey(program, environment)] = CacheEntry{
		Value:   url,
		Expires: s.Clock.Now().Add(ConsoleURLExpiry),
	}
	return nil
}
