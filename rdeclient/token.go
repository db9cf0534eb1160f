// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient

import (
	"encoding/json"
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	rdeerrors "github.com/rdecli/rde/internal/errors"
)

const (
	keyringService = "rde"
	keyringUser    = "access-token"
)

type storedToken struct {
	AccessToken string `json:"access_token" yaml:"access-token"`
	TokenType   string `json:"token_type,omitempty" yaml:"token-type,omitempty"`
	Expiry      string `json:"expiry,omitempty" yaml:"expiry,omitempty"`
}

func newStoredToken(token *oauth2.Token) storedToken {
	stored := storedToken{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}
	if !token.Expiry.IsZero() {
		stored.Expiry = token.Expiry.UTC().Format(time.RFC3339)
	}
	return stored
}

func (t storedToken) token() (*oauth2.Token, error) {
	token := &oauth2.Token{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
	}
	if t.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, t.Expiry)
		if err != nil {
			return nil, errors.Annotate(err, "invalid token expiry")
		}
		token.Expiry = expiry
	}
	return token, nil
}

// NewKeyringTokenStore returns a TokenStore using the OS keyring, falling
// back to a file in DataDir when no keyring is available.
func NewKeyringTokenStore() TokenStore {
	return &keyringTokenStore{
		fallback: &fileTokenStore{path: TokenPath},
	}
}

type keyringTokenStore struct {
	fallback TokenStore
}

// Token implements TokenStore.
func (s *keyringTokenStore) Token() (*oauth2.Token, error) {
	secret, err := keyring.Get(keyringService, keyringUser)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return s.fallback.Token()
	case err != nil:
		logger.Debugf("keyring not available: %v", err)
		return s.fallback.Token()
	}
	var stored storedToken
	if err := json.Unmarshal([]byte(secret), &stored); err != nil {
		return nil, errors.Annotate(err, "cannot decode stored token")
	}
	return stored.token()
}

// SetToken implements TokenStore.
func (s *keyringTokenStore) SetToken(token *oauth2.Token) error {
	data, err := json.Marshal(newStoredToken(token))
	if err != nil {
		return errors.Trace(err)
	}
	if err := keyring.Set(keyringService, keyringUser, string(data)); err != nil {
		logger.Debugf("keyring not available, storing token in %s: %v", TokenPath(), err)
		return s.fallback.SetToken(token)
	}
	return nil
}

// RemoveToken implements TokenStore.
func (s *keyringTokenStore) RemoveToken() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debugf("cannot remove token from keyring: %v", err)
	}
	return s.fallback.RemoveToken()
}

type fileTokenStore struct {
	path func() string
}

// Token implements TokenStore.
func (s *fileTokenStore) Token() (*oauth2.Token, error) {
	var stored storedToken
	if err := readYAMLFile(s.path(), &stored); err != nil {
		return nil, errors.Trace(err)
	}
	if stored.AccessToken == "" {
		return nil, errors.NotFoundf("access token")
	}
	return stored.token()
}

// SetToken implements TokenStore.
func (s *fileTokenStore) SetToken(token *oauth2.Token) error {
	return errors.Trace(writeYAMLFile(s.path(), newStoredToken(token)))
}

// RemoveToken implements TokenStore.
func (s *fileTokenStore) RemoveToken() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return errors.Trace(err)
	}
	return nil
}

// NewTokenSource returns the token source used to authenticate requests.
// A token in the environment takes precedence over the stored one. The
// source fails with a Configuration error when there is no valid token.
func NewTokenSource(tokens TokenStore, getenv func(string) string) oauth2.TokenSource {
	if token := getenv(AccessTokenEnvKey); token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	}
	return oauth2.ReuseTokenSource(nil, &storedTokenSource{tokens: tokens})
}

type storedTokenSource struct {
	tokens TokenStore
}

// Token implements oauth2.TokenSource.
func (s *storedTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.tokens.Token()
	if errors.Is(err, errors.NotFound) {
		return nil, rdeerrors.Newf(rdeerrors.Configuration,
			"no access token, set %s or run \"rde setup\"", AccessTokenEnvKey)
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	if !token.Valid() {
		return nil, rdeerrors.Newf(rdeerrors.Configuration,
			"access token expired at %s, set %s or run \"rde setup\"",
			token.Expiry.Format("2006-01-02 15:04"), AccessTokenEnvKey)
	}
	return token, nil
}
