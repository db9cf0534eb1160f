// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient_test

import (
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
	gc "gopkg.in/check.v1"

	rdeerrors "github.com/rdecli/rde/internal/errors"
	"github.com/rdecli/rde/rdeclient"
)

type tokenSuite struct {
	testing.IsolationSuite

	fallback rdeclient.TokenStore
}

var _ = gc.Suite(&tokenSuite{})

func (s *tokenSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	keyring.MockInit()
	s.fallback = rdeclient.NewFileTokenStoreForTest(filepath.Join(c.MkDir(), "token.yaml"))
}

func (s *tokenSuite) TestKeyringRoundTrip(c *gc.C) {
	store := rdeclient.NewKeyringTokenStoreForTest(s.fallback)
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	c.Assert(store.SetToken(&oauth2.Token{AccessToken: "abc", Expiry: expiry}), jc.ErrorIsNil)

	token, err := store.Token()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(token.AccessToken, gc.Equals, "abc")
	c.Check(token.Expiry.Equal(expiry), jc.IsTrue)

	// Nothing went to the fallback.
	_, err = s.fallback.Token()
	c.Check(err, jc.ErrorIs, errors.NotFound)

	c.Assert(store.RemoveToken(), jc.ErrorIsNil)
	_, err = store.Token()
	c.Check(err, jc.ErrorIs, errors.NotFound)
}

func (s *tokenSuite) TestKeyringUnavailable(c *gc.C) {
	keyring.MockInitWithError(errors.New("no dbus"))
	store := rdeclient.NewKeyringTokenStoreForTest(s.fallback)
	c.Assert(store.SetToken(&oauth2.Token{AccessToken: "abc"}), jc.ErrorIsNil)

	token, err := s.fallback.Token()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(token.AccessToken, gc.Equals, "abc")

	token, err = store.Token()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(token.AccessToken, gc.Equals, "abc")
}

func (s *tokenSuite) TestTokenSourceFromEnvironment(c *gc.C) {
	env := map[string]string{rdeclient.AccessTokenEnvKey: "from-env"}
	source := rdeclient.NewTokenSource(rdeclient.NewMemStore(), func(k string) string { return env[k] })
	token, err := source.Token()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(token.AccessToken, gc.Equals, "from-env")
}

func (s *tokenSuite) TestTokenSourceMissing(c *gc.C) {
	source := rdeclient.NewTokenSource(rdeclient.NewMemStore(), func(string) string { return "" })
	_, err := source.Token()
	c.Check(err, jc.ErrorIs, rdeerrors.Configuration)
}

func (s *tokenSuite) TestTokenSourceExpired(c *gc.C) {
	store := rdeclient.NewMemStore()
	store.AccessToken = &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)}
	source := rdeclient.NewTokenSource(store, func(string) string { return "" })
	_, err := source.Token()
	c.Check(err, jc.ErrorIs, rdeerrors.Configuration)
	c.Check(err, gc.ErrorMatches, "access token expired at .*")
}

func (s *tokenSuite) TestTokenSourceStored(c *gc.C) {
	store := rdeclient.NewMemStore()
	store.AccessToken = &oauth2.Token{AccessToken: "stored", Expiry: time.Now().Add(time.Hour)}
	source := rdeclient.NewTokenSource(store, func(string) string { return "" })
	token, err := source.Token()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(token.AccessToken, gc.Equals, "stored")
}
