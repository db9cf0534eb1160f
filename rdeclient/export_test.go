// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient

import (
	"github.com/juju/clock"
)

func NewFileClientStoreForTest(clk clock.Clock, tokens TokenStore) ClientStore {
	return &store{clock: clk, tokens: tokens}
}

func NewFileTokenStoreForTest(path string) TokenStore {
	return &fileTokenStore{path: func() string { return path }}
}

func NewKeyringTokenStoreForTest(fallback TokenStore) TokenStore {
	return &keyringTokenStore{fallback: fallback}
}
