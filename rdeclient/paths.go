// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient

import (
	"os"
	"path/filepath"
)

// DataDirEnvKey overrides the directory holding the client files.
const DataDirEnvKey = "RDE_DATA"

// DataDir returns the directory holding the client files:
// $RDE_DATA, $XDG_DATA_HOME/rde or ~/.local/share/rde.
func DataDir() string {
	if dir := os.Getenv(DataDirEnvKey); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "rde")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "rde")
}

// ConfigPath returns the path of the configuration file.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// CachePath returns the path of the cache file.
func CachePath() string {
	return filepath.Join(DataDir(), "cache.yaml")
}

// TokenPath returns the path of the token file used when no keyring is
// available.
func TokenPath() string {
	return filepath.Join(DataDir(), "token.yaml")
}
