// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rdeclient

import (
	"net/url"
	"os"
	"reflect"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	rdeerrors "github.com/rdecli/rde/internal/errors"
)

// Environment variables overriding the stored configuration.
const (
	APIURLEnvKey      = "RDE_API_URL"
	APIKeyEnvKey      = "RDE_API_KEY"
	OrgIDEnvKey       = "RDE_ORG_ID"
	AccessTokenEnvKey = "RDE_ACCESS_TOKEN"
)

// Default endpoints, used when the configuration does not name one.
const (
	DefaultAPIURL          = "https://rde.adobe.io"
	DefaultCloudManagerURL = "https://cloudmanager.adobe.io"
	DefaultAPIKey          = "aem-rde-cli"
)

var configChecker = schema.FieldMap(schema.Fields{
	"api-url":           schema.String(),
	"cloud-manager-url": schema.String(),
	"api-key":           schema.String(),
	"org-id":            schema.String(),
	"program":           schema.Stringified(),
	"environment":       schema.Stringified(),
	"polling": schema.FieldMap(schema.Fields{
		"max-wait": schema.TimeDurationString(),
	}, schema.Defaults{
		"max-wait": schema.Omit,
	}),
	"log-budgets": schema.Map(schema.String(), schema.ForceInt()),
	"log-file":    schema.String(),
}, schema.Defaults{
	"api-url":           schema.Omit,
	"cloud-manager-url": schema.Omit,
	"api-key":           schema.Omit,
	"org-id":            schema.Omit,
	"program":           schema.Omit,
	"environment":       schema.Omit,
	"polling":           schema.Omit,
	"log-budgets":       schema.Omit,
	"log-file":          schema.Omit,
})

// ParseConfig parses and validates the content of a configuration file.
func ParseConfig(data []byte) (Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, rdeerrors.Wrapf(err, rdeerrors.Configuration, "cannot parse configuration")
	}
	if raw == nil {
		return Config{}, nil
	}
	coerced, err := configChecker.Coerce(raw, nil)
	if err != nil {
		return Config{}, rdeerrors.Wrapf(err, rdeerrors.Configuration, "invalid configuration")
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	if err := decoder.Decode(coerced); err != nil {
		return Config{}, rdeerrors.Wrapf(err, rdeerrors.Configuration, "invalid configuration")
	}
	for artifactType, attempts := range config.LogBudgets {
		if attempts <= 0 {
			return Config{}, rdeerrors.Newf(rdeerrors.Configuration,
				"log budget of %q must be positive, got %d", artifactType, attempts)
		}
	}
	return config, nil
}

// ReadConfigFile reads the configuration file at path. A missing file is
// an empty configuration.
func ReadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	} else if err != nil {
		return Config{}, errors.Trace(err)
	}
	config, err := ParseConfig(data)
	return config, errors.Annotatef(err, "reading %s", path)
}

// WithDefaults returns the configuration with the default endpoints filled
// in.
func (c Config) WithDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.CloudManagerURL == "" {
		c.CloudManagerURL = DefaultCloudManagerURL
	}
	if c.APIKey == "" {
		c.APIKey = DefaultAPIKey
	}
	return c
}

// WithEnvironment returns the configuration overridden by the environment
// variables that are set.
func (c Config) WithEnvironment(getenv func(string) string) Config {
	overrides := []struct {
		key   string
		value *string
	}{
		{APIURLEnvKey, &c.APIURL},
		{APIKeyEnvKey, &c.APIKey},
		{OrgIDEnvKey, &c.OrgID},
	}
	for _, o := range overrides {
		if v := getenv(o.key); v != "" {
			*o.value = v
		}
	}
	return c
}

// Validate checks that the configuration names an environment to act on.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"org-id", c.OrgID},
		{"program", c.Program},
		{"environment", c.Environment},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return rdeerrors.Newf(rdeerrors.Configuration,
			"configuration is missing %v, run \"rde setup\"", missing)
	}
	for _, u := range []struct{ name, value string }{
		{"api-url", c.APIURL},
		{"cloud-manager-url", c.CloudManagerURL},
	} {
		if u.value == "" {
			continue
		}
		if parsed, err := url.Parse(u.value); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return rdeerrors.Newf(rdeerrors.Configuration, "%s %q is not a valid URL", u.name, u.value)
		}
	}
	return nil
}

// IsZero reports whether nothing is configured.
func (c Config) IsZero() bool {
	return reflect.DeepEqual(c, Config{})
}
