// Package config loads nik-checker settings from an optional JSONC file.
//
// The file format is JSON with comments, so this package uses
// github.com/tidwall/jsonc to strip comments and trailing commas before
// parsing with the standard encoding/json library.
//
// Resolution order:
//  1. Explicit path (the --config flag)
//  2. $NIK_CHECKER_CONFIG
//  3. $XDG_CONFIG_HOME/nik-checker/config.jsonc (or ~/.config/...)
//  4. Built-in defaults
//
// After the file is applied, NIK_CHECKER_ENDPOINT and NIK_CHECKER_PROBE_URL
// override the corresponding fields.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/nik-checker/internal/model"
)

// Environment variable names recognized by Load.
const (
	EnvConfigPath = "NIK_CHECKER_CONFIG"
	EnvEndpoint   = "NIK_CHECKER_ENDPOINT"
	EnvProbeURL   = "NIK_CHECKER_PROBE_URL"
)

// Defaults.
const (
	DefaultEndpoint     = "https://api.kyuurzy.site/api/search/ceknik"
	DefaultProbeURL     = "https://www.google.com"
	DefaultProbeTimeout = 5 * time.Second
	DefaultUserAgent    = "nik-checker"
)

// Config holds resolved runtime settings.
type Config struct {
	// Endpoint is the lookup URL. The identifier is sent as the "query"
	// parameter.
	Endpoint string

	// ProbeURL is the well-known host used for the connectivity check.
	ProbeURL string

	// ProbeTimeout bounds the connectivity check.
	ProbeTimeout time.Duration

	// RequestTimeout bounds the lookup request. Zero means no timeout
	// beyond cancellation of the caller's context.
	RequestTimeout time.Duration

	// UserAgent is sent on every outbound request.
	UserAgent string

	// SkipProbe disables the connectivity check.
	SkipProbe bool

	// Source is the file the settings were read from, or empty when only
	// defaults and environment were used.
	Source string
}

// fileConfig is the on-disk representation. Durations are strings
// ("5s", "1m") so the file stays readable.
type fileConfig struct {
	Endpoint       string `json:"endpoint,omitempty"`
	ProbeURL       string `json:"probeUrl,omitempty"`
	ProbeTimeout   string `json:"probeTimeout,omitempty"`
	RequestTimeout string `json:"requestTimeout,omitempty"`
	UserAgent      string `json:"userAgent,omitempty"`
	SkipProbe      *bool  `json:"skipProbe,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Endpoint:     DefaultEndpoint,
		ProbeURL:     DefaultProbeURL,
		ProbeTimeout: DefaultProbeTimeout,
		UserAgent:    DefaultUserAgent,
	}
}

// Load resolves the configuration. explicitPath may be empty.
//
// A missing explicit file is an error; a missing default-location file is
// not. Returns a CLIError with ExitConfigInvalid on read, parse, or
// validation failure.
func Load(explicitPath string) (*Config, error) {
	cfg := Default()

	path, required := resolvePath(explicitPath)
	if path != "" {
		if err := cfg.applyFile(path, required); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvProbeURL); v != "" {
		cfg.ProbeURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigInvalid, "invalid configuration", err)
	}
	return cfg, nil
}

// resolvePath picks the config file and reports whether it must exist.
func resolvePath(explicitPath string) (string, bool) {
	if explicitPath != "" {
		return explicitPath, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	// os.UserConfigDir honors XDG_CONFIG_HOME on Unix.
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, "nik-checker", "config.jsonc"), false
}

// applyFile reads path and overlays any fields it sets onto c.
func (c *Config) applyFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	// Strip // and /* */ comments plus trailing commas.
	var raw fileConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}

	if raw.Endpoint != "" {
		c.Endpoint = raw.Endpoint
	}
	if raw.ProbeURL != "" {
		c.ProbeURL = raw.ProbeURL
	}
	if raw.UserAgent != "" {
		c.UserAgent = raw.UserAgent
	}
	if raw.SkipProbe != nil {
		c.SkipProbe = *raw.SkipProbe
	}
	if raw.ProbeTimeout != "" {
		d, err := time.ParseDuration(raw.ProbeTimeout)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("invalid probeTimeout %q in %s", raw.ProbeTimeout, path), err)
		}
		c.ProbeTimeout = d
	}
	if raw.RequestTimeout != "" {
		d, err := time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("invalid requestTimeout %q in %s", raw.RequestTimeout, path), err)
		}
		c.RequestTimeout = d
	}

	c.Source = path
	return nil
}

// Validate checks that URLs are absolute http(s) URLs and durations are sane.
func (c *Config) Validate() error {
	if err := validateHTTPURL("endpoint", c.Endpoint); err != nil {
		return err
	}
	if !c.SkipProbe {
		if err := validateHTTPURL("probeUrl", c.ProbeURL); err != nil {
			return err
		}
		if c.ProbeTimeout <= 0 {
			return fmt.Errorf("probeTimeout must be positive, got %s", c.ProbeTimeout)
		}
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}

func validateHTTPURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", field, raw)
	}
	return nil
}
