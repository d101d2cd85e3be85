// Package config loads the bridge configuration from YAML with environment
// variable expansion.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by LoadFromBytes when the YAML leaves a field unset.
const (
	DefaultCoreURL       = "http://localhost:12777/"
	DefaultPortFrom      = 12127
	DefaultPortTo        = 12712
	DefaultBindAttempts  = 10
	DefaultLanguage      = "en"
	DefaultIntentTimeout = 30 * time.Second
)

type Config struct {
	Core struct {
		// URL is the base URL of the core's registration endpoint.
		URL string `yaml:"url"`
	} `yaml:"core"`
	Bind struct {
		// PortFrom/PortTo is the inclusive range probed for a free port.
		PortFrom int `yaml:"portFrom"`
		PortTo   int `yaml:"portTo"`
		// MaxAttempts bounds consecutive address-in-use failures before
		// startup aborts.
		MaxAttempts int `yaml:"maxAttempts"`
	} `yaml:"bind"`
	Dispatch struct {
		// DefaultLanguage is used when no declared app language matches
		// the request's Accept-Language preferences.
		DefaultLanguage string `yaml:"defaultLanguage"`
		// IntentTimeoutSeconds bounds a single intent invocation.
		IntentTimeoutSeconds int `yaml:"intentTimeoutSeconds"`
	} `yaml:"dispatch"`
	// Quiet suppresses startup messages and request logging.
	Quiet bool `yaml:"quiet"`
}

// LoadFromBytes parses YAML configuration with environment variable expansion
// and fills in defaults for anything left unset.
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Core.URL == "" {
		c.Core.URL = DefaultCoreURL
	}
	if c.Bind.PortFrom == 0 {
		c.Bind.PortFrom = DefaultPortFrom
	}
	if c.Bind.PortTo == 0 {
		c.Bind.PortTo = DefaultPortTo
	}
	if c.Bind.MaxAttempts == 0 {
		c.Bind.MaxAttempts = DefaultBindAttempts
	}
	if c.Dispatch.DefaultLanguage == "" {
		c.Dispatch.DefaultLanguage = DefaultLanguage
	}
	if c.Dispatch.IntentTimeoutSeconds == 0 {
		c.Dispatch.IntentTimeoutSeconds = int(DefaultIntentTimeout / time.Second)
	}
}

func (c *Config) validate() error {
	if _, err := url.Parse(c.Core.URL); err != nil {
		return fmt.Errorf("invalid core URL %q: %w", c.Core.URL, err)
	}
	if c.Bind.PortFrom > c.Bind.PortTo {
		return fmt.Errorf("invalid port range %d-%d", c.Bind.PortFrom, c.Bind.PortTo)
	}
	if c.Bind.PortFrom < 1 || c.Bind.PortTo > 65535 {
		return fmt.Errorf("port range %d-%d out of bounds", c.Bind.PortFrom, c.Bind.PortTo)
	}
	if c.Bind.MaxAttempts < 1 {
		return fmt.Errorf("bind maxAttempts must be positive, got %d", c.Bind.MaxAttempts)
	}
	return nil
}

// IntentTimeout returns the per-invocation timeout as a duration.
func (c Config) IntentTimeout() time.Duration {
	return time.Duration(c.Dispatch.IntentTimeoutSeconds) * time.Second
}
