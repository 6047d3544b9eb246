package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent forkline configuration stored as
// config.toml in the .forkline/ directory.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Chat    ChatConfig   `toml:"chat"`
	Log     LogConfig    `toml:"log"`
}

// ClientConfig holds settings for talking to the ordering backend.
type ClientConfig struct {
	// APITarget is the API base URL, including the /api prefix.
	APITarget string `toml:"api_target,omitempty"`

	// Timeout bounds request/response calls. Streaming calls are only bounded
	// by cancellation.
	Timeout string `toml:"timeout,omitempty"`

	UserAgent string `toml:"user_agent,omitempty"`
}

// ChatConfig holds settings for the AI chat command.
type ChatConfig struct {
	// Plain disables markdown rendering of the final assistant reply.
	Plain bool `toml:"plain,omitempty"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	JSON   bool `toml:"json,omitempty"`
	Pretty bool `toml:"pretty,omitempty"`
}

// ClientTimeout parses Client.Timeout. An empty value yields the default.
func (c *Config) ClientTimeout() (time.Duration, error) {
	if c.Client.Timeout == "" {
		return time.ParseDuration(defaultClientTimeout)
	}

	d, err := time.ParseDuration(c.Client.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid client.timeout %q: %w", c.Client.Timeout, err)
	}
	return d, nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func boolKey(field func(c *Config) *bool, name string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = b
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for client.timeout: %w", err)
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"client.user_agent": {
		get: func(c *Config) string { return c.Client.UserAgent },
		set: func(c *Config, v string) error { c.Client.UserAgent = v; return nil },
	},
	"chat.plain": boolKey(func(c *Config) *bool { return &c.Chat.Plain }, "chat.plain"),
	"log.json":   boolKey(func(c *Config) *bool { return &c.Log.JSON }, "log.json"),
	"log.pretty": boolKey(func(c *Config) *bool { return &c.Log.Pretty }, "log.pretty"),
}
