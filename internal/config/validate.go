package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateCompletion(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q is not a host:port address: %w", c.Server.Bind, err)
	}
	if c.Server.RequestTimeoutSeconds < 0 {
		return errors.New("server.request_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateProviders() error {
	if !c.ProviderConfigured() {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/parley/config.toml"
		}
		return fmt.Errorf("no completion provider configured. Set OPENROUTER_API_KEY or GEMINI_API_KEY env vars or edit %s (create with 'parley config init')", defaultPath)
	}
	if c.OpenRouter.TimeoutSeconds < 0 {
		return errors.New("openrouter.timeout_seconds must not be negative")
	}
	if c.Gemini.TimeoutSeconds < 0 {
		return errors.New("gemini.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateCompletion() error {
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		return errors.New("completion.temperature must be between 0 and 2")
	}
	if c.Completion.MaxTokens < 1 {
		return errors.New("completion.max_tokens must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
