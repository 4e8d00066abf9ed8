package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeServer(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeOpenRouter()
	c.normalizeGemini()
	c.normalizeCompletion()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if c.Server.RequestTimeoutSeconds == 0 {
		c.Server.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeStore() error {
	if strings.TrimSpace(c.Store.StateDir) == "" {
		c.Store.StateDir = defaultStateDir
	}
	var err error
	if c.Store.StateDir, err = expandPath(c.Store.StateDir); err != nil {
		return fmt.Errorf("store.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOpenRouter() {
	if c.OpenRouter.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.OpenRouter.APIKey = value
		}
	}
	c.OpenRouter.APIKey = strings.TrimSpace(c.OpenRouter.APIKey)
	c.OpenRouter.BaseURL = strings.TrimSpace(c.OpenRouter.BaseURL)
	if c.OpenRouter.BaseURL == "" {
		c.OpenRouter.BaseURL = defaultOpenRouterBaseURL
	}
	c.OpenRouter.Model = strings.TrimSpace(c.OpenRouter.Model)
	if c.OpenRouter.Model == "" {
		c.OpenRouter.Model = defaultOpenRouterModel
	}
	c.OpenRouter.Referer = strings.TrimSpace(c.OpenRouter.Referer)
	c.OpenRouter.Title = strings.TrimSpace(c.OpenRouter.Title)
	if c.OpenRouter.TimeoutSeconds == 0 {
		c.OpenRouter.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeGemini() {
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = value
		}
	}
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.Gemini.BaseURL = strings.TrimSpace(c.Gemini.BaseURL)
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeCompletion() {
	if strings.TrimSpace(c.Completion.SystemPrompt) == "" {
		c.Completion.SystemPrompt = defaultSystemPrompt
	}
	if c.Completion.MaxTokens == 0 {
		c.Completion.MaxTokens = defaultMaxTokens
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
