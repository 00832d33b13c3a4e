package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// providerKeyEnv lists the conventional API key variables per provider,
// consulted when neither the file nor PULSE_API_KEY sets a key.
var providerKeyEnv = map[string][]string{
	"gemini":     {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"openai":     {"OPENAI_API_KEY"},
	"anthropic":  {"ANTHROPIC_API_KEY"},
	"groq":       {"GROQ_API_KEY"},
	"openrouter": {"OPENROUTER_API_KEY"},
}

// ApplyEnv overrides config values from PULSE_* environment variables.
// API keys and the auth token read here are never written back by Save.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PULSE_PROVIDER"); v != "" {
		if v != c.Provider && os.Getenv("PULSE_MODEL") == "" {
			if p := GetProvider(v); p != nil {
				c.Model = p.DefaultModel
			}
		}
		c.Provider = v
	}
	if v := os.Getenv("PULSE_MODEL"); v != "" {
		c.Model = v
	}
	fileKey := c.APIKey
	if v := os.Getenv("PULSE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if c.APIKey == "" {
		for _, name := range providerKeyEnv[c.Provider] {
			if v := os.Getenv(name); v != "" {
				c.APIKey = v
				break
			}
		}
	}
	if c.APIKey != fileKey {
		c.envAPIKey, c.fileAPIKey = c.APIKey, fileKey
	}
	if v := os.Getenv("PULSE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" && c.Region == "" {
		c.Region = v
	}
	if v := os.Getenv("PULSE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PULSE_PROMPTS_DIR"); v != "" {
		c.PromptsDir = v
	}
	if v := os.Getenv("PULSE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: PULSE_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("PULSE_GENERATE_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: PULSE_GENERATE_COUNT: %w", err)
		}
		c.Generate.Count = n
	}
	if v := os.Getenv("PULSE_MAX_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: PULSE_MAX_ROWS: %w", err)
		}
		c.Analysis.MaxRows = n
	}
	if v := os.Getenv("PULSE_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PULSE_AUTH_TOKEN"); v != "" && v != c.Server.AuthToken {
		c.envAuthToken, c.fileAuthToken = v, c.Server.AuthToken
		c.Server.AuthToken = v
	}
	if v := os.Getenv("PULSE_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: PULSE_RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	return nil
}
