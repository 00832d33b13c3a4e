package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Region   string `yaml:"region,omitempty"`

	// Timeout bounds every call to the model
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`

	// PromptsDir holds user prompt files; defaults to <config dir>/prompts
	PromptsDir string `yaml:"prompts_dir,omitempty"`

	Generate GenerateConfig `yaml:"generate"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`

	// secrets taken from the environment, with the file values they replaced
	envAPIKey, fileAPIKey       string
	envAuthToken, fileAuthToken string
}

// GenerationParams are the sampling parameters sent with a request
type GenerationParams struct {
	Temperature      float64 `yaml:"temperature"`
	TopP             float64 `yaml:"top_p"`
	TopK             int     `yaml:"top_k"`
	MaxOutputTokens  int     `yaml:"max_output_tokens"`
	ResponseMIMEType string  `yaml:"response_mime_type"`
}

type GenerateConfig struct {
	// Count is the number of entries requested from the model
	Count  int              `yaml:"count"`
	Params GenerationParams `yaml:"params"`
}

type AnalysisConfig struct {
	// MaxRows caps how many dataset rows go into one analysis prompt
	MaxRows int              `yaml:"max_rows"`
	Params  GenerationParams `yaml:"params"`
}

type ServerConfig struct {
	Addr      string  `yaml:"addr"`
	AuthToken string  `yaml:"auth_token,omitempty"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second
	Burst     int     `yaml:"burst"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider: "gemini",
		Model:    "gemini-1.5-flash",
		Timeout:  60 * time.Second,
		LogLevel: "info",
		Generate: GenerateConfig{
			Count: 45,
			Params: GenerationParams{
				Temperature:      0.7,
				TopP:             0.9,
				TopK:             40,
				MaxOutputTokens:  1024,
				ResponseMIMEType: "text/plain",
			},
		},
		Analysis: AnalysisConfig{
			MaxRows: 1000,
			Params: GenerationParams{
				Temperature:      1,
				TopP:             0.95,
				TopK:             64,
				MaxOutputTokens:  8192,
				ResponseMIMEType: "text/plain",
			},
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 1,
			Burst:     3,
		},
	}
}

// ConfigDir returns ~/.config/pulse, or $PULSE_CONFIG_DIR when set
func ConfigDir() (string, error) {
	if dir := os.Getenv("PULSE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pulse"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file. It returns nil, nil when no file exists.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads a config file, filling unset sections with defaults.
// It returns nil, nil when the file does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillDefaults()

	return &cfg, nil
}

// Resolve loads the config file (or defaults when there is none) and
// applies environment overrides. found reports whether a file was read.
func Resolve() (cfg *Config, found bool, err error) {
	cfg, err = Load()
	if err != nil {
		return nil, false, err
	}
	found = cfg != nil
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, found, err
	}
	return cfg, found, nil
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()

	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.Model == "" {
		if p := GetProvider(c.Provider); p != nil {
			c.Model = p.DefaultModel
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}

	if c.Generate.Count <= 0 {
		c.Generate.Count = d.Generate.Count
	}
	c.Generate.Params.fillFrom(d.Generate.Params)

	if c.Analysis.MaxRows <= 0 {
		c.Analysis.MaxRows = d.Analysis.MaxRows
	}
	c.Analysis.Params.fillFrom(d.Analysis.Params)

	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = d.Server.RateLimit
	}
	if c.Server.Burst <= 0 {
		c.Server.Burst = d.Server.Burst
	}
}

// fillFrom copies defaults into an unset parameter block. A zero
// temperature is a legitimate setting, so sampling values are only
// replaced when the whole block is empty.
func (p *GenerationParams) fillFrom(d GenerationParams) {
	if *p == (GenerationParams{}) {
		*p = d
		return
	}
	if p.MaxOutputTokens <= 0 {
		p.MaxOutputTokens = d.MaxOutputTokens
	}
	if p.ResponseMIMEType == "" {
		p.ResponseMIMEType = d.ResponseMIMEType
	}
}

// ResolvedPromptsDir returns the user prompt directory
func (c *Config) ResolvedPromptsDir() (string, error) {
	if c.PromptsDir != "" {
		return c.PromptsDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prompts"), nil
}

// LogPath is where the TUI writes its log
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pulse.log"), nil
}

// Validate checks the config is usable for calling the model
func (c *Config) Validate() error {
	provider := GetProvider(c.Provider)
	if provider == nil {
		return fmt.Errorf("config: unknown provider %q (supported: %s)", c.Provider, strings.Join(ProviderIDs(), ", "))
	}
	if provider.NeedsAPIKey && strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("config: %s requires an API key (set api_key or PULSE_API_KEY)", provider.Name)
	}
	if provider.NeedsBaseURL && strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("config: %s provider requires base_url", provider.Name)
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be > 0")
	}
	if c.Generate.Count <= 0 {
		return errors.New("config: generate.count must be > 0")
	}
	if c.Analysis.MaxRows <= 0 {
		return errors.New("config: analysis.max_rows must be > 0")
	}
	if err := c.Generate.Params.validate("generate"); err != nil {
		return err
	}
	if err := c.Analysis.Params.validate("analysis"); err != nil {
		return err
	}
	return nil
}

func (p GenerationParams) validate(section string) error {
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("config: %s.params.temperature must be between 0 and 2", section)
	}
	if p.TopP < 0 || p.TopP > 1 {
		return fmt.Errorf("config: %s.params.top_p must be between 0 and 1", section)
	}
	if p.TopK < 0 {
		return fmt.Errorf("config: %s.params.top_k must be >= 0", section)
	}
	if p.MaxOutputTokens <= 0 {
		return fmt.Errorf("config: %s.params.max_output_tokens must be > 0", section)
	}
	return nil
}

func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c.persisted())
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// persisted returns the config as it belongs on disk. Secrets supplied by
// the environment are swapped back for the file values unless they have
// been changed since.
func (c *Config) persisted() *Config {
	out := *c
	if c.envAPIKey != "" && out.APIKey == c.envAPIKey {
		out.APIKey = c.fileAPIKey
	}
	if c.envAuthToken != "" && out.Server.AuthToken == c.envAuthToken {
		out.Server.AuthToken = c.fileAuthToken
	}
	return &out
}
