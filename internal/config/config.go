package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
)

// Supported generative service backends
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderVertexAI = "vertexai"
)

var defaultModels = map[string]string{
	ProviderGemini:   "gemini-2.0-flash",
	ProviderOpenAI:   "gpt-4o-mini",
	ProviderVertexAI: "gemini-1.5-flash",
}

// Duration is a time.Duration that reads from strings like "30s" in both
// the JSON config file and environment variables
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds application configuration
type Config struct {
	Port     int    `json:"port" env:"PORT"`
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	LLMProvider string `json:"llm_provider" env:"LLM_PROVIDER"`
	LLMModel    string `json:"llm_model" env:"LLM_MODEL"`

	// Secrets are only read from the environment
	GoogleAPIKey string `json:"-" env:"GOOGLE_API_KEY"`
	OpenAIAPIKey string `json:"-" env:"OPENAI_API_KEY"`
	NatsToken    string `json:"-" env:"NATS_TOKEN"`

	OpenAIBaseURL         string `json:"openai_base_url" env:"OPENAI_BASE_URL"`
	GoogleCloudProject    string `json:"google_cloud_project" env:"GOOGLE_CLOUD_PROJECT"`
	GoogleCloudLocation   string `json:"google_cloud_location" env:"GOOGLE_CLOUD_LOCATION"`
	GoogleCredentialsPath string `json:"google_credentials_path" env:"GOOGLE_APPLICATION_CREDENTIALS"`

	UploadsDir  string `json:"uploads_dir" env:"UPLOADS_DIR"`
	PromptsPath string `json:"prompts_path" env:"PROMPTS_PATH"`

	SessionTTL           Duration `json:"session_ttl" env:"SESSION_TTL"`
	SessionSweepInterval Duration `json:"session_sweep_interval" env:"SESSION_SWEEP_INTERVAL"`
	RequestTimeout       Duration `json:"request_timeout" env:"REQUEST_TIMEOUT"`

	NatsURL string `json:"nats_url" env:"NATS_URL"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Port:                 8080,
		LogLevel:             "info",
		LLMProvider:          ProviderGemini,
		GoogleCloudLocation:  "us-central1",
		UploadsDir:           "uploads",
		SessionTTL:           Duration{24 * time.Hour},
		SessionSweepInterval: Duration{10 * time.Minute},
		RequestTimeout:       Duration{60 * time.Second},
	}
}

// GetConfigPath returns the path to the configuration file.
// CONFIG_PATH wins when set; otherwise
// On Windows: %APPDATA%/AIInterviewer/config.json
// On Unix: ~/.config/AIInterviewer/config.json
func GetConfigPath() (string, error) {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p, nil
	}

	var configDir string
	if os.Getenv("APPDATA") != "" {
		configDir = filepath.Join(os.Getenv("APPDATA"), "AIInterviewer")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "AIInterviewer")
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path and then applies
// environment overrides
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom loads configuration from a specific path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration to the default config path
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the configuration to path. Secrets are never written.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields with any environment variables that are set
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Model returns the configured model, or the provider's default
func (c *Config) Model() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	return defaultModels[c.LLMProvider]
}

// Validate checks if the configuration is valid.
// Missing API keys are not an error: the server starts and generation
// calls report the missing credential instead.
func (c *Config) Validate() error {
	if _, ok := defaultModels[c.LLMProvider]; !ok {
		return fmt.Errorf("llm_provider must be one of %q, %q or %q, got %q",
			ProviderGemini, ProviderOpenAI, ProviderVertexAI, c.LLMProvider)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.UploadsDir == "" {
		return fmt.Errorf("uploads_dir is required")
	}

	if c.SessionTTL.Duration <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}

	if c.SessionSweepInterval.Duration <= 0 {
		return fmt.Errorf("session_sweep_interval must be positive")
	}

	if c.RequestTimeout.Duration <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.PromptsPath != "" {
		if _, err := os.Stat(c.PromptsPath); err != nil {
			return fmt.Errorf("prompts file not found: %w", err)
		}
	}

	return nil
}
