package config

import (
	"fmt"
	"time"

	"github.com/kbukum/meetscribe/llm/ollama"
	"github.com/kbukum/meetscribe/meeting"
	"github.com/kbukum/meetscribe/transcription"
)

// Config is the full application configuration: base service fields plus one
// section per subsystem.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Detection     meeting.Config              `yaml:"detection" mapstructure:"detection"`
	Transcription transcription.SessionConfig `yaml:"transcription" mapstructure:"transcription"`
	Summary       SummaryConfig               `yaml:"summary" mapstructure:"summary"`
	Generation    GenerationConfig            `yaml:"generation" mapstructure:"generation"`
	Telemetry     TelemetryConfig             `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig configures OpenTelemetry trace and metric export.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// SummaryConfig configures the summary orchestrator.
type SummaryConfig struct {
	// StreamIdleTimeout bounds the wait between streamed summary chunks.
	StreamIdleTimeout time.Duration `yaml:"stream_idle_timeout" mapstructure:"stream_idle_timeout"`
}

// GenerationConfig configures the text generation backend.
type GenerationConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OllamaConfig converts the generation section into an Ollama provider config.
func (c GenerationConfig) OllamaConfig() ollama.Config {
	return ollama.Config{
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}

// ApplyDefaults fills unset fields across every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Detection.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	if c.Summary.StreamIdleTimeout <= 0 {
		c.Summary.StreamIdleTimeout = 30 * time.Second
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = ollama.ProviderName
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
		c.Telemetry.Insecure = true
	}
	if c.Telemetry.SampleRate <= 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// Validate checks every section and returns the first failure.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("config.transcription: %w", err)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("config.generation.temperature must be in [0, 2] (got: %g)", c.Generation.Temperature)
	}
	return nil
}

// Load reads the application configuration for the given service name,
// applies defaults, and validates the result.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
