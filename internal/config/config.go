package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Bedrock BedrockConfig `yaml:"bedrock"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// StorageConfig holds the JSON collection store configuration
type StorageConfig struct {
	// DataDir is the directory holding one JSON array file per collection.
	// The practice-questions collection in it is read-only seed data.
	DataDir string `yaml:"data_dir"`
}

// BedrockConfig holds AWS Bedrock summarization configuration
type BedrockConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Region      string  `yaml:"region"`
	ModelID     string  `yaml:"model_id"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Summary generation waits on Bedrock, so the write timeout is
		// generous compared to the read timeout.
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}

	// Storage defaults
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "./data"
	}

	// Bedrock defaults
	if c.Bedrock.Region == "" {
		c.Bedrock.Region = "us-east-1"
	}
	if c.Bedrock.ModelID == "" {
		c.Bedrock.ModelID = "amazon.nova-micro-v1:0"
	}
	if c.Bedrock.MaxTokens == 0 {
		c.Bedrock.MaxTokens = 1000
	}
	if c.Bedrock.Temperature == 0 {
		c.Bedrock.Temperature = 0.3
	}
	if c.Bedrock.TopP == 0 {
		c.Bedrock.TopP = 0.9
	}
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Bedrock.Enabled = true
	return cfg
}
