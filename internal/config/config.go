// Package config loads runtime settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

// ServerConfig holds the listen addresses.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	GatewayAddr string `yaml:"gatewayAddr"`
}

// LLMConfig configures the optional model provider. An empty APIKey means the
// deterministic reply path is the sole source.
type LLMConfig struct {
	APIKey         string `yaml:"apiKey"`
	BaseURL        string `yaml:"baseUrl"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// TranscriptConfig locates the chat transcript database.
type TranscriptConfig struct {
	Path string `yaml:"path"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			GatewayAddr: ":8081",
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
		},
		Transcript: TranscriptConfig{
			Path: "studypilot.db",
		},
	}
}

// Load reads the YAML file at path (if it exists) over the defaults, then
// applies environment overrides. A missing file is not an error; a malformed
// one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("STUDYPILOT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STUDYPILOT_GATEWAY_ADDR"); v != "" {
		c.Server.GatewayAddr = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("STUDYPILOT_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("STUDYPILOT_DB"); v != "" {
		c.Transcript.Path = v
	}
}
