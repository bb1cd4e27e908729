package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig are the search pipeline tunables. They come from an optional
// yaml file with env overrides for the deployment-specific values.
type AppConfig struct {
	Postgres struct {
		ConnectionString string `yaml:"connection_string"`
	} `yaml:"postgres"`
	Embedding struct {
		Enabled bool   `yaml:"enabled"`
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"embedding"`
	Search struct {
		CandidateLimit int `yaml:"candidate_limit"`
	} `yaml:"search"`
}

const defaultConfigPath = "cmd/archive_api/config.yaml"

func LoadAppConfig() (*AppConfig, error) {
	var cfg AppConfig

	path := os.Getenv("APP_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.ConnectionString = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.Embedding.BaseURL = v
		cfg.Embedding.Enabled = true
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}

	if cfg.Postgres.ConnectionString == "" {
		return nil, fmt.Errorf("postgres connection string is required (DATABASE_URL or config file)")
	}
	if cfg.Embedding.Enabled && cfg.Embedding.BaseURL == "" {
		return nil, fmt.Errorf("embedding enabled but no base url configured")
	}

	return &cfg, nil
}
