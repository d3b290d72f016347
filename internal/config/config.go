// Package config provides configuration management for embedctl.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for embedctl.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Secrets    SecretsConfig    `yaml:"secrets"`
	Storage    StorageConfig    `yaml:"storage"`
}

// CorpusConfig configures where documents are loaded from.
type CorpusConfig struct {
	Dir    string   `yaml:"dir"`
	Ext    string   `yaml:"ext"`
	Ignore []string `yaml:"ignore"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	OpenAIURL string `yaml:"openai_url"`
	OllamaURL string `yaml:"ollama_url"`
}

// SecretsConfig configures where the API credential is read from.
type SecretsConfig struct {
	File string `yaml:"file"`
}

// StorageConfig configures where corpus snapshots are stored.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Corpus: CorpusConfig{
			Dir:    filepath.Join(homeDir, "documents"),
			Ext:    "txt",
			Ignore: []string{".git", "node_modules"},
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			OpenAIURL: "https://api.openai.com/v1",
			OllamaURL: "http://localhost:11434",
		},
		Secrets: SecretsConfig{
			File: filepath.Join(homeDir, ".secrets", "openai.json"),
		},
		Storage: StorageConfig{
			Path: filepath.Join(homeDir, ".local", "share", "embedctl"),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Corpus.Dir == "" {
		return errors.New("corpus.dir must not be empty")
	}
	if c.Corpus.Ext == "" {
		return errors.New("corpus.ext must not be empty")
	}
	if c.Embeddings.Provider != "openai" && c.Embeddings.Provider != "ollama" {
		return errors.New("embeddings.provider must be 'openai' or 'ollama'")
	}
	if c.Embeddings.Model == "" {
		return errors.New("embeddings.model must not be empty")
	}
	return nil
}

// Load loads configuration from the YAML file, falling back to defaults
// for any missing values.
func Load() (*Config, error) {
	cfg := Default()

	configPath, err := ConfigPath()
	if err != nil {
		return cfg, nil // Use defaults if we can't find config dir
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // No config file, use defaults
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the YAML file.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ConfigDir returns the directory where config files are stored.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "embedctl"), nil
}

// ConfigPath returns the path to the main config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DataDir returns the data directory from config, creating it if needed.
func (c *Config) DataDir() (string, error) {
	if err := os.MkdirAll(c.Storage.Path, 0755); err != nil {
		return "", err
	}
	return c.Storage.Path, nil
}

// SnapshotPath returns the path to the corpus snapshot database.
func (c *Config) SnapshotPath() (string, error) {
	dataDir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "corpus.db"), nil
}
