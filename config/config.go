package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for parasearch.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Render    RenderConfig    `yaml:"render"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CorpusConfig says where the preprocessed corpus lives. Paths are
// doublestar glob patterns relative to the working directory.
type CorpusConfig struct {
	Paragraphs []string `yaml:"paragraphs"`
	Documents  []string `yaml:"documents"` // empty = use the bbolt catalog
	Excludes   []string `yaml:"excludes"`
	Progress   bool     `yaml:"progress"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopN int `yaml:"top_n"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "bert", "openai", "ollama", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
}

// RenderConfig holds output configuration.
type RenderConfig struct {
	Format     string `yaml:"format"` // "text", "html", "json"
	MaxTextLen int    `yaml:"max_text_len"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Paragraphs: []string{"data/paragraphs/**/*.jsonl"},
			Excludes:   []string{"**/.git/**"},
			Progress:   true,
		},
		Retrieve: RetrieveConfig{
			TopN: 5,
		},
		Embedding: EmbeddingConfig{
			Provider:  "bert",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 768,
		},
		Render: RenderConfig{
			Format:     "text",
			MaxTextLen: 500,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for parasearch.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "parasearch.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".parasearch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CatalogPath returns the path to the document catalog database.
func CatalogPath(dir string) string {
	return filepath.Join(dir, ".parasearch", "catalog.db")
}
