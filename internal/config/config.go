// Package config loads the application configuration from YAML.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIConfig holds settings shared by the OpenAI-compatible embedding
// and generation clients.
type OpenAIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature,omitempty"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedding gateway.
type EmbedderConfig struct {
	Type   string        `yaml:"type"` // hash | openai
	Hash   HashConfig    `yaml:"hash,omitempty"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// HashConfig configures the offline feature-hashing embedder.
type HashConfig struct {
	Dimension int `yaml:"dimension"`
}

// VectorIndexConfig selects and configures the vector index.
type VectorIndexConfig struct {
	Type   string        `yaml:"type"` // memory | qdrant
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant instance.
type QdrantConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Collection  string `yaml:"collection"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GeneratorConfig configures the generation gateway.
type GeneratorConfig struct {
	OpenAI *OpenAIConfig `yaml:"openai"`
}

// IngestConfig holds the write-path defaults.
type IngestConfig struct {
	DataDir   string `yaml:"data_dir"`
	ChunkSize int    `yaml:"chunk_size"`
}

// AnswerConfig holds the read-path policies.
type AnswerConfig struct {
	TopK                 int     `yaml:"top_k"`
	MaxDistance          float64 `yaml:"max_distance"`
	MaxContextChars      int     `yaml:"max_context_chars"`
	Separator            string  `yaml:"separator"`
	AnswerWithoutContext bool    `yaml:"answer_without_context"`
	FallbackText         string  `yaml:"fallback_text"`
}

// ServerConfig configures the HTTP ingestion surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	LogLevel    string            `yaml:"log_level"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorIndex VectorIndexConfig `yaml:"vector_index"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Answer      AnswerConfig      `yaml:"answer"`
	Server      ServerConfig      `yaml:"server"`
}

// Load reads a config from the given path. A missing file yields the
// defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./localbrain.yaml first, then
// ~/.config/localbrain/config.yaml. If neither exists it writes the
// defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "localbrain.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as
// needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "localbrain", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		LogLevel: "info",
		Embedder: EmbedderConfig{Type: "hash", Hash: HashConfig{Dimension: 256}},
		VectorIndex: VectorIndexConfig{
			Type: "memory",
			Qdrant: &QdrantConfig{
				Host:       "localhost",
				Port:       6334,
				Collection: "localbrain_docs",
				Dimension:  256,
			},
		},
		Generator: GeneratorConfig{
			OpenAI: &OpenAIConfig{
				BaseURL:     "http://localhost:11434/v1",
				APIKeyEnv:   "OPENAI_API_KEY",
				Model:       "llama3",
				Temperature: 0.1,
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "hash"
	}
	if cfg.Embedder.Hash.Dimension == 0 {
		cfg.Embedder.Hash.Dimension = 256
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		applyOpenAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small", 30)
	}
	if cfg.VectorIndex.Type == "" {
		cfg.VectorIndex.Type = "memory"
	}
	if q := cfg.VectorIndex.Qdrant; q != nil {
		if q.Host == "" {
			q.Host = "localhost"
		}
		if q.Port == 0 {
			q.Port = 6334
		}
		if q.Collection == "" {
			q.Collection = "localbrain_docs"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
	if cfg.Generator.OpenAI == nil {
		cfg.Generator.OpenAI = &OpenAIConfig{Temperature: 0.1}
	}
	applyOpenAIDefaults(cfg.Generator.OpenAI, "llama3", 120)
	if cfg.Ingest.DataDir == "" {
		cfg.Ingest.DataDir = "data"
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 200
	}
	if cfg.Answer.TopK == 0 {
		cfg.Answer.TopK = 1
	}
	if cfg.Answer.MaxContextChars == 0 {
		cfg.Answer.MaxContextChars = 4000
	}
	if cfg.Answer.Separator == "" {
		cfg.Answer.Separator = "\n\n"
	}
	if cfg.Answer.FallbackText == "" {
		cfg.Answer.FallbackText = "I don't have that information in my local memory."
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:8000"
	}
}

func applyOpenAIDefaults(c *OpenAIConfig, model string, timeoutSecs int) {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434/v1"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = timeoutSecs
	}
}
