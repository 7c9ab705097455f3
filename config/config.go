// Package config loads the engine's YAML configuration: Walk, Chunk,
// Lexical, Embedding, Vector, Rerank, and Logging settings.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the indexing and retrieval engine.
type Config struct {
	Walk      WalkConfig      `yaml:"walk"`
	Chunk     ChunkConfig     `yaml:"chunk"`
	Lexical   LexicalConfig   `yaml:"lexical"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
	Rerank    RerankConfig    `yaml:"rerank"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WalkConfig controls repository discovery.
type WalkConfig struct {
	MaxFileBytes int64    `yaml:"max_file_bytes"`
	ExtraIgnores []string `yaml:"extra_ignores"`
}

// ChunkConfig controls AST and fallback chunking.
type ChunkConfig struct {
	LineWindow int `yaml:"line_window"`
}

// LexicalConfig controls the BM25 index.
type LexicalConfig struct {
	K1              float64 `yaml:"k1"`
	B               float64 `yaml:"b"`
	PathBoostWeight float64 `yaml:"path_boost_weight"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "openai", "jina", "ollama", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// VectorConfig mirrors the HNSW construction parameters.
type VectorConfig struct {
	Connectivity    int `yaml:"connectivity"`
	ExpansionAdd    int `yaml:"expansion_add"`
	ExpansionSearch int `yaml:"expansion_search"`
}

// RerankConfig configures the Remote -> Local -> Passthrough reranker
// cascade. Remote is used when APIKeyEnv names a set environment variable;
// Local is used when ModelPath is non-empty; Passthrough is always the
// terminal tier.
type RerankConfig struct {
	Model      string `yaml:"model"`
	APIKeyEnv  string `yaml:"api_key_env"`
	ModelPath  string `yaml:"model_path"`
	TopN       int    `yaml:"top_n"`
	FusionK    int    `yaml:"fusion_k"`
	FusionSize int    `yaml:"fusion_size"`
}

// LoggingConfig controls slog's handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Walk: WalkConfig{
			MaxFileBytes: 500 * 1024,
		},
		Chunk: ChunkConfig{
			LineWindow: 60,
		},
		Lexical: LexicalConfig{
			K1:              1.2,
			B:               0.75,
			PathBoostWeight: 0.3,
		},
		Embedding: EmbeddingConfig{
			Provider:  "mock",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
			BatchSize: 100,
		},
		Vector: VectorConfig{
			Connectivity:    16,
			ExpansionAdd:    128,
			ExpansionSearch: 64,
		},
		Rerank: RerankConfig{
			TopN:       10,
			FusionK:    60,
			FusionSize: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults for
// any field the file omits.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir looks for oracle.yaml, then .oracle/config.yaml, in dir.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "oracle.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".oracle", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the chunk store database under dir.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".oracle", "index.db")
}

// LexicalIndexPath returns the path to the serialized lexical index.
func LexicalIndexPath(dir string) string {
	return filepath.Join(dir, ".oracle", "bm25.gob")
}

// VectorIndexPath returns the path to the serialized vector index.
func VectorIndexPath(dir string) string {
	return filepath.Join(dir, ".oracle", "vectors.usearch")
}

// CheckpointPath returns the path to the VCS checkpoint file consulted by
// update_index.
func CheckpointPath(dir string) string {
	return filepath.Join(dir, ".oracle", "checkpoint")
}

// EnsureOracleDir ensures the .oracle directory exists under dir.
func EnsureOracleDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".oracle"), 0755)
}
