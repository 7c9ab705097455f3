package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunk.LineWindow != 60 {
		t.Errorf("expected LineWindow=60, got %d", cfg.Chunk.LineWindow)
	}
	if cfg.Lexical.K1 != 1.2 {
		t.Errorf("expected K1=1.2, got %f", cfg.Lexical.K1)
	}
	if cfg.Lexical.B != 0.75 {
		t.Errorf("expected B=0.75, got %f", cfg.Lexical.B)
	}
	if cfg.Embedding.Dimension != 384 {
		t.Errorf("expected Dimension=384, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Rerank.TopN != 10 {
		t.Errorf("expected TopN=10, got %d", cfg.Rerank.TopN)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "oracle.yaml")

	content := `
chunk:
  line_window: 40
lexical:
  k1: 1.5
embedding:
  provider: mock
  dimension: 128
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunk.LineWindow != 40 {
		t.Errorf("expected LineWindow=40, got %d", cfg.Chunk.LineWindow)
	}
	if cfg.Lexical.K1 != 1.5 {
		t.Errorf("expected K1=1.5, got %f", cfg.Lexical.K1)
	}
	if cfg.Embedding.Dimension != 128 {
		t.Errorf("expected Dimension=128, got %d", cfg.Embedding.Dimension)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "oracle.yaml")

	content := `
rerank:
  top_n: 25
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Rerank.TopN != 25 {
		t.Errorf("expected TopN=25, got %d", cfg.Rerank.TopN)
	}
}

func TestLoadFromDir_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Rerank.TopN != 10 {
		t.Errorf("expected default TopN=10, got %d", cfg.Rerank.TopN)
	}
}

func TestIndexDBPath(t *testing.T) {
	path := IndexDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".oracle", "index.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
