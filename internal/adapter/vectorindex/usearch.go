// Package vectorindex implements the Vector Index atop
// github.com/unum-cloud/usearch/golang's HNSW graph.
package vectorindex

import (
	"fmt"
	"os"
	"sync"

	usearch "github.com/unum-cloud/usearch/golang"

	"github.com/chittiv1113/Oracle/internal/oraclerr"
	"github.com/chittiv1113/Oracle/internal/port"
)

// Config mirrors the HNSW construction parameters.
type Config struct {
	Dimension       int
	Connectivity    uint
	ExpansionAdd    uint
	ExpansionSearch uint
}

// DefaultConfig returns the construction parameters this engine commits to:
// cosine metric, float32 storage, 384 dimensions, connectivity 16,
// expansion_add 128, expansion_search 64.
func DefaultConfig() Config {
	return Config{
		Dimension:       384,
		Connectivity:    16,
		ExpansionAdd:    128,
		ExpansionSearch: 64,
	}
}

// Index wraps a usearch HNSW index. One vector per key; re-adding a key
// overwrites its prior vector.
type Index struct {
	mu  sync.RWMutex
	idx *usearch.Index
	cfg Config
}

// New creates an empty HNSW index per cfg.
func New(cfg Config) (*Index, error) {
	conf := usearch.DefaultConfig(uint(cfg.Dimension))
	conf.Metric = usearch.Cos
	conf.Quantization = usearch.F32
	conf.Connectivity = cfg.Connectivity
	conf.ExpansionAdd = cfg.ExpansionAdd
	conf.ExpansionSearch = cfg.ExpansionSearch

	idx, err := usearch.NewIndex(conf)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: create index: %w", err)
	}
	return &Index{idx: idx, cfg: cfg}, nil
}

// Add inserts or replaces the vector stored under key.
func (i *Index) Add(key int64, vector []float32) error {
	if len(vector) != i.cfg.Dimension {
		return fmt.Errorf("vectorindex: vector has %d dimensions, want %d", len(vector), i.cfg.Dimension)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if contains, err := i.idx.Contains(uint64(key)); err == nil && contains {
		if err := i.idx.Remove(uint64(key)); err != nil {
			return fmt.Errorf("vectorindex: remove stale key %d: %w", key, err)
		}
	}

	size, err := i.idx.Len()
	if err == nil {
		capacity, _ := i.idx.Capacity()
		if size >= capacity {
			if err := i.idx.Reserve(capacity + 1024); err != nil {
				return fmt.Errorf("vectorindex: reserve: %w", err)
			}
		}
	}

	if err := i.idx.Add(uint64(key), vector); err != nil {
		return fmt.Errorf("vectorindex: add key %d: %w", key, err)
	}
	return nil
}

// Search returns the k nearest neighbors to vector by cosine distance,
// ascending.
func (i *Index) Search(vector []float32, k int) ([]port.VectorResult, error) {
	if len(vector) == 0 || k <= 0 {
		return nil, nil
	}
	if len(vector) != i.cfg.Dimension {
		return nil, fmt.Errorf("vectorindex: query has %d dimensions, want %d", len(vector), i.cfg.Dimension)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	keys, distances, err := i.idx.Search(vector, uint(k))
	if err != nil {
		return nil, fmt.Errorf("vectorindex: search: %w", err)
	}

	results := make([]port.VectorResult, len(keys))
	for idx, key := range keys {
		results[idx] = port.VectorResult{Key: int64(key), Distance: float64(distances[idx])}
	}
	return results, nil
}

// Save persists the index to path.
func (i *Index) Save(path string) error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if err := i.idx.Save(path); err != nil {
		return fmt.Errorf("vectorindex: save: %w", err)
	}
	return nil
}

// Load replaces the index's contents with the graph persisted at path.
func (i *Index) Load(path string) error {
	if _, err := os.Stat(path); err != nil {
		return oraclerr.New(oraclerr.NotFound, "vectorindex.Load", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.idx.Load(path); err != nil {
		return oraclerr.New(oraclerr.Corrupt, "vectorindex.Load", err)
	}
	return nil
}

// Close releases the underlying HNSW graph's native memory.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.idx == nil {
		return nil
	}
	err := i.idx.Destroy()
	i.idx = nil
	return err
}
