// Package usecase wires the ports together into the two orchestrator
// entry points (full_index, update_index) and the hybrid_search retrieval
// pipeline.
package usecase

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/chittiv1113/Oracle/internal/adapter/hasher"
	"github.com/chittiv1113/Oracle/internal/domain"
	"github.com/chittiv1113/Oracle/internal/oraclerr"
	"github.com/chittiv1113/Oracle/internal/port"
)

// IndexOptions configures a full_index or update_index run.
type IndexOptions struct {
	ProgressCallback func(label string, current, total int)
}

// Indexer is the Indexer Orchestrator: it owns the Chunk Store, Walker,
// Chunker, Lexical Index, Vector Index, and Embedder for one repository.
type Indexer struct {
	store     port.ChunkStore
	walker    port.Walker
	chunker   port.Chunker
	fallback  port.FallbackChunker
	lexical   port.LexicalIndex
	vector    port.VectorIndex
	embedder  port.Embedder
	lexPath   string
	vecPath   string
	chkptPath string
}

// NewIndexer assembles an Indexer from its ports.
func NewIndexer(store port.ChunkStore, walker port.Walker, chunker port.Chunker, fallback port.FallbackChunker,
	lexical port.LexicalIndex, vector port.VectorIndex, embedder port.Embedder,
	lexPath, vecPath, checkpointPath string) *Indexer {
	return &Indexer{
		store:     store,
		walker:    walker,
		chunker:   chunker,
		fallback:  fallback,
		lexical:   lexical,
		vector:    vector,
		embedder:  embedder,
		lexPath:   lexPath,
		vecPath:   vecPath,
		chkptPath: checkpointPath,
	}
}

// FullIndex truncates the Chunk Store and rebuilds every Chunk, the
// Lexical Index, and the Vector Index from a fresh repository walk.
func (idx *Indexer) FullIndex(ctx context.Context, repoPath string, opts IndexOptions) (domain.Stats, error) {
	start := time.Now()
	var stats domain.Stats

	if err := idx.store.DeleteAll(ctx); err != nil {
		return stats, oraclerr.New(oraclerr.IO, "Indexer.FullIndex", err)
	}

	extToGrammar := make(map[string]domain.GrammarRegistration)
	for _, reg := range idx.chunker.Registrations() {
		for _, ext := range reg.Extensions {
			extToGrammar[ext] = reg
		}
	}

	files, err := idx.walker.Discover(ctx, repoPath)
	if err != nil {
		return stats, oraclerr.New(oraclerr.IO, "Indexer.FullIndex", err)
	}
	stats.FilesDiscovered = len(files)

	var bar *progressbar.ProgressBar
	if opts.ProgressCallback == nil {
		bar = progressbar.Default(int64(len(files)), "indexing")
	}

	var allChunks []domain.Chunk
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		chunks, err := idx.chunkFile(repoPath, path, extToGrammar)
		if err != nil {
			stats.FilesFailed++
		} else {
			allChunks = append(allChunks, chunks...)
			stats.FilesProcessed++
		}

		if opts.ProgressCallback != nil {
			opts.ProgressCallback("indexing", i+1, len(files))
		} else {
			bar.Add(1)
		}
	}

	if _, err := idx.store.InsertBatch(ctx, allChunks); err != nil {
		return stats, oraclerr.New(oraclerr.IO, "Indexer.FullIndex", err)
	}
	stats.ChunksCreated = len(allChunks)

	if err := idx.rebuildIndices(ctx, opts); err != nil {
		return stats, err
	}

	idx.recordCheckpoint(repoPath)

	stats.DurationMS = time.Since(start).Milliseconds()
	return stats, nil
}

// UpdateIndex reindexes only files that changed since the last version-
// control checkpoint, falling back to FullIndex when no checkpoint or git
// tooling is available.
func (idx *Indexer) UpdateIndex(ctx context.Context, repoPath string, opts IndexOptions) (domain.Stats, error) {
	start := time.Now()
	var stats domain.Stats

	changed, err := idx.changedPaths(ctx, repoPath)
	if err != nil {
		return idx.FullIndex(ctx, repoPath, opts)
	}
	stats.FilesDiscovered = len(changed)

	extToGrammar := make(map[string]domain.GrammarRegistration)
	for _, reg := range idx.chunker.Registrations() {
		for _, ext := range reg.Extensions {
			extToGrammar[ext] = reg
		}
	}

	var toReindex []string
	for _, rel := range changed {
		full := filepath.Join(repoPath, rel)
		content, readErr := readFileContent(full)
		if readErr != nil {
			// file deleted; still needs its stale chunks removed.
			toReindex = append(toReindex, rel)
			continue
		}
		h := hasher.Hash(content)

		existing, err := idx.store.ListByFile(ctx, rel)
		if err != nil {
			stats.FilesFailed++
			continue
		}
		needsReindex := len(existing) == 0
		for _, c := range existing {
			if c.ContentHash != h {
				needsReindex = true
				break
			}
		}
		if needsReindex {
			toReindex = append(toReindex, rel)
		}
	}

	var allChunks []domain.Chunk
	for i, rel := range toReindex {
		if err := idx.store.DeleteByFile(ctx, rel); err != nil {
			stats.FilesFailed++
			continue
		}

		chunks, err := idx.chunkFile(repoPath, rel, extToGrammar)
		if err != nil {
			stats.FilesFailed++
		} else {
			allChunks = append(allChunks, chunks...)
			stats.FilesProcessed++
		}

		if opts.ProgressCallback != nil {
			opts.ProgressCallback("updating", i+1, len(toReindex))
		}
	}

	if len(allChunks) > 0 {
		if _, err := idx.store.InsertBatch(ctx, allChunks); err != nil {
			return stats, oraclerr.New(oraclerr.IO, "Indexer.UpdateIndex", err)
		}
	}
	stats.ChunksCreated = len(allChunks)

	if err := idx.rebuildIndices(ctx, opts); err != nil {
		return stats, err
	}

	idx.recordCheckpoint(repoPath)

	stats.DurationMS = time.Since(start).Milliseconds()
	return stats, nil
}

// chunkFile reads path and dispatches to the registered grammar's Chunker,
// falling back to line-window chunking when no grammar claims its
// extension.
func (idx *Indexer) chunkFile(repoPath, relPath string, extToGrammar map[string]domain.GrammarRegistration) ([]domain.Chunk, error) {
	full := filepath.Join(repoPath, relPath)
	content, err := readFileContent(full)
	if err != nil {
		return nil, err
	}

	ext := extensionOf(relPath)
	reg, ok := extToGrammar[ext]
	if !ok {
		return idx.fallback.Chunk(relPath, content)
	}
	return idx.chunker.Chunk(relPath, content, reg)
}

func (idx *Indexer) rebuildIndices(ctx context.Context, opts IndexOptions) error {
	chunks, err := idx.store.ListAll(ctx)
	if err != nil {
		return oraclerr.New(oraclerr.IO, "Indexer.rebuildIndices", err)
	}

	idx.lexical.Build(chunks)
	if err := idx.lexical.Save(idx.lexPath); err != nil {
		return oraclerr.New(oraclerr.IO, "Indexer.rebuildIndices", err)
	}

	total := len(chunks)
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		vec, err := idx.embedder.Embed(ctx, c.Content)
		if err != nil {
			return oraclerr.New(oraclerr.ModelUnavailable, "Indexer.rebuildIndices", err)
		}
		if err := idx.vector.Add(c.ID, vec); err != nil {
			return oraclerr.New(oraclerr.InternalInvariant, "Indexer.rebuildIndices", err)
		}
		if opts.ProgressCallback != nil {
			opts.ProgressCallback("embedding", i+1, total)
		}
	}

	if err := idx.vector.Save(idx.vecPath); err != nil {
		return oraclerr.New(oraclerr.IO, "Indexer.rebuildIndices", err)
	}
	return nil
}

// changedPaths returns the repository-relative paths touched since the
// last recorded checkpoint. It fails if there is no checkpoint, no .git
// directory, or the git binary isn't usable.
func (idx *Indexer) changedPaths(ctx context.Context, repoPath string) ([]string, error) {
	lastRef, err := readFileContent(idx.chkptPath)
	if err != nil {
		return nil, fmt.Errorf("no checkpoint: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cctx, "git", "diff", "--name-only", strings.TrimSpace(string(lastRef)), "HEAD")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	return splitLines(string(out)), nil
}

// recordCheckpoint writes the repository's current HEAD commit so the next
// update_index run can diff against it. Failure is non-fatal: the next
// update_index simply falls back to a full index.
func (idx *Indexer) recordCheckpoint(repoPath string) {
	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cctx, "git", "rev-parse", "HEAD")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return
	}
	_ = writeFileAtomic(idx.chkptPath, out)
}
