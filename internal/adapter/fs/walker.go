// Package fs implements the Repository Walker: a depth-first traversal that
// honors a hardcoded ignore set, an optional .gitignore, and size/binary
// filters.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/chittiv1113/Oracle/internal/oraclerr"
)

// defaultIgnorePatterns are consulted before any .gitignore.
var defaultIgnorePatterns = []string{
	"node_modules/**",
	"dist/**",
	"build/**",
	".git/**",
	"*.min.js",
}

const defaultMaxBytes = 500 * 1024

// binarySniffLen is the prefix length inspected by the binary heuristic.
const binarySniffLen = 8000

// Walker enumerates candidate files under a repository root.
type Walker struct {
	maxBytes     int64
	extraIgnores []string
	logger       *slog.Logger
}

// New creates a Walker. maxBytes <= 0 selects the default of 500KiB.
// extraIgnores are doublestar glob patterns consulted alongside
// defaultIgnorePatterns and any .gitignore.
func New(maxBytes int64, extraIgnores []string, logger *slog.Logger) *Walker {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{maxBytes: maxBytes, extraIgnores: extraIgnores, logger: logger}
}

// Discover returns the sorted, repository-relative, forward-slash
// normalized paths of accepted files under root.
func (w *Walker) Discover(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, oraclerr.New(oraclerr.InvalidInput, "walker.Discover", fmt.Errorf("root %q is not a directory", root))
	}

	gi := w.loadGitignore(root)

	var accepted []string
	err = filepath.Walk(root, func(path string, entry os.FileInfo, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			w.logger.Warn("walker: permission or I/O error", "path", path, "error", walkErr)
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		if w.isIgnored(rel, entry.IsDir(), gi) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			return nil
		}
		if !entry.Mode().IsRegular() {
			return nil
		}

		if entry.Size() > w.maxBytes {
			w.logger.Warn("walker: file exceeds max_bytes, skipping", "path", rel, "size", entry.Size())
			return nil
		}

		isBinary, err := isBinaryFile(path)
		if err != nil {
			w.logger.Warn("walker: could not sniff file, skipping", "path", rel, "error", err)
			return nil
		}
		if isBinary {
			return nil
		}

		accepted = append(accepted, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(accepted)
	return accepted, nil
}

func (w *Walker) loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("walker: failed to read .gitignore, continuing without it", "error", err)
		}
		return nil
	}
	return gi
}

func (w *Walker) isIgnored(rel string, isDir bool, gi *ignore.GitIgnore) bool {
	candidate := rel
	if isDir {
		candidate = rel + "/"
	}
	for _, pattern := range defaultIgnorePatterns {
		if ok, _ := doublestar.Match(pattern, candidate); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	for _, pattern := range w.extraIgnores {
		if ok, _ := doublestar.Match(pattern, candidate); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	if gi != nil && gi.MatchesPath(rel) {
		return true
	}
	return false
}

// isBinaryFile applies a NUL-byte / non-text-byte-ratio heuristic over the
// first binarySniffLen bytes, the same shape git and file(1) use.
func isBinaryFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, binarySniffLen)
	n, err := f.Read(buf)
	if n == 0 {
		return false, nil
	}
	buf = buf[:n]

	if bytes.IndexByte(buf, 0) >= 0 {
		return true, nil
	}

	nonText := 0
	for _, b := range buf {
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 || b == 0x7f {
			nonText++
		}
	}
	return float64(nonText)/float64(len(buf)) > 0.30, nil
}

// ReadFile is a convenience wrapper kept for callers that only need raw
// bytes after Discover has already filtered a path.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
