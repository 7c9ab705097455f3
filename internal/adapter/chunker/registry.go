// Package chunker implements the Chunker component: tree-sitter-based AST
// extraction of functions, classes, and methods, parameterized by Grammar
// Registrations, with a line-based fallback for unregistered extensions.
// Grounded on SloanGwaltney-synapse/internal/chunker/{registry,chunker}.go.
package chunker

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/chittiv1113/Oracle/internal/domain"
)

// Registry maps file extensions to Grammar Registrations.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]domain.GrammarRegistration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]domain.GrammarRegistration)}
}

// Register adds a Grammar Registration, indexing it by every extension it
// claims.
func (r *Registry) Register(reg domain.GrammarRegistration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range reg.Extensions {
		r.byExt[ext] = reg
	}
}

// Lookup returns the registration claiming path's extension, or false.
func (r *Registry) Lookup(path string) (domain.GrammarRegistration, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byExt[ext]
	return reg, ok
}

// All returns every distinct registration in the registry.
func (r *Registry) All() []domain.GrammarRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []domain.GrammarRegistration
	for _, reg := range r.byExt {
		if seen[reg.LanguageName] {
			continue
		}
		seen[reg.LanguageName] = true
		out = append(out, reg)
	}
	return out
}
