package domain

import sitter "github.com/smacker/go-tree-sitter"

// GrammarRegistration binds a language to the Chunker: a parser artifact, a
// compiled tree-sitter query declaring the capture names the Chunker looks
// for, and the file extensions the language claims.
type GrammarRegistration struct {
	LanguageName string
	Extensions   []string
	Language     *sitter.Language
	Query        string
}
