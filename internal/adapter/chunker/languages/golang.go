// Package languages registers one Grammar Registration per supported
// language, pairing a compiled tree-sitter grammar with a query that tags
// function, method, and class nodes via @func_name/@class_name/@method_name
// captures.
package languages

import (
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/chittiv1113/Oracle/internal/adapter/chunker"
	"github.com/chittiv1113/Oracle/internal/domain"
)

// RegisterGo adds the Go grammar to r.
func RegisterGo(r *chunker.Registry) {
	r.Register(domain.GrammarRegistration{
		LanguageName: "go",
		Extensions:   []string{"go"},
		Language:     golang.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @func_name) @function
			(method_declaration name: (field_identifier) @method_name) @method
			(type_spec name: (type_identifier) @class_name type: (struct_type)) @class
			(type_spec name: (type_identifier) @class_name type: (interface_type)) @class
		`,
	})
}
