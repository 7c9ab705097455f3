package languages

import (
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/chittiv1113/Oracle/internal/adapter/chunker"
	"github.com/chittiv1113/Oracle/internal/domain"
)

// RegisterTypeScript adds the TypeScript grammar to r.
func RegisterTypeScript(r *chunker.Registry) {
	r.Register(domain.GrammarRegistration{
		LanguageName: "typescript",
		Extensions:   []string{"ts", "tsx"},
		Language:     typescript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @func_name) @function
			(method_definition name: (property_identifier) @method_name) @method
			(class_declaration name: (type_identifier) @class_name) @class
			(variable_declarator
				name: (identifier) @func_name
				value: (arrow_function)) @function
		`,
	})
}
