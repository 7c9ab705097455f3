package languages

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/chittiv1113/Oracle/internal/adapter/chunker"
	"github.com/chittiv1113/Oracle/internal/domain"
)

// RegisterJavaScript adds the JavaScript grammar to r.
func RegisterJavaScript(r *chunker.Registry) {
	r.Register(domain.GrammarRegistration{
		LanguageName: "javascript",
		Extensions:   []string{"js", "jsx", "mjs"},
		Language:     javascript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @func_name) @function
			(method_definition name: (property_identifier) @method_name) @method
			(class_declaration name: (identifier) @class_name) @class
			(variable_declarator
				name: (identifier) @func_name
				value: (arrow_function)) @function
			(variable_declarator
				name: (identifier) @func_name
				value: (function_expression)) @function
		`,
	})
}
