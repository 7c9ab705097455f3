package languages

import (
	"github.com/smacker/go-tree-sitter/python"

	"github.com/chittiv1113/Oracle/internal/adapter/chunker"
	"github.com/chittiv1113/Oracle/internal/domain"
)

// RegisterPython adds the Python grammar to r.
func RegisterPython(r *chunker.Registry) {
	r.Register(domain.GrammarRegistration{
		LanguageName: "python",
		Extensions:   []string{"py"},
		Language:     python.GetLanguage(),
		Query: `
			(module (function_definition name: (identifier) @func_name) @function)
			(class_definition
				name: (identifier) @class_name
				body: (block (function_definition name: (identifier) @method_name) @method))
			(class_definition name: (identifier) @class_name) @class
		`,
	})
}
