package symbols

import (
	"rill/internal/source"
)

// Builtin function names available without declaration.
var builtinNames = []string{"print", "len", "clone", "push"}

// installPrelude declares the builtin functions in the prelude scope.
func installPrelude(t *Table, strings *source.Interner) {
	for _, name := range builtinNames {
		t.Declare(t.Prelude, Symbol{
			Name:  strings.Intern(name),
			Kind:  SymbolFunction,
			Flags: SymbolFlagBuiltin,
		})
	}
}
