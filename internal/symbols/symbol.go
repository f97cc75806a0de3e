package symbols

import (
	"rill/internal/ast"
	"rill/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolLet
	SymbolParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolLet:
		return "let"
	case SymbolParam:
		return "param"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagMutable SymbolFlags = 1 << iota
	SymbolFlagBuiltin
)

// SymbolDecl records the AST origin for diagnostics.
type SymbolDecl struct {
	Item  ast.ItemID
	Stmt  ast.StmtID
	Param ast.FnParamID
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Flags SymbolFlags
	Decl  SymbolDecl
}

func (s *Symbol) IsMutable() bool { return s.Flags&SymbolFlagMutable != 0 }
func (s *Symbol) IsBuiltin() bool { return s.Flags&SymbolFlagBuiltin != 0 }
