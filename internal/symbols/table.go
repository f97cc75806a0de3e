package symbols

import (
	"rill/internal/ast"
	"rill/internal/source"
)

// Table owns every scope and symbol of one resolved file.
type Table struct {
	scopes  *ast.Arena[Scope]
	symbols *ast.Arena[Symbol]
	Prelude ScopeID
}

func NewTable() *Table {
	t := &Table{
		scopes:  ast.NewArena[Scope](16),
		symbols: ast.NewArena[Symbol](64),
	}
	t.Prelude = t.NewScope(ScopePrelude, NoScopeID, source.Span{})
	return t
}

func (t *Table) NewScope(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	id := ScopeID(t.scopes.Allocate(Scope{
		Kind:      kind,
		Parent:    parent,
		Span:      span,
		NameIndex: make(map[source.StringID]SymbolID, 4),
	}))
	if parent.IsValid() {
		p := t.Scope(parent)
		p.Children = append(p.Children, id)
	}
	return id
}

func (t *Table) Scope(id ScopeID) *Scope {
	return t.scopes.Get(uint32(id))
}

func (t *Table) Symbol(id SymbolID) *Symbol {
	return t.symbols.Get(uint32(id))
}

// Declare inserts a symbol into scope. A symbol with the same name shadows
// any earlier declaration in the same or an outer scope.
func (t *Table) Declare(scope ScopeID, sym Symbol) SymbolID {
	sym.Scope = scope
	id := SymbolID(t.symbols.Allocate(sym))
	s := t.Scope(scope)
	s.NameIndex[sym.Name] = id
	s.Symbols = append(s.Symbols, id)
	return id
}

// LookupLocal finds a name in scope itself, without walking parents.
func (t *Table) LookupLocal(scope ScopeID, name source.StringID) SymbolID {
	if s := t.Scope(scope); s != nil {
		if id, ok := s.NameIndex[name]; ok {
			return id
		}
	}
	return NoSymbolID
}

// Lookup walks the scope chain from scope to the prelude.
func (t *Table) Lookup(scope ScopeID, name source.StringID) SymbolID {
	for scope.IsValid() {
		if id := t.LookupLocal(scope, name); id.IsValid() {
			return id
		}
		scope = t.Scope(scope).Parent
	}
	return NoSymbolID
}
