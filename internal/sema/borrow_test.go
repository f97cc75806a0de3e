package sema

import (
	"testing"

	"rill/internal/ast"
	"rill/internal/source"
	"rill/internal/symbols"
)

func TestBorrowSharedAliases(t *testing.T) {
	bt := NewBorrowTable()
	place := Place{Base: symbols.SymbolID(1)}
	scope := symbols.ScopeID(1)

	id1, issue := bt.Begin(ast.ExprID(1), source.Span{}, BorrowShared, place, scope)
	if !issue.OK() || id1 == NoBorrowID {
		t.Fatalf("first shared borrow failed: %+v", issue)
	}
	id2, issue := bt.Begin(ast.ExprID(2), source.Span{}, BorrowShared, place, scope)
	if !issue.OK() || id2 == NoBorrowID {
		t.Fatalf("second shared borrow failed: %+v", issue)
	}
	if issue := bt.ReadAllowed(place); !issue.OK() {
		t.Errorf("read blocked by shared borrows: %+v", issue)
	}
	if issue := bt.MoveAllowed(place); issue.Kind != BorrowIssueConflictShared {
		t.Errorf("move allowed under shared borrow: %+v", issue)
	}
	if issue := bt.MutationAllowed(place); issue.Kind != BorrowIssueConflictShared {
		t.Errorf("mutation allowed under shared borrow: %+v", issue)
	}
}

func TestBorrowMutIsExclusive(t *testing.T) {
	bt := NewBorrowTable()
	place := Place{Base: symbols.SymbolID(1)}
	scope := symbols.ScopeID(1)

	if _, issue := bt.Begin(ast.ExprID(1), source.Span{}, BorrowMut, place, scope); !issue.OK() {
		t.Fatalf("first mutable borrow failed: %+v", issue)
	}
	if _, issue := bt.Begin(ast.ExprID(2), source.Span{}, BorrowMut, place, scope); issue.Kind != BorrowIssueConflictMut {
		t.Errorf("second mutable borrow allowed: %+v", issue)
	}
	if _, issue := bt.Begin(ast.ExprID(3), source.Span{}, BorrowShared, place, scope); issue.Kind != BorrowIssueConflictMut {
		t.Errorf("shared borrow allowed under mutable: %+v", issue)
	}
	if issue := bt.ReadAllowed(place); issue.Kind != BorrowIssueConflictMut {
		t.Errorf("read allowed under mutable borrow: %+v", issue)
	}
}

func TestBorrowEndScopeReleases(t *testing.T) {
	bt := NewBorrowTable()
	place := Place{Base: symbols.SymbolID(1)}
	inner := symbols.ScopeID(2)

	if _, issue := bt.Begin(ast.ExprID(1), source.Span{}, BorrowMut, place, inner); !issue.OK() {
		t.Fatalf("borrow failed: %+v", issue)
	}
	bt.EndScope(inner)
	if issue := bt.MutationAllowed(place); !issue.OK() {
		t.Errorf("place still frozen after scope end: %+v", issue)
	}
	if _, issue := bt.Begin(ast.ExprID(2), source.Span{}, BorrowMut, place, inner); !issue.OK() {
		t.Errorf("cannot re-borrow after scope end: %+v", issue)
	}
}

func TestBorrowRelease(t *testing.T) {
	bt := NewBorrowTable()
	place := Place{Base: symbols.SymbolID(1)}
	scope := symbols.ScopeID(1)

	id, _ := bt.Begin(ast.ExprID(1), source.Span{}, BorrowShared, place, scope)
	bt.Release(id)
	if issue := bt.MoveAllowed(place); !issue.OK() {
		t.Errorf("place frozen after release: %+v", issue)
	}
	// Ending the scope later must not corrupt state.
	bt.EndScope(scope)
	if issue := bt.MoveAllowed(place); !issue.OK() {
		t.Errorf("state corrupted by EndScope after Release: %+v", issue)
	}
}

func TestBorrowExprLookup(t *testing.T) {
	bt := NewBorrowTable()
	place := Place{Base: symbols.SymbolID(1)}
	id, _ := bt.Begin(ast.ExprID(7), source.Span{Start: 3, End: 9}, BorrowShared, place, symbols.ScopeID(1))

	if got := bt.ExprBorrow(ast.ExprID(7)); got != id {
		t.Errorf("ExprBorrow = %d, want %d", got, id)
	}
	info := bt.Info(id)
	if info == nil || info.Place != place || info.Span.Start != 3 {
		t.Errorf("Info = %+v", info)
	}
	if bt.Info(NoBorrowID) != nil {
		t.Error("Info(sentinel) != nil")
	}
}
