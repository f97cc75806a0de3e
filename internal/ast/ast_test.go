package ast

import (
	"testing"

	"rill/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: source.FileID(1), Start: start, End: end}
}

func TestArenaSentinel(t *testing.T) {
	a := NewArena[int](4)
	if got := a.Get(0); got != nil {
		t.Fatalf("Get(0) = %v, want nil", got)
	}
	id := a.Allocate(42)
	if id != 1 {
		t.Fatalf("first Allocate = %d, want 1", id)
	}
	if got := a.Get(id); got == nil || *got != 42 {
		t.Fatalf("Get(%d) = %v, want 42", id, got)
	}
	if got := a.Get(2); got != nil {
		t.Fatalf("Get(out of range) = %v, want nil", got)
	}
}

func TestBuilderFnItem(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	fileID := b.NewFile(span(0, 100))

	name := b.Intern("main")
	pname := b.Intern("x")
	intTy := b.Types.NewName(b.Intern("int"), span(12, 15))
	param := b.Items.NewParam(pname, intTy, false, span(10, 15), span(10, 11))

	body := b.Stmts.NewBlock(nil, span(20, 22))
	item := b.Items.NewFn(name, []FnParamID{param}, NoTypeID, body, span(0, 22), span(3, 7))
	b.PushItem(fileID, item)

	f := b.Files.Get(fileID)
	if len(f.Items) != 1 || f.Items[0] != item {
		t.Fatalf("file items = %v, want [%d]", f.Items, item)
	}

	fn, ok := b.Items.Fn(item)
	if !ok {
		t.Fatalf("Fn(%d) not found", item)
	}
	if b.Lookup(fn.Name) != "main" {
		t.Errorf("fn name = %q, want main", b.Lookup(fn.Name))
	}
	if len(fn.Params) != 1 {
		t.Fatalf("params = %d, want 1", len(fn.Params))
	}
	p := b.Items.Param(fn.Params[0])
	if p == nil || b.Lookup(p.Name) != "x" {
		t.Errorf("param name mismatch: %+v", p)
	}
	if fn.Result.IsValid() {
		t.Errorf("result = %d, want unit (invalid ID)", fn.Result)
	}
	if _, ok := b.Stmts.Block(fn.Body); !ok {
		t.Errorf("body %d is not a block", fn.Body)
	}
}

func TestStmtAccessorsRejectWrongKind(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	ret := b.Stmts.NewReturn(NoExprID, span(0, 7))
	if _, ok := b.Stmts.Let(ret); ok {
		t.Error("Let() accepted a return statement")
	}
	if r, ok := b.Stmts.Return(ret); !ok || r.Value.IsValid() {
		t.Errorf("Return() = %+v, %v", r, ok)
	}
}

func TestExprConstruction(t *testing.T) {
	b := NewBuilder(Hints{}, nil)

	target := b.Exprs.NewIdent(b.Intern("items"), span(0, 5))
	lo := b.Exprs.NewLit(LitInt, b.Intern("1"), span(6, 7))
	hi := b.Exprs.NewLit(LitInt, b.Intern("3"), span(9, 10))
	sl := b.Exprs.NewSlice(target, lo, hi, span(0, 11))

	se, ok := b.Exprs.Slice(sl)
	if !ok {
		t.Fatal("Slice() not found")
	}
	if se.Target != target || se.Lo != lo || se.Hi != hi {
		t.Errorf("slice parts = %+v", se)
	}

	ref := b.Exprs.NewUnary(UnaryRefMut, target, span(0, 10))
	ue, ok := b.Exprs.Unary(ref)
	if !ok || ue.Op != UnaryRefMut {
		t.Errorf("unary = %+v, %v", ue, ok)
	}
	if ue.Op.String() != "&mut" {
		t.Errorf("op string = %q", ue.Op.String())
	}

	if _, ok := b.Exprs.Binary(sl); ok {
		t.Error("Binary() accepted a slice expression")
	}
}

func TestTypeSyntax(t *testing.T) {
	b := NewBuilder(Hints{}, nil)

	intTy := b.Types.NewName(b.Intern("int"), span(0, 3))
	listTy := b.Types.NewList(intTy, span(0, 5))
	refTy := b.Types.NewRef(listTy, true, span(0, 10))

	rt, ok := b.Types.Ref(refTy)
	if !ok || !rt.IsMut {
		t.Fatalf("ref = %+v, %v", rt, ok)
	}
	lt, ok := b.Types.List(rt.Inner)
	if !ok || lt.Elem != intTy {
		t.Fatalf("list = %+v, %v", lt, ok)
	}
	nt, ok := b.Types.Name(lt.Elem)
	if !ok || b.Lookup(nt.Name) != "int" {
		t.Fatalf("name = %+v, %v", nt, ok)
	}
}
