package ast

import (
	"rill/internal/source"
)

// Exprs owns all expression records for one file.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[IdentExpr]
	Lits     *Arena[LitExpr]
	Unaries  *Arena[UnaryExpr]
	Binaries *Arena[BinaryExpr]
	Assigns  *Arena[AssignExpr]
	Calls    *Arena[CallExpr]
	Indexes  *Arena[IndexExpr]
	Slices   *Arena[SliceExpr]
	Lists    *Arena[ListExpr]
	Tuples   *Arena[TupleExpr]
	Groups   *Arena[GroupExpr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[IdentExpr](capHint),
		Lits:     NewArena[LitExpr](capHint),
		Unaries:  NewArena[UnaryExpr](capHint),
		Binaries: NewArena[BinaryExpr](capHint),
		Assigns:  NewArena[AssignExpr](capHint),
		Calls:    NewArena[CallExpr](capHint),
		Indexes:  NewArena[IndexExpr](capHint),
		Slices:   NewArena[SliceExpr](capHint),
		Lists:    NewArena[ListExpr](capHint),
		Tuples:   NewArena[TupleExpr](capHint),
		Groups:   NewArena[GroupExpr](capHint),
	}
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) newExpr(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (e *Exprs) NewIdent(name source.StringID, span source.Span) ExprID {
	p := e.Idents.Allocate(IdentExpr{Name: name, Span: span})
	return e.newExpr(ExprIdent, span, p)
}

func (e *Exprs) NewLit(kind LitKind, text source.StringID, span source.Span) ExprID {
	p := e.Lits.Allocate(LitExpr{Kind: kind, Text: text, Span: span})
	return e.newExpr(ExprLit, span, p)
}

func (e *Exprs) NewUnary(op UnaryOp, operand ExprID, span source.Span) ExprID {
	p := e.Unaries.Allocate(UnaryExpr{Op: op, Operand: operand, Span: span})
	return e.newExpr(ExprUnary, span, p)
}

func (e *Exprs) NewBinary(op BinaryOp, left, right ExprID, span source.Span) ExprID {
	p := e.Binaries.Allocate(BinaryExpr{Op: op, Left: left, Right: right, Span: span})
	return e.newExpr(ExprBinary, span, p)
}

func (e *Exprs) NewAssign(target, value ExprID, span source.Span) ExprID {
	p := e.Assigns.Allocate(AssignExpr{Target: target, Value: value, Span: span})
	return e.newExpr(ExprAssign, span, p)
}

func (e *Exprs) NewCall(callee ExprID, args []ExprID, span source.Span) ExprID {
	p := e.Calls.Allocate(CallExpr{Callee: callee, Args: args, Span: span})
	return e.newExpr(ExprCall, span, p)
}

func (e *Exprs) NewIndex(target, index ExprID, span source.Span) ExprID {
	p := e.Indexes.Allocate(IndexExpr{Target: target, Index: index, Span: span})
	return e.newExpr(ExprIndex, span, p)
}

func (e *Exprs) NewSlice(target, lo, hi ExprID, span source.Span) ExprID {
	p := e.Slices.Allocate(SliceExpr{Target: target, Lo: lo, Hi: hi, Span: span})
	return e.newExpr(ExprSlice, span, p)
}

func (e *Exprs) NewList(elems []ExprID, span source.Span) ExprID {
	p := e.Lists.Allocate(ListExpr{Elems: elems, Span: span})
	return e.newExpr(ExprList, span, p)
}

func (e *Exprs) NewTuple(elems []ExprID, span source.Span) ExprID {
	p := e.Tuples.Allocate(TupleExpr{Elems: elems, Span: span})
	return e.newExpr(ExprTuple, span, p)
}

func (e *Exprs) NewGroup(inner ExprID, span source.Span) ExprID {
	p := e.Groups.Allocate(GroupExpr{Inner: inner, Span: span})
	return e.newExpr(ExprGroup, span, p)
}

func (e *Exprs) Ident(id ExprID) (*IdentExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Lit(id ExprID) (*LitExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprLit {
		return nil, false
	}
	return e.Lits.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Unary(id ExprID) (*UnaryExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Binary(id ExprID) (*BinaryExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Assign(id ExprID) (*AssignExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprAssign {
		return nil, false
	}
	return e.Assigns.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Call(id ExprID) (*CallExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Index(id ExprID) (*IndexExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprIndex {
		return nil, false
	}
	return e.Indexes.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Slice(id ExprID) (*SliceExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprSlice {
		return nil, false
	}
	return e.Slices.Get(uint32(ex.Payload)), true
}

func (e *Exprs) List(id ExprID) (*ListExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprList {
		return nil, false
	}
	return e.Lists.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Tuple(id ExprID) (*TupleExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprTuple {
		return nil, false
	}
	return e.Tuples.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Group(id ExprID) (*GroupExpr, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(ex.Payload)), true
}
