package ast

import (
	"rill/internal/source"
)

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtLet
	StmtExpr
	StmtReturn
)

// Stmt is the header record; the per-kind data lives in its payload arena.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
	Span  source.Span
}

// LetStmt binds a new value: `let [mut] name[: Type] = init;`.
type LetStmt struct {
	Name     source.StringID
	IsMut    bool
	Type     TypeID // NoTypeID when inferred
	Init     ExprID
	Span     source.Span
	NameSpan source.Span
}

type ExprStmt struct {
	Expr ExprID
	Span source.Span
}

type ReturnStmt struct {
	Value ExprID // NoExprID for bare `return;`
	Span  source.Span
}

// Stmts owns all statement records for one file.
type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[BlockStmt]
	Lets    *Arena[LetStmt]
	Express *Arena[ExprStmt]
	Returns *Arena[ReturnStmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[BlockStmt](capHint),
		Lets:    NewArena[LetStmt](capHint),
		Express: NewArena[ExprStmt](capHint),
		Returns: NewArena[ReturnStmt](capHint),
	}
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) newStmt(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (s *Stmts) NewBlock(stmts []StmtID, span source.Span) StmtID {
	p := s.Blocks.Allocate(BlockStmt{Stmts: stmts, Span: span})
	return s.newStmt(StmtBlock, span, p)
}

func (s *Stmts) NewLet(name source.StringID, isMut bool, typ TypeID, init ExprID, span, nameSpan source.Span) StmtID {
	p := s.Lets.Allocate(LetStmt{
		Name:     name,
		IsMut:    isMut,
		Type:     typ,
		Init:     init,
		Span:     span,
		NameSpan: nameSpan,
	})
	return s.newStmt(StmtLet, span, p)
}

func (s *Stmts) NewExpr(expr ExprID, span source.Span) StmtID {
	p := s.Express.Allocate(ExprStmt{Expr: expr, Span: span})
	return s.newStmt(StmtExpr, span, p)
}

func (s *Stmts) NewReturn(value ExprID, span source.Span) StmtID {
	p := s.Returns.Allocate(ReturnStmt{Value: value, Span: span})
	return s.newStmt(StmtReturn, span, p)
}

func (s *Stmts) Block(id StmtID) (*BlockStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil, false
	}
	return s.Blocks.Get(uint32(st.Payload)), true
}

func (s *Stmts) Let(id StmtID) (*LetStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLet {
		return nil, false
	}
	return s.Lets.Get(uint32(st.Payload)), true
}

func (s *Stmts) Expr(id StmtID) (*ExprStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Express.Get(uint32(st.Payload)), true
}

func (s *Stmts) Return(id StmtID) (*ReturnStmt, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(st.Payload)), true
}
