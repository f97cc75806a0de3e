package ast

import (
	"rill/internal/source"
)

// Syntactic types as written in the source. Resolution to semantic types
// happens in internal/types.

type TypeExprKind uint8

const (
	TypeExprInvalid TypeExprKind = iota
	TypeExprName    // int, string, ...
	TypeExprList    // [T]
	TypeExprTuple   // (T1, T2, ...)
	TypeExprRef     // &T / &mut T
	TypeExprUnit    // ()
)

type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Payload PayloadID
}

type NameType struct {
	Name source.StringID
	Span source.Span
}

type ListType struct {
	Elem TypeID
	Span source.Span
}

type TupleType struct {
	Elems []TypeID
	Span  source.Span
}

type RefType struct {
	Inner TypeID
	IsMut bool
	Span  source.Span
}

// Types owns all syntactic type records for one file.
type Types struct {
	Arena  *Arena[TypeExpr]
	Names  *Arena[NameType]
	Lists  *Arena[ListType]
	Tuples *Arena[TupleType]
	Refs   *Arena[RefType]
}

func NewTypes(capHint uint) *Types {
	return &Types{
		Arena:  NewArena[TypeExpr](capHint),
		Names:  NewArena[NameType](capHint),
		Lists:  NewArena[ListType](capHint),
		Tuples: NewArena[TupleType](capHint),
		Refs:   NewArena[RefType](capHint),
	}
}

func (t *Types) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *Types) newType(kind TypeExprKind, span source.Span, payload uint32) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (t *Types) NewName(name source.StringID, span source.Span) TypeID {
	p := t.Names.Allocate(NameType{Name: name, Span: span})
	return t.newType(TypeExprName, span, p)
}

func (t *Types) NewList(elem TypeID, span source.Span) TypeID {
	p := t.Lists.Allocate(ListType{Elem: elem, Span: span})
	return t.newType(TypeExprList, span, p)
}

func (t *Types) NewTuple(elems []TypeID, span source.Span) TypeID {
	p := t.Tuples.Allocate(TupleType{Elems: elems, Span: span})
	return t.newType(TypeExprTuple, span, p)
}

func (t *Types) NewRef(inner TypeID, isMut bool, span source.Span) TypeID {
	p := t.Refs.Allocate(RefType{Inner: inner, IsMut: isMut, Span: span})
	return t.newType(TypeExprRef, span, p)
}

func (t *Types) NewUnit(span source.Span) TypeID {
	return t.newType(TypeExprUnit, span, 0)
}

func (t *Types) Name(id TypeID) (*NameType, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprName {
		return nil, false
	}
	return t.Names.Get(uint32(te.Payload)), true
}

func (t *Types) List(id TypeID) (*ListType, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprList {
		return nil, false
	}
	return t.Lists.Get(uint32(te.Payload)), true
}

func (t *Types) Tuple(id TypeID) (*TupleType, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprTuple {
		return nil, false
	}
	return t.Tuples.Get(uint32(te.Payload)), true
}

func (t *Types) Ref(id TypeID) (*RefType, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprRef {
		return nil, false
	}
	return t.Refs.Get(uint32(te.Payload)), true
}
