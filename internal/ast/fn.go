package ast

import (
	"rill/internal/source"
)

// FnParam is one parameter declaration. Ownership of the argument transfers
// into the function unless Type is a reference type.
type FnParam struct {
	Name     source.StringID
	Type     TypeID
	IsMut    bool
	Span     source.Span
	NameSpan source.Span
}

// FnItem is a function declaration.
type FnItem struct {
	Name     source.StringID
	Params   []FnParamID
	Result   TypeID // NoTypeID for unit
	Body     StmtID // a StmtBlock; NoStmtID for a declaration without body
	Span     source.Span
	NameSpan source.Span
}

// NewFn allocates a function item and returns its ID.
func (i *Items) NewFn(
	name source.StringID,
	params []FnParamID,
	result TypeID,
	body StmtID,
	span source.Span,
	nameSpan source.Span,
) ItemID {
	payload := i.Fns.Allocate(FnItem{
		Name:     name,
		Params:   params,
		Result:   result,
		Body:     body,
		Span:     span,
		NameSpan: nameSpan,
	})
	return ItemID(i.Arena.Allocate(Item{
		Kind:    ItemFn,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Fn returns the function payload for the given item ID.
func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

// NewParam allocates a parameter record.
func (i *Items) NewParam(name source.StringID, typ TypeID, isMut bool, span, nameSpan source.Span) FnParamID {
	return FnParamID(i.Params.Allocate(FnParam{
		Name:     name,
		Type:     typ,
		IsMut:    isMut,
		Span:     span,
		NameSpan: nameSpan,
	}))
}

// Param returns the parameter record for the given ID.
func (i *Items) Param(id FnParamID) *FnParam {
	return i.Params.Get(uint32(id))
}
