package ast

import (
	"rill/internal/source"
)

type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemFn
)

// Item is the header record for a top-level declaration; the kind-specific
// data lives in a payload arena.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Items manages allocation of top-level items.
type Items struct {
	Arena  *Arena[Item]
	Fns    *Arena[FnItem]
	Params *Arena[FnParam]
}

func NewItems(capHint uint) *Items {
	return &Items{
		Arena:  NewArena[Item](capHint),
		Fns:    NewArena[FnItem](capHint),
		Params: NewArena[FnParam](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}
