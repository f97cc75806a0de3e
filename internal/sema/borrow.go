package sema

import (
	"fmt"

	"fortio.org/safecast"

	"rill/internal/ast"
	"rill/internal/source"
	"rill/internal/symbols"
)

// BorrowID identifies an active borrow entry.
type BorrowID uint32

// NoBorrowID marks the absence of a borrow.
const NoBorrowID BorrowID = 0

// BorrowKind differentiates shared vs mutable borrows.
type BorrowKind uint8

const (
	BorrowShared BorrowKind = iota
	BorrowMut
)

func (k BorrowKind) String() string {
	if k == BorrowMut {
		return "mutable"
	}
	return "shared"
}

// Place describes an addressable location participating in borrows.
// Bindings are the only addressable granularity: borrowing an element or a
// range of a list freezes the whole binding.
type Place struct {
	Base symbols.SymbolID
}

func (p Place) IsValid() bool {
	return p.Base.IsValid()
}

// BorrowInfo stores metadata about each borrow.
type BorrowInfo struct {
	ID    BorrowID
	Kind  BorrowKind
	Place Place
	Span  source.Span
	// Scope whose end releases the borrow.
	Scope symbols.ScopeID
}

type borrowState struct {
	shared []BorrowID
	mut    BorrowID
}

// BorrowIssueKind enumerates reasons a borrow-related action fails.
type BorrowIssueKind uint8

const (
	BorrowIssueNone BorrowIssueKind = iota
	// BorrowIssueConflictShared: a shared borrow blocks the action.
	BorrowIssueConflictShared
	// BorrowIssueConflictMut: a mutable borrow blocks the action.
	BorrowIssueConflictMut
)

// BorrowIssue carries information about a conflict.
type BorrowIssue struct {
	Kind   BorrowIssueKind
	Borrow BorrowID
}

func (i BorrowIssue) OK() bool { return i.Kind == BorrowIssueNone }

// BorrowTable tracks active borrows and per-place state during the walk of
// one function body.
type BorrowTable struct {
	infos        []BorrowInfo
	placeState   map[Place]borrowState
	exprBorrow   map[ast.ExprID]BorrowID
	scopeBorrows map[symbols.ScopeID][]BorrowID
}

func NewBorrowTable() *BorrowTable {
	return &BorrowTable{
		infos:        []BorrowInfo{{}}, // index 0 is the sentinel
		placeState:   make(map[Place]borrowState),
		exprBorrow:   make(map[ast.ExprID]BorrowID),
		scopeBorrows: make(map[symbols.ScopeID][]BorrowID),
	}
}

// Begin registers a borrow originating from expr, released when scope ends.
// On conflict the borrow is not recorded and the issue names the holder.
func (bt *BorrowTable) Begin(expr ast.ExprID, span source.Span, kind BorrowKind, place Place, scope symbols.ScopeID) (BorrowID, BorrowIssue) {
	if bt == nil || !place.IsValid() || !scope.IsValid() {
		return NoBorrowID, BorrowIssue{}
	}
	state := bt.placeState[place]
	switch kind {
	case BorrowShared:
		if state.mut != NoBorrowID {
			return NoBorrowID, BorrowIssue{Kind: BorrowIssueConflictMut, Borrow: state.mut}
		}
	case BorrowMut:
		if len(state.shared) > 0 {
			return NoBorrowID, BorrowIssue{Kind: BorrowIssueConflictShared, Borrow: state.shared[0]}
		}
		if state.mut != NoBorrowID {
			return NoBorrowID, BorrowIssue{Kind: BorrowIssueConflictMut, Borrow: state.mut}
		}
	}
	value, err := safecast.Conv[uint32](len(bt.infos))
	if err != nil {
		panic(fmt.Errorf("borrow table overflow: %w", err))
	}
	id := BorrowID(value)
	bt.infos = append(bt.infos, BorrowInfo{
		ID:    id,
		Kind:  kind,
		Place: place,
		Span:  span,
		Scope: scope,
	})
	switch kind {
	case BorrowShared:
		state.shared = append(state.shared, id)
	case BorrowMut:
		state.mut = id
	}
	bt.placeState[place] = state
	if expr.IsValid() {
		bt.exprBorrow[expr] = id
	}
	bt.scopeBorrows[scope] = append(bt.scopeBorrows[scope], id)
	return id, BorrowIssue{}
}

// MutationAllowed verifies whether the place can be written to.
func (bt *BorrowTable) MutationAllowed(place Place) BorrowIssue {
	return bt.exclusiveAccess(place)
}

// MoveAllowed verifies whether the place can be moved from.
func (bt *BorrowTable) MoveAllowed(place Place) BorrowIssue {
	return bt.exclusiveAccess(place)
}

// ReadAllowed verifies the place can be read. A live mutable borrow blocks
// every other access, shared borrows do not.
func (bt *BorrowTable) ReadAllowed(place Place) BorrowIssue {
	if bt == nil || !place.IsValid() {
		return BorrowIssue{}
	}
	state, ok := bt.placeState[place]
	if !ok {
		return BorrowIssue{}
	}
	if state.mut != NoBorrowID {
		return BorrowIssue{Kind: BorrowIssueConflictMut, Borrow: state.mut}
	}
	return BorrowIssue{}
}

func (bt *BorrowTable) exclusiveAccess(place Place) BorrowIssue {
	if bt == nil || !place.IsValid() {
		return BorrowIssue{}
	}
	state, ok := bt.placeState[place]
	if !ok {
		return BorrowIssue{}
	}
	if len(state.shared) > 0 {
		return BorrowIssue{Kind: BorrowIssueConflictShared, Borrow: state.shared[0]}
	}
	if state.mut != NoBorrowID {
		return BorrowIssue{Kind: BorrowIssueConflictMut, Borrow: state.mut}
	}
	return BorrowIssue{}
}

// Release drops one borrow before its scope ends. Used for temporaries that
// do not outlive the statement that created them.
func (bt *BorrowTable) Release(id BorrowID) {
	info := bt.Info(id)
	if info == nil {
		return
	}
	bt.expire(info)
	bt.scopeBorrows[info.Scope] = dropBorrowID(bt.scopeBorrows[info.Scope], id)
}

// EndScope expires all borrows whose lexical lifetime ends at scope.
func (bt *BorrowTable) EndScope(scope symbols.ScopeID) {
	if bt == nil || !scope.IsValid() {
		return
	}
	for _, id := range bt.scopeBorrows[scope] {
		if info := bt.Info(id); info != nil {
			bt.expire(info)
		}
	}
	delete(bt.scopeBorrows, scope)
}

func (bt *BorrowTable) expire(info *BorrowInfo) {
	state := bt.placeState[info.Place]
	switch info.Kind {
	case BorrowShared:
		state.shared = dropBorrowID(state.shared, info.ID)
	case BorrowMut:
		if state.mut == info.ID {
			state.mut = NoBorrowID
		}
	}
	if len(state.shared) == 0 && state.mut == NoBorrowID {
		delete(bt.placeState, info.Place)
	} else {
		bt.placeState[info.Place] = state
	}
}

// Info returns metadata for the borrow.
func (bt *BorrowTable) Info(id BorrowID) *BorrowInfo {
	if bt == nil || id == NoBorrowID || int(id) >= len(bt.infos) {
		return nil
	}
	return &bt.infos[id]
}

// ExprBorrow returns the borrow created by an expression, if any.
func (bt *BorrowTable) ExprBorrow(id ast.ExprID) BorrowID {
	if bt == nil {
		return NoBorrowID
	}
	return bt.exprBorrow[id]
}

func dropBorrowID(ids []BorrowID, target BorrowID) []BorrowID {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
