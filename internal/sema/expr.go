package sema

import (
	"fmt"
	"strconv"

	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/source"
	"rill/internal/symbols"
	"rill/internal/types"
)

// useMode distinguishes consuming uses from inspecting ones.
type useMode uint8

const (
	// useValue consumes the value: a non-copy type is moved out.
	useValue useMode = iota
	// useRead inspects the value without taking ownership.
	useRead
)

func (c *checker) checkExpr(exprID ast.ExprID, mode useMode) types.TypeID {
	if !exprID.IsValid() {
		return types.NoTypeID
	}
	ty := c.checkExprInner(exprID, mode)
	c.info.ExprTypes[exprID] = ty
	return ty
}

func (c *checker) checkExprInner(exprID ast.ExprID, mode useMode) types.TypeID {
	b := c.tyi.Builtins()
	expr := c.arenas.Exprs.Get(exprID)
	switch expr.Kind {
	case ast.ExprIdent:
		return c.checkIdentUse(exprID, mode)

	case ast.ExprLit:
		lit, _ := c.arenas.Exprs.Lit(exprID)
		switch lit.Kind {
		case ast.LitInt:
			return b.Int
		case ast.LitFloat:
			return b.Float
		case ast.LitChar:
			return b.Char
		case ast.LitString:
			return b.String
		case ast.LitBool:
			return b.Bool
		}
		return types.NoTypeID

	case ast.ExprUnary:
		return c.checkUnary(exprID)

	case ast.ExprBinary:
		return c.checkBinary(exprID)

	case ast.ExprAssign:
		return c.checkAssign(exprID)

	case ast.ExprCall:
		return c.checkCall(exprID)

	case ast.ExprIndex:
		return c.checkIndex(exprID)

	case ast.ExprSlice:
		return c.checkSlice(exprID)

	case ast.ExprList:
		l, _ := c.arenas.Exprs.List(exprID)
		elem := types.NoTypeID
		for _, e := range l.Elems {
			et := c.checkExpr(e, useValue)
			if elem == types.NoTypeID {
				elem = et
			} else if et != types.NoTypeID && et != elem {
				c.errAt(diag.SemTypeMismatch, c.arenas.Exprs.Get(e).Span,
					fmt.Sprintf("list element is '%s' but earlier elements are '%s'",
						c.tyi.Format(et), c.tyi.Format(elem)))
			}
		}
		if elem == types.NoTypeID {
			elem = b.Int // []: nothing to infer from, default the way literals do
		}
		return c.tyi.Intern(types.MakeList(elem))

	case ast.ExprTuple:
		tp, _ := c.arenas.Exprs.Tuple(exprID)
		if len(tp.Elems) == 0 {
			return b.Unit
		}
		elems := make([]types.TypeID, len(tp.Elems))
		for i, e := range tp.Elems {
			elems[i] = c.checkExpr(e, useValue)
		}
		return c.tyi.InternTuple(elems)

	case ast.ExprGroup:
		g, _ := c.arenas.Exprs.Group(exprID)
		return c.checkExpr(g.Inner, mode)
	}
	return types.NoTypeID
}

// checkIdentUse applies the move discipline to a name use.
func (c *checker) checkIdentUse(exprID ast.ExprID, mode useMode) types.TypeID {
	symID, ok := c.res.ExprUse[exprID]
	if !ok {
		return types.NoTypeID
	}
	sym := c.res.Table.Symbol(symID)
	if sym.Kind == symbols.SymbolFunction {
		return types.NoTypeID // callee position handles functions
	}
	sp := c.arenas.Exprs.Get(exprID).Span
	ty := c.info.SymTypes[symID]

	if movedAt, dead := c.moved[symID]; dead {
		c.noteAt(diag.OwnUseAfterMove, sp,
			fmt.Sprintf("use of '%s' after it was moved", c.symName(symID)),
			[]diag.Note{{Span: movedAt, Msg: "value moved here"}})
		return ty
	}

	place := Place{Base: symID}
	if mode == useValue && !c.tyi.IsCopy(ty) {
		if issue := c.info.Borrows.MoveAllowed(place); !issue.OK() {
			c.reportBorrowConflict(sp, symID, issue,
				fmt.Sprintf("cannot move out of '%s' while it is borrowed", c.symName(symID)))
			return ty
		}
		c.moved[symID] = sp
		delete(c.lengths, symID)
		return ty
	}
	if issue := c.info.Borrows.ReadAllowed(place); !issue.OK() {
		c.reportBorrowConflict(sp, symID, issue,
			fmt.Sprintf("cannot use '%s' while it is mutably borrowed", c.symName(symID)))
	}
	return ty
}

func (c *checker) reportBorrowConflict(sp source.Span, sym symbols.SymbolID, issue BorrowIssue, msg string) {
	code := diag.OwnAliasConflict
	var notes []diag.Note
	if info := c.info.Borrows.Info(issue.Borrow); info != nil {
		notes = []diag.Note{{Span: info.Span, Msg: fmt.Sprintf("%s borrow taken here", info.Kind)}}
	}
	c.noteAt(code, sp, msg, notes)
}

func (c *checker) checkUnary(exprID ast.ExprID) types.TypeID {
	u, _ := c.arenas.Exprs.Unary(exprID)
	b := c.tyi.Builtins()
	switch u.Op {
	case ast.UnaryNeg:
		ot := c.checkExpr(u.Operand, useValue)
		if ot != types.NoTypeID && ot != b.Int && ot != b.Float {
			c.errAt(diag.SemTypeMismatch, u.Span,
				fmt.Sprintf("cannot negate '%s'", c.tyi.Format(ot)))
		}
		return ot
	case ast.UnaryNot:
		ot := c.checkExpr(u.Operand, useValue)
		if ot != types.NoTypeID && ot != b.Bool {
			c.errAt(diag.SemTypeMismatch, u.Span,
				fmt.Sprintf("'!' needs 'bool', got '%s'", c.tyi.Format(ot)))
		}
		return b.Bool
	case ast.UnaryRef, ast.UnaryRefMut:
		return c.checkBorrow(exprID, u)
	case ast.UnaryDeref:
		ot := c.checkExpr(u.Operand, useRead)
		t, ok := c.tyi.Lookup(ot)
		if !ok || t.Kind != types.KindRef {
			if ot != types.NoTypeID {
				c.errAt(diag.SemTypeMismatch, u.Span,
					fmt.Sprintf("cannot dereference '%s'", c.tyi.Format(ot)))
			}
			return types.NoTypeID
		}
		return t.Elem
	}
	return types.NoTypeID
}

// checkBorrow handles &place and &mut place.
func (c *checker) checkBorrow(exprID ast.ExprID, u *ast.UnaryExpr) types.TypeID {
	operand := c.unwrapGroup(u.Operand)
	symID := c.placeBase(operand)
	if !symID.IsValid() {
		c.errAt(diag.SemBorrowNonPlace, u.Span, "can only borrow a named binding")
		c.checkExpr(u.Operand, useRead)
		return types.NoTypeID
	}
	ot := c.checkExpr(u.Operand, useRead)
	sym := c.res.Table.Symbol(symID)
	sp := u.Span

	if movedAt, dead := c.moved[symID]; dead {
		c.noteAt(diag.OwnUseAfterMove, sp,
			fmt.Sprintf("borrow of '%s' after it was moved", c.symName(symID)),
			[]diag.Note{{Span: movedAt, Msg: "value moved here"}})
		return types.NoTypeID
	}

	kind := BorrowShared
	if u.Op == ast.UnaryRefMut {
		kind = BorrowMut
		if !sym.IsMutable() && !c.isMutRefBinding(symID) {
			c.errAt(diag.SemBorrowImmutable, sp,
				fmt.Sprintf("cannot borrow '%s' as mutable: it is not declared 'mut'", c.symName(symID)))
			return types.NoTypeID
		}
		// Taking &mut invalidates any statically known length.
		delete(c.lengths, symID)
	}

	id, issue := c.info.Borrows.Begin(exprID, sp, kind, Place{Base: symID}, c.curScope)
	if !issue.OK() {
		code := diag.OwnAliasConflict
		msg := fmt.Sprintf("cannot borrow '%s': it is already borrowed", c.symName(symID))
		if kind == BorrowMut && issue.Kind == BorrowIssueConflictMut {
			code = diag.OwnDoubleMutBorrow
			msg = fmt.Sprintf("cannot borrow '%s' as mutable a second time", c.symName(symID))
		}
		var notes []diag.Note
		if info := c.info.Borrows.Info(issue.Borrow); info != nil {
			notes = []diag.Note{{Span: info.Span, Msg: fmt.Sprintf("%s borrow taken here", info.Kind)}}
		}
		c.noteAt(code, sp, msg, notes)
		return types.NoTypeID
	}
	c.stmtBorrows = append(c.stmtBorrows, id)
	return c.tyi.Intern(types.MakeRef(ot, kind == BorrowMut))
}

// isMutRefBinding reports whether the symbol holds a &mut, which may itself
// be re-borrowed mutably.
func (c *checker) isMutRefBinding(symID symbols.SymbolID) bool {
	t, ok := c.tyi.Lookup(c.info.SymTypes[symID])
	return ok && t.Kind == types.KindRef && t.Mutable
}

// placeBase returns the binding an addressable expression roots in, or
// NoSymbolID for temporaries.
func (c *checker) placeBase(exprID ast.ExprID) symbols.SymbolID {
	exprID = c.unwrapGroup(exprID)
	expr := c.arenas.Exprs.Get(exprID)
	if expr == nil {
		return symbols.NoSymbolID
	}
	switch expr.Kind {
	case ast.ExprIdent:
		if sym, ok := c.res.ExprUse[exprID]; ok {
			k := c.res.Table.Symbol(sym).Kind
			if k == symbols.SymbolLet || k == symbols.SymbolParam {
				return sym
			}
		}
	case ast.ExprIndex:
		ix, _ := c.arenas.Exprs.Index(exprID)
		return c.placeBase(ix.Target)
	case ast.ExprSlice:
		sl, _ := c.arenas.Exprs.Slice(exprID)
		return c.placeBase(sl.Target)
	case ast.ExprUnary:
		u, _ := c.arenas.Exprs.Unary(exprID)
		switch u.Op {
		case ast.UnaryDeref, ast.UnaryRef, ast.UnaryRefMut:
			return c.placeBase(u.Operand)
		}
	}
	return symbols.NoSymbolID
}

func (c *checker) checkBinary(exprID ast.ExprID) types.TypeID {
	bin, _ := c.arenas.Exprs.Binary(exprID)
	b := c.tyi.Builtins()
	// Comparisons inspect their operands; arithmetic consumes them, so
	// string concatenation moves both sides.
	mode := useValue
	switch bin.Op {
	case ast.BinaryEq, ast.BinaryNe, ast.BinaryLt, ast.BinaryLe, ast.BinaryGt, ast.BinaryGe:
		mode = useRead
	}
	lt := c.checkExpr(bin.Left, mode)
	rt := c.checkExpr(bin.Right, mode)
	if lt == types.NoTypeID || rt == types.NoTypeID {
		switch bin.Op {
		case ast.BinaryEq, ast.BinaryNe, ast.BinaryLt, ast.BinaryLe, ast.BinaryGt, ast.BinaryGe, ast.BinaryAnd, ast.BinaryOr:
			return b.Bool
		}
		return types.NoTypeID
	}
	mismatch := func() {
		c.errAt(diag.SemTypeMismatch, bin.Span,
			fmt.Sprintf("operator '%s' cannot combine '%s' and '%s'",
				bin.Op, c.tyi.Format(lt), c.tyi.Format(rt)))
	}
	switch bin.Op {
	case ast.BinaryAdd:
		if lt != rt || (lt != b.Int && lt != b.Uint && lt != b.Float && lt != b.String) {
			mismatch()
			return types.NoTypeID
		}
		return lt
	case ast.BinarySub, ast.BinaryMul, ast.BinaryDiv, ast.BinaryRem:
		if lt != rt || (lt != b.Int && lt != b.Uint && lt != b.Float) {
			mismatch()
			return types.NoTypeID
		}
		return lt
	case ast.BinaryEq, ast.BinaryNe:
		if lt != rt {
			mismatch()
		}
		return b.Bool
	case ast.BinaryLt, ast.BinaryLe, ast.BinaryGt, ast.BinaryGe:
		if lt != rt || (lt != b.Int && lt != b.Uint && lt != b.Float && lt != b.Char && lt != b.String) {
			mismatch()
		}
		return b.Bool
	case ast.BinaryAnd, ast.BinaryOr:
		if lt != b.Bool || rt != b.Bool {
			mismatch()
		}
		return b.Bool
	}
	return types.NoTypeID
}

func (c *checker) checkAssign(exprID ast.ExprID) types.TypeID {
	as, _ := c.arenas.Exprs.Assign(exprID)
	b := c.tyi.Builtins()
	target := c.unwrapGroup(as.Target)
	texpr := c.arenas.Exprs.Get(target)

	vt := c.checkExpr(as.Value, useValue)

	switch texpr.Kind {
	case ast.ExprIdent:
		symID, ok := c.res.ExprUse[target]
		if !ok {
			return b.Unit
		}
		sym := c.res.Table.Symbol(symID)
		if !sym.IsMutable() {
			c.errAt(diag.SemAssignImmutable, texpr.Span,
				fmt.Sprintf("cannot assign to '%s': it is not declared 'mut'", c.symName(symID)))
			return b.Unit
		}
		if issue := c.info.Borrows.MutationAllowed(Place{Base: symID}); !issue.OK() {
			c.reportBorrowConflict(texpr.Span, symID, issue,
				fmt.Sprintf("cannot assign to '%s' while it is borrowed", c.symName(symID)))
			return b.Unit
		}
		st := c.info.SymTypes[symID]
		if st != types.NoTypeID && vt != types.NoTypeID && st != vt {
			c.errAt(diag.SemTypeMismatch, as.Span,
				fmt.Sprintf("cannot assign '%s' to binding of type '%s'",
					c.tyi.Format(vt), c.tyi.Format(st)))
		}
		// Assignment re-initializes a moved-out binding.
		delete(c.moved, symID)
		delete(c.lengths, symID)
		if n, ok := c.staticLen(as.Value); ok {
			c.lengths[symID] = n
		}
		// A reference stored into a longer-lived binding must not outlive
		// what it borrows.
		if c.tyi.IsRef(st) || c.tyi.IsRef(vt) {
			if base := c.refRoot(as.Value); base.IsValid() {
				c.refOrigin[symID] = base
				borrowed := c.res.Table.Symbol(base)
				if c.scopeOutlives(sym.Scope, borrowed.Scope) {
					c.noteAt(diag.OwnDanglingRef, as.Span,
						fmt.Sprintf("'%s' does not live long enough to be stored in '%s'",
							c.symName(base), c.symName(symID)),
						[]diag.Note{{Span: borrowed.Span, Msg: fmt.Sprintf("'%s' declared here", c.symName(base))}})
				}
			}
		}
		c.info.ExprTypes[target] = st
		return b.Unit

	case ast.ExprIndex:
		ix, _ := c.arenas.Exprs.Index(target)
		tt := c.checkIndexTargetForWrite(ix)
		c.checkExpr(ix.Index, useValue)
		c.info.ExprTypes[target] = tt
		if tt != types.NoTypeID && vt != types.NoTypeID && tt != vt {
			c.errAt(diag.SemTypeMismatch, as.Span,
				fmt.Sprintf("cannot store '%s' into element of type '%s'",
					c.tyi.Format(vt), c.tyi.Format(tt)))
		}
		return b.Unit

	case ast.ExprUnary:
		u, _ := c.arenas.Exprs.Unary(target)
		if u.Op == ast.UnaryDeref {
			ot := c.checkExpr(u.Operand, useRead)
			t, ok := c.tyi.Lookup(ot)
			if !ok || t.Kind != types.KindRef {
				c.errAt(diag.SemTypeMismatch, u.Span, "can only assign through a reference")
				return b.Unit
			}
			if !t.Mutable {
				c.errAt(diag.SemAssignImmutable, u.Span, "cannot assign through a shared reference")
				return b.Unit
			}
			c.info.ExprTypes[target] = t.Elem
			if t.Elem != types.NoTypeID && vt != types.NoTypeID && t.Elem != vt {
				c.errAt(diag.SemTypeMismatch, as.Span,
					fmt.Sprintf("cannot assign '%s' through '&mut %s'",
						c.tyi.Format(vt), c.tyi.Format(t.Elem)))
			}
			return b.Unit
		}
	}
	c.errAt(diag.SemAssignImmutable, texpr.Span, "left side of '=' is not assignable")
	return b.Unit
}

// checkIndexTargetForWrite validates `target[i] = v`: the base binding must
// be mutable and not frozen by borrows. Returns the element type.
func (c *checker) checkIndexTargetForWrite(ix *ast.IndexExpr) types.TypeID {
	tt := c.checkExpr(ix.Target, useRead)
	symID := c.placeBase(ix.Target)
	if symID.IsValid() {
		sym := c.res.Table.Symbol(symID)
		throughMutRef := c.isMutRefBinding(symID)
		if !sym.IsMutable() && !throughMutRef {
			c.errAt(diag.SemAssignImmutable, ix.Span,
				fmt.Sprintf("cannot write into '%s': it is not declared 'mut'", c.symName(symID)))
			return c.elemType(tt, ix.Span)
		}
		if !throughMutRef {
			if issue := c.info.Borrows.MutationAllowed(Place{Base: symID}); !issue.OK() {
				c.reportBorrowConflict(ix.Span, symID, issue,
					fmt.Sprintf("cannot write into '%s' while it is borrowed", c.symName(symID)))
			}
		}
	}
	return c.elemType(tt, ix.Span)
}

func (c *checker) elemType(tt types.TypeID, sp source.Span) types.TypeID {
	t, ok := c.tyi.Lookup(tt)
	if !ok {
		return types.NoTypeID
	}
	if t.Kind == types.KindRef {
		return c.elemType(t.Elem, sp)
	}
	switch t.Kind {
	case types.KindList:
		return t.Elem
	case types.KindString:
		return c.tyi.Builtins().Char
	}
	c.errAt(diag.SemNotIndexable, sp,
		fmt.Sprintf("'%s' cannot be indexed", c.tyi.Format(tt)))
	return types.NoTypeID
}

func (c *checker) checkIndex(exprID ast.ExprID) types.TypeID {
	ix, _ := c.arenas.Exprs.Index(exprID)
	tt := c.checkExpr(ix.Target, useRead)
	it := c.checkExpr(ix.Index, useValue)
	b := c.tyi.Builtins()
	if it != types.NoTypeID && it != b.Int && it != b.Uint {
		c.errAt(diag.SemTypeMismatch, ix.Span,
			fmt.Sprintf("index must be 'int', got '%s'", c.tyi.Format(it)))
	}
	c.checkIndexBounds(ix)
	return c.elemType(tt, ix.Span)
}

// checkSlice registers `target[lo..hi]` as a shared borrow of the base
// binding: the slice aliases the target's storage.
func (c *checker) checkSlice(exprID ast.ExprID) types.TypeID {
	sl, _ := c.arenas.Exprs.Slice(exprID)
	tt := c.checkExpr(sl.Target, useRead)
	b := c.tyi.Builtins()
	for _, bound := range []ast.ExprID{sl.Lo, sl.Hi} {
		if !bound.IsValid() {
			continue
		}
		bt := c.checkExpr(bound, useValue)
		if bt != types.NoTypeID && bt != b.Int && bt != b.Uint {
			c.errAt(diag.SemTypeMismatch, c.arenas.Exprs.Get(bound).Span,
				fmt.Sprintf("slice bound must be 'int', got '%s'", c.tyi.Format(bt)))
		}
	}

	if !c.tyi.IsSliceable(tt) {
		if tt != types.NoTypeID {
			c.errAt(diag.SemNotIndexable, sl.Span,
				fmt.Sprintf("'%s' cannot be sliced", c.tyi.Format(tt)))
		}
		return types.NoTypeID
	}

	symID := c.placeBase(sl.Target)
	if symID.IsValid() {
		id, issue := c.info.Borrows.Begin(exprID, sl.Span, BorrowShared, Place{Base: symID}, c.curScope)
		if !issue.OK() {
			c.reportBorrowConflict(sl.Span, symID, issue,
				fmt.Sprintf("cannot slice '%s': it is mutably borrowed", c.symName(symID)))
		} else {
			c.stmtBorrows = append(c.stmtBorrows, id)
		}
	}
	c.checkSliceBounds(sl, symID)

	// Slicing a reference yields the underlying sequence type.
	t := c.tyi.MustLookup(tt)
	for t.Kind == types.KindRef {
		tt = t.Elem
		t = c.tyi.MustLookup(tt)
	}
	return tt
}

// intLit extracts a non-negative literal index, unwrapping groups.
func (c *checker) intLit(exprID ast.ExprID) (int64, bool) {
	if !exprID.IsValid() {
		return 0, false
	}
	exprID = c.unwrapGroup(exprID)
	lit, ok := c.arenas.Exprs.Lit(exprID)
	if !ok || lit.Kind != ast.LitInt {
		return 0, false
	}
	n, err := strconv.ParseInt(c.arenas.Lookup(lit.Text), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *checker) checkIndexBounds(ix *ast.IndexExpr) {
	symID := c.placeBase(ix.Target)
	n, known := c.lengths[symID]
	if !known {
		return
	}
	if i, ok := c.intLit(ix.Index); ok && (i < 0 || i >= n) {
		c.errAt(diag.OwnOutOfRange, ix.Span,
			fmt.Sprintf("index %d is out of range for length %d", i, n))
	}
}

func (c *checker) checkSliceBounds(sl *ast.SliceExpr, symID symbols.SymbolID) {
	n, known := c.lengths[symID]

	lo, loKnown := c.intLit(sl.Lo)
	hi, hiKnown := c.intLit(sl.Hi)
	if !sl.Lo.IsValid() {
		lo, loKnown = 0, true
	}
	if !sl.Hi.IsValid() && known {
		hi, hiKnown = n, true
	}
	if loKnown && hiKnown && lo > hi {
		c.errAt(diag.OwnOutOfRange, sl.Span,
			fmt.Sprintf("slice start %d is past its end %d", lo, hi))
		return
	}
	if !known {
		return
	}
	if hiKnown && hi > n {
		c.errAt(diag.OwnOutOfRange, sl.Span,
			fmt.Sprintf("slice end %d is out of range for length %d", hi, n))
	}
}

// staticLen computes the compile-time length of a list or string literal.
func (c *checker) staticLen(exprID ast.ExprID) (int64, bool) {
	exprID = c.unwrapGroup(exprID)
	if l, ok := c.arenas.Exprs.List(exprID); ok {
		return int64(len(l.Elems)), true
	}
	if lit, ok := c.arenas.Exprs.Lit(exprID); ok && lit.Kind == ast.LitString {
		if s, err := decodeStringLit(c.arenas.Lookup(lit.Text)); err == nil {
			return int64(len([]rune(s))), true
		}
	}
	return 0, false
}
