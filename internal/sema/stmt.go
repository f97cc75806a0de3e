package sema

import (
	"fmt"

	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/symbols"
	"rill/internal/types"
)

func (c *checker) checkBlock(blockID ast.StmtID) {
	block, ok := c.arenas.Stmts.Block(blockID)
	if !ok {
		return
	}
	scope := c.res.BlockScope[blockID]
	prev := c.curScope
	c.curScope = scope
	for _, stmtID := range block.Stmts {
		c.checkStmt(stmtID)
	}
	c.endScope(blockID)
	c.info.Borrows.EndScope(scope)
	c.curScope = prev
}

// endScope records the drop plan for the block: every heap-owning binding
// declared in it that still owns its value, in reverse declaration order.
func (c *checker) endScope(blockID ast.StmtID) {
	scope := c.res.BlockScope[blockID]
	sc := c.res.Table.Scope(scope)
	if sc == nil {
		return
	}
	var plan []symbols.SymbolID
	for i := len(sc.Symbols) - 1; i >= 0; i-- {
		symID := sc.Symbols[i]
		sym := c.res.Table.Symbol(symID)
		if sym.Kind != symbols.SymbolLet && sym.Kind != symbols.SymbolParam {
			continue
		}
		if _, moved := c.moved[symID]; moved {
			continue
		}
		if c.tyi.IsHeap(c.info.SymTypes[symID]) {
			plan = append(plan, symID)
		}
	}
	c.info.DropPlans[blockID] = plan
}

func (c *checker) checkStmt(stmtID ast.StmtID) {
	stmt := c.arenas.Stmts.Get(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		c.checkBlock(stmtID)

	case ast.StmtLet:
		c.checkLet(stmtID)

	case ast.StmtExpr:
		es, _ := c.arenas.Stmts.Expr(stmtID)
		c.checkExpr(es.Expr, useValue)
		c.releaseStmtBorrows(NoBorrowID)

	case ast.StmtReturn:
		c.checkReturn(stmtID)
	}
}

func (c *checker) checkLet(stmtID ast.StmtID) {
	let, _ := c.arenas.Stmts.Let(stmtID)
	symID, bound := c.res.LetSym[stmtID]

	got := c.checkExpr(let.Init, useValue)

	declared := types.NoTypeID
	if let.Type.IsValid() {
		declared = c.resolveType(let.Type)
		if declared != types.NoTypeID && got != types.NoTypeID && declared != got {
			c.errAt(diag.SemTypeMismatch, let.Span,
				fmt.Sprintf("binding is declared '%s' but initialized with '%s'",
					c.tyi.Format(declared), c.tyi.Format(got)))
		}
	}
	if !bound {
		c.releaseStmtBorrows(NoBorrowID)
		return
	}
	ty := got
	if declared != types.NoTypeID {
		ty = declared
	}
	c.info.SymTypes[symID] = ty

	// A borrow created by the initializer outlives the statement: it is
	// held by the new binding until its scope ends.
	init := c.unwrapGroup(let.Init)
	keep := c.info.Borrows.ExprBorrow(init)
	c.releaseStmtBorrows(keep)
	if c.tyi.IsRef(ty) {
		if base := c.refRoot(init); base.IsValid() {
			c.refOrigin[symID] = base
		}
	}

	if n, ok := c.staticLen(let.Init); ok {
		c.lengths[symID] = n
	}
}

func (c *checker) checkReturn(stmtID ast.StmtID) {
	ret, _ := c.arenas.Stmts.Return(stmtID)
	got := c.tyi.Builtins().Unit
	if ret.Value.IsValid() {
		got = c.checkExpr(ret.Value, useValue)
	}
	if c.fnResult != types.NoTypeID && got != types.NoTypeID && got != c.fnResult {
		c.errAt(diag.SemTypeMismatch, ret.Span,
			fmt.Sprintf("function returns '%s' but this returns '%s'",
				c.tyi.Format(c.fnResult), c.tyi.Format(got)))
	}
	if ret.Value.IsValid() && c.tyi.IsRef(got) {
		c.checkDanglingReturn(ret.Value)
	}
	c.releaseStmtBorrows(NoBorrowID)
}

// refRoot resolves the local binding a reference-valued expression is
// rooted in, or NoSymbolID when none is known. A call that returns a
// reference is conservatively rooted in the first of its arguments that
// borrows a local: the callee cannot manufacture a longer-lived target.
func (c *checker) refRoot(exprID ast.ExprID) symbols.SymbolID {
	exprID = c.unwrapGroup(exprID)
	if id := c.info.Borrows.ExprBorrow(exprID); id != NoBorrowID {
		return c.info.Borrows.Info(id).Place.Base
	}
	if _, ok := c.arenas.Exprs.Ident(exprID); ok {
		if sym, ok := c.res.ExprUse[exprID]; ok {
			return c.refOrigin[sym]
		}
		return symbols.NoSymbolID
	}
	if call, ok := c.arenas.Exprs.Call(exprID); ok {
		if !c.tyi.IsRef(c.info.ExprTypes[exprID]) {
			return symbols.NoSymbolID
		}
		for _, arg := range call.Args {
			if base := c.refRoot(arg); base.IsValid() {
				return base
			}
		}
	}
	return symbols.NoSymbolID
}

// scopeOutlives reports whether outer strictly encloses inner, so a binding
// declared in outer survives everything declared in inner.
func (c *checker) scopeOutlives(outer, inner symbols.ScopeID) bool {
	if outer == inner {
		return false
	}
	for inner.IsValid() {
		sc := c.res.Table.Scope(inner)
		if sc == nil {
			return false
		}
		if sc.Parent == outer {
			return true
		}
		inner = sc.Parent
	}
	return false
}

// checkDanglingReturn rejects returning a reference whose target dies with
// this function: a reference to a local binding or to a by-value parameter.
// References that came in through a ref parameter have no known local base
// and pass.
func (c *checker) checkDanglingReturn(value ast.ExprID) {
	base := c.refRoot(value)
	if !base.IsValid() {
		return
	}
	value = c.unwrapGroup(value)
	sym := c.res.Table.Symbol(base)
	local := sym.Kind == symbols.SymbolLet
	if sym.Kind == symbols.SymbolParam {
		// A by-value parameter is dropped on return, so a reference to
		// it dangles just like one to a local.
		local = !c.tyi.IsRef(c.info.SymTypes[base])
	}
	if local {
		c.noteAt(diag.OwnDanglingRef, c.arenas.Exprs.Get(value).Span,
			fmt.Sprintf("returning a reference to '%s', which is dropped when the function returns", c.symName(base)),
			[]diag.Note{{Span: sym.Span, Msg: fmt.Sprintf("'%s' declared here", c.symName(base))}})
	}
}

// releaseStmtBorrows drops every borrow created by the current statement
// except keep, which escaped into a binding.
func (c *checker) releaseStmtBorrows(keep BorrowID) {
	for _, id := range c.stmtBorrows {
		if id != keep {
			c.info.Borrows.Release(id)
		}
	}
	c.stmtBorrows = c.stmtBorrows[:0]
}

func (c *checker) unwrapGroup(id ast.ExprID) ast.ExprID {
	for {
		g, ok := c.arenas.Exprs.Group(id)
		if !ok {
			return id
		}
		id = g.Inner
	}
}
