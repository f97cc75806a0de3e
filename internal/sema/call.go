package sema

import (
	"fmt"

	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/symbols"
	"rill/internal/types"
)

func (c *checker) checkCall(exprID ast.ExprID) types.TypeID {
	call, _ := c.arenas.Exprs.Call(exprID)
	callee := c.unwrapGroup(call.Callee)

	ident, ok := c.arenas.Exprs.Ident(callee)
	if !ok {
		c.errAt(diag.SemNotCallable, call.Span, "only named functions can be called")
		for _, arg := range call.Args {
			c.checkExpr(arg, useValue)
		}
		return types.NoTypeID
	}
	symID, bound := c.res.ExprUse[callee]
	if !bound {
		return types.NoTypeID // unresolved, already reported
	}
	sym := c.res.Table.Symbol(symID)
	if sym.Kind != symbols.SymbolFunction {
		c.errAt(diag.SemNotCallable, call.Span,
			fmt.Sprintf("'%s' is not a function", c.arenas.Lookup(ident.Name)))
		for _, arg := range call.Args {
			c.checkExpr(arg, useValue)
		}
		return types.NoTypeID
	}
	if sym.IsBuiltin() {
		return c.checkBuiltinCall(call, c.arenas.Lookup(ident.Name))
	}

	sig := c.sigs[sym.Decl.Item]
	if len(call.Args) != len(sig.params) {
		c.errAt(diag.SemArityMismatch, call.Span,
			fmt.Sprintf("'%s' takes %d argument(s), got %d",
				c.arenas.Lookup(ident.Name), len(sig.params), len(call.Args)))
	}
	for i, arg := range call.Args {
		at := c.checkExpr(arg, useValue)
		if i >= len(sig.params) {
			continue
		}
		want := sig.params[i]
		if want != types.NoTypeID && at != types.NoTypeID && at != want {
			c.errAt(diag.SemTypeMismatch, c.arenas.Exprs.Get(arg).Span,
				fmt.Sprintf("argument %d is '%s', '%s' expects '%s'",
					i+1, c.tyi.Format(at), c.arenas.Lookup(ident.Name), c.tyi.Format(want)))
		}
	}
	return sig.result
}

// checkBuiltinCall handles print, len, clone and push. All of them inspect
// their operand without consuming it; push mutates through its &mut arg.
func (c *checker) checkBuiltinCall(call *ast.CallExpr, name string) types.TypeID {
	b := c.tyi.Builtins()
	arity := 1
	if name == "push" {
		arity = 2
	}
	if len(call.Args) != arity {
		c.errAt(diag.SemArityMismatch, call.Span,
			fmt.Sprintf("'%s' takes %d argument(s), got %d", name, arity, len(call.Args)))
		for _, arg := range call.Args {
			c.checkExpr(arg, useRead)
		}
		return b.Unit
	}

	switch name {
	case "print":
		c.checkExpr(call.Args[0], useRead)
		return b.Unit

	case "len":
		at := c.checkExpr(call.Args[0], useRead)
		if at != types.NoTypeID && !c.tyi.IsSliceable(at) {
			c.errAt(diag.SemTypeMismatch, c.arenas.Exprs.Get(call.Args[0]).Span,
				fmt.Sprintf("'len' needs a string or list, got '%s'", c.tyi.Format(at)))
		}
		return b.Int

	case "clone":
		at := c.checkExpr(call.Args[0], useRead)
		// Cloning through a reference yields the pointed-at value.
		if t, ok := c.tyi.Lookup(at); ok && t.Kind == types.KindRef {
			return t.Elem
		}
		return at

	case "push":
		at := c.checkExpr(call.Args[0], useValue)
		vt := c.checkExpr(call.Args[1], useValue)
		t, ok := c.tyi.Lookup(at)
		if !ok || t.Kind != types.KindRef || !t.Mutable {
			if at != types.NoTypeID {
				c.errAt(diag.SemTypeMismatch, c.arenas.Exprs.Get(call.Args[0]).Span,
					fmt.Sprintf("'push' needs '&mut [T]', got '%s'", c.tyi.Format(at)))
			}
			return b.Unit
		}
		lt, ok := c.tyi.Lookup(t.Elem)
		if !ok || lt.Kind != types.KindList {
			c.errAt(diag.SemTypeMismatch, c.arenas.Exprs.Get(call.Args[0]).Span,
				fmt.Sprintf("'push' needs '&mut [T]', got '%s'", c.tyi.Format(at)))
			return b.Unit
		}
		if vt != types.NoTypeID && lt.Elem != types.NoTypeID && vt != lt.Elem {
			c.errAt(diag.SemTypeMismatch, c.arenas.Exprs.Get(call.Args[1]).Span,
				fmt.Sprintf("cannot push '%s' into '%s'", c.tyi.Format(vt), c.tyi.Format(t.Elem)))
		}
		// The length of the pushed-into binding is no longer static.
		if base := c.placeBase(call.Args[0]); base.IsValid() {
			delete(c.lengths, base)
		}
		return b.Unit
	}
	return b.Unit
}
