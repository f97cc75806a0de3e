package symbols

import (
	"fmt"

	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/source"
)

// Resolution binds every name use in one file to a symbol.
type Resolution struct {
	Table *Table
	// Module is the file's top-level scope.
	Module ScopeID
	// ExprUse maps identifier expressions to the symbol they name.
	ExprUse map[ast.ExprID]SymbolID
	// LetSym maps let statements to the symbol they introduce.
	LetSym map[ast.StmtID]SymbolID
	// ParamSym maps parameters to their symbol.
	ParamSym map[ast.FnParamID]SymbolID
	// FnSym maps function items to their symbol.
	FnSym map[ast.ItemID]SymbolID
	// FnScope maps function items to their body scope.
	FnScope map[ast.ItemID]ScopeID
	// BlockScope maps block statements to the scope they open.
	BlockScope map[ast.StmtID]ScopeID
}

type Options struct {
	Reporter diag.Reporter
	// RequireMain reports SemMissingMain when the file has no main function.
	RequireMain bool
}

type resolver struct {
	arenas *ast.Builder
	table  *Table
	res    *Resolution
	opts   Options
}

// Resolve builds the symbol table for one parsed file. Functions are
// declared before any body is walked, so call order does not matter.
func Resolve(arenas *ast.Builder, file ast.FileID, opts Options) *Resolution {
	table := NewTable()
	installPrelude(table, arenas.Strings)

	res := &Resolution{
		Table:      table,
		ExprUse:    make(map[ast.ExprID]SymbolID),
		LetSym:     make(map[ast.StmtID]SymbolID),
		ParamSym:   make(map[ast.FnParamID]SymbolID),
		FnSym:      make(map[ast.ItemID]SymbolID),
		FnScope:    make(map[ast.ItemID]ScopeID),
		BlockScope: make(map[ast.StmtID]ScopeID),
	}
	r := resolver{arenas: arenas, table: table, res: res, opts: opts}

	f := arenas.Files.Get(file)
	res.Module = table.NewScope(ScopeModule, table.Prelude, f.Span)

	hasMain := false
	mainName := arenas.Intern("main")
	for _, itemID := range f.Items {
		fn, ok := arenas.Items.Fn(itemID)
		if !ok {
			continue
		}
		if fn.Name == mainName {
			hasMain = true
		}
		if prev := table.LookupLocal(res.Module, fn.Name); prev.IsValid() {
			r.errAt(diag.SemDuplicateSymbol, fn.NameSpan,
				fmt.Sprintf("function '%s' is already declared", arenas.Lookup(fn.Name)))
			continue
		}
		res.FnSym[itemID] = table.Declare(res.Module, Symbol{
			Name: fn.Name,
			Kind: SymbolFunction,
			Span: fn.NameSpan,
			Decl: SymbolDecl{Item: itemID},
		})
	}
	if opts.RequireMain && !hasMain {
		r.errAt(diag.SemMissingMain, f.Span, "program has no 'main' function")
	}

	for _, itemID := range f.Items {
		r.resolveFn(itemID)
	}
	return res
}

func (r *resolver) errAt(code diag.Code, sp source.Span, msg string) {
	if r.opts.Reporter != nil {
		r.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (r *resolver) resolveFn(itemID ast.ItemID) {
	fn, ok := r.arenas.Items.Fn(itemID)
	if !ok {
		return
	}
	scope := r.table.NewScope(ScopeFunction, r.res.Module, fn.Span)
	r.res.FnScope[itemID] = scope

	for _, pid := range fn.Params {
		p := r.arenas.Items.Param(pid)
		if prev := r.table.LookupLocal(scope, p.Name); prev.IsValid() {
			r.errAt(diag.SemDuplicateSymbol, p.NameSpan,
				fmt.Sprintf("parameter '%s' is already declared", r.arenas.Lookup(p.Name)))
			continue
		}
		flags := SymbolFlags(0)
		if p.IsMut {
			flags |= SymbolFlagMutable
		}
		r.res.ParamSym[pid] = r.table.Declare(scope, Symbol{
			Name:  p.Name,
			Kind:  SymbolParam,
			Span:  p.NameSpan,
			Flags: flags,
			Decl:  SymbolDecl{Item: itemID, Param: pid},
		})
	}
	if fn.Body.IsValid() {
		r.resolveBlockInto(fn.Body, scope)
	}
}

// resolveBlockInto walks a block's statements inside an already-created
// scope. Function bodies reuse the function scope so parameters and top
// bindings share one level.
func (r *resolver) resolveBlockInto(blockID ast.StmtID, scope ScopeID) {
	block, ok := r.arenas.Stmts.Block(blockID)
	if !ok {
		return
	}
	r.res.BlockScope[blockID] = scope
	for _, stmtID := range block.Stmts {
		r.resolveStmt(stmtID, scope)
	}
}

func (r *resolver) resolveStmt(stmtID ast.StmtID, scope ScopeID) {
	stmt := r.arenas.Stmts.Get(stmtID)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		inner := r.table.NewScope(ScopeBlock, scope, stmt.Span)
		r.resolveBlockInto(stmtID, inner)

	case ast.StmtLet:
		let, _ := r.arenas.Stmts.Let(stmtID)
		// The initializer sees the outer binding, so `let x = x;` shadows.
		r.resolveExpr(let.Init, scope)
		flags := SymbolFlags(0)
		if let.IsMut {
			flags |= SymbolFlagMutable
		}
		r.res.LetSym[stmtID] = r.table.Declare(scope, Symbol{
			Name:  let.Name,
			Kind:  SymbolLet,
			Span:  let.NameSpan,
			Flags: flags,
			Decl:  SymbolDecl{Stmt: stmtID},
		})

	case ast.StmtExpr:
		es, _ := r.arenas.Stmts.Expr(stmtID)
		r.resolveExpr(es.Expr, scope)

	case ast.StmtReturn:
		ret, _ := r.arenas.Stmts.Return(stmtID)
		if ret.Value.IsValid() {
			r.resolveExpr(ret.Value, scope)
		}
	}
}

func (r *resolver) resolveExpr(exprID ast.ExprID, scope ScopeID) {
	if !exprID.IsValid() {
		return
	}
	expr := r.arenas.Exprs.Get(exprID)
	switch expr.Kind {
	case ast.ExprIdent:
		ident, _ := r.arenas.Exprs.Ident(exprID)
		sym := r.table.Lookup(scope, ident.Name)
		if !sym.IsValid() {
			r.errAt(diag.SemUnresolvedSymbol, ident.Span,
				fmt.Sprintf("cannot find '%s' in this scope", r.arenas.Lookup(ident.Name)))
			return
		}
		r.res.ExprUse[exprID] = sym

	case ast.ExprUnary:
		u, _ := r.arenas.Exprs.Unary(exprID)
		r.resolveExpr(u.Operand, scope)
	case ast.ExprBinary:
		b, _ := r.arenas.Exprs.Binary(exprID)
		r.resolveExpr(b.Left, scope)
		r.resolveExpr(b.Right, scope)
	case ast.ExprAssign:
		a, _ := r.arenas.Exprs.Assign(exprID)
		r.resolveExpr(a.Target, scope)
		r.resolveExpr(a.Value, scope)
	case ast.ExprCall:
		c, _ := r.arenas.Exprs.Call(exprID)
		r.resolveExpr(c.Callee, scope)
		for _, arg := range c.Args {
			r.resolveExpr(arg, scope)
		}
	case ast.ExprIndex:
		ix, _ := r.arenas.Exprs.Index(exprID)
		r.resolveExpr(ix.Target, scope)
		r.resolveExpr(ix.Index, scope)
	case ast.ExprSlice:
		sl, _ := r.arenas.Exprs.Slice(exprID)
		r.resolveExpr(sl.Target, scope)
		r.resolveExpr(sl.Lo, scope)
		r.resolveExpr(sl.Hi, scope)
	case ast.ExprList:
		l, _ := r.arenas.Exprs.List(exprID)
		for _, e := range l.Elems {
			r.resolveExpr(e, scope)
		}
	case ast.ExprTuple:
		tp, _ := r.arenas.Exprs.Tuple(exprID)
		for _, e := range tp.Elems {
			r.resolveExpr(e, scope)
		}
	case ast.ExprGroup:
		g, _ := r.arenas.Exprs.Group(exprID)
		r.resolveExpr(g.Inner, scope)
	}
}
