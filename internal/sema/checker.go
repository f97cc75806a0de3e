package sema

import (
	"fmt"

	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/source"
	"rill/internal/symbols"
	"rill/internal/types"
)

type Options struct {
	Reporter diag.Reporter
}

// Info is the result of checking one file: inferred types, the borrow
// record, and per-block drop plans.
type Info struct {
	Types *types.Interner
	// ExprTypes holds the inferred type of every checked expression.
	ExprTypes map[ast.ExprID]types.TypeID
	// SymTypes holds the type of every binding, parameter and function.
	SymTypes map[symbols.SymbolID]types.TypeID
	// DropPlans lists, per block statement, the owned bindings that die
	// when the block ends, in reverse declaration order. Moved-out
	// bindings are excluded.
	DropPlans map[ast.StmtID][]symbols.SymbolID
	// Borrows records every borrow the checker registered.
	Borrows *BorrowTable
}

type fnSig struct {
	params []types.TypeID
	result types.TypeID
}

type checker struct {
	arenas *ast.Builder
	res    *symbols.Resolution
	info   *Info
	opts   Options
	tyi    *types.Interner

	sigs map[ast.ItemID]fnSig

	// Per-function flow state.
	fnResult types.TypeID
	curScope symbols.ScopeID
	moved    map[symbols.SymbolID]source.Span
	lengths  map[symbols.SymbolID]int64
	// refOrigin maps a ref-holding binding to the binding it points at,
	// when that target is known to be a local.
	refOrigin map[symbols.SymbolID]symbols.SymbolID
	// Borrows created while checking the current statement; temporaries
	// are released when the statement ends.
	stmtBorrows []BorrowID
}

// CheckFile type-checks the file and enforces the ownership discipline.
// Resolve must have succeeded on the same file first.
func CheckFile(arenas *ast.Builder, file ast.FileID, res *symbols.Resolution, opts Options) *Info {
	tyi := types.NewInterner()
	info := &Info{
		Types:     tyi,
		ExprTypes: make(map[ast.ExprID]types.TypeID),
		SymTypes:  make(map[symbols.SymbolID]types.TypeID),
		DropPlans: make(map[ast.StmtID][]symbols.SymbolID),
		Borrows:   NewBorrowTable(),
	}
	c := &checker{
		arenas: arenas,
		res:    res,
		info:   info,
		opts:   opts,
		tyi:    tyi,
		sigs:   make(map[ast.ItemID]fnSig),
	}

	f := arenas.Files.Get(file)
	for _, itemID := range f.Items {
		c.collectSignature(itemID)
	}
	for _, itemID := range f.Items {
		c.checkFn(itemID)
	}
	return info
}

func (c *checker) errAt(code diag.Code, sp source.Span, msg string) {
	if c.opts.Reporter != nil {
		c.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func (c *checker) noteAt(code diag.Code, sp source.Span, msg string, notes []diag.Note) {
	if c.opts.Reporter != nil {
		c.opts.Reporter.Report(code, diag.SevError, sp, msg, notes)
	}
}

func (c *checker) symName(id symbols.SymbolID) string {
	return c.arenas.Lookup(c.res.Table.Symbol(id).Name)
}

// resolveType lowers a syntactic type to an interned semantic type.
func (c *checker) resolveType(id ast.TypeID) types.TypeID {
	te := c.arenas.Types.Get(id)
	if te == nil {
		return types.NoTypeID
	}
	b := c.tyi.Builtins()
	switch te.Kind {
	case ast.TypeExprUnit:
		return b.Unit
	case ast.TypeExprName:
		nt, _ := c.arenas.Types.Name(id)
		switch c.arenas.Lookup(nt.Name) {
		case "int":
			return b.Int
		case "uint":
			return b.Uint
		case "float":
			return b.Float
		case "bool":
			return b.Bool
		case "char":
			return b.Char
		case "string":
			return b.String
		default:
			c.errAt(diag.SemUnknownType, nt.Span,
				fmt.Sprintf("unknown type '%s'", c.arenas.Lookup(nt.Name)))
			return types.NoTypeID
		}
	case ast.TypeExprList:
		lt, _ := c.arenas.Types.List(id)
		elem := c.resolveType(lt.Elem)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		return c.tyi.Intern(types.MakeList(elem))
	case ast.TypeExprTuple:
		tt, _ := c.arenas.Types.Tuple(id)
		elems := make([]types.TypeID, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = c.resolveType(e)
			if elems[i] == types.NoTypeID {
				return types.NoTypeID
			}
		}
		return c.tyi.InternTuple(elems)
	case ast.TypeExprRef:
		rt, _ := c.arenas.Types.Ref(id)
		inner := c.resolveType(rt.Inner)
		if inner == types.NoTypeID {
			return types.NoTypeID
		}
		return c.tyi.Intern(types.MakeRef(inner, rt.IsMut))
	default:
		return types.NoTypeID
	}
}

func (c *checker) collectSignature(itemID ast.ItemID) {
	fn, ok := c.arenas.Items.Fn(itemID)
	if !ok {
		return
	}
	sig := fnSig{result: c.tyi.Builtins().Unit}
	if fn.Result.IsValid() {
		sig.result = c.resolveType(fn.Result)
	}
	for _, pid := range fn.Params {
		p := c.arenas.Items.Param(pid)
		pt := c.resolveType(p.Type)
		sig.params = append(sig.params, pt)
		if sym, ok := c.res.ParamSym[pid]; ok {
			c.info.SymTypes[sym] = pt
		}
	}
	c.sigs[itemID] = sig
}

func (c *checker) checkFn(itemID ast.ItemID) {
	fn, ok := c.arenas.Items.Fn(itemID)
	if !ok || !fn.Body.IsValid() {
		return
	}
	c.fnResult = c.sigs[itemID].result
	c.moved = make(map[symbols.SymbolID]source.Span)
	c.lengths = make(map[symbols.SymbolID]int64)
	c.refOrigin = make(map[symbols.SymbolID]symbols.SymbolID)
	c.stmtBorrows = nil

	c.checkBlock(fn.Body)
}
