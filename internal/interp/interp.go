package interp

import (
	"fmt"
	"io"

	"rill/internal/ast"
	"rill/internal/sema"
	"rill/internal/source"
	"rill/internal/symbols"
)

// RuntimeError reports a fault the static checks cannot rule out, such as
// division by zero or an index computed at run time going out of range.
type RuntimeError struct {
	Msg  string
	Span source.Span
}

func (e *RuntimeError) Error() string {
	return e.Msg
}

type Options struct {
	// Out receives print output and drop traces. Defaults to io.Discard.
	Out io.Writer
	// TraceDrops logs every drop as it happens.
	TraceDrops bool
}

// Interp evaluates a checked file. It trusts the checker: ownership faults
// surface as panics here, not diagnostics.
type Interp struct {
	arenas     *ast.Builder
	res        *symbols.Resolution
	info       *sema.Info
	heap       *Heap
	out        io.Writer
	traceDrops bool
	items      map[string]ast.ItemID
}

type frame struct {
	env map[symbols.SymbolID]*Cell
	ret Value
}

// errReturn unwinds block evaluation when a return statement runs.
var errReturn = fmt.Errorf("interp: return")

func New(arenas *ast.Builder, file ast.FileID, res *symbols.Resolution, info *sema.Info, opts Options) *Interp {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	in := &Interp{
		arenas:     arenas,
		res:        res,
		info:       info,
		heap:       NewHeap(),
		out:        out,
		traceDrops: opts.TraceDrops,
		items:      make(map[string]ast.ItemID),
	}
	f := arenas.Files.Get(file)
	for _, itemID := range f.Items {
		if fn, ok := arenas.Items.Fn(itemID); ok {
			in.items[arenas.Lookup(fn.Name)] = itemID
		}
	}
	return in
}

// Heap exposes allocation counters for leak checks.
func (in *Interp) Heap() *Heap {
	return in.heap
}

// Run executes main and drops everything it owned.
func (in *Interp) Run() error {
	itemID, ok := in.items["main"]
	if !ok {
		return &RuntimeError{Msg: "program has no 'main' function"}
	}
	_, err := in.callFn(itemID, nil)
	return err
}

func (in *Interp) callFn(itemID ast.ItemID, args []Value) (Value, error) {
	fn, _ := in.arenas.Items.Fn(itemID)
	fr := &frame{env: make(map[symbols.SymbolID]*Cell, 8), ret: unitValue()}
	for i, pid := range fn.Params {
		if sym, ok := in.res.ParamSym[pid]; ok && i < len(args) {
			fr.env[sym] = &Cell{Val: args[i]}
		}
	}
	err := in.evalBlock(fn.Body, fr)
	if err == errReturn {
		err = nil
	}
	if err != nil {
		return unitValue(), err
	}
	return fr.ret, nil
}

func (in *Interp) evalBlock(blockID ast.StmtID, fr *frame) error {
	block, ok := in.arenas.Stmts.Block(blockID)
	if !ok {
		return nil
	}
	for _, stmtID := range block.Stmts {
		if err := in.evalStmt(stmtID, fr); err != nil {
			if err == errReturn {
				// The returned value has already been moved out;
				// everything else still dies with its block.
				in.runDrops(blockID, fr)
			}
			return err
		}
	}
	in.runDrops(blockID, fr)
	return nil
}

// runDrops executes the block's drop plan: reverse declaration order,
// moved-out bindings excluded.
func (in *Interp) runDrops(blockID ast.StmtID, fr *frame) {
	for _, symID := range in.info.DropPlans[blockID] {
		cell, ok := fr.env[symID]
		if !ok || cell.Val.Kind == VInvalid {
			continue
		}
		if in.traceDrops {
			fmt.Fprintf(in.out, "drop %s\n", in.arenas.Lookup(in.res.Table.Symbol(symID).Name))
		}
		in.freeValue(cell.Val)
		cell.Val = Value{}
	}
}

// freeValue releases a value's heap storage, elements first.
func (in *Interp) freeValue(v Value) {
	switch v.Kind {
	case VObj:
		obj := in.heap.Get(v.H)
		if obj.Kind == ObjList {
			for _, e := range obj.List {
				in.freeValue(e)
			}
		}
		in.heap.Free(v.H)
	case VTuple:
		for _, e := range v.Tuple {
			in.freeValue(e)
		}
	}
}

func (in *Interp) evalStmt(stmtID ast.StmtID, fr *frame) error {
	stmt := in.arenas.Stmts.Get(stmtID)
	switch stmt.Kind {
	case ast.StmtBlock:
		return in.evalBlock(stmtID, fr)

	case ast.StmtLet:
		let, _ := in.arenas.Stmts.Let(stmtID)
		v, err := in.evalMove(let.Init, fr)
		if err != nil {
			return err
		}
		if sym, ok := in.res.LetSym[stmtID]; ok {
			fr.env[sym] = &Cell{Val: v}
		}
		return nil

	case ast.StmtExpr:
		es, _ := in.arenas.Stmts.Expr(stmtID)
		v, err := in.evalMove(es.Expr, fr)
		if err != nil {
			return err
		}
		// The statement discards its value; an unbound heap temporary
		// would otherwise never be freed.
		in.freeValue(v)
		return nil

	case ast.StmtReturn:
		ret, _ := in.arenas.Stmts.Return(stmtID)
		if ret.Value.IsValid() {
			v, err := in.evalMove(ret.Value, fr)
			if err != nil {
				return err
			}
			fr.ret = v
		}
		return errReturn
	}
	return nil
}
