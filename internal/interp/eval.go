package interp

import (
	"fmt"
	"strconv"

	"rill/internal/ast"
	"rill/internal/sema"
	"rill/internal/symbols"
)

func (in *Interp) evalExpr(exprID ast.ExprID, fr *frame) (Value, error) {
	expr := in.arenas.Exprs.Get(exprID)
	switch expr.Kind {
	case ast.ExprIdent:
		return in.evalIdent(exprID, fr)

	case ast.ExprLit:
		return in.evalLit(exprID)

	case ast.ExprUnary:
		return in.evalUnary(exprID, fr)

	case ast.ExprBinary:
		return in.evalBinary(exprID, fr)

	case ast.ExprAssign:
		return in.evalAssign(exprID, fr)

	case ast.ExprCall:
		return in.evalCall(exprID, fr)

	case ast.ExprIndex:
		return in.evalIndex(exprID, fr)

	case ast.ExprSlice:
		return in.evalSlice(exprID, fr)

	case ast.ExprList:
		l, _ := in.arenas.Exprs.List(exprID)
		elems := make([]Value, 0, len(l.Elems))
		for _, e := range l.Elems {
			v, err := in.evalMove(e, fr)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return objValue(in.heap.AllocList(elems)), nil

	case ast.ExprTuple:
		tp, _ := in.arenas.Exprs.Tuple(exprID)
		if len(tp.Elems) == 0 {
			return unitValue(), nil
		}
		elems := make([]Value, 0, len(tp.Elems))
		for _, e := range tp.Elems {
			v, err := in.evalMove(e, fr)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Value{Kind: VTuple, Tuple: elems}, nil

	case ast.ExprGroup:
		g, _ := in.arenas.Exprs.Group(exprID)
		return in.evalExpr(g.Inner, fr)
	}
	return Value{}, &RuntimeError{Msg: "unsupported expression", Span: expr.Span}
}

// evalIdent reads a binding without consuming it. Consuming contexts call
// moveIfIdent afterwards so the source cell skips its drop.
func (in *Interp) evalIdent(exprID ast.ExprID, fr *frame) (Value, error) {
	symID, ok := in.res.ExprUse[exprID]
	if !ok {
		return Value{}, &RuntimeError{Msg: "unbound name", Span: in.arenas.Exprs.Get(exprID).Span}
	}
	cell, ok := fr.env[symID]
	if !ok {
		return Value{}, &RuntimeError{
			Msg:  fmt.Sprintf("'%s' has no value", in.symName(symID)),
			Span: in.arenas.Exprs.Get(exprID).Span,
		}
	}
	return cell.Val, nil
}

// moveIfIdent empties the binding an identifier expression read from, when
// its type moves on use. Mirrors the checker's consuming contexts.
func (in *Interp) moveIfIdent(exprID ast.ExprID, fr *frame) {
	for {
		g, ok := in.arenas.Exprs.Group(exprID)
		if !ok {
			break
		}
		exprID = g.Inner
	}
	symID, ok := in.res.ExprUse[exprID]
	if !ok {
		return
	}
	if in.info.Types.IsCopy(in.info.ExprTypes[exprID]) {
		return
	}
	if cell, ok := fr.env[symID]; ok {
		cell.Val = Value{}
	}
}

// evalMove evaluates an expression in a consuming position.
func (in *Interp) evalMove(exprID ast.ExprID, fr *frame) (Value, error) {
	v, err := in.evalExpr(exprID, fr)
	if err != nil {
		return Value{}, err
	}
	in.moveIfIdent(exprID, fr)
	return v, nil
}

func (in *Interp) symName(symID symbols.SymbolID) string {
	return in.arenas.Lookup(in.res.Table.Symbol(symID).Name)
}

func (in *Interp) evalLit(exprID ast.ExprID) (Value, error) {
	lit, _ := in.arenas.Exprs.Lit(exprID)
	text := in.arenas.Lookup(lit.Text)
	sp := in.arenas.Exprs.Get(exprID).Span
	switch lit.Kind {
	case ast.LitInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, &RuntimeError{Msg: "integer literal out of range", Span: sp}
		}
		return intValue(n), nil
	case ast.LitFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, &RuntimeError{Msg: "malformed float literal", Span: sp}
		}
		return floatValue(f), nil
	case ast.LitBool:
		return boolValue(text == "true"), nil
	case ast.LitChar:
		r, err := sema.DecodeCharLit(text)
		if err != nil {
			return Value{}, &RuntimeError{Msg: "malformed character literal", Span: sp}
		}
		return charValue(r), nil
	case ast.LitString:
		s, err := sema.DecodeStringLit(text)
		if err != nil {
			return Value{}, &RuntimeError{Msg: "malformed string literal", Span: sp}
		}
		return objValue(in.heap.AllocString(s)), nil
	}
	return Value{}, &RuntimeError{Msg: "unsupported literal", Span: sp}
}

// place returns the cell an addressable expression designates.
func (in *Interp) place(exprID ast.ExprID, fr *frame) (*Cell, error) {
	expr := in.arenas.Exprs.Get(exprID)
	switch expr.Kind {
	case ast.ExprIdent:
		symID, ok := in.res.ExprUse[exprID]
		if !ok {
			break
		}
		if cell, ok := fr.env[symID]; ok {
			return cell, nil
		}
	case ast.ExprGroup:
		g, _ := in.arenas.Exprs.Group(exprID)
		return in.place(g.Inner, fr)
	case ast.ExprUnary:
		u, _ := in.arenas.Exprs.Unary(exprID)
		if u.Op == ast.UnaryDeref {
			v, err := in.evalExpr(u.Operand, fr)
			if err != nil {
				return nil, err
			}
			if v.Kind == VRef {
				return v.Cell, nil
			}
		}
	}
	return nil, &RuntimeError{Msg: "expression is not addressable", Span: expr.Span}
}

func (in *Interp) evalUnary(exprID ast.ExprID, fr *frame) (Value, error) {
	u, _ := in.arenas.Exprs.Unary(exprID)
	switch u.Op {
	case ast.UnaryRef, ast.UnaryRefMut:
		cell, err := in.place(u.Operand, fr)
		if err != nil {
			return Value{}, err
		}
		return refValue(cell), nil

	case ast.UnaryDeref:
		v, err := in.evalExpr(u.Operand, fr)
		if err != nil {
			return Value{}, err
		}
		v = deref(v)
		return v, nil

	case ast.UnaryNeg:
		v, err := in.evalExpr(u.Operand, fr)
		if err != nil {
			return Value{}, err
		}
		v = deref(v)
		switch v.Kind {
		case VInt:
			return intValue(-v.Int), nil
		case VFloat:
			return floatValue(-v.Float), nil
		}
		return Value{}, &RuntimeError{Msg: "cannot negate value", Span: u.Span}

	case ast.UnaryNot:
		v, err := in.evalExpr(u.Operand, fr)
		if err != nil {
			return Value{}, err
		}
		v = deref(v)
		return boolValue(!v.Bool), nil
	}
	return Value{}, &RuntimeError{Msg: "unsupported operator", Span: u.Span}
}

func (in *Interp) evalAssign(exprID ast.ExprID, fr *frame) (Value, error) {
	as, _ := in.arenas.Exprs.Assign(exprID)
	v, err := in.evalMove(as.Value, fr)
	if err != nil {
		return Value{}, err
	}

	target := as.Target
	if ix, ok := in.arenas.Exprs.Index(target); ok {
		return unitValue(), in.storeIndexed(ix, v, fr)
	}
	cell, err := in.place(target, fr)
	if err != nil {
		return Value{}, err
	}
	// The old value dies before the new one lands.
	in.freeValue(cell.Val)
	cell.Val = v
	return unitValue(), nil
}

func (in *Interp) storeIndexed(ix *ast.IndexExpr, v Value, fr *frame) error {
	tv, err := in.evalExpr(ix.Target, fr)
	if err != nil {
		return err
	}
	iv, err := in.evalExpr(ix.Index, fr)
	if err != nil {
		return err
	}
	tv = deref(tv)
	idx := deref(iv).Int
	if tv.Kind != VObj {
		return &RuntimeError{Msg: "value cannot be indexed", Span: ix.Span}
	}
	obj := in.heap.Get(tv.H)
	if obj.Kind != ObjList {
		return &RuntimeError{Msg: "value cannot be indexed", Span: ix.Span}
	}
	if idx < 0 || idx >= int64(len(obj.List)) {
		return &RuntimeError{
			Msg:  fmt.Sprintf("index %d out of range for length %d", idx, len(obj.List)),
			Span: ix.Span,
		}
	}
	in.freeValue(obj.List[idx])
	obj.List[idx] = v
	return nil
}

func (in *Interp) evalIndex(exprID ast.ExprID, fr *frame) (Value, error) {
	ix, _ := in.arenas.Exprs.Index(exprID)
	tv, err := in.evalExpr(ix.Target, fr)
	if err != nil {
		return Value{}, err
	}
	iv, err := in.evalExpr(ix.Index, fr)
	if err != nil {
		return Value{}, err
	}
	tv = deref(tv)
	idx := deref(iv).Int
	if tv.Kind != VObj {
		return Value{}, &RuntimeError{Msg: "value cannot be indexed", Span: ix.Span}
	}
	obj := in.heap.Get(tv.H)
	switch obj.Kind {
	case ObjString:
		runes := []rune(obj.Str)
		if idx < 0 || idx >= int64(len(runes)) {
			return Value{}, &RuntimeError{
				Msg:  fmt.Sprintf("index %d out of range for length %d", idx, len(runes)),
				Span: ix.Span,
			}
		}
		return charValue(runes[idx]), nil
	case ObjList:
		if idx < 0 || idx >= int64(len(obj.List)) {
			return Value{}, &RuntimeError{
				Msg:  fmt.Sprintf("index %d out of range for length %d", idx, len(obj.List)),
				Span: ix.Span,
			}
		}
		return in.cloneValue(obj.List[idx]), nil
	}
	return Value{}, &RuntimeError{Msg: "value cannot be indexed", Span: ix.Span}
}

// evalSlice materializes target[lo..hi] as a fresh owned value.
func (in *Interp) evalSlice(exprID ast.ExprID, fr *frame) (Value, error) {
	sl, _ := in.arenas.Exprs.Slice(exprID)
	tv, err := in.evalExpr(sl.Target, fr)
	if err != nil {
		return Value{}, err
	}
	tv = deref(tv)
	if tv.Kind != VObj {
		return Value{}, &RuntimeError{Msg: "value cannot be sliced", Span: sl.Span}
	}
	obj := in.heap.Get(tv.H)

	bound := func(id ast.ExprID, fallback int64) (int64, error) {
		if !id.IsValid() {
			return fallback, nil
		}
		v, err := in.evalExpr(id, fr)
		if err != nil {
			return 0, err
		}
		return deref(v).Int, nil
	}

	switch obj.Kind {
	case ObjString:
		runes := []rune(obj.Str)
		lo, err := bound(sl.Lo, 0)
		if err != nil {
			return Value{}, err
		}
		hi, err := bound(sl.Hi, int64(len(runes)))
		if err != nil {
			return Value{}, err
		}
		if lo < 0 || hi > int64(len(runes)) || lo > hi {
			return Value{}, &RuntimeError{
				Msg:  fmt.Sprintf("slice [%d..%d] out of range for length %d", lo, hi, len(runes)),
				Span: sl.Span,
			}
		}
		return objValue(in.heap.AllocString(string(runes[lo:hi]))), nil

	case ObjList:
		lo, err := bound(sl.Lo, 0)
		if err != nil {
			return Value{}, err
		}
		hi, err := bound(sl.Hi, int64(len(obj.List)))
		if err != nil {
			return Value{}, err
		}
		if lo < 0 || hi > int64(len(obj.List)) || lo > hi {
			return Value{}, &RuntimeError{
				Msg:  fmt.Sprintf("slice [%d..%d] out of range for length %d", lo, hi, len(obj.List)),
				Span: sl.Span,
			}
		}
		elems := make([]Value, 0, hi-lo)
		for _, e := range obj.List[lo:hi] {
			elems = append(elems, in.cloneValue(e))
		}
		return objValue(in.heap.AllocList(elems)), nil
	}
	return Value{}, &RuntimeError{Msg: "value cannot be sliced", Span: sl.Span}
}
