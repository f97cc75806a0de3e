package interp

import (
	"fmt"

	"rill/internal/ast"
)

func (in *Interp) evalCall(exprID ast.ExprID, fr *frame) (Value, error) {
	call, _ := in.arenas.Exprs.Call(exprID)

	callee := call.Callee
	for {
		g, ok := in.arenas.Exprs.Group(callee)
		if !ok {
			break
		}
		callee = g.Inner
	}
	symID, ok := in.res.ExprUse[callee]
	if !ok {
		return Value{}, &RuntimeError{Msg: "call target is not a function", Span: call.Span}
	}
	sym := in.res.Table.Symbol(symID)

	if sym.IsBuiltin() {
		return in.evalBuiltin(in.arenas.Lookup(sym.Name), call, fr)
	}

	args := make([]Value, 0, len(call.Args))
	for _, a := range call.Args {
		v, err := in.evalMove(a, fr)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	return in.callFn(sym.Decl.Item, args)
}

func (in *Interp) evalBuiltin(name string, call *ast.CallExpr, fr *frame) (Value, error) {
	switch name {
	case "print":
		// print borrows its argument; the caller keeps ownership.
		v, err := in.evalExpr(call.Args[0], fr)
		if err != nil {
			return Value{}, err
		}
		fmt.Fprintln(in.out, in.format(v))
		return unitValue(), nil

	case "len":
		v, err := in.evalExpr(call.Args[0], fr)
		if err != nil {
			return Value{}, err
		}
		v = deref(v)
		if v.Kind == VObj {
			obj := in.heap.Get(v.H)
			switch obj.Kind {
			case ObjString:
				return intValue(int64(len([]rune(obj.Str)))), nil
			case ObjList:
				return intValue(int64(len(obj.List))), nil
			}
		}
		return Value{}, &RuntimeError{Msg: "len expects a string or list", Span: call.Span}

	case "clone":
		v, err := in.evalExpr(call.Args[0], fr)
		if err != nil {
			return Value{}, err
		}
		return in.cloneValue(deref(v)), nil

	case "push":
		target, err := in.evalExpr(call.Args[0], fr)
		if err != nil {
			return Value{}, err
		}
		elem, err := in.evalMove(call.Args[1], fr)
		if err != nil {
			return Value{}, err
		}
		target = deref(target)
		if target.Kind != VObj {
			return Value{}, &RuntimeError{Msg: "push expects a list", Span: call.Span}
		}
		obj := in.heap.Get(target.H)
		if obj.Kind != ObjList {
			return Value{}, &RuntimeError{Msg: "push expects a list", Span: call.Span}
		}
		obj.List = append(obj.List, elem)
		return unitValue(), nil
	}
	return Value{}, &RuntimeError{Msg: fmt.Sprintf("unknown builtin '%s'", name), Span: call.Span}
}

// cloneValue deep-copies a value. Heap payloads get fresh handles so the
// clone's lifetime is independent of the original's.
func (in *Interp) cloneValue(v Value) Value {
	switch v.Kind {
	case VObj:
		obj := in.heap.Get(v.H)
		switch obj.Kind {
		case ObjString:
			return objValue(in.heap.AllocString(obj.Str))
		case ObjList:
			elems := make([]Value, 0, len(obj.List))
			for _, e := range obj.List {
				elems = append(elems, in.cloneValue(e))
			}
			return objValue(in.heap.AllocList(elems))
		}
		return v
	case VTuple:
		elems := make([]Value, 0, len(v.Tuple))
		for _, e := range v.Tuple {
			elems = append(elems, in.cloneValue(e))
		}
		return Value{Kind: VTuple, Tuple: elems}
	default:
		return v
	}
}
