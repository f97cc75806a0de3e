package interp

import (
	"fmt"

	"rill/internal/ast"
	"rill/internal/source"
)

func (in *Interp) evalBinary(exprID ast.ExprID, fr *frame) (Value, error) {
	bin, _ := in.arenas.Exprs.Binary(exprID)

	lv, err := in.evalExpr(bin.Left, fr)
	if err != nil {
		return Value{}, err
	}

	// && and || short-circuit.
	if bin.Op == ast.BinaryAnd || bin.Op == ast.BinaryOr {
		l := deref(lv)
		if bin.Op == ast.BinaryAnd && !l.Bool {
			return boolValue(false), nil
		}
		if bin.Op == ast.BinaryOr && l.Bool {
			return boolValue(true), nil
		}
		rv, err := in.evalExpr(bin.Right, fr)
		if err != nil {
			return Value{}, err
		}
		return boolValue(deref(rv).Bool), nil
	}

	rv, err := in.evalExpr(bin.Right, fr)
	if err != nil {
		return Value{}, err
	}
	l, r := deref(lv), deref(rv)

	switch bin.Op {
	case ast.BinaryAdd, ast.BinarySub, ast.BinaryMul, ast.BinaryDiv, ast.BinaryRem:
		return in.arith(bin, l, r, fr)

	case ast.BinaryEq, ast.BinaryNe:
		eq := in.valuesEqual(l, r)
		if bin.Op == ast.BinaryNe {
			eq = !eq
		}
		return boolValue(eq), nil

	case ast.BinaryLt, ast.BinaryLe, ast.BinaryGt, ast.BinaryGe:
		cmp, err := in.compare(l, r, bin.Span)
		if err != nil {
			return Value{}, err
		}
		switch bin.Op {
		case ast.BinaryLt:
			return boolValue(cmp < 0), nil
		case ast.BinaryLe:
			return boolValue(cmp <= 0), nil
		case ast.BinaryGt:
			return boolValue(cmp > 0), nil
		default:
			return boolValue(cmp >= 0), nil
		}
	}
	return Value{}, &RuntimeError{Msg: "unsupported operator", Span: bin.Span}
}

// arith consumes its operands: concatenation frees both source strings.
func (in *Interp) arith(bin *ast.BinaryExpr, l, r Value, fr *frame) (Value, error) {
	if l.Kind == VObj && r.Kind == VObj && bin.Op == ast.BinaryAdd {
		lo, ro := in.heap.Get(l.H), in.heap.Get(r.H)
		if lo.Kind == ObjString && ro.Kind == ObjString {
			out := in.heap.AllocString(lo.Str + ro.Str)
			in.moveIfIdent(bin.Left, fr)
			in.moveIfIdent(bin.Right, fr)
			in.freeValue(l)
			in.freeValue(r)
			return objValue(out), nil
		}
	}
	if l.Kind == VInt && r.Kind == VInt {
		switch bin.Op {
		case ast.BinaryAdd:
			return intValue(l.Int + r.Int), nil
		case ast.BinarySub:
			return intValue(l.Int - r.Int), nil
		case ast.BinaryMul:
			return intValue(l.Int * r.Int), nil
		case ast.BinaryDiv:
			if r.Int == 0 {
				return Value{}, &RuntimeError{Msg: "division by zero", Span: bin.Span}
			}
			return intValue(l.Int / r.Int), nil
		case ast.BinaryRem:
			if r.Int == 0 {
				return Value{}, &RuntimeError{Msg: "division by zero", Span: bin.Span}
			}
			return intValue(l.Int % r.Int), nil
		}
	}
	if l.Kind == VFloat && r.Kind == VFloat {
		switch bin.Op {
		case ast.BinaryAdd:
			return floatValue(l.Float + r.Float), nil
		case ast.BinarySub:
			return floatValue(l.Float - r.Float), nil
		case ast.BinaryMul:
			return floatValue(l.Float * r.Float), nil
		case ast.BinaryDiv:
			return floatValue(l.Float / r.Float), nil
		}
	}
	return Value{}, &RuntimeError{
		Msg:  fmt.Sprintf("operator '%s' not defined for these values", bin.Op),
		Span: bin.Span,
	}
}

func (in *Interp) valuesEqual(l, r Value) bool {
	l, r = deref(l), deref(r)
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case VUnit:
		return true
	case VInt, VUint:
		return l.Int == r.Int
	case VFloat:
		return l.Float == r.Float
	case VBool:
		return l.Bool == r.Bool
	case VChar:
		return l.Char == r.Char
	case VObj:
		lo, ro := in.heap.Get(l.H), in.heap.Get(r.H)
		if lo.Kind != ro.Kind {
			return false
		}
		if lo.Kind == ObjString {
			return lo.Str == ro.Str
		}
		if len(lo.List) != len(ro.List) {
			return false
		}
		for i := range lo.List {
			if !in.valuesEqual(lo.List[i], ro.List[i]) {
				return false
			}
		}
		return true
	case VTuple:
		if len(l.Tuple) != len(r.Tuple) {
			return false
		}
		for i := range l.Tuple {
			if !in.valuesEqual(l.Tuple[i], r.Tuple[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (in *Interp) compare(l, r Value, sp source.Span) (int, error) {
	switch {
	case l.Kind == VInt && r.Kind == VInt:
		return cmpOrdered(l.Int, r.Int), nil
	case l.Kind == VFloat && r.Kind == VFloat:
		return cmpOrdered(l.Float, r.Float), nil
	case l.Kind == VChar && r.Kind == VChar:
		return cmpOrdered(l.Char, r.Char), nil
	case l.Kind == VObj && r.Kind == VObj:
		lo, ro := in.heap.Get(l.H), in.heap.Get(r.H)
		if lo.Kind == ObjString && ro.Kind == ObjString {
			return cmpOrdered(lo.Str, ro.Str), nil
		}
	}
	return 0, &RuntimeError{Msg: "values are not ordered", Span: sp}
}

func cmpOrdered[T int64 | float64 | rune | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
