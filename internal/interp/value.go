package interp

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ValueKind enumerates runtime value shapes.
type ValueKind uint8

const (
	VInvalid ValueKind = iota
	VUnit
	VInt
	VUint
	VFloat
	VBool
	VChar
	// VObj owns a heap object (string or list).
	VObj
	// VTuple is an inline aggregate.
	VTuple
	// VRef points at another binding's cell.
	VRef
)

// Value is one runtime value. Scalars are stored inline, heap-owning values
// hold a handle, references hold the cell they alias.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
	Char  rune
	H     Handle
	Tuple []Value
	Cell  *Cell
}

// Cell is one storage slot: a binding or a parameter.
type Cell struct {
	Val Value
}

func unitValue() Value           { return Value{Kind: VUnit} }
func intValue(n int64) Value     { return Value{Kind: VInt, Int: n} }
func floatValue(f float64) Value { return Value{Kind: VFloat, Float: f} }
func boolValue(b bool) Value     { return Value{Kind: VBool, Bool: b} }
func charValue(r rune) Value     { return Value{Kind: VChar, Char: r} }
func objValue(h Handle) Value    { return Value{Kind: VObj, H: h} }
func refValue(c *Cell) Value     { return Value{Kind: VRef, Cell: c} }

// deref follows reference chains to the underlying value.
func deref(v Value) Value {
	for v.Kind == VRef {
		v = v.Cell.Val
	}
	return v
}

// format renders a value for print. Strings pass through NFC so combining
// sequences compare and display predictably.
func (in *Interp) format(v Value) string {
	v = deref(v)
	switch v.Kind {
	case VUnit:
		return "()"
	case VInt:
		return strconv.FormatInt(v.Int, 10)
	case VUint:
		return strconv.FormatUint(uint64(v.Int), 10)
	case VFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case VBool:
		return strconv.FormatBool(v.Bool)
	case VChar:
		return string(v.Char)
	case VObj:
		obj := in.heap.Get(v.H)
		switch obj.Kind {
		case ObjString:
			return norm.NFC.String(obj.Str)
		case ObjList:
			var b strings.Builder
			b.WriteByte('[')
			for i, e := range obj.List {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(in.format(e))
			}
			b.WriteByte(']')
			return b.String()
		}
		return "<object>"
	case VTuple:
		var b strings.Builder
		b.WriteByte('(')
		for i, e := range v.Tuple {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(in.format(e))
		}
		b.WriteByte(')')
		return b.String()
	default:
		return fmt.Sprintf("<invalid %d>", v.Kind)
	}
}
