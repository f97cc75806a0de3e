package ast

import (
	"rill/internal/source"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprLit
	ExprUnary
	ExprBinary
	ExprAssign
	ExprCall
	ExprIndex
	ExprSlice
	ExprList
	ExprTuple
	ExprGroup
)

// Expr is the header record; the per-kind data lives in its payload arena.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type UnaryOp uint8

const (
	UnaryInvalid UnaryOp = iota
	UnaryNeg             // -e
	UnaryNot             // !e
	UnaryRef             // &e
	UnaryRefMut          // &mut e
	UnaryDeref           // *e
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryRef:
		return "&"
	case UnaryRefMut:
		return "&mut"
	case UnaryDeref:
		return "*"
	default:
		return "<invalid>"
	}
}

type BinaryOp uint8

const (
	BinaryInvalid BinaryOp = iota
	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryRem
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
	BinaryAnd
	BinaryOr
)

var binaryOpNames = map[BinaryOp]string{
	BinaryAdd: "+",
	BinarySub: "-",
	BinaryMul: "*",
	BinaryDiv: "/",
	BinaryRem: "%",
	BinaryEq:  "==",
	BinaryNe:  "!=",
	BinaryLt:  "<",
	BinaryLe:  "<=",
	BinaryGt:  ">",
	BinaryGe:  ">=",
	BinaryAnd: "&&",
	BinaryOr:  "||",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpNames[op]; ok {
		return s
	}
	return "<invalid>"
}

type LitKind uint8

const (
	LitInvalid LitKind = iota
	LitInt
	LitFloat
	LitChar
	LitString
	LitBool
)

type IdentExpr struct {
	Name source.StringID
	Span source.Span
}

type LitExpr struct {
	Kind LitKind
	// Text is the raw source text of the literal; decoding happens later.
	Text source.StringID
	Span source.Span
}

type UnaryExpr struct {
	Op      UnaryOp
	Operand ExprID
	Span    source.Span
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
	Span  source.Span
}

// AssignExpr covers both `place = value` and indexed stores.
type AssignExpr struct {
	Target ExprID
	Value  ExprID
	Span   source.Span
}

type CallExpr struct {
	Callee ExprID
	Args   []ExprID
	Span   source.Span
}

type IndexExpr struct {
	Target ExprID
	Index  ExprID
	Span   source.Span
}

// SliceExpr is `target[lo..hi]`; Lo/Hi may be NoExprID for open ends.
type SliceExpr struct {
	Target ExprID
	Lo     ExprID
	Hi     ExprID
	Span   source.Span
}

type ListExpr struct {
	Elems []ExprID
	Span  source.Span
}

type TupleExpr struct {
	Elems []ExprID
	Span  source.Span
}

type GroupExpr struct {
	Inner ExprID
	Span  source.Span
}
