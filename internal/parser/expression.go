package parser

import (
	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/token"
)

// Binary operator precedence; higher binds tighter.
const (
	precAssignment     = 1 // = (right-assoc)
	precLogicalOr      = 2 // ||
	precLogicalAnd     = 3 // &&
	precEquality       = 4 // == !=
	precComparison     = 5 // < <= > >=
	precAdditive       = 6 // + -
	precMultiplicative = 7 // * / %
)

// binaryPrec returns (precedence, right-associative) for a binary operator
// token, or (-1, false) when kind is not binary.
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.Assign:
		return precAssignment, true
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	default:
		return -1, false
	}
}

func binaryOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Plus:
		return ast.BinaryAdd
	case token.Minus:
		return ast.BinarySub
	case token.Star:
		return ast.BinaryMul
	case token.Slash:
		return ast.BinaryDiv
	case token.Percent:
		return ast.BinaryRem
	case token.EqEq:
		return ast.BinaryEq
	case token.BangEq:
		return ast.BinaryNe
	case token.Lt:
		return ast.BinaryLt
	case token.LtEq:
		return ast.BinaryLe
	case token.Gt:
		return ast.BinaryGt
	case token.GtEq:
		return ast.BinaryGe
	case token.AndAnd:
		return ast.BinaryAnd
	case token.OrOr:
		return ast.BinaryOr
	default:
		return ast.BinaryInvalid
	}
}

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinary(0)
}

// parseBinary is the precedence-climbing loop.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		kind := p.lx.Peek().Kind
		prec, rightAssoc := binaryPrec(kind)
		if prec < 0 || prec < minPrec {
			return left, true
		}
		p.advance()

		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, ok := p.parseBinary(nextMin)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		if kind == token.Assign {
			left = p.arenas.Exprs.NewAssign(left, right, span)
		} else {
			left = p.arenas.Exprs.NewBinary(binaryOp(kind), left, right, span)
		}
	}
}

// parseUnary handles prefix operators: - ! & &mut *.
func (p *Parser) parseUnary() (ast.ExprID, bool) {
	var op ast.UnaryOp
	switch p.lx.Peek().Kind {
	case token.Minus:
		op = ast.UnaryNeg
	case token.Bang:
		op = ast.UnaryNot
	case token.Star:
		op = ast.UnaryDeref
	case token.Amp:
		opTok := p.advance()
		op = ast.UnaryRef
		if p.at(token.KwMut) {
			p.advance()
			op = ast.UnaryRefMut
		}
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		span := opTok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
		return p.arenas.Exprs.NewUnary(op, operand, span), true
	default:
		return p.parsePostfix()
	}
	opTok := p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	span := opTok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(op, operand, span), true
}

// parsePostfix handles calls, indexing and slicing after a primary.
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.LParen:
			p.advance()
			var args []ast.ExprID
			for !p.at(token.RParen) {
				if p.at(token.EOF) {
					p.err(diag.SynUnclosedDelimiter, "unclosed '(' in call")
					return ast.NoExprID, false
				}
				arg, ok := p.parseExpr()
				if !ok {
					return ast.NoExprID, false
				}
				args = append(args, arg)
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after arguments"); !ok {
				return ast.NoExprID, false
			}
			span := p.arenas.Exprs.Get(expr).Span.Cover(p.lastSpan)
			expr = p.arenas.Exprs.NewCall(expr, args, span)

		case token.LBracket:
			expr, ok = p.parseIndexOrSlice(expr)
			if !ok {
				return ast.NoExprID, false
			}

		default:
			return expr, true
		}
	}
}

// parseIndexOrSlice parses `target[index]` or `target[lo..hi]` where either
// range endpoint may be omitted.
func (p *Parser) parseIndexOrSlice(target ast.ExprID) (ast.ExprID, bool) {
	p.advance() // [

	lo := ast.NoExprID
	if !p.at(token.DotDot) {
		var ok bool
		lo, ok = p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
	}

	if p.at(token.DotDot) {
		p.advance()
		hi := ast.NoExprID
		if !p.at(token.RBracket) {
			var ok bool
			hi, ok = p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after slice range"); !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(target).Span.Cover(p.lastSpan)
		return p.arenas.Exprs.NewSlice(target, lo, hi, span), true
	}

	if !lo.IsValid() {
		p.err(diag.SynExpectExpression, "expected index expression")
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after index"); !ok {
		return ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(target).Span.Cover(p.lastSpan)
	return p.arenas.Exprs.NewIndex(target, lo, span), true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		tok := p.advance()
		return p.arenas.Exprs.NewIdent(p.arenas.Intern(tok.Text), tok.Span), true

	case token.IntLit:
		tok := p.advance()
		return p.arenas.Exprs.NewLit(ast.LitInt, p.arenas.Intern(tok.Text), tok.Span), true
	case token.FloatLit:
		tok := p.advance()
		return p.arenas.Exprs.NewLit(ast.LitFloat, p.arenas.Intern(tok.Text), tok.Span), true
	case token.CharLit:
		tok := p.advance()
		return p.arenas.Exprs.NewLit(ast.LitChar, p.arenas.Intern(tok.Text), tok.Span), true
	case token.StringLit:
		tok := p.advance()
		return p.arenas.Exprs.NewLit(ast.LitString, p.arenas.Intern(tok.Text), tok.Span), true
	case token.KwTrue, token.KwFalse:
		tok := p.advance()
		return p.arenas.Exprs.NewLit(ast.LitBool, p.arenas.Intern(tok.Text), tok.Span), true

	case token.LParen:
		open := p.advance()
		if p.at(token.RParen) {
			// () is the empty tuple.
			p.advance()
			return p.arenas.Exprs.NewTuple(nil, open.Span.Cover(p.lastSpan)), true
		}
		first, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if p.at(token.Comma) {
			elems := []ast.ExprID{first}
			for p.at(token.Comma) {
				p.advance()
				if p.at(token.RParen) {
					break
				}
				elem, ok := p.parseExpr()
				if !ok {
					return ast.NoExprID, false
				}
				elems = append(elems, elem)
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after tuple"); !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewTuple(elems, open.Span.Cover(p.lastSpan)), true
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(first, open.Span.Cover(p.lastSpan)), true

	case token.LBracket:
		open := p.advance()
		var elems []ast.ExprID
		for !p.at(token.RBracket) {
			if p.at(token.EOF) {
				p.err(diag.SynUnclosedDelimiter, "unclosed '[' in list literal")
				return ast.NoExprID, false
			}
			elem, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			elems = append(elems, elem)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after list literal"); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewList(elems, open.Span.Cover(p.lastSpan)), true

	default:
		p.err(diag.SynExpectExpression, "expected expression")
		return ast.NoExprID, false
	}
}
