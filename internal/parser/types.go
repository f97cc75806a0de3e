package parser

import (
	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/token"
)

// parseType parses a syntactic type:
//
//	Type = Ident | "[" Type "]" | "(" [Type {"," Type}] ")" | "&" ["mut"] Type
func (p *Parser) parseType() (ast.TypeID, bool) {
	switch p.lx.Peek().Kind {
	case token.Ident:
		tok := p.advance()
		return p.arenas.Types.NewName(p.arenas.Intern(tok.Text), tok.Span), true

	case token.LBracket:
		open := p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after element type"); !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.NewList(elem, open.Span.Cover(p.lastSpan)), true

	case token.LParen:
		open := p.advance()
		if p.at(token.RParen) {
			p.advance()
			return p.arenas.Types.NewUnit(open.Span.Cover(p.lastSpan)), true
		}
		var elems []ast.TypeID
		for {
			elem, ok := p.parseType()
			if !ok {
				return ast.NoTypeID, false
			}
			elems = append(elems, elem)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' in tuple type"); !ok {
			return ast.NoTypeID, false
		}
		span := open.Span.Cover(p.lastSpan)
		if len(elems) == 1 {
			// (T) is just T in parentheses, not a 1-tuple.
			return elems[0], true
		}
		return p.arenas.Types.NewTuple(elems, span), true

	case token.Amp:
		amp := p.advance()
		isMut := false
		if p.at(token.KwMut) {
			p.advance()
			isMut = true
		}
		inner, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.NewRef(inner, isMut, amp.Span.Cover(p.lastSpan)), true

	default:
		p.err(diag.SynExpectType, "expected a type")
		return ast.NoTypeID, false
	}
}
