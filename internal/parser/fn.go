package parser

import (
	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/token"
)

// parseFnItem parses `fn name(params) [-> Type] { ... }`.
func (p *Parser) parseFnItem() (ast.ItemID, bool) {
	fnTok := p.advance() // fn

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name after 'fn'")
	if !ok {
		return ast.NoItemID, false
	}
	name := p.arenas.Intern(nameTok.Text)

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.NoItemID, false
	}
	params, ok := p.parseFnParams()
	if !ok {
		return ast.NoItemID, false
	}

	result := ast.NoTypeID
	if p.at(token.Arrow) {
		p.advance()
		result, ok = p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
	}

	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}

	span := fnTok.Span.Cover(p.lastSpan)
	id := p.arenas.Items.NewFn(name, params, result, body, span, nameTok.Span)
	return id, true
}

// parseFnParams parses the parameter list up to and including ')'.
func (p *Parser) parseFnParams() ([]ast.FnParamID, bool) {
	var params []ast.FnParamID
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			p.err(diag.SynUnclosedDelimiter, "unclosed '(' in parameter list")
			return nil, false
		}
		isMut := false
		if p.at(token.KwMut) {
			p.advance()
			isMut = true
		}
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after parameter name"); !ok {
			return nil, false
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		name := p.arenas.Intern(nameTok.Text)
		span := nameTok.Span.Cover(p.lastSpan)
		params = append(params, p.arenas.Items.NewParam(name, typ, isMut, span, nameTok.Span))

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after parameters"); !ok {
		return nil, false
	}
	return params, true
}
