package sema

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var errBadLiteral = errors.New("malformed literal")

// DecodeStringLit turns the raw source text of a string literal, quotes
// included, into its value.
func DecodeStringLit(raw string) (string, error) {
	return decodeStringLit(raw)
}

func decodeStringLit(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", errBadLiteral
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		i++
		if i >= len(body) {
			return "", errBadLiteral
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			return "", errBadLiteral
		}
	}
	return b.String(), nil
}

// DecodeCharLit turns the raw source text of a character literal into its
// rune value.
func DecodeCharLit(raw string) (rune, error) {
	if len(raw) < 3 || raw[0] != '\'' || raw[len(raw)-1] != '\'' {
		return 0, errBadLiteral
	}
	body := raw[1 : len(raw)-1]
	if body[0] == '\\' {
		if len(body) != 2 {
			return 0, errBadLiteral
		}
		switch body[1] {
		case 'n':
			return '\n', nil
		case 't':
			return '\t', nil
		case 'r':
			return '\r', nil
		case '0':
			return 0, nil
		case '\\':
			return '\\', nil
		case '\'':
			return '\'', nil
		case '"':
			return '"', nil
		}
		return 0, errBadLiteral
	}
	r, size := utf8.DecodeRuneInString(body)
	if r == utf8.RuneError || size != len(body) {
		return 0, errBadLiteral
	}
	return r, nil
}
