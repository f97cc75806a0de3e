package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the catch-all for unclassified failures.
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Syntactic
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectSemicolon    Code = 2004
	SynExpectType         Code = 2005
	SynExpectExpression   Code = 2006
	SynUnclosedDelimiter  Code = 2007
	SynBadLiteral         Code = 2008

	// Semantic (names and types)
	SemDuplicateSymbol  Code = 3001
	SemUnresolvedSymbol Code = 3002
	SemTypeMismatch     Code = 3003
	SemNotCallable      Code = 3004
	SemArityMismatch    Code = 3005
	SemAssignImmutable  Code = 3006
	SemUnknownType      Code = 3007
	SemNotIndexable     Code = 3008
	SemMissingMain      Code = 3009
	SemBorrowNonPlace   Code = 3010
	SemBorrowImmutable  Code = 3011

	// Ownership discipline: the closed violation set.
	OwnUseAfterMove   Code = 4001
	OwnAliasConflict  Code = 4002
	OwnDoubleMutBorrow Code = 4003
	OwnDanglingRef    Code = 4004
	OwnOutOfRange     Code = 4005

	// IO
	IOLoadFileError Code = 5001

	// Project
	ProjManifestError  Code = 6001
	ProjManifestFields Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown error",
	LexUnknownChar:              "unknown character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed numeric literal",
	LexUnterminatedChar:         "unterminated character literal",

	SynUnexpectedToken:    "unexpected token",
	SynUnexpectedTopLevel: "unexpected top-level construct",
	SynExpectIdentifier:   "expected identifier",
	SynExpectSemicolon:    "expected ';'",
	SynExpectType:         "expected type",
	SynExpectExpression:   "expected expression",
	SynUnclosedDelimiter:  "unclosed delimiter",
	SynBadLiteral:         "malformed literal",

	SemDuplicateSymbol:  "duplicate symbol in scope",
	SemUnresolvedSymbol: "unresolved symbol",
	SemTypeMismatch:     "type mismatch",
	SemNotCallable:      "expression is not callable",
	SemArityMismatch:    "wrong number of arguments",
	SemAssignImmutable:  "assignment to immutable binding",
	SemUnknownType:      "unknown type name",
	SemNotIndexable:     "type cannot be indexed or sliced",
	SemMissingMain:      "missing 'main' function",
	SemBorrowNonPlace:   "cannot borrow a temporary value",
	SemBorrowImmutable:  "mutable borrow of immutable binding",

	OwnUseAfterMove:    "use of moved value",
	OwnAliasConflict:   "conflicting borrow of value",
	OwnDoubleMutBorrow: "second mutable borrow of value",
	OwnDanglingRef:     "reference outlives the value it points to",
	OwnOutOfRange:      "slice range out of bounds",

	IOLoadFileError: "cannot load source file",

	ProjManifestError:  "cannot read project manifest",
	ProjManifestFields: "invalid project manifest field",
}

// ID renders the stable, range-prefixed identifier, e.g. OWN4001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("OWN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

// Title returns the human description registered for the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsOwnership reports whether the code belongs to the closed ownership set.
func (c Code) IsOwnership() bool {
	return c >= 4000 && c < 5000
}
