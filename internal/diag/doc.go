// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form, a short message, the primary source.Span, and optional
// Notes pointing at related spans ("value moved here"). Producers emit through
// a Reporter so they stay decoupled from storage; BagReporter aggregates into
// a Bag, which supports sorting, deduplication, and merging.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
//
// The five ownership codes (OwnUseAfterMove, OwnAliasConflict,
// OwnDoubleMutBorrow, OwnDanglingRef, OwnOutOfRange) form a closed set: a
// program that triggers any of them is rejected as a whole, never admitted to
// execution with partial results.
package diag
