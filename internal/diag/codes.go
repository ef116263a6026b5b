// Package diag provides the diagnostic taxonomy and rendering used across
// every phase of the compiler: lexing, parsing, and name/type resolution.
// The RUN### codes name the property runtime's error conditions, but
// internal/property reports those as plain Go errors, not Diagnostics.
package diag

// Error/warning codes, organized by phase. Each constant stands for one
// specific diagnosable condition so tooling can key off the code instead
// of matching message text.
const (
	// Lexical errors (LEX###)
	LEX001 = "LEX001" // illegal character
	LEX002 = "LEX002" // malformed hex color (bad digit count)
	LEX003 = "LEX003" // unterminated string literal
	LEX004 = "LEX004" // unknown numeric suffix

	// Syntactic errors (SYN###)
	SYN001 = "SYN001" // expected X, found Y
	SYN002 = "SYN002" // property declarations must occur before any content definitions
	SYN003 = "SYN003" // the component must have a single root element
	SYN004 = "SYN004" // if/for not permitted on the root element
	SYN005 = "SYN005" // duplicate property declaration
	SYN006 = "SYN006" // duplicate property assignment

	// Resolution errors (RES###)
	RES001 = "RES001" // unknown name
	RES002 = "RES002" // non-component used as element tag
	RES003 = "RES003" // property not found
	RES004 = "RES004" // non-callable expression called
	RES005 = "RES005" // arity mismatch
	RES006 = "RES006" // enum literal outside of an enum-typed context
	RES007 = "RES007" // unrecognized enum member
	RES008 = "RES008" // name has no child properties
	RES009 = "RES009" // shadowing a builtin or top-scope name

	// Type errors (TYP###)
	TYP001 = "TYP001" // expected T, found U
	TYP002 = "TYP002" // non-iterable expression in for...in
	TYP003 = "TYP003" // preset clobbers an explicitly assigned sibling property
	TYP004 = "TYP004" // child not permitted by the containing element's child rules
	TYP005 = "TYP005" // slot filter conflict

	// Runtime (property graph) errors (RUN###)
	RUN001 = "RUN001" // rebind attempted without unbind first
	RUN002 = "RUN002" // mutation attempted on a read-only cell
)
