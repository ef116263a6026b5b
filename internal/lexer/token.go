// Package lexer turns source text into a token stream with spans.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/uidom/uidom/internal/source"
)

// Kind is a token's discriminated kind, per the closed token set: Name,
// Enum, String, Number, HexColor, the handful of promoted keywords,
// single-character punctuation, Err, and a trailing Eof.
type Kind int

const (
	Err Kind = iota
	Eof

	Name
	Enum   // .Name with no intervening space
	String // "..."
	Number // digits, optional fractional part, optional suffix
	HexColor

	True
	False
	Pub
	Import
	As
	For
	In
	If

	LBrace
	RBrace
	LParen
	RParen
	Colon
	Semicolon
	Plus
	Minus
	Asterisk
	Period
	Comma
	Slash
)

var kindNames = map[Kind]string{
	Err: "<err>", Eof: "<eof>",
	Name: "name", Enum: "enum", String: "string", Number: "number", HexColor: "hex color",
	True: "true", False: "false", Pub: "pub", Import: "import", As: "as", For: "for", In: "in", If: "if",
	LBrace: "{", RBrace: "}", LParen: "(", RParen: ")", Colon: ":", Semicolon: ";",
	Plus: "+", Minus: "-", Asterisk: "*", Period: ".", Comma: ",", Slash: "/",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// keywords promotes a bare Name to one of the handful of reserved words;
// anything else stays a plain Name.
var keywords = map[string]Kind{
	"true": True, "false": False, "pub": Pub,
	"import": Import, "as": As, "for": For, "in": In, "if": If,
}

// Token is one lexeme: its kind, the literal text that produced it, and
// the span it occupies. Number tokens additionally carry IsFloat and
// Suffix; Enum tokens carry Text without the leading '.'.
type Token struct {
	Kind    Kind
	Text    string
	Span    source.Span
	IsFloat bool
	Suffix  string
}

// Display renders the token the way a re-emitted lexeme stream would, so
// that tokenizing Display(tok) for every tok in a stream reproduces a
// source that tokenizes identically modulo whitespace.
func (t Token) Display() string {
	switch t.Kind {
	case String:
		return strconv.Quote(t.Text)
	case Enum:
		return "." + t.Text
	case Number:
		s := t.Text
		if t.Suffix != "" {
			s += t.Suffix
		}
		return s
	case HexColor:
		return "#" + t.Text
	case Err:
		return t.Text
	case Eof:
		return ""
	default:
		if s, ok := kindNames[t.Kind]; ok && t.Kind >= LBrace {
			return s
		}
		return t.Text
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) @ %s", t.Kind, t.Text, t.Span)
}
